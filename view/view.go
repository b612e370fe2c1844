package view

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"taskmanager/gateway"
	"taskmanager/models"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

type SortKey string

const (
	SortCreated  SortKey = "created"
	SortDeadline SortKey = "deadline"
	SortPriority SortKey = "priority"
)

// Query is the presentation state a derivation depends on.
type Query struct {
	Search string
	Filter Filter
	Sort   SortKey
}

// CategoryIndex caches the current user's categories and resolves id lookups
// for joining display metadata onto tasks. Read-only from the view's side;
// category CRUD happens elsewhere.
type CategoryIndex struct {
	gateway gateway.TaskGateway

	mu   sync.RWMutex
	byID map[string]models.Category
	list []models.Category
}

func NewCategoryIndex(gw gateway.TaskGateway) *CategoryIndex {
	return &CategoryIndex{gateway: gw, byID: make(map[string]models.Category)}
}

// Reload refetches the category list. Called whenever the current user
// changes. On failure the previous cache is kept.
func (ci *CategoryIndex) Reload(ctx context.Context, ownerID string) error {
	categories, err := ci.gateway.ListCategories(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	byID := make(map[string]models.Category, len(categories))
	for _, category := range categories {
		byID[category.ID] = category
	}

	ci.mu.Lock()
	ci.byID = byID
	ci.list = categories
	ci.mu.Unlock()
	return nil
}

// ByID resolves a category id; ok is false when the reference dangles.
func (ci *CategoryIndex) ByID(id string) (models.Category, bool) {
	ci.mu.RLock()
	defer ci.mu.RUnlock()
	category, ok := ci.byID[id]
	return category, ok
}

// Categories returns a copy of the cached list.
func (ci *CategoryIndex) Categories() []models.Category {
	ci.mu.RLock()
	defer ci.mu.RUnlock()
	out := make([]models.Category, len(ci.list))
	copy(out, ci.list)
	return out
}

// Derive projects the task set into its displayed form: search, then filter,
// then a stable sort, with category metadata joined on. Pure given its
// arguments; recomputed on every change rather than incrementally patched.
func Derive(tasks []models.Task, categories *CategoryIndex, query Query) []models.DisplayTask {
	needle := strings.ToLower(strings.TrimSpace(query.Search))

	out := make([]models.DisplayTask, 0, len(tasks))
	for _, task := range tasks {
		if needle != "" &&
			!strings.Contains(strings.ToLower(task.Title), needle) &&
			!strings.Contains(strings.ToLower(task.Description), needle) {
			continue
		}

		switch query.Filter {
		case FilterActive:
			if task.Completed {
				continue
			}
		case FilterCompleted:
			if !task.Completed {
				continue
			}
		}

		out = append(out, resolve(task, categories))
	}

	switch query.Sort {
	case SortDeadline:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].Deadline, out[j].Deadline
			// tasks without a deadline sort after every task that has one
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return a.Before(*b)
		})
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		})
	default:
		// newest first
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}

	return out
}

// resolve joins category display metadata onto a task. A dangling category
// reference degrades to the uncategorized marker instead of failing.
func resolve(task models.Task, categories *CategoryIndex) models.DisplayTask {
	display := models.DisplayTask{Task: task, CategoryName: models.UncategorizedName}
	if task.CategoryID == "" || categories == nil {
		return display
	}
	if category, ok := categories.ByID(task.CategoryID); ok {
		display.CategoryName = category.Name
		display.CategoryColor = category.Color
	}
	return display
}
