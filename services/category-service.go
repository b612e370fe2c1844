package services

import (
	"sort"
	"strings"
	"time"

	"taskmanager/models"

	"github.com/google/uuid"
)

type CategoryService struct {
	store *Store
}

func NewCategoryService(store *Store) *CategoryService {
	return &CategoryService{store: store}
}

func (s *CategoryService) CreateCategory(category models.Category) (*models.Category, error) {
	if strings.TrimSpace(category.Name) == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "name must not be empty"}
	}
	if category.OwnerID == "" {
		return nil, &models.ValidationError{Field: "ownerId", Reason: "ownerId must not be empty"}
	}
	if category.Color == "" {
		category.Color = models.DefaultCategoryColor
	}

	category.ID = uuid.New().String()
	category.CreatedAt = time.Now().UTC()

	s.store.mu.Lock()
	s.store.categories[category.ID] = category
	s.store.mu.Unlock()

	return &category, nil
}

func (s *CategoryService) ListCategories(ownerID string) []models.Category {
	s.store.mu.RLock()
	categories := make([]models.Category, 0)
	for _, category := range s.store.categories {
		if category.OwnerID == ownerID {
			categories = append(categories, category)
		}
	}
	s.store.mu.RUnlock()

	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories
}

func (s *CategoryService) UpdateCategory(id, ownerID string, patch models.CategoryPatch) (*models.Category, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	category, ok := s.store.categories[id]
	if !ok || category.OwnerID != ownerID {
		return nil, &models.NotFoundError{Kind: "category", ID: id}
	}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, &models.ValidationError{Field: "name", Reason: "name must not be empty"}
		}
		category.Name = *patch.Name
	}
	if patch.Color != nil {
		category.Color = *patch.Color
	}
	if patch.Icon != nil {
		category.Icon = *patch.Icon
	}
	if patch.Description != nil {
		category.Description = *patch.Description
	}

	s.store.categories[id] = category
	return &category, nil
}

// DeleteCategory removes the category only. Tasks keep their categoryId as a
// dangling reference; the client view degrades them to uncategorized.
func (s *CategoryService) DeleteCategory(id, ownerID string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	category, ok := s.store.categories[id]
	if !ok || category.OwnerID != ownerID {
		return &models.NotFoundError{Kind: "category", ID: id}
	}
	delete(s.store.categories, id)
	return nil
}
