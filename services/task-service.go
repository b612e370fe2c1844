package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"taskmanager/models"

	"github.com/google/uuid"
)

type TaskService struct {
	store *Store
}

func NewTaskService(store *Store) *TaskService {
	return &TaskService{store: store}
}

func (s *TaskService) CreateTask(draft models.TaskDraft) (*models.Task, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, &models.ValidationError{Field: "title", Reason: "title must not be empty"}
	}
	if draft.OwnerID == "" {
		return nil, &models.ValidationError{Field: "ownerId", Reason: "ownerId must not be empty"}
	}
	if draft.Priority == "" {
		draft.Priority = models.PriorityMedium
	}
	if !draft.Priority.Valid() {
		return nil, &models.ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", draft.Priority)}
	}

	task := models.Task{
		ID:          uuid.New().String(),
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    draft.Priority,
		Deadline:    draft.Deadline,
		CategoryID:  draft.CategoryID,
		OwnerID:     draft.OwnerID,
		CreatedAt:   time.Now().UTC(),
	}

	s.store.mu.Lock()
	s.store.tasks[task.ID] = task
	s.store.mu.Unlock()

	return &task, nil
}

// ListTasks returns the owner's tasks newest first, matching the order the
// client keeps as its base order.
func (s *TaskService) ListTasks(ownerID string) []models.Task {
	s.store.mu.RLock()
	tasks := make([]models.Task, 0)
	for _, task := range s.store.tasks {
		if task.OwnerID == ownerID {
			tasks = append(tasks, task)
		}
	}
	s.store.mu.RUnlock()

	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID > tasks[j].ID
	})
	return tasks
}

func (s *TaskService) UpdateTask(id, ownerID string, patch models.TaskPatch) (*models.Task, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	task, ok := s.store.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil, &models.NotFoundError{Kind: "task", ID: id}
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, &models.ValidationError{Field: "title", Reason: "title must not be empty"}
		}
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return nil, &models.ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", *patch.Priority)}
		}
		task.Priority = *patch.Priority
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	if patch.Deadline != nil {
		task.Deadline = patch.Deadline
	}
	if patch.CategoryID != nil {
		task.CategoryID = *patch.CategoryID
	}

	s.store.tasks[id] = task
	return &task, nil
}

func (s *TaskService) DeleteTask(id, ownerID string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	task, ok := s.store.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return &models.NotFoundError{Kind: "task", ID: id}
	}
	delete(s.store.tasks, id)
	return nil
}
