package services

import (
	"sort"

	"taskmanager/models"
)

// AdminStats is the overview block shown on the admin panel.
type AdminStats struct {
	TotalUsers      int `json:"totalUsers"`
	TotalTasks      int `json:"totalTasks"`
	CompletedTasks  int `json:"completedTasks"`
	TotalCategories int `json:"totalCategories"`
}

type AdminService struct {
	store *Store
}

func NewAdminService(store *Store) *AdminService {
	return &AdminService{store: store}
}

func (s *AdminService) Stats() AdminStats {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	stats := AdminStats{
		TotalUsers:      len(s.store.users),
		TotalTasks:      len(s.store.tasks),
		TotalCategories: len(s.store.categories),
	}
	for _, task := range s.store.tasks {
		if task.Completed {
			stats.CompletedTasks++
		}
	}
	return stats
}

func (s *AdminService) ListUsers() []models.User {
	s.store.mu.RLock()
	users := make([]models.User, 0, len(s.store.users))
	for _, user := range s.store.users {
		users = append(users, user)
	}
	s.store.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	return users
}

func (s *AdminService) ListAllTasks() []models.Task {
	s.store.mu.RLock()
	tasks := make([]models.Task, 0, len(s.store.tasks))
	for _, task := range s.store.tasks {
		tasks = append(tasks, task)
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

// DeleteUser removes the user together with everything they own.
func (s *AdminService) DeleteUser(id string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, ok := s.store.users[id]; !ok {
		return &models.NotFoundError{Kind: "user", ID: id}
	}
	delete(s.store.users, id)

	for taskID, task := range s.store.tasks {
		if task.OwnerID == id {
			delete(s.store.tasks, taskID)
		}
	}
	for categoryID, category := range s.store.categories {
		if category.OwnerID == id {
			delete(s.store.categories, categoryID)
		}
	}
	return nil
}

func (s *AdminService) DeleteTask(id string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, ok := s.store.tasks[id]; !ok {
		return &models.NotFoundError{Kind: "task", ID: id}
	}
	delete(s.store.tasks, id)
	return nil
}
