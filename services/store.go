package services

import (
	"sync"

	"taskmanager/models"
)

// Store is the shared in-memory state behind the local API server. It stands
// in for the remote store during development and tests; nothing here
// persists across restarts.
type Store struct {
	mu         sync.RWMutex
	users      map[string]models.User
	tasks      map[string]models.Task
	categories map[string]models.Category
}

func NewStore() *Store {
	return &Store{
		users:      make(map[string]models.User),
		tasks:      make(map[string]models.Task),
		categories: make(map[string]models.Category),
	}
}
