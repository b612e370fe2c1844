package collection

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"taskmanager/gateway"
	"taskmanager/models"
)

type EventKind string

const (
	EventSuccess EventKind = "success"
	EventError   EventKind = "error"
)

// Event is one transient feedback message for the UI (toast/snackbar).
type Event struct {
	Kind    EventKind
	Message string
}

// Notifier receives exactly one event per collection operation, on success
// and on failure alike.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Event)

func (f NotifierFunc) Notify(e Event) { f(e) }

// TaskCollection owns the authoritative in-memory set of the current user's
// tasks, ordered most-recent-first. The lock guards only local state; gateway
// calls run unlocked so independent mutations may overlap.
type TaskCollection struct {
	gateway  gateway.TaskGateway
	notifier Notifier

	mu      sync.RWMutex
	tasks   []models.Task
	ownerID string
	closed  bool
}

func New(gw gateway.TaskGateway, notifier Notifier) *TaskCollection {
	return &TaskCollection{gateway: gw, notifier: notifier}
}

// Load replaces the whole set with the remote store's tasks for ownerID. On
// failure the previous set is left untouched.
func (c *TaskCollection) Load(ctx context.Context, ownerID string) error {
	fetched, err := c.gateway.List(ctx, ownerID)
	if err != nil {
		c.notify(EventError, "Failed to load tasks")
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.tasks = fetched
	c.ownerID = ownerID
	c.mu.Unlock()

	c.notify(EventSuccess, "Tasks loaded")
	return nil
}

// Create validates the draft, sends it to the remote store and inserts the
// returned canonical task at the head of the set.
func (c *TaskCollection) Create(ctx context.Context, draft models.TaskDraft) (*models.Task, error) {
	if strings.TrimSpace(draft.Title) == "" {
		c.notify(EventError, "Task title cannot be empty")
		return nil, &models.ValidationError{Field: "title", Reason: "title must not be empty"}
	}
	if draft.Priority == "" {
		draft.Priority = models.PriorityMedium
	}
	if draft.OwnerID == "" {
		draft.OwnerID = c.OwnerID()
	}

	created, err := c.gateway.Create(ctx, draft)
	if err != nil {
		c.notify(EventError, "Failed to create task")
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return created, nil
	}
	c.tasks = append([]models.Task{*created}, c.tasks...)
	c.mu.Unlock()

	c.notify(EventSuccess, "Task added successfully")
	return created, nil
}

// Update sends a partial change for an existing task and replaces the stored
// task with the server's canonical result. The merged result is never guessed
// locally since the store may normalize fields.
func (c *TaskCollection) Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	if _, ok := c.Get(id); !ok {
		c.notify(EventError, "Task not found")
		return nil, &models.NotFoundError{Kind: "task", ID: id}
	}

	updated, err := c.gateway.Update(ctx, id, patch)
	if err != nil {
		c.notify(EventError, "Failed to update task")
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return updated, nil
	}
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks[i] = *updated
			break
		}
	}
	c.mu.Unlock()

	c.notify(EventSuccess, "Task updated successfully")
	return updated, nil
}

// ToggleCompletion flips the completed flag of an existing task.
func (c *TaskCollection) ToggleCompletion(ctx context.Context, id string) (*models.Task, error) {
	current, ok := c.Get(id)
	if !ok {
		c.notify(EventError, "Task not found")
		return nil, &models.NotFoundError{Kind: "task", ID: id}
	}
	toggled := !current.Completed
	return c.Update(ctx, id, models.TaskPatch{Completed: &toggled})
}

// Remove deletes a task from the remote store and, on success, from the set.
func (c *TaskCollection) Remove(ctx context.Context, id string) error {
	if _, ok := c.Get(id); !ok {
		c.notify(EventError, "Task not found")
		return &models.NotFoundError{Kind: "task", ID: id}
	}

	if err := c.gateway.Delete(ctx, id); err != nil {
		c.notify(EventError, "Failed to delete task")
		return fmt.Errorf("failed to delete task: %w", err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	c.notify(EventSuccess, "Task deleted successfully")
	return nil
}

// Get returns a copy of the task with the given id, if present.
func (c *TaskCollection) Get(id string) (models.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			return c.tasks[i], true
		}
	}
	return models.Task{}, false
}

// Snapshot returns a copy of the current set in base order.
func (c *TaskCollection) Snapshot() []models.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

func (c *TaskCollection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tasks)
}

func (c *TaskCollection) OwnerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ownerID
}

// Close marks the collection as torn down. Responses resolving afterwards are
// dropped instead of being applied to a stale view.
func (c *TaskCollection) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *TaskCollection) notify(kind EventKind, message string) {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed || c.notifier == nil {
		return
	}
	c.notifier.Notify(Event{Kind: kind, Message: message})
}
