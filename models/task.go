package models

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the three known priorities.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Rank returns the sort rank of a priority, high first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Completed   bool       `json:"completed"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CategoryID  string     `json:"categoryId,omitempty"`
	OwnerID     string     `json:"ownerId"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// TaskDraft is a task payload without a server-assigned id. The server fills
// in ID and CreatedAt on creation.
type TaskDraft struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CategoryID  string     `json:"categoryId,omitempty"`
	OwnerID     string     `json:"ownerId"`
}

// TaskPatch carries only the fields an update wants to change; nil fields are
// left untouched by the server.
type TaskPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CategoryID  *string    `json:"categoryId,omitempty"`
}

// UncategorizedName is shown when a task has no category or its category
// reference no longer resolves.
const UncategorizedName = "Uncategorized"

// DisplayTask is a task joined with its category's display metadata.
type DisplayTask struct {
	Task
	CategoryName  string `json:"categoryName"`
	CategoryColor string `json:"categoryColor"`
}
