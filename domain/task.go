package domain

import "time"

// Task is a single tracked item. Tasks are created, mutated and removed
// exclusively through the store; every other component holds copies and
// routes changes back through store operations.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateRequest carries the fields of a task to be created. Both fields are
// trimmed at the store boundary before validation and persistence.
type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateRequest is a partial update. A nil field leaves the current value
// unchanged. An explicit blank Title is rejected; an explicit empty
// Description clears the stored one.
type UpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}
