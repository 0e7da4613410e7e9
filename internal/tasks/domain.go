package tasks

import "time"

// Task is a record owned by exactly one user.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Patch lists the fields an update may overwrite. Nil fields are left as stored.
type Patch struct {
	Title       *string
	Description *string
}
