package models

// Task is a checklist item belonging to exactly one event.
type Task struct {
	ID          int64  `json:"id" db:"id"`
	EventID     int64  `json:"event_id" db:"event_id"`
	Description string `json:"description" db:"description"`
	IsCompleted bool   `json:"is_completed" db:"is_completed"`
}

type TaskRequest struct {
	Description string `json:"description" validate:"required"`
}
