package models

// Guest is an invitee belonging to exactly one event.
type Guest struct {
	ID      int64  `json:"id" db:"id"`
	EventID int64  `json:"event_id" db:"event_id"`
	Name    string `json:"name" db:"name"`
	Email   string `json:"email" db:"email"`
}

type GuestRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}
