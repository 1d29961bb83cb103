package models

// Date and time columns are stored as text so they sort lexicographically
// in the same order as their calendar meaning.
const (
	DateFormat       = "2006-01-02"
	TimeFormat       = "15:04"
	ArchivedAtFormat = "2006-01-02 15:04:05"
)

// Event is an active event owned by a single user.
type Event struct {
	ID          int64  `json:"id" db:"id"`
	UserID      int64  `json:"user_id" db:"user_id"`
	Name        string `json:"name" db:"name"`
	Date        string `json:"date" db:"date"`
	Time        string `json:"time" db:"time"`
	Venue       string `json:"venue" db:"venue"`
	Description string `json:"description" db:"description"`
	IsArchived  bool   `json:"is_archived" db:"is_archived"`
}

// ArchivedEvent is the read-only historical copy of an event. Its ID is the
// original event's ID; its tasks and guests were removed at archive time.
type ArchivedEvent struct {
	ID          int64  `json:"id" db:"id"`
	UserID      int64  `json:"user_id" db:"user_id"`
	Name        string `json:"name" db:"name"`
	Date        string `json:"date" db:"date"`
	Time        string `json:"time" db:"time"`
	Venue       string `json:"venue" db:"venue"`
	Description string `json:"description" db:"description"`
	ArchivedAt  string `json:"archived_date" db:"archived_at"`
}

// EventRequest carries the mutable fields of an event for both create and
// update. Time, venue and description may be empty.
type EventRequest struct {
	Name        string `json:"name" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"omitempty,datetime=15:04"`
	Venue       string `json:"venue"`
	Description string `json:"description"`
}
