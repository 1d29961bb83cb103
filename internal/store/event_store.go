package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/eventon/eventon/internal/models"
)

// EventStore defines the interface for active-event data access. All reads
// are scoped by the owning user and exclude archived events.
type EventStore interface {
	Add(ctx context.Context, userID int64, req *models.EventRequest) (int64, error)
	Update(ctx context.Context, eventID int64, req *models.EventRequest) error
	Delete(ctx context.Context, eventID int64) error
	GetByID(ctx context.Context, eventID int64) (*models.Event, error)
	ListActive(ctx context.Context, userID int64) ([]*models.Event, error)
	Search(ctx context.Context, userID int64, query string) ([]*models.Event, error)
	ListOnDate(ctx context.Context, userID int64, date string) ([]*models.Event, error)
}

type eventStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewEventStore creates a new event store
func NewEventStore(db *sql.DB, log zerolog.Logger) EventStore {
	return &eventStore{
		db:  db,
		log: log,
	}
}

const eventColumns = `id, user_id, name, date, time, venue, description, is_archived`

// Add inserts a new event for the given user and returns its id.
func (s *eventStore) Add(ctx context.Context, userID int64, req *models.EventRequest) (int64, error) {
	if err := validateRequest(req); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO events (user_id, name, date, time, venue, description)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userID, req.Name, req.Date, req.Time, req.Venue, req.Description,
	)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("Failed to create event")
		return 0, err
	}

	return res.LastInsertId()
}

// Update replaces the mutable fields of an event.
func (s *eventStore) Update(ctx context.Context, eventID int64, req *models.EventRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE events
		 SET name = ?, date = ?, time = ?, venue = ?, description = ?
		 WHERE id = ?`,
		req.Name, req.Date, req.Time, req.Venue, req.Description, eventID,
	)
	if err != nil {
		s.log.Error().Err(err).Int64("event_id", eventID).Msg("Failed to update event")
		return err
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an event together with its tasks and guests. The children
// are deleted in the same transaction; no orphan rows survive.
func (s *eventStore) Delete(ctx context.Context, eventID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM guests WHERE event_id = ?`, eventID); err != nil {
		s.log.Error().Err(err).Int64("event_id", eventID).Msg("Failed to delete guests")
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE event_id = ?`, eventID); err != nil {
		s.log.Error().Err(err).Int64("event_id", eventID).Msg("Failed to delete tasks")
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, eventID)
	if err != nil {
		s.log.Error().Err(err).Int64("event_id", eventID).Msg("Failed to delete event")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// GetByID retrieves an event by its id
func (s *eventStore) GetByID(ctx context.Context, eventID int64) (*models.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, eventID)

	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		s.log.Error().Err(err).Int64("event_id", eventID).Msg("Failed to get event by ID")
		return nil, err
	}
	return event, nil
}

// ListActive returns the user's unarchived events ordered by (date, time).
func (s *eventStore) ListActive(ctx context.Context, userID int64) ([]*models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE user_id = ? AND is_archived = 0
		 ORDER BY date, time`, userID)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("Failed to list events")
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Search returns unarchived events whose name, venue or description contains
// the query as a case-insensitive substring, ordered by (date, time).
func (s *eventStore) Search(ctx context.Context, userID int64, query string) ([]*models.Event, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE user_id = ? AND is_archived = 0
		 AND (name LIKE ? OR venue LIKE ? OR description LIKE ?)
		 ORDER BY date, time`,
		userID, pattern, pattern, pattern)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("Failed to search events")
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListOnDate returns the user's unarchived events on one calendar date,
// ordered by (time, name).
func (s *eventStore) ListOnDate(ctx context.Context, userID int64, date string) ([]*models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE user_id = ? AND date = ? AND is_archived = 0
		 ORDER BY time, name`, userID, date)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Str("date", date).Msg("Failed to list events by date")
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var event models.Event
	err := row.Scan(
		&event.ID,
		&event.UserID,
		&event.Name,
		&event.Date,
		&event.Time,
		&event.Venue,
		&event.Description,
		&event.IsArchived,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func scanEvents(rows *sql.Rows) ([]*models.Event, error) {
	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
