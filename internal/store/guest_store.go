package store

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/eventon/eventon/internal/models"
)

// GuestStore defines CRUD over an event's invitees.
type GuestStore interface {
	Add(ctx context.Context, eventID int64, req *models.GuestRequest) (int64, error)
	ListForEvent(ctx context.Context, eventID int64) ([]*models.Guest, error)
	Update(ctx context.Context, guestID int64, req *models.GuestRequest) error
	Delete(ctx context.Context, guestID int64) error
}

type guestStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewGuestStore creates a new guest store
func NewGuestStore(db *sql.DB, log zerolog.Logger) GuestStore {
	return &guestStore{
		db:  db,
		log: log,
	}
}

// Add inserts a guest under an existing event.
func (s *guestStore) Add(ctx context.Context, eventID int64, req *models.GuestRequest) (int64, error) {
	if err := validateRequest(req); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO guests (event_id, name, email) VALUES (?, ?, ?)`,
		eventID, req.Name, req.Email,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, ErrNotFound
		}
		s.log.Error().Err(err).Int64("event_id", eventID).Msg("Failed to create guest")
		return 0, err
	}

	return res.LastInsertId()
}

// ListForEvent returns an event's guests ordered by name.
func (s *guestStore) ListForEvent(ctx context.Context, eventID int64) ([]*models.Guest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_id, name, email
		 FROM guests
		 WHERE event_id = ?
		 ORDER BY name`, eventID)
	if err != nil {
		s.log.Error().Err(err).Int64("event_id", eventID).Msg("Failed to list guests")
		return nil, err
	}
	defer rows.Close()

	var guests []*models.Guest
	for rows.Next() {
		var g models.Guest
		if err := rows.Scan(&g.ID, &g.EventID, &g.Name, &g.Email); err != nil {
			return nil, err
		}
		guests = append(guests, &g)
	}
	return guests, rows.Err()
}

// Update rewrites a guest in place, keeping its id stable. This replaces the
// old delete-then-reinsert edit, which discarded the original id.
func (s *guestStore) Update(ctx context.Context, guestID int64, req *models.GuestRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE guests SET name = ?, email = ? WHERE id = ?`,
		req.Name, req.Email, guestID)
	if err != nil {
		s.log.Error().Err(err).Int64("guest_id", guestID).Msg("Failed to update guest")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a guest
func (s *guestStore) Delete(ctx context.Context, guestID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM guests WHERE id = ?`, guestID)
	if err != nil {
		s.log.Error().Err(err).Int64("guest_id", guestID).Msg("Failed to delete guest")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
