package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventon/eventon/internal/models"
)

// ArchiveStore moves completed events into the read-only archive and lists
// the archived set.
type ArchiveStore interface {
	// Archive moves an event to the archive if all its tasks are completed
	// (or it has none). It returns false without touching anything when an
	// incomplete task blocks the move; that is an expected outcome, not an
	// error. Unknown event ids yield ErrNotFound.
	Archive(ctx context.Context, eventID int64) (bool, error)
	ListArchived(ctx context.Context, userID int64) ([]*models.ArchivedEvent, error)
}

type archiveStore struct {
	db  *sql.DB
	log zerolog.Logger
	now func() time.Time
}

// NewArchiveStore creates a new archive store
func NewArchiveStore(db *sql.DB, log zerolog.Logger) ArchiveStore {
	return &archiveStore{
		db:  db,
		log: log,
		now: time.Now,
	}
}

// Archive runs the copy-then-delete as a single transaction: the archived
// row appears and the event plus its children disappear, or nothing changes.
func (s *archiveStore) Archive(ctx context.Context, eventID int64) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, eventID)
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrNotFound
		}
		s.log.Error().Err(err).Int64("event_id", eventID).Msg("Failed to load event for archiving")
		return false, err
	}

	var incomplete int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE event_id = ? AND is_completed = 0`,
		eventID,
	).Scan(&incomplete)
	if err != nil {
		s.log.Error().Err(err).Int64("event_id", eventID).Msg("Failed to check task completion")
		return false, err
	}
	if incomplete > 0 {
		return false, nil
	}

	archivedAt := s.now().Format(models.ArchivedAtFormat)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO archived_events (id, user_id, name, date, time, venue, description, archived_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.UserID, event.Name, event.Date, event.Time,
		event.Venue, event.Description, archivedAt,
	)
	if err != nil {
		s.log.Error().Err(err).Int64("event_id", eventID).Msg("Failed to insert archived event")
		return false, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE event_id = ?`, eventID); err != nil {
		return false, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM guests WHERE event_id = ?`, eventID); err != nil {
		return false, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, eventID); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	s.log.Info().Int64("event_id", eventID).Str("archived_at", archivedAt).Msg("Event archived")
	return true, nil
}

// ListArchived returns the user's archived events, most recently archived first.
func (s *archiveStore) ListArchived(ctx context.Context, userID int64) ([]*models.ArchivedEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, date, time, venue, description, archived_at
		 FROM archived_events
		 WHERE user_id = ?
		 ORDER BY archived_at DESC`, userID)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("Failed to list archived events")
		return nil, err
	}
	defer rows.Close()

	var archived []*models.ArchivedEvent
	for rows.Next() {
		var a models.ArchivedEvent
		err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.Name,
			&a.Date,
			&a.Time,
			&a.Venue,
			&a.Description,
			&a.ArchivedAt,
		)
		if err != nil {
			return nil, err
		}
		archived = append(archived, &a)
	}
	return archived, rows.Err()
}
