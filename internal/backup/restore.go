package backup

import (
	"context"
	"database/sql"
	"sync"

	"github.com/rs/zerolog"

	"github.com/eventon/eventon/internal/models"
)

// Restorer applies a backup document to the local database, replacing the
// user's current data. The guard mutex is shared with the Scheduler so a
// restore never interleaves with a timer-driven backup.
type Restorer struct {
	db    *sql.DB
	log   zerolog.Logger
	guard *sync.Mutex
}

// NewRestorer creates a new restorer. Pass the same guard to NewScheduler.
func NewRestorer(db *sql.DB, log zerolog.Logger, guard *sync.Mutex) *Restorer {
	return &Restorer{
		db:    db,
		log:   log,
		guard: guard,
	}
}

// Apply is destructive: it removes the user's events, archived events, tasks
// and guests, then re-inserts every record from the document with its
// original id. The whole apply step is one transaction.
func (r *Restorer) Apply(ctx context.Context, doc *models.BackupDocument) error {
	r.guard.Lock()
	defer r.guard.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	userID := doc.UserID

	// Children first so the foreign keys stay satisfied throughout.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM guests WHERE event_id IN (SELECT id FROM events WHERE user_id = ?)`, userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM tasks WHERE event_id IN (SELECT id FROM events WHERE user_id = ?)`, userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE user_id = ?`, userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM archived_events WHERE user_id = ?`, userID); err != nil {
		return err
	}

	if doc.User != nil {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO users (id, username, password_hash, email)
			 VALUES (?, ?, ?, ?)`,
			doc.User.ID, doc.User.Username, doc.User.PasswordHash, doc.User.Email); err != nil {
			r.log.Error().Err(err).Int64("user_id", userID).Msg("Failed to restore user record")
			return err
		}
	}

	for _, ev := range doc.Events {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO events (id, user_id, name, date, time, venue, description, is_archived)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			ev.ID, ev.UserID, ev.Name, ev.Date, ev.Time, ev.Venue, ev.Description, ev.IsArchived); err != nil {
			r.log.Error().Err(err).Int64("event_id", ev.ID).Msg("Failed to restore event")
			return err
		}
	}

	for _, a := range doc.ArchivedEvents {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO archived_events (id, user_id, name, date, time, venue, description, archived_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.UserID, a.Name, a.Date, a.Time, a.Venue, a.Description, a.ArchivedAt); err != nil {
			r.log.Error().Err(err).Int64("event_id", a.ID).Msg("Failed to restore archived event")
			return err
		}
	}

	for _, t := range doc.Tasks {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tasks (id, event_id, description, is_completed)
			 VALUES (?, ?, ?, ?)`,
			t.ID, t.EventID, t.Description, t.IsCompleted); err != nil {
			r.log.Error().Err(err).Int64("task_id", t.ID).Msg("Failed to restore task")
			return err
		}
	}

	for _, g := range doc.Guests {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO guests (id, event_id, name, email)
			 VALUES (?, ?, ?, ?)`,
			g.ID, g.EventID, g.Name, g.Email); err != nil {
			r.log.Error().Err(err).Int64("guest_id", g.ID).Msg("Failed to restore guest")
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	r.log.Info().Int64("user_id", userID).Str("timestamp", doc.Timestamp).Msg("Backup restored")
	return nil
}
