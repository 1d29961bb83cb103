package backup

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/eventon/eventon/internal/models"
	"github.com/eventon/eventon/internal/store"
)

// Exporter builds backup documents from the local database.
type Exporter struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewExporter creates a new exporter
func NewExporter(db *sql.DB, log zerolog.Logger) *Exporter {
	return &Exporter{
		db:  db,
		log: log,
	}
}

// Export snapshots the user's full data graph: the user record, active and
// archived events, every task and guest reachable from those events, and a
// generation timestamp.
func (e *Exporter) Export(ctx context.Context, userID int64) (*models.BackupDocument, error) {
	doc := &models.BackupDocument{
		UserID:         userID,
		Events:         []models.Event{},
		ArchivedEvents: []models.ArchivedEvent{},
		Tasks:          []models.Task{},
		Guests:         []models.Guest{},
		Timestamp:      models.NewBackupTimestamp(),
	}

	var user models.User
	err := e.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, email FROM users WHERE id = ?`,
		userID,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		e.log.Error().Err(err).Int64("user_id", userID).Msg("Failed to export user record")
		return nil, err
	}
	doc.User = &user

	rows, err := e.db.QueryContext(ctx,
		`SELECT id, user_id, name, date, time, venue, description, is_archived
		 FROM events WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ev models.Event
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.Name, &ev.Date, &ev.Time,
			&ev.Venue, &ev.Description, &ev.IsArchived); err != nil {
			return nil, err
		}
		doc.Events = append(doc.Events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = e.db.QueryContext(ctx,
		`SELECT id, user_id, name, date, time, venue, description, archived_at
		 FROM archived_events WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var a models.ArchivedEvent
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Date, &a.Time,
			&a.Venue, &a.Description, &a.ArchivedAt); err != nil {
			return nil, err
		}
		doc.ArchivedEvents = append(doc.ArchivedEvents, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = e.db.QueryContext(ctx,
		`SELECT id, event_id, description, is_completed FROM tasks
		 WHERE event_id IN (SELECT id FROM events WHERE user_id = ?)`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.EventID, &t.Description, &t.IsCompleted); err != nil {
			return nil, err
		}
		doc.Tasks = append(doc.Tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = e.db.QueryContext(ctx,
		`SELECT id, event_id, name, email FROM guests
		 WHERE event_id IN (SELECT id FROM events WHERE user_id = ?)`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var g models.Guest
		if err := rows.Scan(&g.ID, &g.EventID, &g.Name, &g.Email); err != nil {
			return nil, err
		}
		doc.Guests = append(doc.Guests, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	e.log.Info().
		Int64("user_id", userID).
		Int("events", len(doc.Events)).
		Int("archived_events", len(doc.ArchivedEvents)).
		Int("tasks", len(doc.Tasks)).
		Int("guests", len(doc.Guests)).
		Msg("Built backup document")

	return doc, nil
}
