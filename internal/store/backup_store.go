package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eventon/eventon/internal/models"
)

// BackupStore persists received backup documents on the server side. Each
// user holds at most one document; a new push replaces the previous one.
type BackupStore interface {
	Save(ctx context.Context, doc *models.BackupDocument) (*models.StoredBackup, error)
	Get(ctx context.Context, userID int64) (*models.BackupDocument, error)
}

type backupStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewBackupStore creates a new backup store
func NewBackupStore(db *sql.DB, log zerolog.Logger) BackupStore {
	return &backupStore{
		db:  db,
		log: log,
	}
}

// Save stores a document under its user id, overwriting any earlier backup.
func (s *backupStore) Save(ctx context.Context, doc *models.BackupDocument) (*models.StoredBackup, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	stored := &models.StoredBackup{
		BackupID:   uuid.NewString(),
		UserID:     doc.UserID,
		ReceivedAt: time.Now().Format(models.ArchivedAtFormat),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO backups (user_id, backup_id, document, received_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			backup_id = excluded.backup_id,
			document = excluded.document,
			received_at = excluded.received_at`,
		stored.UserID, stored.BackupID, string(raw), stored.ReceivedAt,
	)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", doc.UserID).Msg("Failed to save backup")
		return nil, err
	}

	return stored, nil
}

// Get returns the stored document for a user, or ErrBackupNotFound.
func (s *backupStore) Get(ctx context.Context, userID int64) (*models.BackupDocument, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM backups WHERE user_id = ?`, userID,
	).Scan(&raw)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBackupNotFound
		}
		s.log.Error().Err(err).Int64("user_id", userID).Msg("Failed to load backup")
		return nil, err
	}

	var doc models.BackupDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("Stored backup is not valid JSON")
		return nil, err
	}

	return &doc, nil
}
