package store

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/eventon/eventon/internal/models"
)

func testDocument(userID int64) *models.BackupDocument {
	return &models.BackupDocument{
		UserID: userID,
		User: &models.User{
			ID:           userID,
			Username:     "alice",
			PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		},
		Events: []models.Event{
			{ID: 1, UserID: userID, Name: "Party", Date: "2025-06-01"},
		},
		ArchivedEvents: []models.ArchivedEvent{},
		Tasks: []models.Task{
			{ID: 1, EventID: 1, Description: "Buy cake", IsCompleted: true},
		},
		Guests:    []models.Guest{},
		Timestamp: "20250601_120000",
	}
}

func TestBackupSaveAndGet(t *testing.T) {
	db := newTestDB(t)
	backups := NewBackupStore(db, zerolog.Nop())
	ctx := context.Background()

	doc := testDocument(7)
	stored, err := backups.Save(ctx, doc)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if stored.BackupID == "" || stored.UserID != 7 {
		t.Fatalf("StoredBackup incomplete: %+v", stored)
	}

	got, err := backups.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UserID != 7 || got.User.Username != "alice" || len(got.Events) != 1 || len(got.Tasks) != 1 {
		t.Fatalf("Get returned a different document: %+v", got)
	}
	if !got.Tasks[0].IsCompleted {
		t.Fatal("boolean flag lost in storage")
	}
}

func TestBackupLatestPushWins(t *testing.T) {
	db := newTestDB(t)
	backups := NewBackupStore(db, zerolog.Nop())
	ctx := context.Background()

	first := testDocument(7)
	if _, err := backups.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second := testDocument(7)
	second.Events = append(second.Events, models.Event{ID: 2, UserID: 7, Name: "Later", Date: "2025-07-01"})
	second.Timestamp = "20250701_120000"
	if _, err := backups.Save(ctx, second); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := backups.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Events) != 2 || got.Timestamp != "20250701_120000" {
		t.Fatalf("old document survived a second push: %+v", got)
	}
}

func TestBackupNotFound(t *testing.T) {
	db := newTestDB(t)
	backups := NewBackupStore(db, zerolog.Nop())

	if _, err := backups.Get(context.Background(), 42); !errors.Is(err, ErrBackupNotFound) {
		t.Fatalf("missing backup: got %v, want ErrBackupNotFound", err)
	}
}
