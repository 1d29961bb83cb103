package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/eventon/eventon/internal/database"
	"github.com/eventon/eventon/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db.DB()
}

func createTestUser(t *testing.T, db *sql.DB, username string) int64 {
	t.Helper()

	users := NewUserStore(db, zerolog.Nop())
	id, err := users.Create(context.Background(), &models.CreateUserRequest{
		Username: username,
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return id
}

func addTestEvent(t *testing.T, db *sql.DB, userID int64, name, date, eventTime string) int64 {
	t.Helper()

	events := NewEventStore(db, zerolog.Nop())
	id, err := events.Add(context.Background(), userID, &models.EventRequest{
		Name: name,
		Date: date,
		Time: eventTime,
	})
	if err != nil {
		t.Fatalf("add event %s: %v", name, err)
	}
	return id
}
