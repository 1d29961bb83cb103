package server

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/eventon/eventon/internal/backup"
	"github.com/eventon/eventon/internal/database"
	"github.com/eventon/eventon/internal/models"
	"github.com/eventon/eventon/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "server.db"))
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	log := zerolog.Nop()
	srv := New("127.0.0.1:0", db.DB(), &log)
	ts := httptest.NewServer(srv.Server.Handler)
	t.Cleanup(ts.Close)

	return ts, db.DB()
}

func sampleDocument() *models.BackupDocument {
	return &models.BackupDocument{
		UserID: 7,
		User: &models.User{
			ID:           7,
			Username:     "alice",
			PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		},
		Events: []models.Event{
			{ID: 1, UserID: 7, Name: "Party", Date: "2025-06-01"},
		},
		ArchivedEvents: []models.ArchivedEvent{},
		Tasks: []models.Task{
			{ID: 1, EventID: 1, Description: "Buy cake", IsCompleted: true},
		},
		Guests:    []models.Guest{},
		Timestamp: "20250601_120000",
	}
}

// Push a document through the real handler stack and pull it back with the
// client: the full backup contract end to end.
func TestBackupContractRoundTrip(t *testing.T) {
	ts, _ := newTestServer(t)
	client := backup.NewClient(ts.URL, zerolog.Nop())
	ctx := context.Background()

	msg, err := client.Push(ctx, sampleDocument())
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if msg == "" {
		t.Fatal("server acknowledged with an empty message")
	}

	doc, err := client.Pull(ctx, 7)
	if err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if doc.UserID != 7 || doc.User.Username != "alice" {
		t.Fatalf("pulled a different document: %+v", doc)
	}
	if len(doc.Events) != 1 || len(doc.Tasks) != 1 || !doc.Tasks[0].IsCompleted {
		t.Fatalf("document contents changed in flight: %+v", doc)
	}
}

func TestRecoverUnknownUser(t *testing.T) {
	ts, _ := newTestServer(t)
	client := backup.NewClient(ts.URL, zerolog.Nop())

	if _, err := client.Pull(context.Background(), 999); !errors.Is(err, store.ErrBackupNotFound) {
		t.Fatalf("unknown user: got %v, want ErrBackupNotFound", err)
	}
}

func TestReceiveRejectsBadDocuments(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/backup", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty body: status %d, want 400", resp.StatusCode)
	}

	// A decodable document without a user is still rejected.
	resp, err = http.Post(ts.URL+"/backup", "application/json",
		httpBody(`{"events":[],"timestamp":"20250601_120000"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing user: status %d, want 400", resp.StatusCode)
	}
}

func httpBody(s string) io.Reader {
	return strings.NewReader(s)
}

func TestHealthCheck(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health check: status %d, want 200", resp.StatusCode)
	}
}
