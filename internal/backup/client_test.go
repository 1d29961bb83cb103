package backup

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/eventon/eventon/internal/models"
	"github.com/eventon/eventon/internal/store"
)

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
		Tasks:          []models.Task{},
		Guests:         []models.Guest{},
		Timestamp:      "20250601_120000",
	}
}

func TestClientPush(t *testing.T) {
	var received models.BackupDocument
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/backup" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode pushed document: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"backup stored"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	msg, err := client.Push(context.Background(), sampleDocument())
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if msg != "backup stored" {
		t.Fatalf("ack message = %q, want %q", msg, "backup stored")
	}
	if received.UserID != 7 || len(received.Events) != 1 {
		t.Fatalf("server received a different document: %+v", received)
	}
}

func TestClientPushServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	_, err := client.Push(context.Background(), sampleDocument())

	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("server error: got %v, want TransportError", err)
	}
}

func TestClientPushConnectionRefused(t *testing.T) {
	// Grab a port that is guaranteed closed.
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, zerolog.Nop())
	_, err := client.Push(context.Background(), sampleDocument())

	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("connection failure: got %v, want TransportError", err)
	}
}

func TestClientPull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recover/7" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sampleDocument())
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	doc, err := client.Pull(context.Background(), 7)
	if err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if doc.UserID != 7 || doc.User == nil || len(doc.Events) != 1 {
		t.Fatalf("Pull returned a different document: %+v", doc)
	}
}

func TestClientPullNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"no backup found for user"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	if _, err := client.Pull(context.Background(), 7); !errors.Is(err, store.ErrBackupNotFound) {
		t.Fatalf("404: got %v, want ErrBackupNotFound", err)
	}
}
