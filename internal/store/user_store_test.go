package store

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/eventon/eventon/internal/models"
)

func TestCreateAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db, zerolog.Nop())
	ctx := context.Background()

	id, err := users.Create(ctx, &models.CreateUserRequest{
		Username: "alice",
		Password: "secret1",
		Email:    "alice@example.com",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == 0 {
		t.Fatal("Create returned zero id")
	}

	got, err := users.Authenticate(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got != id {
		t.Fatalf("Authenticate returned id %d, want %d", got, id)
	}

	if _, err := users.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := users.Authenticate(ctx, "nobody", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: got %v, want ErrInvalidCredentials", err)
	}
}

func TestCreateDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db, zerolog.Nop())
	ctx := context.Background()

	id, err := users.Create(ctx, &models.CreateUserRequest{Username: "alice", Password: "secret1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := users.Create(ctx, &models.CreateUserRequest{Username: "alice", Password: "other66"}); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("duplicate username: got %v, want ErrDuplicateUsername", err)
	}

	// The original record must be untouched: the first password still works.
	got, err := users.Authenticate(ctx, "alice", "secret1")
	if err != nil || got != id {
		t.Fatalf("Authenticate after duplicate attempt: id=%d err=%v", got, err)
	}
}

func TestCreateValidation(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db, zerolog.Nop())
	ctx := context.Background()

	if _, err := users.Create(ctx, &models.CreateUserRequest{Username: "", Password: "secret1"}); !errors.Is(err, ErrMissingField) {
		t.Fatalf("blank username: got %v, want ErrMissingField", err)
	}
	if _, err := users.Create(ctx, &models.CreateUserRequest{Username: "alice", Password: ""}); !errors.Is(err, ErrMissingField) {
		t.Fatalf("blank password: got %v, want ErrMissingField", err)
	}
}

func TestUpdateCredentials(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db, zerolog.Nop())
	ctx := context.Background()

	id, err := users.Create(ctx, &models.CreateUserRequest{
		Username: "alice",
		Password: "secret1",
		Email:    "alice@example.com",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Password only: email stays.
	newPass := "secret2"
	if err := users.UpdateCredentials(ctx, id, &models.UpdateCredentialsRequest{Password: &newPass}); err != nil {
		t.Fatalf("UpdateCredentials password: %v", err)
	}
	if _, err := users.Authenticate(ctx, "alice", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatal("old password still accepted after update")
	}
	if _, err := users.Authenticate(ctx, "alice", "secret2"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}

	user, err := users.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email changed by password-only update: %q", user.Email)
	}

	// Email only: password stays.
	newEmail := "new@example.com"
	if err := users.UpdateCredentials(ctx, id, &models.UpdateCredentialsRequest{Email: &newEmail}); err != nil {
		t.Fatalf("UpdateCredentials email: %v", err)
	}
	user, err = users.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.Email != "new@example.com" {
		t.Fatalf("email = %q, want new@example.com", user.Email)
	}
	if _, err := users.Authenticate(ctx, "alice", "secret2"); err != nil {
		t.Fatalf("password changed by email-only update: %v", err)
	}

	if err := users.UpdateCredentials(ctx, 9999, &models.UpdateCredentialsRequest{Email: &newEmail}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown user: got %v, want ErrNotFound", err)
	}
}

func TestPasswordNeverStoredInClear(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db, zerolog.Nop())
	ctx := context.Background()

	id, err := users.Create(ctx, &models.CreateUserRequest{Username: "alice", Password: "secret1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	user, err := users.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.PasswordHash == "secret1" || user.PasswordHash == "" {
		t.Fatalf("password_hash is not a digest: %q", user.PasswordHash)
	}
}
