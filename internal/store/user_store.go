package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventon/eventon/internal/models"
)

// UserStore defines the interface for credential data access
type UserStore interface {
	Create(ctx context.Context, req *models.CreateUserRequest) (int64, error)
	Authenticate(ctx context.Context, username, password string) (int64, error)
	UpdateCredentials(ctx context.Context, userID int64, req *models.UpdateCredentialsRequest) error
	GetByID(ctx context.Context, userID int64) (*models.User, error)
}

type userStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewUserStore creates a new user store
func NewUserStore(db *sql.DB, log zerolog.Logger) UserStore {
	return &userStore{
		db:  db,
		log: log,
	}
}

// Create registers a new user with a bcrypt-hashed password. The clear
// password is never stored.
func (s *userStore) Create(ctx context.Context, req *models.CreateUserRequest) (int64, error) {
	if err := validateRequest(req); err != nil {
		return 0, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, email) VALUES (?, ?, ?)`,
		req.Username, string(hash), req.Email,
	)

	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return 0, ErrDuplicateUsername
		}
		s.log.Error().Err(err).Str("username", req.Username).Msg("Failed to create user")
		return 0, err
	}

	return res.LastInsertId()
}

// Authenticate checks a username/password pair and returns the user id.
// Unknown users and wrong passwords both yield ErrInvalidCredentials.
func (s *userStore) Authenticate(ctx context.Context, username, password string) (int64, error) {
	var (
		id   int64
		hash string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, password_hash FROM users WHERE username = ?`,
		username,
	).Scan(&id, &hash)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrInvalidCredentials
		}
		s.log.Error().Err(err).Str("username", username).Msg("Failed to look up user")
		return 0, err
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return 0, ErrInvalidCredentials
	}

	return id, nil
}

// UpdateCredentials applies a partial update; nil fields are left unchanged.
func (s *userStore) UpdateCredentials(ctx context.Context, userID int64, req *models.UpdateCredentialsRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}

	if req.Password == nil && req.Email == nil {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE users SET password_hash = ? WHERE id = ?`, string(hash), userID)
		if err != nil {
			s.log.Error().Err(err).Int64("user_id", userID).Msg("Failed to update password")
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
	}

	if req.Email != nil {
		res, err := tx.ExecContext(ctx,
			`UPDATE users SET email = ? WHERE id = ?`, *req.Email, userID)
		if err != nil {
			s.log.Error().Err(err).Int64("user_id", userID).Msg("Failed to update email")
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
	}

	return tx.Commit()
}

// GetByID retrieves a user by id
func (s *userStore) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, email FROM users WHERE id = ?`,
		userID,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		s.log.Error().Err(err).Int64("user_id", userID).Msg("Failed to get user by ID")
		return nil, err
	}

	return &user, nil
}
