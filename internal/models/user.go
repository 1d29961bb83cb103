package models

// User represents a registered planner account.
type User struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"password_hash" db:"password_hash"`
	Email        string `json:"email" db:"email"`
}

// CreateUserRequest represents the data needed to create a new user
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// UpdateCredentialsRequest carries a partial credentials update.
// Nil fields are left unchanged.
type UpdateCredentialsRequest struct {
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
