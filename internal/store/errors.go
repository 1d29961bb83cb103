package store

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrDuplicateUsername is returned when a username is already taken
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrInvalidCredentials is returned for an unknown user or a wrong
	// password; callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrMissingField is returned when a required text field is blank
	ErrMissingField = errors.New("required field is missing")
	// ErrNotFound is returned when an operation references a nonexistent id
	ErrNotFound = errors.New("record not found")
	// ErrBackupNotFound is returned when no backup document is stored for a user
	ErrBackupNotFound = errors.New("no backup found for user")
)

var validate = validator.New()

// validateRequest runs struct validation and maps blank required fields to
// ErrMissingField.
func validateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return fmt.Errorf("%w: %s", ErrMissingField, fe.Field())
		}
		return fmt.Errorf("invalid %s: failed %q constraint", fe.Field(), fe.Tag())
	}
	return err
}
