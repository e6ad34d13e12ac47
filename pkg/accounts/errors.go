package accounts

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials indicates an unknown username or a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrAccountNotFound indicates no account has the given username.
var ErrAccountNotFound = errors.New("account not found")

// ValidationError reports a rejected field value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
