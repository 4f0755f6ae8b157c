package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is wrapped by every repo-level "missing record" error.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller does not own the record.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError describes bad caller input. Message is shown to the user as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validation builds a ValidationError.
func Validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Public is implemented by errors that carry their own HTTP mapping.
// Code is a stable machine-readable reason and PublicMessage is safe to show.
type Public interface {
	error
	HTTPStatus() int
	Code() string
	PublicMessage() string
}

func (e *ValidationError) HTTPStatus() int       { return 400 }
func (e *ValidationError) Code() string          { return "validation_error" }
func (e *ValidationError) PublicMessage() string { return e.Message }
