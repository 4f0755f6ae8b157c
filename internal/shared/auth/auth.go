package auth

import (
	"context"
	"errors"
	"fmt"
)

// Identity is the verified caller behind a bearer token.
type Identity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

// Verifier checks a bearer token and returns the identity it carries.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// Reason classifies token failures.
type Reason string

const (
	ReasonMissing   Reason = "missing_token"
	ReasonMalformed Reason = "malformed_token"
	ReasonExpired   Reason = "token_expired"
	ReasonRevoked   Reason = "token_revoked"
	ReasonInvalid   Reason = "invalid_token"
)

// Error is returned by every Verifier.
type Error struct {
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("auth: %s", e.Reason)
	}
	return fmt.Sprintf("auth: %s: %v", e.Reason, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) HTTPStatus() int { return 401 }

func (e *Error) Code() string { return string(e.Reason) }

// PublicMessage is the client-facing text for the failure.
func (e *Error) PublicMessage() string {
	switch e.Reason {
	case ReasonMissing:
		return "No token provided"
	case ReasonExpired:
		return "Token expired"
	case ReasonRevoked:
		return "Token revoked"
	default:
		return "Invalid token"
	}
}

// Fail wraps err as an auth Error.
func Fail(reason Reason, err error) error {
	return &Error{Reason: reason, Err: err}
}

// AsError extracts an auth Error from err.
func AsError(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
