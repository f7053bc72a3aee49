// Package common defines shared constants and sentinel errors used across
// client and server layers of PassKeeper. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation error")

	// ErrInvalidCredentials is the only error a failed login ever reports,
	// whatever check failed.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrConflict reports a uniqueness violation, e.g. an email already in use.
	ErrConflict = errors.New("email already in use")

	// ErrRemote is matched by every *RemoteError.
	ErrRemote = errors.New("service unavailable, please try again later")
)

// ValidationError describes a missing or malformed field detected before any
// network call.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// RemoteError wraps a backend or network failure. Its Error text is generic;
// the cause is kept for logging through Unwrap.
type RemoteError struct {
	Op  string
	Err error
}

func NewRemoteError(op string, err error) *RemoteError {
	return &RemoteError{Op: op, Err: err}
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, ErrRemote.Error())
}

func (e *RemoteError) Unwrap() error { return e.Err }

func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}

// UserMessage turns err into text that is safe to show to the user.
// Validation, conflict and not-found errors are shown as they are; auth
// failures and remote failures get a fixed generic message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, ErrConflict):
		return ErrConflict.Error()
	case errors.Is(err, ErrInvalidCredentials):
		return ErrInvalidCredentials.Error()
	case errors.Is(err, ErrorUnauthorized), errors.Is(err, ErrInvalidToken):
		return "session expired, please log in again"
	case errors.Is(err, ErrorNotFound):
		return "record not found"
	case errors.Is(err, ErrRemote):
		return ErrRemote.Error()
	default:
		return "something went wrong"
	}
}
