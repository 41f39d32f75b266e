package service

import (
	"errors"
	"fmt"

	"locallibrary/internal/http-api/repository"
)

var (
	// ErrNotFound is returned when an identifier does not resolve.
	ErrNotFound = repository.ErrNotFound
	// ErrPermissionDenied is returned when the actor lacks a capability.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrUnauthenticated is a PermissionDenied raised for anonymous actors.
	ErrUnauthenticated = fmt.Errorf("%w: authentication required", ErrPermissionDenied)
	// ErrInvalidTransition is returned when a copy is not in a status the
	// requested loan operation can start from.
	ErrInvalidTransition = errors.New("invalid loan status transition")
	// ErrConflict is returned when a unique value is already taken.
	ErrConflict = repository.ErrDuplicate
)

// ValidationError reports a rejected input value. The caller can re-present
// the submitted form with Message next to Field.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, value, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
