// Package apperror defines the error taxonomy shared by the store, the
// coordinator and the HTTP layer. Handlers map the sentinel categories to
// status codes; everything else is treated as an internal failure and
// propagated verbatim.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error carries a category sentinel plus a human-readable message safe to
// return across the message boundary.
type Error struct {
	Err     error
	Message string
	Field   string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports a missing resource by kind and id.
func NotFound(resource, id string) *Error {
	return &Error{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// Validation reports rejected input before any remote call is made.
func Validation(field, message string) *Error {
	return &Error{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness violation.
func Conflict(resource, key string) *Error {
	return &Error{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s already exists: %s", resource, key),
	}
}

// Unauthorized reports a missing or rejected session.
func Unauthorized(message string) *Error {
	return &Error{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
