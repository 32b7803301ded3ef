// Package apperr defines the typed error taxonomy shared by coordinators and
// handlers. Coordinators only ever return *Error; handlers translate the kind
// into an HTTP status and keep internal detail out of responses.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// Unauthenticated: missing or invalid credential.
	Unauthenticated Kind = iota + 1
	// Forbidden: valid identity, wrong role for the operation.
	Forbidden
	// NotFound: a referenced entity id does not resolve.
	NotFound
	// Validation: missing field, out-of-range value, duplicate email,
	// already-enrolled, malformed id.
	Validation
	// Conflict: duplicate attendance or enrollment produced under a race.
	Conflict
	// PartialFailure: the primary write committed but a secondary write and
	// its compensation both failed; the operation outcome stands and the
	// divergence has been logged for reconciliation.
	PartialFailure
	// Internal: storage or unexpected failure.
	Internal
)

// Error carries a kind, a message safe to show callers, and an optional
// underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain; untyped errors are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// MessageOf returns the caller-safe message, or a generic one for untyped
// errors.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Erreur interne du serveur"
}
