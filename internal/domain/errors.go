package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the error taxonomy shared by services and
// adapters. Adapters translate store-level failures into these; the HTTP
// layer maps them to response codes.
var (
	// ErrNotFound indicates the entity does not exist or is not visible
	// to the caller.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness or state conflict, e.g. a work
	// session is already open.
	ErrConflict = errors.New("conflict")
	// ErrInvalidState indicates the operation does not apply to the
	// current state, e.g. ending work with no open session.
	ErrInvalidState = errors.New("invalid state")
	// ErrUnauthenticated indicates a missing, invalid or expired credential.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ValidationError reports malformed input for a single field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
