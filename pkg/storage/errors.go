package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no row exists at the given id.
var ErrNotFound = errors.New("record not found")

// DuplicateError is returned when a write violates a unique constraint.
// Message is the client-facing violation text declared in the kind's
// schema; stores translate driver-level unique violations into this type
// so the validation layer can fold them into the normal message list.
type DuplicateError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate value for %s", e.Field)
}

// AsDuplicate unwraps err into a *DuplicateError if it is one.
func AsDuplicate(err error) (*DuplicateError, bool) {
	var dup *DuplicateError
	if errors.As(err, &dup) {
		return dup, true
	}
	return nil, false
}
