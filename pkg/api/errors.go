package api

import (
	"errors"
	"strings"
)

// ErrorKind classifies a request failure.
type ErrorKind string

const (
	// ErrorKindUnauthenticated means credentials were absent or invalid.
	ErrorKindUnauthenticated ErrorKind = "unauthenticated"

	// ErrorKindForbidden means the authenticated caller is not the owner
	// of the target record.
	ErrorKindForbidden ErrorKind = "forbidden"

	// ErrorKindNotFound means no record exists at the given id.
	ErrorKindNotFound ErrorKind = "not_found"

	// ErrorKindValidation means one or more field or uniqueness
	// constraints were violated. The error carries the complete list of
	// violation messages, not just the first.
	ErrorKindValidation ErrorKind = "validation_failed"

	// ErrorKindInternal means the store was unreachable or something
	// unexpected happened. The client-facing message is always generic.
	ErrorKindInternal ErrorKind = "server_error"
)

// Error is the tagged error type resolved at every operation boundary.
// Exactly one of the five kinds is set; Messages holds the full violation
// list for validation errors and a single message otherwise.
type Error struct {
	Kind     ErrorKind
	Messages []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return string(e.Kind) + ": " + strings.Join(e.Messages, "; ")
}

// Message returns the first message, or an empty string.
func (e *Error) Message() string {
	if len(e.Messages) == 0 {
		return ""
	}
	return e.Messages[0]
}

// NewUnauthenticatedError creates an Error for absent or invalid
// credentials. The message is deliberately identical for "unknown user"
// and "wrong password" so the response does not reveal which occurred.
func NewUnauthenticatedError() *Error {
	return &Error{Kind: ErrorKindUnauthenticated, Messages: []string{"Access Denied"}}
}

// NewForbiddenError creates an Error for an ownership violation.
func NewForbiddenError(message string) *Error {
	return &Error{Kind: ErrorKindForbidden, Messages: []string{message}}
}

// NewNotFoundError creates an Error for a missing record.
func NewNotFoundError(message string) *Error {
	return &Error{Kind: ErrorKindNotFound, Messages: []string{message}}
}

// NewValidationError creates an Error carrying the complete ordered list
// of field and uniqueness violation messages.
func NewValidationError(messages ...string) *Error {
	return &Error{Kind: ErrorKindValidation, Messages: messages}
}

// NewInternalError creates an Error for unexpected failures. The message
// is what the client sees; it must never contain store or driver detail.
func NewInternalError() *Error {
	return &Error{Kind: ErrorKindInternal, Messages: []string{"internal server error"}}
}

// AsError unwraps err into an *Error if it is one.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
