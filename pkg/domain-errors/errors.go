// Package domainerrors provides coded errors for the service layer.
//
// Stores return sentinel errors (pkg/platform/sentinel) for infrastructure
// facts; services translate those into coded domain errors that transports
// can map to wire statuses without string matching.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for transport mapping and metrics labels.
type Code string

const (
	// CodeBadRequest marks requests with missing or malformed required fields.
	// Such requests fail fast: no reads or writes are attempted.
	CodeBadRequest Code = "bad_request"

	// CodeInvalidInput marks a single field that failed validation.
	CodeInvalidInput Code = "invalid_input"

	// CodeNotFound marks lookups of entities that do not exist.
	CodeNotFound Code = "not_found"

	// CodeConflict marks writes rejected by a uniqueness or state invariant.
	CodeConflict Code = "conflict"

	// CodeUpstreamUnavailable marks failed reads from a collaborator store
	// (membership, event, venue). Fan-out callers treat these as partial
	// failures, not hard aborts.
	CodeUpstreamUnavailable Code = "upstream_unavailable"

	// CodeWriteFailed marks a persistence write the store rejected. The
	// affected record does not exist; callers must not notify for it.
	CodeWriteFailed Code = "write_failed"

	// CodePublishFailed marks a broker publish the producer could not
	// accept. Best-effort: reported, never rolled back.
	CodePublishFailed Code = "publish_failed"

	// CodeInvalidTransition marks a booking status change outside the
	// allowed transition table.
	CodeInvalidTransition Code = "invalid_transition"

	// CodeUnauthorized marks requests without a valid actor identity.
	CodeUnauthorized Code = "unauthorized"

	// CodeInternal marks unexpected failures. Details are logged, not
	// returned to callers.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error, optionally wrapping a cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a coded error without a cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap builds a coded error around a cause. A nil cause returns nil so
// callers can wrap unconditionally.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether any error in err's chain carries code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
		if err == nil {
			return false
		}
	}
	return false
}

// CodeOf returns the outermost code in err's chain, or CodeInternal when
// err carries no code.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
