package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain error so callers (and the HTTP layer) can react
// without string-matching messages.
type Kind int

const (
	// KindNotFound means a referenced entity does not exist.
	KindNotFound Kind = iota
	// KindInvalidState means the operation was attempted from a state that
	// forbids it (not pending, not scheduled, already confirmed, ...).
	KindInvalidState
	// KindExpired means a token is past its TTL.
	KindExpired
	// KindForbidden means the actor is not an authorized participant.
	KindForbidden
	// KindValidation means the input itself is malformed (tied set scores,
	// missing eligibility data, ...).
	KindValidation
	// KindInternal means an internal consistency rule was violated. This is
	// a bug, never an expected outcome, and must fail loudly.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	case KindExpired:
		return "expired"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation_failed"
	case KindInternal:
		return "internal_inconsistency"
	}
	return "unknown"
}

// Error is a typed domain error.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap annotates an underlying error with a kind and message.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the kind of err, or KindInternal if err is not typed.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// HTTPStatus maps a domain error to its HTTP status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState:
		return http.StatusConflict
	case KindExpired:
		return http.StatusGone
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
