// Package booking implements the reservation core: the conflict
// detector over hall time slots and the lifecycle state machine that
// governs a booking from creation to a terminal disposition. It is
// transport- and storage-agnostic; persistence and caller identity are
// supplied by collaborators.
package booking

import "fmt"

// Kind classifies a domain failure so callers can tell "pick another
// time" (KindConflict) from "fix your input" (KindValidation) from
// "you may not do this" (KindForbidden).
type Kind int

const (
	// KindNotFound means a hall or booking id did not resolve.
	KindNotFound Kind = iota + 1
	// KindForbidden means an authorization guard failed.
	KindForbidden
	// KindValidation means a field-level constraint was violated.
	KindValidation
	// KindConflict means the requested slot overlaps another booking.
	KindConflict
	// KindInvalidTransition means the booking's current status forbids
	// the attempted transition.
	KindInvalidTransition
	// KindUnavailable wraps storage/connectivity failures. Not retried
	// here; retry policy belongs to the caller.
	KindUnavailable
)

// Error is the domain error type. Every guard violation produces a
// distinct kind; the core never reports a generic failure that hides
// which invariant was violated.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // underlying cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound builds a KindNotFound error.
func NotFound(msg string) error { return &Error{Kind: KindNotFound, Msg: msg} }

// Forbidden builds a KindForbidden error.
func Forbidden(msg string) error { return &Error{Kind: KindForbidden, Msg: msg} }

// Invalid builds a KindValidation error.
func Invalid(msg string) error { return &Error{Kind: KindValidation, Msg: msg} }

// Invalidf builds a formatted KindValidation error.
func Invalidf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// Conflict builds a KindConflict error.
func Conflict(msg string) error { return &Error{Kind: KindConflict, Msg: msg} }

// InvalidTransition builds a KindInvalidTransition error.
func InvalidTransition(msg string) error { return &Error{Kind: KindInvalidTransition, Msg: msg} }

// Unavailable wraps an infrastructure error as KindUnavailable.
func Unavailable(msg string, err error) error {
	return &Error{Kind: KindUnavailable, Msg: msg, Err: err}
}

// KindOf returns the kind carried by err, or 0 when err is not a
// domain error.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return 0
}
