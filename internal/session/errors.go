package session

import "errors"

// ErrNotFound is returned when a referenced session or user does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports malformed or out-of-range input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// InvalidStateError reports an operation that is illegal for the session's
// current status, e.g. booking a booked slot or cancelling twice.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string { return e.Reason }

// AuthorizationError reports a caller that lacks permission: wrong role, or
// not a participant of the session.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string { return e.Reason }
