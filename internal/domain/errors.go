package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by every "entity not found" sentinel so callers can
// test for the kind without knowing the entity.
var ErrNotFound = errors.New("not found")

// Sentinel errors for simple conditions without extra context.
var (
	ErrBookingNotFound = fmt.Errorf("booking %w", ErrNotFound)
	ErrRoomNotFound    = fmt.Errorf("room %w", ErrNotFound)
	ErrHotelNotFound   = fmt.Errorf("hotel %w", ErrNotFound)
	ErrGuestNotFound   = fmt.Errorf("guest %w", ErrNotFound)
	ErrClosureNotFound = fmt.Errorf("closure %w", ErrNotFound)
)

// TransitionError is returned when a booking transition is not allowed.
type TransitionError struct {
	Event    Event
	Current  BookingStatus
	Expected BookingStatus
	// Reason is set when the status matched but another rule refused the event.
	Reason string
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("event %q is not valid from status %q (expected %q)", e.Event, e.Current, e.Expected)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// ValidationError is returned when caller-supplied data breaks a domain rule.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
