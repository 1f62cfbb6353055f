package domain

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending    BookingStatus = "PENDING"
	StatusCheckedIn  BookingStatus = "CHECKED_IN"
	StatusCheckedOut BookingStatus = "CHECKED_OUT"
	StatusComplete   BookingStatus = "COMPLETE"
	StatusCanceled   BookingStatus = "CANCELED"
)

// Valid reports whether s is one of the defined statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCheckedIn, StatusCheckedOut, StatusComplete, StatusCanceled:
		return true
	default:
		return false
	}
}

// Event represents an action that triggers a booking transition.
type Event string

const (
	EventAccept   Event = "accept"
	EventCancel   Event = "cancel"
	EventCheckout Event = "checkout"
	EventComplete Event = "complete"
)

// Transition defines a valid state change: an event moves a booking from Src to Dst.
type Transition struct {
	Event Event
	Src   BookingStatus
	Dst   BookingStatus
}

// Transitions defines all valid state changes in the booking lifecycle.
// Each event has exactly one source status.
var Transitions = []Transition{
	{Event: EventAccept, Src: StatusPending, Dst: StatusCheckedIn},
	{Event: EventCancel, Src: StatusPending, Dst: StatusCanceled},
	{Event: EventCheckout, Src: StatusCheckedIn, Dst: StatusCheckedOut},
	{Event: EventComplete, Src: StatusCheckedOut, Dst: StatusComplete},
}

// ExpectedStatus returns the status a booking must be in for event to apply.
func ExpectedStatus(event Event) (BookingStatus, bool) {
	for _, t := range Transitions {
		if t.Event == event {
			return t.Src, true
		}
	}
	return "", false
}

// Booking links one guest to one room for a stay.
type Booking struct {
	ID        string
	GuestID   string
	RoomID    string
	CheckIn   civil.Date
	CheckOut  civil.Date
	Price     int
	Notes     string
	Status    BookingStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stay returns the booked date range.
func (b Booking) Stay() DateRange {
	return DateRange{Start: b.CheckIn, End: b.CheckOut}
}

// Blocks reports whether the booking keeps its room from being offered.
// Canceled bookings never occupy the room.
func (b Booking) Blocks() bool {
	return b.Status != StatusCanceled
}

// Guard enforces rules of event that depend on the booking's data rather than
// on its status. Checkout is only possible from the departure day onwards.
func (b Booking) Guard(event Event, today civil.Date) error {
	switch event {
	case EventCheckout:
		if today.Before(b.CheckOut) {
			return &TransitionError{
				Event:    event,
				Current:  b.Status,
				Expected: StatusCheckedIn,
				Reason:   fmt.Sprintf("departure date %s not reached", b.CheckOut),
			}
		}
		return nil
	case EventAccept, EventCancel, EventComplete:
		return nil
	default:
		return fmt.Errorf("unknown booking event %q", event)
	}
}

// Validate checks the invariants every stored booking must satisfy.
func (b Booking) Validate() error {
	if b.GuestID == "" {
		return &ValidationError{Field: "guest_id", Reason: "guest is required"}
	}
	if b.RoomID == "" {
		return &ValidationError{Field: "room_id", Reason: "room is required"}
	}
	if !b.Stay().IsComplete() {
		return &ValidationError{Field: "check_in", Reason: "check-in and check-out dates are required"}
	}
	if b.CheckOut.Before(b.CheckIn) {
		return &ValidationError{Field: "check_out", Reason: "check-out cannot precede check-in"}
	}
	if b.Price < 0 {
		return &ValidationError{Field: "price", Reason: "price cannot be negative"}
	}
	if b.Status != "" && !b.Status.Valid() {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", b.Status)}
	}
	return nil
}
