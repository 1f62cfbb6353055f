package domain

import (
	"fmt"

	"cloud.google.com/go/civil"
)

// RoomStatus represents the housekeeping state of a room.
type RoomStatus string

const (
	RoomAvailable RoomStatus = "AVAILABLE"
	RoomOccupied  RoomStatus = "OCCUPIED"
	RoomToClean   RoomStatus = "TO_CLEAN"
)

// Valid reports whether s is one of the defined room statuses.
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomToClean:
		return true
	default:
		return false
	}
}

// Room belongs to exactly one hotel. Its status is only changed as a side
// effect of transitions on bookings that reference it.
type Room struct {
	ID          string
	HotelID     string
	Name        string
	Description string
	BasePrice   float64
	Status      RoomStatus
	LastCleaned *civil.Date
}

// NewRoom creates a room in the initial AVAILABLE state.
func NewRoom(id, hotelID, name, description string, basePrice float64) Room {
	return Room{
		ID:          id,
		HotelID:     hotelID,
		Name:        name,
		Description: description,
		BasePrice:   basePrice,
		Status:      RoomAvailable,
	}
}

// ApplyBookingEvent applies the room side effect of a booking transition and
// reports whether the room changed.
func (r *Room) ApplyBookingEvent(event Event, today civil.Date) (bool, error) {
	switch event {
	case EventAccept:
		r.Status = RoomOccupied
		return true, nil
	case EventCancel:
		return false, nil
	case EventCheckout:
		r.Status = RoomToClean
		return true, nil
	case EventComplete:
		r.Status = RoomAvailable
		r.LastCleaned = &today
		return true, nil
	default:
		return false, fmt.Errorf("unknown booking event %q", event)
	}
}
