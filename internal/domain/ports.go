package domain

import (
	"context"

	"cloud.google.com/go/civil"
)

// BookingRepository defines the persistence contract for bookings.
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (Booking, error)
	// Save inserts the booking or replaces the stored one with the same ID.
	Save(ctx context.Context, booking Booking) error
	Delete(ctx context.Context, id string) error
	ListByHotel(ctx context.Context, hotelID string) ([]Booking, error)
	// ListByHotelBetween returns the hotel's bookings whose stay touches r,
	// ends included. Callers apply their own overlap policy on the result.
	ListByHotelBetween(ctx context.Context, hotelID string, r DateRange) ([]Booking, error)
	ListByCheckIn(ctx context.Context, hotelID string, day civil.Date) ([]Booking, error)
	ListByCheckOut(ctx context.Context, hotelID string, day civil.Date) ([]Booking, error)
}

// RoomRepository defines the persistence contract for rooms.
type RoomRepository interface {
	GetByID(ctx context.Context, id string) (Room, error)
	Save(ctx context.Context, room Room) error
	ListByHotel(ctx context.Context, hotelID string) ([]Room, error)
}

// ClosureRepository defines the persistence contract for hotel closures.
type ClosureRepository interface {
	GetByID(ctx context.Context, id string) (Closure, error)
	Save(ctx context.Context, closure Closure) error
	Delete(ctx context.Context, id string) error
	ListByHotel(ctx context.Context, hotelID string) ([]Closure, error)
	// ListOverlapping returns the hotel's closures sharing at least one day with r.
	ListOverlapping(ctx context.Context, hotelID string, r DateRange) ([]Closure, error)
}

// HotelRepository defines the persistence contract for hotels.
type HotelRepository interface {
	GetByID(ctx context.Context, id string) (Hotel, error)
	Save(ctx context.Context, hotel Hotel) error
	List(ctx context.Context) ([]Hotel, error)
}

// GuestRepository defines the persistence contract for guests.
type GuestRepository interface {
	GetByID(ctx context.Context, id string) (Guest, error)
	Save(ctx context.Context, guest Guest) error
	List(ctx context.Context) ([]Guest, error)
}

// Repositories groups the repositories taking part in one unit of work.
type Repositories interface {
	Bookings() BookingRepository
	Rooms() RoomRepository
	Closures() ClosureRepository
	Hotels() HotelRepository
	Guests() GuestRepository
}

// Store gives access to the repositories and runs atomic units of work.
// InTx commits every write made through repos if fn returns nil and rolls all
// of them back otherwise. Inside fn only repos may be used.
type Store interface {
	Repositories
	InTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// EventPublisher defines the contract for emitting booking events.
type EventPublisher interface {
	Publish(ctx context.Context, event Event, booking Booking) error
}

// TransitionValidator decides whether event may fire from current and returns
// the destination status.
type TransitionValidator interface {
	Apply(ctx context.Context, current BookingStatus, event Event) (BookingStatus, error)
}
