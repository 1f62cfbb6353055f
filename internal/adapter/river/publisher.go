package river

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/roomkeeper/internal/domain"
)

// Compile-time check: Publisher implements domain.EventPublisher.
var _ domain.EventPublisher = (*Publisher)(nil)

// BookingEventArgs carries the data needed to process a booking event
// asynchronously. River serializes this as JSON into its job queue table. It
// holds a snapshot of the booking as it was right after the transition, so
// the worker never needs to query the database.
type BookingEventArgs struct {
	Event     string `json:"event"`
	BookingID string `json:"booking_id"`
	RoomID    string `json:"room_id"`
	GuestID   string `json:"guest_id"`
	Status    string `json:"status"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (BookingEventArgs) Kind() string { return "booking.event" }

// InsertOpts tags each job with its event so jobs can be filtered per
// transition in River's tables.
func (a BookingEventArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: eventMaxAttempts,
		Tags:        []string{a.Event},
	}
}

const eventMaxAttempts = 5

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Publisher implements domain.EventPublisher by enqueuing River jobs.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher backed by the given River client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish enqueues a booking event as an async job in River.
func (p *Publisher) Publish(ctx context.Context, event domain.Event, booking domain.Booking) error {
	_, err := p.client.Insert(ctx, BookingEventArgs{
		Event:     string(event),
		BookingID: booking.ID,
		RoomID:    booking.RoomID,
		GuestID:   booking.GuestID,
		Status:    string(booking.Status),
		CheckIn:   booking.CheckIn.String(),
		CheckOut:  booking.CheckOut.String(),
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing booking event job: %w", err)
	}
	return nil
}
