package river

import (
	"context"
	"fmt"

	"github.com/riverqueue/river"
	"go.uber.org/zap"

	"github.com/neomorfeo/roomkeeper/internal/domain"
)

// EventWorker processes booking event jobs from the River queue.
// It records the event in the log; notification delivery hooks in here.
type EventWorker struct {
	river.WorkerDefaults[BookingEventArgs]
	logger *zap.Logger
}

// NewEventWorker creates an event worker.
func NewEventWorker(logger *zap.Logger) *EventWorker {
	return &EventWorker{logger: logger.Named("events")}
}

// Work processes a single event job.
func (w *EventWorker) Work(ctx context.Context, job *river.Job[BookingEventArgs]) error {
	w.logger.Info("processing booking event",
		zap.String("event", job.Args.Event),
		zap.String("booking_id", job.Args.BookingID),
		zap.String("room_id", job.Args.RoomID),
		zap.String("status", job.Args.Status),
		zap.Int64("job_id", job.ID),
		zap.Int("attempt", job.Attempt),
	)
	return nil
}

// DigestArgs triggers the front-desk digest. It carries no data: the worker
// reads today's date from its clock.
type DigestArgs struct{}

// Kind returns the unique job type identifier used by River's job routing.
func (DigestArgs) Kind() string { return "frontdesk.digest" }

// DigestWorker logs, for every hotel, how many guests arrive and leave today.
type DigestWorker struct {
	river.WorkerDefaults[DigestArgs]
	store  domain.Store
	clock  domain.Clock
	logger *zap.Logger
}

// NewDigestWorker creates a digest worker reading from store.
func NewDigestWorker(store domain.Store, clock domain.Clock, logger *zap.Logger) *DigestWorker {
	return &DigestWorker{store: store, clock: clock, logger: logger.Named("digest")}
}

// Work builds and logs the digest for today.
func (w *DigestWorker) Work(ctx context.Context, job *river.Job[DigestArgs]) error {
	today := w.clock.Today()

	hotels, err := w.store.Hotels().List(ctx)
	if err != nil {
		return fmt.Errorf("listing hotels: %w", err)
	}

	for _, h := range hotels {
		arrivals, err := w.store.Bookings().ListByCheckIn(ctx, h.ID, today)
		if err != nil {
			return fmt.Errorf("listing arrivals for hotel %s: %w", h.ID, err)
		}
		departures, err := w.store.Bookings().ListByCheckOut(ctx, h.ID, today)
		if err != nil {
			return fmt.Errorf("listing departures for hotel %s: %w", h.ID, err)
		}

		w.logger.Info("front desk digest",
			zap.String("hotel_id", h.ID),
			zap.String("hotel", h.Name),
			zap.Stringer("day", today),
			zap.Int("arrivals", countLive(arrivals)),
			zap.Int("departures", countLive(departures)),
		)
	}
	return nil
}

func countLive(bookings []domain.Booking) int {
	n := 0
	for _, b := range bookings {
		if b.Blocks() {
			n++
		}
	}
	return n
}
