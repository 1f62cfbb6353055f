package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/neomorfeo/roomkeeper/internal/domain"
)

// BookingService orchestrates the booking lifecycle and keeps the booked
// room's status in step with it.
type BookingService struct {
	store     domain.Store
	publisher domain.EventPublisher
	validator domain.TransitionValidator
	clock     domain.Clock
	logger    *zap.Logger
}

// NewBookingService creates a service with the given adapters.
func NewBookingService(
	store domain.Store,
	publisher domain.EventPublisher,
	validator domain.TransitionValidator,
	clock domain.Clock,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		store:     store,
		publisher: publisher,
		validator: validator,
		clock:     clock,
		logger:    logger.Named("booking"),
	}
}

// GetByID returns a booking by its unique identifier.
func (s *BookingService) GetByID(ctx context.Context, id string) (domain.Booking, error) {
	return s.store.Bookings().GetByID(ctx, id)
}

// ListByHotel returns every booking for rooms of the hotel.
func (s *BookingService) ListByHotel(ctx context.Context, hotelID string) ([]domain.Booking, error) {
	return s.store.Bookings().ListByHotel(ctx, hotelID)
}

// TodaysArrivals returns the hotel's bookings checking in today.
func (s *BookingService) TodaysArrivals(ctx context.Context, hotelID string) ([]domain.Booking, error) {
	return s.store.Bookings().ListByCheckIn(ctx, hotelID, s.clock.Today())
}

// TodaysDepartures returns the hotel's bookings checking out today.
func (s *BookingService) TodaysDepartures(ctx context.Context, hotelID string) ([]domain.Booking, error) {
	return s.store.Bookings().ListByCheckOut(ctx, hotelID, s.clock.Today())
}

// Save inserts a booking or replaces every field of the stored one with the
// same ID. This is an administrative write and does not go through the state
// machine. A missing status becomes PENDING on insert and is left untouched on
// update.
func (s *BookingService) Save(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	if err := booking.Validate(); err != nil {
		return domain.Booking{}, err
	}

	created := false
	err := s.store.InTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		if _, err := repos.Rooms().GetByID(ctx, booking.RoomID); err != nil {
			return err
		}
		if _, err := repos.Guests().GetByID(ctx, booking.GuestID); err != nil {
			return err
		}

		now := time.Now().UTC()
		existing, err := s.lookup(ctx, repos, booking.ID)
		if err != nil {
			return err
		}

		if existing != nil {
			if booking.Status == "" {
				booking.Status = existing.Status
			}
			booking.CreatedAt = existing.CreatedAt
		} else {
			created = true
			if booking.ID == "" {
				id, err := generateID()
				if err != nil {
					return fmt.Errorf("generating booking id: %w", err)
				}
				booking.ID = id
			}
			if booking.Status == "" {
				booking.Status = domain.StatusPending
			}
			booking.CreatedAt = now
		}
		booking.UpdatedAt = now

		if err := repos.Bookings().Save(ctx, booking); err != nil {
			return fmt.Errorf("saving booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}

	s.logger.Info("booking saved",
		zap.String("booking_id", booking.ID),
		zap.String("status", string(booking.Status)),
		zap.Bool("created", created),
	)
	return booking, nil
}

// lookup returns the stored booking with id, or nil when there is none.
func (s *BookingService) lookup(ctx context.Context, repos domain.Repositories, id string) (*domain.Booking, error) {
	if id == "" {
		return nil, nil
	}
	existing, err := repos.Bookings().GetByID(ctx, id)
	if errors.Is(err, domain.ErrBookingNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

// Delete removes a booking.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	if err := s.store.Bookings().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("booking deleted", zap.String("booking_id", id))
	return nil
}

// Accept checks the guest in: PENDING → CHECKED_IN, room → OCCUPIED.
func (s *BookingService) Accept(ctx context.Context, id string) (domain.Booking, error) {
	return s.transition(ctx, id, domain.EventAccept)
}

// Cancel drops a booking that was never checked in: PENDING → CANCELED.
// The room is left as it is.
func (s *BookingService) Cancel(ctx context.Context, id string) (domain.Booking, error) {
	return s.transition(ctx, id, domain.EventCancel)
}

// Checkout releases the room for cleaning: CHECKED_IN → CHECKED_OUT,
// room → TO_CLEAN. Refused before the departure date.
func (s *BookingService) Checkout(ctx context.Context, id string) (domain.Booking, error) {
	return s.transition(ctx, id, domain.EventCheckout)
}

// Complete certifies the room as cleaned: CHECKED_OUT → COMPLETE,
// room → AVAILABLE with last-cleaned set to today.
func (s *BookingService) Complete(ctx context.Context, id string) (domain.Booking, error) {
	return s.transition(ctx, id, domain.EventComplete)
}

// transition applies event to the booking and its room in one unit of work,
// then publishes the event.
func (s *BookingService) transition(ctx context.Context, id string, event domain.Event) (domain.Booking, error) {
	today := s.clock.Today()

	var booking domain.Booking
	var room domain.Room
	err := s.store.InTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		booking, err = repos.Bookings().GetByID(ctx, id)
		if err != nil {
			return err
		}

		next, err := s.validator.Apply(ctx, booking.Status, event)
		if err != nil {
			return err
		}
		if err := booking.Guard(event, today); err != nil {
			return err
		}

		room, err = repos.Rooms().GetByID(ctx, booking.RoomID)
		if err != nil {
			return fmt.Errorf("loading room of booking %s: %w", booking.ID, err)
		}

		booking.Status = next
		booking.UpdatedAt = time.Now().UTC()
		if err := repos.Bookings().Save(ctx, booking); err != nil {
			return fmt.Errorf("updating booking: %w", err)
		}

		changed, err := room.ApplyBookingEvent(event, today)
		if err != nil {
			return err
		}
		if changed {
			if err := repos.Rooms().Save(ctx, room); err != nil {
				return fmt.Errorf("updating room: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}

	s.logger.Info("booking transition",
		zap.String("booking_id", booking.ID),
		zap.String("event", string(event)),
		zap.String("status", string(booking.Status)),
		zap.String("room_id", room.ID),
		zap.String("room_status", string(room.Status)),
	)

	if err := s.publisher.Publish(ctx, event, booking); err != nil {
		return domain.Booking{}, fmt.Errorf("publishing event %q: %w", event, err)
	}

	return booking, nil
}
