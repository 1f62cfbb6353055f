package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/neomorfeo/roomkeeper/internal/domain"
)

// ClosureService manages the periods during which hotels take no bookings.
type ClosureService struct {
	store  domain.Store
	clock  domain.Clock
	logger *zap.Logger
}

// NewClosureService creates a closure service.
func NewClosureService(store domain.Store, clock domain.Clock, logger *zap.Logger) *ClosureService {
	return &ClosureService{
		store:  store,
		clock:  clock,
		logger: logger.Named("closure"),
	}
}

// GetByID returns a closure by id.
func (s *ClosureService) GetByID(ctx context.Context, id string) (domain.Closure, error) {
	return s.store.Closures().GetByID(ctx, id)
}

// ListByHotel returns the hotel's closures ordered by start date.
func (s *ClosureService) ListByHotel(ctx context.Context, hotelID string) ([]domain.Closure, error) {
	return s.store.Closures().ListByHotel(ctx, hotelID)
}

// Delete removes a closure.
func (s *ClosureService) Delete(ctx context.Context, id string) error {
	if err := s.store.Closures().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("closure deleted", zap.String("closure_id", id))
	return nil
}

// Save validates and stores a new closure. It may not start or end in the past.
func (s *ClosureService) Save(ctx context.Context, closure domain.Closure) (domain.Closure, error) {
	if err := s.validate(closure.Period); err != nil {
		return domain.Closure{}, err
	}
	if _, err := s.store.Hotels().GetByID(ctx, closure.HotelID); err != nil {
		return domain.Closure{}, err
	}

	id, err := generateID()
	if err != nil {
		return domain.Closure{}, fmt.Errorf("generating closure id: %w", err)
	}
	closure.ID = id

	if err := s.store.Closures().Save(ctx, closure); err != nil {
		return domain.Closure{}, fmt.Errorf("saving closure: %w", err)
	}

	s.logger.Info("closure saved",
		zap.String("closure_id", closure.ID),
		zap.String("hotel_id", closure.HotelID),
		zap.Stringer("period", closure.Period),
	)
	return closure, nil
}

func (s *ClosureService) validate(period domain.DateRange) error {
	today := s.clock.Today()
	switch {
	case !period.IsComplete():
		return &domain.ValidationError{Field: "period", Reason: "start and end dates are required"}
	case period.Start.Before(today):
		return &domain.ValidationError{Field: "start", Reason: "start date cannot be in the past"}
	case period.End.Before(today):
		return &domain.ValidationError{Field: "end", Reason: "end date cannot be in the past"}
	case period.End.Before(period.Start):
		return &domain.ValidationError{Field: "end", Reason: "end date must not be before start date"}
	}
	return nil
}

// Reopen makes the hotel bookable again on every day of [from, to]. Each
// overlapping closure is split, trimmed or deleted so that none of it remains
// inside the range. All changes are applied atomically.
func (s *ClosureService) Reopen(ctx context.Context, hotelID string, reopen domain.DateRange) error {
	if !reopen.IsComplete() {
		return &domain.ValidationError{Field: "range", Reason: "from and to dates are required"}
	}
	if !reopen.IsValid() {
		return &domain.ValidationError{Field: "range", Reason: "to must not be before from"}
	}

	counts := make(map[domain.CutKind]int)
	err := s.store.InTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		closures, err := repos.Closures().ListOverlapping(ctx, hotelID, reopen)
		if err != nil {
			return fmt.Errorf("listing overlapping closures: %w", err)
		}

		for _, c := range closures {
			cut := domain.CutOut(c.Period, reopen)
			if err := applyCut(ctx, repos.Closures(), c, cut); err != nil {
				return err
			}
			counts[cut.Kind]++
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("closures reopened",
		zap.String("hotel_id", hotelID),
		zap.Stringer("range", reopen),
		zap.Int("split", counts[domain.CutSplit]),
		zap.Int("deleted", counts[domain.CutDelete]),
		zap.Int("trimmed", counts[domain.CutKeepHead]+counts[domain.CutKeepTail]),
	)
	return nil
}

func applyCut(ctx context.Context, repo domain.ClosureRepository, c domain.Closure, cut domain.Cut) error {
	switch cut.Kind {
	case domain.CutSplit:
		id, err := generateID()
		if err != nil {
			return fmt.Errorf("generating closure id: %w", err)
		}
		tail := domain.Closure{ID: id, HotelID: c.HotelID, Period: cut.Tail, Reason: c.Reason}
		if err := repo.Save(ctx, tail); err != nil {
			return fmt.Errorf("inserting closure tail: %w", err)
		}
		c.Period = cut.Head
	case domain.CutDelete:
		if err := repo.Delete(ctx, c.ID); err != nil {
			return fmt.Errorf("deleting closure %s: %w", c.ID, err)
		}
		return nil
	case domain.CutKeepHead:
		c.Period = cut.Head
	case domain.CutKeepTail:
		c.Period = cut.Tail
	default:
		return fmt.Errorf("unknown cut kind %s", cut.Kind)
	}

	if err := repo.Save(ctx, c); err != nil {
		return fmt.Errorf("updating closure %s: %w", c.ID, err)
	}
	return nil
}
