package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/neomorfeo/roomkeeper/internal/domain"
)

// GuestService manages guest records.
type GuestService struct {
	store  domain.Store
	logger *zap.Logger
}

// NewGuestService creates a guest service.
func NewGuestService(store domain.Store, logger *zap.Logger) *GuestService {
	return &GuestService{store: store, logger: logger.Named("guest")}
}

// Save inserts a guest, or replaces it when the ID is already known.
func (s *GuestService) Save(ctx context.Context, guest domain.Guest) (domain.Guest, error) {
	if strings.TrimSpace(guest.FirstName) == "" {
		return domain.Guest{}, &domain.ValidationError{Field: "first_name", Reason: "must not be blank"}
	}
	if strings.TrimSpace(guest.LastName) == "" {
		return domain.Guest{}, &domain.ValidationError{Field: "last_name", Reason: "must not be blank"}
	}
	if guest.ID == "" {
		id, err := generateID()
		if err != nil {
			return domain.Guest{}, fmt.Errorf("generating guest id: %w", err)
		}
		guest.ID = id
	}
	if err := s.store.Guests().Save(ctx, guest); err != nil {
		return domain.Guest{}, fmt.Errorf("saving guest: %w", err)
	}
	s.logger.Info("guest saved", zap.String("guest_id", guest.ID))
	return guest, nil
}

// GetByID returns a guest by id.
func (s *GuestService) GetByID(ctx context.Context, id string) (domain.Guest, error) {
	return s.store.Guests().GetByID(ctx, id)
}

// List returns every guest.
func (s *GuestService) List(ctx context.Context) ([]domain.Guest, error) {
	return s.store.Guests().List(ctx)
}
