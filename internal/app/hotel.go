package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/neomorfeo/roomkeeper/internal/domain"
)

// HotelService manages hotels and their rooms and answers availability queries.
type HotelService struct {
	store  domain.Store
	logger *zap.Logger
}

// NewHotelService creates a hotel service.
func NewHotelService(store domain.Store, logger *zap.Logger) *HotelService {
	return &HotelService{store: store, logger: logger.Named("hotel")}
}

// SaveHotel inserts a hotel, or replaces it when the ID is already known.
func (s *HotelService) SaveHotel(ctx context.Context, hotel domain.Hotel) (domain.Hotel, error) {
	if strings.TrimSpace(hotel.Name) == "" {
		return domain.Hotel{}, &domain.ValidationError{Field: "name", Reason: "must not be blank"}
	}
	if hotel.ID == "" {
		id, err := generateID()
		if err != nil {
			return domain.Hotel{}, fmt.Errorf("generating hotel id: %w", err)
		}
		hotel.ID = id
	}
	if err := s.store.Hotels().Save(ctx, hotel); err != nil {
		return domain.Hotel{}, fmt.Errorf("saving hotel: %w", err)
	}
	s.logger.Info("hotel saved", zap.String("hotel_id", hotel.ID))
	return hotel, nil
}

// GetHotel returns a hotel by id.
func (s *HotelService) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	return s.store.Hotels().GetByID(ctx, id)
}

// ListHotels returns every hotel.
func (s *HotelService) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	return s.store.Hotels().List(ctx)
}

// SaveRoom inserts or updates a room. New rooms start AVAILABLE and never
// cleaned; on update the stored status and last-cleaned date are kept,
// whatever the caller sent.
func (s *HotelService) SaveRoom(ctx context.Context, room domain.Room) (domain.Room, error) {
	if strings.TrimSpace(room.Name) == "" {
		return domain.Room{}, &domain.ValidationError{Field: "name", Reason: "must not be blank"}
	}
	if room.BasePrice < 0 {
		return domain.Room{}, &domain.ValidationError{Field: "base_price", Reason: "must not be negative"}
	}

	var saved domain.Room
	err := s.store.InTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		if _, err := repos.Hotels().GetByID(ctx, room.HotelID); err != nil {
			return err
		}

		saved = domain.NewRoom(room.ID, room.HotelID, room.Name, room.Description, room.BasePrice)
		if room.ID != "" {
			existing, err := repos.Rooms().GetByID(ctx, room.ID)
			switch {
			case err == nil:
				saved.Status = existing.Status
				saved.LastCleaned = existing.LastCleaned
			case !errors.Is(err, domain.ErrRoomNotFound):
				return err
			}
		} else {
			id, err := generateID()
			if err != nil {
				return fmt.Errorf("generating room id: %w", err)
			}
			saved.ID = id
		}

		if err := repos.Rooms().Save(ctx, saved); err != nil {
			return fmt.Errorf("saving room: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Room{}, err
	}

	s.logger.Info("room saved",
		zap.String("room_id", saved.ID),
		zap.String("hotel_id", saved.HotelID),
		zap.String("status", string(saved.Status)),
	)
	return saved, nil
}

// GetRoom returns a room by id.
func (s *HotelService) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	return s.store.Rooms().GetByID(ctx, id)
}

// ListRooms returns the rooms of a hotel.
func (s *HotelService) ListRooms(ctx context.Context, hotelID string) ([]domain.Room, error) {
	if _, err := s.store.Hotels().GetByID(ctx, hotelID); err != nil {
		return nil, err
	}
	return s.store.Rooms().ListByHotel(ctx, hotelID)
}

// FindFreeRooms returns the hotel's rooms that no live booking occupies during
// stay, ordered by name. A room vacated on stay.Start, or taken from stay.End
// onwards, counts as free. Closures are not consulted.
func (s *HotelService) FindFreeRooms(ctx context.Context, hotelID string, stay domain.DateRange) ([]domain.Room, error) {
	if !stay.IsComplete() {
		return nil, &domain.ValidationError{Field: "range", Reason: "from and to dates are required"}
	}
	if !stay.IsValid() {
		return nil, &domain.ValidationError{Field: "range", Reason: "to must not be before from"}
	}
	if _, err := s.store.Hotels().GetByID(ctx, hotelID); err != nil {
		return nil, err
	}

	rooms, err := s.store.Rooms().ListByHotel(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	bookings, err := s.store.Bookings().ListByHotelBetween(ctx, hotelID, stay)
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}

	busy := make(map[string]bool)
	for _, b := range bookings {
		if b.Blocks() && domain.StaysOverlap(b.Stay(), stay) {
			busy[b.RoomID] = true
		}
	}

	free := make([]domain.Room, 0, len(rooms))
	for _, r := range rooms {
		if !busy[r.ID] {
			free = append(free, r)
		}
	}
	sort.SliceStable(free, func(i, j int) bool { return free[i].Name < free[j].Name })
	return free, nil
}
