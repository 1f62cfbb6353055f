package app_test

import (
	"context"
	"errors"
	"sort"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"github.com/neomorfeo/roomkeeper/internal/domain"
)

// --- Mocks ---

// memState is the whole content of a mockStore. Transactions work on a clone
// and swap it in on success.
type memState struct {
	bookings map[string]domain.Booking
	rooms    map[string]domain.Room
	closures map[string]domain.Closure
	hotels   map[string]domain.Hotel
	guests   map[string]domain.Guest
}

func newMemState() *memState {
	return &memState{
		bookings: make(map[string]domain.Booking),
		rooms:    make(map[string]domain.Room),
		closures: make(map[string]domain.Closure),
		hotels:   make(map[string]domain.Hotel),
		guests:   make(map[string]domain.Guest),
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	for k, v := range s.rooms {
		c.rooms[k] = v
	}
	for k, v := range s.closures {
		c.closures[k] = v
	}
	for k, v := range s.hotels {
		c.hotels[k] = v
	}
	for k, v := range s.guests {
		c.guests[k] = v
	}
	return c
}

type mockStore struct {
	state *memState
	// roomSaveErr makes every room write fail.
	roomSaveErr error
	txCount     int
}

func newMockStore() *mockStore {
	return &mockStore{state: newMemState()}
}

func (m *mockStore) repos(state *memState) memRepos {
	return memRepos{state: state, roomSaveErr: m.roomSaveErr}
}

func (m *mockStore) Bookings() domain.BookingRepository { return m.repos(m.state).Bookings() }
func (m *mockStore) Rooms() domain.RoomRepository       { return m.repos(m.state).Rooms() }
func (m *mockStore) Closures() domain.ClosureRepository { return m.repos(m.state).Closures() }
func (m *mockStore) Hotels() domain.HotelRepository     { return m.repos(m.state).Hotels() }
func (m *mockStore) Guests() domain.GuestRepository     { return m.repos(m.state).Guests() }

func (m *mockStore) InTx(ctx context.Context, fn func(context.Context, domain.Repositories) error) error {
	m.txCount++
	tx := m.state.clone()
	if err := fn(ctx, m.repos(tx)); err != nil {
		return err
	}
	m.state = tx
	return nil
}

type memRepos struct {
	state       *memState
	roomSaveErr error
}

func (r memRepos) Bookings() domain.BookingRepository { return bookingRepo{r.state} }
func (r memRepos) Rooms() domain.RoomRepository       { return roomRepo{r.state, r.roomSaveErr} }
func (r memRepos) Closures() domain.ClosureRepository { return closureRepo{r.state} }
func (r memRepos) Hotels() domain.HotelRepository     { return hotelRepo{r.state} }
func (r memRepos) Guests() domain.GuestRepository     { return guestRepo{r.state} }

type bookingRepo struct{ s *memState }

func (r bookingRepo) GetByID(_ context.Context, id string) (domain.Booking, error) {
	b, ok := r.s.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	return b, nil
}

func (r bookingRepo) Save(_ context.Context, b domain.Booking) error {
	r.s.bookings[b.ID] = b
	return nil
}

func (r bookingRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.bookings[id]; !ok {
		return domain.ErrBookingNotFound
	}
	delete(r.s.bookings, id)
	return nil
}

func (r bookingRepo) filter(hotelID string, keep func(domain.Booking) bool) []domain.Booking {
	out := []domain.Booking{}
	for _, b := range r.s.bookings {
		if r.s.rooms[b.RoomID].HotelID == hotelID && keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r bookingRepo) ListByHotel(_ context.Context, hotelID string) ([]domain.Booking, error) {
	return r.filter(hotelID, func(domain.Booking) bool { return true }), nil
}

func (r bookingRepo) ListByHotelBetween(_ context.Context, hotelID string, rng domain.DateRange) ([]domain.Booking, error) {
	return r.filter(hotelID, func(b domain.Booking) bool { return domain.Overlaps(b.Stay(), rng) }), nil
}

func (r bookingRepo) ListByCheckIn(_ context.Context, hotelID string, day civil.Date) ([]domain.Booking, error) {
	return r.filter(hotelID, func(b domain.Booking) bool { return b.CheckIn == day }), nil
}

func (r bookingRepo) ListByCheckOut(_ context.Context, hotelID string, day civil.Date) ([]domain.Booking, error) {
	return r.filter(hotelID, func(b domain.Booking) bool { return b.CheckOut == day }), nil
}

type roomRepo struct {
	s       *memState
	saveErr error
}

func (r roomRepo) GetByID(_ context.Context, id string) (domain.Room, error) {
	room, ok := r.s.rooms[id]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return room, nil
}

func (r roomRepo) Save(_ context.Context, room domain.Room) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.s.rooms[room.ID] = room
	return nil
}

func (r roomRepo) ListByHotel(_ context.Context, hotelID string) ([]domain.Room, error) {
	out := []domain.Room{}
	for _, room := range r.s.rooms {
		if room.HotelID == hotelID {
			out = append(out, room)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type closureRepo struct{ s *memState }

func (r closureRepo) GetByID(_ context.Context, id string) (domain.Closure, error) {
	c, ok := r.s.closures[id]
	if !ok {
		return domain.Closure{}, domain.ErrClosureNotFound
	}
	return c, nil
}

func (r closureRepo) Save(_ context.Context, c domain.Closure) error {
	r.s.closures[c.ID] = c
	return nil
}

func (r closureRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.closures[id]; !ok {
		return domain.ErrClosureNotFound
	}
	delete(r.s.closures, id)
	return nil
}

func (r closureRepo) ListByHotel(_ context.Context, hotelID string) ([]domain.Closure, error) {
	out := []domain.Closure{}
	for _, c := range r.s.closures {
		if c.HotelID == hotelID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period.Start.Before(out[j].Period.Start) })
	return out, nil
}

func (r closureRepo) ListOverlapping(ctx context.Context, hotelID string, rng domain.DateRange) ([]domain.Closure, error) {
	all, _ := r.ListByHotel(ctx, hotelID)
	out := []domain.Closure{}
	for _, c := range all {
		if domain.Overlaps(c.Period, rng) {
			out = append(out, c)
		}
	}
	return out, nil
}

type hotelRepo struct{ s *memState }

func (r hotelRepo) GetByID(_ context.Context, id string) (domain.Hotel, error) {
	h, ok := r.s.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrHotelNotFound
	}
	return h, nil
}

func (r hotelRepo) Save(_ context.Context, h domain.Hotel) error {
	r.s.hotels[h.ID] = h
	return nil
}

func (r hotelRepo) List(_ context.Context) ([]domain.Hotel, error) {
	out := []domain.Hotel{}
	for _, h := range r.s.hotels {
		out = append(out, h)
	}
	return out, nil
}

type guestRepo struct{ s *memState }

func (r guestRepo) GetByID(_ context.Context, id string) (domain.Guest, error) {
	g, ok := r.s.guests[id]
	if !ok {
		return domain.Guest{}, domain.ErrGuestNotFound
	}
	return g, nil
}

func (r guestRepo) Save(_ context.Context, g domain.Guest) error {
	r.s.guests[g.ID] = g
	return nil
}

func (r guestRepo) List(_ context.Context) ([]domain.Guest, error) {
	out := []domain.Guest{}
	for _, g := range r.s.guests {
		out = append(out, g)
	}
	return out, nil
}

type mockPublisher struct {
	events []publishedEvent
	err    error
}

type publishedEvent struct {
	event   domain.Event
	booking domain.Booking
}

func (m *mockPublisher) Publish(_ context.Context, e domain.Event, b domain.Booking) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, publishedEvent{event: e, booking: b})
	return nil
}

// tableValidator applies domain.Transitions directly.
type tableValidator struct{}

func (tableValidator) Apply(_ context.Context, current domain.BookingStatus, event domain.Event) (domain.BookingStatus, error) {
	for _, t := range domain.Transitions {
		if t.Event == event && t.Src == current {
			return t.Dst, nil
		}
	}
	expected, _ := domain.ExpectedStatus(event)
	return "", &domain.TransitionError{Event: event, Current: current, Expected: expected}
}

// --- Helpers ---

var errBoom = errors.New("boom")

func day(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func span(from, to string) domain.DateRange {
	return domain.NewDateRange(day(from), day(to))
}

func nopLogger() *zap.Logger { return zap.NewNop() }

// seed stores a hotel, a guest and two rooms and returns the store.
func seed() *mockStore {
	m := newMockStore()
	m.state.hotels["h1"] = domain.Hotel{ID: "h1", Name: "Grand"}
	m.state.hotels["h2"] = domain.Hotel{ID: "h2", Name: "Lido"}
	m.state.guests["g1"] = domain.Guest{ID: "g1", FirstName: "Ada", LastName: "Lovelace"}
	m.state.rooms["r1"] = domain.NewRoom("r1", "h1", "101", "", 80)
	m.state.rooms["r2"] = domain.NewRoom("r2", "h1", "102", "", 95)
	m.state.rooms["r9"] = domain.NewRoom("r9", "h2", "901", "", 60)
	return m
}

func pending(id, room, checkIn, checkOut string) domain.Booking {
	return domain.Booking{
		ID:       id,
		GuestID:  "g1",
		RoomID:   room,
		CheckIn:  day(checkIn),
		CheckOut: day(checkOut),
		Price:    200,
		Status:   domain.StatusPending,
	}
}
