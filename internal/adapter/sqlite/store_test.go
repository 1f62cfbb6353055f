package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/neomorfeo/roomkeeper/internal/adapter/sqlite"
	"github.com/neomorfeo/roomkeeper/internal/domain"
)

// newTestStore creates an in-memory SQLite store for testing.
func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

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

// seedStore inserts hotel h1 with rooms r1 and r2, hotel h2 with room r9, and guest g1.
func seedStore(t *testing.T, store *sqlite.Store) {
	t.Helper()
	ctx := context.Background()

	for _, h := range []domain.Hotel{{ID: "h1", Name: "Grand", City: "Rimini"}, {ID: "h2", Name: "Lido"}} {
		if err := store.Hotels().Save(ctx, h); err != nil {
			t.Fatalf("saving hotel: %v", err)
		}
	}
	for _, r := range []domain.Room{
		domain.NewRoom("r1", "h1", "101", "sea view", 80),
		domain.NewRoom("r2", "h1", "102", "", 95),
		domain.NewRoom("r9", "h2", "901", "", 60),
	} {
		if err := store.Rooms().Save(ctx, r); err != nil {
			t.Fatalf("saving room: %v", err)
		}
	}
	if err := store.Guests().Save(ctx, domain.Guest{ID: "g1", FirstName: "Ada", LastName: "Lovelace"}); err != nil {
		t.Fatalf("saving guest: %v", err)
	}
}

func mustSaveBooking(t *testing.T, store *sqlite.Store, id, room, checkIn, checkOut string, status domain.BookingStatus) domain.Booking {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	b := domain.Booking{
		ID:        id,
		GuestID:   "g1",
		RoomID:    room,
		CheckIn:   day(checkIn),
		CheckOut:  day(checkOut),
		Price:     300,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.Bookings().Save(context.Background(), b); err != nil {
		t.Fatalf("saving booking: %v", err)
	}
	return b
}

func bookingIDs(bookings []domain.Booking) []string {
	out := make([]string, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.ID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestInTx_CommitsAllWrites(t *testing.T) {
	store := newTestStore(t)
	seedStore(t, store)
	ctx := context.Background()

	b := mustSaveBooking(t, store, "b1", "r1", "2024-03-01", "2024-03-05", domain.StatusPending)

	err := store.InTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		b.Status = domain.StatusCheckedIn
		if err := repos.Bookings().Save(ctx, b); err != nil {
			return err
		}
		room, err := repos.Rooms().GetByID(ctx, "r1")
		if err != nil {
			return err
		}
		room.Status = domain.RoomOccupied
		return repos.Rooms().Save(ctx, room)
	})
	if err != nil {
		t.Fatalf("InTx failed: %v", err)
	}

	got, _ := store.Bookings().GetByID(ctx, "b1")
	if got.Status != domain.StatusCheckedIn {
		t.Errorf("booking Status = %q, want %q", got.Status, domain.StatusCheckedIn)
	}
	room, _ := store.Rooms().GetByID(ctx, "r1")
	if room.Status != domain.RoomOccupied {
		t.Errorf("room Status = %q, want %q", room.Status, domain.RoomOccupied)
	}
}

func TestInTx_RollsBackOnError(t *testing.T) {
	store := newTestStore(t)
	seedStore(t, store)
	ctx := context.Background()

	b := mustSaveBooking(t, store, "b1", "r1", "2024-03-01", "2024-03-05", domain.StatusPending)
	boom := errors.New("boom")

	err := store.InTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		b.Status = domain.StatusCheckedIn
		if err := repos.Bookings().Save(ctx, b); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, err := store.Bookings().GetByID(ctx, "b1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != domain.StatusPending {
		t.Errorf("Status = %q, want %q after rollback", got.Status, domain.StatusPending)
	}
}

func TestBooking_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	seedStore(t, store)
	ctx := context.Background()

	want := mustSaveBooking(t, store, "b1", "r1", "2024-02-28", "2024-03-02", domain.StatusPending)

	got, err := store.Bookings().GetByID(ctx, "b1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.CheckIn != want.CheckIn || got.CheckOut != want.CheckOut {
		t.Errorf("stay = %v, want %v", got.Stay(), want.Stay())
	}
	if got.Price != 300 || got.GuestID != "g1" || got.RoomID != "r1" {
		t.Errorf("booking = %+v", got)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
	}

	got.Notes = "late"
	got.Status = domain.StatusCanceled
	if err := store.Bookings().Save(ctx, got); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	updated, _ := store.Bookings().GetByID(ctx, "b1")
	if updated.Notes != "late" || updated.Status != domain.StatusCanceled {
		t.Errorf("updated = %+v", updated)
	}
}

func TestBooking_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Bookings().GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, domain.ErrBookingNotFound) {
		t.Errorf("expected ErrBookingNotFound, got %v", err)
	}
	if err := store.Bookings().Delete(context.Background(), "nonexistent"); !errors.Is(err, domain.ErrBookingNotFound) {
		t.Errorf("expected ErrBookingNotFound on delete, got %v", err)
	}
}

func TestBooking_ForeignKeys(t *testing.T) {
	store := newTestStore(t)
	seedStore(t, store)

	b := domain.Booking{ID: "b1", GuestID: "g1", RoomID: "missing", CheckIn: day("2024-03-01"), CheckOut: day("2024-03-02"), Status: domain.StatusPending}
	if err := store.Bookings().Save(context.Background(), b); err == nil {
		t.Error("expected foreign key violation")
	}
}

func TestBooking_Listings(t *testing.T) {
	store := newTestStore(t)
	seedStore(t, store)
	ctx := context.Background()

	mustSaveBooking(t, store, "a", "r1", "2024-03-01", "2024-03-05", domain.StatusPending)
	mustSaveBooking(t, store, "b", "r2", "2024-02-25", "2024-03-01", domain.StatusCheckedIn)
	mustSaveBooking(t, store, "c", "r1", "2024-03-10", "2024-03-12", domain.StatusPending)
	mustSaveBooking(t, store, "d", "r9", "2024-03-01", "2024-03-05", domain.StatusPending)

	tests := []struct {
		name string
		list func() ([]domain.Booking, error)
		want []string
	}{
		{"by hotel", func() ([]domain.Booking, error) { return store.Bookings().ListByHotel(ctx, "h1") }, []string{"b", "a", "c"}},
		{"between", func() ([]domain.Booking, error) {
			return store.Bookings().ListByHotelBetween(ctx, "h1", span("2024-03-05", "2024-03-09"))
		}, []string{"a"}},
		{"between touching", func() ([]domain.Booking, error) {
			return store.Bookings().ListByHotelBetween(ctx, "h1", span("2024-02-20", "2024-03-01"))
		}, []string{"b", "a"}},
		{"check-in", func() ([]domain.Booking, error) { return store.Bookings().ListByCheckIn(ctx, "h1", day("2024-03-01")) }, []string{"a"}},
		{"check-out", func() ([]domain.Booking, error) { return store.Bookings().ListByCheckOut(ctx, "h1", day("2024-03-01")) }, []string{"b"}},
		{"other hotel", func() ([]domain.Booking, error) { return store.Bookings().ListByHotel(ctx, "h2") }, []string{"d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.list()
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if ids := bookingIDs(got); !equal(ids, tt.want) {
				t.Errorf("ids = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestRoom_PersistsLastCleaned(t *testing.T) {
	store := newTestStore(t)
	seedStore(t, store)
	ctx := context.Background()

	room, err := store.Rooms().GetByID(ctx, "r1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if room.LastCleaned != nil {
		t.Errorf("LastCleaned = %v, want nil", room.LastCleaned)
	}
	if room.Description != "sea view" || room.BasePrice != 80 {
		t.Errorf("room = %+v", room)
	}

	cleaned := day("2024-03-06")
	room.LastCleaned = &cleaned
	room.Status = domain.RoomAvailable
	if err := store.Rooms().Save(ctx, room); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, _ := store.Rooms().GetByID(ctx, "r1")
	if got.LastCleaned == nil || *got.LastCleaned != cleaned {
		t.Errorf("LastCleaned = %v, want %v", got.LastCleaned, cleaned)
	}

	rooms, err := store.Rooms().ListByHotel(ctx, "h1")
	if err != nil {
		t.Fatalf("ListByHotel failed: %v", err)
	}
	if len(rooms) != 2 || rooms[0].Name != "101" || rooms[1].Name != "102" {
		t.Errorf("rooms = %+v", rooms)
	}

	if _, err := store.Rooms().GetByID(ctx, "missing"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Errorf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestClosure_OverlapIsInclusive(t *testing.T) {
	store := newTestStore(t)
	seedStore(t, store)
	ctx := context.Background()

	for _, c := range []domain.Closure{
		{ID: "jan", HotelID: "h1", Period: span("2024-01-01", "2024-01-31"), Reason: "winter"},
		{ID: "feb", HotelID: "h1", Period: span("2024-02-01", "2024-02-10")},
		{ID: "other", HotelID: "h2", Period: span("2024-01-01", "2024-12-31")},
	} {
		if err := store.Closures().Save(ctx, c); err != nil {
			t.Fatalf("saving closure: %v", err)
		}
	}

	got, err := store.Closures().ListOverlapping(ctx, "h1", span("2024-01-31", "2024-01-31"))
	if err != nil {
		t.Fatalf("ListOverlapping failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "jan" {
		t.Errorf("overlapping = %+v, want [jan]", got)
	}

	got, _ = store.Closures().ListOverlapping(ctx, "h1", span("2024-01-31", "2024-02-01"))
	if len(got) != 2 {
		t.Errorf("expected 2 overlapping closures, got %d", len(got))
	}

	all, _ := store.Closures().ListByHotel(ctx, "h1")
	if len(all) != 2 || all[0].ID != "jan" || all[0].Reason != "winter" {
		t.Errorf("closures = %+v", all)
	}
}

func TestClosure_CheckConstraint(t *testing.T) {
	store := newTestStore(t)
	seedStore(t, store)

	c := domain.Closure{ID: "bad", HotelID: "h1", Period: span("2024-02-10", "2024-02-01")}
	if err := store.Closures().Save(context.Background(), c); err == nil {
		t.Error("expected check constraint violation")
	}
}

func TestClosure_Delete(t *testing.T) {
	store := newTestStore(t)
	seedStore(t, store)
	ctx := context.Background()

	if err := store.Closures().Save(ctx, domain.Closure{ID: "c1", HotelID: "h1", Period: span("2024-01-01", "2024-01-02")}); err != nil {
		t.Fatalf("saving closure: %v", err)
	}
	if err := store.Closures().Delete(ctx, "c1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Closures().GetByID(ctx, "c1"); !errors.Is(err, domain.ErrClosureNotFound) {
		t.Errorf("expected ErrClosureNotFound, got %v", err)
	}
	if err := store.Closures().Delete(ctx, "c1"); !errors.Is(err, domain.ErrClosureNotFound) {
		t.Errorf("expected ErrClosureNotFound, got %v", err)
	}
}

func TestHotelsAndGuests(t *testing.T) {
	store := newTestStore(t)
	seedStore(t, store)
	ctx := context.Background()

	hotels, err := store.Hotels().List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(hotels) != 2 || hotels[0].Name != "Grand" {
		t.Errorf("hotels = %+v", hotels)
	}
	if _, err := store.Hotels().GetByID(ctx, "missing"); !errors.Is(err, domain.ErrHotelNotFound) {
		t.Errorf("expected ErrHotelNotFound, got %v", err)
	}

	dob := day("1815-12-10")
	g := domain.Guest{ID: "g2", FirstName: "Grace", LastName: "Hopper", SSN: "X1", DateOfBirth: &dob}
	if err := store.Guests().Save(ctx, g); err != nil {
		t.Fatalf("Save guest failed: %v", err)
	}
	got, err := store.Guests().GetByID(ctx, "g2")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.DateOfBirth == nil || *got.DateOfBirth != dob || got.SSN != "X1" {
		t.Errorf("guest = %+v", got)
	}
	if _, err := store.Guests().GetByID(ctx, "missing"); !errors.Is(err, domain.ErrGuestNotFound) {
		t.Errorf("expected ErrGuestNotFound, got %v", err)
	}
	guests, _ := store.Guests().List(ctx)
	if len(guests) != 2 {
		t.Errorf("expected 2 guests, got %d", len(guests))
	}
}
