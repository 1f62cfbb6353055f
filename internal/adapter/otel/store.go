package otel

import (
	"context"

	"cloud.google.com/go/civil"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/roomkeeper/internal/domain"
)

const tracerName = "github.com/neomorfeo/roomkeeper/internal/adapter/otel"

// TracingStore wraps a domain.Store with OpenTelemetry tracing.
// Every repository method creates a span with semantic attributes and records
// errors. Repositories handed to InTx callbacks are traced as well, under an
// enclosing "Store.InTx" span.
type TracingStore struct {
	next   domain.Store
	tracer trace.Tracer
}

// Compile-time check: TracingStore implements domain.Store.
var _ domain.Store = (*TracingStore)(nil)

// NewTracingStore creates a tracing decorator around the given store.
func NewTracingStore(next domain.Store) *TracingStore {
	return &TracingStore{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (s *TracingStore) Bookings() domain.BookingRepository {
	return &tracingBookings{next: s.next.Bookings(), tracer: s.tracer}
}

func (s *TracingStore) Rooms() domain.RoomRepository {
	return &tracingRooms{next: s.next.Rooms(), tracer: s.tracer}
}

func (s *TracingStore) Closures() domain.ClosureRepository {
	return &tracingClosures{next: s.next.Closures(), tracer: s.tracer}
}

func (s *TracingStore) Hotels() domain.HotelRepository {
	return &tracingHotels{next: s.next.Hotels(), tracer: s.tracer}
}

func (s *TracingStore) Guests() domain.GuestRepository {
	return &tracingGuests{next: s.next.Guests(), tracer: s.tracer}
}

func (s *TracingStore) InTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	ctx, span := s.tracer.Start(ctx, "Store.InTx")
	defer span.End()

	err := s.next.InTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		return fn(ctx, tracingRepos{next: repos, tracer: s.tracer})
	})
	recordError(span, err)
	return err
}

type tracingRepos struct {
	next   domain.Repositories
	tracer trace.Tracer
}

func (r tracingRepos) Bookings() domain.BookingRepository {
	return &tracingBookings{next: r.next.Bookings(), tracer: r.tracer}
}

func (r tracingRepos) Rooms() domain.RoomRepository {
	return &tracingRooms{next: r.next.Rooms(), tracer: r.tracer}
}

func (r tracingRepos) Closures() domain.ClosureRepository {
	return &tracingClosures{next: r.next.Closures(), tracer: r.tracer}
}

func (r tracingRepos) Hotels() domain.HotelRepository {
	return &tracingHotels{next: r.next.Hotels(), tracer: r.tracer}
}

func (r tracingRepos) Guests() domain.GuestRepository {
	return &tracingGuests{next: r.next.Guests(), tracer: r.tracer}
}

func recordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// traced runs fn inside a span named name.
func traced[T any](ctx context.Context, tracer trace.Tracer, name string, attrs []attribute.KeyValue, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	defer span.End()

	v, err := fn(ctx)
	recordError(span, err)
	return v, err
}

// tracedList is traced for calls that return a slice, adding the result count.
func tracedList[T any](ctx context.Context, tracer trace.Tracer, name string, attrs []attribute.KeyValue, fn func(context.Context) ([]T, error)) ([]T, error) {
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	defer span.End()

	v, err := fn(ctx)
	if err != nil {
		recordError(span, err)
	} else {
		span.SetAttributes(attribute.Int("result.count", len(v)))
	}
	return v, err
}

func tracedExec(ctx context.Context, tracer trace.Tracer, name string, attrs []attribute.KeyValue, fn func(context.Context) error) error {
	_, err := traced(ctx, tracer, name, attrs, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

func rangeAttrs(r domain.DateRange) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("range.start", r.Start.String()),
		attribute.String("range.end", r.End.String()),
	}
}

// --- Bookings ---

type tracingBookings struct {
	next   domain.BookingRepository
	tracer trace.Tracer
}

func (r *tracingBookings) GetByID(ctx context.Context, id string) (domain.Booking, error) {
	return traced(ctx, r.tracer, "BookingRepository.GetByID",
		[]attribute.KeyValue{attribute.String("booking.id", id)},
		func(ctx context.Context) (domain.Booking, error) { return r.next.GetByID(ctx, id) },
	)
}

func (r *tracingBookings) Save(ctx context.Context, b domain.Booking) error {
	return tracedExec(ctx, r.tracer, "BookingRepository.Save",
		[]attribute.KeyValue{
			attribute.String("booking.id", b.ID),
			attribute.String("booking.status", string(b.Status)),
			attribute.String("room.id", b.RoomID),
		},
		func(ctx context.Context) error { return r.next.Save(ctx, b) },
	)
}

func (r *tracingBookings) Delete(ctx context.Context, id string) error {
	return tracedExec(ctx, r.tracer, "BookingRepository.Delete",
		[]attribute.KeyValue{attribute.String("booking.id", id)},
		func(ctx context.Context) error { return r.next.Delete(ctx, id) },
	)
}

func (r *tracingBookings) ListByHotel(ctx context.Context, hotelID string) ([]domain.Booking, error) {
	return tracedList(ctx, r.tracer, "BookingRepository.ListByHotel",
		[]attribute.KeyValue{attribute.String("hotel.id", hotelID)},
		func(ctx context.Context) ([]domain.Booking, error) { return r.next.ListByHotel(ctx, hotelID) },
	)
}

func (r *tracingBookings) ListByHotelBetween(ctx context.Context, hotelID string, rng domain.DateRange) ([]domain.Booking, error) {
	return tracedList(ctx, r.tracer, "BookingRepository.ListByHotelBetween",
		append(rangeAttrs(rng), attribute.String("hotel.id", hotelID)),
		func(ctx context.Context) ([]domain.Booking, error) { return r.next.ListByHotelBetween(ctx, hotelID, rng) },
	)
}

func (r *tracingBookings) ListByCheckIn(ctx context.Context, hotelID string, day civil.Date) ([]domain.Booking, error) {
	return tracedList(ctx, r.tracer, "BookingRepository.ListByCheckIn",
		[]attribute.KeyValue{attribute.String("hotel.id", hotelID), attribute.String("day", day.String())},
		func(ctx context.Context) ([]domain.Booking, error) { return r.next.ListByCheckIn(ctx, hotelID, day) },
	)
}

func (r *tracingBookings) ListByCheckOut(ctx context.Context, hotelID string, day civil.Date) ([]domain.Booking, error) {
	return tracedList(ctx, r.tracer, "BookingRepository.ListByCheckOut",
		[]attribute.KeyValue{attribute.String("hotel.id", hotelID), attribute.String("day", day.String())},
		func(ctx context.Context) ([]domain.Booking, error) { return r.next.ListByCheckOut(ctx, hotelID, day) },
	)
}

// --- Rooms ---

type tracingRooms struct {
	next   domain.RoomRepository
	tracer trace.Tracer
}

func (r *tracingRooms) GetByID(ctx context.Context, id string) (domain.Room, error) {
	return traced(ctx, r.tracer, "RoomRepository.GetByID",
		[]attribute.KeyValue{attribute.String("room.id", id)},
		func(ctx context.Context) (domain.Room, error) { return r.next.GetByID(ctx, id) },
	)
}

func (r *tracingRooms) Save(ctx context.Context, room domain.Room) error {
	return tracedExec(ctx, r.tracer, "RoomRepository.Save",
		[]attribute.KeyValue{
			attribute.String("room.id", room.ID),
			attribute.String("room.status", string(room.Status)),
		},
		func(ctx context.Context) error { return r.next.Save(ctx, room) },
	)
}

func (r *tracingRooms) ListByHotel(ctx context.Context, hotelID string) ([]domain.Room, error) {
	return tracedList(ctx, r.tracer, "RoomRepository.ListByHotel",
		[]attribute.KeyValue{attribute.String("hotel.id", hotelID)},
		func(ctx context.Context) ([]domain.Room, error) { return r.next.ListByHotel(ctx, hotelID) },
	)
}

// --- Closures ---

type tracingClosures struct {
	next   domain.ClosureRepository
	tracer trace.Tracer
}

func (r *tracingClosures) GetByID(ctx context.Context, id string) (domain.Closure, error) {
	return traced(ctx, r.tracer, "ClosureRepository.GetByID",
		[]attribute.KeyValue{attribute.String("closure.id", id)},
		func(ctx context.Context) (domain.Closure, error) { return r.next.GetByID(ctx, id) },
	)
}

func (r *tracingClosures) Save(ctx context.Context, c domain.Closure) error {
	return tracedExec(ctx, r.tracer, "ClosureRepository.Save",
		append(rangeAttrs(c.Period), attribute.String("closure.id", c.ID)),
		func(ctx context.Context) error { return r.next.Save(ctx, c) },
	)
}

func (r *tracingClosures) Delete(ctx context.Context, id string) error {
	return tracedExec(ctx, r.tracer, "ClosureRepository.Delete",
		[]attribute.KeyValue{attribute.String("closure.id", id)},
		func(ctx context.Context) error { return r.next.Delete(ctx, id) },
	)
}

func (r *tracingClosures) ListByHotel(ctx context.Context, hotelID string) ([]domain.Closure, error) {
	return tracedList(ctx, r.tracer, "ClosureRepository.ListByHotel",
		[]attribute.KeyValue{attribute.String("hotel.id", hotelID)},
		func(ctx context.Context) ([]domain.Closure, error) { return r.next.ListByHotel(ctx, hotelID) },
	)
}

func (r *tracingClosures) ListOverlapping(ctx context.Context, hotelID string, rng domain.DateRange) ([]domain.Closure, error) {
	return tracedList(ctx, r.tracer, "ClosureRepository.ListOverlapping",
		append(rangeAttrs(rng), attribute.String("hotel.id", hotelID)),
		func(ctx context.Context) ([]domain.Closure, error) { return r.next.ListOverlapping(ctx, hotelID, rng) },
	)
}

// --- Hotels and guests ---

type tracingHotels struct {
	next   domain.HotelRepository
	tracer trace.Tracer
}

func (r *tracingHotels) GetByID(ctx context.Context, id string) (domain.Hotel, error) {
	return traced(ctx, r.tracer, "HotelRepository.GetByID",
		[]attribute.KeyValue{attribute.String("hotel.id", id)},
		func(ctx context.Context) (domain.Hotel, error) { return r.next.GetByID(ctx, id) },
	)
}

func (r *tracingHotels) Save(ctx context.Context, h domain.Hotel) error {
	return tracedExec(ctx, r.tracer, "HotelRepository.Save",
		[]attribute.KeyValue{attribute.String("hotel.id", h.ID)},
		func(ctx context.Context) error { return r.next.Save(ctx, h) },
	)
}

func (r *tracingHotels) List(ctx context.Context) ([]domain.Hotel, error) {
	return tracedList(ctx, r.tracer, "HotelRepository.List", nil, r.next.List)
}

type tracingGuests struct {
	next   domain.GuestRepository
	tracer trace.Tracer
}

func (r *tracingGuests) GetByID(ctx context.Context, id string) (domain.Guest, error) {
	return traced(ctx, r.tracer, "GuestRepository.GetByID",
		[]attribute.KeyValue{attribute.String("guest.id", id)},
		func(ctx context.Context) (domain.Guest, error) { return r.next.GetByID(ctx, id) },
	)
}

func (r *tracingGuests) Save(ctx context.Context, g domain.Guest) error {
	return tracedExec(ctx, r.tracer, "GuestRepository.Save",
		[]attribute.KeyValue{attribute.String("guest.id", g.ID)},
		func(ctx context.Context) error { return r.next.Save(ctx, g) },
	)
}

func (r *tracingGuests) List(ctx context.Context) ([]domain.Guest, error) {
	return tracedList(ctx, r.tracer, "GuestRepository.List", nil, r.next.List)
}
