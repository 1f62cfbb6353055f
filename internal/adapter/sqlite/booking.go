package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"github.com/neomorfeo/roomkeeper/internal/domain"
)

// BookingRepository implements domain.BookingRepository using SQLite.
type BookingRepository struct {
	q querier
}

const bookingColumns = `b.id, b.guest_id, b.room_id, b.check_in, b.check_out, b.price, b.notes, b.status, b.created_at, b.updated_at`

func (r *BookingRepository) GetByID(ctx context.Context, id string) (domain.Booking, error) {
	b, err := scanBooking(r.q.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings b WHERE b.id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	return b, err
}

func (r *BookingRepository) Save(ctx context.Context, b domain.Booking) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO bookings (id, guest_id, room_id, check_in, check_out, price, notes, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   guest_id = excluded.guest_id,
		   room_id = excluded.room_id,
		   check_in = excluded.check_in,
		   check_out = excluded.check_out,
		   price = excluded.price,
		   notes = excluded.notes,
		   status = excluded.status,
		   updated_at = excluded.updated_at`,
		b.ID, b.GuestID, b.RoomID, b.CheckIn.String(), b.CheckOut.String(),
		b.Price, b.Notes, string(b.Status),
		formatTime(b.CreatedAt), formatTime(b.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting booking: %w", err)
	}
	return checkDeleted(result, domain.ErrBookingNotFound)
}

func (r *BookingRepository) ListByHotel(ctx context.Context, hotelID string) ([]domain.Booking, error) {
	return r.list(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings b JOIN rooms r ON r.id = b.room_id
		 WHERE r.hotel_id = ?
		 ORDER BY b.check_in, b.id`, hotelID,
	)
}

func (r *BookingRepository) ListByHotelBetween(ctx context.Context, hotelID string, rng domain.DateRange) ([]domain.Booking, error) {
	return r.list(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings b JOIN rooms r ON r.id = b.room_id
		 WHERE r.hotel_id = ? AND b.check_in <= ? AND b.check_out >= ?
		 ORDER BY b.check_in, b.id`,
		hotelID, rng.End.String(), rng.Start.String(),
	)
}

func (r *BookingRepository) ListByCheckIn(ctx context.Context, hotelID string, day civil.Date) ([]domain.Booking, error) {
	return r.list(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings b JOIN rooms r ON r.id = b.room_id
		 WHERE r.hotel_id = ? AND b.check_in = ?
		 ORDER BY b.id`, hotelID, day.String(),
	)
}

func (r *BookingRepository) ListByCheckOut(ctx context.Context, hotelID string, day civil.Date) ([]domain.Booking, error) {
	return r.list(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings b JOIN rooms r ON r.id = b.room_id
		 WHERE r.hotel_id = ? AND b.check_out = ?
		 ORDER BY b.id`, hotelID, day.String(),
	)
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

func scanBooking(s scanner) (domain.Booking, error) {
	var b domain.Booking
	var checkIn, checkOut, status, createdAt, updatedAt string

	err := s.Scan(&b.ID, &b.GuestID, &b.RoomID, &checkIn, &checkOut, &b.Price, &b.Notes, &status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, err
		}
		return domain.Booking{}, fmt.Errorf("scanning booking: %w", err)
	}

	if b.CheckIn, err = parseDate(checkIn); err != nil {
		return domain.Booking{}, err
	}
	if b.CheckOut, err = parseDate(checkOut); err != nil {
		return domain.Booking{}, err
	}
	b.Status = domain.BookingStatus(status)
	b.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	b.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)

	return b, nil
}
