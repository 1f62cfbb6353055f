package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/neomorfeo/roomkeeper/internal/domain"
)

// HotelRepository implements domain.HotelRepository using SQLite.
type HotelRepository struct {
	q querier
}

func (r *HotelRepository) GetByID(ctx context.Context, id string) (domain.Hotel, error) {
	var h domain.Hotel
	err := r.q.QueryRowContext(ctx,
		`SELECT id, name, address, city FROM hotels WHERE id = ?`, id,
	).Scan(&h.ID, &h.Name, &h.Address, &h.City)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Hotel{}, domain.ErrHotelNotFound
		}
		return domain.Hotel{}, fmt.Errorf("scanning hotel: %w", err)
	}
	return h, nil
}

func (r *HotelRepository) Save(ctx context.Context, h domain.Hotel) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO hotels (id, name, address, city) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, address = excluded.address, city = excluded.city`,
		h.ID, h.Name, h.Address, h.City,
	)
	if err != nil {
		return fmt.Errorf("upserting hotel: %w", err)
	}
	return nil
}

func (r *HotelRepository) List(ctx context.Context) ([]domain.Hotel, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, name, address, city FROM hotels ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("listing hotels: %w", err)
	}
	defer rows.Close()

	hotels := []domain.Hotel{}
	for rows.Next() {
		var h domain.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Address, &h.City); err != nil {
			return nil, fmt.Errorf("scanning hotel row: %w", err)
		}
		hotels = append(hotels, h)
	}

	return hotels, rows.Err()
}

// GuestRepository implements domain.GuestRepository using SQLite.
type GuestRepository struct {
	q querier
}

const guestColumns = `id, first_name, last_name, ssn, date_of_birth, address, city`

func (r *GuestRepository) GetByID(ctx context.Context, id string) (domain.Guest, error) {
	g, err := scanGuest(r.q.QueryRowContext(ctx,
		`SELECT `+guestColumns+` FROM guests WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Guest{}, domain.ErrGuestNotFound
	}
	return g, err
}

func (r *GuestRepository) Save(ctx context.Context, g domain.Guest) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO guests (id, first_name, last_name, ssn, date_of_birth, address, city)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   first_name = excluded.first_name,
		   last_name = excluded.last_name,
		   ssn = excluded.ssn,
		   date_of_birth = excluded.date_of_birth,
		   address = excluded.address,
		   city = excluded.city`,
		g.ID, g.FirstName, g.LastName, g.SSN, nullDate(g.DateOfBirth), g.Address, g.City,
	)
	if err != nil {
		return fmt.Errorf("upserting guest: %w", err)
	}
	return nil
}

func (r *GuestRepository) List(ctx context.Context) ([]domain.Guest, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+guestColumns+` FROM guests ORDER BY last_name, first_name, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing guests: %w", err)
	}
	defer rows.Close()

	guests := []domain.Guest{}
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		guests = append(guests, g)
	}

	return guests, rows.Err()
}

func scanGuest(s scanner) (domain.Guest, error) {
	var g domain.Guest
	var dob sql.NullString

	err := s.Scan(&g.ID, &g.FirstName, &g.LastName, &g.SSN, &dob, &g.Address, &g.City)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Guest{}, err
		}
		return domain.Guest{}, fmt.Errorf("scanning guest: %w", err)
	}

	if g.DateOfBirth, err = parseNullDate(dob); err != nil {
		return domain.Guest{}, err
	}
	return g, nil
}
