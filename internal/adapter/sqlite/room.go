package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/neomorfeo/roomkeeper/internal/domain"
)

// RoomRepository implements domain.RoomRepository using SQLite.
type RoomRepository struct {
	q querier
}

const roomColumns = `id, hotel_id, name, description, base_price, status, last_cleaned`

func (r *RoomRepository) GetByID(ctx context.Context, id string) (domain.Room, error) {
	room, err := scanRoom(r.q.QueryRowContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return room, err
}

func (r *RoomRepository) Save(ctx context.Context, room domain.Room) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO rooms (id, hotel_id, name, description, base_price, status, last_cleaned)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   hotel_id = excluded.hotel_id,
		   name = excluded.name,
		   description = excluded.description,
		   base_price = excluded.base_price,
		   status = excluded.status,
		   last_cleaned = excluded.last_cleaned`,
		room.ID, room.HotelID, room.Name, room.Description, room.BasePrice,
		string(room.Status), nullDate(room.LastCleaned),
	)
	if err != nil {
		return fmt.Errorf("upserting room: %w", err)
	}
	return nil
}

func (r *RoomRepository) ListByHotel(ctx context.Context, hotelID string) ([]domain.Room, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE hotel_id = ? ORDER BY name, id`, hotelID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	defer rows.Close()

	rooms := []domain.Room{}
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

func scanRoom(s scanner) (domain.Room, error) {
	var room domain.Room
	var status string
	var lastCleaned sql.NullString

	err := s.Scan(&room.ID, &room.HotelID, &room.Name, &room.Description, &room.BasePrice, &status, &lastCleaned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Room{}, err
		}
		return domain.Room{}, fmt.Errorf("scanning room: %w", err)
	}

	room.Status = domain.RoomStatus(status)
	if room.LastCleaned, err = parseNullDate(lastCleaned); err != nil {
		return domain.Room{}, err
	}

	return room, nil
}
