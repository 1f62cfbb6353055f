package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/neomorfeo/roomkeeper/internal/domain"
)

// ClosureRepository implements domain.ClosureRepository using SQLite.
type ClosureRepository struct {
	q querier
}

const closureColumns = `id, hotel_id, start_date, end_date, reason`

func (r *ClosureRepository) GetByID(ctx context.Context, id string) (domain.Closure, error) {
	c, err := scanClosure(r.q.QueryRowContext(ctx,
		`SELECT `+closureColumns+` FROM hotel_closures WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Closure{}, domain.ErrClosureNotFound
	}
	return c, err
}

func (r *ClosureRepository) Save(ctx context.Context, c domain.Closure) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO hotel_closures (id, hotel_id, start_date, end_date, reason)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   hotel_id = excluded.hotel_id,
		   start_date = excluded.start_date,
		   end_date = excluded.end_date,
		   reason = excluded.reason`,
		c.ID, c.HotelID, c.Period.Start.String(), c.Period.End.String(), c.Reason,
	)
	if err != nil {
		return fmt.Errorf("upserting closure: %w", err)
	}
	return nil
}

func (r *ClosureRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM hotel_closures WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting closure: %w", err)
	}
	return checkDeleted(result, domain.ErrClosureNotFound)
}

func (r *ClosureRepository) ListByHotel(ctx context.Context, hotelID string) ([]domain.Closure, error) {
	return r.list(ctx,
		`SELECT `+closureColumns+` FROM hotel_closures
		 WHERE hotel_id = ?
		 ORDER BY start_date, id`, hotelID,
	)
}

func (r *ClosureRepository) ListOverlapping(ctx context.Context, hotelID string, rng domain.DateRange) ([]domain.Closure, error) {
	return r.list(ctx,
		`SELECT `+closureColumns+` FROM hotel_closures
		 WHERE hotel_id = ? AND start_date <= ? AND end_date >= ?
		 ORDER BY start_date, id`,
		hotelID, rng.End.String(), rng.Start.String(),
	)
}

func (r *ClosureRepository) list(ctx context.Context, query string, args ...any) ([]domain.Closure, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing closures: %w", err)
	}
	defer rows.Close()

	closures := []domain.Closure{}
	for rows.Next() {
		c, err := scanClosure(rows)
		if err != nil {
			return nil, err
		}
		closures = append(closures, c)
	}

	return closures, rows.Err()
}

func scanClosure(s scanner) (domain.Closure, error) {
	var c domain.Closure
	var start, end string

	if err := s.Scan(&c.ID, &c.HotelID, &start, &end, &c.Reason); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Closure{}, err
		}
		return domain.Closure{}, fmt.Errorf("scanning closure: %w", err)
	}

	var err error
	if c.Period.Start, err = parseDate(start); err != nil {
		return domain.Closure{}, err
	}
	if c.Period.End, err = parseDate(end); err != nil {
		return domain.Closure{}, err
	}

	return c, nil
}
