package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

const holidayColumns = `id, name, date, description, created_at, updated_at`

func scanHoliday(row pgx.Row) (holiday.Holiday, error) {
	var h holiday.Holiday
	err := row.Scan(&h.ID, &h.Name, &h.Date, &h.Description, &h.CreatedAt, &h.UpdatedAt)
	return h, err
}

func collectHolidays(rows pgx.Rows) ([]holiday.Holiday, error) {
	defer rows.Close()

	holidays := make([]holiday.Holiday, 0)
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, fmt.Errorf("scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// Create implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	if h.ID == "" {
		id, err := newID()
		if err != nil {
			return holiday.Holiday{}, fmt.Errorf("generate holiday id: %w", err)
		}
		h.ID = id
	}

	created, err := scanHoliday(q.QueryRow(ctx, `
		INSERT INTO holidays (id, name, date, description)
		VALUES ($1, $2, $3::date, $4)
		RETURNING `+holidayColumns, h.ID, h.Name, dateParam(h.Date), h.Description))
	if err != nil {
		return holiday.Holiday{}, fmt.Errorf("insert holiday: %w", err)
	}
	return created, nil
}

// GetByID implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) GetByID(ctx context.Context, id string) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	h, err := scanHoliday(q.QueryRow(ctx, `SELECT `+holidayColumns+` FROM holidays WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return holiday.Holiday{}, holiday.ErrHolidayNotFound
		}
		return holiday.Holiday{}, fmt.Errorf("get holiday: %w", err)
	}
	return h, nil
}

// Update implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Update(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	updated, err := scanHoliday(q.QueryRow(ctx, `
		UPDATE holidays
		SET name = $1, date = $2::date, description = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+holidayColumns, h.Name, dateParam(h.Date), h.Description, h.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return holiday.Holiday{}, holiday.ErrHolidayNotFound
		}
		return holiday.Holiday{}, fmt.Errorf("update holiday: %w", err)
	}
	return updated, nil
}

// Delete implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return holiday.ErrHolidayNotFound
	}
	return nil
}

// List implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) List(ctx context.Context, from, to *time.Time) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	var (
		rows pgx.Rows
		err  error
	)
	if from != nil && to != nil {
		rows, err = q.Query(ctx, `SELECT `+holidayColumns+` FROM holidays
			WHERE date BETWEEN $1::date AND $2::date ORDER BY date`, dateParam(*from), dateParam(*to))
	} else {
		rows, err = q.Query(ctx, `SELECT `+holidayColumns+` FROM holidays ORDER BY date`)
	}
	if err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	return collectHolidays(rows)
}

// Upcoming implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Upcoming(ctx context.Context, from time.Time, limit int) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+holidayColumns+` FROM holidays
		WHERE date >= $1::date ORDER BY date LIMIT $2`, dateParam(from), limit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming holidays: %w", err)
	}
	return collectHolidays(rows)
}
