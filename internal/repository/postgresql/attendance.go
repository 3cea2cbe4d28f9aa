package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceSelect = `
	SELECT a.id, a.user_id, a.date, a.check_in, a.check_out, a.status, a.created_at, a.updated_at,
		   u.name, u.email
	FROM attendances a
	LEFT JOIN users u ON u.id = a.user_id`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Date,
		&a.CheckIn,
		&a.CheckOut,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.UserName,
		&a.UserEmail,
	)
	return a, err
}

func collectAttendances(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	if a.ID == "" {
		id, err := newID()
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("generate attendance id: %w", err)
		}
		a.ID = id
	}

	query := `
		INSERT INTO attendances (id, user_id, date, check_in, check_out, status)
		VALUES ($1, $2, $3::date, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := q.QueryRow(ctx, query,
		a.ID,
		a.UserID,
		dateParam(a.Date),
		a.CheckIn,
		a.CheckOut,
		a.RecordStatus(),
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "attendances_user_date_key") {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("insert attendance: %w", err)
	}

	a.Status = a.RecordStatus()
	return a, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAttendance(q.QueryRow(ctx, attendanceSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("get attendance: %w", err)
	}
	return a, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAttendance(q.QueryRow(ctx, attendanceSelect+` WHERE a.user_id = $1 AND a.date = $2::date`, userID, dateParam(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get attendance by user and date: %w", err)
	}
	return &a, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, a attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET check_in = $1, check_out = $2, status = $3, updated_at = NOW()
		WHERE id = $4`

	tag, err := q.Exec(ctx, query, a.CheckIn, a.CheckOut, a.RecordStatus(), a.ID)
	if err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// ListByUser implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByUser(ctx context.Context, userID string, limit int) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, attendanceSelect+` WHERE a.user_id = $1 ORDER BY a.date DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list attendance by user: %w", err)
	}
	return collectAttendances(rows)
}

// ListByDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByDate(ctx context.Context, date time.Time, openOnly bool) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := attendanceSelect + ` WHERE a.date = $1::date`
	if openOnly {
		query += ` AND a.check_out IS NULL`
	}
	query += ` ORDER BY a.check_in`

	rows, err := q.Query(ctx, query, dateParam(date))
	if err != nil {
		return nil, fmt.Errorf("list attendance by date: %w", err)
	}
	return collectAttendances(rows)
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	var (
		conditions []string
		args       []interface{}
	)
	addArg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.UserID != nil {
		conditions = append(conditions, "a.user_id = "+addArg(*filter.UserID))
	}
	if filter.From != nil {
		conditions = append(conditions, "a.date >= "+addArg(dateParam(*filter.From))+"::date")
	}
	if filter.To != nil {
		conditions = append(conditions, "a.date <= "+addArg(dateParam(*filter.To))+"::date")
	}

	query := attendanceSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY a.date DESC, a.check_in DESC LIMIT " + addArg(filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return collectAttendances(rows)
}

// CountDaysPresent implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CountDaysPresent(ctx context.Context, from, to time.Time) (map[string]int, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT user_id, COUNT(*)
		FROM attendances
		WHERE date BETWEEN $1::date AND $2::date
		GROUP BY user_id`, dateParam(from), dateParam(to))
	if err != nil {
		return nil, fmt.Errorf("count days present: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var userID string
		var count int
		if err := rows.Scan(&userID, &count); err != nil {
			return nil, fmt.Errorf("scan days present: %w", err)
		}
		counts[userID] = count
	}
	return counts, rows.Err()
}
