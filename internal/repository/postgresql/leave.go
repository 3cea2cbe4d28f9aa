package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepositoryImpl{db: db}
}

const leaveSelect = `
	SELECT l.id, l.user_id, l.type, l.start_date, l.end_date, l.reason, l.status,
		   l.reviewed_by, l.reviewed_at, l.admin_note, l.created_at, l.updated_at,
		   u.name, u.email
	FROM leaves l
	LEFT JOIN users u ON u.id = l.user_id`

func scanLeave(row pgx.Row) (leave.Leave, error) {
	var l leave.Leave
	err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.Type,
		&l.StartDate,
		&l.EndDate,
		&l.Reason,
		&l.Status,
		&l.ReviewedBy,
		&l.ReviewedAt,
		&l.AdminNote,
		&l.CreatedAt,
		&l.UpdatedAt,
		&l.UserName,
		&l.UserEmail,
	)
	return l, err
}

func collectLeaves(rows pgx.Rows) ([]leave.Leave, error) {
	defer rows.Close()

	leaves := make([]leave.Leave, 0)
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("scan leave: %w", err)
		}
		leaves = append(leaves, l)
	}
	return leaves, rows.Err()
}

// Create implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) Create(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	if l.ID == "" {
		id, err := newID()
		if err != nil {
			return leave.Leave{}, fmt.Errorf("generate leave id: %w", err)
		}
		l.ID = id
	}
	if l.Status == "" {
		l.Status = leave.StatusPending
	}

	query := `
		INSERT INTO leaves (id, user_id, type, start_date, end_date, reason, status)
		VALUES ($1, $2, $3, $4::date, $5::date, $6, $7)
		RETURNING created_at, updated_at`

	err := q.QueryRow(ctx, query,
		l.ID,
		l.UserID,
		l.Type,
		dateParam(l.StartDate),
		dateParam(l.EndDate),
		l.Reason,
		l.Status,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return leave.Leave{}, fmt.Errorf("insert leave: %w", err)
	}
	return l, nil
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanLeave(q.QueryRow(ctx, leaveSelect+` WHERE l.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Leave{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Leave{}, fmt.Errorf("get leave: %w", err)
	}
	return l, nil
}

// ListByUser implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) ListByUser(ctx context.Context, userID string, limit int) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, leaveSelect+` WHERE l.user_id = $1 ORDER BY l.created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list leaves by user: %w", err)
	}
	return collectLeaves(rows)
}

// List implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) List(ctx context.Context, status *leave.Status, limit int) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	var (
		rows pgx.Rows
		err  error
	)
	if status != nil {
		rows, err = q.Query(ctx, leaveSelect+` WHERE l.status = $1 ORDER BY l.created_at DESC LIMIT $2`, *status, limit)
	} else {
		rows, err = q.Query(ctx, leaveSelect+` ORDER BY l.created_at DESC LIMIT $1`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list leaves: %w", err)
	}
	return collectLeaves(rows)
}

// UpdateReview implements leave.LeaveRepository. Only pending requests can be reviewed.
func (r *leaveRepositoryImpl) UpdateReview(ctx context.Context, l leave.Leave) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leaves
		SET status = $1, reviewed_by = $2, reviewed_at = $3, admin_note = $4, updated_at = NOW()
		WHERE id = $5 AND status = 'pending'`

	tag, err := q.Exec(ctx, query, l.Status, l.ReviewedBy, l.ReviewedAt, l.AdminNote, l.ID)
	if err != nil {
		return fmt.Errorf("update leave review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestAlreadyProcessed
	}
	return nil
}

// ListApprovedOverlapping implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) ListApprovedOverlapping(ctx context.Context, userID *string, from, to time.Time) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := leaveSelect + `
		WHERE l.status = 'approved' AND l.start_date <= $2::date AND l.end_date >= $1::date`
	args := []interface{}{dateParam(from), dateParam(to)}
	if userID != nil {
		query += ` AND l.user_id = $3`
		args = append(args, *userID)
	}
	query += ` ORDER BY l.start_date`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list approved leaves: %w", err)
	}
	return collectLeaves(rows)
}

// CountPending implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) CountPending(ctx context.Context, userID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM leaves WHERE user_id = $1 AND status = 'pending'`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending leaves: %w", err)
	}
	return count, nil
}
