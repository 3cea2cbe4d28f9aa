package leave

import (
	"context"
	"time"
)

type LeaveRepository interface {
	Create(ctx context.Context, leave Leave) (Leave, error)
	GetByID(ctx context.Context, id string) (Leave, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Leave, error)
	List(ctx context.Context, status *Status, limit int) ([]Leave, error)
	UpdateReview(ctx context.Context, leave Leave) error

	// ListApprovedOverlapping returns approved leaves intersecting [from, to]
	ListApprovedOverlapping(ctx context.Context, userID *string, from, to time.Time) ([]Leave, error)

	CountPending(ctx context.Context, userID string) (int, error)
}
