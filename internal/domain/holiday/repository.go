package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	Create(ctx context.Context, holiday Holiday) (Holiday, error)
	GetByID(ctx context.Context, id string) (Holiday, error)
	Update(ctx context.Context, holiday Holiday) (Holiday, error)
	Delete(ctx context.Context, id string) error

	// List returns holidays ordered by date, limited to [from, to] when both are set
	List(ctx context.Context, from, to *time.Time) ([]Holiday, error)

	// Upcoming returns the next holidays on or after from
	Upcoming(ctx context.Context, from time.Time, limit int) ([]Holiday, error)
}
