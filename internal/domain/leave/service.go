package leave

import (
	"context"
)

type LeaveService interface {
	// Create files a pending leave request for the authenticated user
	Create(ctx context.Context, req CreateLeaveRequest) (LeaveResponse, error)

	// MyLeaves lists the authenticated user's requests
	MyLeaves(ctx context.Context) ([]LeaveResponse, error)

	// MyStats reports the yearly balance of the authenticated user
	MyStats(ctx context.Context) (LeaveStatsResponse, error)

	// List lists every request, optionally by status (admin)
	List(ctx context.Context, filter LeaveFilter) ([]LeaveResponse, error)

	// Review approves or rejects a pending request (admin)
	Review(ctx context.Context, req ReviewLeaveRequest) (LeaveResponse, error)
}
