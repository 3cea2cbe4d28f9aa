package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn opens today's record for the authenticated user
	CheckIn(ctx context.Context) (AttendanceResponse, error)

	// CheckOut closes today's record for the authenticated user
	CheckOut(ctx context.Context) (AttendanceResponse, error)

	// Today reports whether the authenticated user is currently checked in
	Today(ctx context.Context) (TodayResponse, error)

	// History returns the authenticated user's recent records
	History(ctx context.Context) ([]AttendanceResponse, error)

	// InOffice lists users checked in today without a check-out
	InOffice(ctx context.Context) ([]InOfficeResponse, error)

	// LateToday lists today's late arrivals (admin)
	LateToday(ctx context.Context) ([]LateArrivalResponse, error)

	// Summary aggregates presence and leave per user for a month (admin)
	Summary(ctx context.Context, req SummaryRequest) ([]SummaryResponse, error)

	// ExportSummary renders the monthly summary as a downloadable file (admin)
	ExportSummary(ctx context.Context, req ExportSummaryRequest) (ExportFile, error)

	// ListRecords lists records with optional user and month filters (admin)
	ListRecords(ctx context.Context, filter RecordFilter) ([]AttendanceResponse, error)

	// UpdateRecord corrects check-in / check-out of a record (admin)
	UpdateRecord(ctx context.Context, req UpdateRecordRequest) (AttendanceResponse, error)
}
