package attendance

import (
	"context"
)

// Service defines the clock engine plus the personal read views.
type Service interface {
	// ClockIn opens a session for the authenticated employee
	ClockIn(ctx context.Context, req ClockInRequest) (ClockInResponse, error)

	// ClockOut closes the authenticated employee's open session
	ClockOut(ctx context.Context, req ClockOutRequest) (ClockOutResponse, error)

	// Status returns the live clock state for the authenticated employee
	Status(ctx context.Context) (StatusResponse, error)

	// Today returns today's entries and totals for the authenticated employee
	Today(ctx context.Context) (TodayResponse, error)

	// History returns the per-day view of a calendar month
	History(ctx context.Context, year, month int) (HistoryResponse, error)

	// ListLogs retrieves entries with filters and pagination (admin)
	ListLogs(ctx context.Context, filter LogFilter) (LogListResponse, error)
}

// OverrideService defines the admin mutations. Every operation leaves an
// audit trail on the entry it touches.
type OverrideService interface {
	// EditEntry rewrites clock times and/or summary, moving the entry to EDITED
	EditEntry(ctx context.Context, req EditEntryRequest) (EntryResponse, error)

	// FlagEntry toggles the suspicious-entry marker without touching status
	FlagEntry(ctx context.Context, req FlagEntryRequest) (EntryResponse, error)

	// ManualEntry backfills a closed entry for a past date
	ManualEntry(ctx context.Context, req ManualEntryRequest) (EntryResponse, error)
}
