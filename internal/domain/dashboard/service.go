package dashboard

import (
	"context"
	"time"
)

// Service derives live and historical views from the entry store. All
// operations are read-only; staleness is bounded by the caller's polling
// interval, so no locking is required here.
type Service interface {
	// Live returns the current set of clocked-in employees and the
	// directory complement.
	Live(ctx context.Context) (LiveResponse, error)

	// Summary returns the admin summary for the given date: today's
	// headline counts, the trailing-week series and per-employee metrics.
	Summary(ctx context.Context, date time.Time) (SummaryResponse, error)
}
