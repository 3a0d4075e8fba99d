package attendance

import (
	"context"
	"time"
)

// EntryRepository defines data access for attendance entries. It is the only
// shared mutable resource in the subsystem; CreateOpen is its single
// serialization point.
type EntryRepository interface {
	// CreateOpen inserts a new IN_PROGRESS entry. The uniqueness check
	// (at most one open entry per employee) and the insert are atomic;
	// a second open entry fails with ErrAlreadyClockedIn.
	CreateOpen(ctx context.Context, entry Entry) (Entry, error)

	// CreateClosed inserts an already-closed entry (manual backfill).
	// It deliberately does not consult the open-session constraint.
	CreateClosed(ctx context.Context, entry Entry) (Entry, error)

	// GetByID retrieves an entry, joined with directory data.
	GetByID(ctx context.Context, id string) (Entry, error)

	// FindOpenByEmployee returns the employee's open entry, or nil.
	FindOpenByEmployee(ctx context.Context, employeeID string) (*Entry, error)

	// Update persists a mutated entry. entry.Version must match the stored
	// version; on mismatch the update is rejected with ErrVersionConflict
	// and the caller retries or surfaces the conflict.
	Update(ctx context.Context, entry Entry) (Entry, error)

	// Complete closes an open entry (IN_PROGRESS -> COMPLETED) with a
	// compare-and-swap on status. Returns false without error when the
	// entry is no longer open.
	Complete(ctx context.Context, id string, clockOut time.Time, durationMinutes int, workSummary string) (bool, error)

	// AutoExpire force-closes an open entry (IN_PROGRESS -> AUTO_EXPIRED)
	// with a compare-and-swap on status. Returns false without error when
	// a concurrent clock-out already closed it.
	AutoExpire(ctx context.Context, id string, clockOut time.Time, durationMinutes int) (bool, error)

	// ListOpen returns all open entries.
	ListOpen(ctx context.Context) ([]Entry, error)

	// ListByEmployee returns the employee's entries with clock-in inside
	// [from, to), oldest first.
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Entry, error)

	// ListByDateRange returns all entries with clock-in inside [from, to).
	ListByDateRange(ctx context.Context, from, to time.Time) ([]Entry, error)

	// List retrieves entries with filters and pagination for the admin log.
	List(ctx context.Context, filter LogFilter) ([]Entry, int64, error)
}
