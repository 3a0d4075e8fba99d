package attendance

import (
	"time"
)

// Status is the lifecycle state of an attendance entry. The set is closed;
// anything else is rejected at the boundary.
type Status string

const (
	StatusInProgress  Status = "IN_PROGRESS"
	StatusCompleted   Status = "COMPLETED"
	StatusAutoExpired Status = "AUTO_EXPIRED"
	StatusEdited      Status = "EDITED"
	StatusManual      Status = "MANUAL"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusAutoExpired, StatusEdited, StatusManual:
		return true
	}
	return false
}

// Terminal reports whether s is a closed state (ClockOut set, duration known).
func (s Status) Terminal() bool {
	return s.Valid() && s != StatusInProgress
}

type Entry struct {
	ID              string
	EmployeeID      string
	ClockIn         time.Time
	ClockOut        *time.Time
	DurationMinutes *int
	WorkSummary     *string
	Status          Status

	// Clock-in metadata
	Note       *string
	DeviceInfo *string

	// Manual backfill audit
	IsManualEntry     bool
	ManualEntryReason *string

	// Flag audit, orthogonal to Status
	IsFlagged  bool
	FlagReason *string
	FlaggedBy  *string
	FlaggedAt  *time.Time

	// Edit audit
	EditedBy   *string
	EditedAt   *time.Time
	EditReason *string

	// Optimistic lock, bumped on every single-entry mutation
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined from the employee directory for list/live reads
	EmployeeName *string
	DepartmentID *string
	Department   *string
}

// DurationFor computes the stored duration for a closed entry.
func DurationFor(clockIn, clockOut time.Time) int {
	return int(clockOut.Sub(clockIn) / time.Minute)
}
