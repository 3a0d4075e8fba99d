// Package memory provides mutex-guarded in-memory implementations of the
// repository interfaces. They back the service and scheduler unit tests and
// honor the same serialization contract as the postgres repositories: the
// open-session uniqueness check is atomic with the insert, single-entry
// updates are version-checked, and terminal transitions are status CAS.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/workpulse-hq/attendance-backend-go/internal/domain/attendance"
)

type EntryRepository struct {
	mu      sync.Mutex
	entries map[string]attendance.Entry
}

func NewEntryRepository() *EntryRepository {
	return &EntryRepository{entries: make(map[string]attendance.Entry)}
}

// CreateOpen implements attendance.EntryRepository.
func (r *EntryRepository) CreateOpen(_ context.Context, entry attendance.Entry) (attendance.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.entries {
		if existing.EmployeeID == entry.EmployeeID && existing.Status == attendance.StatusInProgress {
			return attendance.Entry{}, attendance.ErrAlreadyClockedIn
		}
	}

	now := time.Now().UTC()
	entry.ID = uuid.Must(uuid.NewV7()).String()
	entry.Status = attendance.StatusInProgress
	entry.Version = 1
	entry.CreatedAt = now
	entry.UpdatedAt = now
	r.entries[entry.ID] = entry

	return entry, nil
}

// CreateClosed implements attendance.EntryRepository.
func (r *EntryRepository) CreateClosed(_ context.Context, entry attendance.Entry) (attendance.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	entry.ID = uuid.Must(uuid.NewV7()).String()
	entry.Version = 1
	entry.CreatedAt = now
	entry.UpdatedAt = now
	r.entries[entry.ID] = entry

	return entry, nil
}

// GetByID implements attendance.EntryRepository.
func (r *EntryRepository) GetByID(_ context.Context, id string) (attendance.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return attendance.Entry{}, attendance.ErrEntryNotFound
	}
	return entry, nil
}

// FindOpenByEmployee implements attendance.EntryRepository.
func (r *EntryRepository) FindOpenByEmployee(_ context.Context, employeeID string) (*attendance.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range r.entries {
		if entry.EmployeeID == employeeID && entry.Status == attendance.StatusInProgress {
			found := entry
			return &found, nil
		}
	}
	return nil, nil
}

// Update implements attendance.EntryRepository.
func (r *EntryRepository) Update(_ context.Context, entry attendance.Entry) (attendance.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.entries[entry.ID]
	if !ok {
		return attendance.Entry{}, attendance.ErrEntryNotFound
	}
	if stored.Version != entry.Version {
		return attendance.Entry{}, attendance.ErrVersionConflict
	}

	entry.Version++
	entry.CreatedAt = stored.CreatedAt
	entry.UpdatedAt = time.Now().UTC()
	r.entries[entry.ID] = entry

	return entry, nil
}

// Complete implements attendance.EntryRepository.
func (r *EntryRepository) Complete(_ context.Context, id string, clockOut time.Time, durationMinutes int, workSummary string) (bool, error) {
	return r.closeOpen(id, attendance.StatusCompleted, clockOut, durationMinutes, &workSummary)
}

// AutoExpire implements attendance.EntryRepository.
func (r *EntryRepository) AutoExpire(_ context.Context, id string, clockOut time.Time, durationMinutes int) (bool, error) {
	return r.closeOpen(id, attendance.StatusAutoExpired, clockOut, durationMinutes, nil)
}

func (r *EntryRepository) closeOpen(id string, to attendance.Status, clockOut time.Time, durationMinutes int, workSummary *string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok || entry.Status != attendance.StatusInProgress {
		return false, nil
	}

	entry.ClockOut = &clockOut
	entry.DurationMinutes = &durationMinutes
	entry.Status = to
	if workSummary != nil {
		entry.WorkSummary = workSummary
	}
	entry.Version++
	entry.UpdatedAt = time.Now().UTC()
	r.entries[id] = entry

	return true, nil
}

// ListOpen implements attendance.EntryRepository.
func (r *EntryRepository) ListOpen(_ context.Context) ([]attendance.Entry, error) {
	return r.collect(func(e attendance.Entry) bool {
		return e.Status == attendance.StatusInProgress
	}), nil
}

// ListByEmployee implements attendance.EntryRepository.
func (r *EntryRepository) ListByEmployee(_ context.Context, employeeID string, from, to time.Time) ([]attendance.Entry, error) {
	return r.collect(func(e attendance.Entry) bool {
		return e.EmployeeID == employeeID && !e.ClockIn.Before(from) && e.ClockIn.Before(to)
	}), nil
}

// ListByDateRange implements attendance.EntryRepository.
func (r *EntryRepository) ListByDateRange(_ context.Context, from, to time.Time) ([]attendance.Entry, error) {
	return r.collect(func(e attendance.Entry) bool {
		return !e.ClockIn.Before(from) && e.ClockIn.Before(to)
	}), nil
}

// List implements attendance.EntryRepository.
func (r *EntryRepository) List(_ context.Context, filter attendance.LogFilter) ([]attendance.Entry, int64, error) {
	matched := r.collect(func(e attendance.Entry) bool {
		if filter.EmployeeID != nil && *filter.EmployeeID != "" && e.EmployeeID != *filter.EmployeeID {
			return false
		}
		if filter.DepartmentID != nil && *filter.DepartmentID != "" &&
			(e.DepartmentID == nil || *e.DepartmentID != *filter.DepartmentID) {
			return false
		}
		if filter.Status != nil && *filter.Status != "" && string(e.Status) != *filter.Status {
			return false
		}
		day := e.ClockIn.UTC().Format("2006-01-02")
		if filter.Date != nil && *filter.Date != "" && day != *filter.Date {
			return false
		}
		if filter.DateFrom != nil && *filter.DateFrom != "" && day < *filter.DateFrom {
			return false
		}
		if filter.DateTo != nil && *filter.DateTo != "" && day > *filter.DateTo {
			return false
		}
		return true
	})

	// Admin log is newest first
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ClockIn.After(matched[j].ClockIn)
	})

	total := int64(len(matched))

	pageSize := filter.PageSize
	if pageSize == 0 {
		pageSize = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], total, nil
}

func (r *EntryRepository) collect(keep func(attendance.Entry) bool) []attendance.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	var entries []attendance.Entry
	for _, entry := range r.entries {
		if keep(entry) {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ClockIn.Before(entries[j].ClockIn)
	})
	return entries
}
