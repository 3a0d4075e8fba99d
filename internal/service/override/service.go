package override

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/workpulse-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/workpulse-hq/attendance-backend-go/internal/domain/employee"
	"github.com/workpulse-hq/attendance-backend-go/internal/pkg/validator"
)

// ServiceImpl implements the admin overrides. Callers reach it through the
// AdminOnly middleware; the admin's employee_id claim feeds the audit trail.
type ServiceImpl struct {
	entryRepo    attendance.EntryRepository
	employeeRepo employee.Repository
	now          func() time.Time
}

func NewService(entryRepo attendance.EntryRepository, employeeRepo employee.Repository) attendance.OverrideService {
	return &ServiceImpl{
		entryRepo:    entryRepo,
		employeeRepo: employeeRepo,
		now:          time.Now,
	}
}

// adminIDFromContext extracts the acting admin's employee_id from JWT claims
func adminIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	adminID, ok := claims["employee_id"].(string)
	if !ok || adminID == "" {
		return "", fmt.Errorf("employee_id claim is missing or invalid")
	}

	return adminID, nil
}

// EditEntry implements attendance.OverrideService.
func (s *ServiceImpl) EditEntry(ctx context.Context, req attendance.EditEntryRequest) (attendance.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EntryResponse{}, err
	}

	adminID, err := adminIDFromContext(ctx)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	entry, err := s.entryRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	if req.ClockIn != nil {
		clockIn, _ := validator.IsValidDateTime(*req.ClockIn)
		entry.ClockIn = clockIn.UTC()
	}
	if req.ClockOut != nil {
		clockOut, _ := validator.IsValidDateTime(*req.ClockOut)
		clockOutUTC := clockOut.UTC()
		entry.ClockOut = &clockOutUTC
	}

	if entry.ClockOut != nil {
		if entry.ClockOut.Before(entry.ClockIn) {
			return attendance.EntryResponse{}, validator.ValidationErrors{{
				Field:   "clockOut",
				Message: "clockOut must not be before clockIn",
			}}
		}
		durationMinutes := attendance.DurationFor(entry.ClockIn, *entry.ClockOut)
		entry.DurationMinutes = &durationMinutes
	} else {
		entry.DurationMinutes = nil
	}

	if req.WorkSummary != nil {
		entry.WorkSummary = req.WorkSummary
	}

	editedAt := s.now().UTC()
	entry.Status = attendance.StatusEdited
	entry.EditedBy = &adminID
	entry.EditedAt = &editedAt
	entry.EditReason = &req.EditReason

	updated, err := s.entryRepo.Update(ctx, entry)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	return attendance.ToResponse(updated), nil
}

// FlagEntry implements attendance.OverrideService. Flagging is orthogonal to
// the lifecycle status and never touches it.
func (s *ServiceImpl) FlagEntry(ctx context.Context, req attendance.FlagEntryRequest) (attendance.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EntryResponse{}, err
	}

	adminID, err := adminIDFromContext(ctx)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	entry, err := s.entryRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	if req.IsFlagged {
		flaggedAt := s.now().UTC()
		entry.IsFlagged = true
		entry.FlagReason = req.FlagReason
		entry.FlaggedBy = &adminID
		entry.FlaggedAt = &flaggedAt
	} else {
		entry.IsFlagged = false
		entry.FlagReason = nil
		entry.FlaggedBy = nil
		entry.FlaggedAt = nil
	}

	updated, err := s.entryRepo.Update(ctx, entry)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	return attendance.ToResponse(updated), nil
}

// ManualEntry implements attendance.OverrideService. Backfills insert a
// closed entry directly and deliberately skip the open-session check: the
// single-open-session invariant only constrains IN_PROGRESS entries.
func (s *ServiceImpl) ManualEntry(ctx context.Context, req attendance.ManualEntryRequest) (attendance.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EntryResponse{}, err
	}

	// Backfills reference the directory by id, so an unknown employee is a
	// not-found, not a foreign-key blowup later.
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return attendance.EntryResponse{}, err
	}

	clockIn, _ := validator.IsValidDateTime(req.ClockIn)
	clockOut, _ := validator.IsValidDateTime(req.ClockOut)
	clockInUTC := clockIn.UTC()
	clockOutUTC := clockOut.UTC()
	durationMinutes := attendance.DurationFor(clockInUTC, clockOutUTC)

	entry, err := s.entryRepo.CreateClosed(ctx, attendance.Entry{
		EmployeeID:        req.EmployeeID,
		ClockIn:           clockInUTC,
		ClockOut:          &clockOutUTC,
		DurationMinutes:   &durationMinutes,
		WorkSummary:       req.WorkSummary,
		Status:            attendance.StatusManual,
		IsManualEntry:     true,
		ManualEntryReason: &req.ManualEntryReason,
	})
	if err != nil {
		return attendance.EntryResponse{}, fmt.Errorf("failed to create manual entry: %w", err)
	}

	return attendance.ToResponse(entry), nil
}
