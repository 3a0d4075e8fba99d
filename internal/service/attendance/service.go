package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/workpulse-hq/attendance-backend-go/internal/config"
	"github.com/workpulse-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/workpulse-hq/attendance-backend-go/internal/pkg/validator"
)

type ServiceImpl struct {
	entryRepo attendance.EntryRepository
	policy    config.AttendanceConfig
	now       func() time.Time
}

func NewService(entryRepo attendance.EntryRepository, policy config.AttendanceConfig) attendance.Service {
	return &ServiceImpl{
		entryRepo: entryRepo,
		policy:    policy,
		now:       time.Now,
	}
}

// employeeIDFromContext extracts employee_id from JWT claims
func employeeIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", fmt.Errorf("employee_id claim is missing or invalid")
	}

	return employeeID, nil
}

// ClockIn implements attendance.Service.
func (s *ServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.ClockInResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.ClockInResponse{}, err
	}

	nowUTC := s.now().UTC()

	// CreateOpen is the serialization point: the store rejects a second
	// open session atomically, so no pre-check is needed here.
	entry, err := s.entryRepo.CreateOpen(ctx, attendance.Entry{
		EmployeeID: employeeID,
		ClockIn:    nowUTC,
		Note:       req.Note,
		DeviceInfo: req.DeviceInfo,
	})
	if err != nil {
		return attendance.ClockInResponse{}, err
	}

	return attendance.ClockInResponse{
		ID:          entry.ID,
		ClockedInAt: entry.ClockIn.Format(time.RFC3339),
		Note:        entry.Note,
	}, nil
}

// ClockOut implements attendance.Service.
func (s *ServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.ClockOutResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ClockOutResponse{}, err
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.ClockOutResponse{}, err
	}

	open, err := s.entryRepo.FindOpenByEmployee(ctx, employeeID)
	if err != nil {
		return attendance.ClockOutResponse{}, fmt.Errorf("failed to find open session: %w", err)
	}
	if open == nil {
		return attendance.ClockOutResponse{}, attendance.ErrNotClockedIn
	}

	nowUTC := s.now().UTC()
	durationMinutes := attendance.DurationFor(open.ClockIn, nowUTC)

	closed, err := s.entryRepo.Complete(ctx, open.ID, nowUTC, durationMinutes, req.WorkSummary)
	if err != nil {
		return attendance.ClockOutResponse{}, fmt.Errorf("failed to close session: %w", err)
	}
	if !closed {
		// The expiry sweep won the terminal transition between our read
		// and the CAS; the session is no longer open.
		return attendance.ClockOutResponse{}, attendance.ErrNotClockedIn
	}

	return attendance.ClockOutResponse{
		ID:              open.ID,
		ClockOut:        nowUTC.Format(time.RFC3339),
		DurationMinutes: durationMinutes,
		WorkSummary:     req.WorkSummary,
	}, nil
}

// Status implements attendance.Service.
func (s *ServiceImpl) Status(ctx context.Context) (attendance.StatusResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	nowUTC := s.now().UTC()

	open, err := s.entryRepo.FindOpenByEmployee(ctx, employeeID)
	if err != nil {
		return attendance.StatusResponse{}, fmt.Errorf("failed to find open session: %w", err)
	}

	todayTotal, err := s.todayTotalMinutes(ctx, employeeID, nowUTC)
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	resp := attendance.StatusResponse{TodayTotalMin: todayTotal}
	if open == nil {
		return resp, nil
	}

	elapsed := int64(nowUTC.Sub(open.ClockIn) / time.Second)
	expiresIn := int64(s.policy.MaxSession/time.Second) - elapsed
	if expiresIn < 0 {
		expiresIn = 0
	}

	resp.IsClocked = true
	clockedInAt := open.ClockIn.Format(time.RFC3339)
	resp.ClockedInAt = &clockedInAt
	resp.ElapsedSeconds = elapsed
	resp.ExpiresInSeconds = expiresIn
	resp.WillAutoExpire = expiresIn <= int64(s.policy.WarningWindow/time.Second)

	return resp, nil
}

// Today implements attendance.Service.
func (s *ServiceImpl) Today(ctx context.Context) (attendance.TodayResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	nowUTC := s.now().UTC()
	dayStart := startOfDay(nowUTC)

	entries, err := s.entryRepo.ListByEmployee(ctx, employeeID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to list today's entries: %w", err)
	}

	resp := attendance.TodayResponse{
		Date:    dayStart.Format("2006-01-02"),
		Entries: make([]attendance.EntryResponse, 0, len(entries)),
	}

	var lastClockOut *time.Time
	for i, entry := range entries {
		resp.Entries = append(resp.Entries, attendance.ToResponse(entry))

		if i == 0 {
			first := entry.ClockIn.Format(time.RFC3339)
			resp.FirstClockIn = &first
		}

		switch {
		case entry.Status == attendance.StatusInProgress:
			resp.IsCurrentlyIn = true
			resp.TotalWorkMinutes += attendance.DurationFor(entry.ClockIn, nowUTC)
		case entry.DurationMinutes != nil:
			resp.TotalWorkMinutes += *entry.DurationMinutes
			if entry.ClockOut != nil && (lastClockOut == nil || entry.ClockOut.After(*lastClockOut)) {
				lastClockOut = entry.ClockOut
			}
		}
	}

	if lastClockOut != nil {
		last := lastClockOut.Format(time.RFC3339)
		resp.LastClockOut = &last
	}

	return resp, nil
}

// History implements attendance.Service. Grouping and totals are computed
// here rather than in SQL so the memory store sees identical semantics.
func (s *ServiceImpl) History(ctx context.Context, year, month int) (attendance.HistoryResponse, error) {
	if month < 1 || month > 12 {
		return attendance.HistoryResponse{}, validator.ValidationErrors{{
			Field:   "month",
			Message: "month must be between 1 and 12",
		}}
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.HistoryResponse{}, err
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	entries, err := s.entryRepo.ListByEmployee(ctx, employeeID, from, to)
	if err != nil {
		return attendance.HistoryResponse{}, fmt.Errorf("failed to list month entries: %w", err)
	}

	resp := attendance.HistoryResponse{Entries: make([]attendance.HistoryDay, 0)}

	var day *attendance.HistoryDay
	for _, entry := range entries {
		date := entry.ClockIn.UTC().Format("2006-01-02")
		if day == nil || day.Date != date {
			resp.Entries = append(resp.Entries, attendance.HistoryDay{Date: date})
			day = &resp.Entries[len(resp.Entries)-1]
		}
		day.Entries = append(day.Entries, attendance.ToResponse(entry))
		if entry.DurationMinutes != nil {
			day.TotalWorkMinutes += *entry.DurationMinutes
		}
	}

	for _, d := range resp.Entries {
		resp.TotalWorkMinutes += d.TotalWorkMinutes
	}
	resp.TotalDaysWorked = len(resp.Entries)
	if resp.TotalDaysWorked > 0 {
		resp.AvgMinutesPerDay = resp.TotalWorkMinutes / resp.TotalDaysWorked
	}

	return resp, nil
}

// ListLogs implements attendance.Service.
func (s *ServiceImpl) ListLogs(ctx context.Context, filter attendance.LogFilter) (attendance.LogListResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.LogListResponse{}, err
	}

	entries, total, err := s.entryRepo.List(ctx, filter)
	if err != nil {
		return attendance.LogListResponse{}, fmt.Errorf("failed to list entries: %w", err)
	}

	results := make([]attendance.EntryResponse, 0, len(entries))
	for _, entry := range entries {
		results = append(results, attendance.ToResponse(entry))
	}

	return attendance.LogListResponse{
		Count:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Results:  results,
	}, nil
}

func (s *ServiceImpl) todayTotalMinutes(ctx context.Context, employeeID string, nowUTC time.Time) (int, error) {
	dayStart := startOfDay(nowUTC)
	entries, err := s.entryRepo.ListByEmployee(ctx, employeeID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return 0, fmt.Errorf("failed to list today's entries: %w", err)
	}

	total := 0
	for _, entry := range entries {
		if entry.Status == attendance.StatusInProgress {
			total += attendance.DurationFor(entry.ClockIn, nowUTC)
		} else if entry.DurationMinutes != nil {
			total += *entry.DurationMinutes
		}
	}
	return total, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
