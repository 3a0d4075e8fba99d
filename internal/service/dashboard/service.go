package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/workpulse-hq/attendance-backend-go/internal/config"
	"github.com/workpulse-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/workpulse-hq/attendance-backend-go/internal/domain/dashboard"
	"github.com/workpulse-hq/attendance-backend-go/internal/domain/employee"
)

// trailingDays is the window for the summary series and per-employee metrics.
const trailingDays = 7

type ServiceImpl struct {
	entryRepo    attendance.EntryRepository
	employeeRepo employee.Repository
	policy       config.AttendanceConfig
	now          func() time.Time
}

func NewService(entryRepo attendance.EntryRepository, employeeRepo employee.Repository, policy config.AttendanceConfig) dashboard.Service {
	return &ServiceImpl{
		entryRepo:    entryRepo,
		employeeRepo: employeeRepo,
		policy:       policy,
		now:          time.Now,
	}
}

// Live implements dashboard.Service.
func (s *ServiceImpl) Live(ctx context.Context) (dashboard.LiveResponse, error) {
	var (
		open      []attendance.Entry
		directory []employee.Employee
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		open, err = s.entryRepo.ListOpen(gCtx)
		if err != nil {
			return fmt.Errorf("failed to list open entries: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		directory, err = s.employeeRepo.ListActive(gCtx)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.LiveResponse{}, err
	}

	nowUTC := s.now().UTC()
	byID := make(map[string]employee.Employee, len(directory))
	for _, emp := range directory {
		byID[emp.ID] = emp
	}

	resp := dashboard.LiveResponse{
		LiveEmployees: make([]dashboard.LiveEmployee, 0, len(open)),
		NotClockedIn:  make([]dashboard.DirectoryEmployee, 0),
	}

	clockedIn := make(map[string]bool, len(open))
	for _, entry := range open {
		clockedIn[entry.EmployeeID] = true

		live := dashboard.LiveEmployee{
			EmployeeID:     entry.EmployeeID,
			EntryID:        entry.ID,
			ClockedInAt:    entry.ClockIn.UTC().Format(time.RFC3339),
			ElapsedMinutes: attendance.DurationFor(entry.ClockIn, nowUTC),
		}
		if emp, ok := byID[entry.EmployeeID]; ok {
			live.EmployeeName = emp.FullName
			live.Department = emp.Department
		}
		resp.LiveEmployees = append(resp.LiveEmployees, live)
	}
	resp.LiveCount = len(resp.LiveEmployees)

	for _, emp := range directory {
		if !clockedIn[emp.ID] {
			resp.NotClockedIn = append(resp.NotClockedIn, dashboard.DirectoryEmployee{
				EmployeeID:   emp.ID,
				EmployeeName: emp.FullName,
				Department:   emp.Department,
			})
		}
	}

	return resp, nil
}

// Summary implements dashboard.Service.
func (s *ServiceImpl) Summary(ctx context.Context, date time.Time) (dashboard.SummaryResponse, error) {
	dayStart := startOfDay(date)
	dayEnd := dayStart.AddDate(0, 0, 1)
	weekStart := dayStart.AddDate(0, 0, -(trailingDays - 1))

	var (
		weekEntries []attendance.Entry
		directory   []employee.Employee
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		weekEntries, err = s.entryRepo.ListByDateRange(gCtx, weekStart, dayEnd)
		if err != nil {
			return fmt.Errorf("failed to list week entries: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		directory, err = s.employeeRepo.ListActive(gCtx)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.SummaryResponse{}, err
	}

	resp := dashboard.SummaryResponse{
		Date:            dayStart.Format("2006-01-02"),
		DailyAttendance: make([]dashboard.DailyCount, 0, trailingDays),
		EmployeeMetrics: make([]dashboard.EmployeeMetrics, 0, len(directory)),
	}

	presentToday := make(map[string]bool)
	presentByDay := make(map[string]map[string]bool)

	for _, entry := range weekEntries {
		day := entry.ClockIn.UTC().Format("2006-01-02")
		if presentByDay[day] == nil {
			presentByDay[day] = make(map[string]bool)
		}
		presentByDay[day][entry.EmployeeID] = true

		if entry.IsFlagged {
			resp.FlaggedEntries++
		}

		today := !entry.ClockIn.Before(dayStart) && entry.ClockIn.Before(dayEnd)
		if today {
			presentToday[entry.EmployeeID] = true
		}

		// The status set is closed; new states must be handled here.
		switch entry.Status {
		case attendance.StatusAutoExpired:
			if today {
				resp.AutoExpiredToday++
			}
		case attendance.StatusInProgress, attendance.StatusCompleted,
			attendance.StatusEdited, attendance.StatusManual:
		}
	}

	resp.PresentToday = len(presentToday)
	resp.AbsentToday = len(directory) - resp.PresentToday
	if resp.AbsentToday < 0 {
		resp.AbsentToday = 0
	}

	for d := 0; d < trailingDays; d++ {
		day := weekStart.AddDate(0, 0, d).Format("2006-01-02")
		resp.DailyAttendance = append(resp.DailyAttendance, dashboard.DailyCount{
			Date:    day,
			Present: len(presentByDay[day]),
		})
	}

	metrics := s.employeeMetrics(weekEntries, directory)
	resp.EmployeeMetrics = append(resp.EmployeeMetrics, metrics...)

	return resp, nil
}

// employeeMetrics folds the window's entries into per-employee presence and
// punctuality counts. Late/early thresholds come from configuration, never
// from the data.
func (s *ServiceImpl) employeeMetrics(entries []attendance.Entry, directory []employee.Employee) []dashboard.EmployeeMetrics {
	type dayAgg struct {
		firstClockIn time.Time
		lastClockOut *time.Time
		minutes      int
	}

	perEmployee := make(map[string]map[string]*dayAgg)
	for _, entry := range entries {
		day := entry.ClockIn.UTC().Format("2006-01-02")
		days := perEmployee[entry.EmployeeID]
		if days == nil {
			days = make(map[string]*dayAgg)
			perEmployee[entry.EmployeeID] = days
		}
		agg := days[day]
		if agg == nil {
			agg = &dayAgg{firstClockIn: entry.ClockIn}
			days[day] = agg
		}
		if entry.ClockIn.Before(agg.firstClockIn) {
			agg.firstClockIn = entry.ClockIn
		}
		if entry.ClockOut != nil && (agg.lastClockOut == nil || entry.ClockOut.After(*agg.lastClockOut)) {
			agg.lastClockOut = entry.ClockOut
		}
		if entry.DurationMinutes != nil {
			agg.minutes += *entry.DurationMinutes
		}
	}

	startHour, startMin := parseClock(s.policy.ExpectedStart)
	endHour, endMin := parseClock(s.policy.ExpectedEnd)

	metrics := make([]dashboard.EmployeeMetrics, 0, len(directory))
	for _, emp := range directory {
		m := dashboard.EmployeeMetrics{
			EmployeeID:   emp.ID,
			EmployeeName: emp.FullName,
			Department:   emp.Department,
		}

		totalMinutes := 0
		for day, agg := range perEmployee[emp.ID] {
			m.DaysPresent++
			totalMinutes += agg.minutes

			dayDate, _ := time.Parse("2006-01-02", day)
			expectedStart := time.Date(dayDate.Year(), dayDate.Month(), dayDate.Day(), startHour, startMin, 0, 0, time.UTC)
			expectedEnd := time.Date(dayDate.Year(), dayDate.Month(), dayDate.Day(), endHour, endMin, 0, 0, time.UTC)

			if agg.firstClockIn.After(expectedStart) {
				m.LateArrivals++
			}
			if agg.lastClockOut != nil && agg.lastClockOut.Before(expectedEnd) {
				m.EarlyDepartures++
			}
		}
		if m.DaysPresent > 0 {
			m.AvgMinutesPerDay = totalMinutes / m.DaysPresent
		}

		metrics = append(metrics, m)
	}

	sort.Slice(metrics, func(i, j int) bool {
		return metrics[i].EmployeeName < metrics[j].EmployeeName
	})

	return metrics
}

// parseClock splits an HH:MM policy value; config validation guarantees the
// format.
func parseClock(value string) (hour, minute int) {
	t, _ := time.Parse("15:04", value)
	return t.Hour(), t.Minute()
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
