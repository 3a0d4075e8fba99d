package attendance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workpulse-hq/attendance-backend-go/internal/config"
	"github.com/workpulse-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/workpulse-hq/attendance-backend-go/internal/pkg/jwt"
	"github.com/workpulse-hq/attendance-backend-go/internal/pkg/validator"
	"github.com/workpulse-hq/attendance-backend-go/internal/repository/memory"
)

const testEmployeeID = "emp-001"

var testPolicy = config.AttendanceConfig{
	MaxSession:    4 * time.Hour,
	WarningWindow: 30 * time.Minute,
	SweepInterval: time.Minute,
	ExpectedStart: "09:00",
	ExpectedEnd:   "17:00",
}

func employeeContext(t *testing.T, employeeID string) context.Context {
	t.Helper()
	jwtService := jwt.NewJWTService("test-secret-key-for-jwt", "1h")
	tokenString, _, err := jwtService.GenerateAccessToken(employeeID, false)
	require.NoError(t, err)
	token, err := jwtService.JWTAuth().Decode(tokenString)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

// newTestService returns a service whose clock is the returned pointer;
// tests advance it by reassignment.
func newTestService(repo attendance.EntryRepository, at time.Time) (*ServiceImpl, *time.Time) {
	current := at
	svc := &ServiceImpl{
		entryRepo: repo,
		policy:    testPolicy,
		now:       func() time.Time { return current },
	}
	return svc, &current
}

func TestClockInRejectsSecondOpenSession(t *testing.T) {
	repo := memory.NewEntryRepository()
	svc, _ := newTestService(repo, time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC))
	ctx := employeeContext(t, testEmployeeID)

	first, err := svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "2026-02-10T09:00:00Z", first.ClockedInAt)

	_, err = svc.ClockIn(ctx, attendance.ClockInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)
}

func TestClockInAfterClockOutOpensNewSession(t *testing.T) {
	repo := memory.NewEntryRepository()
	svc, now := newTestService(repo, time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC))
	ctx := employeeContext(t, testEmployeeID)

	_, err := svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)

	*now = now.Add(2 * time.Hour)
	_, err = svc.ClockOut(ctx, attendance.ClockOutRequest{WorkSummary: "morning work"})
	require.NoError(t, err)

	_, err = svc.ClockIn(ctx, attendance.ClockInRequest{})
	assert.NoError(t, err)
}

func TestConcurrentClockInAllowsExactlyOne(t *testing.T) {
	repo := memory.NewEntryRepository()
	svc, _ := newTestService(repo, time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC))
	ctx := employeeContext(t, testEmployeeID)

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ClockIn(ctx, attendance.ClockInRequest{})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)
		}
	}
	assert.Equal(t, 1, succeeded)

	open, err := repo.ListOpen(context.Background())
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestClockOutComputesDuration(t *testing.T) {
	repo := memory.NewEntryRepository()
	svc, now := newTestService(repo, time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC))
	ctx := employeeContext(t, testEmployeeID)

	clockedIn, err := svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)

	*now = time.Date(2026, 2, 10, 17, 30, 0, 0, time.UTC)
	result, err := svc.ClockOut(ctx, attendance.ClockOutRequest{WorkSummary: "x"})
	require.NoError(t, err)

	assert.Equal(t, 510, result.DurationMinutes)
	assert.Equal(t, "2026-02-10T17:30:00Z", result.ClockOut)

	stored, err := repo.GetByID(context.Background(), clockedIn.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusCompleted, stored.Status)
	require.NotNil(t, stored.DurationMinutes)
	assert.Equal(t, 510, *stored.DurationMinutes)
	require.NotNil(t, stored.WorkSummary)
	assert.Equal(t, "x", *stored.WorkSummary)
}

func TestClockOutWithoutOpenSession(t *testing.T) {
	repo := memory.NewEntryRepository()
	svc, _ := newTestService(repo, time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC))
	ctx := employeeContext(t, testEmployeeID)

	_, err := svc.ClockOut(ctx, attendance.ClockOutRequest{WorkSummary: "x"})
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)
}

func TestClockOutRequiresWorkSummary(t *testing.T) {
	repo := memory.NewEntryRepository()
	svc, _ := newTestService(repo, time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC))
	ctx := employeeContext(t, testEmployeeID)

	_, err := svc.ClockOut(ctx, attendance.ClockOutRequest{})
	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	assert.Contains(t, validationErrs.ToMap(), "workSummary")
}

func TestStatusWhileClockedIn(t *testing.T) {
	repo := memory.NewEntryRepository()
	svc, now := newTestService(repo, time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC))
	ctx := employeeContext(t, testEmployeeID)

	_, err := svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)

	// 3h45m in: inside the 30m warning window of the 4h cap.
	*now = now.Add(3*time.Hour + 45*time.Minute)

	status, err := svc.Status(ctx)
	require.NoError(t, err)

	assert.True(t, status.IsClocked)
	require.NotNil(t, status.ClockedInAt)
	assert.Equal(t, "2026-02-10T09:00:00Z", *status.ClockedInAt)
	assert.Equal(t, int64(13500), status.ElapsedSeconds)
	assert.Equal(t, int64(900), status.ExpiresInSeconds)
	assert.True(t, status.WillAutoExpire)
	assert.Equal(t, 225, status.TodayTotalMin)
}

func TestStatusWhileClockedOut(t *testing.T) {
	repo := memory.NewEntryRepository()
	svc, _ := newTestService(repo, time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC))
	ctx := employeeContext(t, testEmployeeID)

	status, err := svc.Status(ctx)
	require.NoError(t, err)

	assert.False(t, status.IsClocked)
	assert.Nil(t, status.ClockedInAt)
	assert.Zero(t, status.ElapsedSeconds)
	assert.False(t, status.WillAutoExpire)
}

func TestStatusExpiresInNeverNegative(t *testing.T) {
	repo := memory.NewEntryRepository()
	svc, now := newTestService(repo, time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC))
	ctx := employeeContext(t, testEmployeeID)

	_, err := svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)

	// Past the cap but not yet swept.
	*now = now.Add(5 * time.Hour)

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), status.ExpiresInSeconds)
	assert.True(t, status.WillAutoExpire)
}

func TestTodayAggregation(t *testing.T) {
	repo := memory.NewEntryRepository()
	svc, now := newTestService(repo, time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC))
	ctx := employeeContext(t, testEmployeeID)

	// Completed morning session of 60 minutes.
	_, err := svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)
	*now = now.Add(time.Hour)
	_, err = svc.ClockOut(ctx, attendance.ClockOutRequest{WorkSummary: "emails"})
	require.NoError(t, err)

	// Open afternoon session, 30 minutes in.
	*now = time.Date(2026, 2, 10, 13, 0, 0, 0, time.UTC)
	_, err = svc.ClockIn(ctx, attendance.ClockInRequest{})
	require.NoError(t, err)
	*now = now.Add(30 * time.Minute)

	today, err := svc.Today(ctx)
	require.NoError(t, err)

	assert.Equal(t, "2026-02-10", today.Date)
	assert.True(t, today.IsCurrentlyIn)
	assert.Equal(t, 90, today.TotalWorkMinutes)
	require.NotNil(t, today.FirstClockIn)
	assert.Equal(t, "2026-02-10T08:00:00Z", *today.FirstClockIn)
	require.NotNil(t, today.LastClockOut)
	assert.Equal(t, "2026-02-10T09:00:00Z", *today.LastClockOut)
	assert.Len(t, today.Entries, 2)
}

func TestHistoryAggregation(t *testing.T) {
	repo := memory.NewEntryRepository()
	svc, _ := newTestService(repo, time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC))
	ctx := employeeContext(t, testEmployeeID)

	seedClosed(t, repo, testEmployeeID, time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC), 480)
	seedClosed(t, repo, testEmployeeID, time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC), 420)
	seedClosed(t, repo, testEmployeeID, time.Date(2026, 2, 4, 9, 0, 0, 0, time.UTC), 510)

	history, err := svc.History(ctx, 2026, 2)
	require.NoError(t, err)

	assert.Equal(t, 1410, history.TotalWorkMinutes)
	assert.Equal(t, 3, history.TotalDaysWorked)
	assert.Equal(t, 470, history.AvgMinutesPerDay)
	require.Len(t, history.Entries, 3)
	assert.Equal(t, "2026-02-02", history.Entries[0].Date)
	assert.Equal(t, 480, history.Entries[0].TotalWorkMinutes)
}

func TestHistoryGroupsSameDayEntries(t *testing.T) {
	repo := memory.NewEntryRepository()
	svc, _ := newTestService(repo, time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC))
	ctx := employeeContext(t, testEmployeeID)

	seedClosed(t, repo, testEmployeeID, time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC), 120)
	seedClosed(t, repo, testEmployeeID, time.Date(2026, 2, 2, 13, 0, 0, 0, time.UTC), 180)

	history, err := svc.History(ctx, 2026, 2)
	require.NoError(t, err)

	assert.Equal(t, 1, history.TotalDaysWorked)
	assert.Equal(t, 300, history.TotalWorkMinutes)
	require.Len(t, history.Entries, 1)
	assert.Len(t, history.Entries[0].Entries, 2)
}

func TestHistoryRejectsInvalidMonth(t *testing.T) {
	repo := memory.NewEntryRepository()
	svc, _ := newTestService(repo, time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC))
	ctx := employeeContext(t, testEmployeeID)

	_, err := svc.History(ctx, 2026, 13)
	var validationErrs validator.ValidationErrors
	assert.ErrorAs(t, err, &validationErrs)
}

func TestListLogsFiltersAndPaginates(t *testing.T) {
	repo := memory.NewEntryRepository()
	svc, _ := newTestService(repo, time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC))
	ctx := employeeContext(t, "admin-001")

	seedClosed(t, repo, "emp-001", time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC), 480)
	seedClosed(t, repo, "emp-002", time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC), 420)
	seedClosed(t, repo, "emp-001", time.Date(2026, 2, 4, 9, 0, 0, 0, time.UTC), 510)

	empID := "emp-001"
	result, err := svc.ListLogs(ctx, attendance.LogFilter{EmployeeID: &empID})
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.Count)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 20, result.PageSize)
	require.Len(t, result.Results, 2)
	// Newest first.
	assert.Equal(t, "2026-02-04T09:00:00Z", result.Results[0].ClockIn)
}

func TestListLogsFiltersByDepartment(t *testing.T) {
	repo := memory.NewEntryRepository()
	svc, _ := newTestService(repo, time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC))
	ctx := employeeContext(t, "admin-001")

	eng := "dept-eng"
	ops := "dept-ops"
	first := seedClosed(t, repo, "emp-001", time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC), 480)
	second := seedClosed(t, repo, "emp-002", time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC), 420)
	setDepartment(t, repo, first, eng)
	setDepartment(t, repo, second, ops)

	result, err := svc.ListLogs(ctx, attendance.LogFilter{DepartmentID: &eng})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Count)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "emp-001", result.Results[0].EmployeeID)

	unknown := "dept-does-not-exist"
	result, err = svc.ListLogs(ctx, attendance.LogFilter{DepartmentID: &unknown})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Count)
	assert.Empty(t, result.Results)
}

func TestListLogsRejectsUnknownStatus(t *testing.T) {
	repo := memory.NewEntryRepository()
	svc, _ := newTestService(repo, time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC))
	ctx := employeeContext(t, "admin-001")

	bogus := "PENDING"
	_, err := svc.ListLogs(ctx, attendance.LogFilter{Status: &bogus})
	var validationErrs validator.ValidationErrors
	assert.ErrorAs(t, err, &validationErrs)
}

func seedClosed(t *testing.T, repo *memory.EntryRepository, employeeID string, clockIn time.Time, minutes int) attendance.Entry {
	t.Helper()
	clockOut := clockIn.Add(time.Duration(minutes) * time.Minute)
	summary := "seeded"
	entry, err := repo.CreateClosed(context.Background(), attendance.Entry{
		EmployeeID:      employeeID,
		ClockIn:         clockIn,
		ClockOut:        &clockOut,
		DurationMinutes: &minutes,
		WorkSummary:     &summary,
		Status:          attendance.StatusCompleted,
	})
	require.NoError(t, err)
	return entry
}

// setDepartment attaches the directory join fields the live store would
// produce via the employees join.
func setDepartment(t *testing.T, repo *memory.EntryRepository, entry attendance.Entry, departmentID string) {
	t.Helper()
	entry.DepartmentID = &departmentID
	_, err := repo.Update(context.Background(), entry)
	require.NoError(t, err)
}
