package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workpulse-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/workpulse-hq/attendance-backend-go/internal/repository/memory"
)

func newTestService(repo attendance.EntryRepository, at time.Time) *ServiceImpl {
	return &ServiceImpl{
		entryRepo: repo,
		now:       func() time.Time { return at },
	}
}

func strPtr(s string) *string { return &s }

func TestExportCSVHeaderAndQuoting(t *testing.T) {
	repo := memory.NewEntryRepository()
	svc := newTestService(repo, time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC))

	clockIn := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	clockOut := clockIn.Add(8 * time.Hour)
	minutes := 480
	_, err := repo.CreateClosed(context.Background(), attendance.Entry{
		EmployeeID:      "emp-001",
		EmployeeName:    strPtr("Ana Silva"),
		Department:      strPtr("Engineering"),
		ClockIn:         clockIn,
		ClockOut:        &clockOut,
		DurationMinutes: &minutes,
		WorkSummary:     strPtr(`shipped the "big" release`),
		Status:          attendance.StatusCompleted,
	})
	require.NoError(t, err)

	data, filename, err := svc.ExportCSV(context.Background(), attendance.LogFilter{})
	require.NoError(t, err)

	assert.Equal(t, "attendance_log_2026-02-11.csv", filename)

	lines := strings.Split(strings.TrimRight(string(data), "\r\n"), "\r\n")
	require.Len(t, lines, 2)

	assert.Equal(t,
		`"Employee","Department","Date","Clock In","Clock Out","Duration (minutes)","Work Summary","Status","Flagged","Manual Entry"`,
		lines[0])
	assert.Equal(t,
		`"Ana Silva","Engineering","2026-02-10","09:00:00","17:00:00","480","shipped the ""big"" release","COMPLETED","No","No"`,
		lines[1])
}

func TestExportCSVFlagAndManualRendering(t *testing.T) {
	repo := memory.NewEntryRepository()
	svc := newTestService(repo, time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC))

	clockIn := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	clockOut := clockIn.Add(8 * time.Hour)
	minutes := 480
	flaggedAt := clockOut
	_, err := repo.CreateClosed(context.Background(), attendance.Entry{
		EmployeeID:        "emp-002",
		EmployeeName:      strPtr("Budi Santoso"),
		Department:        strPtr("Operations"),
		ClockIn:           clockIn,
		ClockOut:          &clockOut,
		DurationMinutes:   &minutes,
		Status:            attendance.StatusManual,
		IsManualEntry:     true,
		ManualEntryReason: strPtr("forgot badge"),
		IsFlagged:         true,
		FlagReason:        strPtr("backfilled late"),
		FlaggedBy:         strPtr("admin-001"),
		FlaggedAt:         &flaggedAt,
	})
	require.NoError(t, err)

	data, _, err := svc.ExportCSV(context.Background(), attendance.LogFilter{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\r\n"), "\r\n")
	require.Len(t, lines, 2)

	cells := strings.Split(lines[1], ",")
	require.Len(t, cells, 10)
	assert.Equal(t, `"MANUAL"`, cells[7])
	assert.Equal(t, `"Yes: backfilled late"`, cells[8])
	assert.Equal(t, `"Yes: forgot badge"`, cells[9])
}

func TestExportCSVOpenEntryHasEmptyClockOut(t *testing.T) {
	repo := memory.NewEntryRepository()
	svc := newTestService(repo, time.Date(2026, 2, 10, 11, 0, 0, 0, time.UTC))

	_, err := repo.CreateOpen(context.Background(), attendance.Entry{
		EmployeeID: "emp-003",
		ClockIn:    time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	data, _, err := svc.ExportCSV(context.Background(), attendance.LogFilter{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\r\n"), "\r\n")
	require.Len(t, lines, 2)

	cells := strings.Split(lines[1], ",")
	require.Len(t, cells, 10)
	// Missing name/department and open session render as empty quoted cells.
	assert.Equal(t, `""`, cells[0])
	assert.Equal(t, `""`, cells[4])
	assert.Equal(t, `""`, cells[5])
	assert.Equal(t, `"IN_PROGRESS"`, cells[7])
}

func TestExportCSVIgnoresPagination(t *testing.T) {
	repo := memory.NewEntryRepository()
	svc := newTestService(repo, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	for day := 1; day <= 25; day++ {
		clockIn := time.Date(2026, 2, day, 9, 0, 0, 0, time.UTC)
		clockOut := clockIn.Add(time.Hour)
		minutes := 60
		_, err := repo.CreateClosed(context.Background(), attendance.Entry{
			EmployeeID:      "emp-001",
			ClockIn:         clockIn,
			ClockOut:        &clockOut,
			DurationMinutes: &minutes,
			Status:          attendance.StatusCompleted,
		})
		require.NoError(t, err)
	}

	data, _, err := svc.ExportCSV(context.Background(), attendance.LogFilter{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\r\n"), "\r\n")
	// Header plus all 25 rows, not one default page of 20.
	assert.Len(t, lines, 26)
}
