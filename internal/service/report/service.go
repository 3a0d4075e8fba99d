package report

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/workpulse-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/workpulse-hq/attendance-backend-go/internal/domain/report"
)

// csvHeader is the fixed column order of the attendance export.
var csvHeader = []string{
	"Employee",
	"Department",
	"Date",
	"Clock In",
	"Clock Out",
	"Duration (minutes)",
	"Work Summary",
	"Status",
	"Flagged",
	"Manual Entry",
}

type ServiceImpl struct {
	entryRepo attendance.EntryRepository
	now       func() time.Time
}

func NewService(entryRepo attendance.EntryRepository) report.Service {
	return &ServiceImpl{
		entryRepo: entryRepo,
		now:       time.Now,
	}
}

// ExportCSV implements report.Service.
func (s *ServiceImpl) ExportCSV(ctx context.Context, filter attendance.LogFilter) ([]byte, string, error) {
	if err := filter.Validate(); err != nil {
		return nil, "", err
	}

	// Exports are unpaginated: pull the full matching set in one page.
	filter.Page = 1
	filter.PageSize = exportPageSize

	entries, _, err := s.entryRepo.List(ctx, filter)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list entries for export: %w", err)
	}

	var buf bytes.Buffer
	writeRow(&buf, csvHeader)
	for _, entry := range entries {
		writeRow(&buf, exportRow(entry))
	}

	filename := fmt.Sprintf("attendance_log_%s.csv", s.now().UTC().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

const exportPageSize = 1_000_000

func exportRow(e attendance.Entry) []string {
	row := make([]string, 0, len(csvHeader))

	employeeName := ""
	if e.EmployeeName != nil {
		employeeName = *e.EmployeeName
	}
	department := ""
	if e.Department != nil {
		department = *e.Department
	}

	clockIn := e.ClockIn.UTC()
	clockOut := ""
	if e.ClockOut != nil {
		clockOut = e.ClockOut.UTC().Format("15:04:05")
	}
	duration := ""
	if e.DurationMinutes != nil {
		duration = strconv.Itoa(*e.DurationMinutes)
	}
	workSummary := ""
	if e.WorkSummary != nil {
		workSummary = *e.WorkSummary
	}

	row = append(row,
		employeeName,
		department,
		clockIn.Format("2006-01-02"),
		clockIn.Format("15:04:05"),
		clockOut,
		duration,
		workSummary,
		string(e.Status),
		yesNo(e.IsFlagged, e.FlagReason),
		yesNo(e.IsManualEntry, e.ManualEntryReason),
	)

	return row
}

// yesNo renders the flag and manual-entry columns: "Yes: <reason>" when set
// (falling back to a bare "Yes" without a reason), otherwise "No".
func yesNo(set bool, reason *string) string {
	if !set {
		return "No"
	}
	if reason == nil || *reason == "" {
		return "Yes"
	}
	return "Yes: " + *reason
}

// writeRow emits one CSV record with every cell double-quoted, regardless of
// content, so downstream spreadsheet imports never misparse free-text cells.
// encoding/csv only quotes when it must, hence the hand-rolled writer.
func writeRow(buf *bytes.Buffer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteString("\r\n")
}
