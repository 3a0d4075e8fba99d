package report

import (
	"context"

	"github.com/workpulse-hq/attendance-backend-go/internal/domain/attendance"
)

// Service produces downloadable exports of the attendance log.
type Service interface {
	// ExportCSV renders every entry matching the filter (pagination is
	// ignored; an export is always the full matching set) as a CSV
	// document and suggests a filename for the download.
	ExportCSV(ctx context.Context, filter attendance.LogFilter) (data []byte, filename string, err error)
}
