package attendance

import (
	"strings"
	"time"

	"github.com/workpulse-hq/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// CLOCK ENGINE DTOs
// ========================================

type ClockInRequest struct {
	Note       *string `json:"note,omitempty"`
	DeviceInfo *string `json:"deviceInfo,omitempty"`
}

type ClockOutRequest struct {
	WorkSummary string `json:"workSummary"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WorkSummary) {
		errs = append(errs, validator.ValidationError{
			Field:   "workSummary",
			Message: "workSummary is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockInResponse struct {
	ID          string  `json:"id"`
	ClockedInAt string  `json:"clockedInAt"`
	Note        *string `json:"note,omitempty"`
}

type ClockOutResponse struct {
	ID              string `json:"id"`
	ClockOut        string `json:"clockOut"`
	DurationMinutes int    `json:"durationMinutes"`
	WorkSummary     string `json:"workSummary"`
}

type StatusResponse struct {
	IsClocked        bool    `json:"isClocked"`
	ClockedInAt      *string `json:"clockedInAt,omitempty"`
	ElapsedSeconds   int64   `json:"elapsedSeconds"`
	ExpiresInSeconds int64   `json:"expiresInSeconds"`
	WillAutoExpire   bool    `json:"willAutoExpire"`
	TodayTotalMin    int     `json:"todayTotalMinutes"`
}

type TodayResponse struct {
	Date             string          `json:"date"`
	TotalWorkMinutes int             `json:"totalWorkMinutes"`
	FirstClockIn     *string         `json:"firstClockIn,omitempty"`
	LastClockOut     *string         `json:"lastClockOut,omitempty"`
	IsCurrentlyIn    bool            `json:"isCurrentlyIn"`
	Entries          []EntryResponse `json:"entries"`
}

type HistoryDay struct {
	Date             string          `json:"date"`
	Entries          []EntryResponse `json:"entries"`
	TotalWorkMinutes int             `json:"totalWorkMinutes"`
}

type HistoryResponse struct {
	Entries          []HistoryDay `json:"entries"`
	TotalDaysWorked  int          `json:"totalDaysWorked"`
	TotalWorkMinutes int          `json:"totalWorkMinutes"`
	AvgMinutesPerDay int          `json:"avgMinutesPerDay"`
}

// ========================================
// OVERRIDE SERVICE DTOs
// ========================================

type EditEntryRequest struct {
	ID          string  `json:"-"`
	ClockIn     *string `json:"clockIn,omitempty"`  // RFC3339
	ClockOut    *string `json:"clockOut,omitempty"` // RFC3339
	EditReason  string  `json:"editReason"`
	WorkSummary *string `json:"workSummary,omitempty"`
}

func (r *EditEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EditReason) {
		errs = append(errs, validator.ValidationError{
			Field:   "editReason",
			Message: "editReason is required",
		})
	}

	if r.ClockIn != nil {
		if _, valid := validator.IsValidDateTime(*r.ClockIn); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "clockIn",
				Message: "clockIn must be an RFC3339 timestamp",
			})
		}
	}

	if r.ClockOut != nil {
		if _, valid := validator.IsValidDateTime(*r.ClockOut); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "clockOut",
				Message: "clockOut must be an RFC3339 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type FlagEntryRequest struct {
	ID         string  `json:"-"`
	IsFlagged  bool    `json:"isFlagged"`
	FlagReason *string `json:"flagReason,omitempty"`
}

func (r *FlagEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.IsFlagged && (r.FlagReason == nil || validator.IsEmpty(*r.FlagReason)) {
		errs = append(errs, validator.ValidationError{
			Field:   "flagReason",
			Message: "flagReason is required when flagging an entry",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ManualEntryRequest struct {
	EmployeeID        string  `json:"employeeId"`
	ClockIn           string  `json:"clockIn"`  // RFC3339
	ClockOut          string  `json:"clockOut"` // RFC3339
	WorkSummary       *string `json:"workSummary,omitempty"`
	ManualEntryReason string  `json:"manualEntryReason"`
}

func (r *ManualEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employeeId",
			Message: "employeeId is required",
		})
	}

	if validator.IsEmpty(r.ManualEntryReason) {
		errs = append(errs, validator.ValidationError{
			Field:   "manualEntryReason",
			Message: "manualEntryReason is required",
		})
	}

	clockIn, inValid := validator.IsValidDateTime(r.ClockIn)
	if !inValid {
		errs = append(errs, validator.ValidationError{
			Field:   "clockIn",
			Message: "clockIn must be an RFC3339 timestamp",
		})
	}

	clockOut, outValid := validator.IsValidDateTime(r.ClockOut)
	if !outValid {
		errs = append(errs, validator.ValidationError{
			Field:   "clockOut",
			Message: "clockOut must be an RFC3339 timestamp",
		})
	}

	if inValid && outValid && clockOut.Before(clockIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "clockOut",
			Message: "clockOut must not be before clockIn",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// ADMIN LOG DTOs
// ========================================

type LogFilter struct {
	EmployeeID   *string `json:"employeeId,omitempty"`
	DepartmentID *string `json:"departmentId,omitempty"`
	Status       *string `json:"status,omitempty"`
	Date         *string `json:"date,omitempty"`     // YYYY-MM-DD
	DateFrom     *string `json:"dateFrom,omitempty"` // YYYY-MM-DD
	DateTo       *string `json:"dateTo,omitempty"`   // YYYY-MM-DD

	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

func (f *LogFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.PageSize < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "pageSize",
			Message: "pageSize must be a positive number",
		})
	}
	if f.PageSize == 0 {
		f.PageSize = 20 // Default page size
	}
	if f.PageSize > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "pageSize",
			Message: "pageSize must not exceed 100",
		})
	}

	if f.Status != nil && *f.Status != "" {
		if !Status(strings.ToUpper(*f.Status)).Valid() {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: IN_PROGRESS, COMPLETED, AUTO_EXPIRED, EDITED, MANUAL",
			})
		}
	}

	for field, value := range map[string]*string{
		"date":     f.Date,
		"dateFrom": f.DateFrom,
		"dateTo":   f.DateTo,
	} {
		if value != nil && *value != "" {
			if _, valid := validator.IsValidDate(*value); !valid {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: field + " must be in YYYY-MM-DD format",
				})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LogListResponse struct {
	Count    int64           `json:"count"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
	Results  []EntryResponse `json:"results"`
}

// ========================================
// ENTRY RESPONSE
// ========================================

type EntryResponse struct {
	ID                string  `json:"id"`
	EmployeeID        string  `json:"employeeId"`
	EmployeeName      *string `json:"employeeName,omitempty"`
	Department        *string `json:"department,omitempty"`
	ClockIn           string  `json:"clockIn"`
	ClockOut          *string `json:"clockOut,omitempty"`
	DurationMinutes   *int    `json:"durationMinutes,omitempty"`
	WorkSummary       *string `json:"workSummary,omitempty"`
	Status            Status  `json:"status"`
	Note              *string `json:"note,omitempty"`
	DeviceInfo        *string `json:"deviceInfo,omitempty"`
	IsManualEntry     bool    `json:"isManualEntry"`
	ManualEntryReason *string `json:"manualEntryReason,omitempty"`
	IsFlagged         bool    `json:"isFlagged"`
	FlagReason        *string `json:"flagReason,omitempty"`
	FlaggedBy         *string `json:"flaggedBy,omitempty"`
	FlaggedAt         *string `json:"flaggedAt,omitempty"`
	EditedBy          *string `json:"editedBy,omitempty"`
	EditedAt          *string `json:"editedAt,omitempty"`
	EditReason        *string `json:"editReason,omitempty"`
	Version           int     `json:"version"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

// timePtrToString safely converts a *time.Time to an RFC3339 string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}

// ToResponse converts an Entry to its wire representation.
func ToResponse(e Entry) EntryResponse {
	return EntryResponse{
		ID:                e.ID,
		EmployeeID:        e.EmployeeID,
		EmployeeName:      e.EmployeeName,
		Department:        e.Department,
		ClockIn:           e.ClockIn.UTC().Format(time.RFC3339),
		ClockOut:          timePtrToString(e.ClockOut),
		DurationMinutes:   e.DurationMinutes,
		WorkSummary:       e.WorkSummary,
		Status:            e.Status,
		Note:              e.Note,
		DeviceInfo:        e.DeviceInfo,
		IsManualEntry:     e.IsManualEntry,
		ManualEntryReason: e.ManualEntryReason,
		IsFlagged:         e.IsFlagged,
		FlagReason:        e.FlagReason,
		FlaggedBy:         e.FlaggedBy,
		FlaggedAt:         timePtrToString(e.FlaggedAt),
		EditedBy:          e.EditedBy,
		EditedAt:          timePtrToString(e.EditedAt),
		EditReason:        e.EditReason,
		Version:           e.Version,
		CreatedAt:         e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
