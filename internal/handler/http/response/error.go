package response

import (
	"errors"
	"net/http"

	"github.com/workpulse-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/workpulse-hq/attendance-backend-go/internal/domain/auth"
	"github.com/workpulse-hq/attendance-backend-go/internal/domain/employee"
	"github.com/workpulse-hq/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		BadRequest(w, "Already clocked in", nil)
	case errors.Is(err, attendance.ErrNotClockedIn):
		BadRequest(w, "No open session to clock out of", nil)
	case errors.Is(err, attendance.ErrEntryNotFound):
		NotFound(w, "Attendance entry not found")
	case errors.Is(err, attendance.ErrVersionConflict):
		Conflict(w, "Entry was modified concurrently, re-fetch and retry")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing token")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
