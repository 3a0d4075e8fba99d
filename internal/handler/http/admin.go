package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/workpulse-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/workpulse-hq/attendance-backend-go/internal/domain/dashboard"
	"github.com/workpulse-hq/attendance-backend-go/internal/domain/report"
	"github.com/workpulse-hq/attendance-backend-go/internal/handler/http/response"
)

type AdminHandler interface {
	ListLogs(w http.ResponseWriter, r *http.Request)
	EditEntry(w http.ResponseWriter, r *http.Request)
	FlagEntry(w http.ResponseWriter, r *http.Request)
	ManualEntry(w http.ResponseWriter, r *http.Request)
	Live(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	ExportLogs(w http.ResponseWriter, r *http.Request)
}

type adminHandlerImpl struct {
	attendanceService attendance.Service
	overrideService   attendance.OverrideService
	dashboardService  dashboard.Service
	reportService     report.Service
}

func NewAdminHandler(
	attendanceService attendance.Service,
	overrideService attendance.OverrideService,
	dashboardService dashboard.Service,
	reportService report.Service,
) AdminHandler {
	return &adminHandlerImpl{
		attendanceService: attendanceService,
		overrideService:   overrideService,
		dashboardService:  dashboardService,
		reportService:     reportService,
	}
}

// logFilterFromQuery maps the admin log query parameters onto a filter.
// Validation happens in the service.
func logFilterFromQuery(r *http.Request) (attendance.LogFilter, error) {
	var filter attendance.LogFilter
	q := r.URL.Query()

	strParam := func(key string) *string {
		if v := q.Get(key); v != "" {
			return &v
		}
		return nil
	}

	filter.EmployeeID = strParam("employeeId")
	filter.DepartmentID = strParam("departmentId")
	filter.Status = strParam("status")
	filter.Date = strParam("date")
	filter.DateFrom = strParam("dateFrom")
	filter.DateTo = strParam("dateTo")

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return filter, err
		}
		filter.Page = page
	}
	if v := q.Get("pageSize"); v != "" {
		pageSize, err := strconv.Atoi(v)
		if err != nil {
			return filter, err
		}
		filter.PageSize = pageSize
	}

	return filter, nil
}

// ListLogs implements AdminHandler.
func (h *adminHandlerImpl) ListLogs(w http.ResponseWriter, r *http.Request) {
	filter, err := logFilterFromQuery(r)
	if err != nil {
		response.BadRequest(w, "invalid pagination parameter", nil)
		return
	}

	result, err := h.attendanceService.ListLogs(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// EditEntry implements AdminHandler.
func (h *adminHandlerImpl) EditEntry(w http.ResponseWriter, r *http.Request) {
	var req attendance.EditEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.overrideService.EditEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Entry updated", result)
}

// FlagEntry implements AdminHandler.
func (h *adminHandlerImpl) FlagEntry(w http.ResponseWriter, r *http.Request) {
	var req attendance.FlagEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.overrideService.FlagEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Entry flag updated", result)
}

// ManualEntry implements AdminHandler.
func (h *adminHandlerImpl) ManualEntry(w http.ResponseWriter, r *http.Request) {
	var req attendance.ManualEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.overrideService.ManualEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Manual entry created", result)
}

// Live implements AdminHandler.
func (h *adminHandlerImpl) Live(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.Live(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Summary implements AdminHandler. An optional date=YYYY-MM-DD parameter
// selects the summary day; the default is today.
func (h *adminHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	date := time.Now().UTC()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.BadRequest(w, "invalid date parameter, expected YYYY-MM-DD", nil)
			return
		}
		date = parsed
	}

	result, err := h.dashboardService.Summary(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportLogs implements AdminHandler. Accepts the same filters as ListLogs
// and streams the matching entries as a CSV download.
func (h *adminHandlerImpl) ExportLogs(w http.ResponseWriter, r *http.Request) {
	filter, err := logFilterFromQuery(r)
	if err != nil {
		response.BadRequest(w, "invalid pagination parameter", nil)
		return
	}

	data, filename, err := h.reportService.ExportCSV(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
