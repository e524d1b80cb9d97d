package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/hrms-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler interface {
	// GetAttendanceReport handles GET /attendance/report
	GetAttendanceReport(w http.ResponseWriter, r *http.Request)

	// ExportAttendanceReport handles GET /attendance/report/export
	ExportAttendanceReport(w http.ResponseWriter, r *http.Request)

	// GetDailyReport handles GET /attendance/daily-report/{date}
	GetDailyReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// queryParam reads the camelCase name and falls back to its snake_case form.
func queryParam(r *http.Request, camel, snake string) string {
	q := r.URL.Query()
	if v := q.Get(camel); v != "" {
		return v
	}
	return q.Get(snake)
}

func rangeRequestFromQuery(r *http.Request) report.RangeReportRequest {
	req := report.RangeReportRequest{
		StartDate: queryParam(r, "startDate", "start_date"),
		EndDate:   queryParam(r, "endDate", "end_date"),
	}
	if employeeID := queryParam(r, "employeeId", "employee_id"); employeeID != "" {
		req.EmployeeID = &employeeID
	}
	return req
}

func (h *reportHandlerImpl) GetAttendanceReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetAttendanceReport(r.Context(), rangeRequestFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *reportHandlerImpl) ExportAttendanceReport(w http.ResponseWriter, r *http.Request) {
	req := rangeRequestFromQuery(r)

	var buf bytes.Buffer
	if err := h.reportService.ExportAttendanceReport(r.Context(), req, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance_%s_%s.xlsx", req.StartDate, req.EndDate)
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *reportHandlerImpl) GetDailyReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetDailyReport(r.Context(), report.DailyReportRequest{
		Date: chi.URLParam(r, "date"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
