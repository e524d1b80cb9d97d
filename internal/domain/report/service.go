package report

import (
	"context"
	"io"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
)

// ReportService aggregates attendance records with the active roster
type ReportService interface {
	// GetDailyReport counts presence for one day against the active headcount
	GetDailyReport(ctx context.Context, req DailyReportRequest) (DailyReport, error)

	// GetAttendanceReport lists records in an inclusive range, newest first
	GetAttendanceReport(ctx context.Context, req RangeReportRequest) ([]attendance.AttendanceResponse, error)

	// ExportAttendanceReport writes the range report as an XLSX workbook
	ExportAttendanceReport(ctx context.Context, req RangeReportRequest, w io.Writer) error
}
