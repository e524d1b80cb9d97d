package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/export"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const dailyReportBuildTimeout = 30 * time.Second

type ReportServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	roster         attendance.RosterReader
	clock          clock.Clock
	cache          report.DailyReportCache
	sf             *singleflight.Group
}

// NewReportService builds the aggregator. cache may be nil.
func NewReportService(
	attendanceRepo attendance.AttendanceRepository,
	roster attendance.RosterReader,
	clk clock.Clock,
	cache report.DailyReportCache,
) report.ReportService {
	return &ReportServiceImpl{
		attendanceRepo: attendanceRepo,
		roster:         roster,
		clock:          clk,
		cache:          cache,
		sf:             &singleflight.Group{},
	}
}

// GetDailyReport implements report.ReportService.
func (s *ReportServiceImpl) GetDailyReport(ctx context.Context, req report.DailyReportRequest) (report.DailyReport, error) {
	if err := req.Validate(); err != nil {
		return report.DailyReport{}, err
	}

	day, err := clock.ParseDay(req.Date, s.clock.Location())
	if err != nil {
		return report.DailyReport{}, err
	}

	var version string
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, day)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, report.ErrCacheMiss) {
			slog.Warn("failed to read daily report cache", "date", req.Date, "error", err)
		}
		// Read before building; a change after this point makes the stored copy unreadable.
		if version, err = s.cache.Version(ctx, day); err != nil {
			slog.Warn("failed to read daily report version", "date", req.Date, "error", err)
		}
	}

	// Concurrent requests for one day share a build. The build does not
	// belong to any one caller, so a caller that goes away only stops waiting.
	ch := s.sf.DoChan("daily:"+req.Date+"@"+version, func() (interface{}, error) {
		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dailyReportBuildTimeout)
		defer cancel()
		return s.buildDailyReport(buildCtx, day)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return report.DailyReport{}, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return report.DailyReport{}, res.Err
	}
	daily := res.Val.(report.DailyReport)

	if s.cache != nil && version != "" {
		if err := s.cache.Set(ctx, day, version, daily); err != nil {
			slog.Warn("failed to write daily report cache", "date", req.Date, "error", err)
		}
	}

	return daily, nil
}

func (s *ReportServiceImpl) buildDailyReport(ctx context.Context, day time.Time) (report.DailyReport, error) {
	var (
		total   int
		records []attendance.Attendance
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := s.roster.CountActive(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count active employees: %w", err)
		}
		total = count
		return nil
	})

	g.Go(func() error {
		rows, err := s.attendanceRepo.QueryDay(gCtx, day)
		if err != nil {
			return fmt.Errorf("failed to get attendance for day: %w", err)
		}
		records = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return report.DailyReport{}, err
	}

	present := CountPresent(records)

	return report.DailyReport{
		Date:           day.Format(attendance.DateLayout),
		TotalEmployees: total,
		Present:        present,
		Absent:         max(total-present, 0),
		Attendances:    attendance.NewAttendanceResponses(records),
	}, nil
}

// CountPresent counts records with a check-in whose employee is still active.
// Records without a joined employee are counted.
func CountPresent(records []attendance.Attendance) int {
	present := 0
	for _, rec := range records {
		if !rec.IsCheckedIn() {
			continue
		}
		if rec.Employee != nil && !rec.Employee.Active {
			continue
		}
		present++
	}
	return present
}

// GetAttendanceReport implements report.ReportService.
func (s *ReportServiceImpl) GetAttendanceReport(ctx context.Context, req report.RangeReportRequest) ([]attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	loc := s.clock.Location()
	start, err := clock.ParseDay(req.StartDate, loc)
	if err != nil {
		return nil, err
	}
	end, err := clock.ParseDay(req.EndDate, loc)
	if err != nil {
		return nil, err
	}

	records, err := s.attendanceRepo.QueryRange(ctx, start, end, req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance report: %w", err)
	}

	return attendance.NewAttendanceResponses(records), nil
}

// ExportAttendanceReport implements report.ReportService.
func (s *ReportServiceImpl) ExportAttendanceReport(ctx context.Context, req report.RangeReportRequest, w io.Writer) error {
	rows, err := s.GetAttendanceReport(ctx, req)
	if err != nil {
		return err
	}

	if err := export.WriteAttendanceXLSX(w, rows); err != nil {
		return fmt.Errorf("failed to export attendance report: %w", err)
	}
	return nil
}
