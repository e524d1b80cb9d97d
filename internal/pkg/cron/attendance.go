package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// OpenSessionAuditor reports attendance records from earlier days that were
// never checked out.
type OpenSessionAuditor interface {
	AuditOpenSessions(ctx context.Context) (int, error)
}

type AttendanceJobs struct {
	auditor  OpenSessionAuditor
	interval time.Duration
}

func NewAttendanceJobs(auditor OpenSessionAuditor, interval time.Duration) *AttendanceJobs {
	if interval <= 0 {
		interval = time.Hour
	}
	return &AttendanceJobs{
		auditor:  auditor,
		interval: interval,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{
		Name:     "audit_open_attendance_sessions",
		Interval: j.interval,
		Timeout:  time.Minute,
		Fn:       j.AuditOpenSessions,
	})
}

// AuditOpenSessions only logs. Open sessions from earlier days are left as they are.
func (j *AttendanceJobs) AuditOpenSessions(ctx context.Context) error {
	count, err := j.auditor.AuditOpenSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to audit open sessions: %w", err)
	}

	if count == 0 {
		slog.Debug("Cron: No open attendances from earlier days")
		return nil
	}

	slog.Info("Cron: Open attendances from earlier days", "count", count)
	return nil
}
