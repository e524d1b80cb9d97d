package report

import (
	"context"
	"time"
)

// DailyReportCache keeps computed daily reports keyed by calendar day.
//
// Version identifies the current state of a day and must be read before the
// report is built. Set stores the report under that version, and Get returns
// ErrCacheMiss for anything stored under an older one, so a report built from
// data that changed mid-build is never served.
type DailyReportCache interface {
	Version(ctx context.Context, day time.Time) (string, error)
	Get(ctx context.Context, day time.Time) (DailyReport, error)
	Set(ctx context.Context, day time.Time, version string, report DailyReport) error

	// Invalidate drops the report of one day.
	Invalidate(ctx context.Context, day time.Time) error
	// InvalidateAll drops every stored report; the active roster changed.
	InvalidateAll(ctx context.Context) error
}
