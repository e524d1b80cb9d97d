package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/report"
	"github.com/redis/go-redis/v9"
)

const (
	dailyReportPrefix = "hrms:report:daily:"
	dayGenPrefix      = "hrms:report:gen:day:"
	rosterGenKey      = "hrms:report:gen:roster"
)

func DailyReportKey(date string) string {
	return dailyReportPrefix + date
}

func dayGenKey(date string) string {
	return dayGenPrefix + date
}

// DailyReportCache stores daily reports as JSON in Redis. It also listens to
// attendance events and roster changes and bumps the generation counters a
// stored report is checked against.
//
// A report's version is "<day generation>.<roster generation>". Generation
// keys never expire; there is one per day that saw a change.
type DailyReportCache struct {
	rdb *redis.Client
	ttl time.Duration
}

var (
	_ report.DailyReportCache   = (*DailyReportCache)(nil)
	_ attendance.EventPublisher = (*DailyReportCache)(nil)
	_ employee.RosterListener   = (*DailyReportCache)(nil)
)

type storedReport struct {
	Version string             `json:"version"`
	Report  report.DailyReport `json:"report"`
}

func NewDailyReportCache(rdb *redis.Client, ttl time.Duration) *DailyReportCache {
	return &DailyReportCache{rdb: rdb, ttl: ttl}
}

func generation(v interface{}) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return "0"
}

func (c *DailyReportCache) Version(ctx context.Context, day time.Time) (string, error) {
	date := day.Format(attendance.DateLayout)
	vals, err := c.rdb.MGet(ctx, dayGenKey(date), rosterGenKey).Result()
	if err != nil {
		return "", fmt.Errorf("failed to read daily report version: %w", err)
	}
	return generation(vals[0]) + "." + generation(vals[1]), nil
}

func (c *DailyReportCache) Get(ctx context.Context, day time.Time) (report.DailyReport, error) {
	date := day.Format(attendance.DateLayout)
	vals, err := c.rdb.MGet(ctx, DailyReportKey(date), dayGenKey(date), rosterGenKey).Result()
	if err != nil {
		return report.DailyReport{}, fmt.Errorf("failed to read daily report cache: %w", err)
	}

	raw, ok := vals[0].(string)
	if !ok {
		return report.DailyReport{}, report.ErrCacheMiss
	}

	var stored storedReport
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return report.DailyReport{}, report.ErrCacheMiss
	}
	if stored.Version != generation(vals[1])+"."+generation(vals[2]) {
		return report.DailyReport{}, report.ErrCacheMiss
	}
	return stored.Report, nil
}

func (c *DailyReportCache) Set(ctx context.Context, day time.Time, version string, daily report.DailyReport) error {
	payload, err := json.Marshal(storedReport{Version: version, Report: daily})
	if err != nil {
		return fmt.Errorf("failed to encode daily report: %w", err)
	}
	return c.rdb.Set(ctx, DailyReportKey(day.Format(attendance.DateLayout)), payload, c.ttl).Err()
}

func (c *DailyReportCache) Invalidate(ctx context.Context, day time.Time) error {
	return c.invalidate(ctx, day.Format(attendance.DateLayout))
}

func (c *DailyReportCache) invalidate(ctx context.Context, date string) error {
	if err := c.rdb.Incr(ctx, dayGenKey(date)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate daily report %s: %w", date, err)
	}
	if err := c.rdb.Del(ctx, DailyReportKey(date)).Err(); err != nil {
		return fmt.Errorf("failed to drop daily report %s: %w", date, err)
	}
	return nil
}

func (c *DailyReportCache) InvalidateAll(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, rosterGenKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate daily reports: %w", err)
	}
	return nil
}

// Publish implements attendance.EventPublisher.
func (c *DailyReportCache) Publish(ctx context.Context, event attendance.Event) error {
	return c.invalidate(ctx, event.Date)
}

// RosterChanged implements employee.RosterListener. Headcount and the joined
// employee fields of every day may have changed.
func (c *DailyReportCache) RosterChanged(ctx context.Context) error {
	return c.InvalidateAll(ctx)
}
