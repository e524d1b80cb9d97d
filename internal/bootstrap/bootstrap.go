package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/config"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrms-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/hrms-backend-go/internal/repository/postgresql"
	"github.com/go-chi/httplog/v3"
	"github.com/redis/go-redis/v9"
)

const (
	AppName    = "hrms"
	AppVersion = "v1.0.0"
)

// NewLogger builds the JSON logger shared by the server and the request log.
func NewLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", AppName),
		slog.String("version", AppVersion),
		slog.String("env", cfg.App.Env),
	)
}

type Stores struct {
	DB         *database.DB
	Employees  employee.EmployeeRepository
	Attendance attendance.AttendanceRepository
}

// OpenStores connects the configured storage driver. The memory driver keeps
// everything in process and loses it on exit.
func OpenStores(cfg *config.Config, loc *time.Location) (*Stores, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		employees := memory.NewEmployeeRepository()
		slog.Warn("Using in-memory storage, data is not persisted")
		return &Stores{
			Employees:  employees,
			Attendance: memory.NewAttendanceRepository(employees),
		}, nil

	case config.StorageDriverPostgres:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolConfig{ConnectTimeout: 10 * time.Second})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return &Stores{
			DB:         db,
			Employees:  postgresql.NewEmployeeRepository(db),
			Attendance: postgresql.NewAttendanceRepository(db, loc),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}

func (s *Stores) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
}

// ConnectRedis returns nil when no address is configured.
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if !cfg.RedisEnabled() {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}
	return rdb, nil
}
