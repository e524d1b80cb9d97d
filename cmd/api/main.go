package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/hrms-backend-go/internal/bootstrap"
	"github.com/cmlabs-hris/hrms-backend-go/internal/config"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/report"
	appHTTP "github.com/cmlabs-hris/hrms-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/sse"
	attendanceService "github.com/cmlabs-hris/hrms-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/hrms-backend-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/hrms-backend-go/internal/service/employee"
	reportService "github.com/cmlabs-hris/hrms-backend-go/internal/service/report"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := bootstrap.NewLogger(os.Stdout, cfg)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	clk := clock.New(loc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.OpenStores(cfg, loc)
	if err != nil {
		return err
	}
	defer stores.Close()

	hub := sse.NewHub()
	publishers := events.Fanout{events.NewHubPublisher(hub)}

	var (
		reportCache    report.DailyReportCache
		rosterListener employee.RosterListener
	)
	rdb, err := bootstrap.ConnectRedis(ctx, cfg)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		dailyCache := cache.NewDailyReportCache(rdb, cfg.Redis.ReportCacheTTL)
		reportCache = dailyCache
		rosterListener = dailyCache
		publishers = append(publishers, dailyCache)
		slog.Info("Daily report cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.ReportCacheTTL)
	}

	if cfg.KafkaEnabled() {
		writer := events.NewKafkaWriter(cfg.Kafka.Brokers)
		defer writer.Close()
		publishers = append(publishers, events.NewKafkaPublisher(writer, cfg.Kafka.AttendanceTopic, cfg.Kafka.PublishTimeout))
		slog.Info("Kafka attendance events enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.AttendanceTopic)
	}

	var publisher attendance.EventPublisher = publishers

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	var googleService oauth.GoogleService
	if cfg.GoogleEnabled() {
		googleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	}

	attendanceSvc := attendanceService.NewAttendanceService(stores.Attendance, clk, publisher)
	reportSvc := reportService.NewReportService(stores.Attendance, stores.Employees, clk, reportCache)
	employeeSvc := employeeService.NewEmployeeService(stores.Employees, clk, cfg.Security.BcryptCost, rosterListener)
	authSvc := serviceAuth.NewAuthService(stores.Employees, JWTService, googleService)

	authHandler := appHTTP.NewAuthHandler(authSvc, googleService, cfg.App.FrontendURL)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, JWTService, hub)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Logger:          logger,
			AllowedOrigins:  cfg.App.CORSAllowedOrigins,
			LoginRateLimit:  rate.Limit(cfg.Security.LoginRateLimit),
			LoginBurst:      cfg.Security.LoginRateBurst,
			RequestLogLevel: cfg.SlogLevel(),
		},
		JWTService,
		authHandler,
		attendanceHandler,
		reportHandler,
		employeeHandler,
	)

	scheduler := cron.NewScheduler(logger)
	cron.NewAttendanceJobs(attendanceSvc, cfg.Cron.OpenSessionAuditInterval).RegisterJobs(scheduler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	server.RegisterOnShutdown(hub.Close)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.Storage.Driver, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		scheduler.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Forced shutdown", "error", err)
			return err
		}
		slog.Info("Server exited gracefully")
		return nil
	})

	return g.Wait()
}
