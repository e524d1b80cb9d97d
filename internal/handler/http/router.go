package http

import (
	"log/slog"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/time/rate"
)

type RouterConfig struct {
	Logger          *slog.Logger
	AllowedOrigins  []string
	LoginRateLimit  rate.Limit
	LoginBurst      int
	RequestLogLevel slog.Level
}

func NewRouter(
	cfg RouterConfig,
	JWTService jwt.Service,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	reportHandler ReportHandler,
	employeeHandler EmployeeHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.RequestLogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	loginLimit := cfg.LoginRateLimit
	if loginLimit <= 0 {
		loginLimit = 1
	}
	loginBurst := cfg.LoginBurst
	if loginBurst <= 0 {
		loginBurst = 5
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/google", authHandler.OAuthCallbackGoogle)
			})

			r.Route("/login", func(r chi.Router) {
				r.With(middleware.RateLimitByIP(loginLimit, loginBurst)).Post("/", authHandler.Login)
				r.Route("/oauth", func(r chi.Router) {
					r.Get("/google", authHandler.LoginWithGoogle)
				})
			})
		})

		// Authenticated with a short-lived stream token in the query string
		r.Get("/attendance/stream", attendanceHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Get("/auth/me", authHandler.Me)
			r.Post("/auth/logout", authHandler.Logout)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Get("/today", attendanceHandler.GetToday)

				// Admin and manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRoles(employee.RoleAdmin, employee.RoleManager))
					r.Get("/report", reportHandler.GetAttendanceReport)
					r.Get("/report/export", reportHandler.ExportAttendanceReport)
					r.Get("/daily-report/{date}", reportHandler.GetDailyReport)
					r.Put("/leave", attendanceHandler.MarkOnLeave)
					r.Get("/stream/token", attendanceHandler.GetStreamToken)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.With(middleware.RequireRoles(employee.RoleAdmin)).Post("/", employeeHandler.CreateEmployee)
				r.With(middleware.RequireRoles(employee.RoleAdmin, employee.RoleManager)).Get("/", employeeHandler.ListEmployees)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", employeeHandler.GetEmployee)
					r.With(middleware.RequireRoles(employee.RoleAdmin, employee.RoleManager)).Put("/", employeeHandler.UpdateEmployee)
					r.With(middleware.RequireRoles(employee.RoleAdmin)).Delete("/", employeeHandler.DeleteEmployee)
				})
			})
		})
	})
	return r
}
