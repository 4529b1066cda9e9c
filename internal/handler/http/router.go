package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hrm-payroll/internal/config"
	"github.com/cmlabs-hris/hrm-payroll/internal/domain/user"
	"github.com/cmlabs-hris/hrm-payroll/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrm-payroll/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Payroll   PayrollHandler
	Directory DirectoryHandler
	Dashboard EmployeeDashboardHandler
}

func NewRouter(cfg *config.Config, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.SlogLevel(),
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.With(middleware.RequirePermission(user.PermissionDashboardView)).
				Get("/my-dashboard", h.Dashboard.GetDashboard)

			r.Route("/my-payslips", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionPayslipViewOwn))
				r.Get("/", h.Payroll.GetMyPayslips)
				r.Get("/{month}", h.Payroll.GetMyPayslip)
				r.Get("/{month}/pdf", h.Payroll.DownloadMyPayslipPDF)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionPayrollViewAll))
				r.Get("/report", h.Payroll.GetPayrollReport)
				r.Post("/deductions/preview", h.Payroll.PreviewDeductions)

				r.Route("/employees/{employeeID}/payslips", func(r chi.Router) {
					r.Get("/", h.Payroll.GetEmployeePayslips)
					r.With(middleware.RequirePermission(user.PermissionPayrollRegenerate)).
						Post("/regenerate", h.Payroll.RegenerateEmployeePayslips)
				})
			})

			r.Route("/directory", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionDirectoryView))
				r.Get("/departments", h.Directory.ListDepartments)
				r.Get("/positions", h.Directory.ListPositions)
			})
		})
	})
	return r
}
