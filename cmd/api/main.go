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

	"github.com/cmlabs-hris/hrm-payroll/internal/config"
	"github.com/cmlabs-hris/hrm-payroll/internal/domain/payroll"
	appHTTP "github.com/cmlabs-hris/hrm-payroll/internal/handler/http"
	"github.com/cmlabs-hris/hrm-payroll/internal/pkg/cron"
	"github.com/cmlabs-hris/hrm-payroll/internal/pkg/database"
	"github.com/cmlabs-hris/hrm-payroll/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrm-payroll/internal/repository/memory"
	"github.com/cmlabs-hris/hrm-payroll/internal/repository/postgresql"
	redisRepo "github.com/cmlabs-hris/hrm-payroll/internal/repository/redis"
	employeeService "github.com/cmlabs-hris/hrm-payroll/internal/service/employee"
	employeeDashboardService "github.com/cmlabs-hris/hrm-payroll/internal/service/employee_dashboard"
	payrollService "github.com/cmlabs-hris/hrm-payroll/internal/service/payroll"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).With(
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
	))

	for _, warning := range cfg.Warnings() {
		slog.Warn(warning)
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	profileRepo := postgresql.NewProfileRepository(db)

	var ledger payroll.MonthlyLedger
	switch cfg.Payroll.LedgerMode {
	case config.LedgerModeRecorded:
		ledger = payrollService.NewRecordedLedger(postgresql.NewPayrollLedgerRepository(db), cfg.Payroll.StandardWorkingDays)
	default:
		ledger = payrollService.NewDemoLedger()
	}

	var historyCache payroll.PayslipHistoryCache
	switch cfg.Payroll.CacheBackend {
	case config.CacheBackendRedis:
		rdb, err := connectRedis(context.Background(), cfg)
		if err != nil {
			slog.Error("Failed to connect to redis", "error", err)
			return
		}
		defer rdb.Close()
		historyCache = redisRepo.NewPayslipHistoryCache(rdb, cfg.Payroll.CacheTTL)
	default:
		historyCache = memory.NewPayslipHistoryCache()
	}

	engine := payrollService.NewDeductionEngine(payroll.Rates{
		SocialInsurance:       cfg.Payroll.SocialInsuranceRate,
		HealthInsurance:       cfg.Payroll.HealthInsuranceRate,
		UnemploymentInsurance: cfg.Payroll.UnemploymentInsuranceRate,
		IncomeTax:             cfg.Payroll.IncomeTaxRate,
		FamilyAllowance:       cfg.Payroll.FamilyAllowance,
		DependentAllowance:    cfg.Payroll.DependentAllowance,
	})
	generator := payrollService.NewPayslipGenerator(engine, ledger, historyCache)
	resolver := payrollService.NewDependentResolver(profileRepo)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	payrollSvc := payrollService.NewPayrollService(employeeRepo, resolver, engine, generator, cfg.Payroll.HistoryMonths)
	directorySvc := employeeService.NewDirectoryService(employeeRepo)
	empDashboardSvc := employeeDashboardService.NewEmployeeDashboardService(employeeRepo, profileRepo, payrollSvc)

	router := appHTTP.NewRouter(cfg, JWTService, appHTTP.Handlers{
		Payroll:   appHTTP.NewPayrollHandler(payrollSvc),
		Directory: appHTTP.NewDirectoryHandler(directorySvc),
		Dashboard: appHTTP.NewEmployeeDashboardHandler(empDashboardSvc),
	})

	warmup := payrollService.NewPayslipWarmup(employeeRepo, resolver, generator, cfg.Payroll.HistoryMonths, cfg.Payroll.WarmupConcurrency)
	scheduler := cron.NewScheduler()
	scheduler.AddJob(cron.Job{
		Name:     "payslip-warmup",
		Interval: cfg.Payroll.WarmupInterval,
		Timeout:  cfg.Payroll.WarmupInterval,
		Fn:       warmup.Run,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	scheduler.Start(ctx)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "ledger_mode", cfg.Payroll.LedgerMode, "cache_backend", cfg.Payroll.CacheBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	} else {
		slog.Info("Server exited gracefully")
	}
	scheduler.Stop()
}

// connectRedis returns a client that answered a ping. The client is closed
// when the ping fails.
func connectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.RedisAddr(), err)
	}
	return rdb, nil
}
