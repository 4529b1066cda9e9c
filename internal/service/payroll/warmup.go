package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/cmlabs-hris/hrm-payroll/internal/domain/employee"
	"golang.org/x/sync/errgroup"
)

// PayslipWarmup pre-generates missing payslip histories for the whole
// directory. Histories already cached are left untouched.
type PayslipWarmup struct {
	employeeRepo employee.EmployeeRepository
	resolver     *DependentResolver
	generator    *PayslipGenerator
	monthCount   int
	concurrency  int
}

func NewPayslipWarmup(
	employeeRepo employee.EmployeeRepository,
	resolver *DependentResolver,
	generator *PayslipGenerator,
	monthCount int,
	concurrency int,
) *PayslipWarmup {
	return &PayslipWarmup{
		employeeRepo: employeeRepo,
		resolver:     resolver,
		generator:    generator,
		monthCount:   monthCount,
		concurrency:  max(concurrency, 1),
	}
}

// Run matches the cron job signature.
func (w *PayslipWarmup) Run(ctx context.Context) error {
	employees, err := w.employeeRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load employee directory: %w", err)
	}
	if len(employees) == 0 {
		return nil
	}

	ids := make([]string, len(employees))
	for i, emp := range employees {
		ids[i] = emp.ID
	}
	resolution := w.resolver.Resolve(ctx, ids)

	var failed atomic.Int64
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for _, emp := range employees {
		g.Go(func() error {
			_, err := w.generator.GetOrGenerateHistory(gCtx, compensationOf(emp), resolution.Count(emp.ID), w.monthCount)
			if err != nil {
				failed.Add(1)
				slog.Warn("payslip warmup failed", "employee_id", emp.ID, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	slog.Info("payslip warmup finished",
		"employee_count", len(employees),
		"failed", failed.Load(),
		"dependents_status", resolution.Status,
	)
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d payslip histories failed to generate", n, len(employees))
	}
	return nil
}
