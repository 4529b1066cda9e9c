package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/cmlabs-hris/hrm-payroll/internal/domain/payroll"
	"golang.org/x/sync/singleflight"
)

// sharedGenerationTimeout bounds a generation that outlives its callers.
const sharedGenerationTimeout = 30 * time.Second

// PayslipGenerator builds monthly payslip histories and keeps the first
// stored history per employee as the durable one.
type PayslipGenerator struct {
	engine *DeductionEngine
	ledger payroll.MonthlyLedger
	cache  payroll.PayslipHistoryCache
	sf     singleflight.Group
	now    func() time.Time
}

type GeneratorOption func(*PayslipGenerator)

// WithClock overrides the clock that decides the current month.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *PayslipGenerator) {
		g.now = now
	}
}

func NewPayslipGenerator(
	engine *DeductionEngine,
	ledger payroll.MonthlyLedger,
	cache payroll.PayslipHistoryCache,
	opts ...GeneratorOption,
) *PayslipGenerator {
	g := &PayslipGenerator{
		engine: engine,
		ledger: ledger,
		cache:  cache,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateHistory returns monthCount records, most recent month first.
// It does not touch the cache.
func (g *PayslipGenerator) GenerateHistory(ctx context.Context, emp payroll.EmployeeCompensation, dependentCount, monthCount int) ([]payroll.PayslipRecord, error) {
	if monthCount <= 0 {
		return nil, payroll.ErrInvalidMonthCount
	}

	months := recentMonths(g.now(), monthCount)
	entries, err := g.ledger.Entries(ctx, emp, months)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger entries: %w", err)
	}
	if len(entries) != len(months) {
		return nil, fmt.Errorf("%w: got %d entries for %d months", payroll.ErrLedgerEntriesUnavailable, len(entries), len(months))
	}

	records := make([]payroll.PayslipRecord, len(entries))
	for i, entry := range entries {
		in := payroll.NewCompensationInput(emp.BaseSalary, entry.Bonus, entry.Penalty, dependentCount)
		records[i] = payroll.PayslipRecord{
			EmployeeID:         emp.EmployeeID,
			Month:              payroll.MonthKey(months[i]),
			BaseSalary:         in.BaseSalary,
			Bonus:              in.Bonus,
			Deduction:          in.Penalty,
			DependentCount:     in.DependentCount,
			WorkingDays:        entry.WorkingDays,
			DeductionBreakdown: g.engine.Compute(in),
		}
	}
	return records, nil
}

// GetOrGenerateHistory returns the cached history when one exists and
// otherwise generates and stores a new one. Overlapping calls for the same
// employee share a single generation.
func (g *PayslipGenerator) GetOrGenerateHistory(ctx context.Context, emp payroll.EmployeeCompensation, dependentCount, monthCount int) ([]payroll.PayslipRecord, error) {
	if cached, ok := g.readCache(ctx, emp.EmployeeID); ok {
		return cached, nil
	}

	return g.shared(ctx, emp.EmployeeID, func(ctx context.Context) ([]payroll.PayslipRecord, error) {
		if cached, ok := g.readCache(ctx, emp.EmployeeID); ok {
			return cached, nil
		}
		return g.generateAndStore(ctx, emp, dependentCount, monthCount)
	})
}

// RegenerateHistory drops the cached history and stores a fresh one.
func (g *PayslipGenerator) RegenerateHistory(ctx context.Context, emp payroll.EmployeeCompensation, dependentCount, monthCount int) ([]payroll.PayslipRecord, error) {
	return g.shared(ctx, "regenerate:"+emp.EmployeeID, func(ctx context.Context) ([]payroll.PayslipRecord, error) {
		if err := g.cache.Delete(ctx, emp.EmployeeID); err != nil {
			return nil, fmt.Errorf("failed to drop cached payslip history: %w", err)
		}
		return g.generateAndStore(ctx, emp, dependentCount, monthCount)
	})
}

// shared runs fn once per key for all overlapping callers. fn gets a context
// detached from the caller that started it, so one caller giving up does not
// fail the others; each caller still returns as soon as its own ctx is done.
func (g *PayslipGenerator) shared(ctx context.Context, key string, fn func(context.Context) ([]payroll.PayslipRecord, error)) ([]payroll.PayslipRecord, error) {
	ch := g.sf.DoChan(key, func() (interface{}, error) {
		workCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedGenerationTimeout)
		defer cancel()
		return fn(workCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]payroll.PayslipRecord)), nil
	}
}

func (g *PayslipGenerator) generateAndStore(ctx context.Context, emp payroll.EmployeeCompensation, dependentCount, monthCount int) ([]payroll.PayslipRecord, error) {
	records, err := g.GenerateHistory(ctx, emp, dependentCount, monthCount)
	if err != nil {
		return nil, err
	}

	stored, err := g.cache.SetIfAbsent(ctx, emp.EmployeeID, records)
	if err != nil {
		// The history still renders; the next view retries the write.
		slog.Warn("failed to store payslip history", "employee_id", emp.EmployeeID, "error", err)
		return records, nil
	}
	if !stored {
		if cached, ok := g.readCache(ctx, emp.EmployeeID); ok {
			return cached, nil
		}
	}
	return records, nil
}

func (g *PayslipGenerator) readCache(ctx context.Context, employeeID string) ([]payroll.PayslipRecord, bool) {
	records, err := g.cache.Get(ctx, employeeID)
	if err != nil {
		if !errors.Is(err, payroll.ErrPayslipHistoryNotCached) {
			slog.Warn("payslip history cache read failed", "employee_id", employeeID, "error", err)
		}
		return nil, false
	}
	return records, true
}

// recentMonths returns the first day of the current month and the
// count-1 months before it, most recent first.
func recentMonths(now time.Time, count int) []time.Time {
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	months := make([]time.Time, count)
	for i := range months {
		months[i] = current.AddDate(0, -i, 0)
	}
	return months
}
