package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/cmlabs-hris/hrm-payroll/internal/domain/payroll"
)

type payslipHistoryCacheImpl struct {
	mu      sync.Mutex
	entries map[string][]payroll.PayslipRecord
}

// NewPayslipHistoryCache returns a process-local cache. Each instance
// starts empty.
func NewPayslipHistoryCache() payroll.PayslipHistoryCache {
	return &payslipHistoryCacheImpl{entries: make(map[string][]payroll.PayslipRecord)}
}

func (c *payslipHistoryCacheImpl) Get(ctx context.Context, employeeID string) ([]payroll.PayslipRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, ok := c.entries[employeeID]
	if !ok {
		return nil, payroll.ErrPayslipHistoryNotCached
	}
	if !payroll.IsValidHistory(records) {
		delete(c.entries, employeeID)
		return nil, payroll.ErrPayslipHistoryNotCached
	}
	return slices.Clone(records), nil
}

func (c *payslipHistoryCacheImpl) SetIfAbsent(ctx context.Context, employeeID string, records []payroll.PayslipRecord) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[employeeID]; ok && payroll.IsValidHistory(existing) {
		return false, nil
	}
	c.entries[employeeID] = slices.Clone(records)
	return true, nil
}

func (c *payslipHistoryCacheImpl) Delete(ctx context.Context, employeeID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, employeeID)
	return nil
}
