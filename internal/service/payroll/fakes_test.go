package payroll

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/hrm-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-payroll/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var errBackendDown = errors.New("backend down")

func fixedClock() time.Time {
	return time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
	err       error
}

func (f *fakeEmployeeRepo) GetAll(ctx context.Context) ([]employee.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.employees, nil
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if f.err != nil {
		return employee.Employee{}, f.err
	}
	for _, emp := range f.employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) ListDepartments(ctx context.Context) ([]employee.Department, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) ListPositions(ctx context.Context) ([]employee.Position, error) {
	return nil, nil
}

type fakeProfileRepo struct {
	mu         sync.Mutex
	profiles   map[string]employee.Profile
	batchErr   error
	failing    map[string]bool
	batchCalls int
	singleIDs  []string
}

func newFakeProfileRepo(dependents map[string]int) *fakeProfileRepo {
	profiles := make(map[string]employee.Profile, len(dependents))
	for id, n := range dependents {
		profiles[id] = employee.Profile{EmployeeID: id, Dependents: make([]employee.Dependent, n)}
	}
	return &fakeProfileRepo{profiles: profiles, failing: map[string]bool{}}
}

func (f *fakeProfileRepo) GetByEmployeeIDs(ctx context.Context, ids []string) (map[string]employee.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls++
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	out := make(map[string]employee.Profile)
	for _, id := range ids {
		if p, ok := f.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeProfileRepo) GetByEmployeeID(ctx context.Context, id string) (employee.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.singleIDs = append(f.singleIDs, id)
	if f.failing[id] {
		return employee.Profile{}, errBackendDown
	}
	p, ok := f.profiles[id]
	if !ok {
		return employee.Profile{}, employee.ErrProfileNotFound
	}
	return p, nil
}

// countingLedger wraps a ledger and counts Entries calls.
type countingLedger struct {
	inner payroll.MonthlyLedger
	calls atomic.Int64
	delay time.Duration
}

func (l *countingLedger) Entries(ctx context.Context, seed payroll.EmployeeCompensation, months []time.Time) ([]payroll.LedgerEntry, error) {
	l.calls.Add(1)
	if l.delay > 0 {
		time.Sleep(l.delay)
	}
	return l.inner.Entries(ctx, seed, months)
}

type fakeLedgerRepo struct {
	entries map[string]payroll.LedgerEntry
	err     error
}

func (f *fakeLedgerRepo) GetEntries(ctx context.Context, employeeID string, months []string) (map[string]payroll.LedgerEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

// stubCache lets tests script cache behavior directly.
type stubCache struct {
	getRecords []payroll.PayslipRecord
	getErr     error
	setStored  bool
	setErr     error
	setCalls   int
}

func (c *stubCache) Get(ctx context.Context, employeeID string) ([]payroll.PayslipRecord, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	if c.getRecords == nil {
		return nil, payroll.ErrPayslipHistoryNotCached
	}
	return c.getRecords, nil
}

func (c *stubCache) SetIfAbsent(ctx context.Context, employeeID string, records []payroll.PayslipRecord) (bool, error) {
	c.setCalls++
	return c.setStored, c.setErr
}

func (c *stubCache) Delete(ctx context.Context, employeeID string) error {
	return nil
}
