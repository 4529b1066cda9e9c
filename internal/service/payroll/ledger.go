package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrm-payroll/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

const demoWorkingDays = 22

var (
	demoEvenMonthBonus = decimal.NewFromInt(200_000)
	demoOddMonthBonus  = decimal.NewFromInt(-100_000)
	demoQuarterPenalty = decimal.NewFromInt(50_000)
)

// DemoLedger fabricates stable month-to-month variation from the seed
// bonus and penalty. It stands in until a real payroll run log exists.
// months[i] is treated as i months before the current month.
type DemoLedger struct{}

func NewDemoLedger() *DemoLedger {
	return &DemoLedger{}
}

func (l *DemoLedger) Entries(_ context.Context, seed payroll.EmployeeCompensation, months []time.Time) ([]payroll.LedgerEntry, error) {
	entries := make([]payroll.LedgerEntry, len(months))
	for i, month := range months {
		bonus := seed.Bonus.Add(demoOddMonthBonus)
		if i%2 == 0 {
			bonus = seed.Bonus.Add(demoEvenMonthBonus)
		}

		penalty := seed.Penalty
		if i%3 == 0 {
			penalty = penalty.Add(demoQuarterPenalty)
		}

		entries[i] = payroll.LedgerEntry{
			Month:       payroll.MonthKey(month),
			Bonus:       decimal.Max(decimal.Zero, bonus),
			Penalty:     payroll.NormalizeAmount(penalty),
			WorkingDays: demoWorkingDays - i%3,
		}
	}
	return entries, nil
}

// RecordedLedger reads bonus, penalty and working days from recorded
// payroll entries. Months without an entry fall back to the seed values
// and the standard working days.
type RecordedLedger struct {
	repo                payroll.LedgerRepository
	standardWorkingDays int
}

func NewRecordedLedger(repo payroll.LedgerRepository, standardWorkingDays int) *RecordedLedger {
	return &RecordedLedger{repo: repo, standardWorkingDays: standardWorkingDays}
}

func (l *RecordedLedger) Entries(ctx context.Context, seed payroll.EmployeeCompensation, months []time.Time) ([]payroll.LedgerEntry, error) {
	keys := make([]string, len(months))
	for i, month := range months {
		keys[i] = payroll.MonthKey(month)
	}

	recorded, err := l.repo.GetEntries(ctx, seed.EmployeeID, keys)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", payroll.ErrLedgerEntriesUnavailable, err)
	}

	entries := make([]payroll.LedgerEntry, len(keys))
	for i, key := range keys {
		entry, ok := recorded[key]
		if !ok {
			entries[i] = payroll.LedgerEntry{
				Month:       key,
				Bonus:       payroll.NormalizeAmount(seed.Bonus),
				Penalty:     payroll.NormalizeAmount(seed.Penalty),
				WorkingDays: l.standardWorkingDays,
			}
			continue
		}

		if entry.WorkingDays <= 0 {
			entry.WorkingDays = l.standardWorkingDays
		}
		entries[i] = payroll.LedgerEntry{
			Month:       key,
			Bonus:       payroll.NormalizeAmount(entry.Bonus),
			Penalty:     payroll.NormalizeAmount(entry.Penalty),
			WorkingDays: entry.WorkingDays,
		}
	}
	return entries, nil
}
