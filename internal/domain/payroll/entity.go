package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CompensationInput is everything the deduction engine needs for one
// employee and one month. Values built through NewCompensationInput or
// CompensationInputFromFloats are already normalized.
type CompensationInput struct {
	BaseSalary     decimal.Decimal `json:"base_salary"`
	Bonus          decimal.Decimal `json:"bonus"`
	Penalty        decimal.Decimal `json:"penalty"`
	DependentCount int             `json:"dependent_count"`
}

func NewCompensationInput(base, bonus, penalty decimal.Decimal, dependentCount int) CompensationInput {
	return CompensationInput{
		BaseSalary:     NormalizeAmount(base),
		Bonus:          NormalizeAmount(bonus),
		Penalty:        NormalizeAmount(penalty),
		DependentCount: max(dependentCount, 0),
	}
}

// CompensationInputFromFloats normalizes untrusted numeric input: NaN,
// infinities and negatives become zero, dependentCount is floored.
func CompensationInputFromFloats(base, bonus, penalty, dependentCount float64) CompensationInput {
	return CompensationInput{
		BaseSalary:     AmountFromFloat(base),
		Bonus:          AmountFromFloat(bonus),
		Penalty:        AmountFromFloat(penalty),
		DependentCount: NormalizeDependentCount(dependentCount),
	}
}

// Normalize re-applies the input invariants to a hand-built value.
func (in CompensationInput) Normalize() CompensationInput {
	return NewCompensationInput(in.BaseSalary, in.Bonus, in.Penalty, in.DependentCount)
}

// Rates are the statutory parameters of one deduction policy.
type Rates struct {
	SocialInsurance       decimal.Decimal
	HealthInsurance       decimal.Decimal
	UnemploymentInsurance decimal.Decimal
	IncomeTax             decimal.Decimal
	FamilyAllowance       decimal.Decimal
	DependentAllowance    decimal.Decimal
}

func DefaultRates() Rates {
	return Rates{
		SocialInsurance:       decimal.New(8, -2),
		HealthInsurance:       decimal.New(15, -3),
		UnemploymentInsurance: decimal.New(1, -2),
		IncomeTax:             decimal.New(5, -2),
		FamilyAllowance:       decimal.NewFromInt(11_000_000),
		DependentAllowance:    decimal.NewFromInt(4_400_000),
	}
}

// DeductionBreakdown is the computed result for one CompensationInput.
type DeductionBreakdown struct {
	SocialInsurance         decimal.Decimal `json:"social_insurance"`
	HealthInsurance         decimal.Decimal `json:"health_insurance"`
	UnemploymentInsurance   decimal.Decimal `json:"unemployment_insurance"`
	InsuranceTotal          decimal.Decimal `json:"insurance_total"`
	FamilyAllowance         decimal.Decimal `json:"family_allowance"`
	DependentDeductionTotal decimal.Decimal `json:"dependent_deduction_total"`
	TaxableIncome           decimal.Decimal `json:"taxable_income"`
	IncomeTax               decimal.Decimal `json:"income_tax"`
	GrossPay                decimal.Decimal `json:"gross_pay"`
	TotalDeductions         decimal.Decimal `json:"total_deductions"`
	NetPay                  decimal.Decimal `json:"net_pay"`
}

// Equal compares every field numerically.
func (b DeductionBreakdown) Equal(o DeductionBreakdown) bool {
	return b.SocialInsurance.Equal(o.SocialInsurance) &&
		b.HealthInsurance.Equal(o.HealthInsurance) &&
		b.UnemploymentInsurance.Equal(o.UnemploymentInsurance) &&
		b.InsuranceTotal.Equal(o.InsuranceTotal) &&
		b.FamilyAllowance.Equal(o.FamilyAllowance) &&
		b.DependentDeductionTotal.Equal(o.DependentDeductionTotal) &&
		b.TaxableIncome.Equal(o.TaxableIncome) &&
		b.IncomeTax.Equal(o.IncomeTax) &&
		b.GrossPay.Equal(o.GrossPay) &&
		b.TotalDeductions.Equal(o.TotalDeductions) &&
		b.NetPay.Equal(o.NetPay)
}

// PayslipRecord is one month's snapshot for one employee. It is computed,
// never edited.
type PayslipRecord struct {
	EmployeeID     string          `json:"employee_id"`
	Month          string          `json:"month"`
	BaseSalary     decimal.Decimal `json:"base_salary"`
	Bonus          decimal.Decimal `json:"bonus"`
	Deduction      decimal.Decimal `json:"deduction"`
	DependentCount int             `json:"dependent_count"`
	WorkingDays    int             `json:"working_days"`
	DeductionBreakdown
}

// Input returns the engine input the record was computed from.
func (r PayslipRecord) Input() CompensationInput {
	return NewCompensationInput(r.BaseSalary, r.Bonus, r.Deduction, r.DependentCount)
}

// EmployeeCompensation is the seed compensation of one employee as held by
// the directory. Bonus and Penalty seed the monthly ledger.
type EmployeeCompensation struct {
	EmployeeID string
	BaseSalary decimal.Decimal
	Bonus      decimal.Decimal
	Penalty    decimal.Decimal
}

// LedgerEntry holds the month-specific part of a payslip.
type LedgerEntry struct {
	Month       string
	Bonus       decimal.Decimal
	Penalty     decimal.Decimal
	WorkingDays int
}

type ResolutionTier string

const (
	ResolutionTierBatch       ResolutionTier = "batch"
	ResolutionTierPerEmployee ResolutionTier = "per_employee"
	ResolutionTierDefault     ResolutionTier = "default"
)

type ResolutionStatus string

const (
	ResolutionStatusComplete ResolutionStatus = "complete"
	ResolutionStatusPartial  ResolutionStatus = "partial"
	ResolutionStatusEmpty    ResolutionStatus = "empty"
)

// DependentResolution reports the dependent count of each requested
// employee and the tier that produced it.
type DependentResolution struct {
	Counts map[string]int
	Tiers  map[string]ResolutionTier
	Status ResolutionStatus
}

// Count returns 0 for ids that were never requested.
func (r DependentResolution) Count(employeeID string) int {
	return r.Counts[employeeID]
}

func (r DependentResolution) Tier(employeeID string) ResolutionTier {
	if tier, ok := r.Tiers[employeeID]; ok {
		return tier
	}
	return ResolutionTierDefault
}

// MonthKey formats t as YYYY-MM.
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%d-%02d", t.Year(), int(t.Month()))
}

// ParseMonthKey parses a YYYY-MM key into the first day of that month, UTC.
func ParseMonthKey(key string) (time.Time, error) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return time.Time{}, ErrInvalidMonth
	}
	return t, nil
}

// IsValidHistory reports whether records form a usable cached history:
// non-empty, well-formed month keys, strictly decreasing.
func IsValidHistory(records []PayslipRecord) bool {
	if len(records) == 0 {
		return false
	}
	var prev time.Time
	for i, r := range records {
		if r.EmployeeID == "" {
			return false
		}
		month, err := ParseMonthKey(r.Month)
		if err != nil {
			return false
		}
		if i > 0 && !month.Before(prev) {
			return false
		}
		prev = month
	}
	return true
}
