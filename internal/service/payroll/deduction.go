package payroll

import (
	"github.com/cmlabs-hris/hrm-payroll/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// DeductionEngine maps a CompensationInput to its DeductionBreakdown.
// It holds no mutable state and is safe for concurrent use.
type DeductionEngine struct {
	rates payroll.Rates
}

func NewDeductionEngine(rates payroll.Rates) *DeductionEngine {
	return &DeductionEngine{rates: payroll.Rates{
		SocialInsurance:       payroll.NormalizeAmount(rates.SocialInsurance),
		HealthInsurance:       payroll.NormalizeAmount(rates.HealthInsurance),
		UnemploymentInsurance: payroll.NormalizeAmount(rates.UnemploymentInsurance),
		IncomeTax:             payroll.NormalizeAmount(rates.IncomeTax),
		FamilyAllowance:       payroll.NormalizeAmount(rates.FamilyAllowance),
		DependentAllowance:    payroll.NormalizeAmount(rates.DependentAllowance),
	}}
}

func (e *DeductionEngine) Rates() payroll.Rates {
	return e.rates
}

// Compute never fails. Only the three insurance components and the income
// tax are rounded; net pay is not clamped.
func (e *DeductionEngine) Compute(in payroll.CompensationInput) payroll.DeductionBreakdown {
	in = in.Normalize()

	social := roundCurrency(in.BaseSalary.Mul(e.rates.SocialInsurance))
	health := roundCurrency(in.BaseSalary.Mul(e.rates.HealthInsurance))
	unemployment := roundCurrency(in.BaseSalary.Mul(e.rates.UnemploymentInsurance))
	insuranceTotal := social.Add(health).Add(unemployment)

	dependentTotal := e.rates.DependentAllowance.Mul(decimal.NewFromInt(int64(in.DependentCount)))
	grossPay := in.BaseSalary.Add(in.Bonus)

	taxable := grossPay.Sub(insuranceTotal).Sub(e.rates.FamilyAllowance).Sub(dependentTotal)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	incomeTax := roundCurrency(taxable.Mul(e.rates.IncomeTax))

	totalDeductions := in.Penalty.Add(insuranceTotal).Add(incomeTax)

	return payroll.DeductionBreakdown{
		SocialInsurance:         social,
		HealthInsurance:         health,
		UnemploymentInsurance:   unemployment,
		InsuranceTotal:          insuranceTotal,
		FamilyAllowance:         e.rates.FamilyAllowance,
		DependentDeductionTotal: dependentTotal,
		TaxableIncome:           taxable,
		IncomeTax:               incomeTax,
		GrossPay:                grossPay,
		TotalDeductions:         totalDeductions,
		NetPay:                  grossPay.Sub(totalDeductions),
	}
}

// roundCurrency rounds half up to whole currency units. Inputs here are
// never negative, so decimal's half-away-from-zero is half-up.
func roundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

var defaultEngine = NewDeductionEngine(payroll.DefaultRates())

// ComputeDeductionBreakdown computes with the default statutory rates.
func ComputeDeductionBreakdown(in payroll.CompensationInput) payroll.DeductionBreakdown {
	return defaultEngine.Compute(in)
}
