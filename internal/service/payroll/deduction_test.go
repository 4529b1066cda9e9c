package payroll

import (
	"math"
	"testing"

	"github.com/cmlabs-hris/hrm-payroll/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func assertAmount(t *testing.T, want int64, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "%s: want %d, got %s", field, want, got.String())
}

func TestComputeDeductionBreakdown_BaseBelowAllowance(t *testing.T) {
	t.Parallel()

	// Arrange
	in := payroll.NewCompensationInput(dec(10_000_000), decimal.Zero, decimal.Zero, 0)

	// Act
	b := ComputeDeductionBreakdown(in)

	// Assert
	assertAmount(t, 800_000, b.SocialInsurance, "social")
	assertAmount(t, 150_000, b.HealthInsurance, "health")
	assertAmount(t, 100_000, b.UnemploymentInsurance, "unemployment")
	assertAmount(t, 1_050_000, b.InsuranceTotal, "insurance total")
	assertAmount(t, 0, b.DependentDeductionTotal, "dependents")
	assertAmount(t, 0, b.TaxableIncome, "taxable")
	assertAmount(t, 0, b.IncomeTax, "tax")
	assertAmount(t, 10_000_000, b.GrossPay, "gross")
	assertAmount(t, 1_050_000, b.TotalDeductions, "total deductions")
	assertAmount(t, 8_950_000, b.NetPay, "net")
}

func TestComputeDeductionBreakdown_WithBonusPenaltyAndDependent(t *testing.T) {
	t.Parallel()

	in := payroll.NewCompensationInput(dec(30_000_000), dec(2_000_000), dec(100_000), 1)

	b := ComputeDeductionBreakdown(in)

	assertAmount(t, 2_400_000, b.SocialInsurance, "social")
	assertAmount(t, 450_000, b.HealthInsurance, "health")
	assertAmount(t, 300_000, b.UnemploymentInsurance, "unemployment")
	assertAmount(t, 3_150_000, b.InsuranceTotal, "insurance total")
	assertAmount(t, 11_000_000, b.FamilyAllowance, "family allowance")
	assertAmount(t, 4_400_000, b.DependentDeductionTotal, "dependents")
	assertAmount(t, 13_450_000, b.TaxableIncome, "taxable")
	assertAmount(t, 672_500, b.IncomeTax, "tax")
	assertAmount(t, 32_000_000, b.GrossPay, "gross")
	assertAmount(t, 3_922_500, b.TotalDeductions, "total deductions")
	assertAmount(t, 28_077_500, b.NetPay, "net")
}

func TestComputeDeductionBreakdown_ZeroBase(t *testing.T) {
	t.Parallel()

	in := payroll.NewCompensationInput(decimal.Zero, dec(300_000), dec(500_000), 2)

	b := ComputeDeductionBreakdown(in)

	assertAmount(t, 0, b.InsuranceTotal, "insurance total")
	assertAmount(t, 0, b.TaxableIncome, "taxable")
	assertAmount(t, 0, b.IncomeTax, "tax")
	// Net pay is not clamped.
	assertAmount(t, -200_000, b.NetPay, "net")
}

func TestComputeDeductionBreakdown_RoundsHalfUp(t *testing.T) {
	t.Parallel()

	// 1.5% of 100 = 1.5 -> 2; 8% of 100 = 8; 1% of 100 = 1
	in := payroll.NewCompensationInput(dec(100), decimal.Zero, decimal.Zero, 0)

	b := ComputeDeductionBreakdown(in)

	assertAmount(t, 8, b.SocialInsurance, "social")
	assertAmount(t, 2, b.HealthInsurance, "health")
	assertAmount(t, 1, b.UnemploymentInsurance, "unemployment")
}

func TestComputeDeductionBreakdown_Identities(t *testing.T) {
	t.Parallel()

	inputs := []payroll.CompensationInput{
		payroll.NewCompensationInput(dec(5_000_000), dec(1_000_000), dec(0), 0),
		payroll.NewCompensationInput(dec(25_000_000), dec(0), dec(250_000), 3),
		payroll.NewCompensationInput(dec(75_500_333), dec(12_345_678), dec(9_999), 1),
		payroll.NewCompensationInput(dec(1_000), dec(0), dec(50_000_000), 0),
	}

	for _, in := range inputs {
		b := ComputeDeductionBreakdown(in)

		assert.True(t, b.GrossPay.Equal(in.BaseSalary.Add(in.Bonus)))
		assert.True(t, b.TotalDeductions.Equal(in.Penalty.Add(b.InsuranceTotal).Add(b.IncomeTax)))
		assert.True(t, b.NetPay.Equal(b.GrossPay.Sub(b.TotalDeductions)))
		assert.True(t, b.InsuranceTotal.Equal(b.SocialInsurance.Add(b.HealthInsurance).Add(b.UnemploymentInsurance)))
		assert.False(t, b.TaxableIncome.IsNegative())
	}
}

func TestComputeDeductionBreakdown_Idempotent(t *testing.T) {
	t.Parallel()

	in := payroll.NewCompensationInput(dec(42_424_242), dec(1_234_567), dec(89_000), 2)

	assert.Equal(t, ComputeDeductionBreakdown(in), ComputeDeductionBreakdown(in))
}

func TestComputeDeductionBreakdown_MoreDependentsNeverRaiseTax(t *testing.T) {
	t.Parallel()

	for _, base := range []int64{0, 8_000_000, 20_000_000, 60_000_000, 250_000_000} {
		prev := ComputeDeductionBreakdown(payroll.NewCompensationInput(dec(base), dec(1_000_000), decimal.Zero, 0))
		for n := 1; n <= 6; n++ {
			next := ComputeDeductionBreakdown(payroll.NewCompensationInput(dec(base), dec(1_000_000), decimal.Zero, n))
			assert.Truef(t, next.IncomeTax.LessThanOrEqual(prev.IncomeTax), "base %d, dependents %d", base, n)
			prev = next
		}
	}
}

func TestComputeDeductionBreakdown_NormalizesDirtyInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   payroll.CompensationInput
		want payroll.CompensationInput
	}{
		{
			name: "non-finite floats",
			in:   payroll.CompensationInputFromFloats(math.NaN(), math.Inf(1), math.Inf(-1), math.NaN()),
			want: payroll.NewCompensationInput(decimal.Zero, decimal.Zero, decimal.Zero, 0),
		},
		{
			name: "negatives",
			in:   payroll.CompensationInputFromFloats(-1, -2, -3, -4),
			want: payroll.NewCompensationInput(decimal.Zero, decimal.Zero, decimal.Zero, 0),
		},
		{
			name: "fractional dependents are floored",
			in:   payroll.CompensationInputFromFloats(10_000_000, 0, 0, 2.9),
			want: payroll.NewCompensationInput(dec(10_000_000), decimal.Zero, decimal.Zero, 2),
		},
		{
			name: "hand-built negative input",
			in:   payroll.CompensationInput{BaseSalary: dec(-5), Bonus: dec(10), DependentCount: -1},
			want: payroll.NewCompensationInput(decimal.Zero, dec(10), decimal.Zero, 0),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeDeductionBreakdown(tc.in)
			want := ComputeDeductionBreakdown(tc.want)
			assert.True(t, want.Equal(got))
		})
	}
}

func TestDeductionEngine_CustomRates(t *testing.T) {
	t.Parallel()

	rates := payroll.DefaultRates()
	rates.IncomeTax = decimal.RequireFromString("0.10")
	rates.FamilyAllowance = decimal.Zero
	engine := NewDeductionEngine(rates)

	b := engine.Compute(payroll.NewCompensationInput(dec(10_000_000), decimal.Zero, decimal.Zero, 0))

	assertAmount(t, 8_950_000, b.TaxableIncome, "taxable")
	assertAmount(t, 895_000, b.IncomeTax, "tax")
}

func TestDeductionEngine_NegativeRatesClampedToZero(t *testing.T) {
	t.Parallel()

	rates := payroll.DefaultRates()
	rates.SocialInsurance = decimal.RequireFromString("-0.08")
	engine := NewDeductionEngine(rates)

	b := engine.Compute(payroll.NewCompensationInput(dec(10_000_000), decimal.Zero, decimal.Zero, 0))

	assertAmount(t, 0, b.SocialInsurance, "social")
}
