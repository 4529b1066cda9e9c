package payroll

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/cmlabs-hris/hrm-payroll/internal/domain/payroll"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var amountPrinter = message.NewPrinter(language.English)

// formatAmount groups the integer part and keeps up to two fraction digits
// exactly as the decimal holds them.
func formatAmount(d decimal.Decimal) string {
	r := d.Round(2)
	abs := r.Abs()
	whole := abs.Truncate(0)
	if !whole.LessThanOrEqual(maxGroupedAmount) {
		return r.String()
	}

	out := amountPrinter.Sprint(number.Decimal(whole.IntPart()))
	if frac := strings.TrimRight(abs.Sub(whole).StringFixed(2), "0"); frac != "0." {
		out += strings.TrimPrefix(frac, "0")
	}
	if r.IsNegative() {
		out = "-" + out
	}
	return out
}

var maxGroupedAmount = decimal.NewFromInt(math.MaxInt64)

func payslipFilename(code, month string) string {
	if code == "" {
		code = "employee"
	}
	return fmt.Sprintf("payslip-%s-%s.pdf", code, month)
}

// renderPayslipPDF lays out one month's payslip on a single A4 page.
func renderPayslipPDF(detail payroll.PayslipDetailResponse) ([]byte, error) {
	slip := detail.Payslip

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Payslip %s", slip.Month), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s (%s)", detail.EmployeeName, detail.EmployeeCode))
	pdf.Ln(6)
	if detail.DepartmentName != nil {
		pdf.Cell(0, 7, fmt.Sprintf("Department: %s", *detail.DepartmentName))
		pdf.Ln(6)
	}
	if detail.PositionName != nil {
		pdf.Cell(0, 7, fmt.Sprintf("Position: %s", *detail.PositionName))
		pdf.Ln(6)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s", slip.Month))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Working days: %d    Dependents: %d", slip.WorkingDays, slip.DependentCount))
	pdf.Ln(10)

	section := func(title string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
	}
	row := func(label string, amount decimal.Decimal) {
		pdf.CellFormat(120, 7, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, formatAmount(amount), "", 1, "R", false, 0, "")
	}

	section("Earnings")
	row("Base salary", slip.BaseSalary)
	row("Bonus", slip.Bonus)
	row("Gross pay", slip.GrossPay)
	pdf.Ln(4)

	section("Deductions")
	row("Social insurance", slip.SocialInsurance)
	row("Health insurance", slip.HealthInsurance)
	row("Unemployment insurance", slip.UnemploymentInsurance)
	row("Income tax (estimate)", slip.IncomeTax)
	row("Other deductions", slip.Deduction)
	row("Total deductions", slip.TotalDeductions)
	pdf.Ln(4)

	section("Tax basis")
	row("Family allowance", slip.FamilyAllowance)
	row("Dependent allowance", slip.DependentDeductionTotal)
	row("Taxable income", slip.TaxableIncome)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(120, 9, "Net pay", "T", 0, "L", false, 0, "")
	pdf.CellFormat(60, 9, formatAmount(slip.NetPay), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render payslip pdf: %w", err)
	}
	return buf.Bytes(), nil
}
