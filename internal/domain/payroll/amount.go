package payroll

import (
	"bytes"
	"encoding/json"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	maxDependentCount = math.MaxInt32

	// Amounts must stay below 10^15 and carry at most 18 decimal places.
	// Anything outside that range is treated like unparsable input.
	maxAmountIntegerDigits = 15
	maxAmountScale         = 18
)

// NormalizeAmount clamps negative and out-of-range amounts to zero.
func NormalizeAmount(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() || !amountInRange(d) {
		return decimal.Zero
	}
	return d
}

// amountInRange inspects only the exponent and coefficient length, so it
// stays cheap for inputs like "1e20000000" whose expansion would not be.
func amountInRange(d decimal.Decimal) bool {
	if d.IsZero() {
		return true
	}
	exp := int64(d.Exponent())
	if exp < -maxAmountScale {
		return false
	}
	digits := int64(len(new(big.Int).Abs(d.Coefficient()).String()))
	return digits+exp <= maxAmountIntegerDigits
}

// AmountFromFloat converts f to a monetary amount. Non-finite and negative
// values yield zero.
func AmountFromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return decimal.Zero
	}
	return NormalizeAmount(decimal.NewFromFloat(f))
}

// ParseAmount parses a decimal string. Unparsable, negative or
// out-of-range input yields zero.
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return NormalizeAmount(d)
}

// NormalizeDependentCount floors f and clamps it to [0, MaxInt32].
// Non-finite values yield zero.
func NormalizeDependentCount(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	f = math.Floor(f)
	if f > maxDependentCount {
		return maxDependentCount
	}
	return int(f)
}

// ParseDependentCount accepts any numeric string.
func ParseDependentCount(s string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return NormalizeDependentCount(f)
}

// Amount is a JSON money field that accepts a number or a numeric string
// and never fails to decode; anything else decodes to zero.
type Amount struct {
	decimal.Decimal
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	a.Decimal = ParseAmount(looseJSONScalar(b))
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return a.Decimal.MarshalJSON()
}

// Count is the JSON counterpart of Amount for dependent counts.
type Count int

func (c *Count) UnmarshalJSON(b []byte) error {
	*c = Count(ParseDependentCount(looseJSONScalar(b)))
	return nil
}

func looseJSONScalar(b []byte) string {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return ""
		}
		return s
	}
	return string(b)
}
