package memory

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hrm-payroll/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func history(employeeID string, months ...string) []payroll.PayslipRecord {
	records := make([]payroll.PayslipRecord, len(months))
	for i, m := range months {
		records[i] = payroll.PayslipRecord{
			EmployeeID: employeeID,
			Month:      m,
			BaseSalary: decimal.NewFromInt(10_000_000),
		}
	}
	return records
}

func TestPayslipHistoryCache_Get_Missing(t *testing.T) {
	t.Parallel()
	cache := NewPayslipHistoryCache()

	_, err := cache.Get(context.Background(), "emp-1")

	assert.ErrorIs(t, err, payroll.ErrPayslipHistoryNotCached)
}

func TestPayslipHistoryCache_SetIfAbsent_FirstWriteWins(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cache := NewPayslipHistoryCache()

	// Act
	stored, err := cache.SetIfAbsent(ctx, "emp-1", history("emp-1", "2026-03", "2026-02"))
	require.NoError(t, err)
	storedAgain, err := cache.SetIfAbsent(ctx, "emp-1", history("emp-1", "2026-05", "2026-04"))
	require.NoError(t, err)

	// Assert
	assert.True(t, stored)
	assert.False(t, storedAgain)
	got, err := cache.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "2026-03", got[0].Month)
}

func TestPayslipHistoryCache_InvalidHistoryTreatedAsEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cache := NewPayslipHistoryCache()

	stored, err := cache.SetIfAbsent(ctx, "emp-1", history("emp-1", "not-a-month"))
	require.NoError(t, err)
	require.True(t, stored)

	_, err = cache.Get(ctx, "emp-1")
	assert.ErrorIs(t, err, payroll.ErrPayslipHistoryNotCached)

	stored, err = cache.SetIfAbsent(ctx, "emp-1", history("emp-1", "2026-03"))
	require.NoError(t, err)
	assert.True(t, stored)
}

func TestPayslipHistoryCache_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cache := NewPayslipHistoryCache()
	_, err := cache.SetIfAbsent(ctx, "emp-1", history("emp-1", "2026-03"))
	require.NoError(t, err)

	require.NoError(t, cache.Delete(ctx, "emp-1"))

	_, err = cache.Get(ctx, "emp-1")
	assert.ErrorIs(t, err, payroll.ErrPayslipHistoryNotCached)
}

func TestPayslipHistoryCache_ReturnsCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cache := NewPayslipHistoryCache()
	_, err := cache.SetIfAbsent(ctx, "emp-1", history("emp-1", "2026-03"))
	require.NoError(t, err)

	got, err := cache.Get(ctx, "emp-1")
	require.NoError(t, err)
	got[0].Month = "1999-01"

	again, err := cache.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "2026-03", again[0].Month)
}
