package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrm-payroll/internal/domain/payroll"
	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHistory() []payroll.PayslipRecord {
	return []payroll.PayslipRecord{
		{EmployeeID: "emp-1", Month: "2026-03", BaseSalary: decimal.NewFromInt(10_000_000), WorkingDays: 22},
		{EmployeeID: "emp-1", Month: "2026-02", BaseSalary: decimal.NewFromInt(10_000_000), WorkingDays: 21},
	}
}

func TestPayslipHistoryCache_Get(t *testing.T) {
	ctx := context.Background()
	key := PayslipHistoryKey("emp-1")

	t.Run("cache hit", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		cache := NewPayslipHistoryCache(db, 0)
		data, err := json.Marshal(sampleHistory())
		require.NoError(t, err)
		mock.ExpectGet(key).SetVal(string(data))

		got, err := cache.Get(ctx, "emp-1")

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "2026-03", got[0].Month)
		assert.True(t, decimal.NewFromInt(10_000_000).Equal(got[0].BaseSalary))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cache miss", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		cache := NewPayslipHistoryCache(db, 0)
		mock.ExpectGet(key).RedisNil()

		_, err := cache.Get(ctx, "emp-1")

		assert.ErrorIs(t, err, payroll.ErrPayslipHistoryNotCached)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupt entry is dropped", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		cache := NewPayslipHistoryCache(db, 0)
		mock.ExpectGet(key).SetVal("{not json")
		mock.ExpectDel(key).SetVal(1)

		_, err := cache.Get(ctx, "emp-1")

		assert.ErrorIs(t, err, payroll.ErrPayslipHistoryNotCached)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty history is dropped", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		cache := NewPayslipHistoryCache(db, 0)
		mock.ExpectGet(key).SetVal("[]")
		mock.ExpectDel(key).SetVal(1)

		_, err := cache.Get(ctx, "emp-1")

		assert.ErrorIs(t, err, payroll.ErrPayslipHistoryNotCached)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis error", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		cache := NewPayslipHistoryCache(db, 0)
		mock.ExpectGet(key).SetErr(errors.New("connection refused"))

		_, err := cache.Get(ctx, "emp-1")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, payroll.ErrPayslipHistoryNotCached)
	})
}

func TestPayslipHistoryCache_SetIfAbsent(t *testing.T) {
	ctx := context.Background()
	key := PayslipHistoryKey("emp-1")
	records := sampleHistory()
	data, err := json.Marshal(records)
	require.NoError(t, err)

	t.Run("stored", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		cache := NewPayslipHistoryCache(db, 24*time.Hour)
		mock.ExpectSetNX(key, string(data), 24*time.Hour).SetVal(true)

		stored, err := cache.SetIfAbsent(ctx, "emp-1", records)

		require.NoError(t, err)
		assert.True(t, stored)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already present", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		cache := NewPayslipHistoryCache(db, 24*time.Hour)
		mock.ExpectSetNX(key, string(data), 24*time.Hour).SetVal(false)

		stored, err := cache.SetIfAbsent(ctx, "emp-1", records)

		require.NoError(t, err)
		assert.False(t, stored)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		cache := NewPayslipHistoryCache(db, 0)
		mock.ExpectSetNX(key, string(data), 0).SetVal(true)

		stored, err := cache.SetIfAbsent(ctx, "emp-1", records)

		require.NoError(t, err)
		assert.True(t, stored)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPayslipHistoryCache_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewPayslipHistoryCache(db, 0)
	mock.ExpectDel(PayslipHistoryKey("emp-1")).SetVal(1)

	err := cache.Delete(context.Background(), "emp-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
