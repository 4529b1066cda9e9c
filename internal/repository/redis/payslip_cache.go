package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrm-payroll/internal/domain/payroll"
	"github.com/redis/go-redis/v9"
)

const payslipHistoryKeyPrefix = "payslips:history:"

// PayslipHistoryKey is the redis key holding one employee's history.
func PayslipHistoryKey(employeeID string) string {
	return payslipHistoryKeyPrefix + employeeID
}

type payslipHistoryCacheImpl struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPayslipHistoryCache stores histories as JSON. A zero ttl keeps them
// until explicitly regenerated.
func NewPayslipHistoryCache(rdb *redis.Client, ttl time.Duration) payroll.PayslipHistoryCache {
	return &payslipHistoryCacheImpl{rdb: rdb, ttl: ttl}
}

func (c *payslipHistoryCacheImpl) Get(ctx context.Context, employeeID string) ([]payroll.PayslipRecord, error) {
	key := PayslipHistoryKey(employeeID)

	cached, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, payroll.ErrPayslipHistoryNotCached
		}
		return nil, fmt.Errorf("failed to read payslip history: %w", err)
	}

	var records []payroll.PayslipRecord
	if err := json.Unmarshal([]byte(cached), &records); err != nil || !payroll.IsValidHistory(records) {
		slog.Warn("discarding unreadable payslip history", "employee_id", employeeID, "error", err)
		// Drop the entry so the next SetNX can replace it.
		if delErr := c.rdb.Del(ctx, key).Err(); delErr != nil {
			slog.Warn("failed to drop unreadable payslip history", "employee_id", employeeID, "error", delErr)
		}
		return nil, payroll.ErrPayslipHistoryNotCached
	}
	return records, nil
}

func (c *payslipHistoryCacheImpl) SetIfAbsent(ctx context.Context, employeeID string, records []payroll.PayslipRecord) (bool, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return false, fmt.Errorf("failed to encode payslip history: %w", err)
	}

	stored, err := c.rdb.SetNX(ctx, PayslipHistoryKey(employeeID), string(data), c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to store payslip history: %w", err)
	}
	return stored, nil
}

func (c *payslipHistoryCacheImpl) Delete(ctx context.Context, employeeID string) error {
	if err := c.rdb.Del(ctx, PayslipHistoryKey(employeeID)).Err(); err != nil {
		return fmt.Errorf("failed to delete payslip history: %w", err)
	}
	return nil
}
