package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunOnceRecordsStats(t *testing.T) {
	t.Parallel()

	// Arrange
	s := NewScheduler()
	jobErr := errors.New("directory down")
	s.AddJob(Job{Name: "ok", Interval: time.Hour, Fn: func(ctx context.Context) error { return nil }})
	s.AddJob(Job{Name: "failing", Interval: time.Hour, Fn: func(ctx context.Context) error { return jobErr }})

	// Act
	s.RunOnce(context.Background())
	s.RunOnce(context.Background())

	// Assert
	ok, found := s.Stats("ok")
	require.True(t, found)
	assert.Equal(t, 2, ok.Runs)
	assert.Zero(t, ok.Failures)
	assert.NoError(t, ok.LastError)

	failing, found := s.Stats("failing")
	require.True(t, found)
	assert.Equal(t, 2, failing.Failures)
	assert.ErrorIs(t, failing.LastError, jobErr)
}

func TestScheduler_DisabledJobIgnored(t *testing.T) {
	t.Parallel()

	s := NewScheduler()
	s.AddJob(Job{Name: "disabled", Interval: 0, Fn: func(ctx context.Context) error { return nil }})

	s.RunOnce(context.Background())

	_, found := s.Stats("disabled")
	assert.False(t, found)
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	t.Parallel()

	s := NewScheduler()
	var runs atomic.Int32
	started := make(chan struct{}, 1)
	s.AddJob(Job{Name: "warmup", Interval: time.Hour, Fn: func(ctx context.Context) error {
		runs.Add(1)
		select {
		case started <- struct{}{}:
		default:
		}
		return nil
	}})

	s.Start(context.Background())
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()

	assert.Equal(t, int32(1), runs.Load())
}

func TestScheduler_TimeoutAppliedToRun(t *testing.T) {
	t.Parallel()

	s := NewScheduler()
	s.AddJob(Job{Name: "slow", Interval: time.Hour, Timeout: 10 * time.Millisecond, Fn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})

	s.RunOnce(context.Background())

	st, _ := s.Stats("slow")
	assert.ErrorIs(t, st.LastError, context.DeadlineExceeded)
}
