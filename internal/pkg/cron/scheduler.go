package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is a function run on a fixed interval. A zero Timeout lets a run last
// until the scheduler stops.
type Job struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration
	Fn       func(ctx context.Context) error
}

// RunStats describes the most recent executions of one job.
type RunStats struct {
	Runs         int
	Failures     int
	LastError    error
	LastDuration time.Duration
	LastRunAt    time.Time
}

// Scheduler runs registered jobs until Stop is called. Runs of the same job
// never overlap because each job owns a single goroutine.
type Scheduler struct {
	jobs   []Job
	stats  map[string]RunStats
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		jobs:  make([]Job, 0),
		stats: make(map[string]RunStats),
	}
}

// AddJob registers a job. Jobs with a non-positive interval are ignored so
// callers can pass config values through unchanged.
func (s *Scheduler) AddJob(job Job) {
	if job.Interval <= 0 {
		slog.Info("Cron job disabled", "name", job.Name)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, job)
	slog.Info("Cron job registered", "name", job.Name, "interval", job.Interval, "timeout", job.Timeout)
}

// Start runs every job once immediately and then on its interval.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, s.cancel = context.WithCancel(ctx)
	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runJob(ctx, job)
	}

	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

// Stats returns the recorded results for a job name.
func (s *Scheduler) Stats(name string) (RunStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stats[name]
	return st, ok
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	s.executeJob(ctx, job)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Cron job stopping", "name", job.Name)
			return
		case <-ticker.C:
			s.executeJob(ctx, job)
		}
	}
}

func (s *Scheduler) executeJob(ctx context.Context, job Job) {
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	start := time.Now()
	slog.Debug("Cron job starting", "name", job.Name)

	err := job.Fn(ctx)
	duration := time.Since(start)
	if err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", duration)
	} else {
		slog.Debug("Cron job completed", "name", job.Name, "duration", duration)
	}

	s.mu.Lock()
	st := s.stats[job.Name]
	st.Runs++
	if err != nil {
		st.Failures++
	}
	st.LastError = err
	st.LastDuration = duration
	st.LastRunAt = start
	s.stats[job.Name] = st
	s.mu.Unlock()
}

// RunOnce runs all jobs once in registration order.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	for _, job := range jobs {
		s.executeJob(ctx, job)
	}
}
