// Package scheduler runs a task on a cron schedule, one run at a time.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Task is a unit of scheduled work.
type Task func(ctx context.Context) error

// Scheduler runs a single Task on a cron schedule. A run that is still going
// when the next tick fires causes that tick to be skipped.
type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	logger  *slog.Logger
}

// New parses spec (five-field cron or a descriptor such as @hourly) and
// registers task. Each run gets its own timeout. Extra options are passed to
// the underlying cron, e.g. cron.WithSeconds.
func New(spec string, task Task, timeout time.Duration, logger *slog.Logger, opts ...cron.Option) (*Scheduler, error) {
	cl := cronLogger{logger: logger}
	opts = append([]cron.Option{
		cron.WithLocation(time.UTC),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	}, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:    cron.New(opts...),
		ctx:     ctx,
		cancel:  cancel,
		timeout: timeout,
		logger:  logger,
	}

	if _, err := s.cron.AddFunc(spec, s.wrap(task)); err != nil {
		cancel()
		return nil, fmt.Errorf("schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	entries := s.cron.Entries()
	if len(entries) > 0 {
		s.logger.Info("scheduler started", "next_run", entries[0].Next)
	}
}

// Stop halts scheduling, cancels a running task, and waits for it to return
// or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop scheduler: %w", ctx.Err())
	}
}

func (s *Scheduler) wrap(task Task) func() {
	return func() {
		start := time.Now()
		ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
		defer cancel()

		if err := task(ctx); err != nil {
			s.logger.Error("scheduled task failed", "error", err, "duration", time.Since(start))
			return
		}
		s.logger.Debug("scheduled task completed", "duration", time.Since(start))
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
