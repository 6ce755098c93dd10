// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/alumni-network/alumni-api/internal/ports/out/clock"
	"github.com/alumni-network/alumni-api/internal/ports/out/idempotency"
)

// Scheduler wraps robfig/cron. Jobs run with the context given to New and are skipped
// while a previous run of the same job is still in progress.
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger
}

func New(ctx context.Context, log *zap.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(ctx)
	cl := cronLogger{log: log.Named("cron")}
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}
}

// Add registers job under spec (standard five-field cron or a descriptor like "@every 1h").
func (s *Scheduler) Add(name, spec string, job func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		if err := job(s.ctx); err != nil {
			s.log.Warn("scheduled job failed", zap.String("job", name), zap.Error(err))
			return
		}
		s.log.Debug("scheduled job finished", zap.String("job", name), zap.Duration("took", time.Since(start)))
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop cancels running jobs and waits for them to return or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PurgeIdempotency returns a job that removes idempotency records older than ttl.
func PurgeIdempotency(p idempotency.Purger, clk clock.Clock, ttl time.Duration, log *zap.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		cutoff := clk.Now().Add(-ttl)
		n, err := p.PurgeBefore(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("purge idempotency records: %w", err)
		}
		if n > 0 {
			log.Info("purged idempotency records", zap.Int64("count", n), zap.Time("cutoff", cutoff))
		}
		return nil
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
