package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/civicdesk/issue-service/internal/config"
)

// StaleCloser closes reports that stayed resolved past a grace period.
type StaleCloser interface {
	CloseStaleResolved(ctx context.Context, olderThan time.Duration) (int, error)
}

// AutoCloseWorker runs StaleCloser on a cron schedule.
type AutoCloseWorker struct {
	closer   StaleCloser
	schedule string
	after    time.Duration
	logger   *zap.Logger
}

// NewAutoCloseWorker validates the schedule up front so a typo fails at startup.
func NewAutoCloseWorker(closer StaleCloser, cfg config.AutoCloseConfig, logger *zap.Logger) (*AutoCloseWorker, error) {
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return nil, eris.Wrapf(err, "worker: invalid auto-close schedule %q", cfg.Schedule)
	}
	if cfg.After() <= 0 {
		return nil, eris.New("worker: auto-close grace period must be positive")
	}
	return &AutoCloseWorker{closer: closer, schedule: cfg.Schedule, after: cfg.After(), logger: logger}, nil
}

// RunOnce performs a single sweep.
func (w *AutoCloseWorker) RunOnce(ctx context.Context) (int, error) {
	closed, err := w.closer.CloseStaleResolved(ctx, w.after)
	if err != nil {
		w.logger.Warn("auto-close sweep finished with errors", zap.Int("closed", closed), zap.Error(err))
		return closed, err
	}
	if closed > 0 {
		w.logger.Info("auto-closed resolved reports", zap.Int("closed", closed))
	}
	return closed, nil
}

// Run schedules sweeps until ctx is cancelled, then waits for a running sweep to finish.
func (w *AutoCloseWorker) Run(ctx context.Context) error {
	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := scheduler.AddFunc(w.schedule, func() {
		_, _ = w.RunOnce(ctx)
	}); err != nil {
		return eris.Wrap(err, "worker: schedule auto-close")
	}

	w.logger.Info("auto-close worker started", zap.String("schedule", w.schedule), zap.Duration("after", w.after))
	scheduler.Start()
	<-ctx.Done()
	<-scheduler.Stop().Done()
	w.logger.Info("auto-close worker stopped")
	return nil
}
