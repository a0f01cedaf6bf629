package engine

import (
	"context"
	"fmt"

	"github.com/go-co-op/gocron/v2"
	"github.com/jon4hz/sweepbox/internal/scheduler"
)

const retentionJobID = "retention"

// GetScheduler returns the scheduler instance.
func (e *Engine) GetScheduler() *scheduler.Scheduler {
	return e.scheduler
}

// Run starts the engine and all its background jobs. It blocks until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	e.scheduler.Start()

	<-ctx.Done()
	return nil
}

// Close stops the engine and cancels running sweeps.
func (e *Engine) Close() error {
	return e.scheduler.Stop()
}

// setupJobs configures all scheduled jobs.
func (e *Engine) setupJobs() error {
	if !e.cfg.Enabled {
		e.logger.Warn("Retention sweep is disabled")
		return nil
	}

	// first sweep right after start, then after every interval
	if err := e.scheduler.AddSingletonJob(
		retentionJobID,
		"Upload Retention",
		gocron.DurationJob(e.cfg.Interval),
		e.runRetentionJob,
		true,
	); err != nil {
		return fmt.Errorf("failed to add retention job: %w", err)
	}

	return nil
}

func (e *Engine) runRetentionJob(ctx context.Context) error {
	_, err := e.Sweep(ctx)
	return err
}
