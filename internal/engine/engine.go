package engine

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/sweepbox/internal/config"
	"github.com/jon4hz/sweepbox/internal/scheduler"
	"github.com/jon4hz/sweepbox/internal/upload"
)

// Engine runs the background jobs of sweepbox.
// It periodically removes uploaded files older than the configured max age.
type Engine struct {
	cfg       *config.RetentionConfig
	root      string
	scheduler *scheduler.Scheduler
	logger    *log.Logger

	now func() time.Time
}

// New creates a new Engine instance sweeping the root of store.
// The retention job is only registered when retention is enabled.
func New(cfg *config.Config, store *upload.Store, logger *log.Logger) (*Engine, error) {
	if logger == nil {
		logger = log.Default().WithPrefix("retention")
	}

	sched, err := scheduler.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	e := &Engine{
		cfg:       cfg.Retention,
		root:      store.Root(),
		scheduler: sched,
		logger:    logger,
		now:       time.Now,
	}

	if err := e.setupJobs(); err != nil {
		return nil, err
	}

	return e, nil
}
