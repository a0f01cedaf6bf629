package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
)

// JobStatus represents the status of a job.
type JobStatus string

const (
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusScheduled JobStatus = "scheduled"
)

// JobInfo is the run state of a scheduled job.
type JobInfo struct {
	ID         string
	Name       string
	Singleton  bool
	Status     JobStatus
	LastRun    time.Time
	NextRun    time.Time
	RunCount   int
	ErrorCount int
	LastError  string

	job               gocron.Job
	instantAfterStart bool
}

// JobFunc represents a function that can be scheduled.
type JobFunc func(ctx context.Context) error

// Scheduler manages scheduled jobs.
// A failing or panicking job is recorded in its JobInfo and never stops the scheduler.
type Scheduler struct {
	mu     sync.Mutex
	gocron gocron.Scheduler
	jobs   map[string]*JobInfo
	logger *log.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new scheduler. A nil logger uses the default logger with a "scheduler" prefix.
func New(logger *log.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = log.Default().WithPrefix("scheduler")
	}

	gocronScheduler, err := gocron.NewScheduler(gocron.WithLogger(newLogger(logger)))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		gocron: gocronScheduler,
		jobs:   make(map[string]*JobInfo),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("Starting job scheduler")
	s.gocron.Start()

	s.mu.Lock()
	var instant []string
	for id, jobInfo := range s.jobs {
		if nextRun, err := jobInfo.job.NextRun(); err == nil {
			jobInfo.NextRun = nextRun
			s.logger.Debug("Next run time for job", "id", id, "nextRun", nextRun)
		} else {
			s.logger.Warn("Failed to get next run time for job", "id", id, "error", err)
		}
		if jobInfo.instantAfterStart {
			instant = append(instant, id)
		}
	}
	s.mu.Unlock()

	for _, id := range instant {
		s.logger.Debug("Running job immediately after start", "id", id)
		if err := s.RunJobNow(id); err != nil {
			s.logger.Error("Failed to run job immediately after start", "id", id, "error", err)
		}
	}
}

// Stop cancels the context passed to running jobs and shuts the scheduler down.
func (s *Scheduler) Stop() error {
	s.logger.Info("Stopping job scheduler")
	s.cancel()
	return s.gocron.Shutdown()
}

// AddSingletonJob adds a job that never runs more than one instance at a time.
// An overlapping run is rescheduled instead of started.
func (s *Scheduler) AddSingletonJob(id, name string, jobDef gocron.JobDefinition, jobFunc JobFunc, instantAfterStart bool) error {
	opts := []gocron.JobOption{
		gocron.WithName(id),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}

	job, err := s.gocron.NewJob(jobDef, gocron.NewTask(s.wrapJobFunc(id, jobFunc)), opts...)
	if err != nil {
		return fmt.Errorf("failed to create job %s: %w", id, err)
	}

	s.mu.Lock()
	s.jobs[id] = &JobInfo{
		ID:                id,
		Name:              name,
		Singleton:         true,
		Status:            JobStatusScheduled,
		job:               job,
		instantAfterStart: instantAfterStart,
	}
	s.mu.Unlock()

	s.logger.Info("Added job to scheduler", "id", id, "name", name)
	return nil
}

// RunJobNow manually triggers a job to run immediately.
func (s *Scheduler) RunJobNow(id string) error {
	s.mu.Lock()
	jobInfo, exists := s.jobs[id]
	s.mu.Unlock()
	if !exists {
		return fmt.Errorf("job %s not found", id)
	}

	if err := jobInfo.job.RunNow(); err != nil {
		return fmt.Errorf("failed to trigger job %s: %w", id, err)
	}
	return nil
}

// GetJob returns a snapshot of the information about a specific job.
func (s *Scheduler) GetJob(id string) (JobInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[id]
	if !exists {
		return JobInfo{}, false
	}
	return *job, true
}

// wrapJobFunc wraps a job function to update job statistics and contain panics.
func (s *Scheduler) wrapJobFunc(id string, jobFunc JobFunc) func() {
	return func() {
		s.mu.Lock()
		jobInfo := s.jobs[id]
		if jobInfo == nil {
			s.mu.Unlock()
			s.logger.Error("Job info not found", "id", id)
			return
		}
		jobInfo.Status = JobStatusRunning
		jobInfo.LastRun = time.Now()
		jobInfo.RunCount++
		s.mu.Unlock()

		s.logger.Debug("Starting job", "id", id, "name", jobInfo.Name)
		err := s.runSafe(jobFunc)

		s.mu.Lock()
		defer s.mu.Unlock()
		if nextRun, nerr := jobInfo.job.NextRun(); nerr == nil {
			jobInfo.NextRun = nextRun
		}
		if err != nil {
			s.logger.Error("Job failed", "id", id, "name", jobInfo.Name, "error", err)
			jobInfo.Status = JobStatusFailed
			jobInfo.ErrorCount++
			jobInfo.LastError = err.Error()
			return
		}
		s.logger.Debug("Job completed successfully", "id", id, "name", jobInfo.Name)
		jobInfo.Status = JobStatusCompleted
		jobInfo.LastError = ""
	}
}

func (s *Scheduler) runSafe(jobFunc JobFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return jobFunc(s.ctx)
}
