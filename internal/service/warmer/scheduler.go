// internal/service/warmer/scheduler.go

package warmer

import (
	"context"
	"fmt"
	"time"

	"github.com/phuslu/log"
	"github.com/robfig/cron/v3"
)

// Job is a scheduled task
type Job func(ctx context.Context) error

// Scheduler runs named jobs on cron schedules
type Scheduler struct {
	cron       *cron.Cron
	jobs       map[string]cron.EntryID
	runTimeout time.Duration
	logger     *log.Logger
}

// NewScheduler creates a UTC scheduler. Overlapping runs of the same job are skipped.
func NewScheduler(runTimeout time.Duration, logger *log.Logger) *Scheduler {
	if runTimeout <= 0 {
		runTimeout = time.Minute
	}

	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	return &Scheduler{
		cron:       c,
		jobs:       make(map[string]cron.EntryID),
		runTimeout: runTimeout,
		logger:     logger,
	}
}

// AddJob registers job under name. schedule accepts standard five-field
// expressions and descriptors such as "@every 5m".
func (s *Scheduler) AddJob(name, schedule string, job Job) error {
	entryID, err := s.cron.AddFunc(schedule, func() {
		s.run(name, job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.jobs[name] = entryID
	s.logger.Info().Str("job", name).Str("schedule", schedule).Msg("scheduled job")
	return nil
}

// RunNow executes job once on the caller's goroutine
func (s *Scheduler) RunNow(name string, job Job) error {
	return s.run(name, job)
}

func (s *Scheduler) run(name string, job Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	start := time.Now()
	err := job(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("job", name).Msg("job failed")
		return err
	}

	s.logger.Debug().Str("job", name).Dur("took", time.Since(start)).Msg("job completed")
	return nil
}

// NextRun reports when the named job fires next
func (s *Scheduler) NextRun(name string) (time.Time, bool) {
	entryID, ok := s.jobs[name]
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(entryID).Next, true
}

// Start begins running scheduled jobs
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler; the returned context is done once running jobs finish
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
