// Package scheduler runs the disclosure ingest on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"ptrwatch/internal/disclosure"
	"ptrwatch/internal/ingest"
	"ptrwatch/internal/logger"
	"ptrwatch/internal/models"
)

// runTimeout bounds one scheduled ingest.
const runTimeout = 2 * time.Hour

// Runner executes one ingest.
type Runner interface {
	Run(ctx context.Context, q disclosure.Query, trigger models.IngestTrigger) (*ingest.RunResult, error)
}

// Scheduler triggers the ingest for one filing year on a cron spec. A run
// that is still going when the next one is due causes that one to be skipped.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	spec   string
	year   func() int
	logger *zap.SugaredLogger

	running sync.Mutex
}

// NewScheduler creates a scheduler for spec, a standard 5-field cron
// expression. filingYear returns the year to search at each run; nil means
// the current year.
func NewScheduler(runner Runner, spec string, filingYear func() int) *Scheduler {
	if filingYear == nil {
		filingYear = func() int { return time.Now().Year() }
	}
	cronLogger := cron.PrintfLogger(logger.Std("scheduler.cron"))
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cronLogger), cron.WithChain(cron.Recover(cronLogger))),
		runner: runner,
		spec:   spec,
		year:   filingYear,
		logger: logger.Named("scheduler"),
	}
}

// Start registers the ingest job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runScheduled); err != nil {
		return fmt.Errorf("invalid ingest schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Infow("cron scheduler started",
		"schedule", s.spec,
		"jobs", len(s.cron.Entries()),
	)
	return nil
}

// Stop stops scheduling new runs. The returned context is done once a
// running ingest has finished.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow triggers an ingest outside the schedule.
func (s *Scheduler) RunNow() {
	go s.runScheduled()
}

func (s *Scheduler) runScheduled() {
	s.runOnce(context.Background())
}

// runOnce runs one ingest unless another is in progress. It reports whether
// the ingest ran.
func (s *Scheduler) runOnce(parent context.Context) bool {
	if !s.running.TryLock() {
		s.logger.Warn("previous ingest still running, skipping")
		return false
	}
	defer s.running.Unlock()

	ctx, cancel := context.WithTimeout(parent, runTimeout)
	defer cancel()

	year := s.year()
	s.logger.Infow("starting scheduled ingest", "filing_year", year)

	result, err := s.runner.Run(ctx, disclosure.Query{FilingYear: year}, models.TriggerSchedule)
	if err != nil {
		s.logger.Errorw("scheduled ingest failed", "filing_year", year, "error", err)
		return true
	}
	s.logger.Infow("scheduled ingest completed",
		"filing_year", year,
		"run_id", result.RunID,
		"parsed", result.Parsed,
		"failed", result.Failed,
	)
	return true
}
