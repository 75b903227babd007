package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultAuditSchedule is used when no schedule is configured.
const DefaultAuditSchedule = "@every 15m"

// SchedulerConfig holds configuration for the audit scheduler.
type SchedulerConfig struct {
	// Spec is a standard cron expression or descriptor such as "@every 15m".
	Spec   string
	Job    *AuditJob
	Logger zerolog.Logger
}

// Scheduler runs the audit job on a cron schedule. Overlapping runs are
// skipped.
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	job    *AuditJob
	logger zerolog.Logger

	runCtx context.Context
}

// NewScheduler creates a scheduler. It returns an error for an invalid spec.
func NewScheduler(cfg SchedulerConfig) (*Scheduler, error) {
	spec := cfg.Spec
	if spec == "" {
		spec = DefaultAuditSchedule
	}

	logger := cfg.Logger.With().Str("component", "scheduler").Logger()
	s := &Scheduler{
		spec:   spec,
		job:    cfg.Job,
		logger: logger,
		runCtx: context.Background(),
	}

	cl := cronLogger{logger: logger}
	s.cron = cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	if _, err := s.cron.AddFunc(spec, s.runAudit); err != nil {
		return nil, fmt.Errorf("parsing audit schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the schedule until ctx is done, then waits for a running audit
// to finish.
func (s *Scheduler) Start(ctx context.Context) error {
	s.runCtx = ctx
	s.cron.Start()
	s.logger.Info().Str("schedule", s.spec).Time("next_run", s.Next()).Msg("audit scheduler started")

	<-ctx.Done()

	stopped := s.cron.Stop()
	<-stopped.Done()
	s.logger.Info().Msg("audit scheduler stopped")
	return nil
}

// Next returns the next scheduled run, or the zero time before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) runAudit() {
	if _, err := s.job.Run(s.runCtx); err != nil {
		s.logger.Error().Err(err).Msg("scheduled urgency audit failed")
	}
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
