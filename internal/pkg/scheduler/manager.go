package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/metrics"
)

// JobFunc is one unit of scheduled work
type JobFunc func(ctx context.Context) error

// Manager runs the periodic background jobs
type Manager struct {
	cron       *cron.Cron
	jobTimeout time.Duration
	logger     zerolog.Logger
}

// NewManager creates a manager whose specs carry a seconds field
func NewManager(jobTimeout time.Duration, logger zerolog.Logger) *Manager {
	if jobTimeout <= 0 {
		jobTimeout = 10 * time.Minute
	}
	return &Manager{
		// Overlapping runs of the same job are skipped
		cron:       cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		jobTimeout: jobTimeout,
		logger:     logger.With().Str("component", "scheduler").Logger(),
	}
}

// AddJob registers fn under spec. An empty spec disables the job.
func (m *Manager) AddJob(name, spec string, fn JobFunc) error {
	if spec == "" {
		m.logger.Info().Str("job", name).Msg("Job disabled, no schedule configured")
		return nil
	}
	if _, err := m.cron.AddFunc(spec, func() { m.run(name, fn) }); err != nil {
		return fmt.Errorf("schedule job %s: %w", name, err)
	}
	m.logger.Info().Str("job", name).Str("spec", spec).Msg("Job scheduled")
	return nil
}

func (m *Manager) run(name string, fn JobFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), m.jobTimeout)
	defer cancel()

	start := time.Now()
	m.logger.Info().Str("job", name).Msg("Job started")

	defer func() {
		if r := recover(); r != nil {
			metrics.JobRuns.WithLabelValues(name, "panic").Inc()
			m.logger.Error().Str("job", name).Interface("panic", r).Msg("Job panicked")
		}
	}()

	if err := fn(ctx); err != nil {
		metrics.JobRuns.WithLabelValues(name, "error").Inc()
		m.logger.Error().Err(err).Str("job", name).Dur("took", time.Since(start)).Msg("Job failed")
		return
	}
	metrics.JobRuns.WithLabelValues(name, "ok").Inc()
	m.logger.Info().Str("job", name).Dur("took", time.Since(start)).Msg("Job finished")
}

// Start begins firing scheduled jobs
func (m *Manager) Start() {
	m.cron.Start()
	m.logger.Info().Int("jobs", len(m.cron.Entries())).Msg("Scheduler started")
}

// Stop waits for running jobs to finish
func (m *Manager) Stop() {
	<-m.cron.Stop().Done()
	m.logger.Info().Msg("Scheduler stopped")
}
