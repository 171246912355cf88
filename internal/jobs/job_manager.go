package jobs

import (
	"fmt"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
)

// Schedules holds the cron expressions (with seconds) of the background jobs.
// Empty values fall back to the defaults.
type Schedules struct {
	Timers string
	Sweep  string
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	cascadeTimerJob     *CascadeTimerJob
	correlationSweepJob *CorrelationSweepJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	fireDueTimersHandler commands.FireDueTimersCommandHandler,
	sweepHandler commands.SweepCorrelationsCommandHandler,
	schedules Schedules,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		cascadeTimerJob:     NewCascadeTimerJob(fireDueTimersHandler, schedules.Timers, commands.DefaultDueTimersBatch, logger),
		correlationSweepJob: NewCorrelationSweepJob(sweepHandler, schedules.Sweep, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.cascadeTimerJob.Start(); err != nil {
		return fmt.Errorf("failed to start cascade timer job: %w", err)
	}

	if err := jm.correlationSweepJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.cascadeTimerJob.Stop()
		return fmt.Errorf("failed to start correlation sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones to finish.
func (jm *JobManager) StopAll() {
	jm.correlationSweepJob.Stop()
	jm.cascadeTimerJob.Stop()
}
