package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultTimerSchedule polls for due cascade timers every second.
const DefaultTimerSchedule = "* * * * * *"

type dueTimersHandler interface {
	Handle(ctx context.Context, cmd commands.FireDueTimersCommand) (int, error)
}

// CascadeTimerJob fires cascade timers whose deadline has passed.
// It is what moves a cascade on when a candidate never answers.
type CascadeTimerJob struct {
	handler  dueTimersHandler
	schedule string
	batch    int
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewCascadeTimerJob creates a job that fires at most batch timers per run.
func NewCascadeTimerJob(handler dueTimersHandler, schedule string, batch int, logger *slog.Logger) *CascadeTimerJob {
	if schedule == "" {
		schedule = DefaultTimerSchedule
	}
	if batch <= 0 {
		batch = commands.DefaultDueTimersBatch
	}
	return &CascadeTimerJob{
		handler:  handler,
		schedule: schedule,
		batch:    batch,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "cascade_timer_job"),
	}
}

// Start schedules the job.
func (j *CascadeTimerJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Cascade timer job started", "schedule", j.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running poll to finish.
func (j *CascadeTimerJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Cascade timer job stopped")
}

func (j *CascadeTimerJob) run() {
	ctx := context.Background()
	cmd, err := commands.NewFireDueTimersCommand(j.batch)
	if err != nil {
		j.logger.ErrorContext(ctx, "Cascade timer job misconfigured", "error", err)
		return
	}

	fired, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Cascade timer job failed", "error", err)
		return
	}
	if fired > 0 {
		j.logger.DebugContext(ctx, "Fired cascade timers", "count", fired)
	}
}
