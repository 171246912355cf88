package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultSweepSchedule sweeps expired correlation entries once a minute.
const DefaultSweepSchedule = "0 * * * * *"

type sweepHandler interface {
	Handle(ctx context.Context, cmd commands.SweepCorrelationsCommand) (int64, error)
}

// CorrelationSweepJob deletes correlation entries past their TTL.
type CorrelationSweepJob struct {
	handler  sweepHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewCorrelationSweepJob(handler sweepHandler, schedule string, logger *slog.Logger) *CorrelationSweepJob {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	return &CorrelationSweepJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "correlation_sweep_job"),
	}
}

func (j *CorrelationSweepJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Correlation sweep job started", "schedule", j.schedule)
	return nil
}

func (j *CorrelationSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Correlation sweep job stopped")
}

func (j *CorrelationSweepJob) run() {
	ctx := context.Background()
	removed, err := j.handler.Handle(ctx, commands.NewSweepCorrelationsCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "Correlation sweep job failed", "error", err)
		return
	}
	if removed > 0 {
		j.logger.InfoContext(ctx, "Swept expired correlation entries", "count", removed)
	}
}
