package commands

import (
	"context"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/clock"
)

// CompleteJobCommandHandler moves an InProgress job to Completed.
type CompleteJobCommandHandler struct {
	uowFactory JobUoWFactory
	clock      clock.Clock
}

func NewCompleteJobCommandHandler(uowFactory JobUoWFactory, clk clock.Clock) CompleteJobCommandHandler {
	return CompleteJobCommandHandler{uowFactory: uowFactory, clock: clk}
}

func (h CompleteJobCommandHandler) Handle(ctx context.Context, cmd CompleteJobCommand) (job.Status, error) {
	if err := cmd.Validate(); err != nil {
		return job.Unknown, err
	}
	return updateJob(ctx, h.uowFactory, cmd.JobID(), func(j *job.Job) error {
		return j.Complete(h.clock.Now())
	})
}

// updateJob locks a job, applies change and writes it back in one transaction.
func updateJob(ctx context.Context, uowFactory JobUoWFactory, id kernel.UUID, change func(j *job.Job) error) (job.Status, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return job.Unknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	jobs := uow.JobRepository()
	j, err := jobs.GetForUpdate(ctx, id)
	if err != nil {
		return job.Unknown, err
	}
	if err = change(j); err != nil {
		return job.Unknown, err
	}
	if err = jobs.Update(ctx, j); err != nil {
		return job.Unknown, err
	}
	if err = uow.Commit(ctx); err != nil {
		return job.Unknown, err
	}

	return j.Status(), nil
}
