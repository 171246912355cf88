package commands

import (
	"context"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/clock"
)

// CreateJobResult is what intake reports back: the job id and the status right
// after the cascade was started. NO_CANDIDATES means the roster was empty.
type CreateJobResult struct {
	JobID  kernel.UUID
	Status job.Status
}

type cascadeStarter interface {
	Handle(ctx context.Context, cmd StartCascadeCommand) (job.Status, error)
}

// CreateJobCommandHandler persists a new job and starts its cascade.
type CreateJobCommandHandler struct {
	uowFactory JobUoWFactory
	starter    cascadeStarter
	clock      clock.Clock
}

func NewCreateJobCommandHandler(uowFactory JobUoWFactory, starter cascadeStarter, clk clock.Clock) CreateJobCommandHandler {
	return CreateJobCommandHandler{
		uowFactory: uowFactory,
		starter:    starter,
		clock:      clk,
	}
}

// Handle stores the job in its own transaction, then starts the cascade. The
// roster is resolved synchronously; notifications go out in the background.
func (h CreateJobCommandHandler) Handle(ctx context.Context, cmd CreateJobCommand) (CreateJobResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateJobResult{}, err
	}

	j, err := job.NewJob(cmd.JobID(), cmd.Kind(), cmd.Requirements(), cmd.Route(), h.clock.Now())
	if err != nil {
		return CreateJobResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return CreateJobResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.JobRepository().Add(ctx, j); err != nil {
		return CreateJobResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CreateJobResult{}, err
	}

	startCmd, err := NewStartCascadeCommand(j.ID())
	if err != nil {
		return CreateJobResult{}, err
	}
	status, err := h.starter.Handle(ctx, startCmd)
	if err != nil {
		return CreateJobResult{JobID: j.ID(), Status: j.Status()}, err
	}

	return CreateJobResult{JobID: j.ID(), Status: status}, nil
}
