package commands

import (
	"context"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/pkg/clock"
)

// ConfirmPickupCommandHandler moves a PickingUp job to InProgress when the code
// is the job's current, unexpired one. The code is not consumed.
type ConfirmPickupCommandHandler struct {
	uowFactory JobUoWFactory
	clock      clock.Clock
}

func NewConfirmPickupCommandHandler(uowFactory JobUoWFactory, clk clock.Clock) ConfirmPickupCommandHandler {
	return ConfirmPickupCommandHandler{uowFactory: uowFactory, clock: clk}
}

func (h ConfirmPickupCommandHandler) Handle(ctx context.Context, cmd ConfirmPickupCommand) (job.Status, error) {
	if err := cmd.Validate(); err != nil {
		return job.Unknown, err
	}
	return updateJob(ctx, h.uowFactory, cmd.JobID(), func(j *job.Job) error {
		return j.ConfirmPickup(cmd.Code(), h.clock.Now())
	})
}
