package commands

import (
	"context"

	"dispatch/internal/core/domain/model/job"
)

// CancelJobCommandHandler cancels an open job and tears its cascade down. A job
// that was already accepted fails with job.ErrJobIsAlreadyAssigned.
type CancelJobCommandHandler struct {
	dispatcher *CascadeDispatcher
}

func NewCancelJobCommandHandler(dispatcher *CascadeDispatcher) CancelJobCommandHandler {
	return CancelJobCommandHandler{dispatcher: dispatcher}
}

func (h CancelJobCommandHandler) Handle(ctx context.Context, cmd CancelJobCommand) (job.Status, error) {
	if err := cmd.Validate(); err != nil {
		return job.Unknown, err
	}
	return h.dispatcher.cancel(ctx, cmd.JobID())
}
