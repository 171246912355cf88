package commands

import (
	"context"

	"dispatch/internal/core/domain/model/job"
)

// StartCascadeCommandHandler starts the cascade of a job.
//
// An empty roster ends the job with NoCandidates straight away: no timer is
// armed and the gateway is never called. Starting a job whose cascade already
// runs, or that is already settled, changes nothing and reports its status.
type StartCascadeCommandHandler struct {
	dispatcher *CascadeDispatcher
}

func NewStartCascadeCommandHandler(dispatcher *CascadeDispatcher) StartCascadeCommandHandler {
	return StartCascadeCommandHandler{dispatcher: dispatcher}
}

func (h StartCascadeCommandHandler) Handle(ctx context.Context, cmd StartCascadeCommand) (job.Status, error) {
	if err := cmd.Validate(); err != nil {
		return job.Unknown, err
	}
	return h.dispatcher.start(ctx, cmd.JobID())
}
