package commands

import (
	"context"

	"dispatch/internal/pkg/errs"
)

// AdvanceCascadeCommandHandler advances a cascade. It is idempotent: a timeout
// and a decline racing for the same candidate advance the cascade once.
type AdvanceCascadeCommandHandler struct {
	dispatcher *CascadeDispatcher
}

func NewAdvanceCascadeCommandHandler(dispatcher *CascadeDispatcher) AdvanceCascadeCommandHandler {
	return AdvanceCascadeCommandHandler{dispatcher: dispatcher}
}

// Handle reports whether the cascade moved. A stale index (the cascade already
// left it, or the job is settled) is reported as false without an error.
func (h AdvanceCascadeCommandHandler) Handle(ctx context.Context, cmd AdvanceCascadeCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	err := h.dispatcher.advance(ctx, cmd.JobID(), cmd.FromIndex(), cmd.Reason())
	if errs.IsConflict(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
