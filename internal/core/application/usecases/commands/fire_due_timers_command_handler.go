package commands

import (
	"context"
)

// FireDueTimersCommandHandler is the durable timer of the cascade. Any worker
// may run it; the job lock and the due check under that lock make concurrent
// pollers fire each timer once.
type FireDueTimersCommandHandler struct {
	dispatcher *CascadeDispatcher
}

func NewFireDueTimersCommandHandler(dispatcher *CascadeDispatcher) FireDueTimersCommandHandler {
	return FireDueTimersCommandHandler{dispatcher: dispatcher}
}

// Handle returns how many cascades advanced or were restarted after a failed
// start.
func (h FireDueTimersCommandHandler) Handle(ctx context.Context, cmd FireDueTimersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	return h.dispatcher.fireDueTimers(ctx, cmd.Limit())
}
