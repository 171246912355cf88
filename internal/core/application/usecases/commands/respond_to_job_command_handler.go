package commands

import (
	"context"
)

// RespondToJobCommandHandler applies a candidate's REVIEW, ACCEPT or DECLINE.
//
// Business rules:
//   - REVIEW marks the job as being looked at; the timer keeps running
//   - ACCEPT wins only for the current candidate of a Pending or Reviewing job;
//     the winner's accept deletes the cycle, which cancels the timer
//   - DECLINE removes the contact's correlation and advances the cascade when the
//     contact is the current candidate
//   - losing a race, a stale answer and an unknown contact are reported in the
//     Outcome, never as errors
type RespondToJobCommandHandler struct {
	dispatcher *CascadeDispatcher
}

func NewRespondToJobCommandHandler(dispatcher *CascadeDispatcher) RespondToJobCommandHandler {
	return RespondToJobCommandHandler{dispatcher: dispatcher}
}

func (h RespondToJobCommandHandler) Handle(ctx context.Context, cmd RespondToJobCommand) (Outcome, error) {
	if err := cmd.Validate(); err != nil {
		return Outcome{}, err
	}
	return h.dispatcher.respond(ctx, cmd.Contact(), cmd.Action(), cmd.JobID())
}
