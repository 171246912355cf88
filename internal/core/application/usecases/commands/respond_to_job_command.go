package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/cascade"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRespondToJobCommandIsNotConstructed = errors.New(
	"RespondToJobCommand must be created via NewRespondToJobCommand constructor",
)

// RespondToJobCommand is a candidate's answer as delivered by the gateway webhook.
// The job id is optional; without it the job is found through the contact's
// correlation entry.
//
// Example:
//
//	cmd, err := NewRespondToJobCommand("whatsapp:+1 555 0100", "accept", "")
//	if err != nil {
//	    return err // unknown actions are rejected here
//	}
//	outcome, err := handler.Handle(ctx, cmd)
//	if outcome.Result == cascade.ResultAlreadyAssigned {
//	    // somebody else was faster
//	}
type RespondToJobCommand struct { //nolint:recvcheck //using for validation
	contact kernel.ContactAddress
	action  cascade.Action
	jobID   *kernel.UUID

	guard guard.ConstructorGuard
}

func NewRespondToJobCommand(contact string, action string, jobID string) (RespondToJobCommand, error) {
	cmd := RespondToJobCommand{guard: guard.NewConstructorGuard()}

	addr, contactErr := kernel.NewContactAddress(contact)
	parsed, actionErr := cascade.ParseAction(action)
	if err := errors.Join(contactErr, actionErr, cmd.setJobID(jobID)); err != nil {
		return RespondToJobCommand{}, err
	}

	cmd.contact = addr
	cmd.action = parsed
	return cmd, nil
}

func (c RespondToJobCommand) Validate() error {
	return c.guard.Validate(ErrRespondToJobCommandIsNotConstructed)
}

func (c RespondToJobCommand) Contact() kernel.ContactAddress {
	return c.contact
}

func (c RespondToJobCommand) Action() cascade.Action {
	return c.action
}

// JobID returns the explicit job id, nil when the response relies on correlation.
func (c RespondToJobCommand) JobID() *kernel.UUID {
	return c.jobID
}

func (c *RespondToJobCommand) setJobID(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return err
	}
	c.jobID = &id
	return nil
}
