package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrIssueCodeCommandIsNotConstructed = errors.New(
	"IssueCodeCommand must be created via NewIssueCodeCommand constructor",
)

// IssueCodeCommand asks for a fresh pickup code for an accepted job.
type IssueCodeCommand struct {
	jobID kernel.UUID
	guard guard.ConstructorGuard
}

func NewIssueCodeCommand(jobID kernel.UUID) (IssueCodeCommand, error) {
	if err := jobID.Validate(); err != nil {
		return IssueCodeCommand{}, err
	}
	return IssueCodeCommand{jobID: jobID, guard: guard.NewConstructorGuard()}, nil
}

func (c IssueCodeCommand) Validate() error {
	return c.guard.Validate(ErrIssueCodeCommandIsNotConstructed)
}

func (c IssueCodeCommand) JobID() kernel.UUID {
	return c.jobID
}
