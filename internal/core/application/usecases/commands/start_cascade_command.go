package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrStartCascadeCommandIsNotConstructed = errors.New(
	"StartCascadeCommand must be created via NewStartCascadeCommand constructor",
)

// StartCascadeCommand resolves the roster of a job and notifies its first candidate.
type StartCascadeCommand struct {
	jobID kernel.UUID
	guard guard.ConstructorGuard
}

func NewStartCascadeCommand(jobID kernel.UUID) (StartCascadeCommand, error) {
	if err := jobID.Validate(); err != nil {
		return StartCascadeCommand{}, err
	}
	return StartCascadeCommand{jobID: jobID, guard: guard.NewConstructorGuard()}, nil
}

func (c StartCascadeCommand) Validate() error {
	return c.guard.Validate(ErrStartCascadeCommandIsNotConstructed)
}

func (c StartCascadeCommand) JobID() kernel.UUID {
	return c.jobID
}
