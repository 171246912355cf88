package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCompleteJobCommandIsNotConstructed = errors.New(
	"CompleteJobCommand must be created via NewCompleteJobCommand constructor",
)

// CompleteJobCommand finishes a trip in progress.
type CompleteJobCommand struct {
	jobID kernel.UUID
	guard guard.ConstructorGuard
}

func NewCompleteJobCommand(jobID kernel.UUID) (CompleteJobCommand, error) {
	if err := jobID.Validate(); err != nil {
		return CompleteJobCommand{}, err
	}
	return CompleteJobCommand{jobID: jobID, guard: guard.NewConstructorGuard()}, nil
}

func (c CompleteJobCommand) Validate() error {
	return c.guard.Validate(ErrCompleteJobCommandIsNotConstructed)
}

func (c CompleteJobCommand) JobID() kernel.UUID {
	return c.jobID
}
