package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCancelJobCommandIsNotConstructed = errors.New(
	"CancelJobCommand must be created via NewCancelJobCommand constructor",
)

// CancelJobCommand withdraws a job nobody has accepted yet.
type CancelJobCommand struct {
	jobID kernel.UUID
	guard guard.ConstructorGuard
}

func NewCancelJobCommand(jobID kernel.UUID) (CancelJobCommand, error) {
	if err := jobID.Validate(); err != nil {
		return CancelJobCommand{}, err
	}
	return CancelJobCommand{jobID: jobID, guard: guard.NewConstructorGuard()}, nil
}

func (c CancelJobCommand) Validate() error {
	return c.guard.Validate(ErrCancelJobCommandIsNotConstructed)
}

func (c CancelJobCommand) JobID() kernel.UUID {
	return c.jobID
}
