package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrConfirmPickupCommandIsNotConstructed = errors.New(
	"ConfirmPickupCommand must be created via NewConfirmPickupCommand constructor",
)

// ConfirmPickupCommand starts the trip once the driver presents the pickup code.
type ConfirmPickupCommand struct {
	jobID kernel.UUID
	code  string
	guard guard.ConstructorGuard
}

func NewConfirmPickupCommand(jobID kernel.UUID, code string) (ConfirmPickupCommand, error) {
	code = strings.TrimSpace(code)
	if err := errors.Join(jobID.Validate(), job.ValidateCodeFormat(code)); err != nil {
		return ConfirmPickupCommand{}, err
	}
	return ConfirmPickupCommand{jobID: jobID, code: code, guard: guard.NewConstructorGuard()}, nil
}

func (c ConfirmPickupCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPickupCommandIsNotConstructed)
}

func (c ConfirmPickupCommand) JobID() kernel.UUID {
	return c.jobID
}

func (c ConfirmPickupCommand) Code() string {
	return c.code
}
