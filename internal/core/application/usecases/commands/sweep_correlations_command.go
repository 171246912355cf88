package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrSweepCorrelationsCommandIsNotConstructed = errors.New(
	"SweepCorrelationsCommand must be created via NewSweepCorrelationsCommand constructor",
)

// SweepCorrelationsCommand removes expired correlation entries.
type SweepCorrelationsCommand struct {
	guard guard.ConstructorGuard
}

func NewSweepCorrelationsCommand() SweepCorrelationsCommand {
	return SweepCorrelationsCommand{guard: guard.NewConstructorGuard()}
}

func (c SweepCorrelationsCommand) Validate() error {
	return c.guard.Validate(ErrSweepCorrelationsCommandIsNotConstructed)
}
