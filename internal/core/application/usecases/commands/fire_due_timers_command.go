package commands

import (
	"errors"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// DefaultDueTimersBatch bounds how many cycles one poll fires.
const DefaultDueTimersBatch = 100

var ErrFireDueTimersCommandIsNotConstructed = errors.New(
	"FireDueTimersCommand must be created via NewFireDueTimersCommand constructor",
)

// FireDueTimersCommand advances every cascade whose timer deadline has passed.
type FireDueTimersCommand struct {
	limit int
	guard guard.ConstructorGuard
}

func NewFireDueTimersCommand(limit int) (FireDueTimersCommand, error) {
	if limit <= 0 {
		return FireDueTimersCommand{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "any")
	}
	return FireDueTimersCommand{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (c FireDueTimersCommand) Validate() error {
	return c.guard.Validate(ErrFireDueTimersCommandIsNotConstructed)
}

func (c FireDueTimersCommand) Limit() int {
	return c.limit
}
