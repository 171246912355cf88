package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/cascade"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAdvanceCascadeCommandIsNotConstructed = errors.New(
	"AdvanceCascadeCommand must be created via NewAdvanceCascadeCommand constructor",
)

// AdvanceCascadeCommand moves a cascade past the candidate at FromIndex.
type AdvanceCascadeCommand struct {
	jobID     kernel.UUID
	fromIndex int
	reason    cascade.Reason
	guard     guard.ConstructorGuard
}

func NewAdvanceCascadeCommand(jobID kernel.UUID, fromIndex int, reason cascade.Reason) (AdvanceCascadeCommand, error) {
	var indexErr, reasonErr error
	if fromIndex < 0 {
		indexErr = errs.NewValueIsOutOfRangeError("fromIndex", fromIndex, 0, "roster size")
	}
	switch reason {
	case cascade.ReasonTimeout, cascade.ReasonDecline, cascade.ReasonGatewayFailure:
	default:
		reasonErr = errs.NewValueIsInvalidError("reason")
	}
	if err := errors.Join(jobID.Validate(), indexErr, reasonErr); err != nil {
		return AdvanceCascadeCommand{}, err
	}

	return AdvanceCascadeCommand{
		jobID:     jobID,
		fromIndex: fromIndex,
		reason:    reason,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AdvanceCascadeCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceCascadeCommandIsNotConstructed)
}

func (c AdvanceCascadeCommand) JobID() kernel.UUID {
	return c.jobID
}

func (c AdvanceCascadeCommand) FromIndex() int {
	return c.fromIndex
}

func (c AdvanceCascadeCommand) Reason() cascade.Reason {
	return c.reason
}
