package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrUpdatePositionCommandIsNotConstructed = errors.New(
	"UpdatePositionCommand must be created via NewUpdatePositionCommand constructor",
)

// UpdatePositionCommand carries a live position reported by the assigned driver.
type UpdatePositionCommand struct {
	jobID    kernel.UUID
	contact  kernel.ContactAddress
	position kernel.Position
	guard    guard.ConstructorGuard
}

func NewUpdatePositionCommand(
	jobID kernel.UUID,
	contact string,
	lat float64,
	lon float64,
	reportedAt time.Time,
) (UpdatePositionCommand, error) {
	addr, contactErr := kernel.NewContactAddress(contact)
	pos, posErr := kernel.NewPosition(lat, lon, reportedAt)
	if err := errors.Join(jobID.Validate(), contactErr, posErr); err != nil {
		return UpdatePositionCommand{}, err
	}

	return UpdatePositionCommand{
		jobID:    jobID,
		contact:  addr,
		position: pos,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UpdatePositionCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePositionCommandIsNotConstructed)
}

func (c UpdatePositionCommand) JobID() kernel.UUID {
	return c.jobID
}

func (c UpdatePositionCommand) Contact() kernel.ContactAddress {
	return c.contact
}

func (c UpdatePositionCommand) Position() kernel.Position {
	return c.position
}
