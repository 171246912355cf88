package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateJobCommandIsNotConstructed = errors.New(
	"CreateJobCommand must be created via NewCreateJobCommand constructor",
)

// CreateJobCommand is the job intake: a delivery or ride that needs a driver.
//
// Example:
//
//	cmd, err := NewCreateJobCommand(kernel.NewUUID(), "RIDE", "north", "car", "sedan", "1 Main St", "2 Side St")
//	if err != nil {
//	    return fmt.Errorf("invalid job: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type CreateJobCommand struct { //nolint:recvcheck //using for validation
	jobID        kernel.UUID
	kind         job.Kind
	requirements job.Requirements
	route        job.Route

	guard guard.ConstructorGuard
}

func NewCreateJobCommand(
	jobID kernel.UUID,
	kind string,
	regionID string,
	category string,
	vehicleClass string,
	pickup string,
	dropoff string,
) (CreateJobCommand, error) {
	cmd := CreateJobCommand{guard: guard.NewConstructorGuard()}

	parsedKind, kindErr := job.ParseKind(kind)
	var reqErr error
	if kindErr == nil {
		cmd.requirements, reqErr = job.NewRequirements(parsedKind, regionID, category, vehicleClass)
	}
	cmd.kind = parsedKind

	if err := errors.Join(
		cmd.setJobID(jobID),
		kindErr,
		reqErr,
		cmd.setRoute(pickup, dropoff),
	); err != nil {
		return CreateJobCommand{}, err
	}

	return cmd, nil
}

func (c CreateJobCommand) Validate() error {
	return c.guard.Validate(ErrCreateJobCommandIsNotConstructed)
}

func (c CreateJobCommand) JobID() kernel.UUID {
	return c.jobID
}

func (c CreateJobCommand) Kind() job.Kind {
	return c.kind
}

func (c CreateJobCommand) Requirements() job.Requirements {
	return c.requirements
}

func (c CreateJobCommand) Route() job.Route {
	return c.route
}

func (c *CreateJobCommand) setJobID(jobID kernel.UUID) error {
	if err := jobID.Validate(); err != nil {
		return err
	}
	c.jobID = jobID
	return nil
}

func (c *CreateJobCommand) setRoute(pickup, dropoff string) error {
	pickup = strings.TrimSpace(pickup)
	if pickup == "" {
		return errs.NewValueIsRequiredError("pickup")
	}
	c.route = job.Route{Pickup: pickup, Dropoff: strings.TrimSpace(dropoff)}
	return nil
}
