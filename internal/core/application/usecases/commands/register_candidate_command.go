package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/candidate"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRegisterCandidateCommandIsNotConstructed = errors.New(
	"RegisterCandidateCommand must be created via NewRegisterCandidateCommand constructor",
)

// RegisterCandidateCommand adds a driver to the local roster.
type RegisterCandidateCommand struct {
	candidate candidate.Candidate
	available bool
	guard     guard.ConstructorGuard
}

func NewRegisterCandidateCommand(
	id kernel.UUID,
	contact string,
	displayName string,
	regionID string,
	class candidate.Class,
	available bool,
) (RegisterCandidateCommand, error) {
	addr, err := kernel.NewContactAddress(contact)
	if err != nil {
		return RegisterCandidateCommand{}, err
	}
	c, err := candidate.NewCandidate(id, addr, displayName, regionID, class)
	if err != nil {
		return RegisterCandidateCommand{}, err
	}
	return RegisterCandidateCommand{candidate: c, available: available, guard: guard.NewConstructorGuard()}, nil
}

func (c RegisterCandidateCommand) Validate() error {
	return c.guard.Validate(ErrRegisterCandidateCommandIsNotConstructed)
}

func (c RegisterCandidateCommand) Candidate() candidate.Candidate {
	return c.candidate
}

func (c RegisterCandidateCommand) Available() bool {
	return c.available
}
