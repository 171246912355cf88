package commands

import (
	"context"
)

// RegisterCandidateCommandHandler stores a candidate in the roster. Cascades
// already running keep their snapshot.
type RegisterCandidateCommandHandler struct {
	uowFactory CandidateUoWFactory
}

func NewRegisterCandidateCommandHandler(uowFactory CandidateUoWFactory) RegisterCandidateCommandHandler {
	return RegisterCandidateCommandHandler{uowFactory: uowFactory}
}

func (h RegisterCandidateCommandHandler) Handle(ctx context.Context, cmd RegisterCandidateCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.CandidateRepository().Add(ctx, cmd.Candidate(), cmd.Available()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
