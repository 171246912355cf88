package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork for every command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Repositories obtained from it
// after Begin share its transaction; locks taken through them are held until
// Commit or Rollback.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	// Rollback after a successful Commit is a no-op returning an error, so
	// handlers may always defer it.
	Rollback(ctx context.Context) error

	JobRepository() JobRepository
	CycleRepository() CycleRepository
	CorrelationRepository() CorrelationRepository
	CandidateRepository() CandidateRepository
}
