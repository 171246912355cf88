// Package commands contains the operations that change dispatch state.
// Every handler validates its command, opens a unit of work, locks the job it
// touches and commits; gateway calls never run inside a transaction.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// JobRepoFactory provides access to the job repository within a transaction.
	JobRepoFactory interface {
		JobRepository() ports.JobRepository
	}

	// CycleRepoFactory provides access to the cascade cycle repository within a transaction.
	CycleRepoFactory interface {
		CycleRepository() ports.CycleRepository
	}

	// CorrelationRepoFactory provides access to the correlation store within a transaction.
	CorrelationRepoFactory interface {
		CorrelationRepository() ports.CorrelationRepository
	}

	// CandidateRepoFactory provides access to the roster within a transaction.
	CandidateRepoFactory interface {
		CandidateRepository() ports.CandidateRepository
	}

	// JobUoW manages transactions for job-only operations such as the pickup code gate.
	JobUoW interface {
		TxManager
		JobRepoFactory
	}

	// JobUoWFactory creates new job unit of work instances.
	JobUoWFactory interface {
		Create() JobUoW
	}

	// CandidateUoW manages transactions for roster maintenance.
	CandidateUoW interface {
		TxManager
		CandidateRepoFactory
	}

	// CandidateUoWFactory creates new candidate unit of work instances.
	CandidateUoWFactory interface {
		Create() CandidateUoW
	}

	// UoW spans everything the cascade touches: the job, its cycle, the
	// correlation entries and the roster.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   j, err := uow.JobRepository().GetForUpdate(ctx, jobID)
	//   cycle, err := uow.CycleRepository().Get(ctx, jobID)
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		JobRepoFactory
		CycleRepoFactory
		CorrelationRepoFactory
		CandidateRepoFactory
	}

	// UoWFactory creates new unit of work instances for cascade operations.
	UoWFactory interface {
		Create() UoW
	}
)
