package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/cascade"
	"dispatch/internal/core/domain/model/kernel"
)

// CycleRepository stores the durable cascade state, one cycle per open job.
// Callers hold the job lock (JobRepository.GetForUpdate) while they change a cycle.
type CycleRepository interface {
	// Save inserts or replaces the cycle of its job.
	Save(ctx context.Context, cycle *cascade.Cycle) error

	// Get retrieves the cycle of a job. A job without a running cascade yields
	// errs.ObjectNotFoundError.
	Get(ctx context.Context, jobID kernel.UUID) (*cascade.Cycle, error)

	// Delete removes the cycle, which also cancels its timer. Deleting a missing
	// cycle is not an error.
	Delete(ctx context.Context, jobID kernel.UUID) error

	// ListDue returns at most limit cycles whose timer deadline is at or before now,
	// oldest deadline first.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*cascade.Cycle, error)
}
