// Package ports defines the contracts between the dispatch core and its
// infrastructure: persistence, the roster source, the notification gateway
// and observability.
package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
)

// JobReader is the read side of job persistence, used by queries.
type JobReader interface {
	// Get retrieves a job by id. Unknown ids yield errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*job.Job, error)

	// FindByActiveCode retrieves the job whose current pickup code equals code and
	// has not expired at now. Anything else yields errs.ObjectNotFoundError.
	FindByActiveCode(ctx context.Context, code string, now time.Time) (*job.Job, error)
}

// JobRepository defines the persistence contract for job aggregates.
type JobRepository interface {
	JobReader

	// Add persists a new job.
	Add(ctx context.Context, aggregate *job.Job) error

	// Update persists a changed job as a compare-and-set on its version. When the
	// stored version differs it fails with errs.VersionIsInvalidError and writes
	// nothing; on success the aggregate's version is incremented. A pickup code
	// already held by another job awaiting pickup fails with errs.ConflictError.
	Update(ctx context.Context, aggregate *job.Job) error

	// GetForUpdate retrieves a job and locks it until the surrounding transaction
	// ends. Every mutation of a job or its cascade goes through this lock, which
	// serializes work per job while leaving other jobs untouched.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*job.Job, error)

	// ListUnstarted returns open jobs created at or before createdBefore that
	// have no cascade cycle, oldest first. Such a job was committed but its
	// cascade never started. A limit of zero or less means no limit.
	ListUnstarted(ctx context.Context, createdBefore time.Time, limit int) ([]kernel.UUID, error)
}
