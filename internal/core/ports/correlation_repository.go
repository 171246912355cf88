package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/correlation"
	"dispatch/internal/core/domain/model/kernel"
)

// CorrelationRepository maps contact addresses to the job they were last notified about.
type CorrelationRepository interface {
	// Put writes the entry, replacing any previous entry of the same contact.
	Put(ctx context.Context, entry correlation.Entry) error

	// Resolve returns the live entry of contact. An entry expired at now is
	// reported as errs.ObjectNotFoundError and deleted on the way.
	Resolve(ctx context.Context, contact kernel.ContactAddress, now time.Time) (correlation.Entry, error)

	// Remove deletes the entry of contact, if any.
	Remove(ctx context.Context, contact kernel.ContactAddress) error

	// RemoveIfJob deletes the entry of contact only while it still points at jobID,
	// so an entry written for a newer job survives.
	RemoveIfJob(ctx context.Context, contact kernel.ContactAddress, jobID kernel.UUID) error

	// SweepExpired deletes every entry expired at now and returns how many were removed.
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}
