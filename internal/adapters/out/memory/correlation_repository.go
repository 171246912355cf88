package memory

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/correlation"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

type correlationRepository struct {
	uow *UnitOfWork
}

func (r *correlationRepository) Put(_ context.Context, entry correlation.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	return r.uow.write(func(c *changes) {
		c.correlations[entry.Contact().String()] = &entry
	})
}

func (r *correlationRepository) Resolve(
	_ context.Context,
	contact kernel.ContactAddress,
	now time.Time,
) (correlation.Entry, error) {
	if err := contact.Validate(); err != nil {
		return correlation.Entry{}, err
	}

	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()

	entry, ok := r.lookup(contact.String())
	if !ok {
		return correlation.Entry{}, errs.NewObjectNotFoundError("correlation", contact.String())
	}
	if entry.IsExpired(now) {
		if err := r.uow.write(func(c *changes) {
			c.correlations[contact.String()] = nil
		}); err != nil {
			return correlation.Entry{}, err
		}
		return correlation.Entry{}, errs.NewObjectNotFoundError("correlation", contact.String())
	}
	return entry, nil
}

func (r *correlationRepository) Remove(_ context.Context, contact kernel.ContactAddress) error {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	return r.uow.write(func(c *changes) {
		c.correlations[contact.String()] = nil
	})
}

func (r *correlationRepository) RemoveIfJob(_ context.Context, contact kernel.ContactAddress, jobID kernel.UUID) error {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()

	entry, ok := r.lookup(contact.String())
	if !ok || !entry.JobID().IsEqual(jobID) {
		return nil
	}
	return r.uow.write(func(c *changes) {
		c.correlations[contact.String()] = nil
	})
}

func (r *correlationRepository) SweepExpired(_ context.Context, now time.Time) (int64, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()

	var expired []string
	for contact := range r.uow.store.correlations {
		if entry, ok := r.lookup(contact); ok && entry.IsExpired(now) {
			expired = append(expired, contact)
		}
	}
	if err := r.uow.write(func(c *changes) {
		for _, contact := range expired {
			c.correlations[contact] = nil
		}
	}); err != nil {
		return 0, err
	}
	return int64(len(expired)), nil
}

// lookup reads an entry as this unit of work sees it. Callers hold store.mu.
func (r *correlationRepository) lookup(contact string) (correlation.Entry, bool) {
	if r.uow.active() {
		if entry, staged := r.uow.staged.correlations[contact]; staged {
			if entry == nil {
				return correlation.Entry{}, false
			}
			return *entry, true
		}
	}
	entry, ok := r.uow.store.correlations[contact]
	return entry, ok
}
