package memory

import (
	"context"
	"errors"

	"dispatch/internal/core/ports"

	"github.com/google/uuid"
)

var ErrNoActiveTransaction = errors.New("memory: no active transaction")

// UnitOfWorkFactory creates units of work over one Store.
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork stages writes between Begin and Commit. Without Begin every write
// is applied immediately, which is what read paths and the sweeper use.
type UnitOfWork struct {
	store  *Store
	staged *changes
	held   []uuid.UUID
}

func (uow *UnitOfWork) Begin(_ context.Context) error {
	if uow.staged != nil {
		return nil
	}
	uow.staged = newChanges()
	return nil
}

func (uow *UnitOfWork) Commit(_ context.Context) error {
	if uow.staged == nil {
		return ErrNoActiveTransaction
	}
	defer uow.finish()

	uow.store.mu.Lock()
	defer uow.store.mu.Unlock()
	return uow.store.apply(uow.staged)
}

func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if uow.staged == nil {
		return ErrNoActiveTransaction
	}
	uow.finish()
	return nil
}

func (uow *UnitOfWork) finish() {
	uow.staged = nil
	for _, key := range uow.held {
		uow.store.locks.release(key)
	}
	uow.held = nil
}

func (uow *UnitOfWork) active() bool {
	return uow.staged != nil
}

// lock takes the per-job lock once per unit of work.
func (uow *UnitOfWork) lock(ctx context.Context, key uuid.UUID) error {
	if !uow.active() {
		return nil
	}
	for _, held := range uow.held {
		if held == key {
			return nil
		}
	}
	if err := uow.store.locks.acquire(ctx, key); err != nil {
		return err
	}
	uow.held = append(uow.held, key)
	return nil
}

// write stages fn's changes, or applies them at once outside a transaction.
// Callers hold store.mu.
func (uow *UnitOfWork) write(fn func(c *changes)) error {
	if uow.active() {
		fn(uow.staged)
		return nil
	}
	c := newChanges()
	fn(c)
	return uow.store.apply(c)
}

func (uow *UnitOfWork) JobRepository() ports.JobRepository {
	return &jobRepository{uow: uow}
}

func (uow *UnitOfWork) CycleRepository() ports.CycleRepository {
	return &cycleRepository{uow: uow}
}

func (uow *UnitOfWork) CorrelationRepository() ports.CorrelationRepository {
	return &correlationRepository{uow: uow}
}

func (uow *UnitOfWork) CandidateRepository() ports.CandidateRepository {
	return &candidateRepository{uow: uow}
}
