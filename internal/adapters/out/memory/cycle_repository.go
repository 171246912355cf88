package memory

import (
	"context"
	"slices"
	"time"

	"dispatch/internal/core/domain/model/cascade"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
)

type cycleRepository struct {
	uow *UnitOfWork
}

func (r *cycleRepository) Save(_ context.Context, cycle *cascade.Cycle) error {
	if err := cycle.Validate(); err != nil {
		return err
	}

	rec := &cycleRecord{
		candidates: cycle.Candidates(),
		index:      cycle.Index(),
		timer:      cycle.Timer(),
		updatedAt:  cycle.UpdatedAt(),
	}

	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	return r.uow.write(func(c *changes) {
		c.cycles[cycle.JobID().Bytes()] = rec
	})
}

func (r *cycleRepository) Get(_ context.Context, jobID kernel.UUID) (*cascade.Cycle, error) {
	if err := jobID.Validate(); err != nil {
		return nil, err
	}

	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()

	rec, ok := r.lookup(jobID.Bytes())
	if !ok {
		return nil, errs.NewObjectNotFoundError("cycle", jobID.String())
	}
	return restoreCycle(jobID.Bytes(), rec)
}

func (r *cycleRepository) Delete(_ context.Context, jobID kernel.UUID) error {
	if err := jobID.Validate(); err != nil {
		return err
	}

	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	return r.uow.write(func(c *changes) {
		c.cycles[jobID.Bytes()] = nil
	})
}

func (r *cycleRepository) ListDue(_ context.Context, now time.Time, limit int) ([]*cascade.Cycle, error) {
	r.uow.store.mu.Lock()
	type due struct {
		id  uuid.UUID
		rec cycleRecord
	}
	var found []due
	for id := range r.uow.store.cycles {
		if rec, ok := r.lookup(id); ok && !now.Before(rec.timer.Deadline) {
			found = append(found, due{id: id, rec: rec})
		}
	}
	r.uow.store.mu.Unlock()

	slices.SortFunc(found, func(a, b due) int {
		if c := a.rec.timer.Deadline.Compare(b.rec.timer.Deadline); c != 0 {
			return c
		}
		return slices.Compare(a.id[:], b.id[:])
	})
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}

	cycles := make([]*cascade.Cycle, 0, len(found))
	for _, d := range found {
		cycle, err := restoreCycle(d.id, d.rec)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, cycle)
	}
	return cycles, nil
}

// lookup reads a cycle as this unit of work sees it. Callers hold store.mu.
func (r *cycleRepository) lookup(id uuid.UUID) (cycleRecord, bool) {
	if r.uow.active() {
		if rec, staged := r.uow.staged.cycles[id]; staged {
			if rec == nil {
				return cycleRecord{}, false
			}
			return *rec, true
		}
	}
	rec, ok := r.uow.store.cycles[id]
	return rec, ok
}

func restoreCycle(id uuid.UUID, rec cycleRecord) (*cascade.Cycle, error) {
	jobID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	return cascade.RestoreCycle(jobID, rec.candidates, rec.index, rec.timer, rec.updatedAt)
}
