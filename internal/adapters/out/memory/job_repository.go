package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
)

type jobRepository struct {
	uow *UnitOfWork
}

func (r *jobRepository) Add(_ context.Context, aggregate *job.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()

	id := aggregate.ID().Bytes()
	if _, ok := r.lookup(id); ok {
		return errs.NewConflictError("job", "already exists")
	}
	return r.uow.write(func(c *changes) {
		c.jobs[id] = snapshot(aggregate, aggregate.Version())
		c.newJobs[id] = struct{}{}
	})
}

func (r *jobRepository) Update(_ context.Context, aggregate *job.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()

	id := aggregate.ID().Bytes()
	current, ok := r.lookup(id)
	if !ok {
		return errs.NewObjectNotFoundError("job", id.String())
	}
	if current.Version != aggregate.Version() {
		return errs.NewVersionIsInvalidErrorWithCause("version")
	}
	if r.codeHeldElsewhere(aggregate) {
		return errs.NewConflictError("code", "is already held by another job awaiting pickup")
	}

	if err := r.uow.write(func(c *changes) {
		if _, isNew := c.newJobs[id]; isNew {
			c.jobs[id] = snapshot(aggregate, aggregate.Version())
			return
		}
		c.jobs[id] = snapshot(aggregate, aggregate.Version()+1)
	}); err != nil {
		return err
	}

	if _, isNew := r.stagedNew(id); !isNew {
		aggregate.IncrementVersion()
	}
	return nil
}

func (r *jobRepository) Get(_ context.Context, id kernel.UUID) (*job.Job, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()

	state, ok := r.lookup(id.Bytes())
	if !ok {
		return nil, errs.NewObjectNotFoundError("job", id.String())
	}
	return job.RestoreJob(state)
}

func (r *jobRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := r.uow.lock(ctx, id.Bytes()); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *jobRepository) FindByActiveCode(_ context.Context, code string, now time.Time) (*job.Job, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()

	for id := range r.uow.store.jobs {
		state, _ := r.lookup(id)
		if state.Code != nil && state.Code.Matches(code, now) {
			return job.RestoreJob(state)
		}
	}
	if r.uow.active() {
		for _, state := range r.uow.staged.jobs {
			if state.Code != nil && state.Code.Matches(code, now) {
				return job.RestoreJob(state)
			}
		}
	}
	return nil, errs.NewObjectNotFoundError("code", "active pickup code")
}

func (r *jobRepository) ListUnstarted(_ context.Context, createdBefore time.Time, limit int) ([]kernel.UUID, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()

	var unstarted []job.State
	for id, state := range r.uow.store.jobs {
		if _, hasCycle := r.uow.store.cycles[id]; hasCycle {
			continue
		}
		if state.Status.IsOpen() && !state.CreatedAt.After(createdBefore) {
			unstarted = append(unstarted, state)
		}
	}
	slices.SortFunc(unstarted, func(a, b job.State) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	if limit > 0 && len(unstarted) > limit {
		unstarted = unstarted[:limit]
	}

	ids := make([]kernel.UUID, 0, len(unstarted))
	for _, state := range unstarted {
		ids = append(ids, state.ID)
	}
	return ids, nil
}

// codeHeldElsewhere reports whether another job awaiting pickup holds the
// aggregate's code. Callers hold store.mu.
func (r *jobRepository) codeHeldElsewhere(aggregate *job.Job) bool {
	code := aggregate.Code()
	if aggregate.Status() != job.PickingUp || code == nil {
		return false
	}
	for id := range r.uow.store.jobs {
		if id == aggregate.ID().Bytes() {
			continue
		}
		other, _ := r.lookup(id)
		if other.Status == job.PickingUp && other.Code != nil && other.Code.Value() == code.Value() {
			return true
		}
	}
	return false
}

// lookup reads a job as this unit of work sees it. Callers hold store.mu.
func (r *jobRepository) lookup(id uuid.UUID) (job.State, bool) {
	if r.uow.active() {
		if state, ok := r.uow.staged.jobs[id]; ok {
			return state, true
		}
	}
	state, ok := r.uow.store.jobs[id]
	return state, ok
}

func (r *jobRepository) stagedNew(id uuid.UUID) (struct{}, bool) {
	if !r.uow.active() {
		return struct{}{}, false
	}
	v, ok := r.uow.staged.newJobs[id]
	return v, ok
}

func snapshot(j *job.Job, version int) job.State {
	state := job.State{
		ID:           j.ID(),
		Kind:         j.Kind(),
		Requirements: j.Requirements(),
		Route:        j.Route(),
		Status:       j.Status(),
		Version:      version,
		CreatedAt:    j.CreatedAt(),
		UpdatedAt:    j.UpdatedAt(),
	}
	if a := j.Assignee(); a != nil {
		assignee := *a
		state.Assignee = &assignee
	}
	if c := j.Code(); c != nil {
		code := *c
		state.Code = &code
	}
	if p := j.Position(); p != nil {
		pos := *p
		state.Position = &pos
	}
	return state
}
