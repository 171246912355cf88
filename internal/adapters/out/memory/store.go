// Package memory keeps dispatch state in process memory. It implements the same
// ports as the postgres adapter, including per-job locking and version
// compare-and-set, and is meant for local runs and scenario tests.
//
// A unit of work stages its writes and applies them atomically on Commit.
// GetForUpdate takes a per-job lock that is held until Commit or Rollback;
// the lock is reentrant within one unit of work.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/candidate"
	"dispatch/internal/core/domain/model/cascade"
	"dispatch/internal/core/domain/model/correlation"
	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
)

// Store holds the committed state shared by every unit of work.
type Store struct {
	mu           sync.Mutex
	jobs         map[uuid.UUID]job.State
	cycles       map[uuid.UUID]cycleRecord
	correlations map[string]correlation.Entry
	candidates   []candidateRecord

	locks *keyedLock
}

type cycleRecord struct {
	candidates []candidate.Candidate
	index      int
	timer      cascade.Timer
	updatedAt  time.Time
}

type candidateRecord struct {
	candidate candidate.Candidate
	available bool
}

func NewStore() *Store {
	return &Store{
		jobs:         make(map[uuid.UUID]job.State),
		cycles:       make(map[uuid.UUID]cycleRecord),
		correlations: make(map[string]correlation.Entry),
		locks:        newKeyedLock(),
	}
}

// changes is a set of staged writes. A nil cycle or entry is a delete.
type changes struct {
	jobs         map[uuid.UUID]job.State
	newJobs      map[uuid.UUID]struct{}
	cycles       map[uuid.UUID]*cycleRecord
	correlations map[string]*correlation.Entry
	candidates   []candidateRecord
}

func newChanges() *changes {
	return &changes{
		jobs:         make(map[uuid.UUID]job.State),
		newJobs:      make(map[uuid.UUID]struct{}),
		cycles:       make(map[uuid.UUID]*cycleRecord),
		correlations: make(map[string]*correlation.Entry),
	}
}

// apply checks every staged job version against the committed one and writes
// all changes, or nothing. Callers hold s.mu.
func (s *Store) apply(c *changes) error {
	for id, state := range c.jobs {
		current, exists := s.jobs[id]
		_, isNew := c.newJobs[id]
		switch {
		case isNew && exists:
			return errs.NewConflictError("job", "already exists")
		case !isNew && !exists:
			return errs.NewObjectNotFoundError("job", id.String())
		case !isNew && current.Version != state.Version-1:
			return errs.NewVersionIsInvalidError("version",
				fmt.Errorf("job %s was changed concurrently", id))
		}
		if holder, held := s.activeCodeHolder(state); held && holder != id {
			if _, staged := c.jobs[holder]; !staged {
				return errs.NewConflictError("code", "is already held by another job awaiting pickup")
			}
		}
	}

	for id, state := range c.jobs {
		s.jobs[id] = state
	}
	for id, rec := range c.cycles {
		if rec == nil {
			delete(s.cycles, id)
			continue
		}
		s.cycles[id] = *rec
	}
	for contact, entry := range c.correlations {
		if entry == nil {
			delete(s.correlations, contact)
			continue
		}
		s.correlations[contact] = *entry
	}
	for _, rec := range c.candidates {
		s.candidates = withCandidate(s.candidates, rec)
	}
	return nil
}

// activeCodeHolder finds a committed job awaiting pickup with the same code as
// state. Callers hold s.mu.
func (s *Store) activeCodeHolder(state job.State) (uuid.UUID, bool) {
	if state.Status != job.PickingUp || state.Code == nil {
		return uuid.UUID{}, false
	}
	for id, other := range s.jobs {
		if other.Status == job.PickingUp && other.Code != nil && other.Code.Value() == state.Code.Value() {
			return id, true
		}
	}
	return uuid.UUID{}, false
}

// withCandidate replaces a candidate with the same contact, or appends.
func withCandidate(list []candidateRecord, rec candidateRecord) []candidateRecord {
	for i := range list {
		if list[i].candidate.Contact().IsEqual(rec.candidate.Contact()) {
			list[i] = rec
			return list
		}
	}
	return append(list, rec)
}

// keyedLock is a set of per-key mutexes whose acquisition honours context
// cancellation.
type keyedLock struct {
	mu    sync.Mutex
	slots map[uuid.UUID]chan struct{}
}

func newKeyedLock() *keyedLock {
	return &keyedLock{slots: make(map[uuid.UUID]chan struct{})}
}

func (l *keyedLock) slot(key uuid.UUID) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[key]
	if !ok {
		s = make(chan struct{}, 1)
		l.slots[key] = s
	}
	return s
}

func (l *keyedLock) acquire(ctx context.Context, key uuid.UUID) error {
	select {
	case l.slot(key) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *keyedLock) release(key uuid.UUID) {
	<-l.slot(key)
}
