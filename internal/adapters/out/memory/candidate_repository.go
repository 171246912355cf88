package memory

import (
	"context"

	"dispatch/internal/core/domain/model/candidate"
)

type candidateRepository struct {
	uow *UnitOfWork
}

func (r *candidateRepository) Add(_ context.Context, c candidate.Candidate, available bool) error {
	if err := c.Validate(); err != nil {
		return err
	}

	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	return r.uow.write(func(ch *changes) {
		ch.candidates = append(ch.candidates, candidateRecord{candidate: c, available: available})
	})
}

func (r *candidateRepository) ListAvailable(_ context.Context, regionID string) ([]candidate.Candidate, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()

	records := r.uow.store.candidates
	if r.uow.active() {
		records = append([]candidateRecord(nil), records...)
		for _, rec := range r.uow.staged.candidates {
			records = withCandidate(records, rec)
		}
	}

	result := make([]candidate.Candidate, 0, len(records))
	for _, rec := range records {
		if rec.available && rec.candidate.RegionID() == regionID {
			result = append(result, rec.candidate)
		}
	}
	return result, nil
}
