// Package cyclerepo stores running cascades, one row per open job. The
// deadline column doubles as the durable timer queue polled by the scheduler.
package cyclerepo

import (
	"time"

	"dispatch/internal/adapters/out/postgres/candidaterepo"
	"dispatch/internal/core/domain/model/candidate"
	"dispatch/internal/core/domain/model/cascade"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type CycleDTO struct {
	JobID        uuid.UUID                `gorm:"type:uuid;primaryKey"`
	Candidates   []candidaterepo.Snapshot `gorm:"type:jsonb;serializer:json"`
	CurrentIndex int
	TimerReason  string    `gorm:"size:32"`
	Deadline     time.Time `gorm:"index"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false"`
}

func (CycleDTO) TableName() string {
	return "cascade_cycles"
}

func fromDomain(c *cascade.Cycle) CycleDTO {
	candidates := c.Candidates()
	snapshots := make([]candidaterepo.Snapshot, 0, len(candidates))
	for _, cand := range candidates {
		snapshots = append(snapshots, candidaterepo.NewSnapshot(cand))
	}

	timer := c.Timer()
	return CycleDTO{
		JobID:        c.JobID().Bytes(),
		Candidates:   snapshots,
		CurrentIndex: c.Index(),
		TimerReason:  timer.Reason.String(),
		Deadline:     timer.Deadline.UTC(),
		UpdatedAt:    c.UpdatedAt().UTC(),
	}
}

func toDomain(dto CycleDTO) (*cascade.Cycle, error) {
	jobID, err := kernel.UUIDFromBytes(dto.JobID[:])
	if err != nil {
		return nil, err
	}

	candidates := make([]candidate.Candidate, 0, len(dto.Candidates))
	for _, s := range dto.Candidates {
		c, snapErr := s.ToDomain()
		if snapErr != nil {
			return nil, snapErr
		}
		candidates = append(candidates, c)
	}

	return cascade.RestoreCycle(jobID, candidates, dto.CurrentIndex, cascade.Timer{
		Reason:   cascade.Reason(dto.TimerReason),
		Deadline: dto.Deadline.UTC(),
	}, dto.UpdatedAt)
}
