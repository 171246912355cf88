// Package jobrepo maps the job aggregate to the jobs table.
package jobrepo

import (
	"time"

	"dispatch/internal/adapters/out/postgres/candidaterepo"
	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// JobDTO is a jobs row. Version is the compare-and-set token of every update.
type JobDTO struct {
	ID           uuid.UUID               `gorm:"type:uuid;primaryKey"`
	Kind         int
	RegionID     string                  `gorm:"size:64"`
	Category     string                  `gorm:"size:64"`
	VehicleClass string                  `gorm:"size:64"`
	Pickup       string
	Dropoff      string
	Status       int                     `gorm:"index"`
	Assignee     *candidaterepo.Snapshot `gorm:"type:jsonb;serializer:json"`
	Code         CodeDTO                 `gorm:"embedded;embeddedPrefix:code_"`
	Position     PositionDTO             `gorm:"embedded;embeddedPrefix:position_"`
	Version      int
	CreatedAt    time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false"`
}

func (JobDTO) TableName() string {
	return "jobs"
}

// ActiveCodeIndex keeps pickup codes unique among jobs awaiting pickup
// (status 6, job.PickingUp).
const ActiveCodeIndex = "idx_jobs_picking_up_code"

// CodeDTO holds the pickup code. Lookups go by value, so it is indexed.
type CodeDTO struct {
	Value     *string `gorm:"size:6;index;uniqueIndex:idx_jobs_picking_up_code,where:status = 6"`
	ExpiresAt *time.Time
}

// PositionDTO holds the assignee's last reported position.
type PositionDTO struct {
	Lat        *float64
	Lon        *float64
	ReportedAt *time.Time
}

func fromDomain(j *job.Job) JobDTO {
	dto := JobDTO{
		ID:           j.ID().Bytes(),
		Kind:         int(j.Kind()),
		RegionID:     j.Requirements().RegionID,
		Category:     j.Requirements().Category,
		VehicleClass: j.Requirements().VehicleClass,
		Pickup:       j.Route().Pickup,
		Dropoff:      j.Route().Dropoff,
		Status:       int(j.Status()),
		Version:      j.Version(),
		CreatedAt:    j.CreatedAt().UTC(),
		UpdatedAt:    j.UpdatedAt().UTC(),
	}

	if a := j.Assignee(); a != nil {
		snapshot := candidaterepo.NewSnapshot(*a)
		dto.Assignee = &snapshot
	}
	if c := j.Code(); c != nil {
		value, expiresAt := c.Value(), c.ExpiresAt().UTC()
		dto.Code = CodeDTO{Value: &value, ExpiresAt: &expiresAt}
	}
	if p := j.Position(); p != nil {
		lat, lon, at := p.Lat(), p.Lon(), p.ReportedAt().UTC()
		dto.Position = PositionDTO{Lat: &lat, Lon: &lon, ReportedAt: &at}
	}
	return dto
}

func toDomain(dto JobDTO) (*job.Job, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	state := job.State{
		ID:   id,
		Kind: job.Kind(dto.Kind),
		Requirements: job.Requirements{
			RegionID:     dto.RegionID,
			Category:     dto.Category,
			VehicleClass: dto.VehicleClass,
		},
		Route:     job.Route{Pickup: dto.Pickup, Dropoff: dto.Dropoff},
		Status:    job.Status(dto.Status),
		Version:   dto.Version,
		CreatedAt: dto.CreatedAt.UTC(),
		UpdatedAt: dto.UpdatedAt.UTC(),
	}

	if dto.Assignee != nil {
		assignee, assigneeErr := dto.Assignee.ToDomain()
		if assigneeErr != nil {
			return nil, assigneeErr
		}
		state.Assignee = &assignee
	}
	if dto.Code.Value != nil && dto.Code.ExpiresAt != nil {
		code, codeErr := job.NewPickupCode(*dto.Code.Value, dto.Code.ExpiresAt.UTC())
		if codeErr != nil {
			return nil, codeErr
		}
		state.Code = &code
	}
	if p := dto.Position; p.Lat != nil && p.Lon != nil && p.ReportedAt != nil {
		pos, posErr := kernel.NewPosition(*p.Lat, *p.Lon, *p.ReportedAt)
		if posErr != nil {
			return nil, posErr
		}
		state.Position = &pos
	}

	return job.RestoreJob(state)
}
