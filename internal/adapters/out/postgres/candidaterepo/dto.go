// Package candidaterepo persists the local driver roster and provides the
// candidate snapshot stored inside jobs and cascade cycles.
package candidaterepo

import (
	"time"

	"dispatch/internal/core/domain/model/candidate"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CandidateDTO is a roster row. Contact addresses are unique; registering the
// same contact again replaces the row but keeps its Seq and registration time,
// so the roster order is stable.
type CandidateDTO struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Seq          int64          `gorm:"autoIncrement;uniqueIndex"`
	Contact      string         `gorm:"size:255;uniqueIndex"`
	DisplayName  string         `gorm:"size:255"`
	RegionID     string         `gorm:"size:64;index:idx_candidates_roster,priority:1"`
	Category     string         `gorm:"size:64"`
	VehicleClass string         `gorm:"size:64"`
	Attributes   pq.StringArray `gorm:"type:text[]"`
	Available    bool           `gorm:"index:idx_candidates_roster,priority:2"`
	RegisteredAt time.Time      `gorm:"autoCreateTime:false"`
}

func (CandidateDTO) TableName() string {
	return "candidates"
}

// Snapshot is the JSON form of a candidate embedded in job and cycle rows.
type Snapshot struct {
	ID           uuid.UUID `json:"id"`
	Contact      string    `json:"contact"`
	DisplayName  string    `json:"displayName"`
	RegionID     string    `json:"regionId"`
	Category     string    `json:"category,omitempty"`
	VehicleClass string    `json:"vehicleClass,omitempty"`
	Attributes   []string  `json:"attributes,omitempty"`
}

func NewSnapshot(c candidate.Candidate) Snapshot {
	class := c.Class()
	return Snapshot{
		ID:           c.ID().Bytes(),
		Contact:      c.Contact().String(),
		DisplayName:  c.DisplayName(),
		RegionID:     c.RegionID(),
		Category:     class.Category,
		VehicleClass: class.VehicleClass,
		Attributes:   class.Attributes,
	}
}

func (s Snapshot) ToDomain() (candidate.Candidate, error) {
	return restore(s.ID, s.Contact, s.DisplayName, s.RegionID, candidate.Class{
		Category:     s.Category,
		VehicleClass: s.VehicleClass,
		Attributes:   s.Attributes,
	})
}

func fromDomain(c candidate.Candidate, available bool, registeredAt time.Time) CandidateDTO {
	class := c.Class()
	return CandidateDTO{
		ID:           c.ID().Bytes(),
		Contact:      c.Contact().String(),
		DisplayName:  c.DisplayName(),
		RegionID:     c.RegionID(),
		Category:     class.Category,
		VehicleClass: class.VehicleClass,
		Attributes:   pq.StringArray(class.Attributes),
		Available:    available,
		RegisteredAt: registeredAt.UTC(),
	}
}

func toDomain(dto CandidateDTO) (candidate.Candidate, error) {
	return restore(dto.ID, dto.Contact, dto.DisplayName, dto.RegionID, candidate.Class{
		Category:     dto.Category,
		VehicleClass: dto.VehicleClass,
		Attributes:   []string(dto.Attributes),
	})
}

func restore(rawID uuid.UUID, contact, displayName, regionID string, class candidate.Class) (candidate.Candidate, error) {
	id, err := kernel.UUIDFromBytes(rawID[:])
	if err != nil {
		return candidate.Candidate{}, err
	}
	addr, err := kernel.NewContactAddress(contact)
	if err != nil {
		return candidate.Candidate{}, err
	}
	return candidate.NewCandidate(id, addr, displayName, regionID, class)
}
