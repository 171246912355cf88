package candidaterepo

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/candidate"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCandidateRepository is the roster source backed by the candidates table.
type GormCandidateRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormCandidateRepository(db *gorm.DB) *GormCandidateRepository {
	return &GormCandidateRepository{db: db, now: time.Now}
}

// Add inserts a candidate or replaces the row registered under the same contact.
func (r *GormCandidateRepository) Add(ctx context.Context, c candidate.Candidate, available bool) error {
	if err := c.Validate(); err != nil {
		return err
	}

	dto := fromDomain(c, available, r.now())
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "contact"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"id", "display_name", "region_id", "category", "vehicle_class", "attributes", "available",
		}),
	}).Create(&dto).Error
}

// ListAvailable returns the region's available candidates in registration order.
func (r *GormCandidateRepository) ListAvailable(ctx context.Context, regionID string) ([]candidate.Candidate, error) {
	var dtos []CandidateDTO
	if err := r.db.WithContext(ctx).
		Where("region_id = ? AND available", regionID).
		Order("seq").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	candidates := make([]candidate.Candidate, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}
