package cyclerepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/cascade"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCycleRepository implements ports.CycleRepository using GORM.
type GormCycleRepository struct {
	db *gorm.DB
}

func NewGormCycleRepository(db *gorm.DB) *GormCycleRepository {
	return &GormCycleRepository{db: db}
}

func (r *GormCycleRepository) Save(ctx context.Context, cycle *cascade.Cycle) error {
	if err := cycle.Validate(); err != nil {
		return err
	}

	dto := fromDomain(cycle)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&dto).Error
}

func (r *GormCycleRepository) Get(ctx context.Context, jobID kernel.UUID) (*cascade.Cycle, error) {
	if err := jobID.Validate(); err != nil {
		return nil, err
	}

	var dto CycleDTO
	if err := r.db.WithContext(ctx).First(&dto, "job_id = ?", jobID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("cycle", jobID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormCycleRepository) Delete(ctx context.Context, jobID kernel.UUID) error {
	if err := jobID.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Delete(&CycleDTO{}, "job_id = ?", jobID.Bytes()).Error
}

// ListDue returns due cycles, oldest deadline first. A limit of zero or less
// means no limit. It takes no locks; the caller re-reads each cycle under the
// job lock before firing it.
func (r *GormCycleRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*cascade.Cycle, error) {
	query := r.db.WithContext(ctx).
		Where("deadline <= ?", now.UTC()).
		Order("deadline, job_id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var dtos []CycleDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	cycles := make([]*cascade.Cycle, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, c)
	}
	return cycles, nil
}
