package correlationrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/correlation"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCorrelationRepository implements ports.CorrelationRepository using GORM.
type GormCorrelationRepository struct {
	db *gorm.DB
}

func NewGormCorrelationRepository(db *gorm.DB) *GormCorrelationRepository {
	return &GormCorrelationRepository{db: db}
}

func (r *GormCorrelationRepository) Put(ctx context.Context, entry correlation.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "contact"}},
		DoUpdates: clause.AssignmentColumns([]string{"job_id", "expires_at"}),
	}).Create(&dto).Error
}

func (r *GormCorrelationRepository) Resolve(
	ctx context.Context,
	contact kernel.ContactAddress,
	now time.Time,
) (correlation.Entry, error) {
	if err := contact.Validate(); err != nil {
		return correlation.Entry{}, err
	}

	var dto CorrelationDTO
	if err := r.db.WithContext(ctx).First(&dto, "contact = ?", contact.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return correlation.Entry{}, errs.NewObjectNotFoundError("correlation", contact.String())
		}
		return correlation.Entry{}, err
	}

	entry, err := toDomain(dto)
	if err != nil {
		return correlation.Entry{}, err
	}
	if entry.IsExpired(now) {
		if err = r.db.WithContext(ctx).
			Where("contact = ? AND expires_at <= ?", dto.Contact, now.UTC()).
			Delete(&CorrelationDTO{}).Error; err != nil {
			return correlation.Entry{}, err
		}
		return correlation.Entry{}, errs.NewObjectNotFoundError("correlation", contact.String())
	}
	return entry, nil
}

func (r *GormCorrelationRepository) Remove(ctx context.Context, contact kernel.ContactAddress) error {
	return r.db.WithContext(ctx).Delete(&CorrelationDTO{}, "contact = ?", contact.String()).Error
}

func (r *GormCorrelationRepository) RemoveIfJob(
	ctx context.Context,
	contact kernel.ContactAddress,
	jobID kernel.UUID,
) error {
	return r.db.WithContext(ctx).
		Where("contact = ? AND job_id = ?", contact.String(), jobID.Bytes()).
		Delete(&CorrelationDTO{}).Error
}

func (r *GormCorrelationRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&CorrelationDTO{})
	return result.RowsAffected, result.Error
}
