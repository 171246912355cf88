package jobrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/adapters/out/postgres/cyclerepo"
	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormJobRepository implements ports.JobRepository using GORM.
type GormJobRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormJobRepository(db *gorm.DB, tracker aggregateTracker) *GormJobRepository {
	return &GormJobRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new job to the database.
func (r *GormJobRepository) Add(ctx context.Context, aggregate *job.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the job only while the stored version still equals the
// aggregate's, then bumps the aggregate's version.
func (r *GormJobRepository) Update(ctx context.Context, aggregate *job.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).
		Model(&JobDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		if isUniqueViolation(result.Error, ActiveCodeIndex) {
			return errs.NewConflictError("code", "is already held by another job awaiting pickup")
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&JobDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("job", aggregate.ID().String())
		}
		return errs.NewVersionIsInvalidError("version",
			fmt.Errorf("job %s is no longer at version %d", aggregate.ID(), aggregate.Version()))
	}

	aggregate.IncrementVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a job by ID.
func (r *GormJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate retrieves a job with SELECT ... FOR UPDATE. The row stays locked
// until the surrounding transaction ends.
func (r *GormJobRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormJobRepository) get(db *gorm.DB, id kernel.UUID) (*job.Job, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto JobDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("job", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// FindByActiveCode retrieves the job holding code, if the code is still valid at now.
func (r *GormJobRepository) FindByActiveCode(ctx context.Context, code string, now time.Time) (*job.Job, error) {
	var dto JobDTO
	if err := r.db.WithContext(ctx).
		Where("code_value = ? AND code_expires_at > ?", code, now.UTC()).
		First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("code", "active pickup code")
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListUnstarted returns open jobs without a cascade cycle row.
func (r *GormJobRepository) ListUnstarted(ctx context.Context, createdBefore time.Time, limit int) ([]kernel.UUID, error) {
	query := r.db.WithContext(ctx).
		Model(&JobDTO{}).
		Where("status IN ?", []int{int(job.Pending), int(job.Reviewing), int(job.Declined)}).
		Where("created_at <= ?", createdBefore.UTC()).
		Where("NOT EXISTS (SELECT 1 FROM " + cyclerepo.CycleDTO{}.TableName() + " c WHERE c.job_id = jobs.id)").
		Order("created_at, id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var ids []uuid.UUID
	if err := query.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	out := make([]kernel.UUID, 0, len(ids))
	for _, id := range ids {
		restored, err := kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		out = append(out, restored)
	}
	return out, nil
}

// uniqueViolation is the SQLSTATE of unique_violation.
const uniqueViolation = "23505"

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraint
}
