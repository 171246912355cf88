package postgres

import (
	"dispatch/internal/adapters/out/postgres/candidaterepo"
	"dispatch/internal/adapters/out/postgres/correlationrepo"
	"dispatch/internal/adapters/out/postgres/cyclerepo"
	"dispatch/internal/adapters/out/postgres/jobrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates the dispatch tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&jobrepo.JobDTO{},
		&cyclerepo.CycleDTO{},
		&correlationrepo.CorrelationDTO{},
		&candidaterepo.CandidateDTO{},
	)
}
