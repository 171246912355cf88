// Package correlationrepo stores contact-to-job correlation entries.
package correlationrepo

import (
	"time"

	"dispatch/internal/core/domain/model/correlation"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type CorrelationDTO struct {
	Contact   string    `gorm:"size:255;primaryKey"`
	JobID     uuid.UUID `gorm:"type:uuid;index"`
	ExpiresAt time.Time `gorm:"index"`
}

func (CorrelationDTO) TableName() string {
	return "correlation_entries"
}

func fromDomain(e correlation.Entry) CorrelationDTO {
	return CorrelationDTO{
		Contact:   e.Contact().String(),
		JobID:     e.JobID().Bytes(),
		ExpiresAt: e.ExpiresAt().UTC(),
	}
}

func toDomain(dto CorrelationDTO) (correlation.Entry, error) {
	contact, err := kernel.NewContactAddress(dto.Contact)
	if err != nil {
		return correlation.Entry{}, err
	}
	jobID, err := kernel.UUIDFromBytes(dto.JobID[:])
	if err != nil {
		return correlation.Entry{}, err
	}
	return correlation.RestoreEntry(contact, jobID, dto.ExpiresAt), nil
}
