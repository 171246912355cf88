package ports

import (
	"context"

	"dispatch/internal/core/domain/model/candidate"
)

// RosterSource lists the candidates a cascade may be offered to.
type RosterSource interface {
	// ListAvailable returns the available candidates of a region in registration
	// order. The result is a snapshot; it is never re-read mid-cascade.
	ListAvailable(ctx context.Context, regionID string) ([]candidate.Candidate, error)
}

// CandidateRepository is the roster source backed by local storage.
type CandidateRepository interface {
	RosterSource

	// Add registers a candidate. A candidate with the same contact address is
	// replaced.
	Add(ctx context.Context, c candidate.Candidate, available bool) error
}
