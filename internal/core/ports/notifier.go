package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/candidate"
	"dispatch/internal/core/domain/model/kernel"
)

// Notification is the message delivered to one candidate about one job.
type Notification struct {
	JobID     kernel.UUID
	Kind      string
	Pickup    string
	Dropoff   string
	Candidate candidate.Candidate
	// Position is the candidate's place in the cascade, starting at zero.
	Position int
	// RespondBy is when the candidate's offer times out if delivery succeeds now.
	RespondBy time.Time
}

// Notifier delivers notifications through the external gateway. It retries
// internally; a returned error means delivery was given up.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
