package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetJobQueryIsNotConstructed = errors.New(
		"GetJobQuery must be created via NewGetJobQuery constructor",
	)
)

// GetJobQuery retrieves one job with its assignee and last known position.
//
// Example:
//
//	query, err := NewGetJobQuery(jobID)
//	if err != nil {
//	    return err
//	}
//	resp, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get job: %w", err)
//	}
//	fmt.Printf("Job %s is %s\n", resp.ID, resp.Status)
type GetJobQuery struct {
	jobID kernel.UUID
	guard guard.ConstructorGuard
}

func NewGetJobQuery(jobID kernel.UUID) (GetJobQuery, error) {
	if err := jobID.Validate(); err != nil {
		return GetJobQuery{}, err
	}
	return GetJobQuery{jobID: jobID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetJobQuery) Validate() error {
	return q.guard.Validate(ErrGetJobQueryIsNotConstructed)
}

func (q GetJobQuery) JobID() kernel.UUID {
	return q.jobID
}

// AssigneeResponse summarizes the driver who accepted a job.
type AssigneeResponse struct {
	ID          kernel.UUID
	Contact     string
	DisplayName string
}

// PositionResponse is the assignee's last reported position.
type PositionResponse struct {
	Lat        float64
	Lon        float64
	ReportedAt time.Time
}

// GetJobQueryResponse is a read model of a job. The pickup code itself is
// never exposed here, only its expiry.
type GetJobQueryResponse struct {
	ID            kernel.UUID
	Kind          string
	Status        string
	RegionID      string
	Category      string
	VehicleClass  string
	Pickup        string
	Dropoff       string
	Assignee      *AssigneeResponse
	Position      *PositionResponse
	CodeExpiresAt *time.Time
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func newJobResponse(j *job.Job) GetJobQueryResponse {
	resp := GetJobQueryResponse{
		ID:           j.ID(),
		Kind:         j.Kind().String(),
		Status:       j.Status().String(),
		RegionID:     j.Requirements().RegionID,
		Category:     j.Requirements().Category,
		VehicleClass: j.Requirements().VehicleClass,
		Pickup:       j.Route().Pickup,
		Dropoff:      j.Route().Dropoff,
		Version:      j.Version(),
		CreatedAt:    j.CreatedAt(),
		UpdatedAt:    j.UpdatedAt(),
	}
	if a := j.Assignee(); a != nil {
		resp.Assignee = &AssigneeResponse{
			ID:          a.ID(),
			Contact:     a.Contact().String(),
			DisplayName: a.DisplayName(),
		}
	}
	if p := j.Position(); p != nil {
		resp.Position = &PositionResponse{Lat: p.Lat(), Lon: p.Lon(), ReportedAt: p.ReportedAt()}
	}
	if c := j.Code(); c != nil {
		expiresAt := c.ExpiresAt()
		resp.CodeExpiresAt = &expiresAt
	}
	return resp
}
