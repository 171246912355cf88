package queries

import (
	"context"

	"dispatch/internal/core/ports"
)

// GetJobQueryHandler reads a job through the job reader port, so it works over
// either storage backend.
type GetJobQueryHandler struct {
	jobs ports.JobReader
}

func NewGetJobQueryHandler(jobs ports.JobReader) GetJobQueryHandler {
	return GetJobQueryHandler{jobs: jobs}
}

// Handle returns errs.ObjectNotFoundError for unknown ids.
func (h GetJobQueryHandler) Handle(ctx context.Context, query GetJobQuery) (GetJobQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetJobQueryResponse{}, err
	}

	j, err := h.jobs.Get(ctx, query.JobID())
	if err != nil {
		return GetJobQueryResponse{}, err
	}
	return newJobResponse(j), nil
}
