package queries

import (
	"context"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/clock"
)

// VerifyCodeQueryHandler resolves a pickup code to its job. A code that does not
// match exactly, or is used at or after its expiry, yields errs.ObjectNotFoundError.
type VerifyCodeQueryHandler struct {
	jobs  ports.JobReader
	clock clock.Clock
}

func NewVerifyCodeQueryHandler(jobs ports.JobReader, clk clock.Clock) VerifyCodeQueryHandler {
	return VerifyCodeQueryHandler{jobs: jobs, clock: clk}
}

func (h VerifyCodeQueryHandler) Handle(ctx context.Context, query VerifyCodeQuery) (GetJobQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetJobQueryResponse{}, err
	}

	j, err := h.jobs.FindByActiveCode(ctx, query.Code(), h.clock.Now())
	if err != nil {
		return GetJobQueryResponse{}, err
	}
	return newJobResponse(j), nil
}
