package http

import (
	"log/slog"
	"net/http"

	"dispatch/internal/adapters/in/http/api"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/candidate"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/clock"

	"github.com/labstack/echo/v4"
)

// Handlers groups the use cases exposed over HTTP.
type Handlers struct {
	CreateJob         commands.CreateJobCommandHandler
	CancelJob         commands.CancelJobCommandHandler
	UpdatePosition    commands.UpdatePositionCommandHandler
	IssueCode         commands.IssueCodeCommandHandler
	ConfirmPickup     commands.ConfirmPickupCommandHandler
	CompleteJob       commands.CompleteJobCommandHandler
	RespondToJob      commands.RespondToJobCommandHandler
	RegisterCandidate commands.RegisterCandidateCommandHandler

	GetJob     queries.GetJobQueryHandler
	VerifyCode queries.VerifyCodeQueryHandler
}

// Server implements api.ServerInterface. It translates requests into commands
// and queries and maps their results and errors back to the contract.
type Server struct {
	handlers Handlers
	clock    clock.Clock
	logger   *slog.Logger
}

var _ api.ServerInterface = (*Server)(nil)

func NewServer(handlers Handlers, clk clock.Clock, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		clock:    clk,
		logger:   logger.With("component", "http"),
	}
}

// CreateJob handles POST /api/v1/jobs.
func (s *Server) CreateJob(ctx echo.Context) error {
	var body api.NewJob
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCreateJobCommand(
		kernel.NewUUID(),
		body.Kind,
		body.RegionId,
		deref(body.Category),
		deref(body.VehicleClass),
		body.Pickup,
		deref(body.Dropoff),
	)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.handlers.CreateJob.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, api.JobStatus{
		JobId:  result.JobID.Bytes(),
		Status: result.Status.String(),
	})
}

// GetJob handles GET /api/v1/jobs/{jobId}.
func (s *Server) GetJob(ctx echo.Context, jobId api.JobId) error {
	id, err := kernel.UUIDFromBytes(jobId[:])
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetJobQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	resp, err := s.handlers.GetJob.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toJob(resp))
}

// CancelJob handles POST /api/v1/jobs/{jobId}/cancel.
func (s *Server) CancelJob(ctx echo.Context, jobId api.JobId) error {
	id, err := kernel.UUIDFromBytes(jobId[:])
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewCancelJobCommand(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	status, err := s.handlers.CancelJob.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, api.JobStatus{JobId: jobId, Status: status.String()})
}

// UpdatePosition handles PUT /api/v1/jobs/{jobId}/position.
func (s *Server) UpdatePosition(ctx echo.Context, jobId api.JobId) error {
	var body api.PositionReport
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	reportedAt := s.clock.Now()
	if body.ReportedAt != nil {
		reportedAt = *body.ReportedAt
	}

	id, err := kernel.UUIDFromBytes(jobId[:])
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewUpdatePositionCommand(id, body.Contact, body.Lat, body.Lon, reportedAt)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.handlers.UpdatePosition.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// IssueCode handles POST /api/v1/jobs/{jobId}/code.
func (s *Server) IssueCode(ctx echo.Context, jobId api.JobId) error {
	id, err := kernel.UUIDFromBytes(jobId[:])
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewIssueCodeCommand(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.handlers.IssueCode.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, api.PickupCode{Code: result.Code, ExpiresAt: result.ExpiresAt})
}

// ConfirmPickup handles POST /api/v1/jobs/{jobId}/pickup.
func (s *Server) ConfirmPickup(ctx echo.Context, jobId api.JobId) error {
	var body api.CodeRequest
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	id, err := kernel.UUIDFromBytes(jobId[:])
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewConfirmPickupCommand(id, body.Code)
	if err != nil {
		return s.fail(ctx, err)
	}

	status, err := s.handlers.ConfirmPickup.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, api.JobStatus{JobId: jobId, Status: status.String()})
}

// CompleteJob handles POST /api/v1/jobs/{jobId}/complete.
func (s *Server) CompleteJob(ctx echo.Context, jobId api.JobId) error {
	id, err := kernel.UUIDFromBytes(jobId[:])
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewCompleteJobCommand(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	status, err := s.handlers.CompleteJob.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, api.JobStatus{JobId: jobId, Status: status.String()})
}

// VerifyCode handles POST /api/v1/codes/verify.
func (s *Server) VerifyCode(ctx echo.Context) error {
	var body api.CodeRequest
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	query, err := queries.NewVerifyCodeQuery(body.Code)
	if err != nil {
		return s.fail(ctx, err)
	}

	resp, err := s.handlers.VerifyCode.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toJob(resp))
}

// RespondToJob handles POST /api/v1/responses, the gateway's webhook for
// candidate answers. Lost races and unknown contacts are reported in the
// outcome with status 200.
func (s *Server) RespondToJob(ctx echo.Context) error {
	var body api.CandidateResponse
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	jobID := ""
	if body.JobId != nil {
		jobID = body.JobId.String()
	}
	cmd, err := commands.NewRespondToJobCommand(body.Contact, body.Action, jobID)
	if err != nil {
		return s.fail(ctx, err)
	}

	outcome, err := s.handlers.RespondToJob.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOutcome(outcome))
}

// RegisterCandidate handles POST /api/v1/candidates.
func (s *Server) RegisterCandidate(ctx echo.Context) error {
	var body api.NewCandidate
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	class := candidate.Class{
		Category:     deref(body.Category),
		VehicleClass: deref(body.VehicleClass),
	}
	if body.Attributes != nil {
		class.Attributes = *body.Attributes
	}
	available := body.Available == nil || *body.Available

	id := kernel.NewUUID()
	cmd, err := commands.NewRegisterCandidateCommand(id, body.Contact, body.DisplayName, body.RegionId, class, available)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.handlers.RegisterCandidate.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, api.CandidateCreated{Id: id.Bytes()})
}

func toJob(resp queries.GetJobQueryResponse) api.Job {
	out := api.Job{
		Id:            resp.ID.Bytes(),
		Kind:          resp.Kind,
		Status:        resp.Status,
		RegionId:      resp.RegionID,
		Category:      optional(resp.Category),
		VehicleClass:  optional(resp.VehicleClass),
		Pickup:        resp.Pickup,
		Dropoff:       optional(resp.Dropoff),
		CodeExpiresAt: resp.CodeExpiresAt,
		Version:       resp.Version,
		CreatedAt:     resp.CreatedAt,
		UpdatedAt:     resp.UpdatedAt,
	}
	if a := resp.Assignee; a != nil {
		out.Assignee = &api.Assignee{Id: a.ID.Bytes(), Contact: a.Contact, DisplayName: a.DisplayName}
	}
	if p := resp.Position; p != nil {
		out.Position = &api.Position{Lat: p.Lat, Lon: p.Lon, ReportedAt: p.ReportedAt}
	}
	return out
}

func toOutcome(o commands.Outcome) api.Outcome {
	out := api.Outcome{Result: string(o.Result)}
	if o.JobID.Validate() == nil {
		id := api.JobId(o.JobID.Bytes())
		out.JobId = &id
		status := o.Status.String()
		out.Status = &status
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
