package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Register or replace a roster candidate
	// (POST /api/v1/candidates)
	RegisterCandidate(ctx echo.Context) error
	// Find the job holding an active pickup code
	// (POST /api/v1/codes/verify)
	VerifyCode(ctx echo.Context) error
	// Create a job and start its cascade
	// (POST /api/v1/jobs)
	CreateJob(ctx echo.Context) error
	// Get a job
	// (GET /api/v1/jobs/{jobId})
	GetJob(ctx echo.Context, jobId JobId) error
	// Cancel an unresolved job
	// (POST /api/v1/jobs/{jobId}/cancel)
	CancelJob(ctx echo.Context, jobId JobId) error
	// Issue a pickup code, replacing any previous one
	// (POST /api/v1/jobs/{jobId}/code)
	IssueCode(ctx echo.Context, jobId JobId) error
	// Complete a job in progress
	// (POST /api/v1/jobs/{jobId}/complete)
	CompleteJob(ctx echo.Context, jobId JobId) error
	// Confirm pickup with the job's code
	// (POST /api/v1/jobs/{jobId}/pickup)
	ConfirmPickup(ctx echo.Context, jobId JobId) error
	// Report the assignee's position
	// (PUT /api/v1/jobs/{jobId}/position)
	UpdatePosition(ctx echo.Context, jobId JobId) error
	// Inbound candidate response from the gateway
	// (POST /api/v1/responses)
	RespondToJob(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) RegisterCandidate(ctx echo.Context) error {
	return w.Handler.RegisterCandidate(ctx)
}

func (w *ServerInterfaceWrapper) VerifyCode(ctx echo.Context) error {
	return w.Handler.VerifyCode(ctx)
}

func (w *ServerInterfaceWrapper) CreateJob(ctx echo.Context) error {
	return w.Handler.CreateJob(ctx)
}

func (w *ServerInterfaceWrapper) GetJob(ctx echo.Context) error {
	return w.withJobID(ctx, w.Handler.GetJob)
}

func (w *ServerInterfaceWrapper) CancelJob(ctx echo.Context) error {
	return w.withJobID(ctx, w.Handler.CancelJob)
}

func (w *ServerInterfaceWrapper) IssueCode(ctx echo.Context) error {
	return w.withJobID(ctx, w.Handler.IssueCode)
}

func (w *ServerInterfaceWrapper) CompleteJob(ctx echo.Context) error {
	return w.withJobID(ctx, w.Handler.CompleteJob)
}

func (w *ServerInterfaceWrapper) ConfirmPickup(ctx echo.Context) error {
	return w.withJobID(ctx, w.Handler.ConfirmPickup)
}

func (w *ServerInterfaceWrapper) UpdatePosition(ctx echo.Context) error {
	return w.withJobID(ctx, w.Handler.UpdatePosition)
}

func (w *ServerInterfaceWrapper) RespondToJob(ctx echo.Context) error {
	return w.Handler.RespondToJob(ctx)
}

// withJobID binds the jobId path parameter and invokes next with it.
func (w *ServerInterfaceWrapper) withJobID(ctx echo.Context, next func(echo.Context, JobId) error) error {
	var jobId JobId

	err := runtime.BindStyledParameterWithLocation("simple", false, "jobId", runtime.ParamLocationPath, ctx.Param("jobId"), &jobId)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter jobId: %s", err))
	}

	return next(ctx, jobId)
}

// EchoRouter is the subset of echo routing RegisterHandlers needs, satisfied
// by both *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers the handlers under a common prefix.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.POST(baseURL+"/api/v1/candidates", wrapper.RegisterCandidate)
	router.POST(baseURL+"/api/v1/codes/verify", wrapper.VerifyCode)
	router.POST(baseURL+"/api/v1/jobs", wrapper.CreateJob)
	router.GET(baseURL+"/api/v1/jobs/:jobId", wrapper.GetJob)
	router.POST(baseURL+"/api/v1/jobs/:jobId/cancel", wrapper.CancelJob)
	router.POST(baseURL+"/api/v1/jobs/:jobId/code", wrapper.IssueCode)
	router.POST(baseURL+"/api/v1/jobs/:jobId/complete", wrapper.CompleteJob)
	router.POST(baseURL+"/api/v1/jobs/:jobId/pickup", wrapper.ConfirmPickup)
	router.PUT(baseURL+"/api/v1/jobs/:jobId/position", wrapper.UpdatePosition)
	router.POST(baseURL+"/api/v1/responses", wrapper.RespondToJob)
}
