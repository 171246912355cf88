package commands

import (
	"context"

	"dispatch/internal/core/domain/model/job"
)

// UpdatePositionCommandHandler stores the assignee's last known position. It is a
// side effect only and never moves the job's status.
type UpdatePositionCommandHandler struct {
	uowFactory JobUoWFactory
}

func NewUpdatePositionCommandHandler(uowFactory JobUoWFactory) UpdatePositionCommandHandler {
	return UpdatePositionCommandHandler{uowFactory: uowFactory}
}

func (h UpdatePositionCommandHandler) Handle(ctx context.Context, cmd UpdatePositionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	_, err := updateJob(ctx, h.uowFactory, cmd.JobID(), func(j *job.Job) error {
		return j.ReportPosition(cmd.Contact(), cmd.Position())
	})
	return err
}
