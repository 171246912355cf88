package gateway

import (
	"context"
	"log/slog"

	"dispatch/internal/core/ports"
)

// LogNotifier only logs notifications. It is used for local development when
// no gateway is configured, and always succeeds.
type LogNotifier struct {
	logger *slog.Logger
}

var _ ports.Notifier = (*LogNotifier)(nil)

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "gateway")}
}

func (g *LogNotifier) Notify(ctx context.Context, n ports.Notification) error {
	g.logger.InfoContext(ctx, "Notification",
		"jobId", n.JobID.String(),
		"contact", n.Candidate.Contact().String(),
		"position", n.Position,
		"respondBy", n.RespondBy,
	)
	return nil
}
