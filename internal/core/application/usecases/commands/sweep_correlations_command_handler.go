package commands

import (
	"context"

	"dispatch/internal/pkg/clock"
)

// SweepCorrelationsCommandHandler deletes expired correlation entries. Lookups
// already ignore them, so the sweep only keeps the table small.
type SweepCorrelationsCommandHandler struct {
	uowFactory UoWFactory
	clock      clock.Clock
}

func NewSweepCorrelationsCommandHandler(uowFactory UoWFactory, clk clock.Clock) SweepCorrelationsCommandHandler {
	return SweepCorrelationsCommandHandler{uowFactory: uowFactory, clock: clk}
}

// Handle returns how many entries were removed.
func (h SweepCorrelationsCommandHandler) Handle(ctx context.Context, cmd SweepCorrelationsCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	return h.uowFactory.Create().CorrelationRepository().SweepExpired(ctx, h.clock.Now())
}
