package cascade

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Reason explains why a cycle's timer was armed or why the cascade advanced.
type Reason string

const (
	// ReasonNotifying guards a notification in flight. If it expires the
	// notifying worker is gone and the candidate counts as timed out.
	ReasonNotifying Reason = "NOTIFYING"
	// ReasonTimeout: the candidate was notified and did not answer in time.
	ReasonTimeout Reason = "TIMEOUT"
	// ReasonGatewayFailure: the gateway gave up delivering the notification.
	ReasonGatewayFailure Reason = "GATEWAY_FAILURE"
	// ReasonDecline: the candidate declined. Never armed on a timer.
	ReasonDecline Reason = "DECLINE"
)

func (r Reason) String() string {
	return string(r)
}

// ValidateTimer checks that r can be armed on a timer.
func (r Reason) ValidateTimer() error {
	switch r {
	case ReasonNotifying, ReasonTimeout, ReasonGatewayFailure:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("timerReason", fmt.Errorf("%q cannot be armed", r))
	}
}

// Firing is the advance reason used when a timer armed with r expires.
func (r Reason) Firing() Reason {
	if r == ReasonNotifying {
		return ReasonTimeout
	}
	return r
}
