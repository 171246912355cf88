package ports

import (
	"time"

	"dispatch/internal/core/domain/model/cascade"
	"dispatch/internal/core/domain/model/job"
)

// CascadeObserver receives cascade events for metrics. Implementations must not block.
type CascadeObserver interface {
	CandidateNotified(delivered bool, took time.Duration)
	CascadeAdvanced(reason cascade.Reason)
	CascadeFinished(status job.Status)
	ResponseHandled(action cascade.Action, result cascade.Result)
}
