// Package metrics exports cascade activity as Prometheus metrics.
package metrics

import (
	"strconv"
	"time"

	"dispatch/internal/core/domain/model/cascade"
	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/ports"

	"github.com/prometheus/client_golang/prometheus"
)

// CascadeObserver counts notifications, advances, outcomes and inbound responses.
type CascadeObserver struct {
	notifications *prometheus.CounterVec
	notifyLatency prometheus.Histogram
	advances      *prometheus.CounterVec
	finished      *prometheus.CounterVec
	responses     *prometheus.CounterVec
}

var _ ports.CascadeObserver = (*CascadeObserver)(nil)

// NewCascadeObserver registers the cascade metrics on reg.
func NewCascadeObserver(reg prometheus.Registerer) (*CascadeObserver, error) {
	o := &CascadeObserver{
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_notifications_total",
			Help: "Candidate notifications by delivery result",
		}, []string{"delivered"}),
		notifyLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dispatch_notify_duration_seconds",
			Help:    "Time spent delivering one notification, retries included",
			Buckets: prometheus.DefBuckets,
		}),
		advances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_cascade_advances_total",
			Help: "Cascade advances by reason",
		}, []string{"reason"}),
		finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_cascades_finished_total",
			Help: "Finished cascades by final job status",
		}, []string{"status"}),
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_responses_total",
			Help: "Inbound candidate responses by action and result",
		}, []string{"action", "result"}),
	}

	for _, c := range []prometheus.Collector{o.notifications, o.notifyLatency, o.advances, o.finished, o.responses} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *CascadeObserver) CandidateNotified(delivered bool, took time.Duration) {
	o.notifications.WithLabelValues(strconv.FormatBool(delivered)).Inc()
	o.notifyLatency.Observe(took.Seconds())
}

func (o *CascadeObserver) CascadeAdvanced(reason cascade.Reason) {
	o.advances.WithLabelValues(reason.String()).Inc()
}

func (o *CascadeObserver) CascadeFinished(status job.Status) {
	o.finished.WithLabelValues(status.String()).Inc()
}

func (o *CascadeObserver) ResponseHandled(action cascade.Action, result cascade.Result) {
	o.responses.WithLabelValues(action.String(), string(result)).Inc()
}
