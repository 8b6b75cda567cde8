package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the invitation pipeline.
type Metrics struct {
	// Invitations written per invite call.
	Invited prometheus.Counter

	// Candidates skipped because they were already invited.
	Skipped prometheus.Counter

	// Candidates dropped because their invitation write failed.
	Dropped prometheus.Counter

	// Audience sources that failed to resolve.
	ResolveFailures prometheus.Counter

	// Full pipeline duration: resolve, filter, record, dispatch.
	PipelineLatency prometheus.Histogram
}

// New creates a Metrics instance with all pipeline metrics registered.
func New() *Metrics {
	return &Metrics{
		Invited: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campusevents_invite_invited_total",
			Help: "Total invitations recorded",
		}),

		Skipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campusevents_invite_skipped_total",
			Help: "Total candidates skipped as already invited",
		}),

		Dropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campusevents_invite_dropped_total",
			Help: "Total candidates dropped by a failed invitation write",
		}),

		ResolveFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campusevents_invite_resolve_failures_total",
			Help: "Total audience sources that failed to resolve",
		}),

		PipelineLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "campusevents_invite_pipeline_duration_seconds",
			Help:    "Duration of one full invite pipeline run",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// AddInvited records n written invitations.
func (m *Metrics) AddInvited(n int) {
	if m != nil {
		m.Invited.Add(float64(n))
	}
}

// AddSkipped records n already-invited skips.
func (m *Metrics) AddSkipped(n int) {
	if m != nil {
		m.Skipped.Add(float64(n))
	}
}

// IncrementDropped records one write-failed drop.
func (m *Metrics) IncrementDropped() {
	if m != nil {
		m.Dropped.Inc()
	}
}

// AddResolveFailures records n failed audience sources.
func (m *Metrics) AddResolveFailures(n int) {
	if m != nil {
		m.ResolveFailures.Add(float64(n))
	}
}

// ObservePipelineLatency records the duration of one pipeline run.
func (m *Metrics) ObservePipelineLatency(d time.Duration) {
	if m != nil {
		m.PipelineLatency.Observe(d.Seconds())
	}
}
