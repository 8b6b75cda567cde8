package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the notification dispatcher.
type Metrics struct {
	// Published messages by topic.
	Published *prometheus.CounterVec

	// Publish failures by topic.
	PublishFailures *prometheus.CounterVec

	// Full dispatch duration including all channels.
	DispatchLatency prometheus.Histogram
}

// New creates a Metrics instance with all dispatcher metrics registered.
func New() *Metrics {
	return &Metrics{
		Published: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "campusevents_notification_published_total",
			Help: "Total messages accepted by the broker, by topic",
		}, []string{"topic"}),

		PublishFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "campusevents_notification_publish_failures_total",
			Help: "Total publish attempts the broker rejected, by topic",
		}, []string{"topic"}),

		DispatchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "campusevents_notification_dispatch_duration_seconds",
			Help:    "Duration of full multi-channel dispatch for one batch",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// IncrementPublished records a successful publish.
func (m *Metrics) IncrementPublished(topic string) {
	if m != nil {
		m.Published.WithLabelValues(topic).Inc()
	}
}

// IncrementFailure records a rejected publish.
func (m *Metrics) IncrementFailure(topic string) {
	if m != nil {
		m.PublishFailures.WithLabelValues(topic).Inc()
	}
}

// ObserveDispatchLatency records the duration of one dispatch.
func (m *Metrics) ObserveDispatchLatency(d time.Duration) {
	if m != nil {
		m.DispatchLatency.Observe(d.Seconds())
	}
}
