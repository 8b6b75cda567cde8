package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the booking state machine.
type Metrics struct {
	// Applied transitions by resulting status.
	Transitions *prometheus.CounterVec

	// Transition requests rejected as illegal.
	RejectedTransitions prometheus.Counter

	// Terminal re-applies absorbed as no-ops.
	IdempotentRepeats prometheus.Counter
}

// New creates a Metrics instance with all booking metrics registered.
func New() *Metrics {
	return &Metrics{
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "campusevents_booking_transitions_total",
			Help: "Total applied booking transitions, by resulting status",
		}, []string{"status"}),

		RejectedTransitions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campusevents_booking_rejected_transitions_total",
			Help: "Total transition requests rejected as illegal",
		}),

		IdempotentRepeats: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campusevents_booking_idempotent_repeats_total",
			Help: "Total terminal status re-applies absorbed without effect",
		}),
	}
}

// IncrementTransition records an applied transition.
func (m *Metrics) IncrementTransition(status string) {
	if m != nil {
		m.Transitions.WithLabelValues(status).Inc()
	}
}

// IncrementRejected records an illegal transition request.
func (m *Metrics) IncrementRejected() {
	if m != nil {
		m.RejectedTransitions.Inc()
	}
}

// IncrementIdempotentRepeat records an absorbed terminal re-apply.
func (m *Metrics) IncrementIdempotentRepeat() {
	if m != nil {
		m.IdempotentRepeats.Inc()
	}
}
