package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the connector adapter layer. Every
// breaker transition and retry is counted so resilience behavior is visible
// to operators diagnosing cascading failures.
type Metrics struct {
	Calls            *prometheus.CounterVec
	CallDuration     *prometheus.HistogramVec
	Retries          *prometheus.CounterVec
	StateTransitions *prometheus.CounterVec
}

// New creates a new Metrics instance with all connector metrics registered.
func New() *Metrics {
	return &Metrics{
		Calls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "x24_connector_calls_total",
			Help: "Connector call outcomes by connector and result kind",
		}, []string{"connector", "outcome"}),

		CallDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "x24_connector_call_duration_seconds",
			Help:    "Duration of connector calls including retries",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"connector"}),

		Retries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "x24_connector_retries_total",
			Help: "Retry attempts by connector and failure kind",
		}, []string{"connector", "kind"}),

		StateTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "x24_connector_breaker_transitions_total",
			Help: "Circuit breaker state transitions by connector",
		}, []string{"connector", "from", "to"}),
	}
}

// IncrementCall records a finished call with its outcome label.
func (m *Metrics) IncrementCall(connector, outcome string) {
	if m != nil {
		m.Calls.WithLabelValues(connector, outcome).Inc()
	}
}

// ObserveCallDuration records the total wall time of one Call.
func (m *Metrics) ObserveCallDuration(connector string, d time.Duration) {
	if m != nil {
		m.CallDuration.WithLabelValues(connector).Observe(d.Seconds())
	}
}

// IncrementRetry records one retry attempt.
func (m *Metrics) IncrementRetry(connector, kind string) {
	if m != nil {
		m.Retries.WithLabelValues(connector, kind).Inc()
	}
}

// IncrementTransition records one breaker state change.
func (m *Metrics) IncrementTransition(connector, from, to string) {
	if m != nil {
		m.StateTransitions.WithLabelValues(connector, from, to).Inc()
	}
}
