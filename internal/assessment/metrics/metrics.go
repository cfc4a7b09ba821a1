package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the assessment orchestrator.
type Metrics struct {
	// Verdicts by risk level
	Verdicts *prometheus.CounterVec

	// Domains that produced no data, by category
	DomainsAbsent *prometheus.CounterVec

	// Overall assessment latency including fan-out
	AssessLatency prometheus.Histogram
}

// New creates a new Metrics instance with all assessment metrics registered.
func New() *Metrics {
	return &Metrics{
		Verdicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "x24_assessment_verdicts_total",
			Help: "Completed assessments by verdict risk level",
		}, []string{"level"}),

		DomainsAbsent: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "x24_assessment_domains_absent_total",
			Help: "Assessments where a risk domain produced no data, by category",
		}, []string{"category"}),

		AssessLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "x24_assessment_duration_seconds",
			Help:    "Duration of full assessments including connector fan-out",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// IncrementVerdict records a completed assessment outcome.
func (m *Metrics) IncrementVerdict(level string) {
	if m != nil {
		m.Verdicts.WithLabelValues(level).Inc()
	}
}

// IncrementDomainAbsent records a domain that produced no data.
func (m *Metrics) IncrementDomainAbsent(category string) {
	if m != nil {
		m.DomainsAbsent.WithLabelValues(category).Inc()
	}
}

// ObserveAssessLatency records the total assessment duration.
func (m *Metrics) ObserveAssessLatency(d time.Duration) {
	if m != nil {
		m.AssessLatency.Observe(d.Seconds())
	}
}
