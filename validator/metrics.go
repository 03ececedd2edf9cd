package validator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts validation runs and findings.
type Metrics struct {
	runs     prometheus.Counter
	findings *prometheus.CounterVec
}

// NewMetrics registers validator metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		runs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "semschema",
			Subsystem: "validator",
			Name:      "runs_total",
			Help:      "Total validation runs",
		}),
		// Labels: error_type, severity (error, warning)
		findings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semschema",
			Subsystem: "validator",
			Name:      "findings_total",
			Help:      "Total validation findings by type and severity",
		}, []string{"error_type", "severity"}),
	}
}

func (m *Metrics) observeRun() {
	if m == nil {
		return
	}
	m.runs.Inc()
}

func (m *Metrics) observe(e *Error) {
	if m == nil {
		return
	}
	severity := "error"
	if e.Warning {
		severity = "warning"
	}
	m.findings.WithLabelValues(string(e.Type), severity).Inc()
}
