package agg

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts aggregation activity. A nil *Metrics records nothing.
type Metrics struct {
	appended     *prometheus.CounterVec
	absent       *prometheus.CounterVec
	aggregations *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg if it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		appended: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nearrank",
				Name:      "values_appended_total",
				Help:      "The total number of present values appended to aggregations.",
			},
			[]string{"kind"},
		),
		absent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nearrank",
				Name:      "values_absent_total",
				Help:      "The total number of absent values skipped by aggregations.",
			},
			[]string{"kind"},
		),
		aggregations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nearrank",
				Name:      "aggregations_total",
				Help:      "The total number of finalized aggregations by result mode.",
			},
			[]string{"kind", "mode"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.appended, m.absent, m.aggregations)
	}

	return m
}

func (m *Metrics) value(k Kind, valid bool) {
	if m == nil {
		return
	}

	if valid {
		m.appended.WithLabelValues(k.String()).Inc()
	} else {
		m.absent.WithLabelValues(k.String()).Inc()
	}
}

func (m *Metrics) finalized(k Kind, mode string) {
	if m == nil {
		return
	}

	m.aggregations.WithLabelValues(k.String(), mode).Inc()
}
