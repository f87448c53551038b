// Package metrics counts generated and seeded entities.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the counters. The zero value is not usable; a nil *Metrics is a no-op.
type Metrics struct {
	generated *prometheus.CounterVec
	seeded    *prometheus.CounterVec
}

// New registers the counters on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		generated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fakeorders",
			Name:      "generated_total",
			Help:      "Entities produced by the fake generator, nested ones included.",
		}, []string{"entity"}),
		seeded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fakeorders",
			Name:      "seeded_total",
			Help:      "Entities committed to the database by the seeder.",
		}, []string{"entity"}),
	}
	reg.MustRegister(m.generated, m.seeded)
	return m
}

// ObserveGenerated implements fake.Observer.
func (m *Metrics) ObserveGenerated(entity string) {
	if m == nil {
		return
	}
	m.generated.WithLabelValues(entity).Inc()
}

// ObserveSeeded adds n committed entities.
func (m *Metrics) ObserveSeeded(entity string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.seeded.WithLabelValues(entity).Add(float64(n))
}
