package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakeorders/fake"
	"fakeorders/metrics"
)

var _ fake.Observer = (*metrics.Metrics)(nil)

func TestMetrics_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveGenerated("Order")
	m.ObserveGenerated("Order")
	m.ObserveGenerated("Customer")
	m.ObserveSeeded("Order", 3)
	m.ObserveSeeded("Order", 0)

	families, err := reg.Gather()
	require.NoError(t, err)

	got := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			got[mf.GetName()+"/"+metric.GetLabel()[0].GetValue()] = metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{
		"fakeorders_generated_total/Order":    2,
		"fakeorders_generated_total/Customer": 1,
		"fakeorders_seeded_total/Order":       3,
	}, got)
	assert.Len(t, families, 2)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveGenerated("Order")
		m.ObserveSeeded("Order", 1)
	})
}
