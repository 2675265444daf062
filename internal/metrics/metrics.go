// Package metrics exposes prometheus instrumentation for the lookup
// service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the service's collectors. Construct with New and pass
// the value down; there is no package-level instance.
type Metrics struct {
	LookupTotal    *prometheus.CounterVec
	LookupDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LookupTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storesearch_lookups_total",
			Help: "Total app lookups by platform and outcome",
		}, []string{"platform", "outcome"}),

		LookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storesearch_lookup_duration_seconds",
			Help:    "App lookup duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"platform"}),
	}

	reg.MustRegister(m.LookupTotal, m.LookupDuration)
	return m
}

// ObserveLookup records one finished lookup.
func (m *Metrics) ObserveLookup(platform, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.LookupTotal.WithLabelValues(platform, outcome).Inc()
	m.LookupDuration.WithLabelValues(platform).Observe(seconds)
}
