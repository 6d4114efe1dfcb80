package repository

import "github.com/prometheus/client_golang/prometheus"

type repositoryMetrics struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	fallbacks prometheus.Counter
	evictions prometheus.Counter
	weight    prometheus.Gauge
}

func newRepositoryMetrics() *repositoryMetrics {
	return &repositoryMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "geometry",
			Subsystem: "repository",
			Name:      "hits_total",
			Help:      "Total number of lookups served from the cache",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "geometry",
			Subsystem: "repository",
			Name:      "misses_total",
			Help:      "Total number of lookups that parsed the specification",
		}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "geometry",
			Subsystem: "repository",
			Name:      "fallbacks_total",
			Help:      "Total number of misses parsed without caching because the load limit was reached",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "geometry",
			Subsystem: "repository",
			Name:      "evictions_total",
			Help:      "Total number of entries evicted to stay within the weight budget",
		}),
		weight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "geometry",
			Subsystem: "repository",
			Name:      "weight",
			Help:      "Current total weight of the cached entries",
		}),
	}
}

func (m *repositoryMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.hits, m.misses, m.fallbacks, m.evictions, m.weight}
}

func (m *repositoryMetrics) register(reg prometheus.Registerer) error {
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
