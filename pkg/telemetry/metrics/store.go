package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"helm-apps/dialect/pkg/config"
)

// StoreMetrics mirrors the document store counters.
//
// Metrics:
//   - happ_dialect_store_hits: Store lookups served from cache
//   - happ_dialect_store_misses: Store lookups that read the file
//   - happ_dialect_store_entries: Documents currently cached
type StoreMetrics struct {
	hits    prometheus.Gauge
	misses  prometheus.Gauge
	entries prometheus.Gauge
}

// NewStoreMetrics creates and registers store metrics with the provided registry.
func NewStoreMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *StoreMetrics {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      name,
			Help:      help,
		})
	}

	sm := &StoreMetrics{
		hits:    gauge("store_hits", "Document store lookups served from cache"),
		misses:  gauge("store_misses", "Document store lookups that read the file"),
		entries: gauge("store_entries", "Documents currently held by the store"),
	}

	registry.MustRegister(sm.hits, sm.misses, sm.entries)
	return sm
}

// Update sets the store gauges from a stats snapshot.
func (sm *StoreMetrics) Update(hits, misses int64, entries int) {
	sm.hits.Set(float64(hits))
	sm.misses.Set(float64(misses))
	sm.entries.Set(float64(entries))
}
