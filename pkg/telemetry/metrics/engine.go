package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"helm-apps/dialect/pkg/config"
)

// EngineMetrics tracks resolution work.
//
// Metrics:
//   - happ_dialect_operations_total: Engine operations by operation and status
//   - happ_dialect_operation_duration_seconds: Operation latency
//   - happ_dialect_include_cycles_total: Include cycles detected
//   - happ_dialect_missing_include_files_total: Include files not found
//   - happ_dialect_documents_scanned_total: Documents indexed
type EngineMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	cyclesTotal       prometheus.Counter
	missingFilesTotal *prometheus.CounterVec
	documentsScanned  prometheus.Counter
}

// NewEngineMetrics creates and registers engine metrics with the provided registry.
func NewEngineMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *EngineMetrics {
	em := &EngineMetrics{
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "operations_total",
				Help:      "Total number of engine operations",
			},
			[]string{"operation", "status"},
		),

		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "operation_duration_seconds",
				Help:      "Engine operation latency in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"operation"},
		),

		cyclesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "include_cycles_total",
				Help:      "Total number of include cycles detected",
			},
		),

		missingFilesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "missing_include_files_total",
				Help:      "Total number of include files that were not found",
			},
			[]string{"directive"},
		),

		documentsScanned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "documents_scanned_total",
				Help:      "Total number of values documents indexed",
			},
		),
	}

	registry.MustRegister(
		em.operationsTotal,
		em.operationDuration,
		em.cyclesTotal,
		em.missingFilesTotal,
		em.documentsScanned,
	)

	return em
}

// RecordOperation records one finished operation.
func (em *EngineMetrics) RecordOperation(operation, status string, duration time.Duration) {
	em.operationsTotal.WithLabelValues(operation, status).Inc()
	em.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCycle records a detected include cycle.
func (em *EngineMetrics) RecordCycle() {
	em.cyclesTotal.Inc()
}

// RecordMissingFile records an include file that was not found.
func (em *EngineMetrics) RecordMissingFile(directive string) {
	em.missingFilesTotal.WithLabelValues(directive).Inc()
}

// RecordDocumentScanned records an indexed document.
func (em *EngineMetrics) RecordDocumentScanned() {
	em.documentsScanned.Inc()
}
