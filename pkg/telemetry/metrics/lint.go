package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"helm-apps/dialect/pkg/config"
)

// LintMetrics tracks validation findings and refactor outcomes.
//
// Metrics:
//   - happ_dialect_lint_issues_total: Issues by code and severity
//   - happ_dialect_refactors_total: Refactor operations by operation and status
//   - happ_dialect_refactor_edits: Text edits produced per refactor
type LintMetrics struct {
	issuesTotal    *prometheus.CounterVec
	refactorsTotal *prometheus.CounterVec
	refactorEdits  *prometheus.HistogramVec
}

// NewLintMetrics creates and registers lint and refactor metrics.
func NewLintMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *LintMetrics {
	lm := &LintMetrics{
		issuesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "lint_issues_total",
				Help:      "Total number of validation issues reported",
			},
			[]string{"code", "severity"},
		),

		refactorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "refactors_total",
				Help:      "Total number of refactor operations",
			},
			[]string{"operation", "status"},
		),

		refactorEdits: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "refactor_edits",
				Help:      "Number of text edits produced by a refactor",
				Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(
		lm.issuesTotal,
		lm.refactorsTotal,
		lm.refactorEdits,
	)

	return lm
}

// RecordIssue records one validation issue.
func (lm *LintMetrics) RecordIssue(code, severity string) {
	lm.issuesTotal.WithLabelValues(code, severity).Inc()
}

// RecordRefactor records a refactor outcome. edits is ignored on failure.
func (lm *LintMetrics) RecordRefactor(operation, status string, edits int) {
	lm.refactorsTotal.WithLabelValues(operation, status).Inc()
	if status == StatusSuccess {
		lm.refactorEdits.WithLabelValues(operation).Observe(float64(edits))
	}
}
