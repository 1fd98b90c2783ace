package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"helm-apps/dialect/pkg/config"
)

// Operation status labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Collector owns every Prometheus metric of the dialect engine. A nil
// *Collector is valid and records nothing, so engine code can call it
// unconditionally.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	engineMetrics *EngineMetrics
	lintMetrics   *LintMetrics
	storeMetrics  *StoreMetrics

	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{Enabled: true}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = prometheus.ExponentialBuckets(0.0001, 5, 8)
	}

	return &Collector{
		config:             cfg,
		registry:           registry,
		engineMetrics:      NewEngineMetrics(cfg, registry),
		lintMetrics:        NewLintMetrics(cfg, registry),
		storeMetrics:       NewStoreMetrics(cfg, registry),
		cardinalityLimiter: NewCardinalityLimiter(1000),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordOperation records a finished engine operation such as "resolve",
// "expand" or "envs".
func (c *Collector) RecordOperation(operation string, err error, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.engineMetrics.RecordOperation(operation, statusOf(err), duration)
}

// RecordCycle records a detected include cycle.
func (c *Collector) RecordCycle() {
	if !c.enabled() {
		return
	}
	c.engineMetrics.RecordCycle()
}

// RecordMissingFiles records include files reported missing by one
// expansion, by directive.
func (c *Collector) RecordMissingFiles(directives ...string) {
	if !c.enabled() {
		return
	}
	for _, d := range directives {
		c.engineMetrics.RecordMissingFile(d)
	}
}

// RecordDocumentScanned records an indexed document.
func (c *Collector) RecordDocumentScanned() {
	if !c.enabled() {
		return
	}
	c.engineMetrics.RecordDocumentScanned()
}

// RecordIssue records a validation issue. Codes beyond the cardinality
// limit are folded into "other".
func (c *Collector) RecordIssue(code, severity string) {
	if !c.enabled() {
		return
	}
	if !c.cardinalityLimiter.Allow(fmt.Sprintf("issue:%s:%s", code, severity)) {
		code = "other"
	}
	c.lintMetrics.RecordIssue(code, severity)
}

// RecordRefactor records a refactor outcome and the number of edits it
// produced.
func (c *Collector) RecordRefactor(operation string, err error, edits int) {
	if !c.enabled() {
		return
	}
	c.lintMetrics.RecordRefactor(operation, statusOf(err), edits)
}

// UpdateStore publishes a document store snapshot.
func (c *Collector) UpdateStore(hits, misses int64, entries int) {
	if !c.enabled() {
		return
	}
	c.storeMetrics.Update(hits, misses, entries)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func statusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether a label set may be used: it already exists or the
// limit has not been reached.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
