package metrics

import (
	"bytes"
	"errors"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"helm-apps/dialect/pkg/config"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:         true,
		Namespace:       "test",
		Subsystem:       "dialect",
		DurationBuckets: []float64{0.001, 0.01, 0.1, 1},
	}
}

func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector.config != cfg {
		t.Error("Collector config not set correctly")
	}
	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
}

func TestCollector_Defaults(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}
	NewCollector(cfg, nil)

	if cfg.Namespace != config.DefaultMetricsNamespace || cfg.Subsystem != config.DefaultMetricsSubsystem {
		t.Errorf("namespace/subsystem = %q/%q", cfg.Namespace, cfg.Subsystem)
	}
	if len(cfg.DurationBuckets) == 0 {
		t.Error("duration buckets not defaulted")
	}
}

func TestCollector_RecordOperation(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	tests := []struct {
		name      string
		operation string
		err       error
		status    string
	}{
		{"resolve success", "resolve", nil, StatusSuccess},
		{"resolve error", "resolve", errors.New("cycle"), StatusError},
		{"expand success", "expand", nil, StatusSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := collector.engineMetrics.operationsTotal.WithLabelValues(tt.operation, tt.status)
			before := testutil.ToFloat64(counter)

			collector.RecordOperation(tt.operation, tt.err, 5*time.Millisecond)

			if got := testutil.ToFloat64(counter); got != before+1 {
				t.Errorf("operations_total{%s,%s} = %v, want %v", tt.operation, tt.status, got, before+1)
			}
		})
	}

	if n := testutil.CollectAndCount(collector.engineMetrics.operationDuration); n != 2 {
		t.Errorf("operation_duration_seconds series = %d, want 2", n)
	}
}

func TestCollector_EngineCounters(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordCycle()
	collector.RecordCycle()
	collector.RecordMissingFiles("_include_files", "_include_files", "_include_from_file")
	collector.RecordDocumentScanned()

	if got := testutil.ToFloat64(collector.engineMetrics.cyclesTotal); got != 2 {
		t.Errorf("include_cycles_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.engineMetrics.missingFilesTotal.WithLabelValues("_include_files")); got != 2 {
		t.Errorf("missing_include_files_total{_include_files} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.engineMetrics.documentsScanned); got != 1 {
		t.Errorf("documents_scanned_total = %v, want 1", got)
	}
}

func TestCollector_LintAndRefactor(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordIssue("E_UNEXPECTED_LIST", "error")
	collector.RecordIssue("E_UNEXPECTED_LIST", "error")
	collector.RecordRefactor("rename", nil, 3)
	collector.RecordRefactor("rename", errors.New("conflict"), 0)

	if got := testutil.ToFloat64(collector.lintMetrics.issuesTotal.WithLabelValues("E_UNEXPECTED_LIST", "error")); got != 2 {
		t.Errorf("lint_issues_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.lintMetrics.refactorsTotal.WithLabelValues("rename", StatusError)); got != 1 {
		t.Errorf("refactors_total{rename,error} = %v, want 1", got)
	}

	expected := `
# HELP test_dialect_refactor_edits Number of text edits produced by a refactor
# TYPE test_dialect_refactor_edits histogram
test_dialect_refactor_edits_bucket{operation="rename",le="1"} 0
test_dialect_refactor_edits_bucket{operation="rename",le="2"} 0
test_dialect_refactor_edits_bucket{operation="rename",le="5"} 1
test_dialect_refactor_edits_bucket{operation="rename",le="10"} 1
test_dialect_refactor_edits_bucket{operation="rename",le="25"} 1
test_dialect_refactor_edits_bucket{operation="rename",le="50"} 1
test_dialect_refactor_edits_bucket{operation="rename",le="100"} 1
test_dialect_refactor_edits_bucket{operation="rename",le="+Inf"} 1
test_dialect_refactor_edits_sum{operation="rename"} 3
test_dialect_refactor_edits_count{operation="rename"} 1
`
	if err := testutil.CollectAndCompare(collector.lintMetrics.refactorEdits, strings.NewReader(expected)); err != nil {
		t.Errorf("refactor_edits mismatch: %v", err)
	}
}

func TestCollector_CardinalityFallback(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.cardinalityLimiter = NewCardinalityLimiter(1)

	collector.RecordIssue("A", "error")
	collector.RecordIssue("B", "error")

	if got := testutil.ToFloat64(collector.lintMetrics.issuesTotal.WithLabelValues("other", "error")); got != 1 {
		t.Errorf("lint_issues_total{other} = %v, want 1", got)
	}
}

func TestCollector_UpdateStore(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.UpdateStore(7, 3, 2)

	if got := testutil.ToFloat64(collector.storeMetrics.hits); got != 7 {
		t.Errorf("store_hits = %v, want 7", got)
	}
	if got := testutil.ToFloat64(collector.storeMetrics.entries); got != 2 {
		t.Errorf("store_entries = %v, want 2", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, nil)

	collector.RecordOperation("resolve", nil, time.Millisecond)
	collector.RecordCycle()
	collector.RecordIssue("E", "error")

	if got := testutil.ToFloat64(collector.engineMetrics.cyclesTotal); got != 0 {
		t.Errorf("disabled collector recorded cycles: %v", got)
	}
	if n := testutil.CollectAndCount(collector.engineMetrics.operationsTotal); n != 0 {
		t.Errorf("disabled collector recorded %d operation series", n)
	}
}

func TestCollector_NilSafe(t *testing.T) {
	var collector *Collector
	collector.RecordOperation("resolve", nil, time.Millisecond)
	collector.RecordIssue("E", "error")
	collector.UpdateStore(1, 1, 1)
	if err := collector.Flush(); err != nil {
		t.Errorf("Flush() on nil collector = %v", err)
	}
}

func TestWriteTextAndFlush(t *testing.T) {
	cfg := testConfig()
	cfg.Output = filepath.Join(t.TempDir(), "metrics.prom")
	collector := NewCollector(cfg, nil)
	collector.RecordCycle()

	var buf bytes.Buffer
	if err := collector.WriteText(&buf); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	if !strings.Contains(buf.String(), "test_dialect_include_cycles_total 1") {
		t.Errorf("WriteText() output missing cycle counter:\n%s", buf.String())
	}

	if err := collector.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	data, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, buf.Bytes()) {
		t.Error("flushed file differs from WriteText output")
	}
}

func TestHandler(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.RecordDocumentScanned()

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "test_dialect_documents_scanned_total 1") {
		t.Errorf("handler output missing counter:\n%s", rec.Body.String())
	}
}

func TestCardinalityLimiter(t *testing.T) {
	limiter := NewCardinalityLimiter(3)

	for i := 0; i < 3; i++ {
		if !limiter.Allow(fmt.Sprintf("set-%d", i)) {
			t.Errorf("Allow(set-%d) = false within limit", i)
		}
	}
	if limiter.Allow("set-3") {
		t.Error("Allow() beyond limit = true")
	}
	if !limiter.Allow("set-0") {
		t.Error("Allow() of an existing set = false")
	}
	if limiter.Count() != 3 {
		t.Errorf("Count() = %d, want 3", limiter.Count())
	}
}
