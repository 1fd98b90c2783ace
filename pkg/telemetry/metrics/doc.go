// Package metrics provides Prometheus metrics for the dialect engine.
//
// # Metrics Categories
//
//   - Engine Metrics: operation counts and latency, include cycles, missing
//     include files, indexed documents
//   - Lint Metrics: validation issues by code, refactor outcomes and edit
//     counts
//   - Store Metrics: document store hits, misses and size
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	start := time.Now()
//	tree, err := resolve()
//	collector.RecordOperation("resolve", err, time.Since(start))
//
//	// One-shot commands dump the registry on exit.
//	defer collector.Flush()
//
// A nil *Collector records nothing. When metrics are disabled every Record
// method returns immediately.
package metrics
