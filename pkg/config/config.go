package config

import "time"

// Config is the complete happctl configuration.
type Config struct {
	// Dialect controls document discovery and resolution.
	Dialect DialectConfig `yaml:"dialect"`

	// Lint controls the validator.
	Lint LintConfig `yaml:"lint"`

	// Watch controls lint --watch.
	Watch WatchConfig `yaml:"watch"`

	// Telemetry holds logging, metrics and tracing settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// DialectConfig controls how values documents are found and resolved.
type DialectConfig struct {
	// Env is the active environment when a document has no global.env
	// and no --env flag is given.
	Env string `yaml:"env"`

	// ProjectMarker is the file that marks a chart root (default Chart.yaml).
	ProjectMarker string `yaml:"project_marker"`

	// DocumentExtensions are the file extensions scanned for values
	// documents.
	DocumentExtensions []string `yaml:"document_extensions"`

	// SkipDirs are directory names never descended into.
	SkipDirs []string `yaml:"skip_dirs"`

	// IgnoreGitignore disables .gitignore handling during discovery.
	IgnoreGitignore bool `yaml:"ignore_gitignore"`

	// MaxFileSize is the largest document or include file read, in bytes.
	// 0 disables the limit.
	MaxFileSize int64 `yaml:"max_file_size"`
}

// LintConfig controls the validator.
type LintConfig struct {
	// AllowLegacyLists accepts native lists in well-known Kubernetes list
	// fields (ports, args, command, ...).
	AllowLegacyLists bool `yaml:"allow_legacy_lists"`

	// FailOn is the lowest severity that makes lint exit non-zero:
	// "error", "warning" or "never".
	FailOn string `yaml:"fail_on"`
}

// WatchConfig controls the file watcher.
type WatchConfig struct {
	// Debounce is how long to wait for more changes before re-running.
	Debounce time.Duration `yaml:"debounce"`
}

// TelemetryConfig groups observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is one of text, json, console.
	Format string `yaml:"format"`

	// AddSource includes file:line in records.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures the Prometheus collector.
type MetricsConfig struct {
	// Enabled turns collection on.
	Enabled bool `yaml:"enabled"`

	// Namespace and Subsystem prefix every metric name.
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets are the histogram buckets for operation durations,
	// in seconds.
	DurationBuckets []float64 `yaml:"duration_buckets"`

	// Output is a file the text exposition is written to when the command
	// finishes. "-" writes to stderr; empty writes nothing.
	Output string `yaml:"output"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	// Enabled turns tracing on. Disabled tracing uses a noop tracer.
	Enabled bool `yaml:"enabled"`

	// ServiceName is the service.name resource attribute.
	ServiceName string `yaml:"service_name"`

	// Exporter is "stdout" (pretty JSON spans) or "none".
	Exporter string `yaml:"exporter"`

	// Output is the file spans are written to; empty writes to stderr.
	Output string `yaml:"output"`

	// Sampler is "always", "never" or "ratio".
	Sampler string `yaml:"sampler"`

	// SampleRatio is used by the ratio sampler.
	SampleRatio float64 `yaml:"sample_ratio"`
}
