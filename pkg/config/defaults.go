package config

import "time"

// Default values for configuration fields.
const (
	DefaultProjectMarker = "Chart.yaml"
	DefaultMaxFileSize   = int64(10 << 20) // 10MB

	DefaultLintFailOn = "error"

	DefaultWatchDebounce = 200 * time.Millisecond

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	DefaultMetricsNamespace = "happ"
	DefaultMetricsSubsystem = "dialect"

	DefaultTracingServiceName = "happctl"
	DefaultTracingExporter    = "stdout"
	DefaultTracingSampler     = "always"
	DefaultTracingSampleRatio = 1.0
)

var (
	defaultDocumentExtensions = []string{".yaml", ".yml"}
	defaultSkipDirs           = []string{".git", "node_modules", "vendor", "tmp", ".werf"}
	// Engine operations are fast; 100µs to ~3s.
	defaultDurationBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 3}
)

// NewDefaultConfig returns a configuration with every default applied.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero-valued field with its default. Explicitly
// set values are left alone.
func ApplyDefaults(cfg *Config) {
	applyDialectDefaults(&cfg.Dialect)
	applyLintDefaults(&cfg.Lint)
	applyWatchDefaults(&cfg.Watch)
	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyDialectDefaults(cfg *DialectConfig) {
	if cfg.ProjectMarker == "" {
		cfg.ProjectMarker = DefaultProjectMarker
	}
	if len(cfg.DocumentExtensions) == 0 {
		cfg.DocumentExtensions = append([]string(nil), defaultDocumentExtensions...)
	}
	if cfg.SkipDirs == nil {
		cfg.SkipDirs = append([]string(nil), defaultSkipDirs...)
	}
	if cfg.MaxFileSize == 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
}

func applyLintDefaults(cfg *LintConfig) {
	if cfg.FailOn == "" {
		cfg.FailOn = DefaultLintFailOn
	}
}

func applyWatchDefaults(cfg *WatchConfig) {
	if cfg.Debounce == 0 {
		cfg.Debounce = DefaultWatchDebounce
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Metrics.DurationBuckets) == 0 {
		cfg.Metrics.DurationBuckets = append([]float64(nil), defaultDurationBuckets...)
	}

	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Tracing.Exporter == "" {
		cfg.Tracing.Exporter = DefaultTracingExporter
	}
	if cfg.Tracing.Sampler == "" {
		cfg.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Tracing.SampleRatio == 0 {
		cfg.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
}
