package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the file looked up in the working directory when no
// --config flag is given.
const DefaultConfigFile = "happctl.yaml"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention HAPPCTL_SECTION_FIELD (e.g., HAPPCTL_DIALECT_ENV).
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
//
// An empty path skips the file.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = NewDefaultConfig()
	} else {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// Resolve picks the configuration file for a run: the explicit path when
// given, else DefaultConfigFile when it exists, else none.
func Resolve(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Unparsable values are ignored.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("HAPPCTL_DIALECT_ENV"); val != "" {
		cfg.Dialect.Env = val
	}
	if val := os.Getenv("HAPPCTL_DIALECT_PROJECT_MARKER"); val != "" {
		cfg.Dialect.ProjectMarker = val
	}
	if val := os.Getenv("HAPPCTL_DIALECT_DOCUMENT_EXTENSIONS"); val != "" {
		cfg.Dialect.DocumentExtensions = splitList(val)
	}
	if val := os.Getenv("HAPPCTL_DIALECT_SKIP_DIRS"); val != "" {
		cfg.Dialect.SkipDirs = splitList(val)
	}
	if val := os.Getenv("HAPPCTL_DIALECT_IGNORE_GITIGNORE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Dialect.IgnoreGitignore = b
		}
	}
	if val := os.Getenv("HAPPCTL_DIALECT_MAX_FILE_SIZE"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Dialect.MaxFileSize = i
		}
	}

	if val := os.Getenv("HAPPCTL_LINT_ALLOW_LEGACY_LISTS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Lint.AllowLegacyLists = b
		}
	}
	if val := os.Getenv("HAPPCTL_LINT_FAIL_ON"); val != "" {
		cfg.Lint.FailOn = val
	}

	if val := os.Getenv("HAPPCTL_WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.Debounce = d
		}
	}

	if val := os.Getenv("HAPPCTL_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("HAPPCTL_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("HAPPCTL_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("HAPPCTL_TELEMETRY_METRICS_OUTPUT"); val != "" {
		cfg.Telemetry.Metrics.Output = val
	}
	if val := os.Getenv("HAPPCTL_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("HAPPCTL_TELEMETRY_TRACING_OUTPUT"); val != "" {
		cfg.Telemetry.Tracing.Output = val
	}
	if val := os.Getenv("HAPPCTL_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
