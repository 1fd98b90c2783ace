package config

import (
	"fmt"
	"slices"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "lint.fail_on").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

var (
	validLogLevels  = []string{"debug", "info", "warn", "warning", "error"}
	validLogFormats = []string{"json", "text", "console"}
	validFailOn     = []string{"error", "warning", "never"}
	validExporters  = []string{"stdout", "none"}
	validSamplers   = []string{"always", "never", "ratio"}
)

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateDialect(&cfg.Dialect)...)
	errs = append(errs, validateLint(&cfg.Lint)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateDialect(cfg *DialectConfig) []FieldError {
	var errs []FieldError

	if strings.ContainsAny(cfg.ProjectMarker, `/\`) {
		errs = append(errs, FieldError{Field: "dialect.project_marker", Message: "must be a file name, not a path"})
	}
	for i, ext := range cfg.DocumentExtensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("dialect.document_extensions[%d]", i),
				Message: fmt.Sprintf("extension %q must start with a dot", ext),
			})
		}
	}
	if cfg.MaxFileSize < 0 {
		errs = append(errs, FieldError{Field: "dialect.max_file_size", Message: "must be non-negative"})
	}

	return errs
}

func validateLint(cfg *LintConfig) []FieldError {
	if !slices.Contains(validFailOn, cfg.FailOn) {
		return []FieldError{{
			Field:   "lint.fail_on",
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(validFailOn, ", "), cfg.FailOn),
		}}
	}
	return nil
}

func validateWatch(cfg *WatchConfig) []FieldError {
	if cfg.Debounce < 0 {
		return []FieldError{{Field: "watch.debounce", Message: "must be non-negative"}}
	}
	return nil
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	if !slices.Contains(validLogLevels, strings.ToLower(cfg.Logging.Level)) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(validLogLevels, ", "), cfg.Logging.Level),
		})
	}
	if !slices.Contains(validLogFormats, strings.ToLower(cfg.Logging.Format)) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(validLogFormats, ", "), cfg.Logging.Format),
		})
	}

	if !slices.IsSorted(cfg.Metrics.DurationBuckets) {
		errs = append(errs, FieldError{Field: "telemetry.metrics.duration_buckets", Message: "must be sorted in increasing order"})
	}

	if !slices.Contains(validExporters, cfg.Tracing.Exporter) {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.exporter",
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(validExporters, ", "), cfg.Tracing.Exporter),
		})
	}
	if !slices.Contains(validSamplers, cfg.Tracing.Sampler) {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(validSamplers, ", "), cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, FieldError{Field: "telemetry.tracing.sample_ratio", Message: "must be between 0 and 1"})
	}

	return errs
}
