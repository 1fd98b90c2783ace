// Package config provides configuration management for happctl.
//
// Configuration is read from a YAML file (happctl.yaml in the working
// directory unless --config names another), completed with defaults and
// overridden by environment variables.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention HAPPCTL_SECTION_FIELD:
//
//   - HAPPCTL_DIALECT_ENV overrides dialect.env
//   - HAPPCTL_LINT_FAIL_ON overrides lint.fail_on
//   - HAPPCTL_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// List fields take comma-separated values.
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example
//
//	dialect:
//	  env: production
//	  skip_dirs: [.git, charts]
//	lint:
//	  allow_legacy_lists: true
//	  fail_on: warning
//	telemetry:
//	  logging:
//	    level: debug
//	  metrics:
//	    enabled: true
//	    output: "-"
package config
