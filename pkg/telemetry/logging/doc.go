// Package logging provides structured logging for happctl and the dialect
// engine.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON, text, and console formats
//   - Context-aware logging with run IDs, command and document fields
//   - Trace correlation with the active OpenTelemetry span
//
// Logs go to stderr by default; command output owns stdout.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "debug", Format: "json"})
//	if err != nil {
//	    return err
//	}
//
//	ctx = logging.WithRunID(ctx, logging.NewRunID())
//	ctx = logging.WithDocument(ctx, "values.yaml")
//	logger.InfoContext(ctx, "document resolved", "apps", 12)
//
// Engine packages accept a *slog.Logger; pass logger.Slog() to them.
package logging
