// Package tracing provides OpenTelemetry tracing for happctl runs.
//
// Each command invocation opens a root span; the dialect engine adds child
// spans for its phases (load, expand, resolve, envs, lint, refactor).
// Spans are written by the stdout exporter, pretty-printed, to stderr or to
// the file named by telemetry.tracing.output.
//
// # Sampling Strategies
//
//   - always: Sample every run
//   - never: Sample no runs
//   - ratio: Sample a fraction of runs
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "resolve")
//	tracing.SetEntityAttributes(span, "apps-stateless", "api", "prod")
//	defer span.End()
//
// A nil *Tracer behaves like a disabled one.
package tracing
