package tracing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"helm-apps/dialect/pkg/config"
)

func enabledConfig() *config.TracingConfig {
	return &config.TracingConfig{
		Enabled:     true,
		ServiceName: "happctl-test",
		Exporter:    "stdout",
		Sampler:     SamplerAlways,
		SampleRatio: 1,
	}
}

func TestNew_Disabled(t *testing.T) {
	tracer, err := New(&config.TracingConfig{Enabled: false})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if tracer.Enabled() {
		t.Error("disabled tracer reports enabled")
	}

	ctx, span := tracer.Start(context.Background(), "noop")
	span.End()
	if TraceID(ctx) != "" {
		t.Error("noop span has a valid trace id")
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNew_NilConfig(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("New(nil) error = nil")
	}
}

func TestNew_NoneExporter(t *testing.T) {
	cfg := enabledConfig()
	cfg.Exporter = "none"

	tracer, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if tracer.Enabled() {
		t.Error("none exporter should yield a noop tracer")
	}
}

func TestNew_StdoutToFile(t *testing.T) {
	cfg := enabledConfig()
	cfg.Output = filepath.Join(t.TempDir(), "trace.json")

	tracer, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, span := tracer.Start(context.Background(), "resolve")
	SetEntityAttributes(span, "apps-stateless", "api", "prod")
	span.End()

	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	data, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"Name": "resolve"`, AttrApp, "happctl-test"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("trace output missing %q", want)
		}
	}
}

func TestNew_InvalidSampler(t *testing.T) {
	cfg := enabledConfig()
	cfg.Sampler = "sometimes"

	if _, err := NewWithExporter(cfg, tracetest.NewInMemoryExporter()); err == nil {
		t.Error("expected sampler error")
	}
}

func TestSpansAndAttributes(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := NewWithExporter(enabledConfig(), exporter)
	if err != nil {
		t.Fatal(err)
	}

	ctx, root := tracer.Start(context.Background(), "happctl resolve")
	if TraceID(ctx) == "" || SpanID(ctx) == "" {
		t.Error("root span has no ids")
	}

	_, child := tracer.Start(ctx, "expand")
	SetDocumentAttributes(child, "values.yaml")
	SetExpansionAttributes(child, 2, 1)
	AddEvent(child, "missing include file", attribute.String("path", "nope.yaml"))
	End(child, nil)

	failure := errors.New("Include cycle detected")
	SetErrorType(root, "cycle")
	End(root, failure)

	// Shutdown would clear the in-memory exporter.
	if err := tracer.provider.ForceFlush(context.Background()); err != nil {
		t.Fatal(err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("exported %d spans, want 2", len(spans))
	}

	byName := map[string]tracetest.SpanStub{}
	for _, s := range spans {
		byName[s.Name] = s
	}

	expand := byName["expand"]
	if expand.Parent.SpanID() != byName["happctl resolve"].SpanContext.SpanID() {
		t.Error("expand is not a child of the root span")
	}
	if expand.Status.Code != codes.Ok {
		t.Errorf("expand status = %v, want Ok", expand.Status.Code)
	}
	if len(expand.Events) != 1 || expand.Events[0].Name != "missing include file" {
		t.Errorf("expand events = %v", expand.Events)
	}

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range expand.Attributes {
		attrs[kv.Key] = kv.Value
	}
	if attrs[AttrDocument].AsString() != "values.yaml" || attrs[AttrMissingFiles].AsInt64() != 1 {
		t.Errorf("expand attributes = %v", expand.Attributes)
	}

	rootStub := byName["happctl resolve"]
	if rootStub.Status.Code != codes.Error || rootStub.Status.Description != failure.Error() {
		t.Errorf("root status = %+v", rootStub.Status)
	}
}

func TestSetEntityAttributesSkipsEmpty(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := NewWithExporter(enabledConfig(), exporter)
	if err != nil {
		t.Fatal(err)
	}

	_, span := tracer.Start(context.Background(), "envs")
	SetEntityAttributes(span, "", "", "prod")
	span.End()
	if err := tracer.provider.ForceFlush(context.Background()); err != nil {
		t.Fatal(err)
	}

	got := exporter.GetSpans()[0].Attributes
	if len(got) != 1 || got[0].Key != AttrEnv {
		t.Errorf("attributes = %v, want only %s", got, AttrEnv)
	}
}

func TestNilTracer(t *testing.T) {
	var tracer *Tracer
	_, span := tracer.Start(context.Background(), "x")
	span.End()
	if tracer.Enabled() {
		t.Error("nil tracer reports enabled")
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() = %v", err)
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{"always", SamplerAlways, 0, false},
		{"empty means always", "", 0, false},
		{"never", SamplerNever, 0, false},
		{"ratio", SamplerRatio, 0.25, false},
		{"ratio too high", SamplerRatio, 1.5, true},
		{"negative ratio", SamplerRatio, -0.1, true},
		{"unknown", "adaptive", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sampler, err := createSampler(tt.strategy, tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Fatalf("createSampler() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && sampler == nil {
				t.Error("createSampler() returned nil sampler")
			}
		})
	}
}
