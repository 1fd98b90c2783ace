package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"

	"helm-apps/dialect/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"json debug", Config{Level: "debug", Format: "json"}, false},
		{"upper case", Config{Level: "WARN", Format: "CONSOLE"}, false},
		{"invalid level", Config{Level: "loud"}, true},
		{"invalid format", Config{Format: "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger == nil {
				t.Fatal("New() returned nil logger")
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	for _, hidden := range []string{"debug message", "info message"} {
		if strings.Contains(out, hidden) {
			t.Errorf("output contains filtered %q", hidden)
		}
	}
	for _, shown := range []string{"warn message", "error message"} {
		if !strings.Contains(out, shown) {
			t.Errorf("output missing %q", shown)
		}
	}
	if logger.Level() != slog.LevelWarn {
		t.Errorf("Level() = %v, want WARN", logger.Level())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.With("component", "resolver").Info("resolved", "apps", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["msg"] != "resolved" || entry["component"] != "resolver" || entry["apps"] != float64(3) {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestConsoleFormatOmitsTime(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("hello")
	if strings.Contains(buf.String(), "time=") {
		t.Errorf("console output has a timestamp: %q", buf.String())
	}
}

func TestContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithRunID(context.Background(), "run-1")
	ctx = WithCommand(ctx, "lint")
	ctx = WithDocument(ctx, "values.yaml")

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	ctx = trace.ContextWithSpanContext(ctx, trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	logger.InfoContext(ctx, "linted")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}

	want := map[string]string{
		"run_id":   "run-1",
		"command":  "lint",
		"document": "values.yaml",
		"trace_id": "0102030405060708090a0b0c0d0e0f10",
		"span_id":  "0102030405060708",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %q", k, entry[k], v)
		}
	}
}

func TestWithContextNoFields(t *testing.T) {
	logger := Discard()
	if got := logger.WithContext(context.Background()); got != logger {
		t.Error("WithContext without fields should return the same logger")
	}
}

func TestContextAccessors(t *testing.T) {
	ctx := context.Background()
	if GetRunID(ctx) != "" || GetDocument(ctx) != "" || GetCommand(ctx) != "" {
		t.Error("empty context returned values")
	}

	id := NewRunID()
	if len(id) != 36 {
		t.Errorf("NewRunID() = %q, want a UUID", id)
	}
	if NewRunID() == id {
		t.Error("NewRunID() returned the same id twice")
	}
	if got := GetRunID(WithRunID(ctx, id)); got != id {
		t.Errorf("GetRunID() = %q, want %q", got, id)
	}
}

func TestFromConfig(t *testing.T) {
	var buf bytes.Buffer
	cfg := FromConfig(config.LoggingConfig{Level: "debug", Format: "json", AddSource: true}, &buf)

	if cfg.Level != "debug" || cfg.Format != "json" || !cfg.AddSource || cfg.Writer != &buf {
		t.Errorf("FromConfig() = %+v", cfg)
	}
}

func TestSlog(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Slog().Info("via slog")
	if !strings.Contains(buf.String(), "via slog") {
		t.Errorf("Slog() output = %q", buf.String())
	}
}
