package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys used on engine spans. Custom keys live under "happ.".
const (
	AttrDocument  = "happ.document"
	AttrGroup     = "happ.group"
	AttrApp       = "happ.app"
	AttrEnv       = "happ.env"
	AttrSymbol    = "happ.symbol"
	AttrProfile   = "happ.profile"
	AttrEdits     = "happ.edits"
	AttrIssues    = "happ.issues"
	AttrDocuments = "happ.documents"

	AttrMissingFiles = "happ.include.missing_files"
	AttrLoadedFiles  = "happ.include.loaded_files"

	AttrErrorType    = "happ.error.type"
	AttrErrorMessage = "error.message"
)

// SetDocumentAttributes sets the document under work on a span.
func SetDocumentAttributes(span trace.Span, path string) {
	span.SetAttributes(attribute.String(AttrDocument, path))
}

// SetEntityAttributes sets the application and environment a resolution
// targets. Empty values are skipped.
func SetEntityAttributes(span trace.Span, group, app, env string) {
	attrs := make([]attribute.KeyValue, 0, 3)
	if group != "" {
		attrs = append(attrs, attribute.String(AttrGroup, group))
	}
	if app != "" {
		attrs = append(attrs, attribute.String(AttrApp, app))
	}
	if env != "" {
		attrs = append(attrs, attribute.String(AttrEnv, env))
	}
	span.SetAttributes(attrs...)
}

// SetExpansionAttributes records the outcome of the include file pass.
func SetExpansionAttributes(span trace.Span, loaded, missing int) {
	span.SetAttributes(
		attribute.Int(AttrLoadedFiles, loaded),
		attribute.Int(AttrMissingFiles, missing),
	)
}

// SetErrorType tags a span with the engine error category.
func SetErrorType(span trace.Span, errorType string) {
	span.SetAttributes(attribute.String(AttrErrorType, errorType))
}

// AddEvent adds a named event to the span.
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
