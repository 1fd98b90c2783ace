package dialect

import (
	"context"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"helm-apps/dialect/pkg/dialect/ast"
	dialectErrors "helm-apps/dialect/pkg/dialect/errors"
	"helm-apps/dialect/pkg/dialect/envmap"
	"helm-apps/dialect/pkg/dialect/include"
	"helm-apps/dialect/pkg/dialect/parser"
	"helm-apps/dialect/pkg/dialect/validator"
	"helm-apps/dialect/pkg/dialect/workspace"
	"helm-apps/dialect/pkg/telemetry/metrics"
	"helm-apps/dialect/pkg/telemetry/tracing"
)

// Document is a values document loaded for resolution: its text, its
// parsed tree and the result of the include file pass.
type Document struct {
	Path      string
	Text      string
	Tree      ast.Value
	Expansion *include.Expansion
}

// Engine runs the read-only resolution pipeline (parse, expand file
// includes, resolve profiles, select environments) with logging, metrics
// and tracing around each phase. An Engine is safe for concurrent use when
// its store is.
type Engine struct {
	logger  *slog.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
	store   *workspace.Store
	parser  *parser.Parser
	reader  include.FileReader
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics sets the metrics collector. Nil disables metrics.
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Engine) { e.metrics = c }
}

// WithTracer sets the tracer. Nil disables tracing.
func WithTracer(t *tracing.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// WithStore reads documents through store so unchanged files are not
// read twice.
func WithStore(s *workspace.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithMaxFileSize limits the size of documents and include files.
func WithMaxFileSize(size int64) Option {
	return func(e *Engine) {
		if size > 0 {
			e.parser = parser.NewParser().WithMaxFileSize(size)
			e.reader = include.OSReader{MaxFileSize: size}
		}
	}
}

// WithReader sets the reader used for include files.
func WithReader(r include.FileReader) Option {
	return func(e *Engine) { e.reader = r }
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		parser: parser.NewParser(),
		reader: include.OSReader{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// LoadDocument reads path and runs LoadText on its content.
func (e *Engine) LoadDocument(ctx context.Context, path string) (*Document, error) {
	var (
		text string
		err  error
	)
	if e.store != nil {
		text, err = e.store.Get(path)
		stats := e.store.Stats()
		e.metrics.UpdateStore(stats.Hits, stats.Misses, e.store.Len())
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		text = string(data)
	}
	if err != nil {
		return nil, dialectErrors.Wrap(dialectErrors.ErrorTypeIO, err, "failed to read %s", path)
	}
	return e.LoadText(ctx, path, text)
}

// LoadText parses text as the document at path and expands its file
// includes. Missing include files are logged and kept on the expansion;
// cycles and unreadable files fail the load.
func (e *Engine) LoadText(ctx context.Context, path, text string) (doc *Document, err error) {
	ctx, span := e.tracer.Start(ctx, "load")
	tracing.SetDocumentAttributes(span, path)
	start := time.Now()
	defer func() {
		e.metrics.RecordOperation("load", err, time.Since(start))
		tracing.End(span, err)
	}()

	tree, err := e.parser.ParseDocument([]byte(text), path)
	if err != nil {
		return nil, err
	}
	e.metrics.RecordDocumentScanned()

	expander := include.NewExpander(e.reader, include.WithParser(e.parser), include.WithLogger(e.logger))
	exp, err := expander.Expand(ctx, tree, path)
	if err != nil {
		if dialectErrors.IsType(err, dialectErrors.ErrorTypeCycle) {
			e.metrics.RecordCycle()
		}
		return nil, err
	}

	tracing.SetExpansionAttributes(span, len(exp.LoadedFiles), len(exp.MissingFiles))
	for _, missing := range exp.MissingFiles {
		e.metrics.RecordMissingFiles(missing.Directive)
		e.logger.WarnContext(ctx, "include file not found",
			"document", path,
			"path", missing.RawPath,
			"directive", missing.Directive,
		)
	}

	return &Document{Path: path, Text: text, Tree: tree, Expansion: exp}, nil
}

// PreviewEntity returns the effective values of <group>.<app> in env: the
// entity's profiles applied, then its environment maps selected. An empty
// env falls back to global.env of the document.
func (e *Engine) PreviewEntity(ctx context.Context, doc *Document, group, app, env string) (out ast.Value, err error) {
	ctx, span := e.tracer.Start(ctx, "resolve")
	activeEnv := envmap.ActiveEnv(doc.Expansion.Tree, env)
	tracing.SetDocumentAttributes(span, doc.Path)
	tracing.SetEntityAttributes(span, group, app, activeEnv)
	start := time.Now()
	defer func() {
		e.metrics.RecordOperation("resolve", err, time.Since(start))
		tracing.End(span, err)
	}()

	resolver := include.NewResolver(doc.Expansion.Registry(), include.WithLogger(e.logger))
	resolved, err := resolver.ResolveEntity(doc.Expansion.Tree, group, app)
	if err != nil {
		if dialectErrors.IsType(err, dialectErrors.ErrorTypeCycle) {
			e.metrics.RecordCycle()
		}
		return ast.Value{}, err
	}
	if unknown := resolver.Unknown(); len(unknown) > 0 {
		e.logger.DebugContext(ctx, "unknown include profiles", "entity", group+"."+app, "profiles", unknown)
	}

	return envmap.ResolveEnv(resolved, activeEnv), nil
}

// ResolveDocument applies every _include of the document and, when env is
// set (or global.env is), selects environment branches throughout.
func (e *Engine) ResolveDocument(ctx context.Context, doc *Document, env string) (out ast.Value, err error) {
	_, span := e.tracer.Start(ctx, "resolve_document")
	tracing.SetDocumentAttributes(span, doc.Path)
	start := time.Now()
	defer func() {
		e.metrics.RecordOperation("resolve_document", err, time.Since(start))
		tracing.End(span, err)
	}()

	resolved, err := include.NewResolver(doc.Expansion.Registry(), include.WithLogger(e.logger)).Resolve(doc.Expansion.Tree)
	if err != nil {
		if dialectErrors.IsType(err, dialectErrors.ErrorTypeCycle) {
			e.metrics.RecordCycle()
		}
		return ast.Value{}, err
	}

	if activeEnv := envmap.ActiveEnv(doc.Expansion.Tree, env); activeEnv != "" {
		tracing.SetEntityAttributes(span, "", "", activeEnv)
		resolved = envmap.ResolveEnv(resolved, activeEnv)
	}
	return resolved, nil
}

// Environments lists the environments the document mentions.
func (e *Engine) Environments(doc *Document) envmap.Environments {
	return envmap.Discover(doc.Expansion.Tree)
}

// Lint validates the document and records every issue.
func (e *Engine) Lint(ctx context.Context, doc *Document, opts validator.Options) *validator.Report {
	_, span := e.tracer.Start(ctx, "lint")
	tracing.SetDocumentAttributes(span, doc.Path)
	start := time.Now()

	report := validator.NewValidator(opts, e.logger).Validate(validator.Document{
		Path:      doc.Path,
		Text:      doc.Text,
		Expansion: doc.Expansion,
	})

	for _, issue := range report.Issues {
		e.metrics.RecordIssue(issue.Code, string(issue.Severity))
	}
	e.metrics.RecordOperation("lint", nil, time.Since(start))
	span.SetAttributes(attribute.Int(tracing.AttrIssues, len(report.Issues)))
	tracing.End(span, nil)
	return report
}
