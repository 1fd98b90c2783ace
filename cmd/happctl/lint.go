package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"helm-apps/dialect/pkg/cli"
	dialectErrors "helm-apps/dialect/pkg/dialect/errors"
	"helm-apps/dialect/pkg/dialect/validator"
	"helm-apps/dialect/pkg/dialect/workspace"
)

var lintFlags struct {
	allowLegacyLists bool
	failOn           string
	format           string
	watch            bool
	metricsAddr      string
}

var lintCmd = &cobra.Command{
	Use:   "lint <path>...",
	Short: "Validate values documents",
	Long: `Validate values documents of the helm-apps dialect.

The lint command loads each document, expands its file includes and checks:
  - native YAML lists where the dialect expects YAML block strings
  - _include names with no profile definition
  - _include_from_file and _include_files paths that do not exist
  - profiles defined under global._includes and never used

Directories are searched for values documents, honoring .gitignore.

Examples:
  # Lint a document
  happctl lint values.yaml

  # Lint a chart, failing on warnings too
  happctl lint charts/app --fail-on warning

  # Re-lint on every change and serve metrics
  happctl lint charts/app --watch --metrics-addr :9090

  # JSON output for CI/CD
  happctl lint values.yaml --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().BoolVar(&lintFlags.allowLegacyLists, "allow-legacy-lists", false, "accept native lists in well-known Kubernetes list fields")
	lintCmd.Flags().StringVar(&lintFlags.failOn, "fail-on", "", "lowest severity that fails the run: error, warning, never (default from config)")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json, yaml")
	lintCmd.Flags().BoolVar(&lintFlags.watch, "watch", false, "re-run when documents change")
	lintCmd.Flags().StringVar(&lintFlags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while watching")
}

// lintResult is the output of one lint run.
type lintResult struct {
	Reports  []*validator.Report `json:"reports" yaml:"reports"`
	Errors   int                 `json:"errors" yaml:"errors"`
	Warnings int                 `json:"warnings" yaml:"warnings"`
	Infos    int                 `json:"infos" yaml:"infos"`
}

func newLintResult(reports []*validator.Report) lintResult {
	r := lintResult{Reports: reports}
	for _, report := range reports {
		r.Errors += report.Count(validator.SeverityError)
		r.Warnings += report.Count(validator.SeverityWarning)
		r.Infos += report.Count(validator.SeverityInfo)
	}
	return r
}

func (r lintResult) TextLines() []string {
	var lines []string
	for _, report := range r.Reports {
		if len(report.Issues) == 0 {
			lines = append(lines, fmt.Sprintf("✓ %s", report.Document))
			continue
		}
		lines = append(lines, fmt.Sprintf("✗ %s", report.Document))
		for _, issue := range report.Issues {
			lines = append(lines, fmt.Sprintf("  %s %s", issue.Severity, issue))
		}
	}
	lines = append(lines, fmt.Sprintf("%d documents: %d errors, %d warnings, %d info",
		len(r.Reports), r.Errors, r.Warnings, r.Infos))
	return lines
}

// blocking returns how many issues fail the run under failOn.
func (r lintResult) blocking(failOn string) int {
	switch failOn {
	case "never":
		return 0
	case "warning":
		return r.Errors + r.Warnings
	default:
		return r.Errors
	}
}

func runLint(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if _, err := cli.ParseFormat(lintFlags.format); err != nil {
		return err
	}
	failOn := lintFlags.failOn
	if failOn == "" {
		failOn = current.cfg.Lint.FailOn
	}
	switch failOn {
	case "error", "warning", "never":
	default:
		return cli.NewConfigError("fail-on", fmt.Sprintf("unknown severity %q (valid: error, warning, never)", failOn))
	}

	opts := validator.Options{AllowLegacyBuiltins: lintFlags.allowLegacyLists || current.cfg.Lint.AllowLegacyLists}

	result, err := lintOnce(ctx, cmd, args, opts)
	if err != nil {
		return err
	}

	if lintFlags.watch {
		return watchLint(ctx, cmd, args, opts)
	}

	if n := result.blocking(failOn); n > 0 {
		return cli.WithExitCode(cli.ExitFailure, fmt.Errorf("lint found %d blocking issues (fail-on %s)", n, failOn))
	}
	return nil
}

// lintOnce lints every target and prints the result.
func lintOnce(ctx context.Context, cmd *cobra.Command, args []string, opts validator.Options) (lintResult, error) {
	targets, err := lintTargets(ctx, args)
	if err != nil {
		return lintResult{}, err
	}

	reports := make([]*validator.Report, 0, len(targets))
	for _, path := range targets {
		reports = append(reports, lintDocument(ctx, path, opts))
	}

	result := newLintResult(reports)
	if err := writeResult(cmd, lintFlags.format, result); err != nil {
		return lintResult{}, err
	}
	return result, nil
}

// lintTargets expands directory arguments to the values documents under
// them. File arguments are kept as given.
func lintTargets(ctx context.Context, args []string) ([]string, error) {
	var targets []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			targets = append(targets, arg)
			continue
		}

		docs, err := workspace.Documents(ctx, arg, current.documentOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to list documents in %s: %w", arg, err)
		}
		for _, doc := range docs {
			text, err := current.store.Get(doc)
			if err != nil {
				current.logger.WarnContext(ctx, "skipping unreadable document", "path", doc, "error", err)
				continue
			}
			if workspace.LooksLikeValues(text) {
				targets = append(targets, doc)
			}
		}
	}
	return targets, nil
}

// lintDocument validates one document. A document that cannot be loaded
// yields a single error issue instead of failing the run.
func lintDocument(ctx context.Context, path string, opts validator.Options) *validator.Report {
	doc, err := current.engine.LoadDocument(ctx, path)
	if err != nil {
		issue := validator.Issue{
			Code:     validator.CodeDocumentNotResolvable,
			Message:  err.Error(),
			Severity: validator.SeverityError,
		}
		var dialectErr *dialectErrors.Error
		if errors.As(err, &dialectErr) {
			issue.Line = dialectErr.Location.Line
			issue.Suggestion = dialectErr.Suggestion
		}
		current.metrics.RecordIssue(issue.Code, string(issue.Severity))
		current.logger.DebugContext(ctx, "document not resolvable", "path", path, "error", err)
		return &validator.Report{Document: path, Issues: []validator.Issue{issue}}
	}
	return current.engine.Lint(ctx, doc, opts)
}

// watchLint re-lints on every change below the project root until the
// context is cancelled.
func watchLint(ctx context.Context, cmd *cobra.Command, args []string, opts validator.Options) error {
	root := args[0]
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		root = current.projectRoot(root)
	}

	watcher, err := workspace.NewWatcher(&workspace.WatcherConfig{
		Root:             root,
		DebounceInterval: current.cfg.Watch.Debounce,
		Documents:        current.documentOptions(),
	}, current.store, current.logger.Slog())
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if lintFlags.metricsAddr != "" {
		stop := serveMetrics(ctx, lintFlags.metricsAddr)
		defer stop()
	}

	return watcher.Watch(ctx, func(paths []string) error {
		current.logger.InfoContext(ctx, "documents changed, re-linting", "count", len(paths))
		_, err := lintOnce(ctx, cmd, args, opts)
		return err
	})
}

// serveMetrics serves /metrics on addr in the background. The returned
// function shuts the server down.
func serveMetrics(ctx context.Context, addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", current.metrics.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		current.logger.InfoContext(ctx, "serving metrics", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			current.logger.ErrorContext(ctx, "metrics server failed", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}
}
