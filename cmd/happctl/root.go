package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"helm-apps/dialect/pkg/cli"
	"helm-apps/dialect/pkg/config"
	"helm-apps/dialect/pkg/dialect"
	dialectErrors "helm-apps/dialect/pkg/dialect/errors"
	"helm-apps/dialect/pkg/dialect/workspace"
	"helm-apps/dialect/pkg/telemetry/logging"
	"helm-apps/dialect/pkg/telemetry/metrics"
	"helm-apps/dialect/pkg/telemetry/tracing"
)

// skipSetup marks commands that run without configuration or telemetry.
const skipSetup = "happctl/skip-setup"

var (
	// Global flags
	cfgFile   string
	verbose   bool
	logFormat string
)

// session is what one command run shares: configuration, telemetry and
// the engine. It is created by the root pre-run hook.
type session struct {
	cfg     *config.Config
	logger  *logging.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
	store   *workspace.Store
	engine  *dialect.Engine
	span    trace.Span
}

var current *session

var rootCmd = &cobra.Command{
	Use:   "happctl",
	Short: "happctl - resolve, refactor and validate helm-apps values",
	Long: `happctl works on values documents written in the helm-apps dialect.

It understands the dialect's composition features:
  - _include profiles defined under global._includes
  - _include_from_file and _include_files directives
  - environment maps (_default, literal and regex environment keys)
  - global.releases app references

Commands preview effective values, navigate include symbols, perform safe
structural refactors and validate list usage. Positions are 1-based.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if current != nil {
		current.close(err)
		current = nil
	}
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	}
	return cli.ExitCode(err)
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default happctl.yaml when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text, json, console")
}

func setup(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipSetup] == "true" {
		return nil
	}

	if err := config.Initialize(cfgFile); err != nil {
		return cli.WithExitCode(cli.ExitUsage, err)
	}
	cfg := *config.MustGetConfig()
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if logFormat != "" {
		cfg.Telemetry.Logging.Format = logFormat
	}
	// lint --metrics-addr serves the live registry.
	if cmd.Name() == "lint" && lintFlags.metricsAddr != "" {
		cfg.Telemetry.Metrics.Enabled = true
	}

	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, cmd.ErrOrStderr()))
	if err != nil {
		return cli.WithExitCode(cli.ExitUsage, err)
	}

	tracing.Version = Version
	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	store := workspace.NewStore(cfg.Dialect.MaxFileSize)
	engine := dialect.New(
		dialect.WithLogger(logger.Slog()),
		dialect.WithMetrics(collector),
		dialect.WithTracer(tracer),
		dialect.WithStore(store),
		dialect.WithMaxFileSize(cfg.Dialect.MaxFileSize),
	)

	ctx := logging.WithRunID(cmd.Context(), logging.NewRunID())
	ctx = logging.WithCommand(ctx, cmd.Name())
	ctx, span := tracer.Start(ctx, "happctl."+cmd.Name())
	cmd.SetContext(ctx)

	current = &session{
		cfg:     &cfg,
		logger:  logger,
		metrics: collector,
		tracer:  tracer,
		store:   store,
		engine:  engine,
		span:    span,
	}
	logger.DebugContext(ctx, "command started", "config", config.Resolve(cfgFile), "args", args)
	return nil
}

// close ends the command span, writes metrics and flushes traces.
func (s *session) close(err error) {
	tracing.End(s.span, err)

	if ferr := s.metrics.Flush(); ferr != nil {
		s.logger.Warn("failed to write metrics", "error", ferr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := s.tracer.Shutdown(ctx); serr != nil {
		s.logger.Warn("failed to flush traces", "error", serr)
	}
}

// documentOptions returns the discovery options of the configuration.
func (s *session) documentOptions() workspace.DocumentOptions {
	opts := workspace.DefaultDocumentOptions()
	if len(s.cfg.Dialect.DocumentExtensions) > 0 {
		opts.Extensions = s.cfg.Dialect.DocumentExtensions
	}
	if len(s.cfg.Dialect.SkipDirs) > 0 {
		opts.SkipDirs = s.cfg.Dialect.SkipDirs
	}
	opts.UseGitignore = !s.cfg.Dialect.IgnoreGitignore
	return opts
}

// projectRoot returns the chart root holding path, or the directory of
// path when no project marker is found above it.
func (s *session) projectRoot(path string) string {
	if root, ok := workspace.FindProjectRoot(path, s.cfg.Dialect.ProjectMarker); ok {
		return root
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Dir(path)
	}
	return filepath.Dir(abs)
}

// documents returns the document set of the project holding path. The
// document itself is always part of the set, whatever the discovery
// options say.
func (s *session) documents(path, text string) workspace.DocumentSet {
	project := workspace.NewProject(s.projectRoot(path), s.store)
	project.Options = s.documentOptions()
	return workspace.Overlay{Base: project, Overrides: workspace.Memory{path: text}}
}

// readDocument returns the absolute path and the text of a document.
func (s *session) readDocument(path string) (string, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", err
	}
	text, err := s.store.Get(abs)
	if err != nil {
		return "", "", dialectErrors.Wrap(dialectErrors.ErrorTypeIO, err, "failed to read %s", path)
	}
	return abs, text, nil
}

// writeDocuments writes refactored texts back, keeping file modes.
func (s *session) writeDocuments(texts map[string]string) error {
	for path, text := range texts {
		mode := os.FileMode(0o644)
		if info, err := os.Stat(path); err == nil {
			mode = info.Mode().Perm()
		}
		if err := os.WriteFile(path, []byte(text), mode); err != nil {
			return dialectErrors.Wrap(dialectErrors.ErrorTypeIO, err, "failed to write %s", path)
		}
		s.store.Invalidate(path)
		s.logger.Info("document updated", "path", path)
	}
	return nil
}

// parsePosition converts 1-based command line positions to the 0-based
// positions used by the engine.
func parsePosition(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, cli.NewConfigError(name, fmt.Sprintf("must be a positive integer, got %q", value))
	}
	return n - 1, nil
}

// writeResult prints data in the requested format.
func writeResult(cmd *cobra.Command, format string, data any) error {
	f, err := cli.ParseFormat(format)
	if err != nil {
		return err
	}
	return cli.NewFormatter(f).FormatTo(cmd.OutOrStdout(), data)
}

// refactorError maps refused refactors to their exit code.
func refactorError(command string, err error) error {
	if err == nil {
		return nil
	}
	var dialectErr *dialectErrors.Error
	if errors.As(err, &dialectErr) && dialectErr.Type == dialectErrors.ErrorTypeConflict {
		return cli.WithExitCode(cli.ExitConflict, cli.NewCommandError(command, err))
	}
	return cli.NewCommandError(command, err)
}
