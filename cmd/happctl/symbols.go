package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"helm-apps/dialect/pkg/cli"
	"helm-apps/dialect/pkg/dialect/refactor"
	"helm-apps/dialect/pkg/dialect/symbols"
	"helm-apps/dialect/pkg/dialect/workspace"
	"helm-apps/dialect/pkg/telemetry/tracing"
)

var symbolFlags struct {
	format string
}

var symbolCmd = &cobra.Command{
	Use:   "symbol <file> <line> <column>",
	Short: "Show the symbol under a position",
	Long: `Show the include profile or app key under a position and the range of
its occurrence there. Positions are 1-based.

Examples:
  happctl symbol values.yaml 12 14`,
	Args: cobra.ExactArgs(3),
	RunE: runSymbol,
}

var refsFlags struct {
	format string
}

var refsCmd = &cobra.Command{
	Use:   "refs <file> <line> <column>",
	Short: "Find every occurrence of the symbol under a position",
	Long: `Find the definitions and usages of the symbol under a position across
every values document of the chart. The chart root is the nearest
directory holding the project marker (Chart.yaml by default); without one
the document's directory is searched.

Examples:
  happctl refs values.yaml 12 14
  happctl refs values.yaml 12 14 --format json`,
	Args: cobra.ExactArgs(3),
	RunE: runRefs,
}

func init() {
	rootCmd.AddCommand(symbolCmd)
	rootCmd.AddCommand(refsCmd)

	symbolCmd.Flags().StringVar(&symbolFlags.format, "format", "text", "output format: text, json, yaml")
	refsCmd.Flags().StringVar(&refsFlags.format, "format", "text", "output format: text, json, yaml")
}

// symbolResult is the output of symbol. Range is 0-based.
type symbolResult struct {
	Document string            `json:"document" yaml:"document"`
	Symbol   symbols.SymbolRef `json:"symbol" yaml:"symbol"`
	Range    refactor.Range    `json:"range" yaml:"range"`
}

func (r symbolResult) TextLines() []string {
	return []string{fmt.Sprintf("%s %s:%d:%d-%d", r.Symbol, r.Document,
		r.Range.Start.Line+1, r.Range.Start.Character+1, r.Range.End.Character+1)}
}

// refsResult is the output of refs. Occurrence positions are 0-based.
type refsResult struct {
	Symbol      symbols.SymbolRef    `json:"symbol" yaml:"symbol"`
	Occurrences []symbols.Occurrence `json:"occurrences" yaml:"occurrences"`
}

func (r refsResult) TextLines() []string {
	lines := make([]string, 0, len(r.Occurrences))
	for _, occ := range r.Occurrences {
		lines = append(lines, fmt.Sprintf("%s:%d:%d %s", occ.DocumentID, occ.Line+1, occ.Start+1, occ.Role))
	}
	return lines
}

// symbolAt reads path and returns the symbol at the 1-based position.
func symbolAt(path, lineArg, colArg string) (string, string, symbols.SymbolRef, refactor.Range, error) {
	line, err := parsePosition("line", lineArg)
	if err != nil {
		return "", "", symbols.SymbolRef{}, refactor.Range{}, err
	}
	col, err := parsePosition("column", colArg)
	if err != nil {
		return "", "", symbols.SymbolRef{}, refactor.Range{}, err
	}

	abs, text, err := current.readDocument(path)
	if err != nil {
		return "", "", symbols.SymbolRef{}, refactor.Range{}, err
	}

	sym, rng, ok := refactor.PrepareRename(text, line, col)
	if !ok {
		return "", "", symbols.SymbolRef{}, refactor.Range{}, fmt.Errorf("no include profile or app key at %s:%s:%s", path, lineArg, colArg)
	}
	return abs, text, sym, rng, nil
}

func runSymbol(cmd *cobra.Command, args []string) error {
	abs, _, sym, rng, err := symbolAt(args[0], args[1], args[2])
	if err != nil {
		return err
	}
	return writeResult(cmd, symbolFlags.format, symbolResult{Document: abs, Symbol: sym, Range: rng})
}

func runRefs(cmd *cobra.Command, args []string) error {
	abs, text, sym, _, err := symbolAt(args[0], args[1], args[2])
	if err != nil {
		return err
	}

	ctx, span := current.tracer.Start(cmd.Context(), "refs")
	tracing.SetDocumentAttributes(span, abs)
	span.SetAttributes(attribute.String(tracing.AttrSymbol, sym.String()))

	occurrences, err := workspace.OccurrencesOfWithLogger(ctx, sym, current.documents(abs, text), current.logger.Slog())
	tracing.End(span, err)
	if err != nil {
		return cli.NewCommandError("refs", err)
	}

	current.logger.DebugContext(ctx, "occurrences found", "symbol", sym.String(), "count", len(occurrences))
	if occurrences == nil {
		occurrences = []symbols.Occurrence{}
	}
	return writeResult(cmd, refsFlags.format, refsResult{Symbol: sym, Occurrences: occurrences})
}
