package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"helm-apps/dialect/pkg/cli"
	"helm-apps/dialect/pkg/dialect/refactor"
	"helm-apps/dialect/pkg/dialect/symbols"
	"helm-apps/dialect/pkg/telemetry/tracing"
)

var renameFlags struct {
	write  bool
	format string
}

var renameCmd = &cobra.Command{
	Use:   "rename <file> <line> <column> <new-name>",
	Short: "Rename the include profile or app under a position",
	Long: `Rename the symbol under a position.

An include profile is renamed in its definition and in every _include list
of every values document of the chart. An app key is renamed in its group
and in every global.releases entry of every values document of the chart;
the rename is refused when a group defining the app already has an app
with the new key.

Without --write the edits are printed and no file changes.

Examples:
  happctl rename values.yaml 4 5 base-resources
  happctl rename values.yaml 12 3 api-v2 --write`,
	Args: cobra.ExactArgs(4),
	RunE: runRename,
}

var extractFlags struct {
	write  bool
	format string
}

var extractCmd = &cobra.Command{
	Use:   "extract <file> <line> <profile>",
	Short: "Move an app key into an include profile",
	Long: `Move the key on (or enclosing) a line, with its whole block, out of an
application into global._includes.<profile> and add the profile to the
_include list of the key's owner. The refactor is refused when the profile
already defines the key.

Without --write the updated document is printed.

Examples:
  happctl extract values.yaml 20 probes
  happctl extract values.yaml 20 probes --write`,
	Args: cobra.ExactArgs(3),
	RunE: runExtract,
}

var inlineFlags struct {
	write  bool
	format string
}

var inlineCmd = &cobra.Command{
	Use:   "inline-include <file> <line>",
	Short: "Rewrite an inline _include list as a block list",
	Long: `Rewrite "_include: [a, b]" on a line as a block list with one profile
per line.

Without --write the updated document is printed.`,
	Args: cobra.ExactArgs(2),
	RunE: runInlineInclude,
}

func init() {
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(inlineCmd)

	renameCmd.Flags().BoolVarP(&renameFlags.write, "write", "w", false, "write changes to the documents")
	renameCmd.Flags().StringVar(&renameFlags.format, "format", "text", "output format: text, json, yaml")
	extractCmd.Flags().BoolVarP(&extractFlags.write, "write", "w", false, "write the updated document")
	extractCmd.Flags().StringVar(&extractFlags.format, "format", "text", "output format: text, json, yaml")
	inlineCmd.Flags().BoolVarP(&inlineFlags.write, "write", "w", false, "write the updated document")
	inlineCmd.Flags().StringVar(&inlineFlags.format, "format", "text", "output format: text, json, yaml")
}

// editResult is the output of a refactor. Edit ranges are 0-based.
type editResult struct {
	Summary string                         `json:"summary" yaml:"summary"`
	Changes map[string][]refactor.TextEdit `json:"changes" yaml:"changes"`
	Written bool                           `json:"written" yaml:"written"`

	texts map[string]string
}

func (r editResult) TextLines() []string {
	lines := []string{r.Summary}
	docs := make([]string, 0, len(r.Changes))
	for doc := range r.Changes {
		docs = append(docs, doc)
	}
	slices.Sort(docs)
	for _, doc := range docs {
		for _, e := range r.Changes[doc] {
			lines = append(lines, fmt.Sprintf("  %s:%d:%d: %q", doc, e.Range.Start.Line+1, e.Range.Start.Character+1, e.NewText))
		}
	}
	if !r.Written {
		lines = append(lines, "dry run: use --write to apply")
	}
	return lines
}

func runRename(cmd *cobra.Command, args []string) (err error) {
	abs, text, sym, _, err := symbolAt(args[0], args[1], args[2])
	if err != nil {
		return err
	}
	newName := args[3]

	ctx, span := current.tracer.Start(cmd.Context(), "rename")
	tracing.SetDocumentAttributes(span, abs)
	span.SetAttributes(attribute.String(tracing.AttrSymbol, sym.String()))

	var result editResult
	defer func() {
		edits := refactor.WorkspaceEdit{Changes: result.Changes}.Count()
		current.metrics.RecordRefactor("rename", err, edits)
		span.SetAttributes(attribute.Int(tracing.AttrEdits, edits))
		tracing.End(span, err)
	}()

	docs := current.documents(abs, text)
	var edit refactor.WorkspaceEdit
	if sym.Kind == symbols.KindApp {
		edit, err = refactor.RenameApp(ctx, docs, sym.Name, newName)
	} else {
		edit, err = refactor.RenameSymbol(ctx, docs, sym, newName)
	}
	if err != nil {
		return refactorError("rename", err)
	}
	texts, err := refactor.ApplyWorkspaceEdit(docs, edit)
	if err != nil {
		return refactorError("rename", err)
	}
	result = editResult{
		Summary: fmt.Sprintf("renamed %s -> %s: %d edits in %d documents", sym, newName, edit.Count(), len(edit.Changes)),
		Changes: edit.Changes,
		texts:   texts,
	}

	if renameFlags.write {
		if err := current.writeDocuments(result.texts); err != nil {
			return err
		}
		result.Written = true
	}
	return writeResult(cmd, renameFlags.format, result)
}

func runExtract(cmd *cobra.Command, args []string) (err error) {
	line, err := parsePosition("line", args[1])
	if err != nil {
		return err
	}
	profile := args[2]

	abs, text, err := current.readDocument(args[0])
	if err != nil {
		return err
	}

	_, span := current.tracer.Start(cmd.Context(), "extract")
	tracing.SetDocumentAttributes(span, abs)
	span.SetAttributes(attribute.String(tracing.AttrProfile, profile))

	res, err := refactor.ExtractToInclude(text, line, profile)
	current.metrics.RecordRefactor("extract", err, len(res.Edits))
	tracing.End(span, err)
	if err != nil {
		return refactorError("extract", err)
	}

	return finishDocumentRefactor(cmd, abs, res, extractFlags.write, extractFlags.format)
}

func runInlineInclude(cmd *cobra.Command, args []string) error {
	line, err := parsePosition("line", args[1])
	if err != nil {
		return err
	}

	abs, text, err := current.readDocument(args[0])
	if err != nil {
		return err
	}

	res, err := refactor.ConvertInlineInclude(text, line)
	current.metrics.RecordRefactor("inline_include", err, len(res.Edits))
	if err != nil {
		return refactorError("inline-include", err)
	}

	return finishDocumentRefactor(cmd, abs, res, inlineFlags.write, inlineFlags.format)
}

// finishDocumentRefactor writes or prints the result of a single-document
// refactor. A text dry run prints the updated document.
func finishDocumentRefactor(cmd *cobra.Command, path string, res refactor.Result, write bool, format string) error {
	f, err := cli.ParseFormat(format)
	if err != nil {
		return err
	}

	result := editResult{
		Summary: res.Summary,
		Changes: map[string][]refactor.TextEdit{path: res.Edits},
	}
	if write {
		if err := current.writeDocuments(map[string]string{path: res.UpdatedText}); err != nil {
			return err
		}
		result.Written = true
		return cli.NewFormatter(f).FormatTo(cmd.OutOrStdout(), result)
	}

	if f == cli.FormatText {
		current.logger.InfoContext(cmd.Context(), res.Summary)
		_, err := fmt.Fprint(cmd.OutOrStdout(), res.UpdatedText)
		return err
	}
	return cli.NewFormatter(f).FormatTo(cmd.OutOrStdout(), res)
}
