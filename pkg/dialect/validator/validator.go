package validator

import (
	"log/slog"

	"helm-apps/dialect/pkg/dialect/ast"
	"helm-apps/dialect/pkg/dialect/include"
)

// Document is the input of a full validation run.
type Document struct {
	// Path identifies the document in the report.
	Path string
	// Text is the raw document text.
	Text string
	// Expansion is the result of the file pre-pass, or nil.
	Expansion *include.Expansion
}

// Validator is the main validator that orchestrates all validation passes.
// It runs the list policy and the include checks in sequence.
type Validator struct {
	opts   Options
	logger *slog.Logger
}

// NewValidator creates a validator. A nil logger uses slog.Default().
func NewValidator(opts Options, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{opts: opts, logger: logger}
}

// Validate runs every pass on doc and returns the issues ordered by line.
// A document may opt into legacy built-in lists through
// global.validation.allowNativeListsInBuiltInListFields.
func (v *Validator) Validate(doc Document) *Report {
	report := &Report{Document: doc.Path}

	opts := v.opts
	if doc.Expansion != nil && allowsBuiltinLists(doc.Expansion.Tree) {
		opts.AllowLegacyBuiltins = true
	}

	report.Issues = append(report.Issues, ValidateListPolicy(doc.Text, opts)...)
	report.Issues = append(report.Issues, ValidateIncludes(doc.Text, doc.Expansion)...)
	report.sort()

	v.logger.Debug("document validated",
		"document", doc.Path,
		"issues", len(report.Issues),
		"errors", report.Count(SeverityError),
	)
	return report
}

// ValidateListPolicy runs only the list policy pass.
func (v *Validator) ValidateListPolicy(text string) []Issue {
	return ValidateListPolicy(text, v.opts)
}

func allowsBuiltinLists(tree ast.Value) bool {
	flag, ok := tree.Lookup("global", "validation", "allowNativeListsInBuiltInListFields")
	return ok && flag.Kind == ast.KindBool && flag.Bool
}
