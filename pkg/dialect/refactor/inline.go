package refactor

import (
	"fmt"
	"strings"

	dialectErrors "helm-apps/dialect/pkg/dialect/errors"
	"helm-apps/dialect/pkg/dialect/scope"
)

// ConvertInlineInclude rewrites "_include: [a, b]" on line into the dash
// list form used by the rest of the tooling.
func ConvertInlineInclude(text string, line int) (Result, error) {
	doc := newDocument(text)
	idx := scope.ScanLines(doc.lines)

	ln := idx.Line(line)
	if ln.Kind != scope.LineKey || ln.Key.Key != includeKey {
		return Result{}, dialectErrors.New(dialectErrors.ErrorTypeStructural, "Line %d is not an _include key", line+1)
	}
	tail := strings.TrimSpace(stripComment(ln.Key.Tail))
	if !strings.HasPrefix(tail, "[") || !strings.HasSuffix(tail, "]") {
		return Result{}, dialectErrors.New(dialectErrors.ErrorTypeStructural, "_include on line %d is not an inline list", line+1)
	}
	names := inlineNames(tail)
	if len(names) == 0 {
		return Result{}, dialectErrors.New(dialectErrors.ErrorTypeStructural, "_include on line %d lists no profile names", line+1)
	}

	pad := strings.Repeat(" ", ln.Indent)
	replacement := []string{pad + includeKey + ":"}
	for _, n := range names {
		replacement = append(replacement, pad+"  - "+n)
	}

	lines := make([]string, 0, len(doc.lines)+len(names))
	lines = append(lines, doc.lines[:line]...)
	lines = append(lines, replacement...)
	lines = append(lines, doc.lines[line+1:]...)

	return Result{
		UpdatedText: doc.text(lines),
		Summary:     fmt.Sprintf("converted _include on line %d to a list of %d", line+1, len(names)),
		Edits:       []TextEdit{diffEdit(doc.lines, lines, doc.eol)},
	}, nil
}
