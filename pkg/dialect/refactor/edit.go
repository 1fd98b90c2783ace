package refactor

import (
	"slices"
	"strings"

	dialectErrors "helm-apps/dialect/pkg/dialect/errors"
	"helm-apps/dialect/pkg/dialect/scope"
)

// Position is a 0-based line and byte column.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open span between two positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// LineRange returns the range of columns [start, end) on line.
func LineRange(line, start, end int) Range {
	return Range{Start: Position{Line: line, Character: start}, End: Position{Line: line, Character: end}}
}

// TextEdit replaces Range with NewText.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// WorkspaceEdit groups text edits by document ID.
type WorkspaceEdit struct {
	Changes map[string][]TextEdit `json:"changes"`
}

// Documents returns the IDs of the touched documents, sorted.
func (w WorkspaceEdit) Documents() []string {
	ids := make([]string, 0, len(w.Changes))
	for id := range w.Changes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Count returns the total number of edits.
func (w WorkspaceEdit) Count() int {
	n := 0
	for _, edits := range w.Changes {
		n += len(edits)
	}
	return n
}

// Result is the outcome of a document refactor: the complete new text, a
// one-line summary and the edits that turn the old text into the new one.
type Result struct {
	UpdatedText string     `json:"updatedText"`
	Summary     string     `json:"summary"`
	Edits       []TextEdit `json:"edits"`
}

// ApplyEdits applies edits to text. Edits must not overlap; the text is
// left untouched on any error.
func ApplyEdits(text string, edits []TextEdit) (string, error) {
	if len(edits) == 0 {
		return text, nil
	}

	lineStarts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}
	offset := func(p Position) (int, error) {
		if p.Line < 0 || p.Line >= len(lineStarts) || p.Character < 0 {
			return 0, dialectErrors.New(dialectErrors.ErrorTypeStructural, "position %d:%d is outside the document", p.Line, p.Character)
		}
		end := len(text)
		if p.Line+1 < len(lineStarts) {
			end = lineStarts[p.Line+1] - 1
			if end > lineStarts[p.Line] && text[end-1] == '\r' {
				end--
			}
		}
		off := lineStarts[p.Line] + p.Character
		if off > end {
			return 0, dialectErrors.New(dialectErrors.ErrorTypeStructural, "position %d:%d is past the end of the line", p.Line, p.Character)
		}
		return off, nil
	}

	type span struct {
		start, end int
		text       string
	}
	spans := make([]span, 0, len(edits))
	for _, e := range edits {
		start, err := offset(e.Range.Start)
		if err != nil {
			return "", err
		}
		end, err := offset(e.Range.End)
		if err != nil {
			return "", err
		}
		if end < start {
			return "", dialectErrors.New(dialectErrors.ErrorTypeStructural, "edit range ends before it starts")
		}
		spans = append(spans, span{start, end, e.NewText})
	}

	slices.SortStableFunc(spans, func(a, b span) int { return a.start - b.start })
	for i := 1; i < len(spans); i++ {
		if spans[i].start < spans[i-1].end {
			return "", dialectErrors.New(dialectErrors.ErrorTypeConflict, "overlapping edits")
		}
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, s := range spans {
		b.WriteString(text[last:s.start])
		b.WriteString(s.text)
		last = s.end
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

// document is a line-split text that remembers its line terminator.
type document struct {
	lines []string
	eol   string
}

func newDocument(text string) *document {
	eol := "\n"
	if strings.Contains(text, "\r\n") {
		eol = "\r\n"
	}
	return &document{lines: scope.SplitLines(text), eol: eol}
}

func (d *document) text(lines []string) string {
	return strings.Join(lines, d.eol)
}

// diffEdit returns the single edit that replaces the changed middle of
// before with the changed middle of after, whole lines only.
func diffEdit(before, after []string, eol string) TextEdit {
	prefix := 0
	for prefix < len(before) && prefix < len(after) && before[prefix] == after[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(before)-prefix && suffix < len(after)-prefix &&
		before[len(before)-1-suffix] == after[len(after)-1-suffix] {
		suffix++
	}

	oldEnd := len(before) - suffix // exclusive
	newMiddle := after[prefix : len(after)-suffix]

	// Replace [prefix, oldEnd) line-wise; the edit ends at the start of the
	// first unchanged suffix line.
	if oldEnd < len(before) {
		text := ""
		if len(newMiddle) > 0 {
			text = strings.Join(newMiddle, eol) + eol
		}
		return TextEdit{Range: Range{Start: Position{Line: prefix}, End: Position{Line: oldEnd}}, NewText: text}
	}

	// The change reaches the last line.
	if prefix == 0 {
		return TextEdit{
			Range:   Range{Start: Position{}, End: Position{Line: len(before) - 1, Character: len(before[len(before)-1])}},
			NewText: strings.Join(newMiddle, eol),
		}
	}
	return TextEdit{
		Range:   Range{Start: Position{Line: prefix - 1, Character: len(before[prefix-1])}, End: Position{Line: len(before) - 1, Character: len(before[len(before)-1])}},
		NewText: joinWithLeading(newMiddle, eol),
	}
}

func joinWithLeading(lines []string, eol string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(eol)
		b.WriteString(l)
	}
	return b.String()
}
