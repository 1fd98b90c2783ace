package symbols

import (
	"fmt"
	"strings"

	"helm-apps/dialect/pkg/dialect/scope"
)

// Kind is the kind of a dialect symbol.
type Kind string

const (
	KindInclude Kind = "include" // include profile name
	KindApp     Kind = "app"     // application key
)

// SymbolRef identifies a symbol by kind and name.
type SymbolRef struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
}

// String returns "kind:name".
func (s SymbolRef) String() string {
	return fmt.Sprintf("%s:%s", s.Kind, s.Name)
}

// Role tells whether an occurrence defines or uses a symbol.
type Role string

const (
	RoleDefinition Role = "definition"
	RoleUsage      Role = "usage"
)

// Occurrence is one textual position of a symbol. Line and columns are
// 0-based; End is exclusive.
type Occurrence struct {
	DocumentID string `json:"document,omitempty"`
	Line       int    `json:"line"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Role       Role   `json:"role"`
}

// FindSymbolAt classifies the token under the cursor. An include name in an
// _include value wins; otherwise the key on the line is checked as an
// include definition, an app definition or a release app reference. Keys
// inside block scalars are never symbols.
func FindSymbolAt(text string, line, col int) (SymbolRef, bool) {
	return FindSymbolAtIndex(scope.Scan(text), line, col)
}

// FindSymbolAtIndex is FindSymbolAt over a prepared index.
func FindSymbolAtIndex(idx *scope.Index, line, col int) (SymbolRef, bool) {
	ln := idx.Line(line)
	if _, ok := scope.TokenAt(ln.Text, col); !ok {
		return SymbolRef{}, false
	}

	for _, use := range IncludeUsagesOnLine(idx, line) {
		if col >= use.Start && col <= use.End {
			return SymbolRef{Kind: KindInclude, Name: use.Value}, true
		}
	}

	if ln.Kind != scope.LineKey || col < ln.Key.KeyStart || col > ln.Key.KeyEnd {
		return SymbolRef{}, false
	}

	switch {
	case idx.IsIncludeDefinition(line):
		return SymbolRef{Kind: KindInclude, Name: ln.Key.Key}, true
	case idx.IsAppDefinition(line), idx.IsReleaseAppReference(line):
		return SymbolRef{Kind: KindApp, Name: ln.Key.Key}, true
	}
	return SymbolRef{}, false
}

// IncludeUsagesOnLine returns the include names referenced on line: the
// scalar or inline-list value of an _include key, or a list item whose
// owning key is _include.
func IncludeUsagesOnLine(idx *scope.Index, line int) []scope.Token {
	ln := idx.Line(line)

	switch ln.Kind {
	case scope.LineKey:
		if ln.Key.Key != includeKey {
			return nil
		}
		value, start := keyValue(ln)
		if value == "" {
			return nil
		}
		if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
			return scope.Identifiers(value, start)
		}
		if tok, ok := scalarToken(value, start); ok {
			return []scope.Token{tok}
		}

	case scope.LineListItem:
		if !ln.Item.HasValue {
			return nil
		}
		parent, ok := idx.ParentKey(line)
		if !ok || parent.Key != includeKey {
			return nil
		}
		if tok, ok := scalarToken(stripComment(ln.Item.Value), ln.Item.ValueCol); ok {
			return []scope.Token{tok}
		}
	}
	return nil
}

const includeKey = "_include"

// keyValue returns the value text of a key line without a trailing comment
// and the column where it starts.
func keyValue(ln scope.Line) (string, int) {
	rest := ln.Text[ln.Key.TailCol:]
	trimmed := strings.TrimLeft(rest, " \t")
	start := ln.Key.TailCol + len(rest) - len(trimmed)
	return stripComment(trimmed), start
}

func stripComment(s string) string {
	if strings.HasPrefix(s, "#") {
		return ""
	}
	if i := strings.Index(s, " #"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, " \t")
}

// scalarToken reads a single, optionally quoted identifier starting at col.
func scalarToken(value string, col int) (scope.Token, bool) {
	name := scope.Unquote(value)
	if !scope.IsIdentifier(name) {
		return scope.Token{}, false
	}
	start := col + strings.Index(value, name)
	return scope.Token{Value: name, Start: start, End: start + len(name)}, true
}
