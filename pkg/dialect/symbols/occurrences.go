package symbols

import (
	"fmt"

	"helm-apps/dialect/pkg/dialect/scope"
)

// Occurrences lists every occurrence of symbol in text, in document order
// and without duplicates. DocumentID is left empty.
func Occurrences(text string, symbol SymbolRef) []Occurrence {
	return OccurrencesInIndex(scope.Scan(text), symbol)
}

// OccurrencesInIndex is Occurrences over a prepared index.
func OccurrencesInIndex(idx *scope.Index, symbol SymbolRef) []Occurrence {
	var out []Occurrence

	for i := 0; i < idx.Len(); i++ {
		ln := idx.Line(i)

		switch symbol.Kind {
		case KindInclude:
			if ln.Kind == scope.LineKey && ln.Key.Key == symbol.Name && idx.IsIncludeDefinition(i) {
				out = append(out, keyOccurrence(ln, RoleDefinition))
			}
			for _, use := range IncludeUsagesOnLine(idx, i) {
				if use.Value == symbol.Name {
					out = append(out, Occurrence{Line: i, Start: use.Start, End: use.End, Role: RoleUsage})
				}
			}

		case KindApp:
			if ln.Kind != scope.LineKey || ln.Key.Key != symbol.Name {
				continue
			}
			if idx.IsAppDefinition(i) {
				out = append(out, keyOccurrence(ln, RoleDefinition))
			} else if idx.IsReleaseAppReference(i) {
				out = append(out, keyOccurrence(ln, RoleUsage))
			}
		}
	}

	return dedupe(out)
}

func keyOccurrence(ln scope.Line, role Role) Occurrence {
	return Occurrence{Line: ln.Number, Start: ln.Key.KeyStart, End: ln.Key.KeyEnd, Role: role}
}

func dedupe(items []Occurrence) []Occurrence {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, it := range items {
		key := fmt.Sprintf("%d:%d:%d:%s", it.Line, it.Start, it.End, it.Role)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it)
	}
	return out
}

// Definitions filters occurrences down to definitions.
func Definitions(occ []Occurrence) []Occurrence {
	var out []Occurrence
	for _, o := range occ {
		if o.Role == RoleDefinition {
			out = append(out, o)
		}
	}
	return out
}
