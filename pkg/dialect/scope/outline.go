package scope

// SymbolKind classifies an outline entry.
type SymbolKind string

const (
	SymbolSection   SymbolKind = "section"
	SymbolGlobalKey SymbolKind = "global key"
	SymbolProfile   SymbolKind = "include profile"
	SymbolApp       SymbolKind = "app"
	SymbolGroupVars SymbolKind = "group vars"
	SymbolField     SymbolKind = "field"
)

// Symbol is an entry of the document outline. Lines are 0-based and
// EndLine is inclusive.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Line     int
	KeyStart int
	KeyEnd   int
	EndLine  int
	Children []Symbol
}

// Outline returns the document outline: top-level sections, then global
// keys and include profiles under global, apps and their fields under
// groups.
func Outline(text string) []Symbol {
	idx := Scan(text)
	var out []Symbol

	for _, top := range idx.TopLevelKeys() {
		section := idx.symbol(top, SymbolSection)
		for _, child := range idx.Children(top) {
			section.Children = append(section.Children, idx.childSymbol(section.Name, child))
		}
		out = append(out, section)
	}

	return out
}

func (x *Index) childSymbol(section string, i int) Symbol {
	name := x.lines[i].Key.Key

	if section == GlobalKey {
		sym := x.symbol(i, SymbolGlobalKey)
		if name == IncludesKey {
			for _, p := range x.Children(i) {
				sym.Children = append(sym.Children, x.symbol(p, SymbolProfile))
			}
		}
		return sym
	}

	if name == GroupVarsKey {
		return x.symbol(i, SymbolGroupVars)
	}

	sym := x.symbol(i, SymbolApp)
	for _, f := range x.Children(i) {
		sym.Children = append(sym.Children, x.symbol(f, SymbolField))
	}
	return sym
}

func (x *Index) symbol(i int, kind SymbolKind) Symbol {
	ln := x.lines[i]
	end := x.BlockEnd(i) - 1
	for end > i && IsBlankOrComment(x.raw[end]) {
		end--
	}
	return Symbol{
		Name:     ln.Key.Key,
		Kind:     kind,
		Line:     i,
		KeyStart: ln.Key.KeyStart,
		KeyEnd:   ln.Key.KeyEnd,
		EndLine:  end,
	}
}
