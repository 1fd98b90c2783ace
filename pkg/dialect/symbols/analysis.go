package symbols

import (
	"helm-apps/dialect/pkg/dialect/include"
	"helm-apps/dialect/pkg/dialect/scope"
)

// DefinitionRef is an include profile definition seen by AnalyzeIncludes.
type DefinitionRef struct {
	Name   string             `json:"name"`
	Line   int                `json:"line"`
	Source include.SourceKind `json:"source"`
	File   string             `json:"file,omitempty"`
}

// UsageRef is a reference to an include profile.
type UsageRef struct {
	Name  string `json:"name"`
	Line  int    `json:"line"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Analysis summarizes include definitions and usages of one document.
type Analysis struct {
	Definitions []DefinitionRef `json:"definitions"`
	Usages      []UsageRef      `json:"usages"`
	// Unresolved usages name a profile defined neither locally nor in a file.
	Unresolved []UsageRef `json:"unresolved"`
	// Unused lists local definitions that nothing in the document uses.
	Unused []DefinitionRef `json:"unused"`
}

// AnalyzeIncludes cross-checks include usages against local definitions and
// the file-sourced definitions of the document's expansion.
func AnalyzeIncludes(text string, fileDefs []include.Definition) Analysis {
	idx := scope.Scan(text)

	var local []DefinitionRef
	var usages []UsageRef
	for i := 0; i < idx.Len(); i++ {
		if idx.IsIncludeDefinition(i) {
			local = append(local, DefinitionRef{Name: idx.Line(i).Key.Key, Line: i, Source: include.SourceLocal})
		}
		for _, use := range IncludeUsagesOnLine(idx, i) {
			usages = append(usages, UsageRef{Name: use.Value, Line: i, Start: use.Start, End: use.End})
		}
	}

	defs := make([]DefinitionRef, 0, len(local)+len(fileDefs))
	defined := make(map[string]bool)
	add := func(d DefinitionRef) {
		if defined[d.Name] {
			return
		}
		defined[d.Name] = true
		defs = append(defs, d)
	}
	for _, d := range local {
		add(d)
	}
	for _, d := range fileDefs {
		add(DefinitionRef{Name: d.Name, Source: include.SourceFile, File: d.File})
	}

	used := make(map[string]bool)
	var unresolved []UsageRef
	for _, u := range usages {
		used[u.Name] = true
		if !defined[u.Name] {
			unresolved = append(unresolved, u)
		}
	}

	var unused []DefinitionRef
	for _, d := range local {
		if !used[d.Name] {
			unused = append(unused, d)
		}
	}

	return Analysis{Definitions: defs, Usages: usages, Unresolved: unresolved, Unused: unused}
}

// DefinedNames returns the names of every definition.
func (a Analysis) DefinedNames() []string {
	out := make([]string, len(a.Definitions))
	for i, d := range a.Definitions {
		out[i] = d.Name
	}
	return out
}
