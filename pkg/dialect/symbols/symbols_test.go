package symbols

import (
	"slices"
	"testing"

	"helm-apps/dialect/pkg/dialect/include"
	"helm-apps/dialect/pkg/dialect/parser"
)

const sample = `global:
  _includes:
    apps-default:
      enabled: true
  releases:
    prod:
      api: "1.0.0"
apps-stateless:
  api:
    _include:
      - apps-default
    enabled: true
  worker:
    _include: [apps-default, "probes"]
    configFilesYAML:
      app.yaml:
        content: |
          api:
            _include: apps-default
  cron:
    _include: apps-default # shared
`

func TestFindSymbolAt(t *testing.T) {
	tests := []struct {
		name string
		line int
		col  int
		want SymbolRef
		ok   bool
	}{
		{"include list item", 10, 10, SymbolRef{KindInclude, "apps-default"}, true},
		{"include definition", 2, 6, SymbolRef{KindInclude, "apps-default"}, true},
		{"inline include", 13, 17, SymbolRef{KindInclude, "apps-default"}, true},
		{"quoted inline include", 13, 33, SymbolRef{KindInclude, "probes"}, true},
		{"scalar include with comment", 20, 16, SymbolRef{KindInclude, "apps-default"}, true},
		{"app definition", 8, 3, SymbolRef{KindApp, "api"}, true},
		{"release reference", 6, 7, SymbolRef{KindApp, "api"}, true},
		{"group key", 7, 2, SymbolRef{}, false},
		{"field key", 11, 6, SymbolRef{}, false},
		{"value not key", 3, 16, SymbolRef{}, false},
		{"inside block scalar", 18, 23, SymbolRef{}, false},
		{"whitespace", 8, 0, SymbolRef{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindSymbolAt(sample, tt.line, tt.col)
			if ok != tt.ok || got != tt.want {
				t.Errorf("FindSymbolAt(%d, %d) = %v, %v; want %v, %v", tt.line, tt.col, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestOccurrences(t *testing.T) {
	tests := []struct {
		name        string
		symbol      SymbolRef
		definitions int
		usages      int
	}{
		{"include", SymbolRef{KindInclude, "apps-default"}, 1, 3},
		{"app", SymbolRef{KindApp, "api"}, 1, 1},
		{"unused app", SymbolRef{KindApp, "worker"}, 1, 0},
		{"unknown include", SymbolRef{KindInclude, "missing"}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			occ := Occurrences(sample, tt.symbol)
			defs := len(Definitions(occ))
			if defs != tt.definitions || len(occ)-defs != tt.usages {
				t.Errorf("Occurrences() = %+v, want %d definitions and %d usages", occ, tt.definitions, tt.usages)
			}
			for i := 1; i < len(occ); i++ {
				if occ[i].Line < occ[i-1].Line {
					t.Errorf("occurrences out of document order: %+v", occ)
				}
			}
		})
	}
}

func TestOccurrenceRanges(t *testing.T) {
	occ := Occurrences(sample, SymbolRef{KindApp, "api"})
	want := []Occurrence{
		{Line: 6, Start: 6, End: 9, Role: RoleUsage},
		{Line: 8, Start: 2, End: 5, Role: RoleDefinition},
	}
	if !slices.Equal(occ, want) {
		t.Errorf("Occurrences() = %+v, want %+v", occ, want)
	}
}

func TestAnalyzeIncludes(t *testing.T) {
	text := `global:
  _includes:
    base:
      replicas: 1
    orphan:
      replicas: 2
apps-stateless:
  api:
    _include: [base, from-file, typo]
`
	a := AnalyzeIncludes(text, []include.Definition{
		{Name: "from-file", Source: include.SourceFile, File: "/work/from-file.yaml"},
		{Name: "base", Source: include.SourceFile, File: "/work/base.yaml"},
	})

	if got := a.DefinedNames(); !slices.Equal(got, []string{"base", "orphan", "from-file"}) {
		t.Errorf("definitions = %v", got)
	}
	if a.Definitions[0].Source != include.SourceLocal {
		t.Errorf("base source = %s, want local to win", a.Definitions[0].Source)
	}
	if len(a.Usages) != 3 {
		t.Errorf("usages = %+v, want 3", a.Usages)
	}
	if len(a.Unresolved) != 1 || a.Unresolved[0].Name != "typo" || a.Unresolved[0].Line != 8 {
		t.Errorf("unresolved = %+v, want typo on line 8", a.Unresolved)
	}
	if len(a.Unused) != 1 || a.Unused[0].Name != "orphan" {
		t.Errorf("unused = %+v, want orphan", a.Unused)
	}
}

func TestBuildDependencyGraph(t *testing.T) {
	text := `global:
  _includes:
    probes: {}
    base: {}
apps-stateless:
  __GroupVars__:
    type: stateless
  api:
    _include: [base, probes]
    _include_from_file: shared/api.yaml
  worker:
    _include: base
    _include_files:
      - profiles/a.yaml
      - "profiles/b.yml"
custom-group:
  __GroupVars__: {}
  job: {}
infra:
  thing: {}
`
	tree, err := parser.Parse([]byte(text), "values.yaml")
	if err != nil {
		t.Fatal(err)
	}
	g := BuildDependencyGraph(tree, text)

	if !slices.Equal(g.Includes, []string{"base", "probes"}) {
		t.Errorf("Includes = %v", g.Includes)
	}
	if !slices.Equal(g.IncludeFiles, []string{"profiles/a.yaml", "profiles/b.yml", "shared/api.yaml"}) {
		t.Errorf("IncludeFiles = %v", g.IncludeFiles)
	}

	var names []string
	for _, app := range g.Apps {
		names = append(names, app.Group+"."+app.App)
	}
	if !slices.Equal(names, []string{"apps-stateless.api", "apps-stateless.worker", "custom-group.job"}) {
		t.Errorf("Apps = %v", names)
	}
	if got := g.Dependents("base"); len(got) != 2 {
		t.Errorf("Dependents(base) = %+v, want 2", got)
	}
}
