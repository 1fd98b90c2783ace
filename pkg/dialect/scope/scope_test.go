package scope

import (
	"strings"
	"testing"
)

const sampleValues = `global:
  env: prod
  _includes:
    base:
      replicas: 2
  releases:
    r1:
      api: "1.0"
apps-stateless:
  __GroupVars__:
    type: Deployment
  api:
    enabled: true
    configFiles:
      app.yaml:
        content: |
          nested:
            key: value
          # not a comment
        mountPath: /etc/app
    _include:
      - base

# trailing comment
`

func TestScopePathAt(t *testing.T) {
	tests := []struct {
		name   string
		line   int
		col    int
		want   string
		wantOK bool
	}{
		{"top-level key", 0, 0, "global", true},
		{"nested key", 4, 6, "global._includes.base.replicas", true},
		{"column before key", 4, 2, "", false},
		{"column after key", 4, 20, "global._includes.base.replicas", true},
		{"block scalar owner", 15, 8, "apps-stateless.api.configFiles.app.yaml.content", true},
		{"inside block scalar", 16, 10, "", false},
		{"key-looking line in block", 17, 12, "", false},
		{"comment inside block", 18, 10, "", false},
		{"key after block scalar", 19, 8, "apps-stateless.api.configFiles.app.yaml.mountPath", true},
		{"list item", 21, 8, "", false},
		{"blank line", 22, 0, "", false},
		{"comment line", 23, 0, "", false},
		{"out of range", 100, 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := ScopePathAt(sampleValues, tt.line, tt.col)
			if ok != tt.wantOK {
				t.Fatalf("ScopePathAt() ok = %v, want %v (path %v)", ok, tt.wantOK, path)
			}
			if got := strings.Join(path, "."); got != tt.want {
				t.Errorf("ScopePathAt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScanStackNesting(t *testing.T) {
	idx := Scan(sampleValues)
	for i := 0; i < idx.Len(); i++ {
		chain := idx.Ancestors(i)
		for j := 1; j < len(chain); j++ {
			if chain[j].Indent <= chain[j-1].Indent {
				t.Fatalf("line %d: ancestors %v are not strictly increasing in indent", i, chain)
			}
		}
	}
}

func TestListItemOwnership(t *testing.T) {
	text := "a:\n  env:\n  - name: X\n    value: y\n  args:\n    - one\n"
	idx := Scan(text)

	tests := []struct {
		line  int
		owner string
	}{
		{2, "env"},
		{5, "args"},
	}
	for _, tt := range tests {
		p, ok := idx.ParentKey(tt.line)
		if !ok || p.Key != tt.owner {
			t.Errorf("ParentKey(%d) = %q, want %q", tt.line, p.Key, tt.owner)
		}
	}
}

func TestBlockEnd(t *testing.T) {
	idx := Scan(sampleValues)

	tests := []struct {
		name string
		line int
		want int
	}{
		{"profile body", 3, 5},
		{"configFiles", 13, 20},
		{"app runs to the end", 11, 25},
		{"block scalar owner", 15, 19},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := idx.BlockEnd(tt.line); got != tt.want {
				t.Errorf("BlockEnd(%d) = %d, want %d", tt.line, got, tt.want)
			}
		})
	}
}

func TestAppScopeAt(t *testing.T) {
	tests := []struct {
		name   string
		line   int
		want   string
		wantOK bool
	}{
		{"app key", 11, "apps-stateless.api", true},
		{"inside block scalar", 17, "apps-stateless.api", true},
		{"list item", 21, "apps-stateless.api", true},
		{"group vars", 10, "", false},
		{"group line", 8, "", false},
		{"global", 4, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, ok := AppScopeAt(sampleValues, tt.line)
			if ok != tt.wantOK {
				t.Fatalf("AppScopeAt() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && scope.Entity() != tt.want {
				t.Errorf("AppScopeAt() = %q, want %q", scope.Entity(), tt.want)
			}
		})
	}
}

func TestClassifiers(t *testing.T) {
	idx := Scan(sampleValues)

	if !idx.IsIncludeDefinition(3) {
		t.Error("line 3 (base) should be an include definition")
	}
	if idx.IsIncludeDefinition(4) {
		t.Error("line 4 (replicas) should not be an include definition")
	}
	if !idx.IsReleaseAppReference(7) {
		t.Error("line 7 (r1.api) should be a release app reference")
	}
	if !idx.IsAppDefinition(11) {
		t.Error("line 11 (api) should be an app definition")
	}
	if idx.IsAppDefinition(9) {
		t.Error("__GroupVars__ should not be an app definition")
	}
	if idx.IsAppDefinition(1) {
		t.Error("global.env should not be an app definition")
	}
}

func TestOutline(t *testing.T) {
	outline := Outline(sampleValues)
	if len(outline) != 2 {
		t.Fatalf("Outline() = %d sections, want 2", len(outline))
	}

	global := outline[0]
	if global.Name != "global" || len(global.Children) != 3 {
		t.Fatalf("global section = %+v", global)
	}
	includes := global.Children[1]
	if includes.Name != "_includes" || len(includes.Children) != 1 || includes.Children[0].Kind != SymbolProfile {
		t.Errorf("_includes children = %+v", includes.Children)
	}

	group := outline[1]
	if len(group.Children) != 2 {
		t.Fatalf("group children = %+v", group.Children)
	}
	if group.Children[0].Kind != SymbolGroupVars {
		t.Errorf("first child kind = %s, want group vars", group.Children[0].Kind)
	}
	app := group.Children[1]
	if app.Kind != SymbolApp || app.EndLine != 21 {
		t.Errorf("app symbol = %+v, want app ending on line 21", app)
	}
	if len(app.Children) != 3 {
		t.Errorf("app fields = %d, want 3", len(app.Children))
	}
}

func TestIsBlockScalarOpener(t *testing.T) {
	tests := []struct {
		tail string
		want bool
	}{
		{"|", true},
		{"|-", true},
		{">+", true},
		{"|2", true},
		{"| # comment", true},
		{"value", false},
		{"'|'", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsBlockScalarOpener(tt.tail); got != tt.want {
			t.Errorf("IsBlockScalarOpener(%q) = %v, want %v", tt.tail, got, tt.want)
		}
	}
}
