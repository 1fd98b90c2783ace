package refactor

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"helm-apps/dialect/pkg/dialect/ast"
	dialectErrors "helm-apps/dialect/pkg/dialect/errors"
	"helm-apps/dialect/pkg/dialect/include"
	"helm-apps/dialect/pkg/dialect/parser"
	"helm-apps/dialect/pkg/dialect/symbols"
	"helm-apps/dialect/pkg/dialect/workspace"
)

func mustExtract(t *testing.T, text string, line int, profile string) Result {
	t.Helper()
	res, err := ExtractToInclude(text, line, profile)
	if err != nil {
		t.Fatalf("ExtractToInclude(%d, %q) error = %v", line, profile, err)
	}
	return res
}

// assertEditsReproduce checks that the returned edits turn text into the
// returned UpdatedText.
func assertEditsReproduce(t *testing.T, text string, res Result) {
	t.Helper()
	got, err := ApplyEdits(text, res.Edits)
	if err != nil {
		t.Fatalf("ApplyEdits() error = %v", err)
	}
	if got != res.UpdatedText {
		t.Errorf("ApplyEdits(text, Edits) =\n%s\nwant UpdatedText\n%s", got, res.UpdatedText)
	}
}

func TestExtractToInclude(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		line    int
		profile string
		match   []string
		absent  []string
	}{
		{
			name:    "app child key",
			src:     "apps-stateless:\n  api:\n    enabled: true\n    labels: |-\n      app: api\n    containers: |-\n      - name: app\n",
			line:    3,
			profile: "apps-common",
			match: []string{
				`global:\n  _includes:\n    apps-common:\n      labels: \|-\n        app: api\n`,
				`apps-stateless:\n  api:\n    _include:\n      - apps-common\n    enabled: true`,
			},
			absent: []string{`\n    labels:`},
		},
		{
			name:    "cursor inside block scalar",
			src:     "apps-stateless:\n  api:\n    enabled: true\n    labels: |-\n      app: api\n      team: core\n    containers: |-\n      - name: app\n",
			line:    4,
			profile: "apps-labels",
			match: []string{
				`global:\n  _includes:\n    apps-labels:`,
				`apps-stateless:\n  api:\n    _include:\n      - apps-labels\n    enabled: true`,
			},
			absent: []string{`\n    labels:`},
		},
		{
			name:    "nested key keeps include at its level",
			src:     "apps-stateless:\n  app-1:\n    enabled: true\n    containers:\n      app-1:\n        image:\n          name: nginx\n          staticTag: latest\n        ports: |-\n          - name: http\n            containerPort: 80\n",
			line:    8,
			profile: "ports-defaults",
			match: []string{
				`global:\n  _includes:\n    ports-defaults:\n      ports: \|-\n        - name: http\n          containerPort: 80\n`,
				`containers:\n      app-1:\n        _include:\n          - ports-defaults\n        image:`,
			},
			absent: []string{`\n        ports:`},
		},
		{
			name:    "inline include list normalized",
			src:     "apps-stateless:\n  app-1:\n    _include: [\"base\", \"common\"]\n    labels: |-\n      team: platform\n",
			line:    3,
			profile: "labels-default",
			match: []string{
				`_include:\n      - base\n      - common\n      - labels-default\n`,
				`global:\n  _includes:\n    labels-default:\n      labels: \|-`,
			},
		},
		{
			name:    "scalar include preserved",
			src:     "apps-stateless:\n  app-1:\n    containers:\n      app-1:\n        _include: base-container\n        image:\n          name: nginx\n        ports: |-\n          - name: http\n",
			line:    7,
			profile: "ports-default",
			match: []string{
				`containers:\n      app-1:\n        _include:\n          - base-container\n          - ports-default\n`,
				`global:\n  _includes:\n    ports-default:\n      ports: \|-`,
			},
		},
		{
			name:    "commented list item kept",
			src:     "apps-stateless:\n  app-1:\n    _include:\n      - base # shared\n    labels:\n      a: b\n",
			line:    4,
			profile: "labels",
			match:   []string{`_include:\n      - base\n      - labels\n`},
		},
		{
			name:    "existing global without includes",
			src:     "global:\n  env: dev\napps-stateless:\n  api:\n    replicas: 2\n",
			line:    4,
			profile: "scale",
			match: []string{
				`global:\n  _includes:\n    scale:\n      replicas: 2\n  env: dev\n`,
				`  api:\n    _include:\n      - scale\n$`,
			},
		},
		{
			name:    "empty flow includes",
			src:     "global:\n  _includes: {}\napps-stateless:\n  api:\n    replicas: 2\n",
			line:    4,
			profile: "scale",
			match:   []string{`global:\n  _includes:\n    scale:\n      replicas: 2\napps-stateless:`},
		},
		{
			name:    "appends after existing profiles",
			src:     "global:\n  _includes:\n    base:\n      enabled: true\n\n  env: dev\napps-stateless:\n  api:\n    replicas: 2\n",
			line:    8,
			profile: "scale",
			match:   []string{`    base:\n      enabled: true\n    scale:\n      replicas: 2\n\n  env: dev\n`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustExtract(t, tt.src, tt.line, tt.profile)
			for _, pattern := range tt.match {
				if !regexp.MustCompile(pattern).MatchString(res.UpdatedText) {
					t.Errorf("output does not match %q:\n%s", pattern, res.UpdatedText)
				}
			}
			for _, pattern := range tt.absent {
				if regexp.MustCompile(pattern).MatchString(res.UpdatedText) {
					t.Errorf("output unexpectedly matches %q:\n%s", pattern, res.UpdatedText)
				}
			}
			assertEditsReproduce(t, tt.src, res)
		})
	}
}

func TestExtractSummary(t *testing.T) {
	src := "apps-stateless:\n  api:\n    labels:\n      a: b\n"
	res := mustExtract(t, src, 2, "common")
	if res.Summary != "extracted apps-stateless.api.labels -> global._includes.common" {
		t.Errorf("Summary = %q", res.Summary)
	}
}

func TestExtractSequentialIntoSameProfile(t *testing.T) {
	src := "apps-stateless:\n  app-1:\n    enabled: true\n    containers:\n      app-1:\n        image:\n          name: nginx\n          staticTag: latest\n        ports: |-\n          - name: http\n            containerPort: 80\n"

	first := mustExtract(t, src, 8, "container-defaults")

	imageLine := -1
	for i, l := range strings.Split(first.UpdatedText, "\n") {
		if strings.TrimSpace(l) == "image:" {
			imageLine = i
		}
	}
	if imageLine < 0 {
		t.Fatalf("image: not found in\n%s", first.UpdatedText)
	}
	second := mustExtract(t, first.UpdatedText, imageLine, "container-defaults")

	want := "global:\n" +
		"  _includes:\n" +
		"    container-defaults:\n" +
		"      ports: |-\n" +
		"        - name: http\n" +
		"          containerPort: 80\n" +
		"      image:\n" +
		"        name: nginx\n" +
		"        staticTag: latest\n" +
		"\n" +
		"apps-stateless:\n" +
		"  app-1:\n" +
		"    enabled: true\n" +
		"    containers:\n" +
		"      app-1:\n" +
		"        _include:\n" +
		"          - container-defaults\n"
	if second.UpdatedText != want {
		t.Errorf("UpdatedText =\n%s\nwant\n%s", second.UpdatedText, want)
	}
}

func TestExtractConflict(t *testing.T) {
	src := "global:\n  _includes:\n    app-common:\n      labels: |-\n        team: platform\napps-stateless:\n  app-1:\n    labels: |-\n      app: app-1\n"

	_, err := ExtractToInclude(src, 7, "app-common")
	if !dialectErrors.IsType(err, dialectErrors.ErrorTypeConflict) {
		t.Fatalf("error = %v, want conflict", err)
	}
	if !strings.Contains(err.Error(), "already contains key 'labels'") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestExtractNoDuplicateInclude(t *testing.T) {
	src := "apps-stateless:\n  app-1:\n    _include:\n      - app-common\n    labels: |-\n      app: app-1\n"

	res := mustExtract(t, src, 4, "app-common")
	if n := strings.Count(res.UpdatedText, "- app-common"); n != 1 {
		t.Errorf("app-common listed %d times, want 1:\n%s", n, res.UpdatedText)
	}
}

func TestExtractCompactList(t *testing.T) {
	src := "apps-stateless:\n  api:\n    replicas: 1\n    args:\n    - --a\n    - --b\n    image: x\n"

	res := mustExtract(t, src, 3, "p")
	assertEditsReproduce(t, src, res)

	want := "global:\n  _includes:\n    p:\n      args:\n      - --a\n      - --b\n\n" +
		"apps-stateless:\n  api:\n    _include:\n      - p\n    replicas: 1\n    image: x\n"
	if res.UpdatedText != want {
		t.Errorf("UpdatedText =\n%s\nwant\n%s", res.UpdatedText, want)
	}

	tree, err := parser.Parse([]byte(res.UpdatedText), "values.yaml")
	if err != nil {
		t.Fatalf("updated text does not parse: %v", err)
	}
	v, err := include.ResolveEntity(tree, "apps-stateless", "api")
	if err != nil {
		t.Fatalf("ResolveEntity() error = %v", err)
	}
	if args, _ := v.Get("args"); strings.Join(args.Strings(), " ") != "--a --b" {
		t.Errorf("args = %v, want [--a --b]", args.Interface())
	}
}

func TestExtractIncludeOrder(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		conflict bool
	}{
		{
			name:     "later profile defines the key",
			src:      "global:\n  _includes:\n    p:\n      a: 1\n    base:\n      replicas: 5\napps-stateless:\n  api:\n    _include: [p, base]\n    replicas: 2\n",
			conflict: true,
		},
		{
			name:     "later profile is not defined here",
			src:      "global:\n  _includes:\n    p:\n      a: 1\napps-stateless:\n  api:\n    _include: [p, probes]\n    replicas: 2\n",
			conflict: true,
		},
		{
			name:     "later profile has nested includes",
			src:      "global:\n  _includes:\n    p:\n      a: 1\n    base:\n      _include: [other]\n    other:\n      replicas: 5\napps-stateless:\n  api:\n    _include: [p, base]\n    replicas: 2\n",
			conflict: true,
		},
		{
			name: "later profile leaves the key alone",
			src:  "global:\n  _includes:\n    p:\n      a: 1\n    base:\n      image: x\napps-stateless:\n  api:\n    _include: [p, base]\n    replicas: 2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := strings.Count(tt.src[:strings.Index(tt.src, "    replicas: 2")], "\n")
			res, err := ExtractToInclude(tt.src, line, "p")
			if tt.conflict {
				if !dialectErrors.IsType(err, dialectErrors.ErrorTypeConflict) {
					t.Fatalf("error = %v, want conflict", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractToInclude() error = %v", err)
			}

			before, after := resolveAPI(t, tt.src), resolveAPI(t, res.UpdatedText)
			if !before.Equal(after) {
				t.Errorf("resolution changed: %v -> %v\n%s", before.Interface(), after.Interface(), res.UpdatedText)
			}
			if !strings.Contains(res.UpdatedText, "    _include:\n      - p\n      - base\n") {
				t.Errorf("include order changed:\n%s", res.UpdatedText)
			}
		})
	}
}

func resolveAPI(t *testing.T, text string) ast.Value {
	t.Helper()
	tree, err := parser.Parse([]byte(text), "values.yaml")
	if err != nil {
		t.Fatalf("parse: %v\n%s", err, text)
	}
	v, err := include.ResolveEntity(tree, "apps-stateless", "api")
	if err != nil {
		t.Fatalf("ResolveEntity() error = %v", err)
	}
	return v
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		line    int
		profile string
	}{
		{"outside app scope", "global:\n  env: dev\n", 1, "x"},
		{"group line", "apps-stateless:\n  api:\n    a: 1\n", 0, "x"},
		{"app line", "apps-stateless:\n  api:\n    a: 1\n", 1, "x"},
		{"include key", "apps-stateless:\n  api:\n    _include: [a]\n", 2, "x"},
		{"invalid profile name", "apps-stateless:\n  api:\n    a: 1\n", 2, "bad name"},
		{"group vars", "apps-stateless:\n  __GroupVars__:\n    a: 1\n", 2, "x"},
		{"inline global", "global: {env: dev}\napps-stateless:\n  api:\n    a: 1\n", 3, "x"},
		{"empty document", "", 0, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ExtractToInclude(tt.src, tt.line, tt.profile); !dialectErrors.IsType(err, dialectErrors.ErrorTypeStructural) {
				t.Errorf("ExtractToInclude() error = %v, want structural", err)
			}
		})
	}
}

func TestExtractPreservesResolution(t *testing.T) {
	src := `global:
  _includes:
    base:
      enabled: true
apps-stateless:
  api:
    _include: [base]
    replicas: 2
    resources:
      limits:
        cpu: 500m
    labels: |-
      app: api
`
	resolve := func(text string) ast.Value {
		t.Helper()
		tree, err := parser.Parse([]byte(text), "values.yaml")
		if err != nil {
			t.Fatalf("parse: %v\n%s", err, text)
		}
		v, err := include.ResolveEntity(tree, "apps-stateless", "api")
		if err != nil {
			t.Fatalf("ResolveEntity() error = %v", err)
		}
		return v
	}
	lineOf := func(text, prefix string) int {
		for i, l := range strings.Split(text, "\n") {
			if strings.HasPrefix(l, prefix) {
				return i
			}
		}
		t.Fatalf("%q not found in\n%s", prefix, text)
		return -1
	}

	before := resolve(src)
	first := mustExtract(t, src, lineOf(src, "    resources:"), "defaults")
	second := mustExtract(t, first.UpdatedText, lineOf(first.UpdatedText, "    labels:"), "defaults")

	if after := resolve(second.UpdatedText); !before.Equal(after) {
		t.Errorf("resolution changed after extraction:\n%s", second.UpdatedText)
	}
}

func TestExtractCRLF(t *testing.T) {
	src := "apps-stateless:\r\n  api:\r\n    enabled: true\r\n    labels:\r\n      a: b\r\n"

	res := mustExtract(t, src, 3, "common")
	if strings.Contains(strings.ReplaceAll(res.UpdatedText, "\r\n", ""), "\n") {
		t.Errorf("UpdatedText mixes line endings: %q", res.UpdatedText)
	}
	assertEditsReproduce(t, src, res)
}

func TestSafeRename(t *testing.T) {
	src := "global:\n  releases:\n    r1:\n      api: \"1.0.0\"\n    r2:\n      api: \"1.1.0\"\n      web: \"2.0.0\"\napps-stateless:\n  api:\n    enabled: true\n    config: |-\n      api: keep\n"

	res, err := SafeRename(src, 9, "api-v2")
	if err != nil {
		t.Fatalf("SafeRename() error = %v", err)
	}

	want := "global:\n  releases:\n    r1:\n      api-v2: \"1.0.0\"\n    r2:\n      api-v2: \"1.1.0\"\n      web: \"2.0.0\"\napps-stateless:\n  api-v2:\n    enabled: true\n    config: |-\n      api: keep\n"
	if res.UpdatedText != want {
		t.Errorf("UpdatedText =\n%s\nwant\n%s", res.UpdatedText, want)
	}
	if res.Summary != "renamed apps-stateless.api -> api-v2; updated global.releases: 2" {
		t.Errorf("Summary = %q", res.Summary)
	}
	if len(res.Edits) != 3 || res.Edits[0].Range.Start.Line != 3 || res.Edits[2].Range.Start.Line != 8 {
		t.Errorf("Edits = %+v, want three key edits in line order", res.Edits)
	}
	assertEditsReproduce(t, src, res)
}

func TestSafeRenameErrors(t *testing.T) {
	src := "apps-stateless:\n  api:\n    enabled: true\n  web:\n    enabled: true\n"

	tests := []struct {
		name    string
		line    int
		newKey  string
		errType dialectErrors.ErrorType
	}{
		{"invalid key", 1, "API V2", dialectErrors.ErrorTypeStructural},
		{"uppercase", 1, "Api", dialectErrors.ErrorTypeStructural},
		{"same key", 2, "api", dialectErrors.ErrorTypeStructural},
		{"group line", 0, "x", dialectErrors.ErrorTypeStructural},
		{"existing sibling", 1, "web", dialectErrors.ErrorTypeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SafeRename(src, tt.line, tt.newKey); !dialectErrors.IsType(err, tt.errType) {
				t.Errorf("SafeRename() error = %v, want %s", err, tt.errType)
			}
		})
	}
}

func TestConvertInlineInclude(t *testing.T) {
	src := "apps-x:\n  app:\n    _include: [a, \"b\"] # shared\n    x: 1\n"

	res, err := ConvertInlineInclude(src, 2)
	if err != nil {
		t.Fatalf("ConvertInlineInclude() error = %v", err)
	}
	want := "apps-x:\n  app:\n    _include:\n      - a\n      - b\n    x: 1\n"
	if res.UpdatedText != want {
		t.Errorf("UpdatedText =\n%s\nwant\n%s", res.UpdatedText, want)
	}
	assertEditsReproduce(t, src, res)

	for _, bad := range []int{1, 3} {
		if _, err := ConvertInlineInclude(src, bad); err == nil {
			t.Errorf("ConvertInlineInclude(line %d) error = nil", bad)
		}
	}
	if _, err := ConvertInlineInclude("a:\n  _include: []\n", 1); err == nil {
		t.Error("ConvertInlineInclude(empty list) error = nil")
	}
}

const valuesDoc = `global:
  _includes:
    base:
      enabled: true
apps-stateless:
  api:
    _include: [base]
  web:
    _include:
      - base
`

const otherDoc = `global:
  env: dev
apps-jobs:
  migrate:
    _include: base
    script: |-
      _include: base
`

func TestRenameSymbolAcrossDocuments(t *testing.T) {
	docs := workspace.Memory{"values.yaml": valuesDoc, "jobs.yaml": otherDoc, "notes.yaml": "base: true\n"}

	edit, err := RenameSymbol(context.Background(), docs, symbols.SymbolRef{Kind: symbols.KindInclude, Name: "base"}, "common")
	if err != nil {
		t.Fatalf("RenameSymbol() error = %v", err)
	}
	if got := strings.Join(edit.Documents(), ","); got != "jobs.yaml,values.yaml" {
		t.Errorf("Documents() = %q", got)
	}
	if edit.Count() != 4 {
		t.Errorf("Count() = %d, want 4", edit.Count())
	}

	out, err := ApplyWorkspaceEdit(docs, edit)
	if err != nil {
		t.Fatalf("ApplyWorkspaceEdit() error = %v", err)
	}
	for id, text := range out {
		if left := symbols.Occurrences(text, symbols.SymbolRef{Kind: symbols.KindInclude, Name: "base"}); len(left) != 0 {
			t.Errorf("%s still has occurrences of base: %+v", id, left)
		}
	}
	if !strings.Contains(out["jobs.yaml"], "script: |-\n      _include: base\n") {
		t.Errorf("block scalar was rewritten:\n%s", out["jobs.yaml"])
	}
	if !strings.Contains(out["values.yaml"], "    common:\n") || !strings.Contains(out["values.yaml"], "_include: [common]") {
		t.Errorf("values.yaml =\n%s", out["values.yaml"])
	}
}

func TestRenameSymbolErrors(t *testing.T) {
	docs := workspace.Memory{"values.yaml": valuesDoc}
	ctx := context.Background()

	if _, err := RenameSymbol(ctx, docs, symbols.SymbolRef{Kind: symbols.KindInclude, Name: "base"}, "bad name"); err == nil {
		t.Error("RenameSymbol(invalid name) error = nil")
	}
	if _, err := RenameSymbol(ctx, docs, symbols.SymbolRef{Kind: symbols.KindInclude, Name: "nope"}, "x"); err == nil {
		t.Error("RenameSymbol(no occurrences) error = nil")
	}
}

func TestRenameApp(t *testing.T) {
	docs := workspace.Memory{
		"values.yaml":      "global:\n  releases:\n    v1:\n      api: \"1\"\napps-stateless:\n  api:\n    replicas: 1\n",
		"values-prod.yaml": "global:\n  releases:\n    v2:\n      api: \"2\"\napps-stateless:\n  api:\n    replicas: 3\n",
		"jobs.yaml":        "apps-jobs:\n  migrate:\n    script: |-\n      api: 1\n",
	}

	edit, err := RenameApp(context.Background(), docs, "api", "gateway")
	if err != nil {
		t.Fatalf("RenameApp() error = %v", err)
	}
	if got := strings.Join(edit.Documents(), ","); got != "values-prod.yaml,values.yaml" {
		t.Errorf("Documents() = %q", got)
	}
	if edit.Count() != 4 {
		t.Errorf("Count() = %d, want 4", edit.Count())
	}

	out, err := ApplyWorkspaceEdit(docs, edit)
	if err != nil {
		t.Fatalf("ApplyWorkspaceEdit() error = %v", err)
	}
	if want := "global:\n  releases:\n    v2:\n      gateway: \"2\"\napps-stateless:\n  gateway:\n    replicas: 3\n"; out["values-prod.yaml"] != want {
		t.Errorf("values-prod.yaml =\n%s\nwant\n%s", out["values-prod.yaml"], want)
	}
}

func TestRenameAppErrors(t *testing.T) {
	docs := workspace.Memory{
		"values.yaml":      "apps-stateless:\n  api:\n    replicas: 1\n",
		"values-prod.yaml": "apps-stateless:\n  api:\n    replicas: 3\n  worker:\n    replicas: 1\n",
	}
	ctx := context.Background()

	tests := []struct {
		name     string
		app      string
		newKey   string
		conflict bool
	}{
		{"invalid key", "api", "Gateway", false},
		{"same key", "api", "api", false},
		{"no occurrences", "nope", "gateway", false},
		{"sibling in another document", "api", "worker", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RenameApp(ctx, docs, tt.app, tt.newKey)
			if err == nil {
				t.Fatal("RenameApp() error = nil")
			}
			if got := dialectErrors.IsType(err, dialectErrors.ErrorTypeConflict); got != tt.conflict {
				t.Errorf("conflict = %v, want %v (error %v)", got, tt.conflict, err)
			}
		})
	}
}

func TestPrepareRename(t *testing.T) {
	tests := []struct {
		name      string
		line, col int
		want      symbols.SymbolRef
		wantRange Range
		ok        bool
	}{
		{"profile definition", 2, 5, symbols.SymbolRef{Kind: symbols.KindInclude, Name: "base"}, LineRange(2, 4, 8), true},
		{"inline usage", 6, 17, symbols.SymbolRef{Kind: symbols.KindInclude, Name: "base"}, LineRange(6, 15, 19), true},
		{"app key", 5, 3, symbols.SymbolRef{Kind: symbols.KindApp, Name: "api"}, LineRange(5, 2, 5), true},
		{"plain key", 3, 7, symbols.SymbolRef{}, Range{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sym, rng, ok := PrepareRename(valuesDoc, tt.line, tt.col)
			if ok != tt.ok || sym != tt.want || rng != tt.wantRange {
				t.Errorf("PrepareRename() = %v, %+v, %v; want %v, %+v, %v", sym, rng, ok, tt.want, tt.wantRange, tt.ok)
			}
		})
	}
}

func TestApplyEdits(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		edits   []TextEdit
		want    string
		wantErr bool
	}{
		{"no edits", "a: 1\n", nil, "a: 1\n", false},
		{"single", "a: 1\nb: 2\n", []TextEdit{{Range: LineRange(1, 0, 1), NewText: "c"}}, "a: 1\nc: 2\n", false},
		{"unsorted", "ab\ncd", []TextEdit{{Range: LineRange(1, 0, 1), NewText: "X"}, {Range: LineRange(0, 1, 2), NewText: "Y"}}, "aY\nXd", false},
		{"crlf line end", "ab\r\ncd\r\n", []TextEdit{{Range: LineRange(0, 2, 2), NewText: "!"}}, "ab!\r\ncd\r\n", false},
		{"past line end", "ab\r\ncd", []TextEdit{{Range: LineRange(0, 3, 3), NewText: "!"}}, "", true},
		{"line out of range", "ab", []TextEdit{{Range: LineRange(4, 0, 0), NewText: "!"}}, "", true},
		{"overlap", "abcd", []TextEdit{{Range: LineRange(0, 0, 2), NewText: "x"}, {Range: LineRange(0, 1, 3), NewText: "y"}}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyEdits(tt.text, tt.edits)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyEdits() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ApplyEdits() = %q, want %q", got, tt.want)
			}
		})
	}
}
