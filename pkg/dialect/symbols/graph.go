package symbols

import (
	"slices"
	"strings"

	"helm-apps/dialect/pkg/dialect/ast"
	"helm-apps/dialect/pkg/dialect/include"
	"helm-apps/dialect/pkg/dialect/scope"
)

// AppNode is an application with the profiles it includes directly.
type AppNode struct {
	Group    string   `json:"group"`
	App      string   `json:"app"`
	Includes []string `json:"includes"`
}

// Graph is the include dependency graph of a document.
type Graph struct {
	Apps         []AppNode `json:"apps"`
	Includes     []string  `json:"includes"`
	IncludeFiles []string  `json:"includeFiles"`
}

// BuildDependencyGraph lists the apps of renderable groups (apps-* or any
// group with __GroupVars__) with their _include lists, the profile names
// of global._includes and the include file paths written in text.
func BuildDependencyGraph(tree ast.Value, text string) Graph {
	g := Graph{Apps: []AppNode{}, Includes: []string{}, IncludeFiles: includeFiles(text)}
	if !tree.IsMapping() {
		return g
	}

	if profiles, ok := tree.Lookup(include.GlobalKey, include.IncludesKey); ok && profiles.IsMapping() {
		g.Includes = profiles.Map.Keys()
		slices.Sort(g.Includes)
	}

	tree.Map.Each(func(group string, groupValue ast.Value) {
		if !renderableGroup(group, groupValue) {
			return
		}
		groupValue.Map.Each(func(app string, appValue ast.Value) {
			if app == scope.GroupVarsKey || !appValue.IsMapping() {
				return
			}
			includes := include.IncludeNames(appValue)
			if includes == nil {
				includes = []string{}
			}
			g.Apps = append(g.Apps, AppNode{Group: group, App: app, Includes: includes})
		})
	})

	return g
}

// Dependents returns the apps that include profile directly.
func (g Graph) Dependents(profile string) []AppNode {
	var out []AppNode
	for _, app := range g.Apps {
		if slices.Contains(app.Includes, profile) {
			out = append(out, app)
		}
	}
	return out
}

func renderableGroup(name string, v ast.Value) bool {
	if !v.IsMapping() {
		return false
	}
	return strings.HasPrefix(name, "apps-") || v.Map.Has(scope.GroupVarsKey)
}

// includeFiles collects the paths of _include_from_file and _include_files
// directives, in sorted order.
func includeFiles(text string) []string {
	idx := scope.Scan(text)
	set := make(map[string]bool)
	addPath := func(raw string) {
		if p := scope.Unquote(raw); p != "" {
			set[p] = true
		}
	}

	for i := 0; i < idx.Len(); i++ {
		ln := idx.Line(i)
		if ln.Kind != scope.LineKey {
			continue
		}
		switch ln.Key.Key {
		case include.IncludeFromFileKey:
			value, _ := keyValue(ln)
			addPath(value)

		case include.IncludeFilesKey:
			value, _ := keyValue(ln)
			if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
				for _, part := range strings.Split(value[1:len(value)-1], ",") {
					addPath(part)
				}
				continue
			}
			for j := i + 1; j < idx.BlockEnd(i); j++ {
				item := idx.Line(j)
				if item.Kind == scope.LineListItem && item.Parent == i && item.Item.HasValue {
					addPath(stripComment(item.Item.Value))
				}
			}
		}
	}

	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}
