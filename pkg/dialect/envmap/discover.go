package envmap

import (
	"slices"
	"strings"

	"helm-apps/dialect/pkg/dialect/ast"
)

// Environments lists the environment names a document knows about.
type Environments struct {
	Literals []string `json:"literals"`
	Regexes  []string `json:"regexes"`
}

// All returns literals followed by regexes.
func (e Environments) All() []string {
	return append(slices.Clone(e.Literals), e.Regexes...)
}

// Discover collects global.env and every branch key of every env map in
// tree. Both lists are sorted and free of duplicates.
func Discover(tree ast.Value) Environments {
	literals := make(map[string]bool)
	regexes := make(map[string]bool)

	if env, ok := tree.Lookup("global", "env"); ok && env.IsString() {
		if s := strings.TrimSpace(env.Text); s != "" {
			literals[s] = true
		}
	}

	walk(tree, func(m ast.Value) {
		if !IsEnvMap(m) {
			return
		}
		for _, key := range m.Map.Keys() {
			switch {
			case key == DefaultKey:
			case LooksLikeRegex(key):
				regexes[key] = true
			default:
				literals[key] = true
			}
		}
	})

	return Environments{Literals: sortedKeys(literals), Regexes: sortedKeys(regexes)}
}

func walk(v ast.Value, onMap func(ast.Value)) {
	switch v.Kind {
	case ast.KindSequence:
		for _, item := range v.Items {
			walk(item, onMap)
		}
	case ast.KindMapping:
		if v.Map == nil {
			return
		}
		onMap(v)
		v.Map.Each(func(_ string, child ast.Value) {
			walk(child, onMap)
		})
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
