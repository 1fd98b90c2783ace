package include

import (
	"sort"

	"helm-apps/dialect/pkg/dialect/ast"
)

// Registry maps profile names to profile bodies, read from
// global._includes of a (file-expanded) tree.
type Registry struct {
	profiles *ast.Mapping
	defs     map[string]Definition
}

// NewRegistry builds a registry from global._includes of tree. Every entry
// is recorded as a local definition.
func NewRegistry(tree ast.Value) *Registry {
	r := &Registry{profiles: ast.NewMapping(), defs: make(map[string]Definition)}

	includes, ok := tree.Lookup(GlobalKey, IncludesKey)
	if !ok || !includes.IsMapping() {
		return r
	}

	includes.Map.Each(func(name string, body ast.Value) {
		r.profiles.Set(name, body)
		r.defs[name] = Definition{Name: name, Source: SourceLocal}
	})
	return r
}

// Registry returns the profile registry of the expanded tree. Profiles that
// came from files and were not shadowed by a local definition carry their
// file source.
func (e *Expansion) Registry() *Registry {
	r := NewRegistry(e.Tree)

	for _, def := range e.Definitions {
		if e.localNames[def.Name] {
			continue
		}
		if _, ok := r.defs[def.Name]; ok {
			r.defs[def.Name] = def
		}
	}
	return r
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	return r.profiles.Has(name)
}

// Lookup returns the raw body of a profile.
func (r *Registry) Lookup(name string) (ast.Value, bool) {
	return r.profiles.Get(name)
}

// Definition returns where a profile was defined.
func (r *Registry) Definition(name string) (Definition, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := r.profiles.Keys()
	sort.Strings(names)
	return names
}

// Len returns the number of profiles.
func (r *Registry) Len() int {
	return r.profiles.Len()
}
