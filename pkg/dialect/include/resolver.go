package include

import (
	"log/slog"
	"slices"

	"helm-apps/dialect/pkg/dialect/ast"
	dialectErrors "helm-apps/dialect/pkg/dialect/errors"
)

// Resolver applies name-based _include references against a Registry.
// Resolved profiles are memoized for the lifetime of the Resolver, which is
// one resolution pass; create a new Resolver per document version.
type Resolver struct {
	registry *Registry
	cache    map[string]ast.Value
	logger   *slog.Logger
	unknown  map[string]bool // referenced but not registered
}

// NewResolver creates a resolver over registry.
func NewResolver(registry *Registry, opts ...Option) *Resolver {
	o := buildOptions(opts)
	return &Resolver{
		registry: registry,
		cache:    make(map[string]ast.Value),
		logger:   o.logger,
		unknown:  make(map[string]bool),
	}
}

// Resolve expands every mapping in tree that carries _include. Profile
// bodies under _includes are copied as they are.
func (r *Resolver) Resolve(tree ast.Value) (ast.Value, error) {
	return r.expandNode(tree, nil)
}

// ResolveEntity resolves the application <group>.<app> of tree. Only the
// entity's own subtree is expanded, so cycles elsewhere do not affect it.
func (r *Resolver) ResolveEntity(tree ast.Value, group, app string) (ast.Value, error) {
	if !tree.IsMapping() {
		return ast.Value{}, dialectErrors.New(dialectErrors.ErrorTypeStructural, "values document must be a YAML map")
	}

	groupValue, ok := tree.Get(group)
	if !ok || !groupValue.IsMapping() {
		return ast.Value{}, dialectErrors.New(dialectErrors.ErrorTypeStructural, "Group not found: %s", group)
	}

	appValue, ok := groupValue.Get(app)
	if !ok || !appValue.IsMapping() {
		return ast.Value{}, dialectErrors.New(dialectErrors.ErrorTypeStructural, "App not found at %s.%s", group, app)
	}

	return r.expandNode(appValue, nil)
}

// ResolveProfile returns the fully resolved body of a profile. Unknown
// names resolve to an empty mapping.
func (r *Resolver) ResolveProfile(name string) (ast.Value, error) {
	return r.resolveProfile(name, nil)
}

// Unknown returns the referenced profile names that were not registered.
func (r *Resolver) Unknown() []string {
	out := make([]string, 0, len(r.unknown))
	for name := range r.unknown {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

func (r *Resolver) resolveProfile(name string, stack []string) (ast.Value, error) {
	if slices.Contains(stack, name) {
		chain := append(slices.Clone(stack), name)
		r.logger.Warn("include cycle detected", "chain", chain)
		return ast.Value{}, dialectErrors.NewCycle("Include cycle detected", chain)
	}

	if cached, ok := r.cache[name]; ok {
		return cached.Clone(), nil
	}

	body, ok := r.registry.Lookup(name)
	if !ok || !body.IsMapping() {
		if !ok {
			r.unknown[name] = true
		}
		return ast.EmptyMapping(), nil
	}

	next := append(slices.Clone(stack), name)

	merged := ast.EmptyMapping()
	for _, child := range IncludeNames(body) {
		resolved, err := r.resolveProfile(child, next)
		if err != nil {
			return ast.Value{}, err
		}
		merged = Merge(merged, resolved)
	}

	own, err := r.expandNode(without(body, IncludeKey), next)
	if err != nil {
		return ast.Value{}, err
	}
	merged = Merge(merged, own)
	merged.Map.Delete(IncludeKey)

	r.cache[name] = merged
	return merged.Clone(), nil
}

// expandNode applies _include on v and, recursively, on every nested
// mapping. stack holds the profiles being resolved above this node.
func (r *Resolver) expandNode(v ast.Value, stack []string) (ast.Value, error) {
	switch v.Kind {
	case ast.KindSequence:
		items := make([]ast.Value, len(v.Items))
		for i, item := range v.Items {
			expanded, err := r.expandNode(item, stack)
			if err != nil {
				return ast.Value{}, err
			}
			items[i] = expanded
		}
		return ast.Sequence(items...), nil

	case ast.KindMapping:
		current := v
		if v.Map.Has(IncludeKey) {
			base := ast.EmptyMapping()
			for _, name := range IncludeNames(v) {
				resolved, err := r.resolveProfile(name, stack)
				if err != nil {
					return ast.Value{}, err
				}
				base = Merge(base, resolved)
			}
			current = Merge(base, without(v, IncludeKey))
		}

		out := ast.NewMapping()
		for _, key := range current.Map.Keys() {
			child, _ := current.Map.Get(key)
			if key == IncludesKey {
				out.Set(key, child.Clone())
				continue
			}
			expanded, err := r.expandNode(child, stack)
			if err != nil {
				return ast.Value{}, err
			}
			out.Set(key, expanded)
		}
		return ast.MappingValue(out), nil

	default:
		return v, nil
	}
}

// ResolveEntity resolves <group>.<app> of a tree whose file includes are
// already expanded, using a fresh resolver.
func ResolveEntity(tree ast.Value, group, app string) (ast.Value, error) {
	return NewResolver(NewRegistry(tree)).ResolveEntity(tree, group, app)
}
