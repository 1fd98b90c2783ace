package envmap

import (
	"regexp"
	"strings"

	"helm-apps/dialect/pkg/dialect/ast"
)

// DefaultKey is the fallback branch of an environment map.
const DefaultKey = "_default"

// IsEnvMap reports whether v is a mapping selected by environment: it has a
// _default key or at least one regex-looking key.
func IsEnvMap(v ast.Value) bool {
	if !v.IsMapping() {
		return false
	}
	if v.Map.Has(DefaultKey) {
		return true
	}
	for _, key := range v.Map.Keys() {
		if LooksLikeRegex(key) {
			return true
		}
	}
	return false
}

// LooksLikeRegex reports whether a branch key is a pattern rather than a
// literal environment name. A plain dot (as in "nginx.conf") is not enough;
// only .* .+ .? count, next to anchors, classes, groups, alternation and
// escapes.
func LooksLikeRegex(key string) bool {
	if key == "" || key == DefaultKey {
		return false
	}
	if strings.HasPrefix(key, "^") || strings.HasSuffix(key, "$") {
		return true
	}
	if strings.Contains(key, ".*") || strings.Contains(key, ".+") || strings.Contains(key, ".?") {
		return true
	}
	return strings.ContainsAny(key, `[]()|\`)
}

// Select picks the branch of env map m for env: the literal key, then the
// first matching regex key in declaration order, then _default. ok is false
// when nothing matches.
func Select(m ast.Value, env string) (ast.Value, bool) {
	return patterns{}.selectBranch(m, env)
}

// patterns holds the regex branch keys compiled during one resolution.
// Invalid patterns are stored as nil.
type patterns map[string]*regexp.Regexp

func (p patterns) compile(pattern string) *regexp.Regexp {
	if re, ok := p[pattern]; ok {
		return re
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		re = nil
	}
	p[pattern] = re
	return re
}

func (p patterns) selectBranch(m ast.Value, env string) (ast.Value, bool) {
	if !m.IsMapping() {
		return ast.Value{}, false
	}

	if branch, ok := m.Map.Get(env); ok {
		return branch, true
	}

	for _, key := range m.Map.Keys() {
		if key == DefaultKey || !LooksLikeRegex(key) {
			continue
		}
		if re := p.compile(key); re != nil && re.MatchString(env) {
			branch, _ := m.Map.Get(key)
			return branch, true
		}
	}

	if branch, ok := m.Map.Get(DefaultKey); ok {
		return branch, true
	}
	return ast.Value{}, false
}

// ResolveEnv rewrites every environment map in v to the branch selected for
// env, resolving the selected branch further. An env map with no matching
// branch keeps its shape with its children resolved. Sequences resolve
// element-wise; scalars pass through. It never fails and never mutates v.
func ResolveEnv(v ast.Value, env string) ast.Value {
	return patterns{}.resolve(v, env)
}

func (p patterns) resolve(v ast.Value, env string) ast.Value {
	switch v.Kind {
	case ast.KindSequence:
		items := make([]ast.Value, len(v.Items))
		for i, item := range v.Items {
			items[i] = p.resolve(item, env)
		}
		return ast.Sequence(items...)

	case ast.KindMapping:
		if v.Map == nil {
			return ast.EmptyMapping()
		}
		if IsEnvMap(v) {
			if branch, ok := p.selectBranch(v, env); ok {
				return p.resolve(branch, env)
			}
		}
		out := ast.NewMapping()
		v.Map.Each(func(key string, child ast.Value) {
			out.Set(key, p.resolve(child, env))
		})
		return ast.MappingValue(out)

	default:
		return v
	}
}

// ActiveEnv returns override when it is non-blank, otherwise the string
// value of global.env in tree, otherwise "".
func ActiveEnv(tree ast.Value, override string) string {
	if s := strings.TrimSpace(override); s != "" {
		return s
	}
	if env, ok := tree.Lookup("global", "env"); ok && env.IsString() {
		return strings.TrimSpace(env.Text)
	}
	return ""
}
