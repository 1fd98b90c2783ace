package include

import (
	"helm-apps/dialect/pkg/dialect/ast"
)

// Dialect keys handled by this package.
const (
	IncludeKey         = "_include"
	IncludeFromFileKey = "_include_from_file"
	IncludeFilesKey    = "_include_files"
	IncludesKey        = "_includes"
	GlobalKey          = "global"
)

// Merge deep-merges incoming over base and returns a new value.
//
// Keys present on one side pass through. When both sides carry _include the
// lists are concatenated, base entries first. Mappings on both sides merge
// recursively. Anything else is replaced by the incoming value. Neither
// input is mutated.
func Merge(base, incoming ast.Value) ast.Value {
	if !base.IsMapping() || !incoming.IsMapping() {
		return incoming.Clone()
	}

	out := base.Map.Clone()
	incoming.Map.Each(func(key string, value ast.Value) {
		current, exists := out.Get(key)

		switch {
		case key == IncludeKey && exists:
			out.Set(key, namesValue(append(Names(current), Names(value)...)))
		case exists && current.IsMapping() && value.IsMapping():
			out.Set(key, Merge(current, value))
		default:
			out.Set(key, value.Clone())
		}
	})

	return ast.MappingValue(out)
}

// Names normalizes an _include value: a non-blank string becomes a one
// element list, a sequence keeps its non-blank string entries. Any other
// shape yields no names.
func Names(v ast.Value) []string {
	return v.Strings()
}

// IncludeNames returns the _include names declared directly on v.
func IncludeNames(v ast.Value) []string {
	inc, ok := v.Get(IncludeKey)
	if !ok {
		return nil
	}
	return Names(inc)
}

func namesValue(names []string) ast.Value {
	items := make([]ast.Value, len(names))
	for i, n := range names {
		items[i] = ast.String(n)
	}
	return ast.Sequence(items...)
}

// without returns a copy of mapping v minus key.
func without(v ast.Value, key string) ast.Value {
	m := v.Map.Clone()
	m.Delete(key)
	return ast.MappingValue(m)
}
