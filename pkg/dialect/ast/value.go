package ast

import (
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is a node of a parsed values tree.
// Exactly one payload field is meaningful, selected by Kind.
// The zero Value is Null.
type Value struct {
	Kind   Kind
	Bool   bool
	Number float64
	Text   string // string payload, or the source text of a number
	Items  []Value
	Map    *Mapping
}

// Null returns the null value.
func Null() Value { return Value{Kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Number returns a numeric value. raw keeps the source spelling;
// an empty raw is derived from n.
func Number(n float64, raw string) Value {
	if raw == "" {
		raw = strconv.FormatFloat(n, 'g', -1, 64)
	}
	return Value{Kind: KindNumber, Number: n, Text: raw}
}

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Text: s} }

// Sequence returns a sequence holding items.
func Sequence(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: KindSequence, Items: items}
}

// MappingValue wraps m into a Value. A nil m becomes an empty mapping.
func MappingValue(m *Mapping) Value {
	if m == nil {
		m = NewMapping()
	}
	return Value{Kind: KindMapping, Map: m}
}

// EmptyMapping returns a Value holding a fresh empty mapping.
func EmptyMapping() Value { return MappingValue(NewMapping()) }

// IsMapping reports whether v holds a mapping.
func (v Value) IsMapping() bool { return v.Kind == KindMapping && v.Map != nil }

// IsSequence reports whether v holds a sequence.
func (v Value) IsSequence() bool { return v.Kind == KindSequence }

// IsString reports whether v holds a string.
func (v Value) IsString() bool { return v.Kind == KindString }

// Get looks up key when v is a mapping.
func (v Value) Get(key string) (Value, bool) {
	if !v.IsMapping() {
		return Value{}, false
	}
	return v.Map.Get(key)
}

// Lookup follows a path of mapping keys.
func (v Value) Lookup(path ...string) (Value, bool) {
	cur := v
	for _, key := range path {
		next, ok := cur.Get(key)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

// Clone returns a deep copy of v. Mutating the copy never affects v.
func (v Value) Clone() Value {
	switch v.Kind {
	case KindSequence:
		items := make([]Value, len(v.Items))
		for i, item := range v.Items {
			items[i] = item.Clone()
		}
		return Value{Kind: KindSequence, Items: items}
	case KindMapping:
		return MappingValue(v.Map.Clone())
	default:
		return v
	}
}

// Equal reports deep equality. Mapping key order is ignored.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == other.Bool
	case KindNumber:
		return v.Number == other.Number
	case KindString:
		return v.Text == other.Text
	case KindSequence:
		if len(v.Items) != len(other.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(other.Items[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		return v.Map.Equal(other.Map)
	default:
		return false
	}
}

// Scalar renders a scalar value as text. Containers render as "".
func (v Value) Scalar() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber, KindString:
		return v.Text
	default:
		return ""
	}
}

// Interface converts v into plain Go values (map[string]any, []any, ...).
// Mapping order is lost; use it for JSON output only.
func (v Value) Interface() any {
	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool
	case KindNumber:
		if i, err := strconv.ParseInt(v.Text, 10, 64); err == nil {
			return i
		}
		return v.Number
	case KindString:
		return v.Text
	case KindSequence:
		out := make([]any, len(v.Items))
		for i, item := range v.Items {
			out[i] = item.Interface()
		}
		return out
	case KindMapping:
		out := make(map[string]any, v.Map.Len())
		for _, key := range v.Map.Keys() {
			child, _ := v.Map.Get(key)
			out[key] = child.Interface()
		}
		return out
	default:
		return nil
	}
}

// Strings returns the non-blank string entries of a string or a sequence,
// trimmed. Other kinds yield nil.
func (v Value) Strings() []string {
	switch v.Kind {
	case KindString:
		if s := strings.TrimSpace(v.Text); s != "" {
			return []string{s}
		}
		return nil
	case KindSequence:
		var out []string
		for _, item := range v.Items {
			if item.Kind != KindString {
				continue
			}
			if s := strings.TrimSpace(item.Text); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
