package scope

import (
	"regexp"
	"strings"
)

var (
	keyLineRe      = regexp.MustCompile(`^(\s*)([A-Za-z0-9_.-]+):\s*(.*)$`)
	blockOpenerRe  = regexp.MustCompile(`^[|>][-+0-9]*$`)
	listItemRe     = regexp.MustCompile(`^(\s*)-(\s+(.*))?$`)
	identifierRe   = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
	identifierScan = regexp.MustCompile(`[A-Za-z0-9_.-]+`)
)

// KeyLine is a line of the form "<indent><key>: <tail>".
type KeyLine struct {
	Indent   int
	Key      string
	KeyStart int    // column of the first key character
	KeyEnd   int    // column just past the key
	Tail     string // text after the colon, leading spaces removed
	TailCol  int    // column just past the colon
}

// ParseKey recognizes a key line. Keys are limited to [A-Za-z0-9_.-].
func ParseKey(line string) (KeyLine, bool) {
	m := keyLineRe.FindStringSubmatchIndex(line)
	if m == nil {
		return KeyLine{}, false
	}
	indent := m[3] - m[2]
	return KeyLine{
		Indent:   indent,
		Key:      line[m[4]:m[5]],
		KeyStart: m[4],
		KeyEnd:   m[5],
		Tail:     line[m[6]:m[7]],
		TailCol:  m[5] + 1,
	}, true
}

// OpensBlockScalar reports whether the tail of a key line starts a block
// scalar (|, |-, |+, >, >-, with an optional indentation digit).
func (k KeyLine) OpensBlockScalar() bool {
	return IsBlockScalarOpener(k.Tail)
}

// IsBlockScalarOpener reports whether tail introduces a block scalar.
// A trailing comment after the indicator is allowed.
func IsBlockScalarOpener(tail string) bool {
	t := strings.TrimSpace(tail)
	if i := strings.Index(t, " #"); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return blockOpenerRe.MatchString(t)
}

// ListItem is a dash-prefixed sequence entry line.
type ListItem struct {
	Indent   int
	Value    string // text after "- ", trimmed
	ValueCol int    // column of the first value character
	HasValue bool
}

// ParseListItem recognizes "- value" and bare "-" lines.
func ParseListItem(line string) (ListItem, bool) {
	m := listItemRe.FindStringSubmatchIndex(line)
	if m == nil {
		return ListItem{}, false
	}
	item := ListItem{Indent: m[3] - m[2]}
	if m[6] >= 0 {
		raw := line[m[6]:m[7]]
		trimmed := strings.TrimSpace(raw)
		item.Value = trimmed
		item.HasValue = trimmed != ""
		item.ValueCol = m[6] + (len(raw) - len(strings.TrimLeft(raw, " \t")))
	}
	return item, true
}

// CountIndent returns the number of leading spaces.
func CountIndent(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}

// IsBlankOrComment reports whether line carries no structure.
func IsBlankOrComment(line string) bool {
	t := strings.TrimSpace(line)
	return t == "" || strings.HasPrefix(t, "#")
}

// IsIdentifier reports whether s is a plain dialect identifier
// ([A-Za-z0-9_.-]+), the shape of include and app names.
func IsIdentifier(s string) bool {
	return identifierRe.MatchString(s)
}

// Token is an identifier found on a line.
type Token struct {
	Value string
	Start int
	End   int
}

// Identifiers returns every identifier token in s, offset by base.
func Identifiers(s string, base int) []Token {
	var out []Token
	for _, m := range identifierScan.FindAllStringIndex(s, -1) {
		out = append(out, Token{Value: s[m[0]:m[1]], Start: base + m[0], End: base + m[1]})
	}
	return out
}

// TokenAt returns the identifier token covering col, ends inclusive.
func TokenAt(line string, col int) (Token, bool) {
	for _, tok := range Identifiers(line, 0) {
		if col >= tok.Start && col <= tok.End {
			return tok, true
		}
	}
	return Token{}, false
}

// Unquote strips one pair of matching single or double quotes.
func Unquote(s string) string {
	v := strings.TrimSpace(s)
	if len(v) > 1 && ((v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'')) {
		return v[1 : len(v)-1]
	}
	return v
}

// SplitLines splits text on LF, dropping a CR before each break.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// BlockEnd returns the first line at or after start that is neither blank
// nor a comment and is indented at or below ownerIndent, or len(lines).
func BlockEnd(lines []string, start, ownerIndent int) int {
	for i := max(start, 0); i < len(lines); i++ {
		if IsBlankOrComment(lines[i]) {
			continue
		}
		if CountIndent(lines[i]) <= ownerIndent {
			return i
		}
	}
	return len(lines)
}

// ReplaceKey rewrites the key of a key line, keeping indentation and tail.
func ReplaceKey(line, newKey string) string {
	k, ok := ParseKey(line)
	if !ok {
		return line
	}
	return line[:k.KeyStart] + newKey + line[k.KeyEnd:]
}
