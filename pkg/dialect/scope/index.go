package scope

// LineKind classifies a document line for structural purposes.
type LineKind int

const (
	LineBlank    LineKind = iota // empty or whitespace only
	LineComment                  // "# ..." outside a block scalar
	LineKey                      // "key: tail"
	LineListItem                 // "- value"
	LineOpaque                   // inside a block scalar
	LineOther                    // any other content (continuations, flow text)
)

// Node is a key occurrence in the scope tree. Lines and columns are 0-based.
type Node struct {
	Indent   int
	Key      string
	Line     int
	KeyStart int
	KeyEnd   int
}

// Line is the structural view of one document line.
type Line struct {
	Number int
	Kind   LineKind
	Indent int
	Text   string
	Key    KeyLine  // valid when Kind == LineKey
	Item   ListItem // valid when Kind == LineListItem
	// Parent is the line index of the nearest enclosing key, or -1.
	// For opaque lines it is the block scalar owner.
	Parent int
}

// Node returns the scope node of a key line.
func (l Line) Node() Node {
	return Node{
		Indent:   l.Key.Indent,
		Key:      l.Key.Key,
		Line:     l.Number,
		KeyStart: l.Key.KeyStart,
		KeyEnd:   l.Key.KeyEnd,
	}
}

// Index is the result of one structural pass over a document.
type Index struct {
	lines []Line
	raw   []string
}

// Scan indexes text in a single pass.
func Scan(text string) *Index {
	return ScanLines(SplitLines(text))
}

// ScanLines indexes pre-split lines. The slice is retained, not copied.
//
// Key lines pop every open scope indented at or deeper than themselves and
// become the innermost scope. A list item belongs to the innermost scope
// indented less than it, or to a key at the same indent whose value is empty
// (the compact "key:\n- item" form). Lines deeper than a block scalar
// opener are opaque until indentation returns to the opener's level.
func ScanLines(raw []string) *Index {
	idx := &Index{lines: make([]Line, len(raw)), raw: raw}

	var stack []int // line indexes of open key lines
	blockOwner := -1

	top := func() int {
		if len(stack) == 0 {
			return -1
		}
		return stack[len(stack)-1]
	}

	for i, text := range raw {
		ln := Line{Number: i, Text: text, Indent: CountIndent(text), Parent: -1}

		if blockOwner >= 0 {
			inBlock := true
			switch {
			case isBlank(text):
				ln.Kind = LineBlank
			case ln.Indent > idx.lines[blockOwner].Indent:
				ln.Kind = LineOpaque
			case IsBlankOrComment(text):
				ln.Kind = LineComment
			default:
				inBlock = false
				blockOwner = -1
			}
			if inBlock {
				ln.Parent = blockOwner
				idx.lines[i] = ln
				continue
			}
		}

		switch {
		case isBlank(text):
			ln.Kind = LineBlank
			ln.Parent = top()

		case IsBlankOrComment(text):
			ln.Kind = LineComment
			ln.Parent = top()

		default:
			if k, ok := ParseKey(text); ok {
				ln.Kind = LineKey
				ln.Key = k
				for len(stack) > 0 && idx.lines[top()].Indent >= ln.Indent {
					stack = stack[:len(stack)-1]
				}
				ln.Parent = top()
				stack = append(stack, i)
				if k.OpensBlockScalar() {
					blockOwner = i
				}
			} else if item, ok := ParseListItem(text); ok {
				ln.Kind = LineListItem
				ln.Item = item
				for len(stack) > 0 {
					t := idx.lines[top()]
					if t.Indent < ln.Indent {
						break
					}
					if t.Indent == ln.Indent && isEmptyTail(t.Key.Tail) {
						break
					}
					stack = stack[:len(stack)-1]
				}
				ln.Parent = top()
			} else {
				ln.Kind = LineOther
				for j := len(stack) - 1; j >= 0; j-- {
					if idx.lines[stack[j]].Indent < ln.Indent {
						ln.Parent = stack[j]
						break
					}
				}
			}
		}

		idx.lines[i] = ln
	}

	return idx
}

func isBlank(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] != ' ' && text[i] != '\t' {
			return false
		}
	}
	return true
}

func isEmptyTail(tail string) bool {
	for i := 0; i < len(tail); i++ {
		switch tail[i] {
		case ' ', '\t':
			continue
		case '#':
			return true
		default:
			return false
		}
	}
	return true
}

// Len returns the number of lines.
func (x *Index) Len() int { return len(x.lines) }

// Lines returns the raw lines the index was built from.
func (x *Index) Lines() []string { return x.raw }

// Line returns the structural view of line i. Out-of-range lines read as
// blank.
func (x *Index) Line(i int) Line {
	if i < 0 || i >= len(x.lines) {
		return Line{Number: i, Kind: LineBlank, Parent: -1}
	}
	return x.lines[i]
}

// IsKey reports whether line i is a structural key line.
func (x *Index) IsKey(i int) bool {
	return x.Line(i).Kind == LineKey
}

// InsideBlockScalar reports whether line i is part of a block scalar body.
func (x *Index) InsideBlockScalar(i int) bool {
	return x.Line(i).Kind == LineOpaque
}

// Ancestors returns the enclosing key nodes of line i, outermost first,
// excluding line i itself.
func (x *Index) Ancestors(i int) []Node {
	var chain []Node
	for p := x.Line(i).Parent; p >= 0; p = x.lines[p].Parent {
		chain = append(chain, x.lines[p].Node())
	}
	for l, r := 0, len(chain)-1; l < r; l, r = l+1, r-1 {
		chain[l], chain[r] = chain[r], chain[l]
	}
	return chain
}

// Path returns the structural path of line i: the enclosing keys plus the
// line's own key when it is a key line.
func (x *Index) Path(i int) []string {
	ancestors := x.Ancestors(i)
	path := make([]string, 0, len(ancestors)+1)
	for _, n := range ancestors {
		path = append(path, n.Key)
	}
	if x.IsKey(i) {
		path = append(path, x.lines[i].Key.Key)
	}
	return path
}

// ParentKey returns the nearest enclosing key of line i.
func (x *Index) ParentKey(i int) (Node, bool) {
	p := x.Line(i).Parent
	if p < 0 {
		return Node{}, false
	}
	return x.lines[p].Node(), true
}

// BlockEnd returns the first line after key line i that closes its block.
func (x *Index) BlockEnd(i int) int {
	return BlockEnd(x.raw, i+1, x.Line(i).Indent)
}

// NearestKeyLine returns the closest structural key line at or above line
// i, or -1.
func (x *Index) NearestKeyLine(i int) int {
	for j := min(i, len(x.lines)-1); j >= 0; j-- {
		if x.lines[j].Kind == LineKey {
			return j
		}
	}
	return -1
}

// AncestorAtIndent returns the key enclosing line i (or line i itself) that
// sits at exactly indent.
func (x *Index) AncestorAtIndent(i, indent int) (Node, bool) {
	if x.IsKey(i) && x.lines[i].Indent == indent {
		return x.lines[i].Node(), true
	}
	for _, n := range x.Ancestors(i) {
		if n.Indent == indent {
			return n, true
		}
	}
	return Node{}, false
}

// FindKey returns the first key line named key at indent whose parent is
// parentLine (-1 for top level).
func (x *Index) FindKey(key string, indent, parentLine int) int {
	for i, ln := range x.lines {
		if ln.Kind == LineKey && ln.Indent == indent && ln.Key.Key == key && ln.Parent == parentLine {
			return i
		}
	}
	return -1
}

// Children returns the key lines directly owned by key line i.
func (x *Index) Children(i int) []int {
	var out []int
	end := x.BlockEnd(i)
	for j := i + 1; j < end; j++ {
		if x.lines[j].Kind == LineKey && x.lines[j].Parent == i {
			out = append(out, j)
		}
	}
	return out
}

// TopLevelKeys returns every key line at indent 0.
func (x *Index) TopLevelKeys() []int {
	var out []int
	for i, ln := range x.lines {
		if ln.Kind == LineKey && ln.Parent == -1 && ln.Indent == 0 {
			out = append(out, i)
		}
	}
	return out
}
