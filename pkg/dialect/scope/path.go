package scope

// Reserved names of the values dialect.
const (
	GlobalKey    = "global"
	IncludesKey  = "_includes"
	ReleasesKey  = "releases"
	GroupVarsKey = "__GroupVars__"
)

// Indentation depths at which dialect symbols are recognized. Documents use
// two-space indentation.
const (
	AppIndent         = 2 // <group>.<app>
	ProfileIndent     = 4 // global._includes.<name>
	ProfileBodyIndent = 6 // keys of a profile body
	ReleaseAppIndent  = 6 // global.releases.<release>.<app>
)

// ScopePathAt returns the chain of enclosing keys plus the key on line,
// provided col is at or after the key's first character. It returns false
// for blank and comment lines, lines that are not key lines, lines inside a
// block scalar, and positions before the key.
func ScopePathAt(text string, line, col int) ([]string, bool) {
	lines := SplitLines(text)
	if line < 0 || line >= len(lines) {
		return nil, false
	}

	idx := ScanLines(lines[:line+1])
	ln := idx.Line(line)
	if ln.Kind != LineKey || col < ln.Key.KeyStart {
		return nil, false
	}
	return idx.Path(line), true
}

// AppScope names an application entity.
type AppScope struct {
	Group     string
	App       string
	GroupLine int
	AppLine   int
}

// Entity returns "group.app".
func (a AppScope) Entity() string {
	return a.Group + "." + a.App
}

// AppScopeAt returns the application entity whose block contains line.
// Groups are top-level keys other than global; __GroupVars__ is group
// metadata, not an application.
func AppScopeAt(text string, line int) (AppScope, bool) {
	return Scan(text).AppScopeAt(line)
}

// AppScopeAt is the Index form of the package-level AppScopeAt.
func (x *Index) AppScopeAt(line int) (AppScope, bool) {
	if x.Len() == 0 {
		return AppScope{}, false
	}
	i := min(max(line, 0), x.Len()-1)

	// Blank and comment lines belong to whatever content precedes them.
	for i > 0 && (x.lines[i].Kind == LineBlank || x.lines[i].Kind == LineComment) && x.lines[i].Parent < 0 {
		i--
	}

	chain := x.Ancestors(i)
	if x.IsKey(i) {
		chain = append(chain, x.lines[i].Node())
	}
	if len(chain) < 2 {
		return AppScope{}, false
	}

	group, app := chain[0], chain[1]
	if group.Indent != 0 || group.Key == GlobalKey {
		return AppScope{}, false
	}
	if app.Key == GroupVarsKey {
		return AppScope{}, false
	}
	return AppScope{Group: group.Key, App: app.Key, GroupLine: group.Line, AppLine: app.Line}, true
}

// IsAppDefinition reports whether key line i defines an application: a
// child of a non-global top-level group that is not __GroupVars__.
func (x *Index) IsAppDefinition(i int) bool {
	ln := x.Line(i)
	if ln.Kind != LineKey || ln.Indent != AppIndent || ln.Key.Key == GroupVarsKey {
		return false
	}
	parent, ok := x.ParentKey(i)
	if !ok || parent.Indent != 0 || parent.Key == GlobalKey {
		return false
	}
	return ln.Parent >= 0 && x.lines[ln.Parent].Parent == -1
}

// IsIncludeDefinition reports whether key line i defines a profile under
// global._includes.
func (x *Index) IsIncludeDefinition(i int) bool {
	ln := x.Line(i)
	if ln.Kind != LineKey || ln.Indent != ProfileIndent {
		return false
	}
	chain := x.Ancestors(i)
	return len(chain) == 2 &&
		chain[0].Key == GlobalKey && chain[0].Indent == 0 &&
		chain[1].Key == IncludesKey && chain[1].Indent == 2
}

// IsReleaseAppReference reports whether key line i is an app entry of the
// global.releases.<release> matrix.
func (x *Index) IsReleaseAppReference(i int) bool {
	ln := x.Line(i)
	if ln.Kind != LineKey || ln.Indent != ReleaseAppIndent {
		return false
	}
	chain := x.Ancestors(i)
	return len(chain) == 3 &&
		chain[0].Key == GlobalKey && chain[0].Indent == 0 &&
		chain[1].Key == ReleasesKey && chain[1].Indent == 2 &&
		chain[2].Indent == 4
}
