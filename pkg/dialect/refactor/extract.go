package refactor

import (
	"fmt"
	"slices"
	"strings"

	"helm-apps/dialect/pkg/dialect/ast"
	dialectErrors "helm-apps/dialect/pkg/dialect/errors"
	"helm-apps/dialect/pkg/dialect/scope"
)

const (
	includeKey     = "_include"
	profileIndent  = scope.ProfileIndent
	profileBodyPad = "      "
)

// ExtractToInclude moves the key under the cursor, with its whole block,
// out of an application into the profile global._includes.<profile> and
// adds the profile to the _include list of the key's owner. The cursor may
// sit anywhere inside the key's block. Nothing is changed on error.
func ExtractToInclude(text string, line int, profile string) (Result, error) {
	if !scope.IsIdentifier(profile) {
		return Result{}, dialectErrors.New(dialectErrors.ErrorTypeStructural, "Include profile name must match ^[A-Za-z0-9_.-]+$")
	}

	doc := newDocument(text)
	idx := scope.ScanLines(doc.lines)

	keyLine := idx.NearestKeyLine(line)
	if keyLine < 0 {
		return Result{}, dialectErrors.New(dialectErrors.ErrorTypeStructural, "Place cursor on app child key to extract")
	}

	app, ok := idx.AppScopeAt(keyLine)
	if !ok {
		return Result{}, dialectErrors.New(dialectErrors.ErrorTypeStructural, "Key must be inside <group>.<app> scope")
	}

	chain := append(idx.Ancestors(keyLine), idx.Line(keyLine).Node())
	if len(chain) < 3 {
		return Result{}, dialectErrors.New(dialectErrors.ErrorTypeStructural, "Place cursor on app child key to extract")
	}
	key := chain[len(chain)-1]
	owner := chain[len(chain)-2]

	if key.Key == includeKey {
		return Result{}, dialectErrors.New(dialectErrors.ErrorTypeStructural, "Cannot extract _include key")
	}
	if key.Indent != owner.Indent+2 {
		return Result{}, dialectErrors.New(dialectErrors.ErrorTypeStructural,
			"Key %s must be indented two spaces under %s", key.Key, owner.Key)
	}

	if err := checkProfileConflict(idx, profile, key.Key); err != nil {
		return Result{}, err
	}

	if err := checkIncludeOrder(idx, owner, profile, key.Key); err != nil {
		return Result{}, err
	}

	blockEnd := valueEnd(idx, key.Line)
	extracted := slices.Clone(doc.lines[key.Line:blockEnd])

	lines := slices.Concat(doc.lines[:key.Line], doc.lines[blockEnd:])
	lines = upsertInclude(lines, owner.Line, owner.Indent, profile)

	lines, err := upsertProfile(lines, profile, reindent(extracted, key.Indent))
	if err != nil {
		return Result{}, err
	}

	return Result{
		UpdatedText: doc.text(lines),
		Summary:     fmt.Sprintf("extracted %s.%s.%s -> global._includes.%s", app.Group, app.App, key.Key, profile),
		Edits:       []TextEdit{diffEdit(doc.lines, lines, doc.eol)},
	}, nil
}

// checkProfileConflict fails when the profile already defines key at its
// top level.
func checkProfileConflict(idx *scope.Index, profile, key string) error {
	profileLine, ok := findProfile(idx, profile)
	if !ok {
		return nil
	}
	for _, child := range idx.Children(profileLine) {
		if idx.Line(child).Key.Key == key {
			return &dialectErrors.Error{
				Type:     dialectErrors.ErrorTypeConflict,
				Message:  fmt.Sprintf("Include profile '%s' already contains key '%s'", profile, key),
				Location: locationOf(child, idx.Line(child).Key.KeyStart),
			}
		}
	}
	return nil
}

// findProfile returns the line of global._includes.<name>.
func findProfile(idx *scope.Index, name string) (int, bool) {
	global := idx.FindKey(scope.GlobalKey, 0, -1)
	if global < 0 {
		return -1, false
	}
	includes := idx.FindKey(scope.IncludesKey, 2, global)
	if includes < 0 {
		return -1, false
	}
	line := idx.FindKey(name, profileIndent, includes)
	return line, line >= 0
}

// ownerIncludes returns the _include line directly under the owner, its
// value end and the profile names it lists in order. line is -1 when the
// owner has no _include.
func ownerIncludes(idx *scope.Index, ownerLine, ownerIndent int) (line, end int, names []string) {
	for _, i := range idx.Children(ownerLine) {
		ln := idx.Line(i)
		if ln.Key.Key != includeKey || ln.Indent != ownerIndent+2 {
			continue
		}

		end := valueEnd(idx, i)
		names := inlineNames(ln.Key.Tail)
		for j := i + 1; j < end; j++ {
			item := idx.Line(j)
			if item.Kind == scope.LineListItem && item.Parent == i && item.Item.HasValue {
				if n := scope.Unquote(stripComment(item.Item.Value)); scope.IsIdentifier(n) {
					names = append(names, n)
				}
			}
		}
		return i, end, names
	}
	return -1, -1, nil
}

// checkIncludeOrder fails when the owner already lists profile before
// another profile that may define key. The extracted value would then be
// overridden by that profile.
func checkIncludeOrder(idx *scope.Index, owner scope.Node, profile, key string) error {
	line, _, names := ownerIncludes(idx, owner.Line, owner.Indent)
	at := slices.Index(names, profile)
	if at < 0 {
		return nil
	}
	for _, later := range names[at+1:] {
		if later == profile || !profileMayDefine(idx, later, key) {
			continue
		}
		return &dialectErrors.Error{
			Type: dialectErrors.ErrorTypeConflict,
			Message: fmt.Sprintf("Include profile '%s' is listed before '%s', which may define '%s'",
				profile, later, key),
			Location: locationOf(line, idx.Line(line).Key.KeyStart),
		}
	}
	return nil
}

// profileMayDefine reports whether the profile name could set key. Profiles
// not defined in the document, and profiles pulling in other profiles or
// files, are assumed to.
func profileMayDefine(idx *scope.Index, name, key string) bool {
	line, ok := findProfile(idx, name)
	if !ok {
		return true
	}
	if tail := strings.TrimSpace(stripComment(idx.Line(line).Key.Tail)); tail != "" {
		return !isEmptyFlowMap(tail)
	}
	for _, child := range idx.Children(line) {
		switch idx.Line(child).Key.Key {
		case key, includeKey, "_include_from_file", "_include_files":
			return true
		}
	}
	return false
}

// upsertInclude makes the owner's _include a dash list holding name.
// Inline and scalar forms are normalized and duplicates dropped; a name
// already listed keeps its position.
func upsertInclude(lines []string, ownerLine, ownerIndent int, name string) []string {
	idx := scope.ScanLines(lines)
	childPad := strings.Repeat(" ", ownerIndent+2)
	itemPad := strings.Repeat(" ", ownerIndent+4)

	if i, end, existing := ownerIncludes(idx, ownerLine, ownerIndent); i >= 0 {
		existing = append(existing, name)

		replacement := []string{childPad + includeKey + ":"}
		seen := make(map[string]bool)
		for _, n := range existing {
			if seen[n] {
				continue
			}
			seen[n] = true
			replacement = append(replacement, itemPad+"- "+n)
		}
		return slices.Concat(lines[:i], replacement, lines[end:])
	}

	insert := []string{childPad + includeKey + ":", itemPad + "- " + name}
	return slices.Concat(lines[:ownerLine+1], insert, lines[ownerLine+1:])
}

// upsertProfile inserts body (already indented for a profile body) under
// global._includes.<name>, creating global, _includes and the profile as
// needed.
func upsertProfile(lines []string, name string, body []string) ([]string, error) {
	idx := scope.ScanLines(lines)
	header := "    " + name + ":"

	global := idx.FindKey(scope.GlobalKey, 0, -1)
	if global < 0 {
		head := append([]string{"global:", "  _includes:", header}, body...)
		head = append(head, "")
		return slices.Concat(head, lines), nil
	}
	if err := requireBlock(idx, global); err != nil {
		return nil, err
	}

	includes := idx.FindKey(scope.IncludesKey, 2, global)
	if includes < 0 {
		insert := append([]string{"  _includes:", header}, body...)
		return slices.Concat(lines[:global+1], insert, lines[global+1:]), nil
	}
	if isEmptyFlowMap(idx.Line(includes).Key.Tail) {
		lines = slices.Clone(lines)
		lines[includes] = "  " + scope.IncludesKey + ":"
		idx = scope.ScanLines(lines)
	} else if err := requireBlock(idx, includes); err != nil {
		return nil, err
	}

	if profile := idx.FindKey(name, profileIndent, includes); profile >= 0 {
		if isEmptyFlowMap(idx.Line(profile).Key.Tail) {
			lines = slices.Clone(lines)
			lines[profile] = header
			idx = scope.ScanLines(lines)
		} else if err := requireBlock(idx, profile); err != nil {
			return nil, err
		}
		end := trimTrailing(idx, profile+1, idx.BlockEnd(profile), profileIndent)
		return slices.Concat(lines[:end], body, lines[end:]), nil
	}

	end := trimTrailing(idx, includes+1, idx.BlockEnd(includes), 2)
	insert := append([]string{header}, body...)
	return slices.Concat(lines[:end], insert, lines[end:]), nil
}

// reindent shifts a block so that its first line sits at the profile body
// indent. Lines indented less than the block (blank lines, stray comments)
// are left-trimmed first.
func reindent(block []string, from int) []string {
	pad := strings.Repeat(" ", from)
	out := make([]string, len(block))
	for i, l := range block {
		switch {
		case strings.TrimSpace(l) == "":
			out[i] = ""
		case strings.HasPrefix(l, pad):
			out[i] = profileBodyPad + l[from:]
		default:
			out[i] = profileBodyPad + strings.TrimLeft(l, " \t")
		}
	}
	return out
}

// trimTrailing moves end back over blank lines and comments indented at or
// below indent, which belong to whatever follows the block.
func trimTrailing(idx *scope.Index, start, end, indent int) int {
	for end > start {
		ln := idx.Line(end - 1)
		if ln.Kind == scope.LineBlank || (ln.Kind == scope.LineComment && ln.Indent <= indent) {
			end--
			continue
		}
		break
	}
	return end
}

// valueEnd returns the line after the value of key line i, including list
// items written at the key's own indent.
func valueEnd(idx *scope.Index, i int) int {
	end := idx.BlockEnd(i)
	for end < idx.Len() {
		ln := idx.Line(end)
		if ln.Kind == scope.LineListItem && ln.Parent == i {
			end++
			continue
		}
		if ln.Kind == scope.LineBlank || ln.Kind == scope.LineComment {
			next := end + 1
			for next < idx.Len() && (idx.Line(next).Kind == scope.LineBlank || idx.Line(next).Kind == scope.LineComment) {
				next++
			}
			if next < idx.Len() && idx.Line(next).Kind == scope.LineListItem && idx.Line(next).Parent == i {
				end = next
				continue
			}
		}
		break
	}
	return trimTrailing(idx, i+1, end, idx.Line(i).Indent)
}

// inlineNames reads the names of a scalar or inline-list _include tail.
func inlineNames(tail string) []string {
	t := strings.TrimSpace(stripComment(tail))
	if t == "" {
		return nil
	}
	if strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]") {
		var out []string
		for _, part := range strings.Split(t[1:len(t)-1], ",") {
			if n := scope.Unquote(part); scope.IsIdentifier(n) {
				out = append(out, n)
			}
		}
		return out
	}
	if n := scope.Unquote(t); scope.IsIdentifier(n) {
		return []string{n}
	}
	return nil
}

func stripComment(s string) string {
	if strings.HasPrefix(strings.TrimSpace(s), "#") {
		return ""
	}
	if i := strings.Index(s, " #"); i >= 0 {
		return s[:i]
	}
	return s
}

func isEmptyFlowMap(tail string) bool {
	return strings.TrimSpace(stripComment(tail)) == "{}"
}

// requireBlock fails when key line i carries an inline value, so children
// cannot be added under it.
func requireBlock(idx *scope.Index, i int) error {
	ln := idx.Line(i)
	if strings.TrimSpace(stripComment(ln.Key.Tail)) == "" {
		return nil
	}
	return &dialectErrors.Error{
		Type:     dialectErrors.ErrorTypeStructural,
		Message:  fmt.Sprintf("%s must be a block mapping to add entries", strings.Join(idx.Path(i), ".")),
		Location: locationOf(i, ln.Key.KeyStart),
	}
}

// locationOf converts a 0-based line and column to an error location.
func locationOf(line, col int) ast.Location {
	return ast.Location{Line: line + 1, Column: col + 1}
}
