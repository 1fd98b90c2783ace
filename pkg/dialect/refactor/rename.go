package refactor

import (
	"cmp"
	"context"
	"fmt"
	"regexp"
	"slices"

	"helm-apps/dialect/pkg/dialect/ast"
	dialectErrors "helm-apps/dialect/pkg/dialect/errors"
	"helm-apps/dialect/pkg/dialect/scope"
	"helm-apps/dialect/pkg/dialect/symbols"
	"helm-apps/dialect/pkg/dialect/workspace"
)

var (
	appKeyRe     = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]*$`)
	symbolNameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

// SafeRename renames the application enclosing line to newKey and rewrites
// every global.releases.<release>.<app> key that names it. Keys inside
// block scalars are never touched. Nothing is changed on error.
func SafeRename(text string, line int, newKey string) (Result, error) {
	if !appKeyRe.MatchString(newKey) {
		return Result{}, dialectErrors.New(dialectErrors.ErrorTypeStructural, "New app key must match ^[a-z0-9][a-z0-9.-]*$")
	}

	doc := newDocument(text)
	idx := scope.ScanLines(doc.lines)

	keyLine := idx.NearestKeyLine(line)
	if keyLine < 0 {
		return Result{}, dialectErrors.New(dialectErrors.ErrorTypeStructural, "Place cursor on app key or inside app block")
	}
	app, ok := idx.AppScopeAt(keyLine)
	if !ok || !idx.IsAppDefinition(app.AppLine) {
		return Result{}, dialectErrors.New(dialectErrors.ErrorTypeStructural, "Cursor must be inside <group>.<app> block")
	}
	if app.App == newKey {
		return Result{}, dialectErrors.New(dialectErrors.ErrorTypeStructural, "New key is the same as current key")
	}
	if sibling := idx.FindKey(newKey, scope.AppIndent, app.GroupLine); sibling >= 0 {
		return Result{}, &dialectErrors.Error{
			Type:     dialectErrors.ErrorTypeConflict,
			Message:  fmt.Sprintf("Group '%s' already contains app '%s'", app.Group, newKey),
			Location: locationOf(sibling, scope.AppIndent),
		}
	}

	edits := []TextEdit{keyEdit(idx.Line(app.AppLine), newKey)}
	releases := 0
	for i := 0; i < idx.Len(); i++ {
		ln := idx.Line(i)
		if ln.Kind == scope.LineKey && ln.Key.Key == app.App && idx.IsReleaseAppReference(i) {
			edits = append(edits, keyEdit(ln, newKey))
			releases++
		}
	}

	lines := make([]string, len(doc.lines))
	copy(lines, doc.lines)
	for _, e := range edits {
		l := e.Range.Start.Line
		lines[l] = scope.ReplaceKey(lines[l], newKey)
	}

	return Result{
		UpdatedText: doc.text(lines),
		Summary:     fmt.Sprintf("renamed %s.%s -> %s; updated global.releases: %d", app.Group, app.App, newKey, releases),
		Edits:       sortEdits(edits),
	}, nil
}

func keyEdit(ln scope.Line, newKey string) TextEdit {
	return TextEdit{Range: LineRange(ln.Number, ln.Key.KeyStart, ln.Key.KeyEnd), NewText: newKey}
}

// RenameSymbol renames every occurrence of symbol in docs. It fails when
// newName is not an identifier or when no occurrence exists.
func RenameSymbol(ctx context.Context, docs workspace.DocumentSet, symbol symbols.SymbolRef, newName string) (WorkspaceEdit, error) {
	if !symbolNameRe.MatchString(newName) {
		return WorkspaceEdit{}, dialectErrors.New(dialectErrors.ErrorTypeStructural, "Use ^[A-Za-z0-9_.-]+$ for symbol rename")
	}

	occurrences, err := workspace.OccurrencesOf(ctx, symbol, docs)
	if err != nil {
		return WorkspaceEdit{}, err
	}
	if len(occurrences) == 0 {
		return WorkspaceEdit{}, dialectErrors.New(dialectErrors.ErrorTypeStructural, "No symbol occurrences found")
	}

	edit := WorkspaceEdit{Changes: make(map[string][]TextEdit)}
	for _, occ := range occurrences {
		edit.Changes[occ.DocumentID] = append(edit.Changes[occ.DocumentID], TextEdit{
			Range:   LineRange(occ.Line, occ.Start, occ.End),
			NewText: newName,
		})
	}
	return edit, nil
}

// RenameApp renames the application key name to newKey in every document
// of docs: each app definition and each global.releases.<release>.<app>
// reference. The checks of SafeRename hold in every document that defines
// the app. Nothing is returned on error.
func RenameApp(ctx context.Context, docs workspace.DocumentSet, name, newKey string) (WorkspaceEdit, error) {
	if !appKeyRe.MatchString(newKey) {
		return WorkspaceEdit{}, dialectErrors.New(dialectErrors.ErrorTypeStructural, "New app key must match ^[a-z0-9][a-z0-9.-]*$")
	}
	if name == newKey {
		return WorkspaceEdit{}, dialectErrors.New(dialectErrors.ErrorTypeStructural, "New key is the same as current key")
	}

	symbol := symbols.SymbolRef{Kind: symbols.KindApp, Name: name}
	occurrences, err := workspace.OccurrencesOf(ctx, symbol, docs)
	if err != nil {
		return WorkspaceEdit{}, err
	}
	if len(occurrences) == 0 {
		return WorkspaceEdit{}, dialectErrors.New(dialectErrors.ErrorTypeStructural, "No symbol occurrences found")
	}

	indexes := make(map[string]*scope.Index)
	for _, def := range symbols.Definitions(occurrences) {
		idx, ok := indexes[def.DocumentID]
		if !ok {
			text, err := docs.Text(def.DocumentID)
			if err != nil {
				return WorkspaceEdit{}, dialectErrors.Wrap(dialectErrors.ErrorTypeIO, err, "read %s", def.DocumentID)
			}
			idx = scope.Scan(text)
			indexes[def.DocumentID] = idx
		}

		app, ok := idx.AppScopeAt(def.Line)
		if !ok {
			continue
		}
		if sibling := idx.FindKey(newKey, scope.AppIndent, app.GroupLine); sibling >= 0 {
			return WorkspaceEdit{}, &dialectErrors.Error{
				Type:     dialectErrors.ErrorTypeConflict,
				Message:  fmt.Sprintf("Group '%s' already contains app '%s'", app.Group, newKey),
				Location: ast.Location{File: def.DocumentID, Line: sibling + 1, Column: scope.AppIndent + 1},
			}
		}
	}

	edit := WorkspaceEdit{Changes: make(map[string][]TextEdit)}
	for _, occ := range occurrences {
		edit.Changes[occ.DocumentID] = append(edit.Changes[occ.DocumentID], TextEdit{
			Range:   LineRange(occ.Line, occ.Start, occ.End),
			NewText: newKey,
		})
	}
	return edit, nil
}

// PrepareRename returns the symbol under the cursor and the range of its
// occurrence there. ok is false when nothing renameable is under the
// cursor.
func PrepareRename(text string, line, col int) (symbols.SymbolRef, Range, bool) {
	idx := scope.Scan(text)
	symbol, ok := symbols.FindSymbolAtIndex(idx, line, col)
	if !ok {
		return symbols.SymbolRef{}, Range{}, false
	}
	for _, occ := range symbols.OccurrencesInIndex(idx, symbol) {
		if occ.Line == line && col >= occ.Start && col <= occ.End {
			return symbol, LineRange(occ.Line, occ.Start, occ.End), true
		}
	}
	return symbols.SymbolRef{}, Range{}, false
}

// ApplyWorkspaceEdit applies edit to every touched document of docs and
// returns the new texts keyed by document ID. No text is returned unless
// every document succeeds.
func ApplyWorkspaceEdit(docs workspace.DocumentSet, edit WorkspaceEdit) (map[string]string, error) {
	out := make(map[string]string, len(edit.Changes))
	for _, id := range edit.Documents() {
		text, err := docs.Text(id)
		if err != nil {
			return nil, dialectErrors.Wrap(dialectErrors.ErrorTypeIO, err, "read %s", id)
		}
		updated, err := ApplyEdits(text, edit.Changes[id])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
		out[id] = updated
	}
	return out, nil
}

func sortEdits(edits []TextEdit) []TextEdit {
	slices.SortFunc(edits, func(a, b TextEdit) int {
		if c := cmp.Compare(a.Range.Start.Line, b.Range.Start.Line); c != 0 {
			return c
		}
		return cmp.Compare(a.Range.Start.Character, b.Range.Start.Character)
	})
	return edits
}
