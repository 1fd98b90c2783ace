// Package refactor implements text-preserving edits of values documents.
//
// Every operation works on lines located through the scope index, so block
// scalar bodies are never rewritten as structure, and every operation is
// all-or-nothing: on error the caller gets no text at all. Results carry
// both the complete new text and the equivalent edit list.
//
//	res, err := refactor.ExtractToInclude(text, cursorLine, "probes")
//	res, err := refactor.SafeRename(text, cursorLine, "api-v2")
//	edit, err := refactor.RenameSymbol(ctx, workspace.NewProject(root, nil), symbol, "base")
//	edit, err := refactor.RenameApp(ctx, docs, "api", "api-v2")
package refactor
