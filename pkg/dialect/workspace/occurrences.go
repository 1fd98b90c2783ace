package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"helm-apps/dialect/pkg/dialect/symbols"
)

// DocumentSet is the set of documents a cross-document query runs over.
type DocumentSet interface {
	// IDs lists the document identifiers, normally absolute paths.
	IDs(ctx context.Context) ([]string, error)
	// Text returns the current text of a document.
	Text(id string) (string, error)
}

// Project is the DocumentSet of every candidate document under Root.
type Project struct {
	Root    string
	Options DocumentOptions
	Store   *Store
}

// NewProject creates the document set for root with default options.
func NewProject(root string, store *Store) *Project {
	if store == nil {
		store = NewStore(0)
	}
	return &Project{Root: root, Options: DefaultDocumentOptions(), Store: store}
}

// IDs implements DocumentSet.
func (p *Project) IDs(ctx context.Context) ([]string, error) {
	return Documents(ctx, p.Root, p.Options)
}

// Text implements DocumentSet.
func (p *Project) Text(id string) (string, error) {
	return p.Store.Get(id)
}

// Memory is an in-memory DocumentSet keyed by document ID.
type Memory map[string]string

// IDs implements DocumentSet.
func (m Memory) IDs(context.Context) ([]string, error) {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Text implements DocumentSet.
func (m Memory) Text(id string) (string, error) {
	text, ok := m[id]
	if !ok {
		return "", fmt.Errorf("document %s not found", id)
	}
	return text, nil
}

// Overlay serves some documents from memory ahead of a base set, such as an
// editor buffer with unsaved changes.
type Overlay struct {
	Base      DocumentSet
	Overrides Memory
}

// IDs implements DocumentSet.
func (o Overlay) IDs(ctx context.Context) ([]string, error) {
	ids, err := o.Base.IDs(ctx)
	if err != nil {
		return nil, err
	}
	for id := range o.Overrides {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// Text implements DocumentSet.
func (o Overlay) Text(id string) (string, error) {
	if text, ok := o.Overrides[id]; ok {
		return text, nil
	}
	return o.Base.Text(id)
}

// OccurrencesOf collects the occurrences of symbol in every document of
// docs that looks like a values document. Unreadable documents are skipped
// and logged. Results are ordered by document, then position.
func OccurrencesOf(ctx context.Context, symbol symbols.SymbolRef, docs DocumentSet) ([]symbols.Occurrence, error) {
	return OccurrencesOfWithLogger(ctx, symbol, docs, slog.Default())
}

// OccurrencesOfWithLogger is OccurrencesOf with an explicit logger.
func OccurrencesOfWithLogger(ctx context.Context, symbol symbols.SymbolRef, docs DocumentSet, logger *slog.Logger) ([]symbols.Occurrence, error) {
	ids, err := docs.IDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	var out []symbols.Occurrence
	scanned := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := docs.Text(id)
		if err != nil {
			logger.Warn("skipping unreadable document", "document", id, "error", err)
			continue
		}
		if !LooksLikeValues(text) {
			continue
		}
		scanned++

		for _, occ := range symbols.Occurrences(text, symbol) {
			occ.DocumentID = id
			out = append(out, occ)
		}
	}

	logger.Debug("collected symbol occurrences",
		"symbol", symbol.String(),
		"documents", len(ids),
		"values_documents", scanned,
		"occurrences", len(out),
	)
	return out, nil
}
