package analyze

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/timsueberkrueb/lsp-graph-poc/pkg/errors"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/graph"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/lsp"
)

// symbolSource is the slice of the LSP client the symbol pass depends
// on. Narrowed to an interface so the pass is testable without a
// server process.
type symbolSource interface {
	DocumentSymbols(ctx context.Context, path string) ([]lsp.DocumentSymbol, error)
	Moniker(ctx context.Context, path string, pos lsp.Position) ([]lsp.Moniker, error)
}

// populateSymbols asks the language server for the symbol outline of
// every file node whose extension is in extensions, and nests the
// resulting Item nodes under the file via is_parent_of edges. Node IDs
// are enumerated up front, so items added here are not re-visited.
func populateSymbols(ctx context.Context, s *graph.Store, src symbolSource, useMonikers bool, extensions []string, logger *log.Logger) error {
	for _, id := range s.NodeIDs() {
		data, _ := s.Node(id)
		file, ok := data.(graph.File)
		if !ok || !matchesExtension(file.Path, extensions) {
			continue
		}

		symbols, err := src.DocumentSymbols(ctx, file.Path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeLSP, err, "documentSymbol failed for %s", file.Path)
		}
		logger.Debug("retrieved symbols", "path", file.Path, "count", len(symbols))

		for _, sym := range symbols {
			if err := addDocumentSymbol(ctx, s, src, useMonikers, file.Path, id, sym); err != nil {
				return err
			}
		}
	}
	return nil
}

// addDocumentSymbol adds one symbol as an Item node under parent and
// recurses into its children.
func addDocumentSymbol(ctx context.Context, s *graph.Store, src symbolSource, useMonikers bool, path string, parent graph.NodeID, sym lsp.DocumentSymbol) error {
	item := graph.Item{Name: sym.Name}
	if useMonikers {
		item.Moniker = resolveMoniker(ctx, src, path, sym.SelectionRange.Start)
	}

	id := s.AddNode(item)
	if _, err := s.AddEdge(graph.EdgeData{From: parent, To: id, Relation: graph.RelationIsParentOf}); err != nil {
		return err
	}
	for _, child := range sym.Children {
		if err := addDocumentSymbol(ctx, s, src, useMonikers, path, id, child); err != nil {
			return err
		}
	}
	return nil
}

// resolveMoniker looks up a stable identifier for the symbol at pos.
// Moniker support is best-effort: lookup failures just leave the field
// empty.
func resolveMoniker(ctx context.Context, src symbolSource, path string, pos lsp.Position) string {
	monikers, err := src.Moniker(ctx, path, pos)
	if err != nil || len(monikers) == 0 {
		return ""
	}
	return monikers[0].Identifier
}

// matchesExtension reports whether path's extension (without the dot)
// is one of extensions.
func matchesExtension(path string, extensions []string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return false
	}
	for _, e := range extensions {
		if strings.EqualFold(strings.TrimPrefix(e, "."), ext) {
			return true
		}
	}
	return false
}
