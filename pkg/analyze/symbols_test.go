package analyze

import (
	"context"
	"testing"

	"github.com/timsueberkrueb/lsp-graph-poc/pkg/graph"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/lsp"
)

// fakeSymbolSource serves canned outlines keyed by file path.
type fakeSymbolSource struct {
	symbols  map[string][]lsp.DocumentSymbol
	monikers map[string]string // "line:char" -> identifier
	calls    []string
}

func (f *fakeSymbolSource) DocumentSymbols(_ context.Context, path string) ([]lsp.DocumentSymbol, error) {
	f.calls = append(f.calls, path)
	return f.symbols[path], nil
}

func (f *fakeSymbolSource) Moniker(_ context.Context, _ string, pos lsp.Position) ([]lsp.Moniker, error) {
	key := posKey(pos)
	id, ok := f.monikers[key]
	if !ok {
		return nil, nil
	}
	return []lsp.Moniker{{Scheme: "rust", Identifier: id, Unique: "workspace"}}, nil
}

func posKey(pos lsp.Position) string {
	return string(rune('0'+pos.Line)) + ":" + string(rune('0'+pos.Character))
}

func TestPopulateSymbolsNestsItems(t *testing.T) {
	s := graph.NewStore()
	root := s.AddNode(graph.Folder{Name: "proj", Path: "/proj"})
	file := s.AddNode(graph.File{Name: "lib.rs", Path: "/proj/lib.rs"})
	other := s.AddNode(graph.File{Name: "notes.md", Path: "/proj/notes.md"})
	for _, to := range []graph.NodeID{file, other} {
		if _, err := s.AddEdge(graph.EdgeData{From: root, To: to, Relation: graph.RelationIsParentOf}); err != nil {
			t.Fatal(err)
		}
	}

	src := &fakeSymbolSource{
		symbols: map[string][]lsp.DocumentSymbol{
			"/proj/lib.rs": {
				{
					Name:           "Server",
					Kind:           5,
					SelectionRange: lsp.Range{Start: lsp.Position{Line: 1, Character: 7}},
					Children: []lsp.DocumentSymbol{
						{Name: "run", Kind: 6, SelectionRange: lsp.Range{Start: lsp.Position{Line: 2, Character: 8}}},
					},
				},
				{Name: "main", Kind: 12, SelectionRange: lsp.Range{Start: lsp.Position{Line: 9, Character: 3}}},
			},
		},
		monikers: map[string]string{
			"1:7": "proj::Server",
		},
	}

	if err := populateSymbols(context.Background(), s, src, true, []string{"rs"}, discard()); err != nil {
		t.Fatalf("populateSymbols() error = %v", err)
	}

	if len(src.calls) != 1 || src.calls[0] != "/proj/lib.rs" {
		t.Errorf("documentSymbol calls = %v, want only lib.rs", src.calls)
	}

	// 3 original nodes + Server + run + main.
	if s.NodeCount() != 6 {
		t.Fatalf("NodeCount() = %d, want 6", s.NodeCount())
	}

	children := s.Children(file)
	if len(children) != 2 {
		t.Fatalf("file children = %v, want 2 top-level symbols", children)
	}
	serverData, _ := s.Node(children[0])
	server, ok := serverData.(graph.Item)
	if !ok || server.Name != "Server" {
		t.Fatalf("first child = %#v, want Item Server", serverData)
	}
	if server.Moniker != "proj::Server" {
		t.Errorf("Server moniker = %q, want %q", server.Moniker, "proj::Server")
	}

	nested := s.Children(children[0])
	if len(nested) != 1 {
		t.Fatalf("Server children = %v, want 1", nested)
	}
	runData, _ := s.Node(nested[0])
	if run, ok := runData.(graph.Item); !ok || run.Name != "run" || run.Moniker != "" {
		t.Errorf("nested child = %#v, want Item run without moniker", runData)
	}
}

func TestPopulateSymbolsSkipsWithoutMonikers(t *testing.T) {
	s := graph.NewStore()
	file := s.AddNode(graph.File{Name: "lib.rs", Path: "/proj/lib.rs"})

	src := &fakeSymbolSource{
		symbols: map[string][]lsp.DocumentSymbol{
			"/proj/lib.rs": {{Name: "main", Kind: 12, SelectionRange: lsp.Range{Start: lsp.Position{Line: 1, Character: 1}}}},
		},
		monikers: map[string]string{"1:1": "proj::main"},
	}

	if err := populateSymbols(context.Background(), s, src, false, []string{"rs"}, discard()); err != nil {
		t.Fatalf("populateSymbols() error = %v", err)
	}

	itemData, _ := s.Node(s.Children(file)[0])
	if item := itemData.(graph.Item); item.Moniker != "" {
		t.Errorf("moniker = %q with lookups disabled, want empty", item.Moniker)
	}
}

func TestMatchesExtension(t *testing.T) {
	tests := []struct {
		path string
		exts []string
		want bool
	}{
		{"/p/lib.rs", []string{"rs"}, true},
		{"/p/lib.rs", []string{".rs"}, true},
		{"/p/lib.RS", []string{"rs"}, true},
		{"/p/notes.md", []string{"rs"}, false},
		{"/p/Makefile", []string{"rs"}, false},
		{"/p/lib.rs", nil, false},
	}

	for _, tt := range tests {
		if got := matchesExtension(tt.path, tt.exts); got != tt.want {
			t.Errorf("matchesExtension(%q, %v) = %v, want %v", tt.path, tt.exts, got, tt.want)
		}
	}
}
