package analyze

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/timsueberkrueb/lsp-graph-poc/pkg/errors"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/graph"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(root, path)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// names collects the display names reachable in the store.
func names(s *graph.Store) map[string]bool {
	out := make(map[string]bool)
	for _, id := range s.NodeIDs() {
		data, _ := s.Node(id)
		out[data.DisplayName()] = true
	}
	return out
}

func discard() *log.Logger {
	return log.New(io.Discard)
}

func TestWalkBuildsContainmentForest(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/main.rs":  "fn main() {}",
		"src/lib.rs":   "",
		"Cargo.toml":   "",
		"docs/read.md": "",
	})

	s := graph.NewStore()
	rootID, err := populateFileStructure(s, root, discard())
	if err != nil {
		t.Fatalf("populateFileStructure() error = %v", err)
	}

	rootData, _ := s.Node(rootID)
	if _, ok := rootData.(graph.Folder); !ok {
		t.Fatalf("root node = %T, want Folder", rootData)
	}

	got := names(s)
	for _, want := range []string{"src", "main.rs", "lib.rs", "Cargo.toml", "docs", "read.md"} {
		if !got[want] {
			t.Errorf("node %q missing from walk result", want)
		}
	}

	// Root (1) + docs + read.md + src + 2 files + Cargo.toml = 7 nodes,
	// every non-root node has exactly one parent edge.
	if s.NodeCount() != 7 {
		t.Errorf("NodeCount() = %d, want 7", s.NodeCount())
	}
	if s.EdgeCount() != s.NodeCount()-1 {
		t.Errorf("EdgeCount() = %d, want %d", s.EdgeCount(), s.NodeCount()-1)
	}
	for _, id := range s.NodeIDs() {
		in := len(s.IncomingEdges(id))
		if id == rootID && in != 0 {
			t.Errorf("root has %d incoming edges, want 0", in)
		}
		if id != rootID && in != 1 {
			t.Errorf("node %d has %d incoming edges, want 1", id, in)
		}
	}
}

func TestWalkSkipsHiddenAndIgnored(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":         "target/\n*.log\n",
		".git/config":        "",
		"src/.hidden.rs":     "",
		"src/main.rs":        "",
		"src/.gitignore":     "generated.rs\n",
		"src/generated.rs":   "",
		"target/debug/a.out": "",
		"build.log":          "",
	})

	s := graph.NewStore()
	if _, err := populateFileStructure(s, root, discard()); err != nil {
		t.Fatalf("populateFileStructure() error = %v", err)
	}

	got := names(s)
	for _, banned := range []string{".git", ".hidden.rs", ".gitignore", "target", "debug", "a.out", "build.log", "generated.rs"} {
		if got[banned] {
			t.Errorf("node %q present, want skipped", banned)
		}
	}
	if !got["main.rs"] || !got["src"] {
		t.Errorf("expected nodes missing: %v", got)
	}
}

func TestWalkIsDeterministic(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"b.rs":     "",
		"a.rs":     "",
		"sub/c.rs": "",
	})

	build := func() graph.Graph {
		s := graph.NewStore()
		if _, err := populateFileStructure(s, root, discard()); err != nil {
			t.Fatalf("populateFileStructure() error = %v", err)
		}
		return graph.FromStore(s)
	}

	first := build()
	second := build()
	if len(first.Nodes) != len(second.Nodes) {
		t.Fatalf("node counts differ: %d vs %d", len(first.Nodes), len(second.Nodes))
	}
	for i := range first.Nodes {
		if first.Nodes[i] != second.Nodes[i] {
			t.Errorf("node %d differs across runs: %+v vs %+v", i, first.Nodes[i], second.Nodes[i])
		}
	}
}

func TestWalkRejectsBadRoot(t *testing.T) {
	s := graph.NewStore()
	_, err := populateFileStructure(s, filepath.Join(t.TempDir(), "missing"), discard())
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestAnalyzeWithoutServer(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"main.rs": ""})

	s, err := Analyze(context.Background(), Options{RootPath: root})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if s.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", s.NodeCount())
	}
}
