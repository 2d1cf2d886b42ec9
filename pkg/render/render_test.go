package render

import (
	"strings"
	"testing"

	"github.com/timsueberkrueb/lsp-graph-poc/pkg/graph"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/layout"
)

func buildTestStore(t *testing.T) *graph.Store {
	t.Helper()
	s := graph.NewStore()
	root := s.AddNode(graph.Folder{Name: "proj", Path: "/proj"})
	file := s.AddNode(graph.File{Name: "lib.rs", Path: "/proj/lib.rs"})
	item := s.AddNode(graph.Item{Name: "main"})
	if _, err := s.AddEdge(graph.EdgeData{From: root, To: file, Relation: graph.RelationIsParentOf}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddEdge(graph.EdgeData{From: file, To: item, Relation: graph.RelationIsParentOf}); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestToDOT(t *testing.T) {
	s := buildTestStore(t)
	dot := ToDOT(s)

	if !strings.HasPrefix(dot, "digraph codebase {") {
		t.Errorf("DOT output does not open a digraph: %q", dot[:40])
	}
	for _, want := range []string{
		`n0 [label="proj"`,
		`n1 [label="lib.rs"`,
		`n2 [label="main"`,
		"n0 -> n1;",
		"n1 -> n2;",
		"fillcolor=lightblue",
		"shape=ellipse",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
}

func TestLayoutSVG(t *testing.T) {
	s := buildTestStore(t)
	l := layout.Compute(s, layout.Options{MaxIterations: 10})

	svg := string(LayoutSVG(s, l))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Fatalf("not an svg document: %q", svg[:40])
	}
	if got := strings.Count(svg, "<rect "); got != 3 {
		t.Errorf("rect count = %d, want 3", got)
	}
	if got := strings.Count(svg, "<line "); got != 2 {
		t.Errorf("line count = %d, want 2", got)
	}
	for _, label := range []string{">proj<", ">lib.rs<", ">main<"} {
		if !strings.Contains(svg, label) {
			t.Errorf("svg missing label %s", label)
		}
	}
	// Edges before rects so nodes are drawn on top.
	if strings.Index(svg, "<line ") > strings.Index(svg, "<rect ") {
		t.Error("lines drawn after rects")
	}
}

func TestLayoutSVGEscapesLabels(t *testing.T) {
	s := graph.NewStore()
	s.AddNode(graph.Item{Name: "Vec<String>"})
	l := layout.Compute(s, layout.Options{MaxIterations: 1})

	svg := string(LayoutSVG(s, l))
	if strings.Contains(svg, ">Vec<String><") {
		t.Error("label not escaped")
	}
	if !strings.Contains(svg, "Vec&lt;String&gt;") {
		t.Errorf("escaped label missing:\n%s", svg)
	}
}

func TestLayoutSVGEmpty(t *testing.T) {
	s := graph.NewStore()
	svg := string(LayoutSVG(s, layout.Compute(s, layout.Options{})))
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "</svg>") {
		t.Errorf("empty layout did not produce a well-formed document:\n%s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?><svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg">content</svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if strings.Contains(out, "pt\"") {
		t.Errorf("point units survived normalization: %s", out)
	}

	plain := []byte("<svg>no viewbox</svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("svg without viewBox modified: %s", got)
	}
}
