package layout

import (
	"math"
	"testing"

	"github.com/timsueberkrueb/lsp-graph-poc/pkg/graph"
)

func TestComputeEmptyGraph(t *testing.T) {
	l := Compute(graph.NewStore(), Options{})
	if len(l.Rects) != 0 {
		t.Errorf("Rects = %v, want empty", l.Rects)
	}
	if len(l.Lines) != 0 {
		t.Errorf("Lines = %v, want empty", l.Lines)
	}
}

func TestComputeSingleNodeUnchanged(t *testing.T) {
	s := graph.NewStore()
	id := s.AddNode(graph.File{Name: "main.go", Path: "/main.go"})

	l := Compute(s, Options{})

	if len(l.Rects) != 1 {
		t.Fatalf("Rects len = %d, want 1", len(l.Rects))
	}
	got := l.Rects[id]
	want := Rect{Origin: Point{0, 0}, Size: Size{Width: NodeWidth, Height: NodeHeight}}
	if got != want {
		t.Errorf("rect = %+v, want initial placement %+v", got, want)
	}
}

func TestComputeInitialPlacementIsDeterministic(t *testing.T) {
	s := graph.NewStore()
	for i := 0; i < 4; i++ {
		s.AddNode(graph.Item{Name: "item"})
	}

	a := Compute(s, Options{MaxIterations: 10})
	b := Compute(s, Options{MaxIterations: 10})

	for _, id := range s.NodeIDs() {
		if a.Rects[id] != b.Rects[id] {
			t.Errorf("node %d: run A %+v, run B %+v", id, a.Rects[id], b.Rects[id])
		}
	}
}

func TestComputeCoversEveryNodeAndEdge(t *testing.T) {
	s := graph.NewStore()
	root := s.AddNode(graph.Folder{Name: "root", Path: "/root"})
	file := s.AddNode(graph.File{Name: "x", Path: "/root/x"})
	item := s.AddNode(graph.Item{Name: "foo"})
	ab, _ := s.AddEdge(graph.EdgeData{From: root, To: file, Relation: graph.RelationIsParentOf})
	bc, _ := s.AddEdge(graph.EdgeData{From: file, To: item, Relation: graph.RelationIsParentOf})

	l := Compute(s, Options{MaxIterations: 100})

	if len(l.Rects) != 3 {
		t.Fatalf("Rects len = %d, want 3", len(l.Rects))
	}
	if len(l.Lines) != 2 {
		t.Fatalf("Lines len = %d, want 2", len(l.Lines))
	}
	if got, want := l.Lines[ab].From, l.Rects[root].Center(); got != want {
		t.Errorf("line %d From = %+v, want center of root %+v", ab, got, want)
	}
	if got, want := l.Lines[ab].To, l.Rects[file].Center(); got != want {
		t.Errorf("line %d To = %+v, want center of file %+v", ab, got, want)
	}
	if got, want := l.Lines[bc].From, l.Rects[file].Center(); got != want {
		t.Errorf("line %d From = %+v, want center of file %+v", bc, got, want)
	}
	if got, want := l.Lines[bc].To, l.Rects[item].Center(); got != want {
		t.Errorf("line %d To = %+v, want center of item %+v", bc, got, want)
	}
}

func TestComputeRepulsionSpreadsUnconnectedNodes(t *testing.T) {
	s := graph.NewStore()
	for i := 0; i < 3; i++ {
		s.AddNode(graph.Item{Name: "item"})
	}
	ids := s.NodeIDs()

	initialMin := initialSpacing * math.Sqrt2
	l := Compute(s, Options{MaxIterations: 200})

	min := math.Inf(1)
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			d := l.Rects[ids[i]].Origin.Sub(l.Rects[ids[j]].Origin).Length()
			if d < min {
				min = d
			}
		}
	}
	if min <= initialMin {
		t.Errorf("min pairwise distance = %g, want greater than initial %g", min, initialMin)
	}
}

func TestComputeEdgePullsNodesCloser(t *testing.T) {
	s := graph.NewStore()
	a := s.AddNode(graph.Folder{Name: "a", Path: "/a"})
	b := s.AddNode(graph.File{Name: "b", Path: "/a/b"})
	eid, _ := s.AddEdge(graph.EdgeData{From: a, To: b, Relation: graph.RelationIsParentOf})

	initial := initialSpacing * math.Sqrt2
	l := Compute(s, Options{})

	final := l.Rects[a].Origin.Sub(l.Rects[b].Origin).Length()
	if final >= initial {
		t.Errorf("final distance = %g, want less than initial %g", final, initial)
	}

	line := l.Lines[eid]
	if line.From != l.Rects[a].Center() || line.To != l.Rects[b].Center() {
		t.Errorf("line = %+v, want centers %+v -> %+v", line, l.Rects[a].Center(), l.Rects[b].Center())
	}
}

func TestComputeStaysFinite(t *testing.T) {
	s := graph.NewStore()
	var ids []graph.NodeID
	for i := 0; i < 6; i++ {
		ids = append(ids, s.AddNode(graph.Item{Name: "item"}))
	}
	// Dense edges so attraction collapses nodes onto each other before
	// repulsion separates them again.
	for i := range ids {
		for j := range ids {
			if i != j {
				if _, err := s.AddEdge(graph.EdgeData{From: ids[i], To: ids[j], Relation: graph.RelationIsParentOf}); err != nil {
					t.Fatalf("AddEdge() error = %v", err)
				}
			}
		}
	}

	l := Compute(s, Options{MaxIterations: 500})

	for id, r := range l.Rects {
		if !finite(r.Origin) {
			t.Errorf("node %d origin = %+v, want finite", id, r.Origin)
		}
	}
	for id, ln := range l.Lines {
		if !finite(ln.From) || !finite(ln.To) {
			t.Errorf("line %d = %+v, want finite", id, ln)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	o.setDefaults()

	if o.SpringLength != DefaultSpringLength {
		t.Errorf("SpringLength = %g, want %g", o.SpringLength, DefaultSpringLength)
	}
	if o.Threshold != DefaultThreshold {
		t.Errorf("Threshold = %g, want %g", o.Threshold, DefaultThreshold)
	}
	if o.MaxIterations != DefaultMaxIterations {
		t.Errorf("MaxIterations = %d, want %d", o.MaxIterations, DefaultMaxIterations)
	}

	set := Options{SpringLength: 80, Threshold: 1, MaxIterations: 10}
	set.setDefaults()
	if set.SpringLength != 80 || set.Threshold != 1 || set.MaxIterations != 10 {
		t.Errorf("explicit options overwritten: %+v", set)
	}
}

func TestLayoutExportParseRoundTrip(t *testing.T) {
	s := graph.NewStore()
	a := s.AddNode(graph.Folder{Name: "a", Path: "/a"})
	b := s.AddNode(graph.File{Name: "b", Path: "/a/b"})
	if _, err := s.AddEdge(graph.EdgeData{From: a, To: b, Relation: graph.RelationIsParentOf}); err != nil {
		t.Fatalf("AddEdge() error = %v", err)
	}

	l := Compute(s, Options{MaxIterations: 50})
	wire := l.Export()

	if len(wire.Rects) != 2 || len(wire.Lines) != 1 {
		t.Fatalf("Export() = %d rects, %d lines, want 2 and 1", len(wire.Rects), len(wire.Lines))
	}
	if wire.Rects[0].ID > wire.Rects[1].ID {
		t.Errorf("exported rects not sorted by ID: %d, %d", wire.Rects[0].ID, wire.Rects[1].ID)
	}

	back := Parse(wire)
	for id, r := range l.Rects {
		if back.Rects[id] != r {
			t.Errorf("rect %d = %+v after round trip, want %+v", id, back.Rects[id], r)
		}
	}
	for id, ln := range l.Lines {
		if back.Lines[id] != ln {
			t.Errorf("line %d = %+v after round trip, want %+v", id, back.Lines[id], ln)
		}
	}
}
