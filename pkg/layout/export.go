package layout

import (
	"slices"

	"github.com/timsueberkrueb/lsp-graph-poc/pkg/graph"
)

// Export converts the layout to its serialization format. Rects and
// lines are emitted in ascending ID order for deterministic output.
func (l Layout) Export() graph.Layout {
	out := graph.Layout{
		Rects: make([]graph.Rect, 0, len(l.Rects)),
		Lines: make([]graph.Line, 0, len(l.Lines)),
	}

	nodeIDs := make([]graph.NodeID, 0, len(l.Rects))
	for id := range l.Rects {
		nodeIDs = append(nodeIDs, id)
	}
	slices.Sort(nodeIDs)
	for _, id := range nodeIDs {
		r := l.Rects[id]
		out.Rects = append(out.Rects, graph.Rect{
			ID:     int(id),
			X:      r.Origin.X,
			Y:      r.Origin.Y,
			Width:  r.Size.Width,
			Height: r.Size.Height,
		})
	}

	edgeIDs := make([]graph.EdgeID, 0, len(l.Lines))
	for id := range l.Lines {
		edgeIDs = append(edgeIDs, id)
	}
	slices.Sort(edgeIDs)
	for _, id := range edgeIDs {
		ln := l.Lines[id]
		out.Lines = append(out.Lines, graph.Line{
			ID: int(id),
			X1: ln.From.X,
			Y1: ln.From.Y,
			X2: ln.To.X,
			Y2: ln.To.Y,
		})
	}
	return out
}

// Parse converts a serialized layout back to the computation format.
func Parse(wl graph.Layout) Layout {
	l := Layout{
		Rects: make(map[graph.NodeID]Rect, len(wl.Rects)),
		Lines: make(map[graph.EdgeID]Line, len(wl.Lines)),
	}
	for _, r := range wl.Rects {
		l.Rects[graph.NodeID(r.ID)] = Rect{
			Origin: Point{X: r.X, Y: r.Y},
			Size:   Size{Width: r.Width, Height: r.Height},
		}
	}
	for _, ln := range wl.Lines {
		l.Lines[graph.EdgeID(ln.ID)] = Line{
			From: Point{X: ln.X1, Y: ln.Y1},
			To:   Point{X: ln.X2, Y: ln.Y2},
		}
	}
	return l
}
