package render

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"slices"

	"github.com/timsueberkrueb/lsp-graph-poc/pkg/graph"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/layout"
)

// svgMargin pads the viewBox around the outermost geometry.
const svgMargin = 20.0

// Kind fill colors for the layout renderer, matching the DOT styling.
const (
	folderFill = "#add8e6"
	fileFill   = "#ffffff"
	itemFill   = "#d3d3d3"
)

// LayoutSVG renders a computed force layout to SVG. Unlike [RenderSVG]
// this draws the positions the layout engine produced: every rect
// becomes a labelled rectangle, every line a straight edge between
// rect centers. Edges are drawn first so rectangles sit on top.
func LayoutSVG(s *graph.Store, l layout.Layout) []byte {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, r := range l.Rects {
		minX = math.Min(minX, r.Origin.X)
		minY = math.Min(minY, r.Origin.Y)
		maxX = math.Max(maxX, r.Origin.X+r.Size.Width)
		maxY = math.Max(maxY, r.Origin.Y+r.Size.Height)
	}
	if len(l.Rects) == 0 {
		minX, minY, maxX, maxY = 0, 0, 0, 0
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.2f %.2f %.2f %.2f">`+"\n",
		minX-svgMargin, minY-svgMargin,
		maxX-minX+2*svgMargin, maxY-minY+2*svgMargin)

	for _, eid := range sortedEdgeIDs(l) {
		ln := l.Lines[eid]
		fmt.Fprintf(&buf,
			`  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#888888" stroke-width="1"/>`+"\n",
			ln.From.X, ln.From.Y, ln.To.X, ln.To.Y)
	}

	for _, nid := range sortedNodeIDs(l) {
		r := l.Rects[nid]
		label, fill := "", itemFill
		if data, ok := s.Node(nid); ok {
			label = data.DisplayName()
			fill = nodeFill(data)
		}
		fmt.Fprintf(&buf,
			`  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="#333333" rx="4"/>`+"\n",
			r.Origin.X, r.Origin.Y, r.Size.Width, r.Size.Height, fill)
		center := r.Center()
		fmt.Fprintf(&buf,
			`  <text x="%.2f" y="%.2f" font-size="11" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
			center.X, center.Y, html.EscapeString(label))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func nodeFill(data graph.NodeData) string {
	switch data.(type) {
	case graph.Folder:
		return folderFill
	case graph.File:
		return fileFill
	default:
		return itemFill
	}
}

func sortedNodeIDs(l layout.Layout) []graph.NodeID {
	ids := make([]graph.NodeID, 0, len(l.Rects))
	for id := range l.Rects {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func sortedEdgeIDs(l layout.Layout) []graph.EdgeID {
	ids := make([]graph.EdgeID, 0, len(l.Lines))
	for id := range l.Lines {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
