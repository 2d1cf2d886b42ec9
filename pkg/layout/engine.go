package layout

import (
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/graph"
)

// =============================================================================
// Layout Engine
// =============================================================================

// Default refinement parameters.
const (
	DefaultThreshold     = 0.1
	DefaultMaxIterations = 50000
)

// Fixed node display dimensions.
const (
	NodeWidth  = 64.0
	NodeHeight = 100.0
)

// initialSpacing is the per-node diagonal offset of the deterministic
// starting placement.
const initialSpacing = 150.0

// Options configure a layout computation. The zero value selects all
// defaults.
type Options struct {
	// SpringLength is the target inter-node distance.
	// Defaults to DefaultSpringLength.
	SpringLength float64

	// Threshold is the convergence bound: the loop stops early once the
	// largest per-node force magnitude of a step falls below it.
	// Defaults to DefaultThreshold.
	Threshold float64

	// MaxIterations bounds the refinement loop. Exhausting the budget
	// is not an error; the best-effort positions are returned.
	// Defaults to DefaultMaxIterations.
	MaxIterations int
}

func (o *Options) setDefaults() {
	if o.SpringLength <= 0 {
		o.SpringLength = DefaultSpringLength
	}
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
}

// Layout is the computed geometry for one graph: exactly one rect per
// node ID and one line per edge ID. Lines are always derived from the
// rects they connect, never maintained independently.
type Layout struct {
	Rects map[graph.NodeID]Rect
	Lines map[graph.EdgeID]Line
}

// Compute lays out a graph with force-directed refinement. It is total:
// it always terminates and always returns a layout covering every node
// and edge, even when the loop exhausts its budget without converging.
//
// The computation has three phases:
//
//  1. Deterministic initial placement: the k-th node in ID order is
//     placed at (initialSpacing·k, initialSpacing·k).
//  2. Iterative refinement: each step computes every node's net force
//     from one consistent position snapshot (all-pairs repulsion plus
//     attraction along the node's own outgoing edges), scales it by a
//     cooling factor and applies it. The loop stops once the largest
//     single force magnitude falls below the threshold.
//  3. Edge-line projection: every line is recomputed from the final
//     rect centers.
//
// Attraction is deliberately one-sided: a node is pulled toward the
// targets of its outgoing edges but never toward its sources, so a pure
// sink drifts apart under repulsion alone.
//
// The store must not be mutated concurrently with an in-flight Compute.
func Compute(s *graph.Store, opts Options) Layout {
	opts.setDefaults()

	nodes := s.NodeIDs()
	l := Layout{
		Rects: make(map[graph.NodeID]Rect, len(nodes)),
		Lines: make(map[graph.EdgeID]Line, s.EdgeCount()),
	}
	for k, id := range nodes {
		l.Rects[id] = Rect{
			Origin: Point{X: initialSpacing * float64(k), Y: initialSpacing * float64(k)},
			Size:   Size{Width: NodeWidth, Height: NodeHeight},
		}
	}

	if len(nodes) > 0 {
		refine(s, nodes, l.Rects, opts)
	}

	// Projection runs exactly once, after the loop, so returned lines
	// always match the final rects.
	for _, eid := range s.EdgeIDs() {
		e, _ := s.Edge(eid)
		l.Lines[eid] = Line{
			From: l.Rects[e.From].Center(),
			To:   l.Rects[e.To].Center(),
		}
	}
	return l
}

// refine runs the force-directed loop over rects in place.
func refine(s *graph.Store, nodes []graph.NodeID, rects map[graph.NodeID]Rect, opts Options) {
	deltas := make(map[graph.NodeID]Point, len(nodes))

	for step := 1; step <= opts.MaxIterations; step++ {
		// Compute all forces against one snapshot before moving
		// anything, so no node sees a half-updated neighborhood.
		maxForce := 0.0
		for _, id := range nodes {
			pos := rects[id].Origin
			var net Point
			for _, other := range nodes {
				if other == id {
					continue
				}
				net = net.Add(Repulsive(pos, rects[other].Origin, opts.SpringLength))
			}
			for _, eid := range s.OutgoingEdges(id) {
				e, _ := s.Edge(eid)
				net = net.Add(Attractive(pos, rects[e.To].Origin, opts.SpringLength))
			}
			if m := net.Length(); m > maxForce {
				maxForce = m
			}
			deltas[id] = net
		}

		cooling := 1.0 / (1.0 + float64(step)/float64(opts.MaxIterations))
		for _, id := range nodes {
			r := rects[id]
			r.Origin = r.Origin.Add(deltas[id].Scale(cooling))
			rects[id] = r
		}

		// Convergence tracks the single largest force of the step, not
		// an aggregate, so one unsettled node keeps the loop running.
		if maxForce < opts.Threshold {
			return
		}
	}
}
