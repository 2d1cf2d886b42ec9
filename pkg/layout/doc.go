// Package layout positions graph nodes with a force-directed model.
//
// # Architecture
//
// [Compute] is a pure function from a frozen [graph.Store] to a
// [Layout]: one rect per node, one line per edge. It runs three phases:
// deterministic initial placement, iterative force refinement with a
// cooling schedule, and a final edge-line projection from rect centers.
//
// The force model ([Repulsive], [Attractive]) is the single place where
// degenerate geometry is handled. Coincident nodes, zero distances and
// non-finite intermediates are neutralized there; no caller re-checks.
//
// # Determinism
//
// There is no randomness anywhere. The same store and options always
// produce the same layout, which keeps outputs cacheable and tests
// reproducible.
//
// # Failure Modes
//
// There are none. Compute always terminates, either by convergence or
// by exhausting the iteration budget, and a non-converged layout is a
// usable result rather than an error.
package layout
