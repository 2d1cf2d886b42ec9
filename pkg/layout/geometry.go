package layout

import "math"

// =============================================================================
// Geometry Primitives
// =============================================================================

// Point is a position in the layout plane. It doubles as a 2D vector
// for force arithmetic.
type Point struct {
	X float64
	Y float64
}

// Add returns p + q componentwise.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q componentwise.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by f.
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }

// Length returns the euclidean norm of p taken as a vector.
func (p Point) Length() float64 { return math.Hypot(p.X, p.Y) }

// Size is a rectangle's display dimensions.
type Size struct {
	Width  float64
	Height float64
}

// Rect is a node's axis-aligned layout box. All rects share the same
// fixed size; the refinement loop moves only origins.
type Rect struct {
	Origin Point
	Size   Size
}

// Center returns the midpoint of the rect.
func (r Rect) Center() Point {
	return Point{
		X: r.Origin.X + r.Size.Width/2,
		Y: r.Origin.Y + r.Size.Height/2,
	}
}

// Line is a straight segment between the centers of an edge's two
// endpoint rects.
type Line struct {
	From Point
	To   Point
}
