package layout

import "math"

// =============================================================================
// Force Model
// =============================================================================

// DefaultSpringLength is the target inter-node distance the force model
// biases toward.
const DefaultSpringLength = 50.0

// minDistance floors the repulsive divisor so coincident points do not
// hit a singularity.
const minDistance = 1e-6

// maxAttractiveForce caps each axis of an attractive force.
const maxAttractiveForce = 1000.0

// Repulsive returns the force pushing u away from v. The magnitude is
// springLength²/distance, so close nodes repel hard and the effect
// falls off with separation. The distance is floored at minDistance
// before division; any non-finite result becomes the zero vector.
//
// Repulsive and [Attractive] are the only places where degenerate
// geometry is guarded. Callers never duplicate these checks.
func Repulsive(u, v Point, springLength float64) Point {
	dir := u.Sub(v)
	dist := dir.Length()
	if dist < minDistance {
		dist = minDistance
	}
	return sanitize(dir.Scale(springLength * springLength / (dist * dist)))
}

// Attractive returns the force pulling u toward v along a shared edge.
// The magnitude is distance²/springLength, so far-apart connected nodes
// are pulled hard. A non-finite result becomes the zero vector, then
// each axis is independently clamped to ±maxAttractiveForce.
func Attractive(u, v Point, springLength float64) Point {
	dir := v.Sub(u)
	dist := dir.Length()
	f := sanitize(dir.Scale(dist / springLength))
	f.X = clamp(f.X, -maxAttractiveForce, maxAttractiveForce)
	f.Y = clamp(f.Y, -maxAttractiveForce, maxAttractiveForce)
	return f
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// sanitize substitutes the zero vector for non-finite forces so no NaN
// or Inf ever escapes the force model.
func sanitize(p Point) Point {
	if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
		return Point{}
	}
	return p
}
