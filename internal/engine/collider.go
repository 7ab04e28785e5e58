package engine

import "github.com/vovakirdan/wee/internal/core"

// Collider is the polygon collision capability the engine relies on.
// Any convex-polygon library offering these three queries can back it.
type Collider interface {
	Overlaps(a, b core.Poly) bool
	Manifold(a, b core.Poly) core.Manifold
	CircleDistance(p core.Poly, c core.Circle, useRadius bool) float64
}

// SAT is the default Collider built on the separating axis theorem.
type SAT struct{}

// Overlaps reports whether a and b intersect.
func (SAT) Overlaps(a, b core.Poly) bool { return core.Overlaps(a, b) }

// Manifold returns the contact of a against b.
func (SAT) Manifold(a, b core.Poly) core.Manifold { return core.PolyManifold(a, b) }

// CircleDistance returns the gap between p and c.
func (SAT) CircleDistance(p core.Poly, c core.Circle, useRadius bool) float64 {
	return core.CircleDistance(p, c, useRadius)
}
