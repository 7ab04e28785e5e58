package core

import "math"

// Poly is a convex polygon given by its vertices in order.
// Object polygons always have four vertices.
type Poly []Vec2

// Translate returns a copy of p moved by d.
func (p Poly) Translate(d Vec2) Poly {
	out := make(Poly, len(p))
	for i, v := range p {
		out[i] = v.Add(d)
	}
	return out
}

// Centroid returns the average of the vertices.
func (p Poly) Centroid() Vec2 {
	if len(p) == 0 {
		return Vec2{}
	}
	var sum Vec2
	for _, v := range p {
		sum = sum.Add(v)
	}
	return sum.Scale(1 / float64(len(p)))
}

// axes returns the unit edge normals of p, skipping degenerate edges.
// A polygon collapsed to a segment or a point has fewer than two
// independent normals, so its edge directions and the world axes are
// added to keep the separating axis test exact.
func (p Poly) axes() []Vec2 {
	axes := make([]Vec2, 0, len(p)+2)
	for i := range p {
		edge := p[(i+1)%len(p)].Sub(p[i])
		n := edge.Perp().Unit()
		if n == (Vec2{}) {
			continue
		}
		axes = append(axes, n)
	}
	if spans(axes) {
		return axes
	}
	for i := range p {
		if d := p[(i+1)%len(p)].Sub(p[i]).Unit(); d != (Vec2{}) {
			axes = append(axes, d)
		}
	}
	return append(axes, V(1, 0), V(0, 1))
}

// spans reports whether axes holds two non-parallel directions.
func spans(axes []Vec2) bool {
	for i := 1; i < len(axes); i++ {
		if math.Abs(axes[0].Cross(axes[i])) > 1e-9 {
			return true
		}
	}
	return false
}

// project returns the interval covered by p on axis.
func (p Poly) project(axis Vec2) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range p {
		d := v.Dot(axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

// Overlaps reports whether two convex polygons intersect.
// Touching edges count as overlapping.
func Overlaps(a, b Poly) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	for _, axis := range append(a.axes(), b.axes()...) {
		aLo, aHi := a.project(axis)
		bLo, bHi := b.project(axis)
		if aHi < bLo || bHi < aLo {
			return false
		}
	}
	return true
}

// Manifold describes how deeply polygon A penetrates polygon B.
// Normal is a unit vector pointing from A towards B; moving A by
// -Normal*Depth separates the two shapes.
type Manifold struct {
	Count  int
	Depth  float64
	Normal Vec2
}

// Collided reports whether the manifold holds a contact.
func (m Manifold) Collided() bool {
	return m.Count > 0
}

// PolyManifold computes the minimum translation manifold between a and b
// using the separating axis theorem. Shapes that only touch produce no contact.
func PolyManifold(a, b Poly) Manifold {
	if len(a) == 0 || len(b) == 0 {
		return Manifold{}
	}
	best := Manifold{Depth: math.Inf(1)}
	for _, axis := range append(a.axes(), b.axes()...) {
		aLo, aHi := a.project(axis)
		bLo, bHi := b.project(axis)
		forward := aHi - bLo
		backward := bHi - aLo
		if forward <= 0 || backward <= 0 {
			return Manifold{}
		}
		depth, normal := forward, axis
		if backward < forward {
			depth, normal = backward, axis.Neg()
		}
		if depth < best.Depth {
			best.Depth = depth
			best.Normal = normal
		}
	}
	if math.IsInf(best.Depth, 1) {
		return Manifold{}
	}
	best.Count = 1
	return best
}

// Circle is a disc used for pointer queries.
type Circle struct {
	Center Vec2
	Radius float64
}

// ClosestPoint returns the point of p nearest to q and the distance to it.
// A point inside the polygon is its own closest point at distance 0.
func (p Poly) ClosestPoint(q Vec2) (Vec2, float64) {
	if len(p) == 0 {
		return q, math.Inf(1)
	}
	if p.contains(q) {
		return q, 0
	}
	best, bestDist := p[0], math.Inf(1)
	for i := range p {
		c := closestOnSegment(p[i], p[(i+1)%len(p)], q)
		if d := c.Sub(q).Len(); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist
}

// CircleDistance returns the gap between p and c. With useRadius false the
// circle is treated as its center point, so a point inside p yields 0.
func CircleDistance(p Poly, c Circle, useRadius bool) float64 {
	_, d := p.ClosestPoint(c.Center)
	if useRadius {
		return math.Max(0, d-c.Radius)
	}
	return d
}

// contains reports whether q lies inside or on the boundary of convex p.
func (p Poly) contains(q Vec2) bool {
	var sign float64
	for i := range p {
		edge := p[(i+1)%len(p)].Sub(p[i])
		c := edge.Cross(q.Sub(p[i]))
		if c == 0 {
			continue
		}
		if sign == 0 {
			sign = c
			continue
		}
		if (c > 0) != (sign > 0) {
			return false
		}
	}
	if sign == 0 {
		// Degenerate polygon: only exact vertex hits count.
		for _, v := range p {
			if v == q {
				return true
			}
		}
		return false
	}
	return true
}

func closestOnSegment(a, b, q Vec2) Vec2 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return a
	}
	t := ClampF(q.Sub(a).Dot(ab)/l2, 0, 1)
	return a.Add(ab.Scale(t))
}
