// Package core provides fundamental types and utilities for the engine.
// It contains no external dependencies to keep the simulation pure and testable.
package core

import "math"

// Logical coordinate space every game is authored in.
const (
	ProjectionWidth  = 1600.0
	ProjectionHeight = 900.0
)

// Vec2 is a 2D point or displacement in logical coordinates.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// V is shorthand for constructing a Vec2.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale multiplies both components by f.
func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{v.X * f, v.Y * f}
}

// Neg returns -v.
func (v Vec2) Neg() Vec2 {
	return Vec2{-v.X, -v.Y}
}

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the z component of the 3D cross product of v and o.
func (v Vec2) Cross(o Vec2) float64 {
	return v.X*o.Y - v.Y*o.X
}

// Len returns the magnitude of v.
func (v Vec2) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Unit returns v scaled to length 1. The zero vector stays zero.
func (v Vec2) Unit() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Perp returns v rotated 90 degrees counter-clockwise.
func (v Vec2) Perp() Vec2 {
	return Vec2{-v.Y, v.X}
}

// Rotate rotates v around the origin by angle radians.
func (v Vec2) Rotate(radians float64) Vec2 {
	c, s := math.Cos(radians), math.Sin(radians)
	return Vec2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// AABB is an axis-aligned box given by its min and max corners.
type AABB struct {
	Min Vec2 `json:"min" yaml:"min"`
	Max Vec2 `json:"max" yaml:"max"`
}

// Box constructs an AABB from its corner coordinates.
func Box(minX, minY, maxX, maxY float64) AABB {
	return AABB{Min: V(minX, minY), Max: V(maxX, maxY)}
}

// Width returns Max.X - Min.X.
func (a AABB) Width() float64 {
	return a.Max.X - a.Min.X
}

// Height returns Max.Y - Min.Y.
func (a AABB) Height() float64 {
	return a.Max.Y - a.Min.Y
}

// Translate moves both corners by d.
func (a AABB) Translate(d Vec2) AABB {
	return AABB{Min: a.Min.Add(d), Max: a.Max.Add(d)}
}

// ContainsPoint reports whether p lies inside the box.
// Min edges are inclusive, max edges exclusive.
func (a AABB) ContainsPoint(p Vec2) bool {
	return p.X >= a.Min.X && p.Y >= a.Min.Y && p.X < a.Max.X && p.Y < a.Max.Y
}

// ClampPoint restricts p to lie within the box, edges included.
func (a AABB) ClampPoint(p Vec2) Vec2 {
	return Vec2{
		X: math.Max(math.Min(p.X, a.Max.X), a.Min.X),
		Y: math.Max(math.Min(p.Y, a.Max.Y), a.Min.Y),
	}
}

// Poly returns the box as a clockwise (in screen space) four point polygon.
func (a AABB) Poly() Poly {
	return Poly{
		V(a.Min.X, a.Min.Y),
		V(a.Max.X, a.Min.Y),
		V(a.Max.X, a.Max.Y),
		V(a.Min.X, a.Max.Y),
	}
}

// Rect is an integer cell rectangle used by the character screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
