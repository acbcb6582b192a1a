// Package common contains small value types shared across the engine. They are plain structs,
// not interface-wrapped, and express commonly used data.
package common

import (
	"math"
)

// Color is a linear RGBA color.
type Color [4]float32

// Quad is a screen-space rectangle in pixels. X, Y is the top-left corner.
type Quad struct {
	X, Y float32
	W, H float32
}

// DefaultScissor covers the whole representable screen.
var DefaultScissor = Quad{X: 0, Y: 0, W: math.MaxFloat32, H: math.MaxFloat32}

// Right returns the x coordinate of the right edge.
func (q Quad) Right() float32 { return q.X + q.W }

// Bottom returns the y coordinate of the bottom edge.
func (q Quad) Bottom() float32 { return q.Y + q.H }

// Contains reports whether (x, y) lies within the quad, edges inclusive.
//
// Parameters:
//   - x, y: the point to test
//
// Returns:
//   - bool: true if the point is inside
func (q Quad) Contains(x, y float32) bool {
	return x >= q.X && x <= q.Right() && y >= q.Y && y <= q.Bottom()
}

// QuadOverlap returns the intersection of two quads. Disjoint quads produce a zero-sized quad.
//
// Parameters:
//   - a, b: the quads to intersect
//
// Returns:
//   - Quad: the overlapping region
func QuadOverlap(a, b Quad) Quad {
	x0 := max(a.X, b.X)
	y0 := max(a.Y, b.Y)
	x1 := min(a.Right(), b.Right())
	y1 := min(a.Bottom(), b.Bottom())
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Quad{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}
