package gui

import (
	"github.com/Carmen-Shannon/oxy-frontier/common"
	"github.com/Carmen-Shannon/oxy-frontier/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

type rectImpl struct {
	widgetBase

	quad    common.Quad
	color   common.Color
	scissor common.Quad

	alloc renderer.Allocation
	dirty bool
}

// Rect is a solid colored rectangle.
type Rect interface {
	Widget

	// Quad returns the rectangle.
	Quad() common.Quad

	// SetQuad replaces the rectangle.
	SetQuad(q common.Quad)

	// Color returns the fill color.
	Color() common.Color

	// SetColor replaces the fill color.
	SetColor(c common.Color)
}

var _ Rect = &rectImpl{}

// NewRect creates a Rect.
//
// Parameters:
//   - q: the rectangle in window pixels
//   - c: the fill color
//
// Returns:
//   - Rect: the newly created rect
func NewRect(q common.Quad, c common.Color) Rect {
	return &rectImpl{
		quad:    q,
		color:   c,
		scissor: common.DefaultScissor,
		dirty:   true,
	}
}

func (w *rectImpl) Quad() common.Quad { return w.quad }

func (w *rectImpl) SetQuad(q common.Quad) {
	if q == w.quad {
		return
	}
	w.quad = q
	w.dirty = true
}

func (w *rectImpl) Color() common.Color { return w.color }

func (w *rectImpl) SetColor(c common.Color) {
	if c == w.color {
		return
	}
	w.color = c
	w.dirty = true
}

func (w *rectImpl) Update(r renderer.UiRenderer, _ float32) {
	if !w.alloc.Valid() {
		w.alloc = r.RequestVertexBufferAllocation(1)
		w.dirty = true
	}
	if w.dirty {
		r.UpdateVertexData(w.alloc, []renderer.UiVertex{{
			TopLeft: mgl32.Vec2{w.quad.X, w.quad.Y},
			Size:    mgl32.Vec2{w.quad.W, w.quad.H},
			Color:   w.color,
		}})
		w.dirty = false
	}
}

func (w *rectImpl) Draw(r renderer.UiRenderer) {
	if w.hidden || !w.alloc.Valid() {
		return
	}
	r.DrawUi(renderer.DrawRect, w.alloc, 1, w.scissor)
}

func (w *rectImpl) Move(dx, dy float32) {
	w.quad.X += dx
	w.quad.Y += dy
	w.dirty = true
}

func (w *rectImpl) IsPointInside(p mgl32.Vec2) bool {
	return w.quad.Contains(p.X(), p.Y())
}

func (w *rectImpl) SetScissor(parent common.Quad) {
	w.scissor = common.QuadOverlap(w.quad, parent)
}
