package gui

import (
	"github.com/Carmen-Shannon/oxy-frontier/common"
	"github.com/Carmen-Shannon/oxy-frontier/engine/input"
	"github.com/Carmen-Shannon/oxy-frontier/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

var DefaultPanelColor = common.Color{0.15, 0.15, 0.2, 0.9}

type panelImpl struct {
	widgetBase

	bg       Rect
	children *Container
	scissor  common.Quad
	parent   common.Quad

	intercept func(ev input.Event, st *input.InputState) bool
	onFocus   func()
}

// Panel is a rectangle holding child widgets. Events reaching the panel are routed to its
// children by its own Container.
type Panel interface {
	Widget

	// Children returns the panel's container.
	Children() *Container

	// Rect returns the panel rectangle.
	Rect() common.Quad

	// SetIntercept installs a key handler that sees key presses before the children do.
	//
	// Parameters:
	//   - fn: returns true to consume the event
	SetIntercept(fn func(ev input.Event, st *input.InputState) bool)

	// SetFocusCallback installs a function run when the panel gains keyboard focus.
	SetFocusCallback(fn func())
}

var _ Panel = &panelImpl{}

// NewPanel creates a panel. Clicking empty panel space clears the children's mouse focus and
// leaves their keyboard focus alone.
//
// Parameters:
//   - q: the panel rectangle
//   - c: the background color
//
// Returns:
//   - Panel: the newly created panel
func NewPanel(q common.Quad, c common.Color) Panel {
	p := &panelImpl{
		widgetBase: widgetBase{focusable: true},
		bg:         NewRect(q, c),
		children:   NewContainer(),
		scissor:    q,
		parent:     common.DefaultScissor,
	}
	p.children.SetChildrenScissor(q)
	return p
}

func (p *panelImpl) Children() *Container { return p.children }

func (p *panelImpl) Rect() common.Quad { return p.bg.Quad() }

func (p *panelImpl) SetIntercept(fn func(ev input.Event, st *input.InputState) bool) {
	p.intercept = fn
}

func (p *panelImpl) SetFocusCallback(fn func()) { p.onFocus = fn }

func (p *panelImpl) OnInputEvent(ev input.Event, st *input.InputState) {
	if ev.Type == input.KeyPressed && p.intercept != nil && p.intercept(ev, st) {
		return
	}
	p.children.HandleEvent(ev, st)
}

func (p *panelImpl) GotFocus() {
	if p.onFocus != nil {
		p.onFocus()
	}
}

func (p *panelImpl) LostFocus() {
	p.children.ResetKeyboardFocus()
}

func (p *panelImpl) CursorExit() {
	p.children.ResetMouseFocus()
}

func (p *panelImpl) Update(r renderer.UiRenderer, dt float32) {
	p.bg.Update(r, dt)
	p.children.UpdateChildren(r, dt)
}

func (p *panelImpl) Draw(r renderer.UiRenderer) {
	if p.hidden {
		return
	}
	p.bg.Draw(r)
	p.children.DrawChildren(r)
}

func (p *panelImpl) Move(dx, dy float32) {
	p.bg.Move(dx, dy)
	p.children.MoveChildren(dx, dy)
	p.SetScissor(p.parent)
}

func (p *panelImpl) IsPointInside(pt mgl32.Vec2) bool {
	return p.bg.IsPointInside(pt)
}

func (p *panelImpl) SetScissor(parent common.Quad) {
	p.parent = parent
	p.bg.SetScissor(parent)
	p.scissor = common.QuadOverlap(p.bg.Quad(), parent)
	p.children.SetChildrenScissor(p.scissor)
}
