package gui

import (
	"github.com/Carmen-Shannon/oxy-frontier/common"
	"github.com/Carmen-Shannon/oxy-frontier/engine/input"
	"github.com/Carmen-Shannon/oxy-frontier/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// Widget is the capability set shared by every GUI element: Rect, Label, Button, Console and Panel.
type Widget interface {
	// OnInputEvent handles an event routed to this widget by its parent.
	//
	// Parameters:
	//   - ev: the event
	//   - st: the input state at the time of the event
	OnInputEvent(ev input.Event, st *input.InputState)

	// GotFocus is called when the widget gains keyboard focus.
	GotFocus()

	// LostFocus is called when the widget loses keyboard focus.
	LostFocus()

	// CursorEnter is called when the widget gains mouse focus.
	CursorEnter()

	// CursorExit is called when the widget loses mouse focus.
	CursorExit()

	// Update advances the widget by dt seconds and uploads changed vertex data.
	//
	// Parameters:
	//   - r: the UI renderer
	//   - dt: elapsed seconds
	Update(r renderer.UiRenderer, dt float32)

	// Draw stages the widget's draws.
	//
	// Parameters:
	//   - r: the UI renderer
	Draw(r renderer.UiRenderer)

	// Move translates the widget.
	//
	// Parameters:
	//   - dx, dy: offset in pixels
	Move(dx, dy float32)

	// IsPointInside reports whether p hits the widget.
	//
	// Parameters:
	//   - p: point in window pixels
	//
	// Returns:
	//   - bool: true on a hit
	IsPointInside(p mgl32.Vec2) bool

	// SetScissor clips the widget to its own rectangle intersected with the parent's scissor.
	//
	// Parameters:
	//   - parent: the parent's scissor
	SetScissor(parent common.Quad)

	// Visible reports whether the widget is drawn and hit-testable.
	Visible() bool

	// SetVisible shows or hides the widget.
	SetVisible(v bool)

	// Focusable reports whether a click gives the widget keyboard focus.
	Focusable() bool

	// SetFocusable sets whether a click gives the widget keyboard focus.
	SetFocusable(f bool)
}

// widgetBase supplies visibility and focusability plus no-op hooks.
type widgetBase struct {
	hidden    bool
	focusable bool
}

func (w *widgetBase) Visible() bool                                   { return !w.hidden }
func (w *widgetBase) SetVisible(v bool)                               { w.hidden = !v }
func (w *widgetBase) Focusable() bool                                 { return w.focusable }
func (w *widgetBase) SetFocusable(f bool)                             { w.focusable = f }
func (w *widgetBase) GotFocus()                                       {}
func (w *widgetBase) LostFocus()                                      {}
func (w *widgetBase) CursorEnter()                                    {}
func (w *widgetBase) CursorExit()                                     {}
func (w *widgetBase) OnInputEvent(_ input.Event, _ *input.InputState) {}
