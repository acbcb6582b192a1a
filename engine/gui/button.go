package gui

import (
	"github.com/Carmen-Shannon/oxy-frontier/common"
	"github.com/Carmen-Shannon/oxy-frontier/engine/input"
	"github.com/Carmen-Shannon/oxy-frontier/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frontier/engine/text"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	ButtonNormalColor    = common.Color{0.3, 0.3, 0.4, 1}
	ButtonHighlightColor = common.Color{0.6, 0.6, 0.7, 1}
	ButtonPressedColor   = common.Color{0.2, 0.2, 0.3, 1}
)

type buttonImpl struct {
	widgetBase

	bg      Rect
	label   Label
	onClick func(b Button)

	armed   bool
	hovered bool
	focused bool
}

// Button is a fixed rectangle with centered text. It fires when the left button is pressed and
// released over it, or when Enter is pressed while it holds keyboard focus.
type Button interface {
	Widget

	// Text returns the caption.
	Text() string

	// Click fires the callback.
	Click()

	// Color returns the current background color.
	Color() common.Color

	// SetCallback replaces the click callback.
	SetCallback(fn func(b Button))
}

var _ Button = &buttonImpl{}

// NewButton creates a button.
//
// Parameters:
//   - f: the font
//   - caption: the button text
//   - q: the button rectangle
//   - onClick: the click callback, may be nil
//
// Returns:
//   - Button: the newly created button
func NewButton(f text.Font, caption string, q common.Quad, onClick func(b Button)) Button {
	return &buttonImpl{
		widgetBase: widgetBase{focusable: true},
		bg:         NewRect(q, ButtonNormalColor),
		label:      NewLabel(f, caption, mgl32.Vec2{}, WithRect(q), WithAlignment(text.AlignCenter, text.AlignMiddle)),
		onClick:    onClick,
	}
}

func (b *buttonImpl) Text() string { return b.label.Text() }

func (b *buttonImpl) Color() common.Color { return b.bg.Color() }

func (b *buttonImpl) SetCallback(fn func(b Button)) { b.onClick = fn }

func (b *buttonImpl) Click() {
	if b.onClick != nil {
		b.onClick(b)
	}
}

func (b *buttonImpl) restColor() common.Color {
	if b.hovered || b.focused {
		return ButtonHighlightColor
	}
	return ButtonNormalColor
}

func (b *buttonImpl) OnInputEvent(ev input.Event, st *input.InputState) {
	switch ev.Type {
	case input.MousePressed:
		if ev.Button == input.MouseLeft {
			b.armed = true
			b.bg.SetColor(ButtonPressedColor)
		}
	case input.MouseReleased:
		if ev.Button != input.MouseLeft || !b.armed {
			return
		}
		b.armed = false
		inside := b.IsPointInside(st.CursorPos)
		b.hovered = inside
		b.bg.SetColor(b.restColor())
		if inside {
			b.Click()
		}
	case input.KeyPressed:
		if ev.Key == input.KeyEnter {
			b.Click()
		}
	}
}

func (b *buttonImpl) GotFocus() {
	b.focused = true
	b.bg.SetColor(b.restColor())
}

func (b *buttonImpl) LostFocus() {
	b.focused = false
	if !b.armed {
		b.bg.SetColor(b.restColor())
	}
}

func (b *buttonImpl) CursorEnter() {
	b.hovered = true
	if !b.armed {
		b.bg.SetColor(b.restColor())
	}
}

func (b *buttonImpl) CursorExit() {
	b.hovered = false
	b.armed = false
	b.bg.SetColor(b.restColor())
}

func (b *buttonImpl) Update(r renderer.UiRenderer, dt float32) {
	b.bg.Update(r, dt)
	b.label.Update(r, dt)
}

func (b *buttonImpl) Draw(r renderer.UiRenderer) {
	if b.hidden {
		return
	}
	b.bg.Draw(r)
	b.label.Draw(r)
}

func (b *buttonImpl) Move(dx, dy float32) {
	b.bg.Move(dx, dy)
	b.label.Move(dx, dy)
}

func (b *buttonImpl) IsPointInside(p mgl32.Vec2) bool {
	return b.bg.IsPointInside(p)
}

func (b *buttonImpl) SetScissor(parent common.Quad) {
	b.bg.SetScissor(parent)
	b.label.SetScissor(parent)
}
