package gui

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-frontier/common"
	"github.com/Carmen-Shannon/oxy-frontier/engine/input"
	"github.com/Carmen-Shannon/oxy-frontier/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frontier/engine/text"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// FocusLostAction selects what an editable label does with its text when it loses keyboard focus.
type FocusLostAction uint8

const (
	FocusLostNone FocusLostAction = iota
	FocusLostConfirm
	FocusLostCancel
)

var (
	DefaultTextColor     = common.Color{1, 1, 1, 1}
	DefaultEditableColor = common.Color{0.3, 0.3, 0.3, 1}
	DefaultCursorColor   = common.Color{0.2, 0.2, 0.5, 1}
)

// minGlyphAllocation is the smallest vertex allocation a label requests, so short texts can
// grow a little without reallocating.
const minGlyphAllocation = 16

type labelImpl struct {
	widgetBase

	font text.Font
	text string
	prev string

	cursor int
	ref    mgl32.Vec2
	rect   common.Quad
	fixed  bool
	hAlign text.HAlign
	vAlign text.VAlign
	layout text.Layout

	editable       bool
	multiline      bool
	cancelable     bool
	clearOnConfirm bool
	focused        bool
	focusLost      FocusLostAction

	color         common.Color
	bgColor       common.Color
	bg            Rect
	cursorRect    Rect
	parentScissor common.Quad
	scissor       common.Quad

	alloc renderer.Allocation
	dirty bool

	onConfirm     func(l Label)
	onTextChanged func(l Label)
	onUpdate      func(l Label, dt float32)
}

// Label displays text and, when editable, acts as a single cursor text editor.
type Label interface {
	Widget

	// Text returns the current text.
	Text() string

	// SetText replaces the text and moves the cursor to its end.
	//
	// Parameters:
	//   - s: the new text
	SetText(s string)

	// Cursor returns the cursor position in [0, len(Text())].
	Cursor() int

	// SetCursor moves the cursor, clamped to the text.
	//
	// Parameters:
	//   - pos: the new position
	SetCursor(pos int)

	// TypeCharacter inserts c at the cursor and advances it.
	//
	// Parameters:
	//   - c: the character
	TypeCharacter(c byte)

	// Confirm runs the confirm callback and applies the confirm behavior as if Enter were pressed.
	Confirm()

	// Cancel restores the text held when focus was gained, if the label is cancelable.
	Cancel()

	// Rect returns the label rectangle. Free labels size it to the text.
	Rect() common.Quad

	// Layout returns the current glyph layout.
	Layout() text.Layout

	// Editable reports whether the label accepts text input.
	Editable() bool

	// Focused reports whether the label holds keyboard focus.
	Focused() bool

	// SetColor replaces the text color.
	SetColor(c common.Color)

	// SetConfirmCallback sets the function run on Enter.
	SetConfirmCallback(fn func(l Label))

	// SetTextChangedCallback sets the function run after every text change.
	SetTextChangedCallback(fn func(l Label))

	// SetUpdateCallback sets the function run every update while the label is not being edited.
	SetUpdateCallback(fn func(l Label, dt float32))
}

var _ Label = &labelImpl{}

// NewLabel creates a label anchored at ref. With WithRect the label has a fixed rectangle and
// ref is derived from it and the alignment.
//
// Parameters:
//   - f: the font
//   - s: the initial text
//   - ref: the reference point
//   - options: functional options to configure the label
//
// Returns:
//   - Label: the newly created label
func NewLabel(f text.Font, s string, ref mgl32.Vec2, options ...LabelBuilderOption) Label {
	if f == nil {
		panic("gui: NewLabel requires a non-nil font")
	}
	l := &labelImpl{
		font:          f,
		text:          s,
		ref:           ref,
		hAlign:        text.AlignLeft,
		vAlign:        text.AlignTop,
		color:         DefaultTextColor,
		bgColor:       DefaultEditableColor,
		parentScissor: common.DefaultScissor,
		scissor:       common.DefaultScissor,
	}
	for _, option := range options {
		option(l)
	}
	if l.fixed {
		l.ref = anchor(l.rect, l.hAlign, l.vAlign)
	}
	if l.editable {
		l.focusable = true
		l.bg = NewRect(l.rect, l.bgColor)
		l.cursorRect = NewRect(common.Quad{}, DefaultCursorColor)
	}
	l.cursor = len(l.text)
	l.relayout()
	return l
}

// anchor returns the reference point of q for the given alignment.
func anchor(q common.Quad, h text.HAlign, v text.VAlign) mgl32.Vec2 {
	var p mgl32.Vec2
	switch h {
	case text.AlignLeft:
		p[0] = q.X
	case text.AlignCenter:
		p[0] = q.X + q.W/2
	case text.AlignRight:
		p[0] = q.Right()
	}
	switch v {
	case text.AlignTop:
		p[1] = q.Y
	case text.AlignMiddle:
		p[1] = q.Y + q.H/2
	case text.AlignBottom:
		p[1] = q.Bottom()
	}
	return p
}

func (l *labelImpl) relayout() {
	l.layout = text.LayoutText(l.font, l.text, l.ref, l.hAlign, l.vAlign)
	if !l.fixed {
		l.rect = l.layout.Bounds
	}
	if l.bg != nil {
		l.bg.SetQuad(l.rect)
	}
	l.dirty = true
	l.updateCursor()
	l.SetScissor(l.parentScissor)
}

func (l *labelImpl) updateCursor() {
	if l.cursorRect == nil {
		return
	}
	line, _ := text.LineOf(l.text, l.cursor)
	x := text.CursorX(l.font, l.text, l.layout.LineBaseX[line], l.cursor)
	y := l.layout.Top + float32(line)*float32(l.font.BaselineDistance())
	l.cursorRect.SetQuad(common.Quad{
		X: math32.Trunc(x),
		Y: y,
		W: text.CursorWidth(l.font, l.text, l.cursor),
		H: float32(l.font.Height()),
	})
}

func (l *labelImpl) setText(s string) {
	if s == l.text {
		return
	}
	l.text = s
	l.cursor = min(l.cursor, len(s))
	l.relayout()
	if l.onTextChanged != nil {
		l.onTextChanged(l)
	}
}

func (l *labelImpl) Text() string { return l.text }

func (l *labelImpl) SetText(s string) {
	l.cursor = len(s)
	if s == l.text {
		l.updateCursor()
		return
	}
	l.setText(s)
}

func (l *labelImpl) Cursor() int { return l.cursor }

func (l *labelImpl) SetCursor(pos int) {
	l.cursor = max(0, min(pos, len(l.text)))
	l.updateCursor()
}

func (l *labelImpl) TypeCharacter(c byte) {
	s := l.text[:l.cursor] + string(c) + l.text[l.cursor:]
	l.cursor++
	l.setText(s)
}

func (l *labelImpl) backspace() {
	if l.cursor == 0 {
		return
	}
	s := l.text[:l.cursor-1] + l.text[l.cursor:]
	l.cursor--
	l.setText(s)
}

func (l *labelImpl) deleteForward() {
	if l.cursor >= len(l.text) {
		return
	}
	l.setText(l.text[:l.cursor] + l.text[l.cursor+1:])
}

func (l *labelImpl) Confirm() {
	if l.onConfirm != nil {
		l.onConfirm(l)
	}
	if l.clearOnConfirm {
		l.SetText("")
	}
	if l.cancelable {
		l.prev = l.text
	}
}

func (l *labelImpl) Cancel() {
	if !l.cancelable {
		return
	}
	l.SetText(l.prev)
}

func (l *labelImpl) OnInputEvent(ev input.Event, st *input.InputState) {
	if !l.editable {
		return
	}
	switch ev.Type {
	case input.KeyPressed:
		l.onKey(ev.Key, st)
	case input.MousePressed:
		if ev.Button == input.MouseLeft {
			l.moveCursorTo(st.CursorPos)
		}
	}
}

func (l *labelImpl) onKey(k input.Key, st *input.InputState) {
	switch k {
	case input.KeyLeft:
		l.SetCursor(l.cursor - 1)
	case input.KeyRight:
		l.SetCursor(l.cursor + 1)
	case input.KeyHome:
		l.SetCursor(0)
	case input.KeyEnd:
		l.SetCursor(len(l.text))
	case input.KeyBackspace:
		l.backspace()
	case input.KeyDelete:
		l.deleteForward()
	case input.KeyEnter:
		if l.multiline && st.Shift() {
			l.TypeCharacter('\n')
			return
		}
		l.Confirm()
	case input.KeyEscape:
		l.Cancel()
	default:
		if c, ok := CharForKey(k, st); ok {
			l.TypeCharacter(c)
		}
	}
}

// moveCursorTo places the cursor at the glyph under p.
func (l *labelImpl) moveCursorTo(p mgl32.Vec2) {
	nLines := len(l.layout.LineBaseX)
	line := int(math32.Floor((p.Y() - l.layout.Top) / float32(l.font.BaselineDistance())))
	line = max(0, min(line, nLines-1))

	start := 0
	for i := 0; i < line; i++ {
		start += strings.IndexByte(l.text[start:], '\n') + 1
	}
	end := start + strings.IndexByte(l.text[start:], '\n')
	if end < start {
		end = len(l.text)
	}
	if pos, ok := text.HitTest(l.font, l.text[start:end], l.layout.LineBaseX[line], p.X()); ok {
		l.SetCursor(start + pos)
	}
}

func (l *labelImpl) GotFocus() {
	l.focused = true
	l.prev = l.text
}

func (l *labelImpl) LostFocus() {
	l.focused = false
	switch l.focusLost {
	case FocusLostConfirm:
		l.Confirm()
	case FocusLostCancel:
		l.Cancel()
	}
}

func (l *labelImpl) Update(r renderer.UiRenderer, dt float32) {
	if (!l.editable || !l.focused) && l.onUpdate != nil {
		l.onUpdate(l, dt)
	}
	if l.bg != nil {
		l.bg.Update(r, dt)
		l.cursorRect.Update(r, dt)
	}

	n := len(l.layout.Quads)
	if !l.alloc.Valid() || n > l.alloc.Capacity {
		l.alloc = r.RequestVertexBufferAllocation(max(n, minGlyphAllocation))
		l.dirty = true
	}
	if !l.dirty {
		return
	}
	vertices := make([]renderer.UiVertex, n)
	for i, q := range l.layout.Quads {
		vertices[i] = renderer.UiVertex{TopLeft: q.TopLeft, Size: q.Size, Color: l.color, Layer: q.Layer}
	}
	r.UpdateVertexData(l.alloc, vertices)
	l.dirty = false
}

func (l *labelImpl) Draw(r renderer.UiRenderer) {
	if l.hidden {
		return
	}
	if l.bg != nil {
		l.bg.Draw(r)
		if l.focused {
			l.cursorRect.Draw(r)
		}
	}
	if l.alloc.Valid() && len(l.layout.Quads) > 0 {
		r.DrawUi(renderer.DrawFont, l.alloc, len(l.layout.Quads), l.scissor)
	}
}

func (l *labelImpl) Move(dx, dy float32) {
	l.ref = l.ref.Add(mgl32.Vec2{dx, dy})
	l.rect.X += dx
	l.rect.Y += dy
	l.relayout()
}

func (l *labelImpl) IsPointInside(p mgl32.Vec2) bool {
	return l.rect.Contains(p.X(), p.Y())
}

func (l *labelImpl) SetScissor(parent common.Quad) {
	l.parentScissor = parent
	l.scissor = common.QuadOverlap(l.rect, parent)
	if l.bg != nil {
		l.bg.SetScissor(parent)
		l.cursorRect.SetScissor(l.scissor)
	}
}

func (l *labelImpl) Rect() common.Quad { return l.rect }

func (l *labelImpl) Layout() text.Layout { return l.layout }

func (l *labelImpl) Editable() bool { return l.editable }

func (l *labelImpl) Focused() bool { return l.focused }

func (l *labelImpl) SetColor(c common.Color) {
	if c == l.color {
		return
	}
	l.color = c
	l.dirty = true
}

func (l *labelImpl) SetConfirmCallback(fn func(l Label)) { l.onConfirm = fn }

func (l *labelImpl) SetTextChangedCallback(fn func(l Label)) { l.onTextChanged = fn }

func (l *labelImpl) SetUpdateCallback(fn func(l Label, dt float32)) { l.onUpdate = fn }
