package gui

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-frontier/common"
	"github.com/Carmen-Shannon/oxy-frontier/engine/input"
	"github.com/Carmen-Shannon/oxy-frontier/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frontier/engine/text"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultHistoryCapacity = 100
	DefaultOutputLines     = 100
)

var DefaultConsoleColor = common.Color{0.05, 0.05, 0.1, 0.85}

type consoleImpl struct {
	widgetBase

	rect   common.Quad
	bg     Rect
	output Label
	input  Label

	// entries holds confirmed commands oldest first; the last slot is the line being typed.
	entries  []string
	idx      int
	capacity int
	maxLines int

	onCommand func(cmd string)
}

// Console is a drop-down command line: an output log above a single line input with history.
type Console interface {
	Widget

	// Print appends a line to the output log.
	//
	// Parameters:
	//   - line: the text to append
	Print(line string)

	// Output returns the output log.
	Output() string

	// Input returns the input label.
	Input() Label

	// History returns the confirmed commands, oldest first.
	History() []string
}

var _ Console = &consoleImpl{}

// NewConsole creates a hidden console covering q. The bottom tenth of q is the input line.
//
// Parameters:
//   - f: the font
//   - q: the console rectangle
//   - onCommand: called with every confirmed command
//   - options: functional options to configure the console
//
// Returns:
//   - Console: the newly created console
func NewConsole(f text.Font, q common.Quad, onCommand func(cmd string), options ...ConsoleBuilderOption) Console {
	c := &consoleImpl{
		widgetBase: widgetBase{hidden: true, focusable: true},
		rect:       q,
		bg:         NewRect(q, DefaultConsoleColor),
		entries:    []string{""},
		capacity:   DefaultHistoryCapacity,
		maxLines:   DefaultOutputLines,
		onCommand:  onCommand,
	}
	for _, option := range options {
		option(c)
	}

	inputH := q.H * 0.1
	c.output = NewLabel(f, "", mgl32.Vec2{q.X, q.Bottom() - inputH}, WithAlignment(text.AlignLeft, text.AlignBottom))
	c.input = NewLabel(f, "", mgl32.Vec2{},
		WithRect(common.Quad{X: q.X, Y: q.Bottom() - inputH, W: q.W, H: inputH}),
		WithAlignment(text.AlignLeft, text.AlignMiddle),
		WithEditable(),
		WithConfirmCallback(func(Label) { c.confirm() }),
	)
	return c
}

func (c *consoleImpl) confirm() {
	cmd := c.input.Text()
	last := len(c.entries) - 1
	c.entries[last] = cmd
	if len(c.entries) > c.capacity {
		c.entries = c.entries[len(c.entries)-c.capacity:]
	}
	if c.onCommand != nil {
		c.onCommand(cmd)
	}
	c.input.SetText("")
	c.entries = append(c.entries, "")
	c.idx = len(c.entries) - 1
}

// recall saves the edited line into the current slot and shows the slot at idx+step.
func (c *consoleImpl) recall(step int) {
	c.entries[c.idx] = c.input.Text()
	next := c.idx + step
	if next < 0 || next >= len(c.entries) {
		return
	}
	c.idx = next
	c.input.SetText(c.entries[c.idx])
}

func (c *consoleImpl) Print(line string) {
	out := c.output.Text()
	if out != "" {
		out += "\n"
	}
	out += line
	if lines := strings.Split(out, "\n"); len(lines) > c.maxLines {
		out = strings.Join(lines[len(lines)-c.maxLines:], "\n")
	}
	c.output.SetText(out)
}

func (c *consoleImpl) Output() string { return c.output.Text() }

func (c *consoleImpl) Input() Label { return c.input }

func (c *consoleImpl) History() []string {
	h := make([]string, len(c.entries)-1)
	copy(h, c.entries[:len(c.entries)-1])
	return h
}

func (c *consoleImpl) OnInputEvent(ev input.Event, st *input.InputState) {
	if ev.Type == input.KeyPressed {
		switch ev.Key {
		case input.KeyUp:
			c.recall(-1)
			return
		case input.KeyDown:
			c.recall(1)
			return
		}
	}
	c.input.OnInputEvent(ev, st)
}

func (c *consoleImpl) GotFocus() { c.input.GotFocus() }

func (c *consoleImpl) LostFocus() { c.input.LostFocus() }

func (c *consoleImpl) Update(r renderer.UiRenderer, dt float32) {
	c.bg.Update(r, dt)
	c.output.Update(r, dt)
	c.input.Update(r, dt)
}

func (c *consoleImpl) Draw(r renderer.UiRenderer) {
	if c.hidden {
		return
	}
	c.bg.Draw(r)
	c.output.Draw(r)
	c.input.Draw(r)
}

func (c *consoleImpl) Move(dx, dy float32) {
	c.rect.X += dx
	c.rect.Y += dy
	c.bg.Move(dx, dy)
	c.output.Move(dx, dy)
	c.input.Move(dx, dy)
}

func (c *consoleImpl) IsPointInside(p mgl32.Vec2) bool {
	return c.rect.Contains(p.X(), p.Y())
}

func (c *consoleImpl) SetScissor(parent common.Quad) {
	s := common.QuadOverlap(c.rect, parent)
	c.bg.SetScissor(s)
	c.output.SetScissor(s)
	c.input.SetScissor(s)
}
