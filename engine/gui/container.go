package gui

import (
	"github.com/Carmen-Shannon/oxy-frontier/common"
	"github.com/Carmen-Shannon/oxy-frontier/engine/input"
	"github.com/Carmen-Shannon/oxy-frontier/engine/renderer"
)

// ChildID identifies a child inside its Container. Zero means none.
type ChildID uint32

type childEntry struct {
	id ChildID
	w  Widget
}

// Container owns an ordered list of widgets and routes input to them. It tracks one keyboard
// focus and one mouse focus by id, so removing a child can never leave a dangling focus.
// Later children are drawn on top and win hit tests.
type Container struct {
	children []childEntry
	nextID   ChildID

	keyboardFocus ChildID
	mouseFocus    ChildID
	captured      bool

	clearKeyboardOnMiss bool
	scissor             common.Quad
}

// ContainerBuilderOption configures a Container.
type ContainerBuilderOption func(*Container)

// WithClearKeyboardFocusOnMiss makes a press outside every child also drop keyboard focus.
func WithClearKeyboardFocusOnMiss() ContainerBuilderOption {
	return func(c *Container) {
		c.clearKeyboardOnMiss = true
	}
}

// NewContainer creates an empty Container.
//
// Parameters:
//   - options: functional options to configure the container
//
// Returns:
//   - *Container: the container
func NewContainer(options ...ContainerBuilderOption) *Container {
	c := &Container{scissor: common.DefaultScissor}
	for _, option := range options {
		option(c)
	}
	return c
}

// AddChild appends w on top of the existing children.
//
// Parameters:
//   - w: the widget to add
//
// Returns:
//   - ChildID: the handle of the new child
func (c *Container) AddChild(w Widget) ChildID {
	if w == nil {
		panic("gui: AddChild requires a non-nil widget")
	}
	c.nextID++
	c.children = append(c.children, childEntry{id: c.nextID, w: w})
	w.SetScissor(c.scissor)
	return c.nextID
}

// RemoveChild removes the child with the given id. Focus held by the child is cleared
// without calling its focus hooks. Unknown ids are ignored.
func (c *Container) RemoveChild(id ChildID) {
	for i, e := range c.children {
		if e.id != id {
			continue
		}
		c.children = append(c.children[:i:i], c.children[i+1:]...)
		if c.keyboardFocus == id {
			c.keyboardFocus = 0
		}
		if c.mouseFocus == id {
			c.mouseFocus = 0
			c.captured = false
		}
		return
	}
}

// Clear removes every child.
func (c *Container) Clear() {
	c.children = nil
	c.keyboardFocus = 0
	c.mouseFocus = 0
	c.captured = false
}

// Child returns the widget with the given id, or nil.
func (c *Container) Child(id ChildID) Widget {
	for _, e := range c.children {
		if e.id == id {
			return e.w
		}
	}
	return nil
}

// Children returns the ids of all children in draw order.
func (c *Container) Children() []ChildID {
	ids := make([]ChildID, len(c.children))
	for i, e := range c.children {
		ids[i] = e.id
	}
	return ids
}

// Len returns the number of children.
func (c *Container) Len() int { return len(c.children) }

func (c *Container) KeyboardFocus() ChildID { return c.keyboardFocus }

func (c *Container) MouseFocus() ChildID { return c.mouseFocus }

// SetKeyboardFocus moves keyboard focus to id, calling LostFocus on the previous holder and
// GotFocus on the new one. Setting the current holder again does nothing.
func (c *Container) SetKeyboardFocus(id ChildID) {
	if id == c.keyboardFocus {
		return
	}
	if id != 0 && c.Child(id) == nil {
		return
	}
	old := c.Child(c.keyboardFocus)
	c.keyboardFocus = id
	if old != nil {
		old.LostFocus()
	}
	if w := c.Child(id); w != nil {
		w.GotFocus()
	}
}

// ResetKeyboardFocus clears keyboard focus.
func (c *Container) ResetKeyboardFocus() {
	c.SetKeyboardFocus(0)
}

// SetMouseFocus moves mouse focus to id, calling CursorExit and CursorEnter.
func (c *Container) SetMouseFocus(id ChildID) {
	if id == c.mouseFocus {
		return
	}
	old := c.Child(c.mouseFocus)
	c.mouseFocus = id
	if old != nil {
		old.CursorExit()
	}
	if w := c.Child(id); w != nil {
		w.CursorEnter()
	}
}

// ResetMouseFocus clears mouse focus and any press capture.
func (c *Container) ResetMouseFocus() {
	c.captured = false
	c.SetMouseFocus(0)
}

// hit returns the topmost visible child under the cursor, or 0.
func (c *Container) hit(st *input.InputState) ChildID {
	for i := len(c.children) - 1; i >= 0; i-- {
		e := c.children[i]
		if e.w.Visible() && e.w.IsPointInside(st.CursorPos) {
			return e.id
		}
	}
	return 0
}

// HandleEvent routes ev to the children. Key events go to the keyboard focus. A press moves
// mouse focus to the child under the cursor and, for focusable children, keyboard focus too;
// a press that hits nothing clears mouse focus only. While the left button is held the
// pressed child keeps mouse focus so it also receives the release.
//
// Parameters:
//   - ev: the event
//   - st: the input state
//
// Returns:
//   - bool: true if a child received the event
func (c *Container) HandleEvent(ev input.Event, st *input.InputState) bool {
	if ev.IsKeyEvent() {
		w := c.Child(c.keyboardFocus)
		if w == nil {
			return false
		}
		w.OnInputEvent(ev, st)
		return true
	}

	switch ev.Type {
	case input.MousePressed:
		id := c.hit(st)
		c.SetMouseFocus(id)
		if id == 0 {
			if c.clearKeyboardOnMiss {
				c.ResetKeyboardFocus()
			}
			return false
		}
		w := c.Child(id)
		if ev.Button == input.MouseLeft {
			if w.Focusable() {
				c.SetKeyboardFocus(id)
			} else {
				c.ResetKeyboardFocus()
			}
			c.captured = true
		}
		// focus hooks may have removed the child
		if w = c.Child(id); w != nil {
			w.OnInputEvent(ev, st)
		}
		return true

	case input.MouseReleased:
		w := c.Child(c.mouseFocus)
		if w != nil {
			w.OnInputEvent(ev, st)
		}
		if ev.Button == input.MouseLeft {
			c.captured = false
			c.SetMouseFocus(c.hit(st))
		}
		return w != nil

	case input.MouseMoved:
		if !c.captured {
			c.SetMouseFocus(c.hit(st))
		}
		fallthrough

	default:
		w := c.Child(c.mouseFocus)
		if w == nil {
			return false
		}
		w.OnInputEvent(ev, st)
		return true
	}
}

// UpdateChildren updates every child. Children added or removed during the pass are
// handled against a snapshot of the ids taken at the start.
func (c *Container) UpdateChildren(r renderer.UiRenderer, dt float32) {
	for _, id := range c.Children() {
		if w := c.Child(id); w != nil {
			w.Update(r, dt)
		}
	}
}

// DrawChildren draws the visible children in order.
func (c *Container) DrawChildren(r renderer.UiRenderer) {
	for _, e := range c.children {
		if e.w.Visible() {
			e.w.Draw(r)
		}
	}
}

// MoveChildren translates every child.
func (c *Container) MoveChildren(dx, dy float32) {
	for _, e := range c.children {
		e.w.Move(dx, dy)
	}
}

// SetChildrenScissor stores the scissor handed to new children and reapplies it to existing ones.
func (c *Container) SetChildrenScissor(q common.Quad) {
	c.scissor = q
	for _, e := range c.children {
		e.w.SetScissor(q)
	}
}
