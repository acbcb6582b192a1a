package input

import (
	"github.com/go-gl/mathgl/mgl32"
)

// EventType identifies the kind of an input Event.
type EventType uint8

const (
	KeyPressed EventType = iota
	KeyReleased
	MousePressed
	MouseReleased
	MouseMoved
	MouseScrolled
)

// Event is a single input event. Only the fields relevant to Type are set.
type Event struct {
	Type EventType

	// Key is set for KeyPressed and KeyReleased.
	Key Key
	// Repeated marks a KeyPressed generated by key auto-repeat.
	Repeated bool

	// Button is set for MousePressed and MouseReleased.
	Button MouseButton

	// CursorDelta is the cursor movement in pixels for MouseMoved.
	CursorDelta mgl32.Vec2
	// Scroll is the wheel offset for MouseScrolled. Y is the vertical notch count.
	Scroll mgl32.Vec2
}

// IsKeyEvent reports whether the event targets the keyboard focus.
func (e Event) IsKeyEvent() bool {
	return e.Type == KeyPressed || e.Type == KeyReleased
}

// IsMouseEvent reports whether the event targets the mouse focus.
func (e Event) IsMouseEvent() bool {
	return !e.IsKeyEvent()
}

// KeyPress builds a KeyPressed event.
func KeyPress(k Key) Event { return Event{Type: KeyPressed, Key: k} }

// KeyRelease builds a KeyReleased event.
func KeyRelease(k Key) Event { return Event{Type: KeyReleased, Key: k} }

// MousePress builds a MousePressed event.
func MousePress(b MouseButton) Event { return Event{Type: MousePressed, Button: b} }

// MouseRelease builds a MouseReleased event.
func MouseRelease(b MouseButton) Event { return Event{Type: MouseReleased, Button: b} }

// MouseMove builds a MouseMoved event.
func MouseMove(dx, dy float32) Event {
	return Event{Type: MouseMoved, CursorDelta: mgl32.Vec2{dx, dy}}
}

// MouseScroll builds a MouseScrolled event.
func MouseScroll(dx, dy float32) Event {
	return Event{Type: MouseScrolled, Scroll: mgl32.Vec2{dx, dy}}
}
