package input

import (
	"github.com/go-gl/mathgl/mgl32"
)

// InputState is a snapshot of held keys, held mouse buttons, caps lock and the cursor position.
// It is a plain value; the Collector owns the live copy.
type InputState struct {
	Keys      [KeyCount]bool
	Mouse     MouseButton
	CapsLock  bool
	CursorPos mgl32.Vec2
}

// Pressed reports whether k is currently held.
//
// Parameters:
//   - k: the key to query
//
// Returns:
//   - bool: true if held; false for out-of-range codes
func (s *InputState) Pressed(k Key) bool {
	if int(k) >= KeyCount {
		return false
	}
	return s.Keys[k]
}

// Shift reports whether either shift key is held.
func (s *InputState) Shift() bool {
	return s.Keys[KeyLeftShift] || s.Keys[KeyRightShift]
}

// Ctrl reports whether either control key is held.
func (s *InputState) Ctrl() bool {
	return s.Keys[KeyLeftControl] || s.Keys[KeyRightControl]
}

// Alt reports whether either alt key is held.
func (s *InputState) Alt() bool {
	return s.Keys[KeyLeftAlt] || s.Keys[KeyRightAlt]
}

// Meta reports whether either super key is held.
func (s *InputState) Meta() bool {
	return s.Keys[KeyLeftSuper] || s.Keys[KeyRightSuper]
}

// LMB reports whether the left mouse button is held.
func (s *InputState) LMB() bool { return s.Mouse&MouseLeft != 0 }

// MMB reports whether the middle mouse button is held.
func (s *InputState) MMB() bool { return s.Mouse&MouseMiddle != 0 }

// RMB reports whether the right mouse button is held.
func (s *InputState) RMB() bool { return s.Mouse&MouseRight != 0 }
