package input

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

type collectorImpl struct {
	mu *sync.Mutex

	state   InputState
	events  []Event
	maxSize int

	haveCursor bool
}

// Collector turns raw window callbacks into Events and maintains the live InputState.
// Window backends push into it; the game loop drains it once per frame.
type Collector interface {
	// KeyEvent records a key transition.
	//
	// Parameters:
	//   - k: the key
	//   - pressed: true for press or repeat, false for release
	//   - repeated: true if the press was generated by key auto-repeat
	KeyEvent(k Key, pressed, repeated bool)

	// ButtonEvent records a mouse button transition.
	//
	// Parameters:
	//   - b: the button
	//   - pressed: true for press, false for release
	ButtonEvent(b MouseButton, pressed bool)

	// CursorEvent records a new cursor position in window pixels.
	// The first position only seeds the state and produces no event.
	//
	// Parameters:
	//   - x, y: cursor position
	CursorEvent(x, y float32)

	// ScrollEvent records a wheel movement.
	//
	// Parameters:
	//   - dx, dy: scroll offsets
	ScrollEvent(dx, dy float32)

	// SetCapsLock updates the caps lock state.
	//
	// Parameters:
	//   - on: the new caps lock state
	SetCapsLock(on bool)

	// State returns a copy of the current input state.
	//
	// Returns:
	//   - InputState: the snapshot
	State() InputState

	// Drain returns the queued events in arrival order and empties the queue.
	//
	// Returns:
	//   - []Event: the drained events
	Drain() []Event
}

var _ Collector = &collectorImpl{}

// NewCollector creates a new Collector.
//
// Parameters:
//   - options: functional options to configure the collector
//
// Returns:
//   - Collector: the newly created collector
func NewCollector(options ...CollectorBuilderOption) Collector {
	c := &collectorImpl{
		mu:      &sync.Mutex{},
		maxSize: 1024,
	}
	for _, option := range options {
		option(c)
	}
	c.events = make([]Event, 0, 64)
	return c
}

func (c *collectorImpl) KeyEvent(k Key, pressed, repeated bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(k) < KeyCount {
		c.state.Keys[k] = pressed
	}
	ev := Event{Type: KeyReleased, Key: k}
	if pressed {
		ev.Type = KeyPressed
		ev.Repeated = repeated
	}
	c.push(ev)
}

func (c *collectorImpl) ButtonEvent(b MouseButton, pressed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pressed {
		c.state.Mouse |= b
		c.push(MousePress(b))
		return
	}
	c.state.Mouse &^= b
	c.push(MouseRelease(b))
}

func (c *collectorImpl) CursorEvent(x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pos := mgl32.Vec2{x, y}
	if !c.haveCursor {
		c.haveCursor = true
		c.state.CursorPos = pos
		return
	}
	delta := pos.Sub(c.state.CursorPos)
	c.state.CursorPos = pos
	if delta[0] == 0 && delta[1] == 0 {
		return
	}
	c.push(MouseMove(delta[0], delta[1]))
}

func (c *collectorImpl) ScrollEvent(dx, dy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.push(MouseScroll(dx, dy))
}

func (c *collectorImpl) SetCapsLock(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.CapsLock = on
}

func (c *collectorImpl) State() InputState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *collectorImpl) Drain() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	c.events = c.events[:0]
	return out
}

// push appends an event, dropping the oldest when the queue is full. Callers hold mu.
func (c *collectorImpl) push(ev Event) {
	if c.maxSize > 0 && len(c.events) >= c.maxSize {
		c.events = append(c.events[:0], c.events[1:]...)
	}
	c.events = append(c.events, ev)
}
