// Package window adapts a GLFW window to the engine: input callbacks feed an input.Collector,
// and the native handle is exposed as a WebGPU surface descriptor.
package window

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-frontier/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and feeds input into a Collector.
type Window interface {
	// Collector returns the collector receiving this window's input.
	//
	// Returns:
	//   - input.Collector: the collector
	Collector() input.Collector

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if the window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// PollEvents processes pending window events without blocking. Input lands in the Collector.
	PollEvents()

	// IsRunning returns true if the window is still open.
	IsRunning() bool

	// RequestClose marks the window for closing. IsRunning reports false afterwards.
	RequestClose()

	// Close destroys the window and releases platform resources.
	//
	// Returns:
	//   - error: if the window was never created
	Close() error

	// SetCursorLocked hides and captures the cursor, or releases it.
	//
	// Parameters:
	//   - locked: true to capture the cursor
	SetCursorLocked(locked bool)

	// CursorLocked reports whether the cursor is captured.
	CursorLocked() bool

	// SetSize resizes the window client area. The resize callback fires once the platform
	// reports the new framebuffer size.
	//
	// Parameters:
	//   - width, height: the requested size in screen coordinates
	SetSize(width, height int)

	// Size returns the current framebuffer size in pixels.
	Size() (width, height int)
}

// engineWindow holds window configuration, GLFW state, and the resize callback.
type engineWindow struct {
	title string

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	// width and height track the framebuffer, which differs from the window size on high-DPI displays.
	width  int
	height int

	collector    input.Collector
	cursorLocked bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onResize func(width, height int)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the window
//   - error: if the platform window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:     "oxy-frontier",
		maxWidth:  -1,
		maxHeight: -1,
		minWidth:  320,
		minHeight: 200,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	if w.collector == nil {
		w.collector = input.NewCollector()
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("window: failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) Collector() input.Collector {
	return w.collector
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) PollEvents() {
	platformPollEvents(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) SetCursorLocked(locked bool) {
	w.cursorLocked = locked
	platformSetCursorLocked(w, locked)
}

func (w *engineWindow) CursorLocked() bool {
	return w.cursorLocked
}

func (w *engineWindow) SetSize(width, height int) {
	platformSetSize(w, width, height)
}

func (w *engineWindow) Size() (int, int) {
	return w.width, w.height
}

// resized records a framebuffer size reported by the platform.
func (w *engineWindow) resized(width, height int) {
	w.width = width
	w.height = height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}
