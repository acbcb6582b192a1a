package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-frontier/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var errNotInitialized = errors.New("window is not initialized")

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	window  *glfw.Window
	running bool
}

var mouseButtons = map[glfw.MouseButton]input.MouseButton{
	glfw.MouseButtonLeft:   input.MouseLeft,
	glfw.MouseButtonMiddle: input.MouseMiddle,
	glfw.MouseButtonRight:  input.MouseRight,
}

// newPlatformWindow creates the GLFW window, routes its callbacks into the collector and stores
// it as the internal window.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, sizeLimit(w.maxWidth), sizeLimit(w.maxHeight))
	win.SetInputMode(glfw.LockKeyMods, glfw.True)

	gw := &glfwWindow{window: win, running: true}
	w.internalWindow = gw
	c := w.collector

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		c.SetCapsLock(mods&glfw.ModCapsLock != 0)
		if key == glfw.KeyUnknown {
			return
		}
		switch action {
		case glfw.Press:
			c.KeyEvent(input.Key(key), true, false)
		case glfw.Repeat:
			c.KeyEvent(input.Key(key), true, true)
		case glfw.Release:
			c.KeyEvent(input.Key(key), false, false)
		}
	})

	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		c.SetCapsLock(mods&glfw.ModCapsLock != 0)
		b, ok := mouseButtons[button]
		if !ok {
			return
		}
		c.ButtonEvent(b, action == glfw.Press)
	})

	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		c.CursorEvent(float32(xpos), float32(ypos))
	})

	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		c.ScrollEvent(float32(xoff), float32(yoff))
	})

	// The framebuffer size is what the surface needs; it differs from the window size on
	// high-DPI displays.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.resized(width, height)
	})

	w.width, w.height = win.GetFramebufferSize()
	return nil
}

func sizeLimit(v int) int {
	if v < 0 {
		return glfw.DontCare
	}
	return v
}

func platformWindow(w *engineWindow) *glfwWindow {
	if w.internalWindow == nil {
		return nil
	}
	return w.internalWindow.(*glfwWindow)
}

// platformGetSurfaceDescriptor creates a platform-appropriate wgpu.SurfaceDescriptor from the GLFW window.
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	gw := platformWindow(w)
	if gw == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

// platformIsRunningCheck returns false once the window is closed or GLFW reports ShouldClose.
func platformIsRunningCheck(w *engineWindow) bool {
	gw := platformWindow(w)
	if gw == nil {
		return false
	}
	return gw.running && !gw.window.ShouldClose()
}

func platformRequestClose(w *engineWindow) {
	if gw := platformWindow(w); gw != nil {
		gw.window.SetShouldClose(true)
	}
}

// platformCloseWindow destroys the GLFW window and terminates the GLFW library.
func platformCloseWindow(w *engineWindow) error {
	gw := platformWindow(w)
	if gw == nil {
		return fmt.Errorf("window: %w", errNotInitialized)
	}
	if !gw.running {
		return nil
	}
	gw.running = false
	gw.window.Destroy()
	glfw.Terminate()
	return nil
}

// platformPollEvents runs pending GLFW callbacks.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PollEvents
func platformPollEvents(w *engineWindow) {
	if platformIsRunningCheck(w) {
		glfw.PollEvents()
	}
}

func platformSetCursorLocked(w *engineWindow, locked bool) {
	gw := platformWindow(w)
	if gw == nil {
		return
	}
	mode := glfw.CursorNormal
	if locked {
		mode = glfw.CursorDisabled
	}
	gw.window.SetInputMode(glfw.CursorMode, mode)
	if locked && glfw.RawMouseMotionSupported() {
		gw.window.SetInputMode(glfw.RawMouseMotion, glfw.True)
	}
}

func platformSetSize(w *engineWindow, width, height int) {
	if gw := platformWindow(w); gw != nil {
		gw.window.SetSize(width, height)
	}
}
