package renderer

import (
	"github.com/Carmen-Shannon/oxy-frontier/common"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// RendererBackend is the GPU-facing half of the Renderer. The Renderer stages all frame
// data on the CPU and hands it to the backend once per frame from EndFrame.
type RendererBackend interface {
	// ConfigureSurface (re)creates the swapchain for a new surface size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the present mode used by the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// CreateVertexBuffer allocates a GPU vertex buffer for a UI allocation.
	//
	// Parameters:
	//   - id: the allocation id
	//   - size: buffer size in bytes
	//
	// Returns:
	//   - error: if the buffer cannot be created
	CreateVertexBuffer(id uint32, size uint64) error

	// WriteVertexBuffer uploads vertex bytes into a buffer created by CreateVertexBuffer.
	//
	// Parameters:
	//   - id: the allocation id
	//   - data: the vertex bytes
	WriteVertexBuffer(id uint32, data []byte)

	// WriteUniform uploads the camera uniform block.
	//
	// Parameters:
	//   - data: the uniform bytes
	WriteUniform(data []byte)

	// RenderPass acquires the next surface image, clears it, submits and presents.
	//
	// Parameters:
	//   - clear: the clear color
	//
	// Returns:
	//   - error: if the surface image cannot be acquired
	RenderPass(clear common.Color) error

	// Release frees all GPU resources.
	Release()
}
