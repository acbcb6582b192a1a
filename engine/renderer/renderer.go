package renderer

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-frontier/common"
	"github.com/Carmen-Shannon/oxy-frontier/engine/light"
)

// UiRenderer is the part of the renderer used by GUI widgets.
type UiRenderer interface {
	// RequestVertexBufferAllocation reserves a vertex buffer for count UI quads.
	//
	// Parameters:
	//   - count: number of UiVertex entries the buffer must hold
	//
	// Returns:
	//   - Allocation: the buffer handle
	RequestVertexBufferAllocation(count int) Allocation

	// UpdateVertexData replaces the contents of an allocation. Data beyond the allocation's
	// capacity is dropped.
	//
	// Parameters:
	//   - a: the allocation
	//   - v: the vertices
	UpdateVertexData(a Allocation, v []UiVertex)

	// DrawUi stages a draw of the first count vertices of an allocation, clipped to scissor.
	//
	// Parameters:
	//   - mode: rect or font
	//   - a: the allocation
	//   - count: number of vertices to draw
	//   - scissor: clip rectangle
	DrawUi(mode UiDrawMode, a Allocation, count int, scissor common.Quad)
}

// SceneRenderer is the part of the renderer used by the scene.
type SceneRenderer interface {
	// SetDirLight sets the single directional light.
	SetDirLight(l light.DirLight)

	// AddPointLight registers a static point light.
	//
	// Parameters:
	//   - l: the light
	//
	// Returns:
	//   - int: the light id
	AddPointLight(l light.PointLight) int

	// UpdatePointLight replaces a registered point light.
	//
	// Parameters:
	//   - id: the light id
	//   - l: the new light
	//
	// Returns:
	//   - error: if id is unknown
	UpdatePointLight(id int, l light.PointLight) error

	// RemovePointLight unregisters a point light. Unknown ids are ignored.
	RemovePointLight(id int)

	// Submit hands the frame's scene snapshot to the renderer. The latest submission wins.
	Submit(d RenderData)
}

type renderer struct {
	mu *sync.Mutex

	backend RendererBackend

	buffers    map[uint32][]UiVertex
	dirtyBufs  map[uint32]bool
	nextAlloc  uint32
	uiDraws    []UiDraw
	pointLight map[int]light.PointLight
	nextLight  int
	dirLight   light.DirLight
	scene      *RenderData

	clearColor  common.Color
	presentMode PresentMode
	width       int
	height      int
	frame       uint64
	stats       FrameStats
	inFrame     bool
}

// Renderer stages UI and scene data for a frame and hands it to a RendererBackend.
type Renderer interface {
	UiRenderer
	SceneRenderer

	// BeginFrame starts staging a new frame.
	//
	// Returns:
	//   - error: if the previous frame was not ended
	BeginFrame() error

	// EndFrame uploads the staged frame through the backend and presents it.
	//
	// Returns:
	//   - error: if no frame is in progress or the backend fails to present
	EndFrame() error

	// Resize reconfigures the surface.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// Size returns the current surface size.
	Size() (width, height int)

	// SetPresentMode changes the present mode and reconfigures the surface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// PresentMode returns the current present mode.
	PresentMode() PresentMode

	// PointLights returns the registered point lights sorted by id.
	PointLights() []light.PointLight

	// LastFrame returns statistics for the most recently ended frame.
	LastFrame() FrameStats

	// Release frees the backend.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer over a backend and configures the surface.
//
// Parameters:
//   - backend: the GPU backend
//   - width, height: initial surface size in pixels
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the newly created renderer
func NewRenderer(backend RendererBackend, width, height int, options ...RendererBuilderOption) Renderer {
	if backend == nil {
		panic("renderer: NewRenderer requires a non-nil RendererBackend")
	}
	r := &renderer{
		mu:          &sync.Mutex{},
		backend:     backend,
		buffers:     make(map[uint32][]UiVertex),
		dirtyBufs:   make(map[uint32]bool),
		pointLight:  make(map[int]light.PointLight),
		clearColor:  common.Color{0.1, 0.1, 0.1, 1},
		presentMode: PresentModeVSync,
		width:       width,
		height:      height,
	}
	for _, opt := range options {
		opt(r)
	}
	r.backend.SetPresentMode(r.presentMode)
	r.backend.ConfigureSurface(width, height)
	return r
}

func (r *renderer) RequestVertexBufferAllocation(count int) Allocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextAlloc++
	a := Allocation{ID: r.nextAlloc, Capacity: count}
	r.buffers[a.ID] = make([]UiVertex, 0, count)
	if count > 0 {
		if err := r.backend.CreateVertexBuffer(a.ID, uint64(count*UiVertexSize)); err != nil {
			slog.Warn("ui vertex buffer allocation failed", "component", "renderer", "id", a.ID, "err", err)
		}
	}
	return a
}

func (r *renderer) UpdateVertexData(a Allocation, v []UiVertex) {
	r.mu.Lock()
	defer r.mu.Unlock()
	buf, ok := r.buffers[a.ID]
	if !ok {
		return
	}
	n := min(len(v), a.Capacity)
	buf = append(buf[:0], v[:n]...)
	r.buffers[a.ID] = buf
	r.dirtyBufs[a.ID] = true
}

func (r *renderer) DrawUi(mode UiDrawMode, a Allocation, count int, scissor common.Quad) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.buffers[a.ID]; !ok || count <= 0 {
		return
	}
	r.uiDraws = append(r.uiDraws, UiDraw{Mode: mode, Alloc: a, Count: min(count, a.Capacity), Scissor: scissor})
}

func (r *renderer) SetDirLight(l light.DirLight) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dirLight = l
}

func (r *renderer) AddPointLight(l light.PointLight) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextLight
	r.nextLight++
	r.pointLight[id] = l
	return id
}

func (r *renderer) UpdatePointLight(id int, l light.PointLight) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pointLight[id]; !ok {
		return fmt.Errorf("renderer: unknown point light %d", id)
	}
	r.pointLight[id] = l
	return nil
}

func (r *renderer) RemovePointLight(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pointLight, id)
}

func (r *renderer) Submit(d RenderData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scene = &d
	r.dirLight = d.Sun
}

func (r *renderer) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inFrame {
		return fmt.Errorf("renderer: previous frame not ended")
	}
	r.inFrame = true
	r.uiDraws = r.uiDraws[:0]
	r.scene = nil
	return nil
}

func (r *renderer) EndFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.inFrame {
		return fmt.Errorf("renderer: EndFrame without BeginFrame")
	}
	r.inFrame = false

	sky := r.clearColor
	stats := FrameStats{Frame: r.frame + 1, UiDraws: len(r.uiDraws)}
	if r.scene != nil {
		sky = r.scene.SkyColor
		u := r.scene.Camera
		r.backend.WriteUniform(u.Marshal())
		stats.Objects = len(r.scene.Objects)
		stats.TerrainPatches = len(r.scene.TerrainPatches)
		stats.PointLights = len(r.scene.PointLights)
	}
	for id := range r.dirtyBufs {
		r.backend.WriteVertexBuffer(id, MarshalUiVertices(r.buffers[id]))
		delete(r.dirtyBufs, id)
	}
	for _, d := range r.uiDraws {
		stats.UiVertices += d.Count
	}

	if err := r.backend.RenderPass(sky); err != nil {
		return fmt.Errorf("renderer: failed to present frame: %w", err)
	}
	r.frame++
	r.stats = stats
	return nil
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presentMode = mode
	r.backend.SetPresentMode(mode)
	r.backend.ConfigureSurface(r.width, r.height)
}

func (r *renderer) PresentMode() PresentMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.presentMode
}

func (r *renderer) PointLights() []light.PointLight {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int, 0, len(r.pointLight))
	for id := range r.pointLight {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]light.PointLight, len(ids))
	for i, id := range ids {
		out[i] = r.pointLight[id]
	}
	return out
}

func (r *renderer) LastFrame() FrameStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Release()
}
