package renderer

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-frontier/common"
)

type recorderBackendImpl struct {
	mu *sync.Mutex

	width, height int
	presentMode   PresentMode
	configured    int
	frames        int
	lastClear     common.Color
	uniform       []byte
	vertexBuffers map[uint32][]byte
	released      bool
}

// RecorderBackend is an in-memory RendererBackend that records every call. It backs
// headless runs and tests.
type RecorderBackend interface {
	RendererBackend

	// Frames returns the number of presented frames.
	Frames() int

	// LastClear returns the clear color of the most recent frame.
	LastClear() common.Color

	// SurfaceSize returns the last configured surface size.
	SurfaceSize() (width, height int)

	// Configured returns how many times the surface was configured.
	Configured() int

	// CurrentPresentMode returns the last present mode set.
	CurrentPresentMode() PresentMode

	// Uniform returns a copy of the last uploaded camera uniform.
	Uniform() []byte

	// VertexBuffer returns a copy of the bytes last written to a UI vertex buffer.
	VertexBuffer(id uint32) []byte

	// Released reports whether Release was called.
	Released() bool
}

var _ RecorderBackend = &recorderBackendImpl{}

// NewRecorderBackend creates an empty RecorderBackend.
func NewRecorderBackend() RecorderBackend {
	return &recorderBackendImpl{
		mu:            &sync.Mutex{},
		vertexBuffers: make(map[uint32][]byte),
	}
}

func (b *recorderBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width, b.height = width, height
	b.configured++
}

func (b *recorderBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.presentMode = mode
}

func (b *recorderBackendImpl) CreateVertexBuffer(id uint32, size uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.vertexBuffers[id] = make([]byte, 0, size)
	return nil
}

func (b *recorderBackendImpl) WriteVertexBuffer(id uint32, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.vertexBuffers[id] = append([]byte(nil), data...)
}

func (b *recorderBackendImpl) WriteUniform(data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uniform = append(b.uniform[:0], data...)
}

func (b *recorderBackendImpl) RenderPass(clear common.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastClear = clear
	b.frames++
	return nil
}

func (b *recorderBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.released = true
}

func (b *recorderBackendImpl) Frames() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frames
}

func (b *recorderBackendImpl) LastClear() common.Color {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastClear
}

func (b *recorderBackendImpl) SurfaceSize() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *recorderBackendImpl) Configured() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.configured
}

func (b *recorderBackendImpl) CurrentPresentMode() PresentMode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.presentMode
}

func (b *recorderBackendImpl) Uniform() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.uniform...)
}

func (b *recorderBackendImpl) VertexBuffer(id uint32) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.vertexBuffers[id]...)
}

func (b *recorderBackendImpl) Released() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}
