package renderer

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/oxy-frontier/common"
	"github.com/Carmen-Shannon/oxy-frontier/engine/camera"
	"github.com/Carmen-Shannon/oxy-frontier/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// UiDrawMode selects how a UI vertex range is drawn.
type UiDrawMode uint8

const (
	// DrawRect draws solid colored quads.
	DrawRect UiDrawMode = iota
	// DrawFont draws glyph quads sampled from the font texture array.
	DrawFont
)

// UiVertex is one instanced UI quad.
type UiVertex struct {
	TopLeft mgl32.Vec2
	Size    mgl32.Vec2
	Color   common.Color
	Layer   uint32
}

// UiVertexSize is the packed size of a UiVertex in bytes.
const UiVertexSize = 36

// Allocation identifies a UI vertex buffer owned by the renderer.
type Allocation struct {
	ID       uint32
	Capacity int
}

// Valid reports whether the allocation was returned by a renderer.
func (a Allocation) Valid() bool {
	return a.ID != 0
}

// UiDraw is one staged UI draw.
type UiDraw struct {
	Mode    UiDrawMode
	Alloc   Allocation
	Count   int
	Scissor common.Quad
}

// ObjectInstance is one visible object in a frame.
type ObjectInstance struct {
	ID    uint64
	Mesh  string
	Model mgl32.Mat4
	// Mode is the object's render mode, such as highlight or billboard.
	Mode uint32
}

// RenderData is an immutable snapshot of everything the scene contributes to one frame.
type RenderData struct {
	Camera         camera.GPUCameraUniform
	Sun            light.DirLight
	ShadowViewProj mgl32.Mat4
	SkyColor       common.Color
	Objects        []ObjectInstance
	TerrainPatches []int
	PointLights    []light.PointLight
	Wireframe      bool
}

// FrameStats summarizes the last completed frame.
type FrameStats struct {
	Frame          uint64
	UiDraws        int
	UiVertices     int
	Objects        int
	TerrainPatches int
	PointLights    int
}

// MarshalUiVertices packs vertices into little-endian bytes for GPU upload.
//
// Parameters:
//   - v: the vertices
//
// Returns:
//   - []byte: UiVertexSize bytes per vertex
func MarshalUiVertices(v []UiVertex) []byte {
	buf := make([]byte, 0, len(v)*UiVertexSize)
	for _, u := range v {
		for _, f := range [8]float32{u.TopLeft[0], u.TopLeft[1], u.Size[0], u.Size[1], u.Color[0], u.Color[1], u.Color[2], u.Color[3]} {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
		buf = binary.LittleEndian.AppendUint32(buf, u.Layer)
	}
	return buf
}
