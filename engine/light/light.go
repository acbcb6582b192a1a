package light

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
)

// DirLight is a directional light with no position, such as the sun.
// Direction points from the light toward the scene.
type DirLight struct {
	Color          mgl32.Vec3
	Dir            mgl32.Vec3
	ShadowMapCount uint32
	ShadowMapResX  uint32
	ShadowMapResY  uint32
}

// PointLight emits in all directions from a position, attenuating with distance
// as power / (a0 + a1*d + a2*d*d) up to MaxDistance.
type PointLight struct {
	Color        mgl32.Vec3
	MaxDistance  float32
	Pos          mgl32.Vec3
	ShadowMapRes uint32
	A0           float32
	A1           float32
	A2           float32
	Power        float32
}

// PointLightRecordSize is the size in bytes of one serialized PointLight.
const PointLightRecordSize = 48

// DefaultPointLight returns a white light with a 20 unit reach and quadratic falloff.
func DefaultPointLight(pos mgl32.Vec3) PointLight {
	return PointLight{
		Color:        mgl32.Vec3{1, 1, 1},
		MaxDistance:  20,
		Pos:          pos,
		ShadowMapRes: 512,
		A0:           1,
		A1:           0.09,
		A2:           0.032,
		Power:        1,
	}
}

// Attenuation returns the light's intensity factor at distance d, zero beyond MaxDistance.
//
// Parameters:
//   - d: distance from the light
//
// Returns:
//   - float32: the attenuation factor
func (p PointLight) Attenuation(d float32) float32 {
	if d > p.MaxDistance {
		return 0
	}
	den := p.A0 + p.A1*d + p.A2*d*d
	if den <= 0 {
		return 0
	}
	return p.Power / den
}

// WriteTo writes the light as a fixed-size little-endian record.
//
// Parameters:
//   - w: destination writer
//
// Returns:
//   - int64: bytes written
//   - error: the first write error
func (p PointLight) WriteTo(w io.Writer) (int64, error) {
	if err := binary.Write(w, binary.LittleEndian, p); err != nil {
		return 0, fmt.Errorf("light: failed to write point light: %w", err)
	}
	return PointLightRecordSize, nil
}

// ReadPointLight reads one fixed-size record written by PointLight.WriteTo.
//
// Parameters:
//   - r: source reader
//
// Returns:
//   - PointLight: the decoded light
//   - error: if the record is truncated
func ReadPointLight(r io.Reader) (PointLight, error) {
	var p PointLight
	if err := binary.Read(r, binary.LittleEndian, &p); err != nil {
		return PointLight{}, fmt.Errorf("light: failed to read point light: %w", err)
	}
	return p, nil
}
