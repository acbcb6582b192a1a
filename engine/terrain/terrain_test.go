package terrain

import (
	"bytes"
	"encoding/binary"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-frontier/common"
	"github.com/Carmen-Shannon/oxy-frontier/engine/collision"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallFlat is 100 units wide, 2x2 patches of 10x10 cells, so samples sit every 5 units.
func smallFlat(options ...TerrainBuilderOption) Terrain {
	return NewTerrain(append([]TerrainBuilderOption{WithSize(100), WithPatchCount(2), WithResolution(10)}, options...)...)
}

func box(minY, height float32) collision.AABB {
	return collision.AABB{Min: mgl32.Vec3{-1, minY, -1}, Max: mgl32.Vec3{1, minY + height, 1}}
}

func TestHeightAt(t *testing.T) {
	tr := smallFlat(WithHeightFunc(func(x, z float32) float32 { return 0.1*x + 0.2*z }))
	h, ok := tr.HeightAt(2.5, 0)
	require.True(t, ok)
	assert.InDelta(t, 0.25, h, 1e-5)

	h, ok = tr.HeightAt(-37, 12)
	require.True(t, ok)
	assert.InDelta(t, -3.7+2.4, h, 1e-4)

	h, ok = tr.HeightAt(50, 50)
	require.True(t, ok, "far edge is on the terrain")
	assert.InDelta(t, 15, h, 1e-4)

	_, ok = tr.HeightAt(51, 0)
	assert.False(t, ok)
}

func TestCollisionClassification(t *testing.T) {
	tr := smallFlat()

	res, dh := tr.Collision(box(-0.5, 2), 1)
	assert.Equal(t, ResolvedCollision, res)
	assert.InDelta(t, 0.5, dh, 1e-6)

	res, _ = tr.Collision(box(0, 2), 1)
	assert.Equal(t, Collision, res, "a box resting on the ground cannot sink further")

	res, dh = tr.Collision(box(2, 2), 1)
	assert.Equal(t, Airborne, res)
	assert.InDelta(t, -2, dh, 1e-6)

	res, dh = tr.Collision(box(0, 2).Translated(mgl32.Vec3{1000, 0, 0}), 1)
	assert.Equal(t, Airborne, res)
	assert.Equal(t, float32(0), dh)
}

func TestCollisionTallStep(t *testing.T) {
	tr := smallFlat(WithHeightFunc(func(x, _ float32) float32 {
		if x > 0 {
			return 3
		}
		return 0
	}))

	wall := collision.AABB{Min: mgl32.Vec3{-1, 0, -1}, Max: mgl32.Vec3{6, 2, 1}}
	res, dh := tr.Collision(wall, 1)
	assert.Equal(t, Collision, res)
	assert.Greater(t, dh, float32(1))

	// the same step is resolvable with a larger allowance
	res, dh = tr.Collision(wall, 5)
	assert.Equal(t, ResolvedCollision, res)
	assert.InDelta(t, 3, dh, 1e-6)
}

func TestRayIntersection(t *testing.T) {
	tr := smallFlat()
	d, ok := tr.RayIntersection(collision.Ray{Origin: mgl32.Vec3{0, 10, 0}, Dir: mgl32.Vec3{0, -1, 0}})
	require.True(t, ok)
	assert.InDelta(t, 10, d, 1e-3)

	d, ok = tr.RayIntersection(collision.Ray{Origin: mgl32.Vec3{0, 10, 0}, Dir: mgl32.Vec3{1, -1, 0}})
	require.True(t, ok)
	assert.InDelta(t, 10*math32.Sqrt2, d, 1e-3)

	_, ok = tr.RayIntersection(collision.Ray{Origin: mgl32.Vec3{0, 10, 0}, Dir: mgl32.Vec3{0, 1, 0}})
	assert.False(t, ok)
	_, ok = tr.RayIntersection(collision.Ray{Origin: mgl32.Vec3{500, 10, 0}, Dir: mgl32.Vec3{0, -1, 0}})
	assert.False(t, ok)
}

func TestToolEdit(t *testing.T) {
	tr := smallFlat()
	tr.ToolEdit(mgl32.Vec3{0, 0, 0}, 6, 2)

	h, _ := tr.HeightAt(0, 0)
	assert.InDelta(t, 2, h, 1e-6)
	h, _ = tr.HeightAt(5, 0)
	assert.InDelta(t, 2, h, 1e-6)
	h, _ = tr.HeightAt(10, 0)
	assert.InDelta(t, 0, h, 1e-6)

	for id := 0; id < 4; id++ {
		b := tr.PatchBounds(id)
		assert.Equal(t, float32(0), b.Min.Y())
		assert.Equal(t, float32(2), b.Max.Y(), "patch %d touches the origin", id)
	}

	res, dh := tr.Collision(box(0, 2), 5)
	assert.Equal(t, ResolvedCollision, res)
	assert.InDelta(t, 2, dh, 1e-6)
}

func TestPatchBoundsAndVisibility(t *testing.T) {
	tr := smallFlat()
	b := tr.PatchBounds(3)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, b.Min)
	assert.Equal(t, mgl32.Vec3{50, 0, 50}, b.Max)

	everywhere := common.Plane{0, 0, 0, 1}
	f := common.Frustum{Planes: [6]common.Plane{{-1, 0, 0, -1}, everywhere, everywhere, everywhere, everywhere, everywhere}}
	assert.Equal(t, []int{0, 2}, tr.VisiblePatches(f))
}

func TestToggles(t *testing.T) {
	tr := smallFlat()
	assert.False(t, tr.Wireframe())
	tr.ToggleWireframe()
	assert.True(t, tr.Wireframe())
	assert.True(t, tr.LodEnabled())
	tr.ToggleLod()
	assert.False(t, tr.LodEnabled())
}

func TestSaveLoad(t *testing.T) {
	tr := smallFlat(WithHeightFunc(func(x, z float32) float32 { return x * z * 0.01 }))
	var buf bytes.Buffer
	require.NoError(t, tr.Save(&buf))
	assert.Equal(t, 12+8+4*8+8+4*11*11*4, buf.Len())

	loaded, err := Load(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, tr.Size(), loaded.Size())
	assert.Equal(t, 2, loaded.PatchCount())
	assert.Equal(t, 10, loaded.Resolution())
	for _, p := range []mgl32.Vec2{{3, 7}, {-20, 41}, {49, -49}} {
		want, _ := tr.HeightAt(p.X(), p.Y())
		got, ok := loaded.HeightAt(p.X(), p.Y())
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, tr.PatchBounds(1), loaded.PatchBounds(1))

	path := filepath.Join(t.TempDir(), "terrain.bin")
	require.NoError(t, SaveFile(tr, path))
	fromFile, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, tr.PatchBounds(2), fromFile.PatchBounds(2))
}

func TestLoadRejectsBadCounts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, fileHeader{Size: 10, PatchCount: 2, Res: 4}))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(3)))
	_, err := Load(&buf)
	assert.True(t, errors.Is(err, ErrCorrupt))

	_, err = Load(bytes.NewReader([]byte{1, 2}))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}
