// Package terrain implements a patch based heightfield with collision queries, ray picking,
// editing and a binary file format.
package terrain

import (
	"io"
	"sync"

	"github.com/Carmen-Shannon/oxy-frontier/common"
	"github.com/Carmen-Shannon/oxy-frontier/engine/collision"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultSize       float32 = 200
	DefaultPatchCount         = 4
	DefaultResolution         = 64

	// ContactEpsilon is the height band within which a box counts as resting on the ground.
	ContactEpsilon float32 = 1e-4

	// bisectSteps refines a ray hit once the march has bracketed the surface.
	bisectSteps = 24
)

// CollisionResult classifies a box against the terrain surface.
type CollisionResult uint8

const (
	// Airborne means the box is above the surface or off the terrain.
	Airborne CollisionResult = iota
	// Collision means the box rests on the surface or hits a step taller than allowed.
	Collision
	// ResolvedCollision means the box penetrates the surface by a correctable amount.
	ResolvedCollision
)

func (r CollisionResult) String() string {
	switch r {
	case Airborne:
		return "Airborne"
	case Collision:
		return "Collision"
	case ResolvedCollision:
		return "ResolvedCollision"
	default:
		return "Unknown"
	}
}

type terrainImpl struct {
	mu *sync.Mutex

	size       float32
	patchCount int
	res        int
	x0, z0     float32
	patchSize  float32

	// heights is patch major: patch id, then row vz, then column vx. Patch borders are stored in both patches.
	heights    []float32
	boundingYs []mgl32.Vec2

	wireframe bool
	lod       bool
}

// Terrain is a square heightfield centered on the origin, split into patchCount² patches of
// (res+1)² samples each.
type Terrain interface {
	// Size returns the edge length in world units.
	Size() float32

	// PatchCount returns the number of patches along one edge.
	PatchCount() int

	// Resolution returns the number of cells along one patch edge.
	Resolution() int

	// PatchSize returns the edge length of one patch.
	PatchSize() float32

	// HeightAt returns the bilinearly interpolated surface height.
	//
	// Parameters:
	//   - x, z: world coordinates
	//
	// Returns:
	//   - float32: the height
	//   - bool: false if the point lies outside the terrain
	HeightAt(x, z float32) (float32, bool)

	// Collision classifies box against the surface. dh is the largest surface height above the
	// bottom of the box over the sampled points, so a positive dh lifts the box onto the surface.
	//
	// Parameters:
	//   - box: the world space box
	//   - maxDh: the tallest step that can be resolved by lifting
	//
	// Returns:
	//   - CollisionResult: the classification
	//   - float32: the height correction
	Collision(box collision.AABB, maxDh float32) (CollisionResult, float32)

	// RayIntersection returns the distance along the normalized ray to the first surface hit.
	RayIntersection(r collision.Ray) (float32, bool)

	// ToolEdit raises every sample within radius of center by dh.
	ToolEdit(center mgl32.Vec3, radius, dh float32)

	// PatchBounds returns the world space bounds of patch id.
	PatchBounds(id int) collision.AABB

	// VisiblePatches returns the ids of patches at least partially inside f.
	VisiblePatches(f common.Frustum) []int

	// Save writes the terrain in its binary file format.
	//
	// Parameters:
	//   - w: the destination
	//
	// Returns:
	//   - error: if writing fails
	Save(w io.Writer) error

	Wireframe() bool
	ToggleWireframe()
	LodEnabled() bool
	ToggleLod()
}

var _ Terrain = &terrainImpl{}

// NewTerrain creates a terrain. Without WithHeightFunc it is flat at height 0.
//
// Parameters:
//   - options: functional options to configure the terrain
//
// Returns:
//   - Terrain: the newly created terrain
func NewTerrain(options ...TerrainBuilderOption) Terrain {
	b := &builder{
		size:       DefaultSize,
		patchCount: DefaultPatchCount,
		res:        DefaultResolution,
	}
	for _, option := range options {
		option(b)
	}
	t := newTerrain(b.size, b.patchCount, b.res)
	if b.height != nil {
		for id := 0; id < t.patchCount*t.patchCount; id++ {
			for vz := 0; vz <= t.res; vz++ {
				for vx := 0; vx <= t.res; vx++ {
					p := t.vertexPos(id, vx, vz)
					t.heights[t.index(id, vx, vz)] = b.height(p.X(), p.Z())
				}
			}
		}
	}
	for id := range t.boundingYs {
		t.recomputeBounds(id)
	}
	return t
}

func newTerrain(size float32, patchCount, res int) *terrainImpl {
	n := patchCount * patchCount
	return &terrainImpl{
		mu:         &sync.Mutex{},
		size:       size,
		patchCount: patchCount,
		res:        res,
		x0:         -0.5 * size,
		z0:         -0.5 * size,
		patchSize:  size / float32(patchCount),
		heights:    make([]float32, n*(res+1)*(res+1)),
		boundingYs: make([]mgl32.Vec2, n),
		lod:        true,
	}
}

func (t *terrainImpl) index(id, vx, vz int) int {
	return id*(t.res+1)*(t.res+1) + vz*(t.res+1) + vx
}

func (t *terrainImpl) step() float32 {
	return t.patchSize / float32(t.res)
}

func (t *terrainImpl) vertexPos(id, vx, vz int) mgl32.Vec3 {
	px, pz := id%t.patchCount, id/t.patchCount
	return mgl32.Vec3{
		t.x0 + t.patchSize*float32(px) + t.step()*float32(vx),
		t.heights[t.index(id, vx, vz)],
		t.z0 + t.patchSize*float32(pz) + t.step()*float32(vz),
	}
}

// globalHeight returns the height of global grid vertex (gx, gz), gx and gz in [0, patchCount*res].
func (t *terrainImpl) globalHeight(gx, gz int) float32 {
	px := min(gx/t.res, t.patchCount-1)
	pz := min(gz/t.res, t.patchCount-1)
	return t.heights[t.index(pz*t.patchCount+px, gx-px*t.res, gz-pz*t.res)]
}

func (t *terrainImpl) recomputeBounds(id int) {
	base := t.index(id, 0, 0)
	lo, hi := t.heights[base], t.heights[base]
	for _, h := range t.heights[base : base+(t.res+1)*(t.res+1)] {
		lo = min(lo, h)
		hi = max(hi, h)
	}
	t.boundingYs[id] = mgl32.Vec2{lo, hi}
}

func (t *terrainImpl) Size() float32 { return t.size }

func (t *terrainImpl) PatchCount() int { return t.patchCount }

func (t *terrainImpl) Resolution() int { return t.res }

func (t *terrainImpl) PatchSize() float32 { return t.patchSize }

func (t *terrainImpl) HeightAt(x, z float32) (float32, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.heightAt(x, z)
}

func (t *terrainImpl) heightAt(x, z float32) (float32, bool) {
	n := t.patchCount * t.res
	gx := (x - t.x0) / t.step()
	gz := (z - t.z0) / t.step()
	if gx < 0 || gz < 0 || gx > float32(n) || gz > float32(n) {
		return 0, false
	}
	ix := min(int(gx), n-1)
	iz := min(int(gz), n-1)
	fx, fz := gx-float32(ix), gz-float32(iz)

	h00 := t.globalHeight(ix, iz)
	h10 := t.globalHeight(ix+1, iz)
	h01 := t.globalHeight(ix, iz+1)
	h11 := t.globalHeight(ix+1, iz+1)
	top := h00 + (h10-h00)*fx
	bottom := h01 + (h11-h01)*fx
	return top + (bottom-top)*fz, true
}

func (t *terrainImpl) Collision(box collision.AABB, maxDh float32) (CollisionResult, float32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	dh := float32(-math32.MaxFloat32)
	found := false
	// sample reports true once the step is too tall to resolve.
	sample := func(h float32) bool {
		found = true
		dh = max(dh, h-box.Min.Y())
		return dh > maxDh
	}

	n := t.patchCount * t.res
	step := t.step()
	gx0 := max(0, int(math32.Ceil((box.Min.X()-t.x0)/step)))
	gx1 := min(n, int(math32.Floor((box.Max.X()-t.x0)/step)))
	gz0 := max(0, int(math32.Ceil((box.Min.Z()-t.z0)/step)))
	gz1 := min(n, int(math32.Floor((box.Max.Z()-t.z0)/step)))
	for gz := gz0; gz <= gz1; gz++ {
		for gx := gx0; gx <= gx1; gx++ {
			if sample(t.globalHeight(gx, gz)) {
				return Collision, dh
			}
		}
	}

	c := box.Center()
	for _, p := range [5]mgl32.Vec2{
		{box.Min.X(), box.Min.Z()},
		{box.Min.X(), box.Max.Z()},
		{box.Max.X(), box.Min.Z()},
		{box.Max.X(), box.Max.Z()},
		{c.X(), c.Z()},
	} {
		if h, ok := t.heightAt(p.X(), p.Y()); ok && sample(h) {
			return Collision, dh
		}
	}

	switch {
	case !found:
		return Airborne, 0
	case dh < -ContactEpsilon:
		return Airborne, dh
	case dh <= ContactEpsilon:
		return Collision, dh
	default:
		return ResolvedCollision, dh
	}
}

// worldBounds returns the box enclosing the whole terrain.
func (t *terrainImpl) worldBounds() collision.AABB {
	lo, hi := t.boundingYs[0][0], t.boundingYs[0][1]
	for _, b := range t.boundingYs[1:] {
		lo = min(lo, b[0])
		hi = max(hi, b[1])
	}
	return collision.AABB{
		Min: mgl32.Vec3{t.x0, lo, t.z0},
		Max: mgl32.Vec3{t.x0 + t.size, hi, t.z0 + t.size},
	}
}

func (t *terrainImpl) RayIntersection(r collision.Ray) (float32, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	r = r.Normalized()
	bounds := t.worldBounds()
	// pad so flat terrain still gives the ray a slab to cross
	bounds.Min[1] -= 1
	bounds.Max[1] += 1
	enter, ok := r.IntersectAABB(bounds)
	if !ok {
		return 0, false
	}

	above := func(d float32) (float32, bool) {
		p := r.At(d)
		h, ok := t.heightAt(p.X(), p.Z())
		return p.Y() - h, ok
	}
	if f, ok := above(enter); ok && f <= 0 {
		return enter, true
	}

	step := t.step() * 0.5
	steps := int(bounds.Max.Sub(bounds.Min).Len()/step) + 1
	prev := enter
	for i := 1; i <= steps; i++ {
		d := enter + float32(i)*step
		if f, ok := above(d); ok && f <= 0 {
			lo, hi := prev, d
			for j := 0; j < bisectSteps; j++ {
				mid := 0.5 * (lo + hi)
				if fm, _ := above(mid); fm > 0 {
					lo = mid
				} else {
					hi = mid
				}
			}
			return hi, true
		}
		prev = d
	}
	return 0, false
}

func (t *terrainImpl) ToolEdit(center mgl32.Vec3, radius, dh float32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id := range t.boundingYs {
		b := t.patchBounds(id)
		if center.X()+radius < b.Min.X() || center.X()-radius > b.Max.X() ||
			center.Z()+radius < b.Min.Z() || center.Z()-radius > b.Max.Z() {
			continue
		}
		touched := false
		for vz := 0; vz <= t.res; vz++ {
			for vx := 0; vx <= t.res; vx++ {
				if t.vertexPos(id, vx, vz).Sub(center).Len() <= radius {
					t.heights[t.index(id, vx, vz)] += dh
					touched = true
				}
			}
		}
		if touched {
			t.recomputeBounds(id)
		}
	}
}

func (t *terrainImpl) patchBounds(id int) collision.AABB {
	px, pz := id%t.patchCount, id/t.patchCount
	x := t.x0 + t.patchSize*float32(px)
	z := t.z0 + t.patchSize*float32(pz)
	return collision.AABB{
		Min: mgl32.Vec3{x, t.boundingYs[id][0], z},
		Max: mgl32.Vec3{x + t.patchSize, t.boundingYs[id][1], z + t.patchSize},
	}
}

func (t *terrainImpl) PatchBounds(id int) collision.AABB {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.patchBounds(id)
}

func (t *terrainImpl) VisiblePatches(f common.Frustum) []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	var ids []int
	for id := range t.boundingYs {
		b := t.patchBounds(id)
		if f.IntersectsAABB(b.Min, b.Max) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (t *terrainImpl) Wireframe() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.wireframe
}

func (t *terrainImpl) ToggleWireframe() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.wireframe = !t.wireframe
}

func (t *terrainImpl) LodEnabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lod
}

func (t *terrainImpl) ToggleLod() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lod = !t.lod
}
