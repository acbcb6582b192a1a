package light

import (
	"github.com/Carmen-Shannon/oxy-frontier/common"
)

// CullPointLights returns the indices of lights whose reach intersects the frustum.
// Each light is bounded by a sphere of radius MaxDistance around its position.
//
// Parameters:
//   - lights: the candidate lights
//   - f: the view frustum
//
// Returns:
//   - []int: indices into lights, in ascending order
func CullPointLights(lights []PointLight, f common.Frustum) []int {
	out := make([]int, 0, len(lights))
	for i, l := range lights {
		if f.IntersectsSphere(l.Pos, l.MaxDistance) {
			out = append(out, i)
		}
	}
	return out
}
