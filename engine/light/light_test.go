package light

import (
	"bytes"
	"testing"

	"github.com/Carmen-Shannon/oxy-frontier/common"
	"github.com/Carmen-Shannon/oxy-frontier/engine/timer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = float32(86400)

func TestSunPeaksAtHourAngleZero(t *testing.T) {
	p := DefaultSunParams()
	peak := ComputeSun(p, p.LSTOffset(), day).Visual.Y()
	for tod := float32(0); tod < day; tod += 600 {
		assert.LessOrEqual(t, ComputeSun(p, tod, day).Visual.Y(), peak+1e-5)
	}
	// 52.33N with 23 degrees declination culminates at 60.67 degrees.
	assert.InDelta(t, 0.8716, peak, 1e-3)
}

func TestSunNearPeakLateMorning(t *testing.T) {
	p := DefaultSunParams()
	peak := ComputeSun(p, p.LSTOffset(), day).Visual.Y()
	morning := ComputeSun(p, 11*3600, day)
	assert.Greater(t, morning.Visual.Y(), 0.8*peak)
	assert.Equal(t, float32(1), morning.Visible)
	assert.Equal(t, p.Intensity, morning.Intensity)
	assert.True(t, common.ApproxEqualVec3(morning.Dir, morning.Visual.Mul(-1), 1e-6))
}

func TestSunFadesBelowRadius(t *testing.T) {
	p := DefaultSunParams()
	// Walk from evening toward midnight; the sun sinks monotonically after culmination.
	prevY := float32(2)
	prevI := float32(2)
	sawSoftening := false
	for tod := p.LSTOffset(); tod < day; tod += 60 {
		s := ComputeSun(p, tod, day)
		require.Less(t, s.Visual.Y(), prevY)
		prevY = s.Visual.Y()
		if s.Visual.Y() >= p.Radius {
			continue
		}
		if s.Visual.Y() <= -p.Radius {
			assert.InDelta(t, 0, s.Intensity, 1e-6)
			break
		}
		sawSoftening = true
		assert.Less(t, s.Intensity, prevI)
		assert.Greater(t, s.Intensity, float32(0))
		prevI = s.Intensity
	}
	assert.True(t, sawSoftening)
}

func TestSunContinuousAtThreshold(t *testing.T) {
	p := DefaultSunParams()
	// Visible fraction is 1 exactly at the radius and falls smoothly below it.
	var s SunState
	for tod := p.LSTOffset(); tod < day; tod += 1 {
		s = ComputeSun(p, tod, day)
		if s.Visual.Y() < p.Radius {
			break
		}
	}
	assert.InDelta(t, p.Intensity, s.Intensity, 1e-2)
}

func TestSunFollowsClock(t *testing.T) {
	clock := timer.NewDayClock(timer.WithTimeOfDay(14 * 3600))
	sun := NewSun(clock)
	noon := sun.State()
	clock.SetTimeOfDay(2 * 3600)
	sun.Update()
	assert.Less(t, sun.State().Visual.Y(), noon.Visual.Y())

	dl := sun.DirLight()
	assert.Equal(t, sun.State().Dir, dl.Dir)
	assert.Equal(t, uint32(ShadowMapResolution), dl.ShadowMapResX)
}

func TestPointLightRecordRoundTrip(t *testing.T) {
	pl := DefaultPointLight(mgl32.Vec3{1, 2, 3})
	var buf bytes.Buffer
	n, err := pl.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(PointLightRecordSize), n)
	assert.Equal(t, PointLightRecordSize, buf.Len())

	got, err := ReadPointLight(&buf)
	require.NoError(t, err)
	assert.Equal(t, pl, got)

	_, err = ReadPointLight(bytes.NewReader([]byte{1, 2, 3}))
	assert.Error(t, err)
}

func TestAttenuation(t *testing.T) {
	pl := DefaultPointLight(mgl32.Vec3{})
	assert.InDelta(t, 1, pl.Attenuation(0), 1e-6)
	assert.Less(t, pl.Attenuation(10), pl.Attenuation(5))
	assert.Equal(t, float32(0), pl.Attenuation(21))
}

func TestCullPointLights(t *testing.T) {
	f := common.Frustum{Planes: [6]common.Plane{
		{0, 0, 1, 0},   // z >= 0
		{0, 0, -1, 10}, // z <= 10
		{1, 0, 0, 5},
		{-1, 0, 0, 5},
		{0, -1, 0, 5},
		{0, 1, 0, 5},
	}}
	lights := []PointLight{
		{Pos: mgl32.Vec3{0, 0, 5}, MaxDistance: 1},
		{Pos: mgl32.Vec3{0, 0, -5}, MaxDistance: 1},
		{Pos: mgl32.Vec3{0, 0, -5}, MaxDistance: 6},
	}
	assert.Equal(t, []int{0, 2}, CullPointLights(lights, f))
}

func TestShadowViewProjCentersTarget(t *testing.T) {
	center := mgl32.Vec3{3, 0, 4}
	m := ShadowViewProj(mgl32.Vec3{0, -1, 0}, center, 10, 0.1, 200)
	clip := m.Mul4x1(center.Vec4(1))
	assert.InDelta(t, 0, clip.X(), 1e-4)
	assert.InDelta(t, 0, clip.Y(), 1e-4)
	assert.InDelta(t, 0.03, NormalBias(10, 3, 2048), 1e-3)
}
