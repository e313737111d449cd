package main

import (
	"math"
	"testing"
)

func TestProceduralSkybox_Dimensions(t *testing.T) {
	s := proceduralSkybox()
	if s.width != proceduralSkyW || s.height != proceduralSkyH {
		t.Errorf("Skybox is %dx%d, want %dx%d", s.width, s.height, proceduralSkyW, proceduralSkyH)
	}
	if len(s.pixels) != s.width*s.height*3 {
		t.Errorf("Pixel buffer holds %d floats, want %d", len(s.pixels), s.width*s.height*3)
	}
}

func TestSkybox_SampleHemispheres(t *testing.T) {
	s := proceduralSkybox()
	up := s.sample(vec3{0, 1, 0})
	down := s.sample(vec3{0, -1, 0})

	// The zenith is sky colored, the nadir ground colored and darker.
	if up.z <= up.x {
		t.Errorf("Zenith sample %v does not look like sky (blue should dominate)", up)
	}
	upLum := up.x + up.y + up.z
	downLum := down.x + down.y + down.z
	if downLum >= upLum {
		t.Errorf("Nadir luminance %v not darker than zenith %v", downLum, upLum)
	}
}

func TestSkybox_SampleNeverPanics(t *testing.T) {
	s := proceduralSkybox()
	dirs := []vec3{
		{0, 1, 0}, {0, -1, 0}, {1, 0, 0}, {-1, 0, 0}, {0, 0, 1}, {0, 0, -1},
		vec3{0.3, 0.8, -0.5}.normalize(),
	}
	for _, d := range dirs {
		c := s.sample(d)
		if math.IsNaN(c.x) || math.IsNaN(c.y) || math.IsNaN(c.z) {
			t.Errorf("Sample along %v produced NaN: %v", d, c)
		}
	}
}

func TestSRGBToLinear_Endpoints(t *testing.T) {
	if got := srgbToLinear(0); got != 0 {
		t.Errorf("srgbToLinear(0) = %v, want 0", got)
	}
	if got := srgbToLinear(1); math.Abs(float64(got)-1) > 1e-6 {
		t.Errorf("srgbToLinear(1) = %v, want 1", got)
	}
	// The linear segment meets the power segment continuously.
	below := float64(srgbToLinear(0.04044))
	above := float64(srgbToLinear(0.04046))
	if math.Abs(above-below) > 1e-4 {
		t.Errorf("Discontinuity at the sRGB knee: %v vs %v", below, above)
	}
}
