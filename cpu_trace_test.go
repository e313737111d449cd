package main

import (
	"math"
	"math/rand"
	"testing"
)

// fixedJitterParams builds frame parameters with a deterministic camera,
// light, and jitter so two renders of the same scene are identical.
func fixedJitterParams(width, height int, spheres []sphere) *frameParams {
	cam := newOrbitCamera(vec3{0, 6, 0}, 100, 60)
	sun := newDirectionalLight(1.8)
	p := assembleFrameParams(cam, sun, proceduralSkybox(), spheres, packSpheres(spheres), 1,
		width, height, rand.New(rand.NewSource(1)))
	p.jitter = [2]float32{0.5, 0.5}
	return p
}

func TestCPUTrace_BootstrapOverwritesHistory(t *testing.T) {
	k := newCPUTraceKernel(16, 16)
	defer k.Close()

	p := fixedJitterParams(16, 16, nil)
	garbage := make([]float32, 16*16*pixelStride)
	for i := range garbage {
		garbage[i] = -100
	}
	clean := make([]float32, 16*16*pixelStride)

	if err := k.Trace(p, 0, garbage); err != nil {
		t.Fatalf("Trace failed: %v", err)
	}
	if err := k.Trace(p, 0, clean); err != nil {
		t.Fatalf("Trace failed: %v", err)
	}
	for i := range clean {
		if garbage[i] != clean[i] {
			t.Fatalf("Sample zero blended with stale history at %d: %v vs %v", i, garbage[i], clean[i])
		}
	}
}

func TestCPUTrace_EmptySceneShowsSky(t *testing.T) {
	k := newCPUTraceKernel(8, 8)
	defer k.Close()

	p := fixedJitterParams(8, 8, nil)
	dst := make([]float32, 8*8*pixelStride)
	if err := k.Trace(p, 0, dst); err != nil {
		t.Fatalf("Trace failed: %v", err)
	}

	// Some ray must escape to the sky, so at least one pixel carries a
	// non-zero color, and every alpha is one.
	lit := false
	for i := 0; i < len(dst); i += pixelStride {
		if dst[i] > 0 || dst[i+1] > 0 || dst[i+2] > 0 {
			lit = true
		}
		if dst[i+3] != 1 {
			t.Fatalf("Pixel %d alpha = %v, want 1", i/pixelStride, dst[i+3])
		}
	}
	if !lit {
		t.Error("Empty scene rendered fully black; expected sky")
	}
}

func TestCPUTrace_SphereChangesCenterPixel(t *testing.T) {
	k := newCPUTraceKernel(9, 9)
	defer k.Close()

	render := func(spheres []sphere) []float32 {
		p := fixedJitterParams(9, 9, spheres)
		dst := make([]float32, 9*9*pixelStride)
		if err := k.Trace(p, 0, dst); err != nil {
			t.Fatalf("Trace failed: %v", err)
		}
		return dst
	}

	empty := render(nil)
	// A large sphere at the camera target fills the view center.
	blocked := render([]sphere{{
		position: vec3{0, 6, 0},
		radius:   8,
		albedo:   vec3{0.8, 0.1, 0.1},
		specular: vec3{dielectricSpecular, dielectricSpecular, dielectricSpecular},
	}})

	center := (4*9 + 4) * pixelStride
	same := true
	for c := 0; c < 3; c++ {
		if math.Abs(float64(empty[center+c]-blocked[center+c])) > 1e-6 {
			same = false
		}
	}
	if same {
		t.Error("Center pixel unchanged by a sphere covering the view center")
	}
}

func TestCPUTrace_DeterministicForEqualParams(t *testing.T) {
	k := newCPUTraceKernel(12, 12)
	defer k.Close()

	spheres := buildScene(testSceneConfig(), rand.New(rand.NewSource(6)))
	a := make([]float32, 12*12*pixelStride)
	b := make([]float32, 12*12*pixelStride)
	if err := k.Trace(fixedJitterParams(12, 12, spheres), 0, a); err != nil {
		t.Fatalf("Trace failed: %v", err)
	}
	if err := k.Trace(fixedJitterParams(12, 12, spheres), 0, b); err != nil {
		t.Fatalf("Trace failed: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Renders differ at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestCPUTrace_RejectsMismatchedSizes(t *testing.T) {
	k := newCPUTraceKernel(8, 8)
	defer k.Close()

	if err := k.Trace(fixedJitterParams(16, 16, nil), 0, make([]float32, 16*16*pixelStride)); err == nil {
		t.Error("Expected an error for mismatched frame dimensions")
	}
	if err := k.Trace(fixedJitterParams(8, 8, nil), 0, make([]float32, 4)); err == nil {
		t.Error("Expected an error for a short history buffer")
	}
}

func TestCPUTrace_Resize(t *testing.T) {
	k := newCPUTraceKernel(8, 8)
	defer k.Close()

	if err := k.Resize(10, 6); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	dst := make([]float32, 10*6*pixelStride)
	if err := k.Trace(fixedJitterParams(10, 6, nil), 0, dst); err != nil {
		t.Errorf("Trace after resize failed: %v", err)
	}
}

func TestCPUTrace_AccumulatesTowardMean(t *testing.T) {
	k := newCPUTraceKernel(6, 6)
	defer k.Close()

	cam := newOrbitCamera(vec3{0, 6, 0}, 100, 60)
	sun := newDirectionalLight(1.8)
	sky := proceduralSkybox()
	rng := rand.New(rand.NewSource(8))

	history := make([]float32, 6*6*pixelStride)
	const frames = 16
	for n := uint32(0); n < frames; n++ {
		p := assembleFrameParams(cam, sun, sky, nil, nil, 1, 6, 6, rng)
		if err := k.Trace(p, n, history); err != nil {
			t.Fatalf("Trace %d failed: %v", n, err)
		}
	}
	// Jittered sky-only frames vary slightly; their average stays inside
	// the range the sky can produce.
	for i := 0; i < len(history); i += pixelStride {
		for c := 0; c < 3; c++ {
			if v := history[i+c]; v < 0 || v > 2 {
				t.Fatalf("Accumulated channel %d out of range: %v", i+c, v)
			}
		}
	}
}

func TestIntersectSphere_FrontAndInside(t *testing.T) {
	center := vec3{0, 0, -10}

	t1, ok := intersectSphere(vec3{}, vec3{0, 0, -1}, center, 2)
	if !ok || math.Abs(t1-8) > 1e-9 {
		t.Errorf("Head-on hit at t = %v (ok %v), want 8", t1, ok)
	}

	// From inside the sphere the far root is the hit.
	t2, ok := intersectSphere(center, vec3{0, 0, -1}, center, 2)
	if !ok || math.Abs(t2-2) > 1e-9 {
		t.Errorf("Inside hit at t = %v (ok %v), want 2", t2, ok)
	}

	if _, ok := intersectSphere(vec3{}, vec3{0, 0, 1}, center, 2); ok {
		t.Error("Sphere behind the ray reported as hit")
	}
}
