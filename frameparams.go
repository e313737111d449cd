package main

import "math/rand"

// frameParams is the fixed parameter set handed to the trace kernel for one
// frame. It carries the camera transforms, a fresh sub-pixel jitter, the
// packed light vector, the sphere batch in both struct and wire form, and
// the environment map. A kernel must never mix parameters from different
// frames; the scene version lets the GPU backend detect a stale device
// buffer.
type frameParams struct {
	width, height int

	cameraToWorld     [16]float32
	inverseProjection [16]float32

	// jitter is the per-frame sub-pixel offset in [0,1)^2. Accumulating
	// frames rendered with varying jitter is what converges the running
	// average to an antialiased image.
	jitter [2]float32

	// light packs the directional light's forward vector in xyz and its
	// intensity in w.
	light [4]float32

	spheres       []sphere
	packedSpheres []float32
	sceneVersion  uint64

	sky *skybox
}

// assembleFrameParams marshals the current camera, light, scene, and
// environment state into kernel parameters, drawing a new jitter offset
// from rng. It performs no rendering work of its own; its only correctness
// obligation is that every field reflects this frame's state.
func assembleFrameParams(
	cam *orbitCamera,
	sun *directionalLight,
	sky *skybox,
	spheres []sphere,
	packed []float32,
	sceneVersion uint64,
	width, height int,
	rng *rand.Rand,
) *frameParams {
	p := &frameParams{
		width:         width,
		height:        height,
		jitter:        [2]float32{float32(rng.Float64()), float32(rng.Float64())},
		spheres:       spheres,
		packedSpheres: packed,
		sceneVersion:  sceneVersion,
		sky:           sky,
	}
	aspect := float64(width) / float64(height)
	cam.cameraToWorld().float32Row(p.cameraToWorld[:])
	cam.inverseProjection(aspect).float32Row(p.inverseProjection[:])
	dir := sun.direction()
	p.light = [4]float32{float32(dir.x), float32(dir.y), float32(dir.z), float32(sun.intensity)}
	return p
}
