package main

import "time"

// Rendering and scene configuration constants used throughout the
// application. These values define the window size, kernel work
// partitioning, and the default look of the procedural sphere scene.
const (
	defaultWindowW = 960
	defaultWindowH = 540
	minRenderDim   = 64

	// traceTileSize is the kernel work-group edge length. The dispatch grid
	// is ceil(width/traceTileSize) x ceil(height/traceTileSize) tiles and
	// partial edge tiles are masked inside the kernel.
	traceTileSize = 8

	// maxBounces caps the reflection chain traced per pixel.
	maxBounces = 8

	// placementRetries bounds how often a rejected sphere candidate is
	// resampled before its slot is abandoned.
	placementRetries = 10

	// dielectricSpecular is the fixed specular reflectance assigned to
	// diffuse spheres; metallic spheres get albedo zero instead.
	dielectricSpecular = 0.04

	groundAlbedo   = 0.55
	groundSpecular = 0.03

	// metalProbabilityTolerance is the approximate-equality threshold for
	// the material-mix control. Changes below it neither reset accumulation
	// nor rebuild the scene.
	metalProbabilityTolerance = 1e-4

	shadowBias = 1e-3

	fovMin      = 15.0
	fovMax      = 110.0
	fovStep     = 20.0 // degrees per second while zooming
	orbitSpeed  = 0.9  // radians per second
	liftSpeed   = 30.0 // world units per second for target height
	lightSpeed  = 1.2  // radians per second for sun adjustment
	pitchLimit  = 1.45 // radians, keeps the orbit off the poles
	metalStep   = 0.05
	defaultTPS  = 60.0
	minDistance = 10.0
	maxDistance = 400.0

	// energyCutoff terminates a reflection chain once the carried
	// throughput can no longer contribute a visible amount.
	energyCutoff = 1e-3

	proceduralSkyW = 512
	proceduralSkyH = 256

	profileOrbitDuration = 15 * time.Second
)
