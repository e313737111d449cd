package main

import "flag"

// Command-line flags that control the generated scene and optional runtime
// behavior. Scene parameters feed the sphere placement pass; everything else
// toggles diagnostics.
var (
	// maxSpheresFlag bounds how many sphere slots the scene builder attempts.
	maxSpheresFlag = flag.Uint("max-spheres", 80, "maximum number of spheres placed in the scene")

	// radiusMinFlag and radiusMaxFlag define the uniform radius range.
	radiusMinFlag = flag.Float64("radius-min", 2.0, "minimum sphere radius")
	radiusMaxFlag = flag.Float64("radius-max", 6.0, "maximum sphere radius")

	// placementRadiusFlag is the ground-plane disk radius spheres are scattered over.
	placementRadiusFlag = flag.Float64("placement-radius", 60.0, "radius of the disk spheres are placed inside")

	// metalProbFlag sets the starting probability that a sphere is metallic.
	metalProbFlag = flag.Float64("metal-prob", 0.4, "probability that a placed sphere is metallic (0-1)")

	// lightIntensityFlag scales the directional light contribution.
	lightIntensityFlag = flag.Float64("light-intensity", 1.8, "directional light intensity")

	// seedFlag fixes the scene and jitter random streams; 0 derives a seed from the clock.
	seedFlag = flag.Int64("seed", 0, "random seed for scene generation and jitter (0 = time based)")

	// skyboxFlag loads an equirectangular environment map instead of the procedural sky.
	skyboxFlag = flag.String("skybox", "", "path to an equirectangular PNG/JPEG environment map")

	// debugFlag enables the FPS and accumulation overlay.
	debugFlag = flag.Bool("debug", false, "show FPS, sample count, and kernel timing overlay")

	// profileFlag records a CPU profile to the given path while the camera auto-orbits.
	profileFlag = flag.String("profile", "", "capture a CPU profile during a scripted camera orbit")
)
