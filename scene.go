package main

import (
	"math"
	"math/rand"
)

// sphere is one scene primitive. Exactly one of albedo and specular carries
// the drawn surface color: diffuse spheres pair their color with a fixed
// dielectric specular constant, metallic spheres pair zero albedo with a
// colored specular lobe.
type sphere struct {
	position vec3
	radius   float64
	albedo   vec3
	specular vec3
}

// sphereStride is the packed size of one sphere record in float32 units:
// position (3), radius (1), albedo (3), specular (3) - 40 bytes.
const sphereStride = 10

// sceneConfig collects the scene builder inputs supplied by flags.
type sceneConfig struct {
	maxCount         int
	radiusMin        float64
	radiusMax        float64
	placementRadius  float64
	metalProbability float64
}

// buildScene scatters up to cfg.maxCount non-overlapping spheres over a disk
// on the ground plane using rejection sampling. A candidate that still
// overlaps an accepted sphere after placementRetries resamples abandons its
// slot, so the result may hold fewer spheres than requested; that is never
// an error. The returned slice is a fresh batch; callers replace their scene
// wholesale rather than mutating it.
func buildScene(cfg sceneConfig, rng *rand.Rand) []sphere {
	spheres := make([]sphere, 0, cfg.maxCount)
	for slot := 0; slot < cfg.maxCount; slot++ {
		for attempt := 0; attempt <= placementRetries; attempt++ {
			radius := cfg.radiusMin + rng.Float64()*(cfg.radiusMax-cfg.radiusMin)
			// Uniform position inside the placement disk; the sphere rests
			// on the ground plane.
			r := cfg.placementRadius * math.Sqrt(rng.Float64())
			theta := rng.Float64() * 2 * math.Pi
			pos := vec3{r * math.Cos(theta), radius, r * math.Sin(theta)}

			if overlapsAny(spheres, pos, radius) {
				continue
			}

			s := sphere{position: pos, radius: radius}
			color := randomColorHSV(rng)
			if rng.Float64() > 1-cfg.metalProbability {
				s.specular = color
			} else {
				s.albedo = color
				s.specular = vec3{dielectricSpecular, dielectricSpecular, dielectricSpecular}
			}
			spheres = append(spheres, s)
			break
		}
	}
	return spheres
}

// overlapsAny tests a candidate against every accepted sphere using squared
// distances, rejecting on center distance below the sum of radii.
func overlapsAny(spheres []sphere, pos vec3, radius float64) bool {
	for i := range spheres {
		d := spheres[i].position.sub(pos)
		minDist := spheres[i].radius + radius
		if d.dot(d) < minDist*minDist {
			return true
		}
	}
	return false
}

// randomColorHSV draws a color with uniform hue, saturation, and value.
func randomColorHSV(rng *rand.Rand) vec3 {
	return hsvToRGB(rng.Float64(), rng.Float64(), rng.Float64())
}

// hsvToRGB converts hue/saturation/value in [0,1] to linear RGB.
func hsvToRGB(h, s, v float64) vec3 {
	h = h - math.Floor(h)
	sector := h * 6
	i := int(sector) % 6
	f := sector - math.Floor(sector)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)
	switch i {
	case 0:
		return vec3{v, t, p}
	case 1:
		return vec3{q, v, p}
	case 2:
		return vec3{p, v, t}
	case 3:
		return vec3{p, q, v}
	case 4:
		return vec3{t, p, v}
	default:
		return vec3{v, p, q}
	}
}

// packSpheres serializes the batch into the kernel's wire layout: 10
// float32 per record, 40-byte stride. An empty scene packs to an empty
// buffer; the kernel is still dispatched against it.
func packSpheres(spheres []sphere) []float32 {
	packed := make([]float32, 0, len(spheres)*sphereStride)
	for i := range spheres {
		s := &spheres[i]
		packed = append(packed,
			float32(s.position.x), float32(s.position.y), float32(s.position.z),
			float32(s.radius),
			float32(s.albedo.x), float32(s.albedo.y), float32(s.albedo.z),
			float32(s.specular.x), float32(s.specular.y), float32(s.specular.z),
		)
	}
	return packed
}
