package main

import "math"

// directionalLight is a sun-style light described by azimuth and elevation.
// Its forward vector points from the light into the scene, so shading uses
// the negated direction. Like the camera it carries a change flag that is
// cleared when read.
type directionalLight struct {
	azimuth   float64 // radians around the Y axis
	elevation float64 // radians above the horizon
	intensity float64

	moved bool
}

func newDirectionalLight(intensity float64) *directionalLight {
	return &directionalLight{
		azimuth:   0.8,
		elevation: 0.9,
		intensity: intensity,
	}
}

// direction returns the unit forward vector of the light.
func (l *directionalLight) direction() vec3 {
	ce := math.Cos(l.elevation)
	return vec3{
		-ce * math.Sin(l.azimuth),
		-math.Sin(l.elevation),
		-ce * math.Cos(l.azimuth),
	}
}

// rotate adjusts the sun heading and marks the transform dirty.
func (l *directionalLight) rotate(dAzimuth, dElevation float64) {
	if dAzimuth == 0 && dElevation == 0 {
		return
	}
	l.azimuth += dAzimuth
	l.elevation = clampFloat(l.elevation+dElevation, 0.05, pitchLimit)
	l.moved = true
}

// changedSinceLastCheck reports and clears the change flag.
func (l *directionalLight) changedSinceLastCheck() bool {
	m := l.moved
	l.moved = false
	return m
}
