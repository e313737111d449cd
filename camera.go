package main

import "math"

// orbitCamera circles a target point at a fixed distance. It exposes the
// two transforms the trace kernel consumes and a changed-since-last-check
// flag that the invalidation tracker reads and clears once per frame.
// Field of view is deliberately not part of the flag; the tracker observes
// it by value.
type orbitCamera struct {
	target   vec3
	yaw      float64 // radians around the Y axis
	pitch    float64 // radians above the ground plane
	distance float64
	fov      float64 // vertical field of view, degrees

	moved bool
}

func newOrbitCamera(target vec3, distance, fov float64) *orbitCamera {
	return &orbitCamera{
		target:   target,
		yaw:      0.6,
		pitch:    0.35,
		distance: distance,
		fov:      fov,
	}
}

// position derives the eye point from the orbit parameters.
func (c *orbitCamera) position() vec3 {
	cp := math.Cos(c.pitch)
	return c.target.add(vec3{
		c.distance * cp * math.Sin(c.yaw),
		c.distance * math.Sin(c.pitch),
		c.distance * cp * math.Cos(c.yaw),
	})
}

// orbit rotates the camera around the target and marks the transform dirty.
func (c *orbitCamera) orbit(dYaw, dPitch float64) {
	if dYaw == 0 && dPitch == 0 {
		return
	}
	c.yaw += dYaw
	c.pitch = clampFloat(c.pitch+dPitch, -pitchLimit, pitchLimit)
	c.moved = true
}

// dolly moves the camera along its view axis.
func (c *orbitCamera) dolly(delta float64) {
	if delta == 0 {
		return
	}
	c.distance = clampFloat(c.distance+delta, minDistance, maxDistance)
	c.moved = true
}

// lift raises or lowers the orbit target.
func (c *orbitCamera) lift(delta float64) {
	if delta == 0 {
		return
	}
	c.target.y += delta
	c.moved = true
}

// zoom adjusts the vertical field of view within its clamp range. The zoom
// is observed by value rather than through the moved flag.
func (c *orbitCamera) zoom(deltaDegrees float64) {
	c.fov = clampFloat(c.fov+deltaDegrees, fovMin, fovMax)
}

// cameraToWorld returns the camera-space to world-space transform.
func (c *orbitCamera) cameraToWorld() mat4 {
	return lookAtToWorld(c.position(), c.target, vec3{0, 1, 0})
}

// inverseProjection returns the inverse perspective transform for the
// current field of view and the given aspect ratio.
func (c *orbitCamera) inverseProjection(aspect float64) mat4 {
	return inversePerspective(c.fov, aspect, 0.1, 1000)
}

// changedSinceLastCheck reports whether the transform moved since the
// previous call and clears the flag, so each change is observed once.
func (c *orbitCamera) changedSinceLastCheck() bool {
	m := c.moved
	c.moved = false
	return m
}
