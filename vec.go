package main

import "math"

// vec3 is a 3D vector used for positions, directions, and linear RGB colors.
type vec3 struct {
	x, y, z float64
}

func (v vec3) add(o vec3) vec3      { return vec3{v.x + o.x, v.y + o.y, v.z + o.z} }
func (v vec3) sub(o vec3) vec3      { return vec3{v.x - o.x, v.y - o.y, v.z - o.z} }
func (v vec3) scale(s float64) vec3 { return vec3{v.x * s, v.y * s, v.z * s} }
func (v vec3) mul(o vec3) vec3      { return vec3{v.x * o.x, v.y * o.y, v.z * o.z} }
func (v vec3) dot(o vec3) float64   { return v.x*o.x + v.y*o.y + v.z*o.z }
func (v vec3) length() float64      { return math.Sqrt(v.dot(v)) }

func (v vec3) cross(o vec3) vec3 {
	return vec3{
		v.y*o.z - v.z*o.y,
		v.z*o.x - v.x*o.z,
		v.x*o.y - v.y*o.x,
	}
}

// normalize returns a unit vector, or the zero vector for degenerate input.
func (v vec3) normalize() vec3 {
	l := v.length()
	if l == 0 {
		return vec3{}
	}
	return v.scale(1 / l)
}

// reflect mirrors v across the unit normal n.
func (v vec3) reflect(n vec3) vec3 {
	return v.sub(n.scale(2 * v.dot(n)))
}

// maxComponent returns the largest of the three components.
func (v vec3) maxComponent() float64 {
	return math.Max(v.x, math.Max(v.y, v.z))
}

// mat4 is a 4x4 matrix in row-major order. It is packed row-major into the
// kernel parameter buffer, and the kernel reads it back the same way.
type mat4 [16]float64

// mulPoint applies the matrix to a point (w = 1) and drops the result's w.
func (m mat4) mulPoint(p vec3) vec3 {
	return vec3{
		m[0]*p.x + m[1]*p.y + m[2]*p.z + m[3],
		m[4]*p.x + m[5]*p.y + m[6]*p.z + m[7],
		m[8]*p.x + m[9]*p.y + m[10]*p.z + m[11],
	}
}

// mulDir applies the matrix to a direction (w = 0).
func (m mat4) mulDir(d vec3) vec3 {
	return vec3{
		m[0]*d.x + m[1]*d.y + m[2]*d.z,
		m[4]*d.x + m[5]*d.y + m[6]*d.z,
		m[8]*d.x + m[9]*d.y + m[10]*d.z,
	}
}

// float32Row packs the matrix into dst as 16 row-major float32 values.
func (m mat4) float32Row(dst []float32) {
	for i, v := range m {
		dst[i] = float32(v)
	}
}

// lookAtToWorld builds a camera-to-world transform for an eye position
// looking at center. Camera space follows the GL convention: +x right,
// +y up, the view direction along -z.
func lookAtToWorld(eye, center, up vec3) mat4 {
	f := center.sub(eye).normalize()
	s := f.cross(up).normalize()
	u := s.cross(f)
	return mat4{
		s.x, u.x, -f.x, eye.x,
		s.y, u.y, -f.y, eye.y,
		s.z, u.z, -f.z, eye.z,
		0, 0, 0, 1,
	}
}

// inversePerspective returns the inverse of a standard perspective
// projection with the given vertical field of view in degrees. Applied to
// an NDC point (x, y, 0, 1) it yields a camera-space ray direction, which
// is all the trace kernel needs from it.
func inversePerspective(fovDegrees, aspect, near, far float64) mat4 {
	f := 1 / math.Tan(fovDegrees*math.Pi/180/2)
	nf := 2 * far * near
	return mat4{
		aspect / f, 0, 0, 0,
		0, 1 / f, 0, 0,
		0, 0, 0, -1,
		0, 0, (near - far) / nf, (far + near) / nf,
	}
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
