package main

import (
	"fmt"
	"math"
	"runtime"
)

// cpuTraceKernel renders frames on the host with the same contract and the
// same Whitted algorithm as the OpenCL backend: primary rays from the
// inverse projection with sub-pixel jitter, brute-force sphere and
// ground-plane intersection, up to maxBounces mirror reflections with one
// shadow ray per hit, and skybox sampling on miss. It serves builds without
// the opencl tag, runtime fallback when no OpenCL device is usable, and
// the test suite.
type cpuTraceKernel struct {
	width, height int
	scratch       []float32
	workers       *traceWorkers
}

func newCPUTraceKernel(width, height int) *cpuTraceKernel {
	return &cpuTraceKernel{
		width:   width,
		height:  height,
		scratch: make([]float32, width*height*pixelStride),
		workers: newTraceWorkers(runtime.NumCPU()),
	}
}

// Trace renders one jittered frame into scratch and folds it into dst with
// the running-average blend.
func (k *cpuTraceKernel) Trace(p *frameParams, sampleIndex uint32, dst []float32) error {
	if p.width != k.width || p.height != k.height {
		return fmt.Errorf("frame parameters sized %dx%d for a %dx%d kernel", p.width, p.height, k.width, k.height)
	}
	if len(dst) != len(k.scratch) {
		return fmt.Errorf("unexpected history buffer size %d, want %d", len(dst), len(k.scratch))
	}

	f := newCPUFrame(p)
	k.workers.run(k.height, func(y int) {
		f.traceRow(y, k.scratch)
	})
	blendFrames(dst, k.scratch, sampleIndex)
	return nil
}

// Resize reallocates the per-frame output buffer for new dimensions.
func (k *cpuTraceKernel) Resize(width, height int) error {
	k.width = width
	k.height = height
	k.scratch = make([]float32, width*height*pixelStride)
	return nil
}

func (k *cpuTraceKernel) Close() {
	k.workers.close()
}

func (k *cpuTraceKernel) DeviceName() string {
	return fmt.Sprintf("CPU (%d workers)", runtime.NumCPU())
}

// cpuFrame caches the per-frame state in host-friendly form so the row
// workers share one decoded copy of the parameters.
type cpuFrame struct {
	width, height  int
	cameraToWorld  mat4
	invProjection  mat4
	origin         vec3
	jitterX        float64
	jitterY        float64
	lightDir       vec3
	lightIntensity float64
	spheres        []sphere
	sky            *skybox
}

func newCPUFrame(p *frameParams) *cpuFrame {
	f := &cpuFrame{
		width:          p.width,
		height:         p.height,
		cameraToWorld:  mat4FromRow(p.cameraToWorld),
		invProjection:  mat4FromRow(p.inverseProjection),
		jitterX:        float64(p.jitter[0]),
		jitterY:        float64(p.jitter[1]),
		lightDir:       vec3{float64(p.light[0]), float64(p.light[1]), float64(p.light[2])},
		lightIntensity: float64(p.light[3]),
		spheres:        p.spheres,
		sky:            p.sky,
	}
	f.origin = f.cameraToWorld.mulPoint(vec3{})
	return f
}

// mat4FromRow widens a packed row-major matrix back to mat4.
func mat4FromRow(a [16]float32) mat4 {
	var m mat4
	for i, v := range a {
		m[i] = float64(v)
	}
	return m
}

// traceRow shades every pixel of row y into out.
func (f *cpuFrame) traceRow(y int, out []float32) {
	base := y * f.width * pixelStride
	for x := 0; x < f.width; x++ {
		c := f.tracePixel(x, y)
		i := base + x*pixelStride
		out[i] = float32(c.x)
		out[i+1] = float32(c.y)
		out[i+2] = float32(c.z)
		out[i+3] = 1
	}
}

// tracePixel builds the jittered primary ray for a pixel and follows its
// reflection chain.
func (f *cpuFrame) tracePixel(x, y int) vec3 {
	u := (float64(x)+f.jitterX)/float64(f.width)*2 - 1
	v := -((float64(y)+f.jitterY)/float64(f.height)*2 - 1)
	// The inverse projection is applied to the NDC point (u, v, 0, 1); the
	// translation column supplies the -1 view-axis component.
	dir := f.invProjection.mulPoint(vec3{u, v, 0})
	dir = f.cameraToWorld.mulDir(dir).normalize()

	origin := f.origin
	energy := vec3{1, 1, 1}
	var result vec3
	for bounce := 0; bounce <= maxBounces; bounce++ {
		hit, ok := f.closestHit(origin, dir)
		if !ok {
			result = result.add(energy.mul(f.sky.sample(dir)))
			break
		}
		result = result.add(energy.mul(f.shadeHit(&hit)))
		energy = energy.mul(hit.specular)
		if energy.maxComponent() < energyCutoff {
			break
		}
		origin = hit.pos.add(hit.normal.scale(shadowBias))
		dir = dir.reflect(hit.normal)
	}
	return result
}

// shadeHit evaluates the diffuse term at a surface point, darkened to zero
// when the shadow ray toward the light is blocked.
func (f *cpuFrame) shadeHit(h *cpuHit) vec3 {
	toLight := f.lightDir.scale(-1)
	ndotl := h.normal.dot(toLight)
	if ndotl <= 0 {
		return vec3{}
	}
	shadowOrigin := h.pos.add(h.normal.scale(shadowBias))
	if f.occluded(shadowOrigin, toLight) {
		return vec3{}
	}
	return h.albedo.scale(ndotl * f.lightIntensity)
}

// cpuHit describes the nearest surface along a ray.
type cpuHit struct {
	dist     float64
	pos      vec3
	normal   vec3
	albedo   vec3
	specular vec3
}

// closestHit intersects the ray against the ground plane and every sphere,
// brute force, returning the nearest hit.
func (f *cpuFrame) closestHit(origin, dir vec3) (cpuHit, bool) {
	best := cpuHit{dist: math.Inf(1)}

	if dir.y < 0 {
		t := -origin.y / dir.y
		if t > 0 && t < best.dist {
			best = cpuHit{
				dist:     t,
				pos:      origin.add(dir.scale(t)),
				normal:   vec3{0, 1, 0},
				albedo:   vec3{groundAlbedo, groundAlbedo, groundAlbedo},
				specular: vec3{groundSpecular, groundSpecular, groundSpecular},
			}
		}
	}

	for i := range f.spheres {
		s := &f.spheres[i]
		if t, ok := intersectSphere(origin, dir, s.position, s.radius); ok && t < best.dist {
			pos := origin.add(dir.scale(t))
			best = cpuHit{
				dist:     t,
				pos:      pos,
				normal:   pos.sub(s.position).normalize(),
				albedo:   s.albedo,
				specular: s.specular,
			}
		}
	}

	return best, !math.IsInf(best.dist, 1)
}

// occluded reports whether anything lies along the ray; used for shadow
// rays toward a directional light, where any hit blocks the light.
func (f *cpuFrame) occluded(origin, dir vec3) bool {
	if dir.y < 0 {
		if t := -origin.y / dir.y; t > 0 {
			return true
		}
	}
	for i := range f.spheres {
		s := &f.spheres[i]
		if _, ok := intersectSphere(origin, dir, s.position, s.radius); ok {
			return true
		}
	}
	return false
}

// intersectSphere returns the nearest positive ray parameter at which the
// ray crosses the sphere.
func intersectSphere(origin, dir, center vec3, radius float64) (float64, bool) {
	oc := origin.sub(center)
	b := oc.dot(dir)
	c := oc.dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	if t := -b - sq; t > 0 {
		return t, true
	}
	if t := -b + sq; t > 0 {
		return t, true
	}
	return 0, false
}
