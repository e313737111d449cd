//go:build opencl

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jgillich/go-opencl/cl"
)

// paramsFloats is the size of the per-frame uniform buffer in float32
// units: camera-to-world (16), inverse projection (16), jitter (2),
// light direction + intensity (4), padding (2).
const paramsFloats = 40

const traceKernelSource = `#define MAX_BOUNCES 8
#define SHADOW_BIAS 1e-3f
#define ENERGY_CUTOFF 1e-3f
#define GROUND_ALBEDO 0.55f
#define GROUND_SPECULAR 0.03f
#define SPHERE_STRIDE 10

float3 transform_point(__global const float* m, float3 p)
{
    return (float3)(
        m[0] * p.x + m[1] * p.y + m[2] * p.z + m[3],
        m[4] * p.x + m[5] * p.y + m[6] * p.z + m[7],
        m[8] * p.x + m[9] * p.y + m[10] * p.z + m[11]);
}

float3 transform_dir(__global const float* m, float3 d)
{
    return (float3)(
        m[0] * d.x + m[1] * d.y + m[2] * d.z,
        m[4] * d.x + m[5] * d.y + m[6] * d.z,
        m[8] * d.x + m[9] * d.y + m[10] * d.z);
}

float intersect_sphere(float3 origin, float3 dir, float3 center, float radius)
{
    float3 oc = origin - center;
    float b = dot(oc, dir);
    float c = dot(oc, oc) - radius * radius;
    float disc = b * b - c;
    if (disc < 0.0f) {
        return -1.0f;
    }
    float sq = sqrt(disc);
    float t = -b - sq;
    if (t > 0.0f) {
        return t;
    }
    t = -b + sq;
    if (t > 0.0f) {
        return t;
    }
    return -1.0f;
}

int closest_hit(__global const float* spheres, int sphere_count,
    float3 origin, float3 dir,
    float* out_t, float3* out_n, float3* out_albedo, float3* out_specular)
{
    float best_t = INFINITY;
    int hit = 0;
    if (dir.y < 0.0f) {
        float t = -origin.y / dir.y;
        if (t > 0.0f && t < best_t) {
            best_t = t;
            *out_n = (float3)(0.0f, 1.0f, 0.0f);
            *out_albedo = (float3)(GROUND_ALBEDO);
            *out_specular = (float3)(GROUND_SPECULAR);
            hit = 1;
        }
    }
    for (int i = 0; i < sphere_count; i++) {
        int base = i * SPHERE_STRIDE;
        float3 center = (float3)(spheres[base], spheres[base + 1], spheres[base + 2]);
        float radius = spheres[base + 3];
        float t = intersect_sphere(origin, dir, center, radius);
        if (t > 0.0f && t < best_t) {
            best_t = t;
            float3 pos = origin + dir * t;
            *out_n = normalize(pos - center);
            *out_albedo = (float3)(spheres[base + 4], spheres[base + 5], spheres[base + 6]);
            *out_specular = (float3)(spheres[base + 7], spheres[base + 8], spheres[base + 9]);
            hit = 1;
        }
    }
    *out_t = best_t;
    return hit;
}

int occluded(__global const float* spheres, int sphere_count, float3 origin, float3 dir)
{
    if (dir.y < 0.0f && -origin.y / dir.y > 0.0f) {
        return 1;
    }
    for (int i = 0; i < sphere_count; i++) {
        int base = i * SPHERE_STRIDE;
        float3 center = (float3)(spheres[base], spheres[base + 1], spheres[base + 2]);
        if (intersect_sphere(origin, dir, center, spheres[base + 3]) > 0.0f) {
            return 1;
        }
    }
    return 0;
}

float3 sample_sky(__global const float* sky, int sky_width, int sky_height, float3 dir)
{
    float u = 0.5f + atan2(dir.x, -dir.z) / (2.0f * M_PI_F);
    float v = acos(clamp(dir.y, -1.0f, 1.0f)) / M_PI_F;
    int x = clamp((int)(u * (float)sky_width), 0, sky_width - 1);
    int y = clamp((int)(v * (float)sky_height), 0, sky_height - 1);
    int i = (y * sky_width + x) * 3;
    return (float3)(sky[i], sky[i + 1], sky[i + 2]);
}

__kernel void trace_scene(
    const int width,
    const int height,
    const int sphere_count,
    const int sky_width,
    const int sky_height,
    __global const float* params,
    __global const float* spheres,
    __global const float* sky,
    __global float* fresh)
{
    int x = get_global_id(0);
    int y = get_global_id(1);
    if (x >= width || y >= height) {
        return;
    }

    __global const float* cam_to_world = params;
    __global const float* inv_projection = params + 16;
    float3 light_dir = (float3)(params[34], params[35], params[36]);
    float light_intensity = params[37];

    float u = ((float)x + params[32]) / (float)width * 2.0f - 1.0f;
    float v = -(((float)y + params[33]) / (float)height * 2.0f - 1.0f);

    float3 origin = transform_point(cam_to_world, (float3)(0.0f));
    float3 dir = transform_point(inv_projection, (float3)(u, v, 0.0f));
    dir = normalize(transform_dir(cam_to_world, dir));

    float3 result = (float3)(0.0f);
    float3 energy = (float3)(1.0f);

    for (int bounce = 0; bounce <= MAX_BOUNCES; bounce++) {
        float t;
        float3 n, albedo, specular;
        if (!closest_hit(spheres, sphere_count, origin, dir, &t, &n, &albedo, &specular)) {
            result += energy * sample_sky(sky, sky_width, sky_height, dir);
            break;
        }
        float3 pos = origin + dir * t;
        float3 to_light = -light_dir;
        float ndotl = dot(n, to_light);
        if (ndotl > 0.0f && !occluded(spheres, sphere_count, pos + n * SHADOW_BIAS, to_light)) {
            result += energy * albedo * ndotl * light_intensity;
        }
        energy *= specular;
        if (max(energy.x, max(energy.y, energy.z)) < ENERGY_CUTOFF) {
            break;
        }
        origin = pos + n * SHADOW_BIAS;
        dir = dir - 2.0f * dot(dir, n) * n;
    }

    int idx = (y * width + x) * 4;
    fresh[idx] = result.x;
    fresh[idx + 1] = result.y;
    fresh[idx + 2] = result.z;
    fresh[idx + 3] = 1.0f;
}

__kernel void accumulate(
    const int pixel_count,
    const int sample_index,
    __global const float* fresh,
    __global float* history)
{
    int idx = get_global_id(0);
    if (idx >= pixel_count) {
        return;
    }
    float w_new = 1.0f / (float)(sample_index + 1);
    float w_hist = 1.0f - w_new;
    int base = idx * 4;
    history[base] = history[base] * w_hist + fresh[base] * w_new;
    history[base + 1] = history[base + 1] * w_hist + fresh[base + 1] * w_new;
    history[base + 2] = history[base + 2] * w_hist + fresh[base + 2] * w_new;
    history[base + 3] = 1.0f;
}`

// openCLTraceKernel dispatches the trace and accumulate kernels on an
// OpenCL device. The fresh-frame target and the accumulated history live on
// the device; only the blended history is read back each frame for
// presentation. The sphere buffer is replaced wholesale whenever the scene
// version changes, never updated in place.
type openCLTraceKernel struct {
	context    *cl.Context
	queue      *cl.CommandQueue
	program    *cl.Program
	traceKern  *cl.Kernel
	accumKern  *cl.Kernel
	paramsBuf  *cl.MemObject
	sphereBuf  *cl.MemObject
	skyBuf     *cl.MemObject
	freshBuf   *cl.MemObject
	historyBuf *cl.MemObject

	width, height int
	deviceName    string

	boundSceneVersion uint64
	haveScene         bool
	paramsScratch     []float32
}

func newOpenCLTraceKernel(width, height int, sky *skybox) (*openCLTraceKernel, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available; ensure a vendor driver is installed and detected by `clinfo`")
	}
	var device *cl.Device
	for _, p := range platforms {
		devices, derr := p.GetDevices(cl.DeviceTypeGPU)
		if derr != nil && derr != cl.ErrDeviceNotFound {
			continue
		}
		if len(devices) > 0 {
			device = devices[0]
			break
		}
	}
	if device == nil {
		for _, p := range platforms {
			devices, derr := p.GetDevices(cl.DeviceTypeCPU)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				device = devices[0]
				break
			}
		}
	}
	if device == nil {
		return nil, errors.New("no suitable OpenCL devices found")
	}

	context, err := cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	queue, err := context.CreateCommandQueue(device, 0)
	if err != nil {
		context.Release()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	program, err := context.CreateProgramWithSource([]string{traceKernelSource})
	if err != nil {
		queue.Release()
		context.Release()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		program.Release()
		queue.Release()
		context.Release()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}

	k := &openCLTraceKernel{
		context:       context,
		queue:         queue,
		program:       program,
		width:         width,
		height:        height,
		deviceName:    device.Name(),
		paramsScratch: make([]float32, paramsFloats),
	}

	if k.traceKern, err = program.CreateKernel("trace_scene"); err != nil {
		k.Close()
		return nil, fmt.Errorf("creating trace kernel: %w", err)
	}
	if k.accumKern, err = program.CreateKernel("accumulate"); err != nil {
		k.Close()
		return nil, fmt.Errorf("creating accumulate kernel: %w", err)
	}

	floatSize := 4
	if k.paramsBuf, err = context.CreateEmptyBuffer(cl.MemReadOnly, paramsFloats*floatSize); err != nil {
		k.Close()
		return nil, fmt.Errorf("allocating params buffer: %w", err)
	}
	if k.skyBuf, err = context.CreateEmptyBuffer(cl.MemReadOnly, len(sky.pixels)*floatSize); err != nil {
		k.Close()
		return nil, fmt.Errorf("allocating skybox buffer: %w", err)
	}
	if _, err = queue.EnqueueWriteBufferFloat32(k.skyBuf, true, 0, sky.pixels, nil); err != nil {
		k.Close()
		return nil, fmt.Errorf("uploading skybox: %w", err)
	}
	if err = k.allocateSurfaces(); err != nil {
		k.Close()
		return nil, err
	}

	if err = k.traceKern.SetArgs(
		int32(width),
		int32(height),
		int32(0),
		int32(sky.width),
		int32(sky.height),
		k.paramsBuf,
		k.paramsBuf, // placeholder until the first scene upload
		k.skyBuf,
		k.freshBuf,
	); err != nil {
		k.Close()
		return nil, fmt.Errorf("setting trace kernel arguments: %w", err)
	}
	if err = k.accumKern.SetArgs(
		int32(width*height),
		int32(0),
		k.freshBuf,
		k.historyBuf,
	); err != nil {
		k.Close()
		return nil, fmt.Errorf("setting accumulate kernel arguments: %w", err)
	}

	return k, nil
}

// allocateSurfaces (re)creates the device fresh-frame and history buffers
// for the current dimensions.
func (k *openCLTraceKernel) allocateSurfaces() error {
	byteSize := k.width * k.height * pixelStride * 4
	var err error
	if k.freshBuf, err = k.context.CreateEmptyBuffer(cl.MemReadWrite, byteSize); err != nil {
		return fmt.Errorf("allocating frame buffer: %w", err)
	}
	if k.historyBuf, err = k.context.CreateEmptyBuffer(cl.MemReadWrite, byteSize); err != nil {
		return fmt.Errorf("allocating history buffer: %w", err)
	}
	return nil
}

// uploadScene replaces the device sphere buffer with the batch carried by
// the frame parameters. The old buffer is released before the new one is
// bound, so the kernel can never observe a half-built scene.
func (k *openCLTraceKernel) uploadScene(p *frameParams) error {
	if k.sphereBuf != nil {
		k.sphereBuf.Release()
		k.sphereBuf = nil
	}
	byteSize := len(p.packedSpheres) * 4
	if byteSize == 0 {
		// Empty scenes still bind a dummy record so the kernel argument is
		// valid; sphere_count zero keeps it unread.
		byteSize = sphereStride * 4
	}
	buf, err := k.context.CreateEmptyBuffer(cl.MemReadOnly, byteSize)
	if err != nil {
		return fmt.Errorf("allocating sphere buffer: %w", err)
	}
	if len(p.packedSpheres) > 0 {
		if _, err := k.queue.EnqueueWriteBufferFloat32(buf, false, 0, p.packedSpheres, nil); err != nil {
			buf.Release()
			return fmt.Errorf("uploading sphere buffer: %w", err)
		}
	}
	if err := k.traceKern.SetArgBuffer(6, buf); err != nil {
		buf.Release()
		return fmt.Errorf("binding sphere buffer: %w", err)
	}
	if err := k.traceKern.SetArgInt32(2, int32(len(p.spheres))); err != nil {
		buf.Release()
		return fmt.Errorf("setting sphere count: %w", err)
	}
	k.sphereBuf = buf
	k.boundSceneVersion = p.sceneVersion
	k.haveScene = true
	return nil
}

// Trace uploads the frame parameters, dispatches the trace kernel over the
// 8x8 tile grid, folds the result into the device history with the
// accumulate kernel, and reads the blended image back into dst.
func (k *openCLTraceKernel) Trace(p *frameParams, sampleIndex uint32, dst []float32) error {
	if p.width != k.width || p.height != k.height {
		return fmt.Errorf("frame parameters sized %dx%d for a %dx%d kernel", p.width, p.height, k.width, k.height)
	}
	if len(dst) != k.width*k.height*pixelStride {
		return fmt.Errorf("unexpected history buffer size %d, want %d", len(dst), k.width*k.height*pixelStride)
	}

	if !k.haveScene || p.sceneVersion != k.boundSceneVersion {
		if err := k.uploadScene(p); err != nil {
			return err
		}
	}

	s := k.paramsScratch
	copy(s[0:16], p.cameraToWorld[:])
	copy(s[16:32], p.inverseProjection[:])
	s[32] = p.jitter[0]
	s[33] = p.jitter[1]
	copy(s[34:38], p.light[:])
	if _, err := k.queue.EnqueueWriteBufferFloat32(k.paramsBuf, false, 0, s, nil); err != nil {
		return fmt.Errorf("uploading frame parameters: %w", err)
	}

	gw, gh := dispatchSize(k.width, k.height)
	local := []int{traceTileSize, traceTileSize}
	if _, err := k.queue.EnqueueNDRangeKernel(k.traceKern, nil, []int{gw, gh}, local, nil); err != nil {
		return fmt.Errorf("enqueueing trace kernel: %w", err)
	}

	if err := k.accumKern.SetArgInt32(1, int32(sampleIndex)); err != nil {
		return fmt.Errorf("setting sample index: %w", err)
	}
	if _, err := k.queue.EnqueueNDRangeKernel(k.accumKern, nil, []int{k.width * k.height}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing accumulate kernel: %w", err)
	}

	if _, err := k.queue.EnqueueReadBufferFloat32(k.historyBuf, true, 0, dst, nil); err != nil {
		return fmt.Errorf("reading accumulated frame: %w", err)
	}
	return nil
}

// Resize releases and reallocates the device surfaces for new output
// dimensions and rebinds every argument that depends on them.
func (k *openCLTraceKernel) Resize(width, height int) error {
	if k.freshBuf != nil {
		k.freshBuf.Release()
		k.freshBuf = nil
	}
	if k.historyBuf != nil {
		k.historyBuf.Release()
		k.historyBuf = nil
	}
	k.width = width
	k.height = height
	if err := k.allocateSurfaces(); err != nil {
		return err
	}
	if err := k.traceKern.SetArgInt32(0, int32(width)); err != nil {
		return fmt.Errorf("setting width: %w", err)
	}
	if err := k.traceKern.SetArgInt32(1, int32(height)); err != nil {
		return fmt.Errorf("setting height: %w", err)
	}
	if err := k.traceKern.SetArgBuffer(8, k.freshBuf); err != nil {
		return fmt.Errorf("binding frame buffer: %w", err)
	}
	if err := k.accumKern.SetArgInt32(0, int32(width*height)); err != nil {
		return fmt.Errorf("setting pixel count: %w", err)
	}
	if err := k.accumKern.SetArgBuffer(2, k.freshBuf); err != nil {
		return fmt.Errorf("binding frame buffer to accumulate: %w", err)
	}
	if err := k.accumKern.SetArgBuffer(3, k.historyBuf); err != nil {
		return fmt.Errorf("binding history buffer: %w", err)
	}
	return nil
}

// Close releases every OpenCL object in reverse order of creation. It is
// safe to call on a partially constructed kernel.
func (k *openCLTraceKernel) Close() {
	if k.historyBuf != nil {
		k.historyBuf.Release()
		k.historyBuf = nil
	}
	if k.freshBuf != nil {
		k.freshBuf.Release()
		k.freshBuf = nil
	}
	if k.sphereBuf != nil {
		k.sphereBuf.Release()
		k.sphereBuf = nil
	}
	if k.skyBuf != nil {
		k.skyBuf.Release()
		k.skyBuf = nil
	}
	if k.paramsBuf != nil {
		k.paramsBuf.Release()
		k.paramsBuf = nil
	}
	if k.accumKern != nil {
		k.accumKern.Release()
		k.accumKern = nil
	}
	if k.traceKern != nil {
		k.traceKern.Release()
		k.traceKern = nil
	}
	if k.program != nil {
		k.program.Release()
		k.program = nil
	}
	if k.queue != nil {
		k.queue.Release()
		k.queue = nil
	}
	if k.context != nil {
		k.context.Release()
		k.context = nil
	}
}

func (k *openCLTraceKernel) DeviceName() string {
	return k.deviceName
}
