package main

import (
	"log"
	"math/rand"
	"time"
)

// Game owns the full renderer state: the camera and light rigs, the sphere
// scene, the progressive accumulator, and the trace kernel. Update runs the
// per-frame pipeline of input, invalidation, parameter assembly, and kernel
// dispatch; Draw only presents the accumulated image.
type Game struct {
	camera  *orbitCamera
	sun     *directionalLight
	tracker *invalidationTracker
	accum   *accumulator
	kernel  traceKernel
	sky     *skybox

	sceneCfg         sceneConfig
	metalProbability float64
	spheres          []sphere
	packedSpheres    []float32
	sceneVersion     uint64
	rebuildQueued    bool

	sceneRand  *rand.Rand
	jitterRand *rand.Rand

	width, height      int
	pendingW, pendingH int

	lastTraceDuration time.Duration
	frameBytes        []byte

	autoOrbit         bool
	autoOrbitDeadline time.Time
	stopProfile       func()
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// newGame constructs a fully initialized Game. The OpenCL kernel is
// preferred; when it is unavailable the CPU kernel takes over so the
// application always runs.
func newGame(sky *skybox, seed int64) *Game {
	g := &Game{
		sun: newDirectionalLight(*lightIntensityFlag),
		sky: sky,
		sceneCfg: sceneConfig{
			maxCount:        int(*maxSpheresFlag),
			radiusMin:       *radiusMinFlag,
			radiusMax:       *radiusMaxFlag,
			placementRadius: *placementRadiusFlag,
		},
		metalProbability: clampFloat(*metalProbFlag, 0, 1),
		sceneRand:        newRand(seed),
		jitterRand:       newRand(seed + 1),
		width:            defaultWindowW,
		height:           defaultWindowH,
		pendingW:         defaultWindowW,
		pendingH:         defaultWindowH,
	}
	g.camera = newOrbitCamera(vec3{0, 6, 0}, *placementRadiusFlag*1.6, 60)
	g.tracker = newInvalidationTracker(g.camera, g.sun)
	g.accum = newAccumulator(g.width, g.height)
	g.rebuildScene()

	if kernel, err := newOpenCLTraceKernel(g.width, g.height, sky); err != nil {
		log.Printf("OpenCL initialization failed: %v; falling back to CPU", err)
		g.kernel = newCPUTraceKernel(g.width, g.height)
	} else {
		log.Printf("OpenCL kernel enabled (device: %s)", kernel.DeviceName())
		g.kernel = kernel
	}
	log.Printf("Scene built with %d spheres (requested %d)", len(g.spheres), g.sceneCfg.maxCount)
	return g
}

// rebuildScene generates a fresh sphere batch with the current material mix
// and bumps the scene version so GPU-resident copies get replaced.
func (g *Game) rebuildScene() {
	cfg := g.sceneCfg
	cfg.metalProbability = g.metalProbability
	g.spheres = buildScene(cfg, g.sceneRand)
	g.packedSpheres = packSpheres(g.spheres)
	g.sceneVersion++
}

// applyPendingResize switches the render surface to the size the window
// manager last reported. The kernel reallocates its surfaces and the
// history restarts, since pixels of the old size cannot be blended.
func (g *Game) applyPendingResize() error {
	if g.pendingW == g.width && g.pendingH == g.height {
		return nil
	}
	g.width = g.pendingW
	g.height = g.pendingH
	if err := g.kernel.Resize(g.width, g.height); err != nil {
		return err
	}
	g.accum.ensureSize(g.width, g.height)
	g.frameBytes = nil
	return nil
}

// Update advances one frame: input, invalidation, scene rebuild when
// required, parameter marshaling, and the kernel dispatch that folds the
// fresh frame into the history.
func (g *Game) Update() error {
	g.handleControls()

	if err := g.applyPendingResize(); err != nil {
		return err
	}

	res := g.tracker.evaluate(g.camera.fov, g.metalProbability)
	if g.rebuildQueued {
		res.resetSamples = true
		res.rebuildScene = true
		g.rebuildQueued = false
	}
	if res.rebuildScene {
		g.rebuildScene()
	}
	if res.resetSamples {
		g.accum.reset()
	}

	p := assembleFrameParams(
		g.camera, g.sun, g.sky,
		g.spheres, g.packedSpheres, g.sceneVersion,
		g.width, g.height, g.jitterRand,
	)

	start := time.Now()
	if err := g.kernel.Trace(p, g.accum.sampleCount, g.accum.history); err != nil {
		return err
	}
	g.lastTraceDuration = time.Since(start)
	g.accum.advance()
	return nil
}
