package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// controlDT is the per-tick time step applied to held-key controls. Ebiten
// calls Update at the fixed tick rate, so speeds in the config are per
// second.
const controlDT = 1.0 / defaultTPS

// enableAutoOrbit schedules scripted camera movement for a limited duration.
func (g *Game) enableAutoOrbit(duration time.Duration) {
	g.autoOrbit = true
	g.autoOrbitDeadline = time.Now().Add(duration)
}

// handleControls processes one tick of input: camera orbit and zoom, sun
// adjustment, the material-mix control, and scene reseeding. During an auto
// orbit manual input is suspended until the deadline passes.
func (g *Game) handleControls() {
	if g.autoOrbit {
		if time.Now().After(g.autoOrbitDeadline) {
			g.autoOrbit = false
			if g.stopProfile != nil {
				g.stopProfile()
				g.stopProfile = nil
			}
		} else {
			g.camera.orbit(orbitSpeed*controlDT*0.5, 0)
			return
		}
	}

	dYaw, dPitch := 0.0, 0.0
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		dYaw -= orbitSpeed * controlDT
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		dYaw += orbitSpeed * controlDT
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		dPitch += orbitSpeed * controlDT
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		dPitch -= orbitSpeed * controlDT
	}
	g.camera.orbit(dYaw, dPitch)

	if ebiten.IsKeyPressed(ebiten.KeyR) {
		g.camera.lift(liftSpeed * controlDT)
	}
	if ebiten.IsKeyPressed(ebiten.KeyF) {
		g.camera.lift(-liftSpeed * controlDT)
	}
	if ebiten.IsKeyPressed(ebiten.KeyZ) {
		g.camera.dolly(-liftSpeed * controlDT)
	}
	if ebiten.IsKeyPressed(ebiten.KeyX) {
		g.camera.dolly(liftSpeed * controlDT)
	}

	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		g.camera.zoom(fovStep * controlDT)
	}
	if ebiten.IsKeyPressed(ebiten.KeyE) {
		g.camera.zoom(-fovStep * controlDT)
	}

	dAz, dEl := 0.0, 0.0
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dAz -= lightSpeed * controlDT
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dAz += lightSpeed * controlDT
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dEl += lightSpeed * controlDT
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dEl -= lightSpeed * controlDT
	}
	g.sun.rotate(dAz, dEl)

	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.adjustMetalProbability(-metalStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.adjustMetalProbability(metalStep)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.reseedScene(time.Now().UnixNano())
	}
}

// adjustMetalProbability shifts the metallic mix within [0, 1]. The change
// is picked up by the invalidation tracker, which triggers the rebuild.
func (g *Game) adjustMetalProbability(delta float64) {
	g.metalProbability = clampFloat(g.metalProbability+delta, 0, 1)
}

// reseedScene swaps the scene random stream and queues a rebuild with a
// full accumulation restart.
func (g *Game) reseedScene(seed int64) {
	g.sceneRand = newRand(seed)
	g.rebuildQueued = true
}
