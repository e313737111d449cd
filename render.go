package main

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Draw gamma-encodes the accumulated linear image and writes it to the
// screen. Rendering happened in Update; this is presentation only.
func (g *Game) Draw(screen *ebiten.Image) {
	bounds := screen.Bounds()
	// Right after a resize the screen can lag the render surface by one
	// frame; skip presenting until they agree again.
	if bounds.Dx() == g.width && bounds.Dy() == g.height {
		g.encodeFrame()
		screen.WritePixels(g.frameBytes)
	}

	if *debugFlag {
		fps := ebiten.ActualFPS()
		tps := ebiten.ActualTPS()
		if tps < 0 {
			tps = 0
		}
		kernelMS := g.lastTraceDuration.Seconds() * 1000
		debugMsg := fmt.Sprintf("FPS: %.1f (%.1f TPS)\nSamples: %d\nSpheres: %d\nKernel: %.2f ms\nDevice: %s",
			fps, tps, g.accum.sampleCount, len(g.spheres), kernelMS, g.kernel.DeviceName())
		ebitenutil.DebugPrint(screen, debugMsg)
	}
}

// encodeFrame converts the linear float history into sRGB RGBA bytes.
func (g *Game) encodeFrame() {
	n := g.width * g.height
	if len(g.frameBytes) != n*4 {
		g.frameBytes = make([]byte, n*4)
	}
	history := g.accum.history
	for i := 0; i < n; i++ {
		base := i * pixelStride
		g.frameBytes[i*4] = encodeChannel(history[base])
		g.frameBytes[i*4+1] = encodeChannel(history[base+1])
		g.frameBytes[i*4+2] = encodeChannel(history[base+2])
		g.frameBytes[i*4+3] = 255
	}
}

// encodeChannel maps one linear channel to an sRGB byte.
func encodeChannel(v float32) byte {
	c := linearToSRGB(float64(v))
	return byte(clampFloat(c, 0, 1)*255 + 0.5)
}

// linearToSRGB applies the sRGB transfer curve to a linear value.
func linearToSRGB(c float64) float64 {
	if c <= 0.0031308 {
		return c * 12.92
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}

// Layout reports the render surface size. The window is resizable; the
// reported size is recorded and applied at the start of the next Update so
// the kernel and accumulator never change size mid-frame.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := outsideWidth
	h := outsideHeight
	if w < minRenderDim {
		w = minRenderDim
	}
	if h < minRenderDim {
		h = minRenderDim
	}
	g.pendingW = w
	g.pendingH = h
	return w, h
}
