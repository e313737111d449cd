package main

// pixelStride is the number of float32 values per pixel in every image
// buffer the engine owns: linear RGB plus alpha.
const pixelStride = 4

// accumulator owns the persistent history image and the sample counter for
// progressive accumulation. The history always matches the output surface;
// any dimension mismatch reallocates it and implicitly restarts
// accumulation from sample zero.
type accumulator struct {
	width, height int
	history       []float32
	sampleCount   uint32
}

func newAccumulator(width, height int) *accumulator {
	a := &accumulator{}
	a.ensureSize(width, height)
	return a
}

// ensureSize reallocates the history buffer when the output surface
// dimensions change and reports whether it did. Reallocation zeroes the
// buffer and resets the sample counter, so stale history of the wrong size
// can never be blended.
func (a *accumulator) ensureSize(width, height int) bool {
	if width == a.width && height == a.height && a.history != nil {
		return false
	}
	a.width = width
	a.height = height
	a.history = make([]float32, width*height*pixelStride)
	a.sampleCount = 0
	return true
}

// reset restarts accumulation without touching the buffer contents; the
// next blend at sample zero overwrites every pixel exactly.
func (a *accumulator) reset() {
	a.sampleCount = 0
}

// advance records that one more frame has been folded into the history.
func (a *accumulator) advance() {
	a.sampleCount++
}

// blendFrames folds a fresh frame into the history as a running average:
// with n = sampleIndex frames already accumulated, the fresh frame gets
// weight 1/(n+1) and the history the complementary n/(n+1), which keeps the
// result equal to the plain mean of every frame seen so far. At sample zero
// the history weight is exactly zero and the fresh frame is copied through
// bit for bit. Both slices must have equal length; the blend is elementwise,
// so writing the result in place is safe.
func blendFrames(history, fresh []float32, sampleIndex uint32) {
	if sampleIndex == 0 {
		copy(history, fresh)
		return
	}
	wNew := 1 / float32(sampleIndex+1)
	wHist := 1 - wNew
	for i := range history {
		history[i] = history[i]*wHist + fresh[i]*wNew
	}
}
