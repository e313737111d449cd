package main

// traceKernel is the external collaborator contract: given one frame's
// parameters it renders the scene and folds the result into the
// accumulated image. dst is the caller-owned history buffer (RGBA, four
// float32 per pixel, width*height*4 values); after Trace returns it holds
// the accumulated image for sampleIndex+1 frames. At sampleIndex zero the
// previous contents of dst are ignored entirely.
//
// A kernel either completes the frame fully or returns an error; partial
// output must never reach dst.
type traceKernel interface {
	Trace(p *frameParams, sampleIndex uint32, dst []float32) error

	// Resize re-provisions the kernel's internal surfaces for a new output
	// size. The caller resets accumulation alongside.
	Resize(width, height int) error

	Close()
	DeviceName() string
}
