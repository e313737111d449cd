package main

import "math"

// changeTracked is the capability every watched scene object exposes: a
// changed-since-last-check flag that the read clears, so a single change is
// reported exactly once however many frames follow it.
type changeTracked interface {
	changedSinceLastCheck() bool
}

// invalidationResult says what the current frame must do before rendering.
type invalidationResult struct {
	resetSamples bool
	rebuildScene bool
}

// invalidationTracker compares a fixed set of observed quantities against
// their previous-frame values. Field of view is compared exactly - any zoom
// delta discards history - while the material-mix probability uses a small
// tolerance so floating-point jitter cannot force a scene rebuild. Every
// call updates the stored state whether or not anything changed.
type invalidationTracker struct {
	tracked []changeTracked

	lastFOV              float64
	lastMetalProbability float64
	primed               bool
}

func newInvalidationTracker(tracked ...changeTracked) *invalidationTracker {
	return &invalidationTracker{tracked: tracked}
}

// evaluate runs once per frame before rendering and reports whether the
// accumulated history must restart and whether the sphere scene must be
// rebuilt. The first call only records a baseline.
func (t *invalidationTracker) evaluate(fov, metalProbability float64) invalidationResult {
	var res invalidationResult

	// Read every flag even after one has fired; a skipped read would leave
	// a cleared-on-read flag pending and fire it again next frame.
	for _, obj := range t.tracked {
		if obj.changedSinceLastCheck() {
			res.resetSamples = true
		}
	}

	if t.primed {
		if fov != t.lastFOV {
			res.resetSamples = true
		}
		if math.Abs(metalProbability-t.lastMetalProbability) > metalProbabilityTolerance {
			res.resetSamples = true
			res.rebuildScene = true
		}
	} else {
		res = invalidationResult{}
		t.primed = true
	}

	t.lastFOV = fov
	t.lastMetalProbability = metalProbability
	return res
}
