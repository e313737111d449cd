package main

import "testing"

func TestInvalidationTracker_FirstCallPrimesOnly(t *testing.T) {
	cam := newOrbitCamera(vec3{}, 100, 60)
	sun := newDirectionalLight(1.8)
	cam.orbit(0.5, 0)
	sun.rotate(0.2, 0)

	tracker := newInvalidationTracker(cam, sun)
	res := tracker.evaluate(60, 0.4)
	if res.resetSamples || res.rebuildScene {
		t.Errorf("First evaluate should only record a baseline, got %+v", res)
	}
}

func TestInvalidationTracker_StableWhenNothingChanges(t *testing.T) {
	cam := newOrbitCamera(vec3{}, 100, 60)
	sun := newDirectionalLight(1.8)
	tracker := newInvalidationTracker(cam, sun)
	tracker.evaluate(60, 0.4)
	for i := 0; i < 5; i++ {
		res := tracker.evaluate(60, 0.4)
		if res.resetSamples || res.rebuildScene {
			t.Fatalf("Evaluate %d reported a change with no input changes: %+v", i, res)
		}
	}
}

func TestInvalidationTracker_CameraMoveFiresOnce(t *testing.T) {
	cam := newOrbitCamera(vec3{}, 100, 60)
	sun := newDirectionalLight(1.8)
	tracker := newInvalidationTracker(cam, sun)
	tracker.evaluate(60, 0.4)

	cam.orbit(0.1, 0)
	res := tracker.evaluate(60, 0.4)
	if !res.resetSamples {
		t.Error("Expected reset after camera orbit")
	}
	if res.rebuildScene {
		t.Error("Camera movement must not rebuild the scene")
	}

	res = tracker.evaluate(60, 0.4)
	if res.resetSamples {
		t.Error("Change flag fired twice for a single movement")
	}
}

func TestInvalidationTracker_LightMoveResets(t *testing.T) {
	cam := newOrbitCamera(vec3{}, 100, 60)
	sun := newDirectionalLight(1.8)
	tracker := newInvalidationTracker(cam, sun)
	tracker.evaluate(60, 0.4)

	sun.rotate(0, 0.05)
	res := tracker.evaluate(60, 0.4)
	if !res.resetSamples {
		t.Error("Expected reset after light rotation")
	}
	if res.rebuildScene {
		t.Error("Light movement must not rebuild the scene")
	}
}

func TestInvalidationTracker_FOVComparedExactly(t *testing.T) {
	tracker := newInvalidationTracker()
	tracker.evaluate(60, 0.4)

	res := tracker.evaluate(60.0000001, 0.4)
	if !res.resetSamples {
		t.Error("Tiny zoom delta should still reset; the comparison is exact")
	}
	if res.rebuildScene {
		t.Error("Zoom must not rebuild the scene")
	}

	// The new value became the baseline.
	res = tracker.evaluate(60.0000001, 0.4)
	if res.resetSamples {
		t.Error("Unchanged zoom reported a change")
	}
}

func TestInvalidationTracker_MetalProbabilityTolerance(t *testing.T) {
	tracker := newInvalidationTracker()
	tracker.evaluate(60, 0.4)

	res := tracker.evaluate(60, 0.4+metalProbabilityTolerance/2)
	if res.resetSamples || res.rebuildScene {
		t.Errorf("Change below tolerance should be ignored, got %+v", res)
	}

	res = tracker.evaluate(60, 0.4-2*metalProbabilityTolerance)
	if !res.resetSamples || !res.rebuildScene {
		t.Errorf("Change beyond tolerance should reset and rebuild, got %+v", res)
	}
}

func TestInvalidationTracker_BaselineAdvancesBelowTolerance(t *testing.T) {
	// Sub-tolerance steps update the stored value, so a slow drift cannot
	// accumulate into a phantom rebuild.
	tracker := newInvalidationTracker()
	tracker.evaluate(60, 0.4)
	p := 0.4
	for i := 0; i < 10; i++ {
		p += metalProbabilityTolerance / 2
		res := tracker.evaluate(60, p)
		if res.rebuildScene {
			t.Fatalf("Step %d triggered a rebuild from drift below tolerance", i)
		}
	}
}

func TestInvalidationTracker_SimultaneousChanges(t *testing.T) {
	cam := newOrbitCamera(vec3{}, 100, 60)
	tracker := newInvalidationTracker(cam)
	tracker.evaluate(60, 0.4)

	cam.orbit(0.1, 0.1)
	res := tracker.evaluate(45, 0.9)
	if !res.resetSamples || !res.rebuildScene {
		t.Errorf("Expected both reset and rebuild, got %+v", res)
	}

	// Every flag was consumed in the same pass.
	res = tracker.evaluate(45, 0.9)
	if res.resetSamples || res.rebuildScene {
		t.Errorf("Follow-up evaluate still reports changes: %+v", res)
	}
}
