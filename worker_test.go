package main

import (
	"sync/atomic"
	"testing"
)

func TestTraceWorkers_CoversEveryRowOnce(t *testing.T) {
	w := newTraceWorkers(4)
	defer w.close()

	const rows = 37
	var hits [rows]int32
	w.run(rows, func(y int) {
		atomic.AddInt32(&hits[y], 1)
	})
	for y, n := range hits {
		if n != 1 {
			t.Errorf("Row %d processed %d times, want 1", y, n)
		}
	}
}

func TestTraceWorkers_ReusableAcrossSteps(t *testing.T) {
	w := newTraceWorkers(3)
	defer w.close()

	var total int64
	for step := 0; step < 10; step++ {
		w.run(16, func(y int) {
			atomic.AddInt64(&total, 1)
		})
	}
	if total != 160 {
		t.Errorf("Processed %d rows over 10 steps, want 160", total)
	}
}

func TestTraceWorkers_ZeroRows(t *testing.T) {
	w := newTraceWorkers(2)
	defer w.close()

	// Must return without calling the job.
	w.run(0, func(y int) {
		t.Errorf("Job called for row %d with zero rows", y)
	})
}

func TestTraceWorkers_SingleWorkerFloor(t *testing.T) {
	w := newTraceWorkers(0)
	defer w.close()

	var n int32
	w.run(5, func(y int) {
		atomic.AddInt32(&n, 1)
	})
	if n != 5 {
		t.Errorf("Processed %d rows, want 5", n)
	}
}
