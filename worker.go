package main

import "sync"

// traceWorkers is a persistent pool of goroutines that splits a frame's
// rows across CPU cores. Workers sleep on a condition variable between
// frames and pick up rows round robin when a step is broadcast, so no
// goroutines are spawned per frame.
type traceWorkers struct {
	mu      sync.Mutex
	cond    *sync.Cond
	count   int
	step    int
	pending int
	rows    int
	job     func(y int)
	stopped bool
}

// newTraceWorkers starts count worker goroutines ready to process rows.
func newTraceWorkers(count int) *traceWorkers {
	if count < 1 {
		count = 1
	}
	w := &traceWorkers{count: count}
	w.cond = sync.NewCond(&w.mu)
	for i := 0; i < count; i++ {
		go w.loop(i)
	}
	return w
}

// loop executes assigned rows for every broadcast step until stopped.
func (w *traceWorkers) loop(index int) {
	lastStep := 0
	w.mu.Lock()
	for {
		for w.step == lastStep && !w.stopped {
			w.cond.Wait()
		}
		if w.stopped {
			w.mu.Unlock()
			return
		}
		lastStep = w.step
		rows := w.rows
		job := w.job
		stride := w.count
		w.mu.Unlock()

		for y := index; y < rows; y += stride {
			job(y)
		}

		w.mu.Lock()
		w.pending--
		if w.pending == 0 {
			w.cond.Broadcast()
		}
	}
}

// run distributes rows [0,rows) across the workers and blocks until every
// row has been processed.
func (w *traceWorkers) run(rows int, job func(y int)) {
	w.mu.Lock()
	w.rows = rows
	w.job = job
	w.pending = w.count
	w.step++
	w.cond.Broadcast()
	for w.pending > 0 {
		w.cond.Wait()
	}
	w.job = nil
	w.mu.Unlock()
}

// close stops the worker goroutines. The pool must not be used afterwards.
func (w *traceWorkers) close() {
	w.mu.Lock()
	w.stopped = true
	w.cond.Broadcast()
	w.mu.Unlock()
}
