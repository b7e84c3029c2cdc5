package corebench

import (
	"runtime"
	"sync"
)

// Worker is one execution unit bound to a specific core. Between rounds it
// blocks awaiting its release signal; during a round it performs a fixed,
// non-blocking workload against its private resource, folds the elapsed
// cycles into its core's accumulator slot, resets the resource, and signals
// completion. After the final round it suspends until Stop.
type Worker struct {
	core     int
	resource Resource
	clock    Clock
	acc      *Accumulator
	rounds   int
	items    int
	done     CompletionSink

	release  chan struct{}
	quit     chan struct{}
	exited   chan struct{}
	stopOnce sync.Once

	mu  sync.Mutex
	err error
}

// NewWorker creates a worker bound to core, in the idle state. It does not
// run until Start is called and the coordinator releases it.
func NewWorker(core int, resource Resource, clock Clock, acc *Accumulator, rounds, items int, done CompletionSink) *Worker {
	return &Worker{
		core:     core,
		resource: resource,
		clock:    clock,
		acc:      acc,
		rounds:   rounds,
		items:    items,
		done:     done,
		release:  make(chan struct{}, 1),
		quit:     make(chan struct{}),
		exited:   make(chan struct{}),
	}
}

// Start launches the worker on a locked OS thread pinned to its core. It
// returns once the thread is pinned, so a pinning failure surfaces before
// any timing begins.
func (w *Worker) Start() error {
	ready := make(chan error)
	go w.run(ready)

	if err := <-ready; err != nil {
		return &SetupError{Stage: "pin worker", Err: err}
	}

	return nil
}

func (w *Worker) run(ready chan<- error) {
	defer close(w.exited)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := pinCPU(w.core); err != nil {
		ready <- err

		return
	}

	ready <- nil

	for round := 0; round < w.rounds; round++ {
		select {
		case <-w.release:
		case <-w.quit:
			return
		}

		// The timed region covers the whole batch. One clock read per
		// round keeps read overhead negligible relative to the work.
		start := w.clock()

		for item := 0; item < w.items; item++ {
			if !w.resource.TrySend(item) {
				w.setErr(&OperationError{Name: "queue send", Core: w.core, Round: round})
				w.done.Done()

				return
			}
		}

		elapsed := Sample(w.clock() - start)

		w.acc.Add(w.core, elapsed)

		// Bookkeeping, not measurement: the reset stays outside the
		// timed region.
		w.resource.Reset()

		w.done.Done()
	}

	// Suspended: hold accumulated results until torn down.
	<-w.quit
}

// Release wakes the worker for one round. The coordinator issues exactly
// one release per round, so the buffered send never blocks.
func (w *Worker) Release() {
	w.release <- struct{}{}
}

// Core returns the core this worker is bound to.
func (w *Worker) Core() int {
	return w.core
}

// Err returns the worker's fatal error, if any.
func (w *Worker) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.err
}

func (w *Worker) setErr(err error) {
	w.mu.Lock()
	w.err = err
	w.mu.Unlock()
}

// Stop tears the worker down and waits for its goroutine to exit. Safe to
// call more than once.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.quit) })
	<-w.exited
}
