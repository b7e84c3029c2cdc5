// Package corebench measures how a shared lock degrades otherwise
// independent per-core operations under multi-core contention.
//
// # Overview
//
// corebench drives one pinned worker per core, each performing a fixed
// batch of non-blocking operations against a private bounded queue. The
// queues are independent data structures that serialize on one shared lock,
// so the only thing the workers fight over is that lock. Each round the
// coordinator releases every worker simultaneously, each worker times its
// whole batch with the hardware cycle counter, and the run reports the
// per-core average over all rounds.
//
// # Architecture
//
// Results flow upward through the layers:
//
//	clock.go        - cycle counter reads and the timed-operation wrapper
//	accumulator.go  - per-core cumulative sums and averages
//	queue.go        - the private bounded queue (shared-lock variant)
//	worker.go       - one pinned execution unit per core
//	coordinator.go  - round barrier: fan-out release, fan-in completion
//	driver.go       - setup, measurement, teardown, reported averages
//	scaling.go      - contention across core counts, USL fit
//
// # Quick Start
//
// Measure lock contention across all cores:
//
//	results, err := corebench.RunQueueContention(ctx, corebench.DefaultConfig(), logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, r := range results {
//	    fmt.Printf("core %d: %d avg cycles\n", r.Core, r.AverageCycles)
//	}
//
// Quantify how the lock scales with core count:
//
//	scaling, err := corebench.RunScaling(ctx, cfg, nil, logger)
//	usl, err := corebench.FitUSL(scaling)
//	fmt.Printf("contention (alpha): %.4f\n", usl.Alpha)
//
// # Measurement discipline
//
// The timed region covers an entire batch, bounded by two clock reads, so
// clock overhead stays negligible relative to the measured work. Queue
// resets happen outside the timed region. Workers never block inside the
// timed region; a non-blocking operation that fails aborts the run rather
// than contaminating the data. There are no retries anywhere: this is a
// measurement tool, and a retried failure would mask a real defect.
package corebench
