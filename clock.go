package corebench

// CycleReading is a raw hardware cycle-counter value. Readings are
// monotonic on the core they were taken on for the duration of a run;
// counter wraparound is assumed not to occur within a run.
type CycleReading uint64

// Sample is one elapsed-duration measurement in cycles, the difference
// of two CycleReadings taken on the same core.
type Sample uint64

// Clock reads a high-resolution cycle counter. Implementations must be
// non-blocking, side-effect-free, and callable from any core.
type Clock func() CycleReading

// Cycles reads the hardware cycle counter: RDTSC on amd64, CNTVCT_EL0 on
// arm64, and the monotonic nanosecond clock elsewhere.
func Cycles() CycleReading {
	return CycleReading(readCycleCounter())
}

// Time invokes op once and returns the elapsed cycles alongside op's error.
// The caller decides whether an error invalidates the measurement; the
// elapsed value is returned either way.
func Time(clock Clock, op func() error) (Sample, error) {
	start := clock()
	err := op()

	return Sample(clock() - start), err
}

const overheadTrials = 10000

// ClockOverhead estimates the cost of one clock read as the minimum delta
// observed between back-to-back reads. Useful for judging whether a measured
// duration is dominated by the clock itself.
func ClockOverhead(clock Clock) Sample {
	overhead := Sample(1<<64 - 1)

	for i := 0; i < overheadTrials; i++ {
		start := clock()
		delta := Sample(clock() - start)
		if delta < overhead {
			overhead = delta
		}
	}

	return overhead
}
