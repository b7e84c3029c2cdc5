package corebench

// paddedSum keeps each core's cumulative sum on its own cache line so that
// accumulation on one core never invalidates another core's line mid-run.
type paddedSum struct {
	sum Sample
	_   [56]byte
}

// Accumulator holds the cumulative elapsed cycles observed on each core.
// Each slot is written by exactly one Worker and read by the Driver only
// after that worker has terminated, so no synchronization is needed on the
// sums themselves.
type Accumulator struct {
	slots []paddedSum
}

// NewAccumulator creates a zeroed accumulator for cores 0..n-1.
func NewAccumulator(n int) *Accumulator {
	return &Accumulator{slots: make([]paddedSum, n)}
}

// Add folds one sample into the cumulative sum for core.
func (a *Accumulator) Add(core int, s Sample) {
	a.slots[core].sum += s
}

// Sum returns the cumulative elapsed cycles for core.
func (a *Accumulator) Sum(core int) Sample {
	return a.slots[core].sum
}

// Average divides the cumulative sum for core by iterations using integer
// division. The discarded remainder is below cycle-counter granularity.
func (a *Accumulator) Average(core, iterations int) Sample {
	return a.slots[core].sum / Sample(iterations)
}

// Cores returns the number of per-core slots.
func (a *Accumulator) Cores() int {
	return len(a.slots)
}
