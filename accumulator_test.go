package corebench

import "testing"

// TestAccumulator_StartsZeroed verifies a fresh accumulator holds nothing.
func TestAccumulator_StartsZeroed(t *testing.T) {
	acc := NewAccumulator(4)

	if acc.Cores() != 4 {
		t.Fatalf("expected 4 cores, got %d", acc.Cores())
	}

	for core := 0; core < 4; core++ {
		if sum := acc.Sum(core); sum != 0 {
			t.Errorf("core %d: expected zero sum, got %d", core, sum)
		}
	}
}

// TestAccumulator_AddIsolatedPerCore verifies sums never leak across cores.
func TestAccumulator_AddIsolatedPerCore(t *testing.T) {
	acc := NewAccumulator(2)

	acc.Add(0, 100)
	acc.Add(0, 50)
	acc.Add(1, 7)

	if got := acc.Sum(0); got != 150 {
		t.Errorf("core 0: expected sum 150, got %d", got)
	}

	if got := acc.Sum(1); got != 7 {
		t.Errorf("core 1: expected sum 7, got %d", got)
	}
}

// TestAccumulator_AverageIntegerDivision verifies fractional remainders are
// discarded.
func TestAccumulator_AverageIntegerDivision(t *testing.T) {
	acc := NewAccumulator(1)

	acc.Add(0, 10)
	acc.Add(0, 11)

	if got := acc.Average(0, 2); got != 10 {
		t.Errorf("expected average 10 (21/2 truncated), got %d", got)
	}
}
