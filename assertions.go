package corebench

import "testing"

// AssertWithinBaseline verifies each result's average stays within a
// relative tolerance band of a recorded baseline. tolerance is the allowed
// fraction of drift in either direction: 0.5 passes anything within ±50% of
// the baseline, matching the measurement-noise bands expected of repeated
// runs on identical hardware.
func AssertWithinBaseline(t *testing.T, results []Result, baseline map[string]Sample, tolerance float64) {
	t.Helper()

	for _, r := range results {
		key := baselineKey(r.Name, r.Core)

		want, ok := baseline[key]
		if !ok {
			t.Errorf("no baseline recorded for %s", key)

			continue
		}

		lo := float64(want) * (1 - tolerance)
		hi := float64(want) * (1 + tolerance)
		got := float64(r.AverageCycles)

		if got < lo || got > hi {
			t.Errorf("%s drifted outside tolerance: got %d cycles, baseline %d (band [%.0f, %.0f])",
				key, r.AverageCycles, want, lo, hi)

			continue
		}

		t.Logf("%s: %d cycles within ±%.0f%% of baseline %d", key, r.AverageCycles, tolerance*100, want)
	}
}

// AssertBoundedContention fits the USL model to scaling results and fails
// if the contention coefficient exceeds maxAlpha. Use it to pin down the
// cost of a shared lock across releases.
func AssertBoundedContention(t *testing.T, results []ScalingResult, maxAlpha float64) {
	t.Helper()

	coeffs, err := FitUSL(results)
	if err != nil {
		t.Fatalf("failed to fit USL model: %v", err)
	}

	if coeffs.Alpha > maxAlpha {
		t.Errorf("contention too high: alpha = %.6f (max: %.6f)", coeffs.Alpha, maxAlpha)
	}

	t.Logf("contention alpha = %.6f (threshold %.6f), R^2 = %.4f", coeffs.Alpha, maxAlpha, coeffs.RSquared)
}
