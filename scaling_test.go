package corebench

import (
	"context"
	"math"
	"testing"
	"time"
)

func syntheticScaling(lambda, alpha, beta float64, levels []int) []ScalingResult {
	results := make([]ScalingResult, 0, len(levels))
	for _, n := range levels {
		results = append(results, ScalingResult{
			N:          n,
			Throughput: uslModel(float64(n), lambda, alpha, beta),
		})
	}

	return results
}

// TestFitUSL_RecoversKnownCoefficients verifies the regression on exact
// model data.
func TestFitUSL_RecoversKnownCoefficients(t *testing.T) {
	const (
		lambda = 100.0
		alpha  = 0.05
		beta   = 0.001
	)

	results := syntheticScaling(lambda, alpha, beta, []int{1, 2, 4, 8, 16})

	coeffs, err := FitUSL(results)
	if err != nil {
		t.Fatalf("FitUSL failed: %v", err)
	}

	if math.Abs(coeffs.Lambda-lambda) > 1 {
		t.Errorf("lambda: expected %.2f, got %.2f", lambda, coeffs.Lambda)
	}

	if math.Abs(coeffs.Alpha-alpha) > 1e-3 {
		t.Errorf("alpha: expected %.4f, got %.4f", alpha, coeffs.Alpha)
	}

	if math.Abs(coeffs.Beta-beta) > 1e-3 {
		t.Errorf("beta: expected %.4f, got %.4f", beta, coeffs.Beta)
	}

	if coeffs.RSquared < 0.999 {
		t.Errorf("expected near-perfect fit on exact data, R^2 = %.4f", coeffs.RSquared)
	}
}

// TestFitUSL_RequiresThreePoints verifies the minimum data requirement.
func TestFitUSL_RequiresThreePoints(t *testing.T) {
	results := syntheticScaling(100, 0.05, 0.001, []int{1, 2})

	if _, err := FitUSL(results); err == nil {
		t.Fatal("expected error with 2 data points")
	}
}

// TestFitUSL_PredictAndEfficiency verifies the derived helpers.
func TestFitUSL_PredictAndEfficiency(t *testing.T) {
	coeffs := USLCoefficients{Lambda: 100, Alpha: 0, Beta: 0}

	if got := coeffs.PredictThroughput(4); math.Abs(got-400) > 1e-9 {
		t.Errorf("contention-free prediction at N=4: expected 400, got %.2f", got)
	}

	if got := coeffs.Efficiency(4); math.Abs(got-1) > 1e-9 {
		t.Errorf("contention-free efficiency: expected 1.0, got %.4f", got)
	}
}

// TestRunScaling_SingleLevel runs the real benchmark at N=1 and checks the
// summary shape.
func TestRunScaling_SingleLevel(t *testing.T) {
	cfg := Config{
		Cores:   1,
		Items:   16,
		Samples: 4,
		MaxWait: 30 * time.Second,
	}

	results, err := RunScaling(context.Background(), cfg, []int{1}, nil)
	if err != nil {
		t.Fatalf("RunScaling failed: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 level, got %d", len(results))
	}

	r := results[0]
	if r.N != 1 || len(r.PerCore) != 1 {
		t.Fatalf("expected one core at N=1, got N=%d with %d cores", r.N, len(r.PerCore))
	}

	if r.MeanCycles == 0 || r.Throughput == 0 {
		t.Errorf("expected non-zero summary, got %d cycles, %.3f ops/kcycle", r.MeanCycles, r.Throughput)
	}
}

// TestAssertBoundedContention_PassesOnLowAlpha exercises the assertion
// helper on near-lock-free data.
func TestAssertBoundedContention_PassesOnLowAlpha(t *testing.T) {
	results := syntheticScaling(100, 0.001, 0, []int{1, 2, 4, 8})

	AssertBoundedContention(t, results, 0.01)
}
