package corebench

import (
	"fmt"
	"io"

	"github.com/sugawarayuuta/sonnet"
)

// WriteReport writes a markdown comparison table for the given results.
func WriteReport(w io.Writer, results []Result) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to report")
	}

	fmt.Fprintln(w, "## Benchmark Results")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Primitive | Core | Avg Cycles | Samples | Items/Sample |")
	fmt.Fprintln(w, "|-----------|------|------------|---------|--------------|")

	for _, r := range results {
		fmt.Fprintf(w, "| %s | %s | %d | %d | %d |\n",
			r.Name, formatCore(r.Core), r.AverageCycles, r.Samples, r.Items)
	}

	return nil
}

// WriteScalingReport writes a markdown table of scaling results with the
// fitted USL coefficients.
func WriteScalingReport(w io.Writer, results []ScalingResult, coeffs USLCoefficients) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to report")
	}

	fmt.Fprintln(w, "## Scaling Results")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Cores | Mean Cycles | Throughput (ops/kcycle) | Predicted | Efficiency |")
	fmt.Fprintln(w, "|-------|-------------|-------------------------|-----------|------------|")

	for _, r := range results {
		fmt.Fprintf(w, "| %d | %d | %.3f | %.3f | %.1f%% |\n",
			r.N, r.MeanCycles, r.Throughput,
			coeffs.PredictThroughput(r.N), coeffs.Efficiency(r.N)*100)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "USL fit: lambda=%.3f alpha=%.6f beta=%.6f (R^2=%.4f)\n",
		coeffs.Lambda, coeffs.Alpha, coeffs.Beta, coeffs.RSquared)

	return nil
}

// WriteJSON writes results as indented JSON to w.
func WriteJSON(w io.Writer, results []Result) error {
	data, err := sonnet.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	data = append(data, '\n')

	_, err = w.Write(data)

	return err
}

func formatCore(core int) string {
	if core < 0 {
		return "-"
	}

	return fmt.Sprintf("%d", core)
}
