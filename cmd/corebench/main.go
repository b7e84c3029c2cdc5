// Package main provides the CLI entry point for corebench, a multi-core
// lock-contention benchmark harness.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/alexshd/corebench"
)

func main() {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	}))

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		logger.Error("benchmark failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

type runOptions struct {
	cores          int
	items          int
	samples        int
	timeout        time.Duration
	outputJSON     bool
	baselinePath   string
	recordBaseline bool
	tolerance      float64
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "corebench",
		Short: "Multi-core lock contention benchmark harness",
		Long: `Corebench quantifies how a shared lock degrades the latency of
otherwise-independent per-core operations when multiple cores contend for it
simultaneously. Workers are pinned one per core and timed with the hardware
cycle counter.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newContentionCmd(logger))
	root.AddCommand(newQueueSpeedCmd(logger))
	root.AddCommand(newCritSpeedCmd(logger))
	root.AddCommand(newScalingCmd(logger))

	return root
}

func addRunFlags(cmd *cobra.Command, opts *runOptions, perCore bool) {
	flags := cmd.Flags()

	if perCore {
		flags.IntVar(&opts.cores, "cores", 0,
			"Number of cores to contend (0 = all available)")
		flags.IntVar(&opts.items, "items", 256,
			"Operations per worker per round")
	}

	flags.IntVar(&opts.samples, "samples", 128,
		"Number of rounds to average over")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second,
		"Per-round completion wait bound (0 = wait forever)")
	flags.BoolVar(&opts.outputJSON, "json", false,
		"Output results as JSON instead of a table")
	flags.StringVar(&opts.baselinePath, "baseline", "",
		"Path to a baseline database to compare against")
	flags.BoolVar(&opts.recordBaseline, "record-baseline", false,
		"Record this run's averages as the new baseline")
	flags.Float64Var(&opts.tolerance, "tolerance", 0.5,
		"Allowed relative drift from the baseline")
}

func (o *runOptions) config() corebench.Config {
	cfg := corebench.DefaultConfig()
	cfg.Items = o.items
	cfg.Samples = o.samples
	cfg.MaxWait = o.timeout

	if o.cores > 0 {
		cfg.Cores = o.cores
	}

	return cfg
}

func newContentionCmd(logger *slog.Logger) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "contention",
		Short: "Measure queue send latency under shared-lock contention",
		RunE: func(cmd *cobra.Command, _ []string) error {
			results, err := corebench.RunQueueContention(cmd.Context(), opts.config(), logger)
			if err != nil {
				return err
			}

			return finishRun(cmd.Context(), logger, &opts, results)
		},
	}

	addRunFlags(cmd, &opts, true)

	return cmd
}

func newQueueSpeedCmd(logger *slog.Logger) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "queue-speed",
		Short: "Measure uncontended non-blocking queue send and receive",
		RunE: func(cmd *cobra.Command, _ []string) error {
			results, err := corebench.RunQueueSpeed(opts.config(), logger)
			if err != nil {
				return err
			}

			return finishRun(cmd.Context(), logger, &opts, results)
		},
	}

	addRunFlags(cmd, &opts, false)

	return cmd
}

func newCritSpeedCmd(logger *slog.Logger) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "crit-speed",
		Short: "Measure uncontended lock enter and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			results, err := corebench.RunCriticalSectionSpeed(opts.config(), logger)
			if err != nil {
				return err
			}

			return finishRun(cmd.Context(), logger, &opts, results)
		},
	}

	addRunFlags(cmd, &opts, false)

	return cmd
}

func newScalingCmd(logger *slog.Logger) *cobra.Command {
	var (
		opts   runOptions
		levels []int
	)

	cmd := &cobra.Command{
		Use:   "scaling",
		Short: "Measure contention across core counts and fit the USL model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			results, err := corebench.RunScaling(cmd.Context(), opts.config(), levels, logger)
			if err != nil {
				return err
			}

			coeffs, err := corebench.FitUSL(results)
			if err != nil {
				return err
			}

			return corebench.WriteScalingReport(os.Stdout, results, coeffs)
		},
	}

	addRunFlags(cmd, &opts, true)
	cmd.Flags().IntSliceVar(&levels, "levels", nil,
		"Core counts to test (default: 1,2,4,... up to all cores)")

	return cmd
}

func finishRun(ctx context.Context, logger *slog.Logger, opts *runOptions, results []corebench.Result) error {
	if opts.outputJSON {
		if err := corebench.WriteJSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		if err := corebench.WriteReport(os.Stdout, results); err != nil {
			return err
		}
	}

	if opts.baselinePath == "" {
		return nil
	}

	store, err := corebench.OpenBaselineStore(opts.baselinePath)
	if err != nil {
		return err
	}
	defer store.Close()

	if opts.recordBaseline {
		if err := store.Record(ctx, results); err != nil {
			return err
		}

		logger.Info("baseline recorded", slog.String("path", opts.baselinePath))

		return nil
	}

	drifts, err := store.Compare(ctx, results, opts.tolerance)
	if err != nil {
		return err
	}

	for _, d := range drifts {
		logger.Warn("result drifted from baseline",
			slog.String("primitive", d.Name),
			slog.Int("core", d.Core),
			slog.Uint64("baseline_cycles", uint64(d.Baseline)),
			slog.Uint64("current_cycles", uint64(d.Current)),
			slog.Float64("ratio", d.Ratio),
		)
	}

	if len(drifts) > 0 {
		return fmt.Errorf("%d result(s) outside ±%.0f%% of baseline", len(drifts), opts.tolerance*100)
	}

	logger.Info("all results within baseline tolerance",
		slog.Float64("tolerance", opts.tolerance))

	return nil
}
