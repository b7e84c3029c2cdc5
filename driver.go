package corebench

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// Config holds the fixed constants of one run. Immutable for the run's
// duration.
type Config struct {
	Cores         int           // number of workers, pinned to cores 0..Cores-1
	Items         int           // workload size: operations per round per worker
	Samples       int           // number of rounds (iterations)
	QueueCapacity int           // private queue capacity (default: Items)
	MaxWait       time.Duration // per-round fan-in bound, 0 = wait forever
	Clock         Clock         // cycle source (default: Cycles)
}

// DefaultConfig mirrors the reference configuration: every available core,
// 256 items per round, 128 rounds.
func DefaultConfig() Config {
	return Config{
		Cores:   runtime.NumCPU(),
		Items:   256,
		Samples: 128,
	}
}

// Result is one reported average: the mean elapsed cycles for the named
// primitive, per core where applicable (Core is -1 otherwise).
type Result struct {
	Name          string `json:"name"`
	Core          int    `json:"core"`
	AverageCycles Sample `json:"average_cycles"`
	Samples       int    `json:"samples"`
	Items         int    `json:"items"`
}

func (cfg *Config) normalize() {
	if cfg.QueueCapacity == 0 {
		cfg.QueueCapacity = cfg.Items
	}

	if cfg.Clock == nil {
		cfg.Clock = Cycles
	}
}

func (cfg *Config) validate() error {
	if cfg.Cores < 1 || cfg.Cores > runtime.NumCPU() {
		return &SetupError{
			Stage: "validate config",
			Err:   fmt.Errorf("cores must be in [1, %d], got %d", runtime.NumCPU(), cfg.Cores),
		}
	}

	if cfg.Items < 1 {
		return &SetupError{Stage: "validate config", Err: fmt.Errorf("items must be >= 1, got %d", cfg.Items)}
	}

	if cfg.Samples < 1 {
		return &SetupError{Stage: "validate config", Err: fmt.Errorf("samples must be >= 1, got %d", cfg.Samples)}
	}

	if cfg.QueueCapacity < cfg.Items {
		return &SetupError{
			Stage: "validate config",
			Err:   fmt.Errorf("queue capacity %d below workload size %d", cfg.QueueCapacity, cfg.Items),
		}
	}

	return nil
}

// RunQueueContention measures how a lock shared by otherwise-independent
// per-core queues degrades non-blocking send latency under contention.
//
// One queue and one pinned worker are created per core; all queues
// serialize on the same lock. Each round every worker fills its own queue
// with Items sends, timed as a single sample, and the run reports the
// per-core average over Samples rounds.
func RunQueueContention(ctx context.Context, cfg Config, logger *slog.Logger) ([]Result, error) {
	cfg.normalize()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.InfoContext(ctx, "starting contention run",
		slog.Int("cores", cfg.Cores),
		slog.Int("items", cfg.Items),
		slog.Int("samples", cfg.Samples),
	)

	// The shared lock is the subject of the measurement.
	shared := &sync.Mutex{}

	acc := NewAccumulator(cfg.Cores)
	done := NewCountingSignal(cfg.Cores)
	workers := make([]*Worker, 0, cfg.Cores)
	participants := make([]Participant, 0, cfg.Cores)

	defer func() {
		for _, w := range workers {
			w.Stop()
		}
	}()

	for core := 0; core < cfg.Cores; core++ {
		queue := NewQueueShared(cfg.QueueCapacity, shared)
		w := NewWorker(core, queue, cfg.Clock, acc, cfg.Samples, cfg.Items, done)

		if err := w.Start(); err != nil {
			return nil, err
		}

		workers = append(workers, w)
		participants = append(participants, w)
	}

	coord := NewCoordinator(participants, done, cfg.Samples, cfg.MaxWait)

	start := time.Now()

	if err := coord.Run(ctx); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "contention run finished",
		slog.Duration("wall_time", time.Since(start)),
	)

	results := make([]Result, 0, cfg.Cores)
	for core := 0; core < cfg.Cores; core++ {
		results = append(results, Result{
			Name:          "queue send (contended)",
			Core:          core,
			AverageCycles: acc.Average(core, cfg.Samples),
			Samples:       cfg.Samples,
			Items:         cfg.Items,
		})
	}

	return results, nil
}

// RunQueueSpeed measures non-blocking queue send and receive in isolation:
// the single-primitive variant with one worker and one individually timed
// call per sample.
func RunQueueSpeed(cfg Config, logger *slog.Logger) ([]Result, error) {
	cfg.Cores = 1
	cfg.Items = 1
	cfg.QueueCapacity = cfg.Samples
	cfg.normalize()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	queue := NewQueue(cfg.Samples)

	var sendSum, recvSum Sample

	for i := 0; i < cfg.Samples; i++ {
		v := i

		elapsed, err := Time(cfg.Clock, func() error {
			if !queue.TrySend(v) {
				return &OperationError{Name: "queue send", Core: currentCPU(), Round: v}
			}

			return nil
		})
		if err != nil {
			return nil, err
		}

		sendSum += elapsed
	}

	for i := 0; i < cfg.Samples; i++ {
		round := i

		elapsed, err := Time(cfg.Clock, func() error {
			if _, ok := queue.TryReceive(); !ok {
				return &OperationError{Name: "queue receive", Core: currentCPU(), Round: round}
			}

			return nil
		})
		if err != nil {
			return nil, err
		}

		recvSum += elapsed
	}

	logger.Info("queue speed run finished", slog.Int("samples", cfg.Samples))

	return []Result{
		{Name: "queue send", Core: -1, AverageCycles: sendSum / Sample(cfg.Samples), Samples: cfg.Samples, Items: 1},
		{Name: "queue receive", Core: -1, AverageCycles: recvSum / Sample(cfg.Samples), Samples: cfg.Samples, Items: 1},
	}, nil
}

// RunCriticalSectionSpeed measures uncontended lock enter and exit: the
// single-primitive variant applied to the shared-lock primitive itself.
func RunCriticalSectionSpeed(cfg Config, logger *slog.Logger) ([]Result, error) {
	cfg.Cores = 1
	cfg.Items = 1
	cfg.normalize()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var mu sync.Mutex

	var enterSum, exitSum Sample

	for i := 0; i < cfg.Samples; i++ {
		elapsed, _ := Time(cfg.Clock, func() error {
			mu.Lock()

			return nil
		})
		enterSum += elapsed

		elapsed, _ = Time(cfg.Clock, func() error {
			mu.Unlock()

			return nil
		})
		exitSum += elapsed
	}

	logger.Info("critical section speed run finished", slog.Int("samples", cfg.Samples))

	return []Result{
		{Name: "lock enter", Core: -1, AverageCycles: enterSum / Sample(cfg.Samples), Samples: cfg.Samples, Items: 1},
		{Name: "lock exit", Core: -1, AverageCycles: exitSum / Sample(cfg.Samples), Samples: cfg.Samples, Items: 1},
	}, nil
}
