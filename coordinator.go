package corebench

import (
	"context"
	"time"
)

// Releasable is a single-consumer wake. The coordinator issues exactly one
// Release per participant per round, and the participant consumes it before
// starting its workload.
type Releasable interface {
	Release()
}

// Participant is one independently schedulable unit driven by the
// Coordinator across rounds.
type Participant interface {
	Releasable

	// Core identifies the core the participant is bound to.
	Core() int

	// Err reports the participant's fatal error, if any. A participant
	// that fails still signals completion so the coordinator can observe
	// the error instead of hanging.
	Err() error
}

// CompletionSink is the fan-in side of the round barrier: a multi-producer
// countable signal. Each participant calls Done exactly once per round.
type CompletionSink interface {
	Done()
}

// CountingSignal implements CompletionSink over a buffered channel. The
// capacity must be at least the participant count; the coordinator drains
// all completions before releasing the next round, so at most N signals are
// ever outstanding and Done never blocks.
type CountingSignal struct {
	ch chan struct{}
}

// NewCountingSignal creates a signal that can hold up to capacity
// outstanding completions.
func NewCountingSignal(capacity int) *CountingSignal {
	return &CountingSignal{ch: make(chan struct{}, capacity)}
}

// Done records one completion.
func (s *CountingSignal) Done() {
	s.ch <- struct{}{}
}

// Coordinator runs N participants through a fixed number of strictly
// serialized rounds. Within a round participants race freely; round i+1
// does not begin until all N completions for round i have been consumed.
type Coordinator struct {
	participants []Participant
	done         *CountingSignal
	rounds       int
	maxWait      time.Duration
	localCore    func() int
}

// NewCoordinator creates a coordinator over the given participants. maxWait
// bounds the per-round fan-in wait; zero means wait forever.
func NewCoordinator(participants []Participant, done *CountingSignal, rounds int, maxWait time.Duration) *Coordinator {
	return &Coordinator{
		participants: participants,
		done:         done,
		rounds:       rounds,
		maxWait:      maxWait,
		localCore:    currentCPU,
	}
}

// Run executes all rounds. It returns the first participant error observed,
// a SyncError if a round's completions do not arrive within maxWait, or the
// context error on cancellation.
func (c *Coordinator) Run(ctx context.Context) error {
	for round := 0; round < c.rounds; round++ {
		// Release participants on other cores first so the calling
		// context's own scheduling does not preempt a just-released
		// participant before the rest have started. Best effort: when
		// the current core is unknown this degrades to core order.
		local := c.localCore()

		for _, p := range c.participants {
			if p.Core() != local {
				p.Release()
			}
		}

		for _, p := range c.participants {
			if p.Core() == local {
				p.Release()
			}
		}

		if err := c.await(ctx, round); err != nil {
			return err
		}

		for _, p := range c.participants {
			if err := p.Err(); err != nil {
				return err
			}
		}
	}

	return nil
}

// await consumes exactly one completion per participant for this round.
func (c *Coordinator) await(ctx context.Context, round int) error {
	var timeout <-chan time.Time

	if c.maxWait > 0 {
		timer := time.NewTimer(c.maxWait)
		defer timer.Stop()
		timeout = timer.C
	}

	for i := 0; i < len(c.participants); i++ {
		select {
		case <-c.done.ch:
		case <-timeout:
			return &SyncError{Round: round, Waited: c.maxWait}
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}
