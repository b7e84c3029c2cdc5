package corebench

import (
	"errors"
	"runtime"
	"testing"
	"time"
)

// TestCycles_Monotonic verifies readings on one thread never go backwards.
func TestCycles_Monotonic(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	// Monotonicity is only promised per core; stay on one where possible.
	_ = pinCPU(0)

	prev := Cycles()
	for i := 0; i < 1000; i++ {
		now := Cycles()
		if now < prev {
			t.Fatalf("clock went backwards: %d after %d (read %d)", now, prev, i)
		}

		prev = now
	}
}

// TestTime_MeasuresElapsed verifies the wrapper brackets the operation.
func TestTime_MeasuresElapsed(t *testing.T) {
	elapsed, err := Time(Cycles, func() error {
		time.Sleep(time.Millisecond)

		return nil
	})
	if err != nil {
		t.Fatalf("Time returned unexpected error: %v", err)
	}

	if elapsed == 0 {
		t.Error("1ms of work measured as zero cycles")
	}

	t.Logf("1ms sleep: %d cycles", elapsed)
}

// TestTime_PropagatesError verifies the operation's error reaches the caller.
func TestTime_PropagatesError(t *testing.T) {
	wantErr := errors.New("enqueue failed")

	_, err := Time(Cycles, func() error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
}

// TestClockOverhead_BelowMeasuredWork verifies the clock's own cost is small
// relative to a workload worth measuring.
func TestClockOverhead_BelowMeasuredWork(t *testing.T) {
	overhead := ClockOverhead(Cycles)

	work, err := Time(Cycles, func() error {
		time.Sleep(time.Millisecond)

		return nil
	})
	if err != nil {
		t.Fatalf("Time failed: %v", err)
	}

	if overhead >= work {
		t.Errorf("clock overhead %d cycles not below 1ms workload %d cycles", overhead, work)
	}

	t.Logf("clock overhead: %d cycles", overhead)
}

// fakeClock returns a Clock advancing by step on every read, for
// deterministic single-threaded tests.
func fakeClock(step uint64) Clock {
	var now uint64

	return func() CycleReading {
		now += step

		return CycleReading(now)
	}
}

// TestTime_FakeClockDeterministic pins down the wrapper's arithmetic.
func TestTime_FakeClockDeterministic(t *testing.T) {
	clock := fakeClock(7)

	elapsed, err := Time(clock, func() error { return nil })
	if err != nil {
		t.Fatalf("Time failed: %v", err)
	}

	if elapsed != 7 {
		t.Errorf("expected elapsed 7, got %d", elapsed)
	}
}
