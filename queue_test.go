package corebench

import (
	"sync"
	"testing"
	"time"
)

// TestQueue_FillDrainFIFO verifies capacity bounds and ordering.
func TestQueue_FillDrainFIFO(t *testing.T) {
	q := NewQueue(4)

	for i := 0; i < 4; i++ {
		if !q.TrySend(i) {
			t.Fatalf("send %d failed below capacity", i)
		}
	}

	if q.TrySend(99) {
		t.Fatal("send succeeded on a full queue")
	}

	for i := 0; i < 4; i++ {
		v, ok := q.TryReceive()
		if !ok {
			t.Fatalf("receive %d failed on a non-empty queue", i)
		}

		if v != i {
			t.Errorf("expected %d in FIFO order, got %d", i, v)
		}
	}

	if _, ok := q.TryReceive(); ok {
		t.Fatal("receive succeeded on an empty queue")
	}
}

// TestQueue_ResetRestoresEmptyState verifies the next round's full workload
// succeeds unconditionally after a reset.
func TestQueue_ResetRestoresEmptyState(t *testing.T) {
	q := NewQueue(8)

	for i := 0; i < 8; i++ {
		q.TrySend(i)
	}

	q.Reset()

	if got := q.Len(); got != 0 {
		t.Fatalf("expected empty queue after reset, got %d items", got)
	}

	for i := 0; i < 8; i++ {
		if !q.TrySend(i) {
			t.Fatalf("send %d failed after reset", i)
		}
	}
}

// TestQueueShared_ContentsStayPrivate verifies queues sharing a lock do not
// share items.
func TestQueueShared_ContentsStayPrivate(t *testing.T) {
	lock := &sync.Mutex{}
	q1 := NewQueueShared(4, lock)
	q2 := NewQueueShared(4, lock)

	q1.TrySend(1)

	if got := q2.Len(); got != 0 {
		t.Fatalf("item leaked into sibling queue: len %d", got)
	}

	if got := q1.Len(); got != 1 {
		t.Fatalf("expected 1 item, got %d", got)
	}
}

// TestQueueShared_SerializesOnSharedLock verifies an operation on one queue
// waits for the shared lock held through another.
func TestQueueShared_SerializesOnSharedLock(t *testing.T) {
	lock := &sync.Mutex{}
	q1 := NewQueueShared(4, lock)
	q2 := NewQueueShared(4, lock)

	lock.Lock()

	done := make(chan struct{})

	go func() {
		q2.TrySend(1)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("send on sibling queue proceeded while shared lock was held")
	case <-time.After(50 * time.Millisecond):
	}

	lock.Unlock()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("send did not proceed after shared lock was released")
	}

	if !q1.TrySend(2) {
		t.Fatal("send on first queue failed after unlock")
	}
}
