package corebench

import "sync"

// Resource is the private per-core data structure a Worker drives during the
// timed region. TrySend must be non-blocking; Reset restores the resource to
// its initial empty state between rounds.
type Resource interface {
	TrySend(v int) bool
	Reset()
}

// Queue is a bounded FIFO with non-blocking send and receive. Every
// operation serializes on the queue's lock; when several queues are created
// with NewQueueShared they serialize on the *same* lock, reproducing the
// big-kernel-lock contention this harness exists to measure.
type Queue struct {
	mu    *sync.Mutex
	items []int
	head  int
	count int
}

// NewQueue creates an empty queue with its own lock.
func NewQueue(capacity int) *Queue {
	return NewQueueShared(capacity, &sync.Mutex{})
}

// NewQueueShared creates an empty queue whose operations serialize on lock.
// Pass the same lock to multiple queues to make otherwise-independent
// per-core queues contend with each other.
func NewQueueShared(capacity int, lock *sync.Mutex) *Queue {
	return &Queue{
		mu:    lock,
		items: make([]int, capacity),
	}
}

// TrySend enqueues v without blocking. Returns false if the queue is full.
func (q *Queue) TrySend(v int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == len(q.items) {
		return false
	}

	q.items[(q.head+q.count)%len(q.items)] = v
	q.count++

	return true
}

// TryReceive dequeues the oldest item without blocking. Returns false if
// the queue is empty.
func (q *Queue) TryReceive() (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		return 0, false
	}

	v := q.items[q.head]
	q.head = (q.head + 1) % len(q.items)
	q.count--

	return v, true
}

// Reset discards all queued items, restoring the initial empty state.
func (q *Queue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.head = 0
	q.count = 0
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.count
}

// Cap returns the queue capacity.
func (q *Queue) Cap() int {
	return len(q.items)
}
