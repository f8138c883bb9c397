// Package queue provides a fixed-capacity, thread-safe FIFO queue used to
// hand work items between a producer and a pool of consumers. It is the
// classic two-semaphore bounded buffer: an "empty" semaphore counts free
// slots, a "full" semaphore counts occupied slots, and a mutex serializes
// the head/tail index math. Two semaphores are used instead of a single
// condition variable so that Put and Get never need to re-check queue state
// under lock; each simply waits on the semaphore that represents the
// resource it needs.
package queue

import (
	"sync"

	"github.com/cognusion/semaphore"
)

// Queue is a bounded, blocking FIFO of T. The zero value is not usable;
// construct with New.
type Queue[T any] struct {
	mu   sync.Mutex
	data []T
	head int
	tail int
	size int

	empty semaphore.Semaphore // counts free slots
	full  semaphore.Semaphore // counts occupied slots
}

// New allocates a Queue with the given capacity. Capacity must be >= 1.
func New[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}

	q := &Queue[T]{
		data:  make([]T, capacity),
		size:  capacity,
		empty: semaphore.NewSemaphore(capacity),
		full:  semaphore.NewSemaphore(capacity),
	}

	// full starts at zero occupied slots: drain every permit NewSemaphore
	// handed out so the first Get blocks until a Put posts one back.
	for i := 0; i < capacity; i++ {
		q.full.Lock()
	}

	return q
}

// Put blocks while the queue is full, then inserts item at the tail.
// A zero value of T (including a nil pointer/interface sentinel) is a
// valid item and is accepted like any other.
func (q *Queue[T]) Put(item T) {
	q.empty.Lock()
	q.mu.Lock()

	q.data[q.tail] = item
	q.tail = (q.tail + 1) % q.size

	q.mu.Unlock()
	q.full.Unlock()
}

// Get blocks while the queue is empty, then removes and returns the item
// at the head.
func (q *Queue[T]) Get() T {
	q.full.Lock()
	q.mu.Lock()

	item := q.data[q.head]
	var zero T
	q.data[q.head] = zero // drop the reference so the GC can reclaim it
	q.head = (q.head + 1) % q.size

	q.mu.Unlock()
	q.empty.Unlock()

	return item
}

// Cap returns the queue's fixed capacity.
func (q *Queue[T]) Cap() int {
	return q.size
}
