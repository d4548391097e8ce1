package sched

import (
	"sync"

	"github.com/argonlang/argon/internal/vm"
)

// FiberQueue is a bounded, concurrency-safe run queue local to one VCore
// (spec §4.D, grounded on the native engine's FiberQueue — a fixed-length
// ring buffer, not an unbounded channel, so a VCore's local queue can
// overflow into the global queue rather than block a producer).
type FiberQueue struct {
	mu    sync.Mutex
	items []*vm.Fiber
	cap   int
}

func NewFiberQueue(capacity int) *FiberQueue {
	return &FiberQueue{items: make([]*vm.Fiber, 0, capacity), cap: capacity}
}

// Enqueue returns false if the queue is at capacity, mirroring the
// native engine's "PUSH_LCQUEUE falls back to fiber_global on overflow".
func (q *FiberQueue) Enqueue(f *vm.Fiber) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= q.cap {
		return false
	}
	q.items = append(q.items, f)
	return true
}

func (q *FiberQueue) Dequeue() *vm.Fiber {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	f := q.items[0]
	q.items = q.items[1:]
	return f
}

func (q *FiberQueue) IsEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) == 0
}

// StealDequeue removes up to n fibers from the tail of the queue, for a
// victim VCore to hand to a thief's local queue (spec §4.D work-stealing).
func (q *FiberQueue) StealDequeue(n int) []*vm.Fiber {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	if n > len(q.items) {
		n = len(q.items)
	}
	stolen := make([]*vm.Fiber, n)
	copy(stolen, q.items[len(q.items)-n:])
	q.items = q.items[:len(q.items)-n]
	return stolen
}

func (q *FiberQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// GlobalFiberQueue is an unbounded MPMC queue backing fiber_global/
// fiber_pool — any VCore can push or pop from it.
type GlobalFiberQueue struct {
	mu    sync.Mutex
	items []*vm.Fiber
}

func NewGlobalFiberQueue() *GlobalFiberQueue {
	return &GlobalFiberQueue{}
}

func (q *GlobalFiberQueue) Enqueue(f *vm.Fiber) {
	q.mu.Lock()
	q.items = append(q.items, f)
	q.mu.Unlock()
}

func (q *GlobalFiberQueue) Dequeue() *vm.Fiber {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	f := q.items[0]
	q.items = q.items[1:]
	return f
}

func (q *GlobalFiberQueue) IsEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) == 0
}
