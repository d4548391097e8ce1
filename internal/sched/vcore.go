package sched

import "github.com/argonlang/argon/internal/vm"

// VCore is a scheduling context an OST must be wired to before it can run
// fibers — the unit work-stealing operates over (spec §4.D, grounded on
// the native engine's `struct VCore { FiberQueue queue; bool wired;
// bool stealing; }`).
type VCore struct {
	ID    int
	Queue *FiberQueue

	Wired    bool
	Stealing bool
}

func NewVCore(id, queueCap int) *VCore {
	return &VCore{ID: id, Queue: NewFiberQueue(queueCap)}
}

// Enqueue pushes to this VCore's local queue, falling back to the global
// queue on local overflow (native engine's PUSH_LCQUEUE macro).
func (v *VCore) Enqueue(f *vm.Fiber, global *GlobalFiberQueue) {
	if !v.Queue.Enqueue(f) {
		global.Enqueue(f)
	}
}
