package sched

import (
	"sync"

	"github.com/argonlang/argon/internal/vm"
)

// OST (OS Thread) is a goroutine-backed worker that executes fibers for
// the VCore it is currently wired to. Grounded on the native engine's
// `struct OSThread { Fiber *fiber; FiberStatus fiber_status; VCore
// *current, *old; bool idle; bool spinning; std::thread self; }` —
// `self` becomes a plain goroutine since Go has no concept of pinning a
// fiber to a specific OS thread the way the native runtime does for
// blocking syscalls (Go's own scheduler already handles that).
type OST struct {
	ID int

	mu       sync.Mutex
	Current  *VCore
	Old      *VCore
	Fiber    *vm.Fiber
	Idle     bool
	Spinning bool
}

func NewOST(id int) *OST {
	return &OST{ID: id, Idle: true}
}

func (o *OST) WireVCore(vc *VCore) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if vc == nil || vc.Wired {
		return false
	}
	vc.Wired = true
	o.Current = vc
	o.Old = nil
	return true
}

func (o *OST) VCoreRelease() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Current != nil {
		o.Current.Wired = false
		o.Old = o.Current
		o.Current = nil
	}
}

func (o *OST) SetSpinning(v bool) {
	o.mu.Lock()
	o.Spinning = v
	o.mu.Unlock()
}

func (o *OST) IsSpinning() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Spinning
}

func (o *OST) SetIdle(v bool) {
	o.mu.Lock()
	o.Idle = v
	o.mu.Unlock()
}

func (o *OST) IsIdle() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Idle
}
