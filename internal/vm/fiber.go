package vm

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/argonlang/argon/internal/objectabi"
)

// FiberStatus mirrors the native engine's FiberStatus enum (spec §4.B /
// original runtime.cpp's `SetFiberStatus(FiberStatus::RUNNING)` calls).
type FiberStatus int

const (
	FiberRunnable FiberStatus = iota
	FiberRunning
	FiberSuspended // parked on AWAIT, a channel, or a timed sleep
	FiberBlocked   // parked on SYNC (monitor acquisition)
	FiberCompleted
	FiberPanicked
)

func (s FiberStatus) String() string {
	switch s {
	case FiberRunnable:
		return "runnable"
	case FiberRunning:
		return "running"
	case FiberSuspended:
		return "suspended"
	case FiberBlocked:
		return "blocked"
	case FiberCompleted:
		return "completed"
	case FiberPanicked:
		return "panicked"
	default:
		return "unknown"
	}
}

// Fiber is Argon's green-thread unit of execution: a frame stack plus the
// bookkeeping the scheduler and event loop need to suspend/resume it
// across OST handoffs (spec §4.B, grounded on the native engine's Fiber
// struct — frame stack, fiber_status, active_ost, async_result).
type Fiber struct {
	// ID is the scheduler's dense, map-friendly handle (futures/queues key
	// on it). TraceID is a process-external identity surface: the value a
	// `current_fiber()` builtin or a panic report hands back to a caller
	// who needs to correlate a fiber across log lines or a debugger
	// attachment without exposing the reusable integer handle.
	ID      uint64
	TraceID uuid.UUID

	mu     sync.Mutex
	Status FiberStatus
	Frames []*Frame

	Panic *PanicRecord

	// AsyncResult is the value an AWAIT'd future delivers; the scheduler
	// pushes it onto the resuming frame's operand stack before the next
	// Step, mirroring the native "self->fiber->async_result" handoff.
	AsyncResult objectabi.Object

	// ActiveOST is a slot for the id of the OS thread that owns this fiber
	// (native engine's `fiber->active_ost`). The scheduler neither sets
	// nor checks it, so it does not guard against a fiber being run twice.
	ActiveOST int64

	Stack    []objectabi.Object // shared operand stack across all frames
	Locals   map[string]objectabi.Object // fiber-local storage (task_local equivalent)
	Cond     *sync.Cond
	UnwindCap int // unwind depth limit slot; unwind does not consult it, so unwinding is unlimited
}

func NewFiber(id uint64) *Fiber {
	f := &Fiber{
		ID:      id,
		TraceID: uuid.New(),
		Status:  FiberRunnable,
		Stack:   make([]objectabi.Object, 0, 256),
		Locals:  make(map[string]objectabi.Object),
	}
	f.Cond = sync.NewCond(&f.mu)
	return f
}

func (f *Fiber) SetStatus(s FiberStatus) {
	f.mu.Lock()
	f.Status = s
	f.mu.Unlock()
}

func (f *Fiber) GetStatus() FiberStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Status
}

func (f *Fiber) PushFrame(fr *Frame) {
	f.Frames = append(f.Frames, fr)
}

func (f *Fiber) PopFrame() *Frame {
	if len(f.Frames) == 0 {
		return nil
	}
	fr := f.Frames[len(f.Frames)-1]
	f.Frames = f.Frames[:len(f.Frames)-1]
	return fr
}

func (f *Fiber) CurrentFrame() *Frame {
	if len(f.Frames) == 0 {
		return nil
	}
	return f.Frames[len(f.Frames)-1]
}

func (f *Fiber) PushOperand(o objectabi.Object) {
	f.Stack = append(f.Stack, o)
}

func (f *Fiber) PopOperand() objectabi.Object {
	if len(f.Stack) == 0 {
		return nil
	}
	o := f.Stack[len(f.Stack)-1]
	f.Stack = f.Stack[:len(f.Stack)-1]
	return o
}

func (f *Fiber) TopOperand() objectabi.Object {
	if len(f.Stack) == 0 {
		return nil
	}
	return f.Stack[len(f.Stack)-1]
}

// PushPanic links a new panic onto the chain (spec §4.B: a panic raised
// while already unwinding links rather than replaces).
func (f *Fiber) PushPanic(err *objectabi.ArError, frame *Frame, line int) {
	f.Panic = &PanicRecord{Err: err, Frame: frame, Line: line, Prev: f.Panic}
	f.Status = FiberPanicked
}

// Recovered reports whether the current (innermost) panic has been caught
// by a TRAP block, without discarding older chained panics.
func (f *Fiber) Recovered() bool {
	return f.Panic == nil || f.Panic.Recovered
}

// FiberType lets a *Fiber travel through the object ABI as the "fiber"
// argument native functions receive (spec §4.A NativeFn signature), the
// same way Engine.Spawn hands callers a future rather than a raw channel.
var FiberType = &objectabi.Type{
	Name:    "fiber",
	TruthOf: func(objectabi.Object) bool { return true },
	Str:     func(o objectabi.Object) string { return o.(*Fiber).String() },
}

func (f *Fiber) Type() *objectabi.Type { return FiberType }
func (f *Fiber) String() string        { return fmt.Sprintf("<fiber %s>", f.TraceID) }
