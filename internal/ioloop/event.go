package ioloop

import (
	"container/heap"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/argonlang/argon/internal/objectabi"
	"github.com/argonlang/argon/internal/vm"
)

// EventKind distinguishes what kind of readiness an Event is waiting on.
type EventKind int

const (
	EventRead EventKind = iota
	EventWrite
	EventTimer
)

// Callback runs on the event loop goroutine when an event fires, with the
// fiber that's waiting on it (nil for timers with no parked fiber yet).
type Callback func(ev *Event)

// Event is a single pending I/O or timer registration — the Go analogue
// of the native engine's `struct Event` (next/prev/loop/fiber/callback
// /aux/initiator/buffer), minus the intrusive linked-list pointers since
// Go backends key events by file descriptor or heap index instead.
type Event struct {
	Handle   int // fd for read/write events, unused for timers
	Kind     EventKind
	Fiber    *vm.Fiber
	Callback Callback
	Aux      objectabi.Object // caller payload (e.g. read buffer)
	Deadline time.Time        // for EventTimer; read/write events may carry one, but no backend enforces it

	// TraceID identifies this node independent of its heap/fd slot, so a
	// timer that gets reheaped (its index changes every Push/Pop) still
	// reports a stable identity to whatever scheduled it.
	TraceID uuid.UUID

	index int // heap.Interface bookkeeping for the timer queue
}

// NewEvent allocates an Event with its trace identity assigned.
func NewEvent(kind EventKind, handle int, cb Callback) *Event {
	return &Event{Kind: kind, Handle: handle, Callback: cb, TraceID: uuid.New()}
}

// timerQueue is a container/heap min-heap ordered by Deadline, the same
// role barn's TaskQueue plays for wake-time-ordered suspended tasks,
// generalized from *Task to *Event.
type timerQueue []*Event

func (q timerQueue) Len() int            { return len(q) }
func (q timerQueue) Less(i, j int) bool  { return q[i].Deadline.Before(q[j].Deadline) }
func (q timerQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i]; q[i].index = i; q[j].index = j }
func (q *timerQueue) Push(x interface{}) {
	e := x.(*Event)
	e.index = len(*q)
	*q = append(*q, e)
}
func (q *timerQueue) Pop() interface{} {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*q = old[:n-1]
	return e
}

// EvLoop is the platform-independent event loop shell: a timer heap plus
// a backend (epoll/kqueue/poll-fallback) that the platform-specific
// files implement (spec §4.E, grounded on the native engine's EvLoop +
// EventLoopIOPoll/EventLoopIOAdd/EventAlloc/EventDel API).
type EvLoop struct {
	mu     sync.Mutex
	timers timerQueue
	io     ioBackend

	stop chan struct{}
	wake chan struct{}
}

// ioBackend is implemented per-platform (loop_linux.go epoll,
// loop_darwin.go kqueue, loop_other.go a poll-based fallback), selected
// at compile time via build tags rather than runtime branching.
type ioBackend interface {
	Add(ev *Event) error
	Remove(ev *Event) error
	Poll(timeout time.Duration) ([]*Event, error)
	Close() error
}

func NewEvLoop() (*EvLoop, error) {
	backend, err := newIOBackend()
	if err != nil {
		return nil, err
	}
	return &EvLoop{
		io:   backend,
		stop: make(chan struct{}),
		wake: make(chan struct{}, 1),
	}, nil
}

// EventAlloc registers a new event, scheduling it on the timer heap if
// it's a bare timer or handing it to the platform backend if it watches
// a descriptor.
func (l *EvLoop) EventAlloc(ev *Event) error {
	l.mu.Lock()
	if ev.Kind == EventTimer {
		heap.Push(&l.timers, ev)
		l.mu.Unlock()
		l.nudge()
		return nil
	}
	l.mu.Unlock()
	return l.io.Add(ev)
}

// EventDel cancels a previously allocated event before it fires.
func (l *EvLoop) EventDel(ev *Event) error {
	if ev.Kind == EventTimer {
		l.mu.Lock()
		if ev.index >= 0 && ev.index < len(l.timers) {
			heap.Remove(&l.timers, ev.index)
		}
		l.mu.Unlock()
		return nil
	}
	return l.io.Remove(ev)
}

func (l *EvLoop) nudge() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// kEventTimeout mirrors the native engine's 500ms default poll timeout
// used when no timer is sooner.
const kEventTimeout = 500 * time.Millisecond

// IOPoll blocks until the next timer deadline or an I/O event becomes
// ready, firing every due callback before returning (spec §4.E
// "EventLoopIOPoll drains both the timer heap and backend readiness").
func (l *EvLoop) IOPoll() {
	timeout := l.nextTimeout()

	ready, err := l.io.Poll(timeout)
	if err == nil {
		for _, ev := range ready {
			ev.Callback(ev)
		}
	}

	l.fireDueTimers()
}

func (l *EvLoop) nextTimeout() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.timers) == 0 {
		return kEventTimeout
	}
	d := time.Until(l.timers[0].Deadline)
	if d < 0 {
		return 0
	}
	if d > kEventTimeout {
		return kEventTimeout
	}
	return d
}

func (l *EvLoop) fireDueTimers() {
	now := time.Now()
	for {
		l.mu.Lock()
		if len(l.timers) == 0 || l.timers[0].Deadline.After(now) {
			l.mu.Unlock()
			return
		}
		ev := heap.Pop(&l.timers).(*Event)
		l.mu.Unlock()
		ev.Callback(ev)
	}
}

// Run drives IOPoll in a loop until Shutdown is called, meant to run on
// its own goroutine (one loop per VCore or one shared loop — spec §4.E
// leaves this to the scheduler's wiring).
func (l *EvLoop) Run() {
	for {
		select {
		case <-l.stop:
			return
		default:
			l.IOPoll()
		}
	}
}

func (l *EvLoop) Shutdown() {
	close(l.stop)
	l.io.Close()
}
