package sched

import (
	"sync"

	"github.com/argonlang/argon/internal/objectabi"
	"github.com/argonlang/argon/internal/vm"
)

// Future is what SPW pushes back to the spawning fiber. The scheduler
// resolves it when the spawned fiber completes or panics, writing Result
// or Err and closing done; Wait blocks the calling goroutine until then.
// Resolution does not write any waiting fiber's AsyncResult.
type Future struct {
	mu       sync.Mutex
	fiber    *vm.Fiber
	done     chan struct{}
	Result   objectabi.Object
	Err      *objectabi.ArError
	resolved bool
}

func newFuture(fiber *vm.Fiber) *Future {
	return &Future{fiber: fiber, done: make(chan struct{})}
}

func (f *Future) resolve(result objectabi.Object, err *objectabi.ArError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resolved {
		return
	}
	f.Result = result
	f.Err = err
	f.resolved = true
	close(f.done)
}

func (f *Future) Wait() (objectabi.Object, *objectabi.ArError) {
	<-f.done
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Result, f.Err
}

var futureType = &objectabi.Type{
	Name:    "future",
	TruthOf: func(objectabi.Object) bool { return true },
	Str:     func(objectabi.Object) string { return "<future>" },
}

func (f *Future) Type() *objectabi.Type { return futureType }
func (f *Future) String() string        { return "<future>" }
