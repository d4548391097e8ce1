package sched

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/argonlang/argon/internal/objectabi"
	"github.com/argonlang/argon/internal/trace"
	"github.com/argonlang/argon/internal/vm"
)

// scheduleTickBeforeCheck mirrors kScheduleTickBeforeCheck: every this-many
// iterations an OST checks its local queue last instead of first, so a
// VCore that keeps re-feeding its own queue doesn't starve the global
// queue and other VCores' stolen work.
const scheduleTickBeforeCheck = 61

const defaultVCoreQueueLen = 1024

// Scheduler is Argon's M:N fiber scheduler: a fixed set of VCores (the
// concurrency budget) multiplexed over a pool of OST goroutines that
// grows and shrinks with demand (spec §4.D). Grounded directly on the
// native engine's runtime.cpp globals (vcores/vc_total, ost_active/
// ost_idle, fiber_global/fiber_pool) turned into instance fields instead
// of package-level mutable state.
type Scheduler struct {
	engine *vm.Engine

	vcores  []*VCore
	vcTotal int

	global *GlobalFiberQueue

	futuresMu sync.Mutex
	futures   map[uint64]*Future

	spinCap *semaphore.Weighted
	spinCnt int32

	ostMax     int
	ostTotal   int32
	nextFiber  uint64
	nextOSTID  int32

	group  *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc

	shouldStop atomic.Bool
}

// New builds a scheduler with vcores VCores (0 = GOMAXPROCS) and at most
// ostMax live OS-thread-equivalent goroutines (0 = four per VCore).
func New(vcores, ostMax int) *Scheduler {
	if vcores <= 0 {
		vcores = runtime.GOMAXPROCS(0)
	}
	if ostMax <= 0 {
		ostMax = vcores * 4
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		vcTotal: vcores,
		global:  NewGlobalFiberQueue(),
		futures: make(map[uint64]*Future),
		spinCap: semaphore.NewWeighted(int64(vcores)),
		ostMax:  ostMax,
		ctx:     ctx,
		cancel:  cancel,
	}
	s.group, s.ctx = errgroup.WithContext(ctx)

	for i := 0; i < vcores; i++ {
		s.vcores = append(s.vcores, NewVCore(i, defaultVCoreQueueLen))
	}
	s.engine = vm.NewEngine(s)
	return s
}

// Spawn implements vm.Spawner: builds a fresh Fiber around fn, enqueues
// it on the global queue, and returns immediately with a future-like
// placeholder object the calling fiber can AWAIT.
func (s *Scheduler) Spawn(fn *objectabi.Function, args []objectabi.Object) (objectabi.Object, error) {
	id := atomic.AddUint64(&s.nextFiber, 1)
	fiber := vm.NewFiber(id)
	frame := vm.NewFrame(fn.Code, fn.Enclosed, 0)
	for i, a := range args {
		if i < len(frame.Locals) {
			frame.Locals[i] = a
		}
	}
	fiber.PushFrame(frame)

	future := newFuture(fiber)
	s.futuresMu.Lock()
	s.futures[id] = future
	s.futuresMu.Unlock()

	s.global.Enqueue(fiber)
	trace.Schedule("spawn", id, -1, -1)
	s.wakeRun()
	return future, nil
}

// Run blocks every OST worker onto the scheduler's errgroup and starts
// one per VCore — additional workers are started on demand by wakeRun,
// mirroring OSTWakeRun's lazy growth instead of pre-spawning ostMax
// goroutines up front.
func (s *Scheduler) Run() {
	for i := 0; i < s.vcTotal; i++ {
		s.startOST()
	}
}

// Shutdown signals should_stop and waits for every OST goroutine to
// notice and return (errgroup.Wait, the Go equivalent of joining every
// std::thread in ost_active/ost_idle).
func (s *Scheduler) Shutdown() error {
	s.shouldStop.Store(true)
	s.cancel()
	return s.group.Wait()
}

func (s *Scheduler) resolveFuture(fiberID uint64, result objectabi.Object, err *objectabi.ArError) {
	s.futuresMu.Lock()
	future, ok := s.futures[fiberID]
	if ok {
		delete(s.futures, fiberID)
	}
	s.futuresMu.Unlock()
	if ok {
		future.resolve(result, err)
	}
}

func (s *Scheduler) startOST() {
	id := atomic.AddInt32(&s.nextOSTID, 1)
	ost := NewOST(int(id))
	atomic.AddInt32(&s.ostTotal, 1)
	s.group.Go(func() error {
		s.runOST(ost)
		return nil
	})
}

// wakeRun wakes an idle OST or starts a new one if room remains under
// ostMax, mirroring OSTWakeRun's "notify an idle thread, else spawn one".
func (s *Scheduler) wakeRun() {
	if s.global.IsEmpty() {
		return
	}
	if int(atomic.LoadInt32(&s.ostTotal)) < s.ostMax {
		s.startOST()
	}
}

// runOST is the Scheduler() loop from the native engine, translated to a
// single goroutine per worker instead of a pthread: acquire or wait for
// a VCore, find an executable fiber (local queue / global queue / steal,
// order flipped every scheduleTickBeforeCheck ticks), run it to its next
// yield point, repeat until should_stop.
func (s *Scheduler) runOST(ost *OST) {
	tick := 0
	var vc *VCore
	for vc == nil {
		for _, c := range s.vcores {
			if ost.WireVCore(c) {
				vc = c
				break
			}
		}
		if vc == nil {
			select {
			case <-s.ctx.Done():
				return
			case <-time.After(time.Millisecond):
			}
		}
	}

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for !s.shouldStop.Load() {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		tick++
		localLast := tick >= scheduleTickBeforeCheck
		if localLast {
			tick = 0
		}

		fiber := s.findExecutable(vc, localLast)
		if fiber == nil {
			ost.SetIdle(true)
			<-ticker.C
			continue
		}
		ost.SetIdle(false)

		if ost.IsSpinning() {
			ost.SetSpinning(false)
			atomic.AddInt32(&s.spinCnt, -1)
			s.spinCap.Release(1)
		}

		if fiber.AsyncResult != nil {
			fiber.PushOperand(fiber.AsyncResult)
			fiber.AsyncResult = nil
		}
		fiber.SetStatus(vm.FiberRunning)
		trace.Schedule("run", fiber.ID, vc.ID, ost.ID)

		result, _ := s.engine.Execute(fiber)

		switch fiber.GetStatus() {
		case vm.FiberCompleted:
			trace.Schedule("retire", fiber.ID, vc.ID, ost.ID)
			s.resolveFuture(fiber.ID, result, nil)
		case vm.FiberPanicked:
			trace.Schedule("retire", fiber.ID, vc.ID, ost.ID)
			var ae *objectabi.ArError
			if fiber.Panic != nil {
				ae = fiber.Panic.Err
				if trace.IsEnabled() {
					var frames []*vm.Frame
					for p := fiber.Panic; p != nil; p = p.Prev {
						if p.Frame != nil {
							frames = append(frames, p.Frame)
						}
					}
					fmt.Fprint(os.Stderr, vm.FormatPanicReport(fiber.TraceID.String(), vm.BuildTraceback(frames)))
				}
			}
			s.resolveFuture(fiber.ID, nil, ae)
		case vm.FiberSuspended, vm.FiberBlocked:
			vc.Enqueue(fiber, s.global)
		default:
			vc.Enqueue(fiber, s.global)
		}
	}
}

// findExecutable mirrors FindExecutable: local queue first (unless
// lqLast, which checks it last this tick to give the global queue and
// stolen work priority), then the global queue, then a steal attempt.
func (s *Scheduler) findExecutable(vc *VCore, lqLast bool) *vm.Fiber {
	if !lqLast {
		if f := vc.Queue.Dequeue(); f != nil {
			return f
		}
	}
	if f := s.global.Dequeue(); f != nil {
		return f
	}
	if f := s.stealWork(vc); f != nil {
		return f
	}
	if lqLast {
		if f := vc.Queue.Dequeue(); f != nil {
			return f
		}
	}
	return nil
}

// stealWork mirrors StealWork: caps the number of concurrently-spinning
// OSTs at vcTotal via a weighted semaphore (instead of the native
// std::atomic_uint + busy check), then probes the other VCores' queues
// starting from a random offset so repeated steals don't hammer the same
// victim.
func (s *Scheduler) stealWork(vc *VCore) *vm.Fiber {
	if !s.spinCap.TryAcquire(1) {
		return nil
	}
	defer s.spinCap.Release(1)

	atomic.AddInt32(&s.spinCnt, 1)
	defer atomic.AddInt32(&s.spinCnt, -1)

	vc.Stealing = true
	defer func() { vc.Stealing = false }()

	start := rand.Intn(s.vcTotal)
	for i := 0; i < s.vcTotal; i++ {
		target := s.vcores[(start+i)%s.vcTotal]
		if target == vc || target.Stealing {
			continue
		}
		stolen := target.Queue.StealDequeue(1)
		if len(stolen) > 0 {
			return stolen[0]
		}
	}
	return nil
}
