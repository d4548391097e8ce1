package vm

import (
	"errors"

	"github.com/argonlang/argon/internal/objectabi"
	"github.com/argonlang/argon/internal/trace"
)

// unwind handles an error surfacing from dispatch: it runs the current
// frame's deferred calls, then either transfers control to a matching
// TRAP handler (returning true, "keep running") or pops the frame and
// continues unwinding into the caller (spec §4.B: panics propagate
// frame-by-frame, running each frame's defers exactly once).
func (e *Engine) unwind(f *Fiber, opErr error, line int) bool {
	ae := toArError(opErr)

	for {
		frame := f.CurrentFrame()
		if frame == nil {
			f.PushPanic(ae, nil, line)
			return false
		}

		f.PushPanic(ae, frame, line)

		for _, d := range frame.DrainDefers() {
			e.runDeferred(f, d)
		}

		if trap, ok := frame.MatchTrap(ae.Code); ok {
			// Left armed (not popped) here: the TRAP instruction at
			// HandlerIP is what disarms it, on both the panic path and the
			// normal fall-through path (spec §4.C "TRAP off disarms it").
			trace.Panic(f.ID, frame.Code.QualName, ae.Code.String())
			f.Stack = f.Stack[:trap.StackLen]
			f.PushOperand(ae)
			frame.IP = trap.HandlerIP
			frame.PendingRecovery = true
			f.Panic.Recovered = true
			f.SetStatus(FiberRunning) // PushPanic marked the fiber panicked; the trap resumes it
			return true
		}

		f.PopFrame()
		if len(f.Frames) == 0 {
			return false
		}
	}
}

// runDeferred invokes a deferred callable inline. A panic raised from
// within a deferred call chains onto the fiber's existing panic record
// rather than discarding it (spec §4.B).
func (e *Engine) runDeferred(f *Fiber, d DeferredCall) {
	fn, ok := d.Callable.(*objectabi.Function)
	if !ok {
		return
	}
	if fn.IsNative() {
		if _, err := fn.Native(f, d.Args, nil); err != nil {
			f.PushPanic(toArError(err), f.CurrentFrame(), 0)
		}
		return
	}
	deferFrame := NewFrame(fn.Code, fn.Enclosed, len(f.Stack))
	installArgs(deferFrame, d.Args)
	f.PushFrame(deferFrame)
	if err := e.runToFrameExit(f, len(f.Frames)-1); err != nil {
		f.PushPanic(toArError(err), deferFrame, deferFrame.Line)
	}
}

// runToFrameExit steps f until the frame at depth target (and everything
// pushed above it) has returned, then stops — unlike Execute, which runs
// until the whole fiber's frame stack empties. Without this bound, a
// synchronous sub-call (a deferred call, a completed curry, a resumed
// generator) that returns normally would fall through into whatever
// frames lie beneath it on the same fiber.
func (e *Engine) runToFrameExit(f *Fiber, target int) error {
	for len(f.Frames) > target {
		stop, _, err := e.Step(f)
		if err != nil {
			return err
		}
		if stop {
			// Step only reports stop==true with err==nil when the fiber
			// left the running state (AWAIT) or fully completed; either way
			// there is nothing left at or above target to keep stepping.
			return nil
		}
	}
	return nil
}

func toArError(err error) *objectabi.ArError {
	var pe *panicError
	if errors.As(err, &pe) {
		return pe.ae
	}
	return objectabi.NewError(objectabi.ErrRuntime, err.Error())
}
