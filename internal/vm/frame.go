package vm

import "github.com/argonlang/argon/internal/objectabi"

// TrapHandler is a registered TRAP block: if a panic's error code matches
// Codes (or Codes is empty, meaning "catch all"), control transfers to
// HandlerIP instead of continuing to unwind.
type TrapHandler struct {
	Codes     []objectabi.ErrorCode
	HandlerIP int
	StackLen  int // operand stack depth to restore to when entering the handler
}

// DeferredCall is a callable registered by DFR, invoked in LIFO order when
// its owning frame unwinds (spec §4.B "deferred calls run in reverse
// registration order, even across a panic").
type DeferredCall struct {
	Callable objectabi.Object
	Args     []objectabi.Object
}

// Frame is one activation record: a Code object plus its execution state.
// Generalizes barn's StackFrame (Program/IP/BasePointer/Locals/LoopStack
// /ExceptStack) to Argon's Code/closures/traps/defers.
type Frame struct {
	Code        *objectabi.Code
	IP          int
	Locals      []objectabi.Object
	Enclosed    []objectabi.Object
	OperandBase int // index into the fiber's shared operand stack

	Traps   []TrapHandler
	Defers  []DeferredCall

	// Generator resumption: when Code.Flags&FlagGenerator != 0, Suspended
	// is true between a YLD and the next NXT, and the frame is kept alive
	// on the generator object rather than discarded on RET.
	Suspended bool

	// PendingRecovery is set by unwind() immediately before jumping IP to
	// a matched trap's HandlerIP, and cleared by the TRAP opcode that
	// disarms it. It lets TRAP tell "control arrived here via a caught
	// panic" apart from "control fell through normally" without relying on
	// a fiber-wide flag that could go stale across nested trap blocks.
	PendingRecovery bool

	Line int // current source line, updated on each dispatch for tracebacks
}

// NewFrame allocates a frame ready to execute code, locals pre-sized and
// left as nil Object (reading before assignment is a caller error the
// engine surfaces as a RuntimeError panic, not a Go nil-pointer panic).
func NewFrame(code *objectabi.Code, enclosed []objectabi.Object, operandBase int) *Frame {
	return &Frame{
		Code:        code,
		Locals:      make([]objectabi.Object, code.NumLocals),
		Enclosed:    enclosed,
		OperandBase: operandBase,
	}
}

func (f *Frame) PushTrap(t TrapHandler) {
	f.Traps = append(f.Traps, t)
}

func (f *Frame) PopTrap() (TrapHandler, bool) {
	if len(f.Traps) == 0 {
		return TrapHandler{}, false
	}
	t := f.Traps[len(f.Traps)-1]
	f.Traps = f.Traps[:len(f.Traps)-1]
	return t, true
}

// MatchTrap finds (without popping) the innermost trap whose Codes accepts
// code, scanning from the most recently pushed outward.
func (f *Frame) MatchTrap(code objectabi.ErrorCode) (TrapHandler, bool) {
	for i := len(f.Traps) - 1; i >= 0; i-- {
		t := f.Traps[i]
		if len(t.Codes) == 0 {
			return t, true
		}
		for _, c := range t.Codes {
			if c == code {
				return t, true
			}
		}
	}
	return TrapHandler{}, false
}

func (f *Frame) PushDefer(d DeferredCall) {
	f.Defers = append(f.Defers, d)
}

// DrainDefers returns the frame's deferred calls in LIFO execution order
// and clears them, so a second unwind through the same frame (a panic
// raised from within a deferred call) doesn't re-run them.
func (f *Frame) DrainDefers() []DeferredCall {
	out := make([]DeferredCall, len(f.Defers))
	for i, d := range f.Defers {
		out[len(f.Defers)-1-i] = d
	}
	f.Defers = nil
	return out
}
