package vm

import "github.com/argonlang/argon/internal/objectabi"

// generatorObject is the resumable heap object a call to a FlagGenerator
// function produces instead of being stepped into directly (spec §4.C
// "Generators → resumable frame objects"; spec §9 "NXT takes the lock,
// reinstalls the frame on the current fiber, runs until YLD or return").
type generatorObject struct {
	frame *Frame
	done  bool
}

var generatorType = &objectabi.Type{
	Name:    "generator",
	TruthOf: func(objectabi.Object) bool { return true },
}

func (g *generatorObject) Type() *objectabi.Type { return generatorType }
func (g *generatorObject) String() string        { return "<generator>" }

// resumeGenerator reinstalls g's frame onto fib and runs it until the next
// YLD (which re-detaches the frame, leaving it Suspended) or a return
// (which exhausts g). It reports the yielded/returned value and whether
// the generator is now done.
func (e *Engine) resumeGenerator(fib *Fiber, g *generatorObject) (objectabi.Object, bool, error) {
	if g.done {
		return objectabi.NilValue, true, nil
	}

	target := len(fib.Frames)
	g.frame.Suspended = false
	fib.PushFrame(g.frame)
	if err := e.runToFrameExit(fib, target); err != nil {
		g.done = true
		return nil, true, err
	}

	if g.frame.Suspended {
		return fib.PopOperand(), false, nil
	}
	g.done = true
	return fib.PopOperand(), true, nil
}
