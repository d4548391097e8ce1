package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/argonlang/argon/internal/objectabi"
)

func TestTrapCatchesPanic(t *testing.T) {
	var instr []byte
	emit2(&instr, OpST, 0) // arm: handler offset patched below
	emit2(&instr, OpPSHC, 0)
	emit0(&instr, OpPANIC)
	emit2(&instr, OpPSHC, 1) // never reached
	emit0(&instr, OpRET)
	handlerIP := len(instr)
	emit0(&instr, OpTRAP) // disarm, materialize Result(value, error)
	emit0(&instr, OpRET)
	// patch ST's handler offset (second+third bytes of the ST instruction)
	instr[1] = byte(handlerIP >> 8)
	instr[2] = byte(handlerIP)

	ae := objectabi.NewError(objectabi.ErrValue, "boom")
	result, err := runProgram(t, instr, []objectabi.Object{ae, objectabi.Str("unreached")}, 0)
	assert.NoError(t, err)
	res, ok := result.(*objectabi.Result)
	assert.True(t, ok, "TRAP should materialize a Result object")
	assert.Equal(t, ae, res.Err)
	assert.Nil(t, res.Value)
}

func TestTrapPassesThroughOnNormalCompletion(t *testing.T) {
	var instr []byte
	emit2(&instr, OpST, 0) // handler offset patched below
	emit2(&instr, OpPSHC, 0)
	handlerIP := len(instr)
	emit0(&instr, OpTRAP) // reached normally: no panic occurred
	emit0(&instr, OpRET)
	instr[1] = byte(handlerIP >> 8)
	instr[2] = byte(handlerIP)

	result, err := runProgram(t, instr, []objectabi.Object{objectabi.Int(7)}, 0)
	assert.NoError(t, err)
	res, ok := result.(*objectabi.Result)
	assert.True(t, ok)
	assert.Equal(t, objectabi.Int(7), res.Value)
	assert.Nil(t, res.Err)
}

func TestUncaughtPanicPropagates(t *testing.T) {
	var instr []byte
	emit2(&instr, OpPSHC, 0)
	emit0(&instr, OpPANIC)

	ae := objectabi.NewError(objectabi.ErrRuntime, "boom")
	_, err := runProgram(t, instr, []objectabi.Object{ae}, 0)
	assert.Error(t, err)
}

func TestDeferRunsWhileUnwindingPanic(t *testing.T) {
	ran := false
	cleanup := objectabi.NewNativeFunc("cleanup", 0, 0, func(fiber objectabi.Object, args []objectabi.Object, kwargs *objectabi.Map) (objectabi.Object, error) {
		ran = true
		return objectabi.NilValue, nil
	})

	var instr []byte
	emit2(&instr, OpPSHC, 0) // cleanup callable
	emit0(&instr, OpDFR)
	emit2(&instr, OpPSHC, 1)
	emit0(&instr, OpPANIC)

	_, err := runProgram(t, instr, []objectabi.Object{cleanup, objectabi.NewError(objectabi.ErrRuntime, "x")}, 0)
	assert.Error(t, err)
	assert.True(t, ran, "deferred cleanup should run while unwinding")
}
