package vm

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/argonlang/argon/internal/objectabi"
)

func emit2(buf *[]byte, op OpCode, operand uint16) {
	*buf = append(*buf, byte(op))
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], operand)
	*buf = append(*buf, b[:]...)
}

func emit0(buf *[]byte, op OpCode) {
	*buf = append(*buf, byte(op))
}

// runProgram wraps instr/literals into a one-frame fiber and runs it to
// completion, returning the fiber's final top-of-stack value.
func runProgram(t *testing.T, instr []byte, literals []objectabi.Object, numLocals int) (objectabi.Object, error) {
	t.Helper()
	code := &objectabi.Code{
		Name: "test", QualName: "test", Instr: instr, Literals: literals, NumLocals: numLocals,
	}
	fiber := NewFiber(1)
	fiber.PushFrame(NewFrame(code, nil, 0))

	e := NewEngine(nil)
	return e.Execute(fiber)
}

func TestEngineAddAndReturn(t *testing.T) {
	var instr []byte
	emit2(&instr, OpPSHC, 0)
	emit2(&instr, OpPSHC, 1)
	emit0(&instr, OpADD)
	emit0(&instr, OpRET)

	result, err := runProgram(t, instr, []objectabi.Object{objectabi.Int(2), objectabi.Int(3)}, 0)
	assert.NoError(t, err)
	assert.Equal(t, objectabi.Int(5), result)
}

func TestEngineConditionalJump(t *testing.T) {
	var instr []byte
	// push true; JT to the "taken" PSHC; push false-path const; RET
	emit2(&instr, OpPSHC, 0) // bool true literal
	jtIdx := len(instr)
	emit2(&instr, OpJT, 0) // patched below
	emit2(&instr, OpPSHC, 1)
	emit0(&instr, OpRET)
	takenOffset := len(instr)
	emit2(&instr, OpPSHC, 2)
	emit0(&instr, OpRET)
	binary.BigEndian.PutUint16(instr[jtIdx+1:], uint16(takenOffset))

	result, err := runProgram(t, instr, []objectabi.Object{objectabi.Bool(true), objectabi.Str("not-taken"), objectabi.Str("taken")}, 0)
	assert.NoError(t, err)
	assert.Equal(t, objectabi.Str("taken"), result)
}

func TestEngineLocalsRoundTrip(t *testing.T) {
	var instr []byte
	emit2(&instr, OpPSHC, 0)
	emit2(&instr, OpSTLC, 0)
	emit2(&instr, OpLDLC, 0)
	emit0(&instr, OpRET)

	result, err := runProgram(t, instr, []objectabi.Object{objectabi.Int(42)}, 1)
	assert.NoError(t, err)
	assert.Equal(t, objectabi.Int(42), result)
}

func TestEngineNativeCall(t *testing.T) {
	doubler := objectabi.NewNativeFunc("double", 1, 0, func(fiber objectabi.Object, args []objectabi.Object, kwargs *objectabi.Map) (objectabi.Object, error) {
		return objectabi.IntType.Mul(args[0], objectabi.Int(2))
	})

	var instr []byte
	emit2(&instr, OpPSHC, 0) // callee
	emit2(&instr, OpPSHC, 1) // arg
	emit2(&instr, OpCALL, 1)
	emit0(&instr, OpRET)

	result, err := runProgram(t, instr, []objectabi.Object{doubler, objectabi.Int(21)}, 0)
	assert.NoError(t, err)
	assert.Equal(t, objectabi.Int(42), result)
}

func TestEngineUnsupportedOpPanics(t *testing.T) {
	// str has no Neg slot, so NEG on a str literal should panic the fiber
	// rather than crash the engine.
	var instr []byte
	emit2(&instr, OpPSHC, 0)
	emit0(&instr, OpNEG)
	emit0(&instr, OpRET)

	_, err := runProgram(t, instr, []objectabi.Object{objectabi.Str("x")}, 0)
	assert.Error(t, err)
	assert.ErrorIs(t, err, objectabi.ErrUnsupportedOp)
}
