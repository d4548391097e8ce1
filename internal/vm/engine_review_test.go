package vm

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/argonlang/argon/internal/objectabi"
)

func emit4(buf *[]byte, op OpCode, operand uint32) {
	*buf = append(*buf, byte(op))
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], operand)
	*buf = append(*buf, b[:]...)
}

func TestEngineCurryCompletesOnSecondCall(t *testing.T) {
	add := objectabi.NewNativeFunc("add", 2, 0, func(fiber objectabi.Object, args []objectabi.Object, kwargs *objectabi.Map) (objectabi.Object, error) {
		return objectabi.IntType.Add(args[0], args[1])
	})

	var instr []byte
	emit2(&instr, OpPSHC, 0) // add
	emit2(&instr, OpPSHC, 1) // 5
	emit2(&instr, OpCALL, 1) // too few args: curries
	emit2(&instr, OpPSHC, 2) // 7
	emit2(&instr, OpCALL, 1) // completes the call
	emit0(&instr, OpRET)

	result, err := runProgram(t, instr, []objectabi.Object{add, objectabi.Int(5), objectabi.Int(7)}, 0)
	assert.NoError(t, err)
	assert.Equal(t, objectabi.Int(12), result)
}

func TestEngineCallTooManyArgsIsTypeError(t *testing.T) {
	add := objectabi.NewNativeFunc("add", 2, 0, func(fiber objectabi.Object, args []objectabi.Object, kwargs *objectabi.Map) (objectabi.Object, error) {
		return objectabi.IntType.Add(args[0], args[1])
	})

	var instr []byte
	emit2(&instr, OpPSHC, 0)
	emit2(&instr, OpPSHC, 1)
	emit2(&instr, OpPSHC, 1)
	emit2(&instr, OpPSHC, 1)
	emit2(&instr, OpCALL, 3) // arity 2, 3 args, not variadic
	emit0(&instr, OpRET)

	_, err := runProgram(t, instr, []objectabi.Object{add, objectabi.Int(1)}, 0)
	assert.Error(t, err)
}

func TestEngineGeneratorYieldsAcrossResumes(t *testing.T) {
	var genInstr []byte
	emit2(&genInstr, OpPSHC, 0)
	emit0(&genInstr, OpYLD)
	emit2(&genInstr, OpPSHC, 1)
	emit0(&genInstr, OpYLD)
	emit2(&genInstr, OpPSHC, 2)
	emit0(&genInstr, OpRET)

	genCode := &objectabi.Code{
		Name: "gen", QualName: "gen", Instr: genInstr,
		Literals: []objectabi.Object{objectabi.Int(1), objectabi.Int(2), objectabi.Int(3)},
	}
	genFn := &objectabi.Function{
		Name: "gen", QualName: "gen", Flags: objectabi.FlagGenerator, Code: genCode,
	}

	// The body yields twice (1, 2) then RETs a third value (3) without a
	// further YLD; NXT only reports yielded values, so only two NXT calls
	// succeed and the third finds the generator exhausted.
	var instr []byte
	emit2(&instr, OpPSHC, 0) // genFn
	emit2(&instr, OpCALL, 0)
	emit0(&instr, OpLDITER)

	nxtPositions := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		nxtPositions = append(nxtPositions, len(instr))
		emit2(&instr, OpNXT, 0) // patched below
		if i < 2 {
			emit2(&instr, OpSTLC, uint16(i))
		}
	}
	doneIP := len(instr)
	for _, pos := range nxtPositions {
		binary.BigEndian.PutUint16(instr[pos+1:], uint16(doneIP))
	}
	emit2(&instr, OpLDLC, 0)
	emit2(&instr, OpLDLC, 1)
	emit2(&instr, OpMKLT, 2)
	emit0(&instr, OpRET)

	result, err := runProgram(t, instr, []objectabi.Object{genFn}, 2)
	assert.NoError(t, err)
	l, ok := result.(*objectabi.List)
	assert.True(t, ok)
	assert.Equal(t, 2, l.Len())
	v0, _ := objectabi.ListType.SubscriptGet(l, objectabi.Int(0))
	v1, _ := objectabi.ListType.SubscriptGet(l, objectabi.Int(1))
	assert.Equal(t, objectabi.Int(1), v0)
	assert.Equal(t, objectabi.Int(2), v1)
}

func TestEngineMKFNCapturesEnclosedValue(t *testing.T) {
	var innerInstr []byte
	emit2(&innerInstr, OpLDENC, 0)
	emit0(&innerInstr, OpRET)
	innerCode := &objectabi.Code{Name: "inner", QualName: "inner", Instr: innerInstr}

	var instr []byte
	emit2(&instr, OpPSHC, 1) // enclosed value
	emit4(&instr, OpMKFN, uint32(0)<<16|uint32(1))
	emit2(&instr, OpSTLC, 0)
	emit2(&instr, OpLDLC, 0)
	emit2(&instr, OpCALL, 0)
	emit0(&instr, OpRET)

	result, err := runProgram(t, instr, []objectabi.Object{innerCode, objectabi.Int(99)}, 1)
	assert.NoError(t, err)
	assert.Equal(t, objectabi.Int(99), result)
}

func TestEngineCNTMembership(t *testing.T) {
	var instr []byte
	emit2(&instr, OpPSHC, 0) // item: 2
	emit2(&instr, OpPSHC, 1)
	emit2(&instr, OpPSHC, 2)
	emit2(&instr, OpPSHC, 3)
	emit2(&instr, OpMKLT, 3) // [1, 2, 3]
	emit2(&instr, OpCNT, 0)  // in
	emit0(&instr, OpRET)

	result, err := runProgram(t, instr, []objectabi.Object{
		objectabi.Int(2), objectabi.Int(1), objectabi.Int(2), objectabi.Int(3),
	}, 0)
	assert.NoError(t, err)
	assert.Equal(t, objectabi.BoolOf(true), result)
}

func TestEngineCNTNotIn(t *testing.T) {
	var instr []byte
	emit2(&instr, OpPSHC, 0) // item: 5, not present
	emit2(&instr, OpPSHC, 1)
	emit2(&instr, OpPSHC, 2)
	emit2(&instr, OpPSHC, 3)
	emit2(&instr, OpMKLT, 3)
	emit2(&instr, OpCNT, 1) // not in
	emit0(&instr, OpRET)

	result, err := runProgram(t, instr, []objectabi.Object{
		objectabi.Int(5), objectabi.Int(1), objectabi.Int(2), objectabi.Int(3),
	}, 0)
	assert.NoError(t, err)
	assert.Equal(t, objectabi.BoolOf(true), result)
}

func TestEngineUnpackRoundTripsMKLTOrder(t *testing.T) {
	var instr []byte
	emit2(&instr, OpPSHC, 0)
	emit2(&instr, OpPSHC, 1)
	emit2(&instr, OpPSHC, 2)
	emit2(&instr, OpMKLT, 3)
	emit2(&instr, OpUNPACK, 3)
	emit2(&instr, OpSTLC, 2)
	emit2(&instr, OpSTLC, 1)
	emit2(&instr, OpSTLC, 0)
	emit2(&instr, OpLDLC, 0)
	emit2(&instr, OpLDLC, 1)
	emit2(&instr, OpLDLC, 2)
	emit2(&instr, OpMKLT, 3)
	emit0(&instr, OpRET)

	result, err := runProgram(t, instr, []objectabi.Object{objectabi.Int(1), objectabi.Int(2), objectabi.Int(3)}, 3)
	assert.NoError(t, err)
	l, ok := result.(*objectabi.List)
	assert.True(t, ok)
	v0, _ := objectabi.ListType.SubscriptGet(l, objectabi.Int(0))
	v1, _ := objectabi.ListType.SubscriptGet(l, objectabi.Int(1))
	v2, _ := objectabi.ListType.SubscriptGet(l, objectabi.Int(2))
	assert.Equal(t, objectabi.Int(1), v0)
	assert.Equal(t, objectabi.Int(2), v1)
	assert.Equal(t, objectabi.Int(3), v2)
}

func TestEngineSTSUBSCRSliceAssignment(t *testing.T) {
	// literals: 0=1, 1=2, 2=3, 3=4, 4=5, 5=9
	var instr []byte
	// replacement list [9, 9]
	emit2(&instr, OpPSHC, 5)
	emit2(&instr, OpPSHC, 5)
	emit2(&instr, OpMKLT, 2)
	// bounds(1, 3)
	emit2(&instr, OpPSHC, 0)
	emit2(&instr, OpPSHC, 2)
	emit0(&instr, OpMKBND)
	// original list [1, 2, 3, 4, 5], stashed in a local so a reference
	// survives past STSUBSCR consuming it as the assignment target
	emit2(&instr, OpPSHC, 0)
	emit2(&instr, OpPSHC, 1)
	emit2(&instr, OpPSHC, 2)
	emit2(&instr, OpPSHC, 3)
	emit2(&instr, OpPSHC, 4)
	emit2(&instr, OpMKLT, 5)
	emit2(&instr, OpSTLC, 0)
	emit2(&instr, OpLDLC, 0)
	emit0(&instr, OpSTSUBSCR)
	emit2(&instr, OpLDLC, 0)
	emit0(&instr, OpRET)

	result, err := runProgram(t, instr, []objectabi.Object{
		objectabi.Int(1), objectabi.Int(2), objectabi.Int(3), objectabi.Int(4), objectabi.Int(5), objectabi.Int(9),
	}, 1)
	assert.NoError(t, err)
	l, ok := result.(*objectabi.List)
	assert.True(t, ok)
	assert.Equal(t, 5, l.Len())
	want := []objectabi.Object{objectabi.Int(1), objectabi.Int(9), objectabi.Int(9), objectabi.Int(4), objectabi.Int(5)}
	for i, w := range want {
		v, _ := objectabi.ListType.SubscriptGet(l, objectabi.Int(i))
		assert.Equal(t, w, v)
	}
}
