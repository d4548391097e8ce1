package objectabi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntArithmetic(t *testing.T) {
	tests := []struct {
		name string
		a, b Int
		op   func(a, b Object) (Object, error)
		want Object
	}{
		{"add", Int(2), Int(3), IntType.Add, Int(5)},
		{"sub", Int(5), Int(3), IntType.Sub, Int(2)},
		{"mul", Int(4), Int(3), IntType.Mul, Int(12)},
		{"idiv", Int(7), Int(2), IntType.IDiv, Int(3)},
		{"mod", Int(7), Int(2), IntType.Mod, Int(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(tt.a, tt.b)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntDivByZero(t *testing.T) {
	_, err := IntType.IDiv(Int(1), Int(0))
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedOp)
}

func TestFloatPromotion(t *testing.T) {
	got, err := IntType.Div(Int(5), Float(2))
	assert.NoError(t, err)
	assert.Equal(t, Float(2.5), got)
}

func TestIntCompare(t *testing.T) {
	assert.True(t, IntType.TruthOf(Int(1)))
	assert.False(t, IntType.TruthOf(Int(0)))

	eq, err := IntType.Compare(Int(3), Int(3), CmpEQ)
	assert.NoError(t, err)
	assert.Equal(t, Bool(true), eq)

	lt, err := IntType.Compare(Int(2), Int(3), CmpLT)
	assert.NoError(t, err)
	assert.Equal(t, Bool(true), lt)

	gt, err := IntType.Compare(Int(4), Int(3), CmpGT)
	assert.NoError(t, err)
	assert.Equal(t, Bool(true), gt)
}
