package objectabi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMRODiamond checks the classic C3 diamond: O -> A, O -> B, both -> C,
// linearizing C's MRO as C, A, B, O (not the naive depth-first C, A, O, B).
func TestMRODiamond(t *testing.T) {
	base := &Type{Name: "O"}
	a := &Type{Name: "A", Bases: []*Type{base}}
	b := &Type{Name: "B", Bases: []*Type{base}}
	c := &Type{Name: "C", Bases: []*Type{a, b}}

	mro := c.MRO()
	names := make([]string, len(mro))
	for i, ty := range mro {
		names[i] = ty.Name
	}

	assert.Equal(t, []string{"C", "A", "B", "O"}, names)
}

func TestIsSubtype(t *testing.T) {
	base := &Type{Name: "O"}
	a := &Type{Name: "A", Bases: []*Type{base}}

	assert.True(t, base.IsSubtype(a))
	assert.False(t, a.IsSubtype(base))
}

func TestMROSingleType(t *testing.T) {
	lone := &Type{Name: "Lone"}
	mro := lone.MRO()
	assert.Len(t, mro, 1)
	assert.Equal(t, lone, mro[0])
}
