package objectabi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternReturnsSameValue(t *testing.T) {
	tbl := NewInternTable()

	a := tbl.Intern("hello")
	b := tbl.Intern("hello")
	assert.Equal(t, a, b)
	assert.Equal(t, Str("hello"), a)
}

func TestInternDistinctStrings(t *testing.T) {
	tbl := NewInternTable()

	a := tbl.Intern("foo")
	b := tbl.Intern("bar")
	assert.NotEqual(t, a, b)
}
