package objectabi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListAppendAndSubscript(t *testing.T) {
	l := NewList(Int(1), Int(2))
	l.Append(Int(3))
	assert.Equal(t, 3, l.Len())

	v, err := ListType.SubscriptGet(l, Int(2))
	assert.NoError(t, err)
	assert.Equal(t, Int(3), v)

	v, err = ListType.SubscriptGet(l, Int(-1))
	assert.NoError(t, err)
	assert.Equal(t, Int(3), v)
}

func TestListSubscriptSet(t *testing.T) {
	l := NewList(Int(1), Int(2))
	err := ListType.SubscriptSet(l, Int(0), Int(9))
	assert.NoError(t, err)

	v, _ := ListType.SubscriptGet(l, Int(0))
	assert.Equal(t, Int(9), v)
}

func TestListEquality(t *testing.T) {
	a := NewList(Int(1), Int(2))
	b := NewList(Int(1), Int(2))
	c := NewList(Int(1), Int(3))

	eq, err := Equal(a, b)
	assert.NoError(t, err)
	assert.True(t, eq)

	eq, err = Equal(a, c)
	assert.NoError(t, err)
	assert.False(t, eq)
}

func TestListConcat(t *testing.T) {
	a := NewList(Int(1))
	b := NewList(Int(2), Int(3))
	sum, err := ListType.Add(a, b)
	assert.NoError(t, err)
	assert.Equal(t, 3, sum.(*List).Len())
}

func TestListIteration(t *testing.T) {
	l := NewList(Int(1), Int(2))
	it, err := ListType.Iter(l, false)
	assert.NoError(t, err)

	v1, _ := listIteratorType.Next(it)
	assert.Equal(t, Int(1), v1)
	v2, _ := listIteratorType.Next(it)
	assert.Equal(t, Int(2), v2)
	v3, _ := listIteratorType.Next(it)
	assert.Nil(t, v3)
}
