package objectabi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrConcatAndRepeat(t *testing.T) {
	sum, err := StrType.Add(Str("foo"), Str("bar"))
	assert.NoError(t, err)
	assert.Equal(t, Str("foobar"), sum)

	rep, err := StrType.Mul(Str("ab"), Int(3))
	assert.NoError(t, err)
	assert.Equal(t, Str("ababab"), rep)

	zero, err := StrType.Mul(Str("ab"), Int(0))
	assert.NoError(t, err)
	assert.Equal(t, Str(""), zero)
}

func TestStrSubscriptGet(t *testing.T) {
	v, err := StrType.SubscriptGet(Str("hello"), Int(1))
	assert.NoError(t, err)
	assert.Equal(t, Str("e"), v)

	v, err = StrType.SubscriptGet(Str("hello"), Int(-1))
	assert.NoError(t, err)
	assert.Equal(t, Str("o"), v)

	_, err = StrType.SubscriptGet(Str("hi"), Int(10))
	assert.ErrorIs(t, err, ErrNoSubscript)
}

func TestStrSlice(t *testing.T) {
	v, err := StrType.SubscriptSlice(Str("hello world"), &Bounds{Start: Int(6), Stop: Int(11)})
	assert.NoError(t, err)
	assert.Equal(t, Str("world"), v)

	v, err = StrType.SubscriptSlice(Str("hello"), &Bounds{})
	assert.NoError(t, err)
	assert.Equal(t, Str("hello"), v)
}

func TestStrIteration(t *testing.T) {
	it, err := StrType.Iter(Str("ab"), false)
	assert.NoError(t, err)

	v1, err := strIteratorType.Next(it)
	assert.NoError(t, err)
	assert.Equal(t, Str("a"), v1)

	v2, err := strIteratorType.Next(it)
	assert.NoError(t, err)
	assert.Equal(t, Str("b"), v2)

	done, err := strIteratorType.Next(it)
	assert.NoError(t, err)
	assert.Nil(t, done)
}
