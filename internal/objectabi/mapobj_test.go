package objectabi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapSetGet(t *testing.T) {
	m := NewMap()
	assert.NoError(t, m.Set(Str("a"), Int(1)))
	assert.NoError(t, m.Set(Str("b"), Int(2)))
	assert.Equal(t, 2, m.Len())

	v, err := m.Get(Str("a"))
	assert.NoError(t, err)
	assert.Equal(t, Int(1), v)

	_, err = m.Get(Str("missing"))
	assert.ErrorIs(t, err, ErrNoSubscript)
}

func TestMapContains(t *testing.T) {
	m := NewMap()
	_ = m.Set(Int(5), Str("five"))

	ok, err := MapType.SubscriptContains(m, Int(5))
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = MapType.SubscriptContains(m, Int(6))
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestMapOverwrite(t *testing.T) {
	m := NewMap()
	_ = m.Set(Str("k"), Int(1))
	_ = m.Set(Str("k"), Int(2))
	assert.Equal(t, 1, m.Len())

	v, _ := m.Get(Str("k"))
	assert.Equal(t, Int(2), v)
}
