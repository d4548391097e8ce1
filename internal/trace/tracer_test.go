package trace

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisabledTracerWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	Init(false, nil, &buf)
	Call(1, "foo", nil)
	Return(1, "foo", "42")
	Panic(1, "foo", "E_INVARG")
	Schedule("park", 1, 0, 0)
	IO("submit", 1, "")
	assert.Empty(t, buf.String())
	assert.False(t, IsEnabled())
}

func TestEnabledTracerWritesCallAndReturn(t *testing.T) {
	var buf bytes.Buffer
	Init(true, nil, &buf)
	Call(7, "pkg.fn", []string{"1", "2"})
	Return(7, "pkg.fn", "3")
	out := buf.String()
	assert.Contains(t, out, "CALL pkg.fn(1, 2)")
	assert.Contains(t, out, "RETURN pkg.fn => 3")
	assert.True(t, IsEnabled())
}

func TestFilterRestrictsToMatchingQualnames(t *testing.T) {
	var buf bytes.Buffer
	Init(true, []string{"sched.*"}, &buf)
	Call(1, "other.fn", nil)
	assert.Empty(t, buf.String())

	Call(1, "sched.spawn", nil)
	assert.Contains(t, buf.String(), "sched.spawn")
}

func TestScheduleAndIOIgnoreFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(true, []string{"nomatch.*"}, &buf)
	Schedule("resume", 3, 1, 2)
	IO("complete", 3, "n=16")
	out := buf.String()
	assert.Contains(t, out, "SCHED resume fiber=3 vcore=1 ost=2")
	assert.Contains(t, out, "IO complete fiber=3 n=16")
}
