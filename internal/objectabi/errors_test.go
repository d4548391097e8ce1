package objectabi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodeStrings(t *testing.T) {
	cases := map[ErrorCode]string{
		ErrNone:            "None",
		ErrType:            "TypeError",
		ErrValue:           "ValueError",
		ErrOverflow:        "OverflowError",
		ErrUnassignable:    "UnassignableError",
		ErrUndeclared:      "UndeclaredError",
		ErrOS:              "OSError",
		ErrAccessViolation: "AccessViolationError",
		ErrNotImplemented:  "NotImplementedError",
		ErrRuntime:         "RuntimeError",
		ErrAssertion:       "AssertionError",
		ErrUnicode:         "UnicodeError",
		ErrBuffer:          "BufferError",
		ErrNetwork:         "WSAError",
		ErrRuntimeExit:     "RuntimeExitError",
	}
	for code, want := range cases {
		assert.Equal(t, want, code.String())
	}
	assert.Equal(t, "UnknownError", ErrorCode(999).String())
}

func TestNewErrorAndStringer(t *testing.T) {
	e := NewError(ErrRuntime, "boom")
	assert.Equal(t, ErrRuntime, e.Code)
	assert.Equal(t, "boom", e.Message)
	assert.Equal(t, "RuntimeError: boom", e.String())
	assert.True(t, ErrorType.TruthOf(e))
	assert.Equal(t, "RuntimeError: boom", ErrorType.Str(e))
}

func TestErrorCompareMatchesCodeAndMessage(t *testing.T) {
	a := NewError(ErrValue, "bad")
	b := NewError(ErrValue, "bad")
	c := NewError(ErrValue, "different")

	eq, err := ErrorType.Compare(a, b, CmpEQ)
	assert.NoError(t, err)
	assert.Equal(t, True, eq)

	ne, err := ErrorType.Compare(a, c, CmpEQ)
	assert.NoError(t, err)
	assert.Equal(t, False, ne)
}

func TestErrorCompareRejectsNonError(t *testing.T) {
	a := NewError(ErrValue, "bad")
	_, err := ErrorType.Compare(a, Int(1), CmpEQ)
	assert.ErrorIs(t, err, ErrUnsupportedCompare)
}
