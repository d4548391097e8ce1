package objectabi

import (
	"errors"
	"fmt"
)

// ErrorCode is the kind tag of an Argon error object (spec §7 error taxonomy).
type ErrorCode int

const (
	ErrNone ErrorCode = iota
	ErrType
	ErrValue
	ErrOverflow
	ErrUnassignable
	ErrUndeclared
	ErrOS
	ErrAccessViolation
	ErrNotImplemented
	ErrRuntime
	ErrAssertion
	ErrUnicode
	ErrBuffer
	ErrNetwork
	ErrRuntimeExit
)

func (e ErrorCode) String() string {
	switch e {
	case ErrNone:
		return "None"
	case ErrType:
		return "TypeError"
	case ErrValue:
		return "ValueError"
	case ErrOverflow:
		return "OverflowError"
	case ErrUnassignable:
		return "UnassignableError"
	case ErrUndeclared:
		return "UndeclaredError"
	case ErrOS:
		return "OSError"
	case ErrAccessViolation:
		return "AccessViolationError"
	case ErrNotImplemented:
		return "NotImplementedError"
	case ErrRuntime:
		return "RuntimeError"
	case ErrAssertion:
		return "AssertionError"
	case ErrUnicode:
		return "UnicodeError"
	case ErrBuffer:
		return "BufferError"
	case ErrNetwork:
		return "WSAError"
	case ErrRuntimeExit:
		return "RuntimeExitError"
	default:
		return "UnknownError"
	}
}

// ArError is a heap error object — what PANIC pops and TRAP materializes.
type ArError struct {
	Code    ErrorCode
	Message string
	Aux     Object // optional auxiliary dictionary/value
}

var ErrorType = &Type{
	Name:    "error",
	TruthOf: func(Object) bool { return true },
	Str: func(o Object) string {
		e := o.(*ArError)
		return e.Code.String() + ": " + e.Message
	},
	Compare: func(a, b Object, mode CompareMode) (Object, error) {
		be, ok := b.(*ArError)
		if !ok {
			return nil, ErrUnsupportedCompare
		}
		ae := a.(*ArError)
		return compareResult(mode, ae.Code == be.Code && ae.Message == be.Message, false)
	},
	AttrGet: func(obj Object, name string, public bool) (Object, error) {
		e := obj.(*ArError)
		switch name {
		case "message":
			return Str(e.Message), nil
		case "code":
			return Str(e.Code.String()), nil
		case "aux":
			if e.Aux == nil {
				return NilValue, nil
			}
			return e.Aux, nil
		default:
			return nil, fmt.Errorf("%w: error has no attribute %s", ErrNoAttr, name)
		}
	},
}

func (e *ArError) Type() *Type   { return ErrorType }
func (e *ArError) String() string { return e.Code.String() + ": " + e.Message }

func NewError(code ErrorCode, msg string) *ArError {
	return &ArError{Code: code, Message: msg}
}

// Sentinel Go errors used by the object ABI itself (not ArError, which is
// the *language-level* error object panics carry).
var (
	ErrUnsupportedCompare = errors.New("objectabi: unsupported comparison")
	ErrUnsupportedOp      = errors.New("objectabi: unsupported operand types")
	ErrNotIterable        = errors.New("objectabi: object is not iterable")
	ErrNoAttr             = errors.New("objectabi: no such attribute")
	ErrNoSubscript        = errors.New("objectabi: object does not support subscripting")
	ErrNoBuffer           = errors.New("objectabi: object does not support the buffer protocol")
)
