package objectabi

import (
	"fmt"
	"math"
)

// Int is Argon's signed 64-bit integer object.
type Int int64

var IntType = &Type{
	Name:    "int",
	TruthOf: func(o Object) bool { return int64(o.(Int)) != 0 },
	Str:     func(o Object) string { return fmt.Sprintf("%d", int64(o.(Int))) },
	Hash:    func(o Object) (uint64, error) { return uint64(int64(o.(Int))), nil },
	Compare: func(a, b Object, mode CompareMode) (Object, error) {
		x := int64(a.(Int))
		switch bv := b.(type) {
		case Int:
			y := int64(bv)
			return compareResult(mode, x == y, x < y)
		case Float:
			y := float64(bv)
			return compareResult(mode, float64(x) == y, float64(x) < y)
		default:
			return nil, ErrUnsupportedCompare
		}
	},
	Add:   intBinOp(func(a, b int64) (int64, error) { return a + b, nil }),
	Sub:   intBinOp(func(a, b int64) (int64, error) { return a - b, nil }),
	Mul:   intBinOp(func(a, b int64) (int64, error) { return a * b, nil }),
	IDiv:  intBinOp(func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, fmt.Errorf("%w: division by zero", ErrUnsupportedOp)
		}
		return a / b, nil
	}),
	Mod: intBinOp(func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, fmt.Errorf("%w: modulo by zero", ErrUnsupportedOp)
		}
		return a % b, nil
	}),
	Shl:  intBinOp(func(a, b int64) (int64, error) { return a << uint(b), nil }),
	Shr:  intBinOp(func(a, b int64) (int64, error) { return a >> uint(b), nil }),
	LAnd: intBinOp(func(a, b int64) (int64, error) { return a & b, nil }),
	LOr:  intBinOp(func(a, b int64) (int64, error) { return a | b, nil }),
	LXor: intBinOp(func(a, b int64) (int64, error) { return a ^ b, nil }),
	Div: func(a, b Object) (Object, error) {
		x := float64(a.(Int))
		y, ok := asFloat(b)
		if !ok {
			return nil, ErrUnsupportedOp
		}
		if y == 0 {
			return nil, fmt.Errorf("%w: division by zero", ErrUnsupportedOp)
		}
		return Float(x / y), nil
	},
	IPAdd: func(a, b Object) (Object, bool, error) {
		r, err := IntType.Add(a, b)
		return r, false, err
	},
	IPSub: func(a, b Object) (Object, bool, error) {
		r, err := IntType.Sub(a, b)
		return r, false, err
	},
	Neg: func(a Object) (Object, error) { return Int(-int64(a.(Int))), nil },
	Pos: func(a Object) (Object, error) { return a, nil },
	Inv: func(a Object) (Object, error) { return Int(^int64(a.(Int))), nil },
}

func intBinOp(f func(a, b int64) (int64, error)) func(a, b Object) (Object, error) {
	return func(a, b Object) (Object, error) {
		bi, ok := b.(Int)
		if !ok {
			return nil, ErrUnsupportedOp
		}
		v, err := f(int64(a.(Int)), int64(bi))
		if err != nil {
			return nil, err
		}
		return Int(v), nil
	}
}

func (i Int) Type() *Type   { return IntType }
func (i Int) String() string { return fmt.Sprintf("%d", int64(i)) }

// Float is Argon's double-precision floating point object.
type Float float64

var FloatType = &Type{
	Name:    "float",
	TruthOf: func(o Object) bool { return float64(o.(Float)) != 0 },
	Str:     func(o Object) string { return fmt.Sprintf("%g", float64(o.(Float))) },
	Compare: func(a, b Object, mode CompareMode) (Object, error) {
		x := float64(a.(Float))
		y, ok := asFloat(b)
		if !ok {
			return nil, ErrUnsupportedCompare
		}
		return compareResult(mode, x == y, x < y)
	},
	Add:  floatBinOp(func(a, b float64) float64 { return a + b }),
	Sub:  floatBinOp(func(a, b float64) float64 { return a - b }),
	Mul:  floatBinOp(func(a, b float64) float64 { return a * b }),
	Div:  floatBinOp(func(a, b float64) float64 { return a / b }),
	Mod:  floatBinOp(math.Mod),
	Neg:  func(a Object) (Object, error) { return Float(-float64(a.(Float))), nil },
	Pos:  func(a Object) (Object, error) { return a, nil },
}

func floatBinOp(f func(a, b float64) float64) func(a, b Object) (Object, error) {
	return func(a, b Object) (Object, error) {
		y, ok := asFloat(b)
		if !ok {
			return nil, ErrUnsupportedOp
		}
		return Float(f(float64(a.(Float)), y)), nil
	}
}

func asFloat(o Object) (float64, bool) {
	switch v := o.(type) {
	case Float:
		return float64(v), true
	case Int:
		return float64(v), true
	default:
		return 0, false
	}
}

func (f Float) Type() *Type    { return FloatType }
func (f Float) String() string { return fmt.Sprintf("%g", float64(f)) }
