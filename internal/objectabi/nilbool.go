package objectabi

// Nil is Argon's singleton null object — what LDSCOPE/LDATTR "no value",
// NXT exhaustion, and uninitialized locals all read as.
type Nil struct{}

var NilType = &Type{
	Name:    "nil",
	TruthOf: func(Object) bool { return false },
	Str:     func(Object) string { return "nil" },
	Compare: func(a, b Object, mode CompareMode) (Object, error) {
		_, bIsNil := b.(Nil)
		eq := bIsNil
		return compareResult(mode, eq, false)
	},
}

func (Nil) Type() *Type    { return NilType }
func (Nil) String() string { return "nil" }

// NilValue is the single shared nil instance.
var NilValue = Nil{}

// Bool is Argon's boolean object.
type Bool bool

var BoolType = &Type{
	Name:    "bool",
	TruthOf: func(o Object) bool { return bool(o.(Bool)) },
	Str: func(o Object) string {
		if bool(o.(Bool)) {
			return "true"
		}
		return "false"
	},
	Compare: func(a, b Object, mode CompareMode) (Object, error) {
		bb, ok := b.(Bool)
		if !ok {
			return nil, ErrUnsupportedCompare
		}
		return compareResult(mode, bool(a.(Bool)) == bool(bb), bool(a.(Bool)) && !bool(bb))
	},
	Not: func(a Object) (Object, error) { return Bool(!bool(a.(Bool))), nil },
}

func (b Bool) Type() *Type { return BoolType }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

var (
	True  = Bool(true)
	False = Bool(false)
)

func BoolOf(v bool) Bool {
	if v {
		return True
	}
	return False
}

// compareResult turns an (eq, lt) pair into the truth object CMP asked for.
func compareResult(mode CompareMode, eq, lt bool) (Object, error) {
	switch mode {
	case CmpEQ:
		return BoolOf(eq), nil
	case CmpNE:
		return BoolOf(!eq), nil
	case CmpLT:
		return BoolOf(lt), nil
	case CmpLE:
		return BoolOf(lt || eq), nil
	case CmpGT:
		return BoolOf(!lt && !eq), nil
	case CmpGE:
		return BoolOf(!lt), nil
	default:
		return nil, ErrUnsupportedCompare
	}
}
