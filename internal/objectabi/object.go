// Package objectabi defines the stable object/type ABI the bytecode engine
// calls into (spec §4.A "Object & Frame ABI"). A Type is a flat vtable: any
// slot may be nil, meaning the operation is unsupported for that type and
// the caller must synthesize an "unsupported operand" / TypeError outcome.
//
// The concrete Int/Float/Str/Bool/Nil/List/Map/Func kinds below are not
// part of the language's type system proper (lexing, parsing, and the
// full builtin data-type library are out of scope per spec §1) — they
// exist only so the engine and its tests have real objects to dispatch
// against, the same role barn's types package plays for barn's vm package.
package objectabi

import "fmt"

// TypeCode is a small integer tag, used for fast dispatch fallbacks that
// don't need the full vtable (e.g. the key-kind tag kindOf computes for
// Map keys in mapobj.go).
type TypeCode int

const (
	TypeNil TypeCode = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeStr
	TypeBytes
	TypeList
	TypeTuple
	TypeMap
	TypeFunc
	TypeError
	TypeResultPair
)

func (c TypeCode) String() string {
	switch c {
	case TypeNil:
		return "nil"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeStr:
		return "str"
	case TypeBytes:
		return "bytes"
	case TypeList:
		return "list"
	case TypeTuple:
		return "tuple"
	case TypeMap:
		return "map"
	case TypeFunc:
		return "func"
	case TypeError:
		return "error"
	case TypeResultPair:
		return "result"
	default:
		return "unknown"
	}
}

// CompareMode selects which relational operator Type.Compare evaluates.
type CompareMode int

const (
	CmpEQ CompareMode = iota
	CmpNE
	CmpLT
	CmpLE
	CmpGT
	CmpGE
)

// Object is implemented by every runtime value. Identity (`is`) is Go
// pointer/value identity; `==` dispatches through Type().Compare.
type Object interface {
	Type() *Type
	String() string
}

// Bounds is the slice-bounds object built by MKBND.
type Bounds struct {
	Start, Stop Object
}

// BufferFlags controls whether Type.BufferGet returns a read-only or
// read-write view (spec §3 "buffer access (zero-copy byte view with
// read/write flag)").
type BufferFlags int

const (
	BufferRead BufferFlags = 1 << iota
	BufferWrite
)

// Buffer is a zero-copy byte view handed out by Type.BufferGet. Release
// must be called exactly once; the engine does this for instruction-local
// uses, user code must mirror get/release pairs (spec §5 resource policy).
type Buffer struct {
	Data  []byte
	Flags BufferFlags
}

// Type is the per-kind vtable. Nil slots mean "unsupported"; the engine
// must nil-check before calling (spec §4.A).
type Type struct {
	Name  string
	Bases []*Type
	mro   []*Type // computed lazily by MRO()

	Destructor func(Object)
	Hash       func(Object) (uint64, error)
	Compare    func(a, b Object, mode CompareMode) (Object, error)
	TruthOf    func(Object) bool
	Str        func(Object) string

	Iter func(obj Object, reversed bool) (Object, error)
	Next func(iter Object) (Object, error) // nil,nil = exhausted

	AttrGet func(obj Object, name string, public bool) (Object, error)
	AttrSet func(obj Object, name string, val Object, public bool) error

	SubscriptGet      func(obj, key Object) (Object, error)
	SubscriptSet      func(obj, key, val Object) error
	SubscriptContains func(obj, key Object) (bool, error)
	SubscriptSlice    func(obj Object, bounds *Bounds) (Object, error)
	SubscriptSliceSet func(obj Object, bounds *Bounds, val Object) error

	// Fields declares, in order, the constructor parameters a struct Type
	// built by NewStructType accepts. Nil for non-struct types.
	Fields []string

	BufferGet     func(obj Object, flags BufferFlags) (*Buffer, error)
	BufferRelease func(obj Object, buf *Buffer)

	Add, Sub, Mul, Div, IDiv, Mod, Shl, Shr, LAnd, LOr, LXor func(a, b Object) (Object, error)
	IPAdd, IPSub                                            func(a, b Object) (Object, bool, error) // bool: mutated in place

	Neg, Pos, Inv, Not func(a Object) (Object, error)
}

// MRO returns the C3-linearized method resolution order for t, computing
// and caching it on first use.
func (t *Type) MRO() []*Type {
	if t.mro == nil {
		mro, err := c3Linearize(t)
		if err != nil {
			// An inconsistent hierarchy is a registration-time programmer
			// error, not a runtime condition callers should recover from.
			panic(fmt.Sprintf("objectabi: cannot linearize MRO for %s: %v", t.Name, err))
		}
		t.mro = mro
	}
	return t.mro
}

// IsSubtype reports whether t appears in other's MRO (t is an ancestor).
func (t *Type) IsSubtype(other *Type) bool {
	for _, anc := range other.MRO() {
		if anc == t {
			return true
		}
	}
	return false
}

// MetaType is the type of a Type value itself, letting MKTRAIT/MKSTRUCT
// results sit on the operand stack as ordinary Objects (spec §4.C CALL
// step 1: "the callee may be a type, whose constructor is looked up").
var MetaType = &Type{Name: "type", TruthOf: func(Object) bool { return true }}

func (t *Type) Type() *Type    { return MetaType }
func (t *Type) String() string { return fmt.Sprintf("<type %s>", t.Name) }
