package objectabi

import "fmt"

// LineEntry maps a bytecode offset to a source line, mirroring the
// start-IP/line-number table the engine walks backward to resolve a
// traceback frame's current line.
type LineEntry struct {
	StartIP int
	Line    int
}

// Code is the compiled-unit object the engine executes: an instruction
// stream plus the constant/name tables PSHC/LDGBL/LDLC/LDENC index into.
// It is the thing Fiber frames point at, not something lexing/parsing
// produces here — a Code value is assumed to already exist by the time
// the engine sees it (spec §1 excludes the compiler front end).
type Code struct {
	Name         string
	QualName     string
	Instr        []byte
	Literals     []Object
	Names        []string
	EnclosedRefs []string // names captured from an enclosing frame (closures)
	MaxStack     int
	NumLocals    int
	NumArgs      int
	LineInfo     []LineEntry
	Filename     string

	// Flags carries the calling-convention bits declared for this unit
	// (generator/variadic/kwargs/...), read by MKFN when it wraps Code
	// into a Function (spec §4.A "function objects carry a flag bitset").
	Flags FuncFlags
}

func (c *Code) LineForIP(ip int) int {
	for i := len(c.LineInfo) - 1; i >= 0; i-- {
		if c.LineInfo[i].StartIP <= ip {
			return c.LineInfo[i].Line
		}
	}
	return 0
}

var CodeType = &Type{
	Name:    "code",
	TruthOf: func(Object) bool { return true },
	Str:     func(o Object) string { return fmt.Sprintf("<code %s>", o.(*Code).QualName) },
}

func (c *Code) Type() *Type    { return CodeType }
func (c *Code) String() string { return fmt.Sprintf("<code %s>", c.QualName) }

// FuncFlags is the bitset stamped on every Function object (spec §4.A
// "function objects carry a flag bitset describing calling convention").
type FuncFlags uint16

const (
	FlagMethod FuncFlags = 1 << iota
	FlagVariadic
	FlagKwargs
	FlagGenerator
	FlagAsync
	FlagNative
	FlagStatic
	FlagClosure
	FlagHaveDefaults
)

func (f FuncFlags) Has(flag FuncFlags) bool { return f&flag != 0 }

// NativeFn is the Go-side implementation behind a FlagNative function
// (what builtins/ registers — crypt(), argon2(), etc).
type NativeFn func(fiber Object, args []Object, kwargs *Map) (Object, error)

// Function is a callable object: either a Code closure or a Go-native
// builtin, distinguished by FlagNative.
type Function struct {
	Name     string
	QualName string
	Flags    FuncFlags
	Code     *Code
	Native   NativeFn
	Defaults []Object
	Enclosed []Object // captured cell values, parallel to Code.EnclosedRefs
	Arity    int
}

var FuncType = &Type{
	Name:    "func",
	TruthOf: func(Object) bool { return true },
	Str: func(o Object) string {
		f := o.(*Function)
		return fmt.Sprintf("<func %s>", f.QualName)
	},
}

func (f *Function) Type() *Type    { return FuncType }
func (f *Function) String() string { return fmt.Sprintf("<func %s>", f.QualName) }

func (f *Function) IsNative() bool    { return f.Flags.Has(FlagNative) }
func (f *Function) IsGenerator() bool { return f.Flags.Has(FlagGenerator) }
func (f *Function) IsAsync() bool     { return f.Flags.Has(FlagAsync) }

// NewNativeFunc registers a Go-implemented builtin under the given name
// with the arity/flags the spec's "External Interfaces" section requires
// (builtins are ordinary FlagNative functions, not a separate call path).
func NewNativeFunc(name string, arity int, flags FuncFlags, fn NativeFn) *Function {
	return &Function{
		Name:     name,
		QualName: name,
		Flags:    flags | FlagNative,
		Native:   fn,
		Arity:    arity,
	}
}
