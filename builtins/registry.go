package builtins

import "github.com/argonlang/argon/internal/objectabi"

// Registry holds every FlagNative Function the engine's CALL opcode can
// resolve a name to, generalized from barn's BuiltinFunc map (which kept
// both a name table and a dense by-ID table for its MOO builtin dispatch)
// to Argon's object-ABI Function values.
type Registry struct {
	byName map[string]*objectabi.Function
}

func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]*objectabi.Function)}
	Register(r)
	return r
}

func (r *Registry) Add(fn *objectabi.Function) {
	r.byName[fn.Name] = fn
}

func (r *Registry) Lookup(name string) (*objectabi.Function, bool) {
	fn, ok := r.byName[name]
	return fn, ok
}
