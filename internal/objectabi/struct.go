package objectabi

import "fmt"

// Instance is the generic attribute bag backing a struct Type built by
// NewStructType: the struct opcode group (MKSTRUCT) carries no fixed field
// layout of its own (spec §4.C lists it only as "finalize user-defined
// types"), so instance storage is a plain name-keyed map like any other
// dynamically-typed object in this ABI.
type Instance struct {
	typ    *Type
	fields map[string]Object
}

func (i *Instance) Type() *Type    { return i.typ }
func (i *Instance) String() string { return fmt.Sprintf("<%s>", i.typ.Name) }

// NewStructType builds a Type whose instances are Instance values, with
// Fields recording the constructor's declared parameter order and Bases
// feeding the usual C3 MRO (trait composition, spec §4.A).
func NewStructType(name string, bases []*Type, fields []string) *Type {
	return &Type{
		Name:    name,
		Bases:   bases,
		Fields:  fields,
		TruthOf: func(Object) bool { return true },
		Str:     func(o Object) string { return o.(*Instance).String() },
		Compare: func(a, b Object, mode CompareMode) (Object, error) {
			bi, ok := b.(*Instance)
			if !ok {
				return nil, ErrUnsupportedCompare
			}
			ai := a.(*Instance)
			return compareResult(mode, ai == bi, false)
		},
		AttrGet: func(obj Object, name string, public bool) (Object, error) {
			inst := obj.(*Instance)
			v, ok := inst.fields[name]
			if !ok {
				return nil, fmt.Errorf("%w: %s has no field %s", ErrNoAttr, inst.typ.Name, name)
			}
			return v, nil
		},
		AttrSet: func(obj Object, name string, val Object, public bool) error {
			inst := obj.(*Instance)
			inst.fields[name] = val
			return nil
		},
	}
}

// NewTraitType builds an abstract Type that contributes to MRO only: it
// has no instance storage, matching a trait's role as an interface rather
// than a constructible record (spec §4.A method resolution order).
func NewTraitType(name string, bases []*Type) *Type {
	return &Type{Name: name, Bases: bases, TruthOf: func(Object) bool { return true }}
}

// NewInstance constructs an Instance of a struct Type, binding positional
// values to t.Fields in order (spec §4.C CALL step 1: "the callee may be a
// type, in which case its constructor is looked up").
func (t *Type) NewInstance(positional []Object) (*Instance, error) {
	if len(positional) != len(t.Fields) {
		return nil, fmt.Errorf("%w: %s takes %d field(s), got %d", ErrUnsupportedOp, t.Name, len(t.Fields), len(positional))
	}
	inst := &Instance{typ: t, fields: make(map[string]Object, len(t.Fields))}
	for i, name := range t.Fields {
		inst.fields[name] = positional[i]
	}
	return inst, nil
}

// NewBareInstance builds an Instance with none of its fields bound yet,
// for the INIT opcode's kwargs-driven construction path (spec §4.C INIT:
// "run a type's constructor chain" — kwargs are applied by the caller via
// AttrSet after this returns, not by positional binding).
func (t *Type) NewBareInstance() *Instance {
	return &Instance{typ: t, fields: make(map[string]Object)}
}
