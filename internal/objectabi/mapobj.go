package objectabi

import (
	"fmt"
	"strings"
	"sync"
)

// mapKey is the Go-comparable form an Object must reduce to in order to
// back a real Go map; only hashable Argon kinds can be map keys.
type mapKey struct {
	kind TypeCode
	repr string
}

func keyOf(o Object) (mapKey, error) {
	h, err := hashableRepr(o)
	if err != nil {
		return mapKey{}, err
	}
	return mapKey{kind: kindOf(o), repr: h}, nil
}

func kindOf(o Object) TypeCode {
	switch o.(type) {
	case Nil:
		return TypeNil
	case Bool:
		return TypeBool
	case Int:
		return TypeInt
	case Float:
		return TypeFloat
	case Str:
		return TypeStr
	default:
		return TypeError
	}
}

func hashableRepr(o Object) (string, error) {
	if o.Type().Hash == nil {
		return "", fmt.Errorf("%w: unhashable type %s", ErrUnsupportedOp, o.Type().Name)
	}
	h, err := o.Type().Hash(o)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d:%s", o.Type().Name, h, o.String()), nil
}

// Map is Argon's hash-map object (MKDT / LDSCOPE dictionary backing).
type Map struct {
	mu   sync.RWMutex
	keys map[mapKey]Object
	vals map[mapKey]Object
}

func NewMap() *Map {
	return &Map{keys: map[mapKey]Object{}, vals: map[mapKey]Object{}}
}

var MapType = &Type{
	Name:    "map",
	TruthOf: func(o Object) bool { return len(o.(*Map).vals) != 0 },
	Str: func(o Object) string {
		m := o.(*Map)
		m.mu.RLock()
		defer m.mu.RUnlock()
		parts := make([]string, 0, len(m.vals))
		for k, v := range m.vals {
			parts = append(parts, m.keys[k].String()+": "+v.String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	},
	SubscriptGet: func(obj, key Object) (Object, error) {
		m := obj.(*Map)
		k, err := keyOf(key)
		if err != nil {
			return nil, err
		}
		m.mu.RLock()
		defer m.mu.RUnlock()
		v, ok := m.vals[k]
		if !ok {
			return nil, fmt.Errorf("%w: key %s not found", ErrNoSubscript, key.String())
		}
		return v, nil
	},
	SubscriptSet: func(obj, key, val Object) error {
		m := obj.(*Map)
		k, err := keyOf(key)
		if err != nil {
			return err
		}
		m.mu.Lock()
		defer m.mu.Unlock()
		m.keys[k] = key
		m.vals[k] = val
		return nil
	},
	SubscriptContains: func(obj, key Object) (bool, error) {
		m := obj.(*Map)
		k, err := keyOf(key)
		if err != nil {
			return false, err
		}
		m.mu.RLock()
		defer m.mu.RUnlock()
		_, ok := m.vals[k]
		return ok, nil
	},
	Iter: func(obj Object, reversed bool) (Object, error) {
		m := obj.(*Map)
		m.mu.RLock()
		defer m.mu.RUnlock()
		keys := make([]Object, 0, len(m.keys))
		for k := range m.keys {
			keys = append(keys, m.keys[k])
		}
		if reversed {
			for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
		return &listIterator{items: keys}, nil
	},
}

func (m *Map) Type() *Type    { return MapType }
func (m *Map) String() string { return MapType.Str(m) }

func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.vals)
}

func (m *Map) Set(key, val Object) error {
	return MapType.SubscriptSet(m, key, val)
}

func (m *Map) Get(key Object) (Object, error) {
	return MapType.SubscriptGet(m, key)
}
