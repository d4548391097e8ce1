package objectabi

import (
	"fmt"
	"strings"
	"sync"
)

// List is Argon's mutable, resizable array object (backs MKLT/EXTD).
type List struct {
	mu    sync.RWMutex
	items []Object
}

func NewList(items ...Object) *List {
	return &List{items: items}
}

var ListType = &Type{
	Name:    "list",
	TruthOf: func(o Object) bool { l := o.(*List); return len(l.items) != 0 },
	Str: func(o Object) string {
		l := o.(*List)
		l.mu.RLock()
		defer l.mu.RUnlock()
		parts := make([]string, len(l.items))
		for i, it := range l.items {
			parts[i] = it.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	},
	Compare: func(a, b Object, mode CompareMode) (Object, error) {
		bl, ok := b.(*List)
		if !ok {
			return nil, ErrUnsupportedCompare
		}
		al := a.(*List)
		al.mu.RLock()
		bl.mu.RLock()
		defer al.mu.RUnlock()
		defer bl.mu.RUnlock()
		eq := len(al.items) == len(bl.items)
		if eq {
			for i := range al.items {
				r, err := Equal(al.items[i], bl.items[i])
				if err != nil || !r {
					eq = false
					break
				}
			}
		}
		return compareResult(mode, eq, false)
	},
	Add: func(a, b Object) (Object, error) {
		bl, ok := b.(*List)
		if !ok {
			return nil, fmt.Errorf("%w: list + %T", ErrUnsupportedOp, b)
		}
		al := a.(*List)
		al.mu.RLock()
		bl.mu.RLock()
		defer al.mu.RUnlock()
		defer bl.mu.RUnlock()
		out := make([]Object, 0, len(al.items)+len(bl.items))
		out = append(out, al.items...)
		out = append(out, bl.items...)
		return &List{items: out}, nil
	},
	Iter: func(obj Object, reversed bool) (Object, error) {
		l := obj.(*List)
		l.mu.RLock()
		defer l.mu.RUnlock()
		snapshot := append([]Object{}, l.items...)
		if reversed {
			for i, j := 0, len(snapshot)-1; i < j; i, j = i+1, j-1 {
				snapshot[i], snapshot[j] = snapshot[j], snapshot[i]
			}
		}
		return &listIterator{items: snapshot}, nil
	},
	SubscriptGet: func(obj, key Object) (Object, error) {
		l := obj.(*List)
		idx, ok := key.(Int)
		if !ok {
			return nil, ErrNoSubscript
		}
		l.mu.RLock()
		defer l.mu.RUnlock()
		i := int(idx)
		if i < 0 {
			i += len(l.items)
		}
		if i < 0 || i >= len(l.items) {
			return nil, fmt.Errorf("%w: list index out of range", ErrNoSubscript)
		}
		return l.items[i], nil
	},
	SubscriptSet: func(obj, key, val Object) error {
		l := obj.(*List)
		idx, ok := key.(Int)
		if !ok {
			return ErrNoSubscript
		}
		l.mu.Lock()
		defer l.mu.Unlock()
		i := int(idx)
		if i < 0 {
			i += len(l.items)
		}
		if i < 0 || i >= len(l.items) {
			return fmt.Errorf("%w: list index out of range", ErrNoSubscript)
		}
		l.items[i] = val
		return nil
	},
	SubscriptSlice: func(obj Object, bounds *Bounds) (Object, error) {
		l := obj.(*List)
		l.mu.RLock()
		defer l.mu.RUnlock()
		start, stop, err := clampBounds(bounds, len(l.items))
		if err != nil {
			return nil, err
		}
		out := make([]Object, stop-start)
		copy(out, l.items[start:stop])
		return &List{items: out}, nil
	},
	SubscriptSliceSet: func(obj Object, bounds *Bounds, val Object) error {
		l := obj.(*List)
		repl, err := toObjectSlice(val)
		if err != nil {
			return err
		}
		l.mu.Lock()
		defer l.mu.Unlock()
		start, stop, err := clampBounds(bounds, len(l.items))
		if err != nil {
			return err
		}
		out := make([]Object, 0, start+len(repl)+(len(l.items)-stop))
		out = append(out, l.items[:start]...)
		out = append(out, repl...)
		out = append(out, l.items[stop:]...)
		l.items = out
		return nil
	},
	SubscriptContains: func(obj, key Object) (bool, error) {
		l := obj.(*List)
		l.mu.RLock()
		defer l.mu.RUnlock()
		for _, it := range l.items {
			ok, err := Equal(it, key)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	},
}

// toObjectSlice reads a List's elements for use as a slice-assignment
// replacement (STSUBSCR with a Bounds key, spec §4.C "STSUBSCR dispatches
// set_item/set_slice by operand type").
func toObjectSlice(val Object) ([]Object, error) {
	l, ok := val.(*List)
	if !ok {
		return nil, fmt.Errorf("%w: slice assignment value must be a list", ErrUnsupportedOp)
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Object, len(l.items))
	copy(out, l.items)
	return out, nil
}

func (l *List) Type() *Type   { return ListType }
func (l *List) String() string { return ListType.Str(l) }

func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

func (l *List) Append(o Object) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, o)
}

type listIterator struct {
	items []Object
	pos   int
}

var listIteratorType = &Type{
	Name: "list_iterator",
	Next: func(iter Object) (Object, error) {
		it := iter.(*listIterator)
		if it.pos >= len(it.items) {
			return nil, nil
		}
		v := it.items[it.pos]
		it.pos++
		return v, nil
	},
}

func (it *listIterator) Type() *Type    { return listIteratorType }
func (it *listIterator) String() string { return "<list_iterator>" }

// Equal is the shared helper every container Compare uses to test element
// equality without re-deriving a CompareMode dispatch at each call site.
func Equal(a, b Object) (bool, error) {
	r, err := a.Type().Compare(a, b, CmpEQ)
	if err != nil {
		return false, err
	}
	return bool(r.(Bool)), nil
}
