package objectabi

import (
	"fmt"
	"strings"
)

// Str is Argon's immutable UTF-8 string object.
type Str string

var StrType = &Type{
	Name:    "str",
	TruthOf: func(o Object) bool { return len(string(o.(Str))) != 0 },
	Str:     func(o Object) string { return string(o.(Str)) },
	Hash: func(o Object) (uint64, error) {
		s := string(o.(Str))
		var h uint64 = 14695981039346656037
		for i := 0; i < len(s); i++ {
			h ^= uint64(s[i])
			h *= 1099511628211
		}
		return h, nil
	},
	Compare: func(a, b Object, mode CompareMode) (Object, error) {
		bs, ok := b.(Str)
		if !ok {
			return nil, ErrUnsupportedCompare
		}
		as := a.(Str)
		return compareResult(mode, as == bs, as < bs)
	},
	Add: func(a, b Object) (Object, error) {
		bs, ok := b.(Str)
		if !ok {
			return nil, fmt.Errorf("%w: str + %T", ErrUnsupportedOp, b)
		}
		return a.(Str) + bs, nil
	},
	Mul: func(a, b Object) (Object, error) {
		n, ok := b.(Int)
		if !ok {
			return nil, fmt.Errorf("%w: str * %T", ErrUnsupportedOp, b)
		}
		if n <= 0 {
			return Str(""), nil
		}
		return Str(strings.Repeat(string(a.(Str)), int(n))), nil
	},
	Iter: func(obj Object, reversed bool) (Object, error) {
		runes := []rune(string(obj.(Str)))
		if reversed {
			for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
				runes[i], runes[j] = runes[j], runes[i]
			}
		}
		return &strIterator{runes: runes}, nil
	},
	SubscriptGet: func(obj, key Object) (Object, error) {
		idx, ok := key.(Int)
		if !ok {
			return nil, ErrNoSubscript
		}
		runes := []rune(string(obj.(Str)))
		i := int(idx)
		if i < 0 {
			i += len(runes)
		}
		if i < 0 || i >= len(runes) {
			return nil, fmt.Errorf("%w: string index out of range", ErrNoSubscript)
		}
		return Str(runes[i]), nil
	},
	SubscriptSlice: func(obj Object, bounds *Bounds) (Object, error) {
		runes := []rune(string(obj.(Str)))
		start, stop, err := clampBounds(bounds, len(runes))
		if err != nil {
			return nil, err
		}
		return Str(runes[start:stop]), nil
	},
}

func (s Str) Type() *Type    { return StrType }
func (s Str) String() string { return string(s) }

// strIterator walks a string's runes one Str-of-length-1 at a time.
type strIterator struct {
	runes []rune
	pos   int
}

var strIteratorType = &Type{
	Name: "str_iterator",
	Next: func(iter Object) (Object, error) {
		it := iter.(*strIterator)
		if it.pos >= len(it.runes) {
			return nil, nil
		}
		r := it.runes[it.pos]
		it.pos++
		return Str(r), nil
	},
}

func (it *strIterator) Type() *Type    { return strIteratorType }
func (it *strIterator) String() string { return "<str_iterator>" }

// clampBounds resolves a MKBND Bounds pair (possibly nil Start/Stop,
// meaning "from the beginning"/"to the end") into valid slice indices.
func clampBounds(b *Bounds, length int) (start, stop int, err error) {
	start, stop = 0, length
	if b.Start != nil {
		si, ok := b.Start.(Int)
		if !ok {
			return 0, 0, fmt.Errorf("%w: slice bound must be int", ErrUnsupportedOp)
		}
		start = int(si)
		if start < 0 {
			start += length
		}
	}
	if b.Stop != nil {
		ei, ok := b.Stop.(Int)
		if !ok {
			return 0, 0, fmt.Errorf("%w: slice bound must be int", ErrUnsupportedOp)
		}
		stop = int(ei)
		if stop < 0 {
			stop += length
		}
	}
	if start < 0 {
		start = 0
	}
	if stop > length {
		stop = length
	}
	if start > stop {
		start = stop
	}
	return start, stop, nil
}
