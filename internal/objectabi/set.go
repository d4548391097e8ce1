package objectabi

import (
	"strings"
	"sync"
)

// Set is Argon's hash-set object (MKST backing), reusing Map's hashable-key
// reduction so any type Map can hold as a key, Set can hold as a member.
type Set struct {
	mu      sync.RWMutex
	members map[mapKey]Object
}

func NewSet(items ...Object) (*Set, error) {
	s := &Set{members: map[mapKey]Object{}}
	for _, it := range items {
		if err := s.Add(it); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Set) Add(o Object) error {
	k, err := keyOf(o)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[k] = o
	return nil
}

func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members)
}

var SetType = &Type{
	Name:    "set",
	TruthOf: func(o Object) bool { return len(o.(*Set).members) != 0 },
	Str: func(o Object) string {
		s := o.(*Set)
		s.mu.RLock()
		defer s.mu.RUnlock()
		parts := make([]string, 0, len(s.members))
		for _, v := range s.members {
			parts = append(parts, v.String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	},
	Compare: func(a, b Object, mode CompareMode) (Object, error) {
		bs, ok := b.(*Set)
		if !ok {
			return nil, ErrUnsupportedCompare
		}
		as := a.(*Set)
		as.mu.RLock()
		bs.mu.RLock()
		defer as.mu.RUnlock()
		defer bs.mu.RUnlock()
		eq := len(as.members) == len(bs.members)
		if eq {
			for k := range as.members {
				if _, ok := bs.members[k]; !ok {
					eq = false
					break
				}
			}
		}
		return compareResult(mode, eq, false)
	},
	SubscriptContains: func(obj, key Object) (bool, error) {
		s := obj.(*Set)
		k, err := keyOf(key)
		if err != nil {
			return false, err
		}
		s.mu.RLock()
		defer s.mu.RUnlock()
		_, ok := s.members[k]
		return ok, nil
	},
	Iter: func(obj Object, reversed bool) (Object, error) {
		s := obj.(*Set)
		s.mu.RLock()
		defer s.mu.RUnlock()
		items := make([]Object, 0, len(s.members))
		for _, v := range s.members {
			items = append(items, v)
		}
		if reversed {
			for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
				items[i], items[j] = items[j], items[i]
			}
		}
		return &listIterator{items: items}, nil
	},
}

func (s *Set) Type() *Type    { return SetType }
func (s *Set) String() string { return SetType.Str(s) }
