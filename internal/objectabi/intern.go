package objectabi

import (
	lru "github.com/hashicorp/golang-lru"
)

// InternTable deduplicates short-lived Str literals and identifier names
// so the engine's LDC/LDNAME paths don't allocate a fresh Str per hit.
// Bounded so long-running fibers churning through generated strings can't
// grow it without limit.
type InternTable struct {
	cache *lru.Cache
}

const defaultInternSize = 4096

func NewInternTable() *InternTable {
	c, err := lru.New(defaultInternSize)
	if err != nil {
		// Only returns an error for a non-positive size, which
		// defaultInternSize never is.
		panic(err)
	}
	return &InternTable{cache: c}
}

func (t *InternTable) Intern(s string) Str {
	if v, ok := t.cache.Get(s); ok {
		return v.(Str)
	}
	interned := Str(s)
	t.cache.Add(s, interned)
	return interned
}
