//go:build linux

package ioloop

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// epollBackend is the Linux ioBackend, grounded on the native engine's
// epoll-based EvLoop implementation (EvHandle is a plain fd there too).
type epollBackend struct {
	epfd   int
	events map[int32]*Event
}

func newIOBackend() (ioBackend, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("ioloop: epoll_create1: %w", err)
	}
	return &epollBackend{epfd: epfd, events: make(map[int32]*Event)}, nil
}

func (b *epollBackend) Add(ev *Event) error {
	var mask uint32 = unix.EPOLLONESHOT
	if ev.Kind == EventWrite {
		mask |= unix.EPOLLOUT
	} else {
		mask |= unix.EPOLLIN
	}

	fd := int32(ev.Handle)
	b.events[fd] = ev

	epv := unix.EpollEvent{Events: mask, Fd: fd}
	if err := unix.EpollCtl(b.epfd, unix.EPOLL_CTL_ADD, ev.Handle, &epv); err != nil {
		if err == unix.EEXIST {
			return unix.EpollCtl(b.epfd, unix.EPOLL_CTL_MOD, ev.Handle, &epv)
		}
		return err
	}
	return nil
}

func (b *epollBackend) Remove(ev *Event) error {
	delete(b.events, int32(ev.Handle))
	return unix.EpollCtl(b.epfd, unix.EPOLL_CTL_DEL, ev.Handle, nil)
}

func (b *epollBackend) Poll(timeout time.Duration) ([]*Event, error) {
	var buf [64]unix.EpollEvent
	ms := int(timeout / time.Millisecond)
	if timeout > 0 && ms == 0 {
		ms = 1
	}

	n, err := unix.EpollWait(b.epfd, buf[:], ms)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}

	ready := make([]*Event, 0, n)
	for i := 0; i < n; i++ {
		if ev, ok := b.events[buf[i].Fd]; ok {
			delete(b.events, buf[i].Fd)
			ready = append(ready, ev)
		}
	}
	return ready, nil
}

func (b *epollBackend) Close() error {
	return unix.Close(b.epfd)
}
