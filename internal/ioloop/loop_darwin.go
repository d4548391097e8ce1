//go:build darwin

package ioloop

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// kqueueBackend is the Darwin ioBackend, grounded on the native engine's
// kqloop.cpp (kevent-based EvLoop implementation for BSD/macOS).
type kqueueBackend struct {
	kq     int
	events map[int]*Event
}

func newIOBackend() (ioBackend, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, fmt.Errorf("ioloop: kqueue: %w", err)
	}
	return &kqueueBackend{kq: kq, events: make(map[int]*Event)}, nil
}

func (b *kqueueBackend) Add(ev *Event) error {
	filter := int16(unix.EVFILT_READ)
	if ev.Kind == EventWrite {
		filter = unix.EVFILT_WRITE
	}

	b.events[ev.Handle] = ev

	kev := unix.Kevent_t{
		Ident:  uint64(ev.Handle),
		Filter: filter,
		Flags:  unix.EV_ADD | unix.EV_ONESHOT,
	}
	_, err := unix.Kevent(b.kq, []unix.Kevent_t{kev}, nil, nil)
	return err
}

func (b *kqueueBackend) Remove(ev *Event) error {
	delete(b.events, ev.Handle)

	filter := int16(unix.EVFILT_READ)
	if ev.Kind == EventWrite {
		filter = unix.EVFILT_WRITE
	}
	kev := unix.Kevent_t{
		Ident:  uint64(ev.Handle),
		Filter: filter,
		Flags:  unix.EV_DELETE,
	}
	_, err := unix.Kevent(b.kq, []unix.Kevent_t{kev}, nil, nil)
	return err
}

func (b *kqueueBackend) Poll(timeout time.Duration) ([]*Event, error) {
	ts := unix.NsecToTimespec(timeout.Nanoseconds())
	var buf [64]unix.Kevent_t

	n, err := unix.Kevent(b.kq, nil, buf[:], &ts)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}

	ready := make([]*Event, 0, n)
	for i := 0; i < n; i++ {
		fd := int(buf[i].Ident)
		if ev, ok := b.events[fd]; ok {
			delete(b.events, fd)
			ready = append(ready, ev)
		}
	}
	return ready, nil
}

func (b *kqueueBackend) Close() error {
	return unix.Close(b.kq)
}
