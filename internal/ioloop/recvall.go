//go:build linux || darwin

package ioloop

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/argonlang/argon/internal/objectabi"
	"github.com/argonlang/argon/internal/vm"
)

// RecvAll registers a read event that keeps re-arming itself until the
// peer closes or the requested length is reached, then hands the
// accumulated bytes to the waiting fiber as a single Str result —
// streaming reassembly the way the native socket layer buffers partial
// recv()s before waking the blocked fiber (src/vm/io/socket/psocket.cpp's
// buffered-read loop, generalized from sockets to any readable fd).
func RecvAll(loop *EvLoop, fiber *vm.Fiber, fd int, maxLen int, timeout time.Duration) error {
	buf := make([]byte, 0, 4096)
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	ev := NewEvent(EventRead, fd, nil)
	ev.Fiber = fiber
	ev.Deadline = deadline
	ev.Callback = func(e *Event) {
		chunk := make([]byte, 4096)
		n, err := unix.Read(fd, chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}

		done := err != nil || n == 0 || (maxLen > 0 && len(buf) >= maxLen)
		if done {
			fiber.AsyncResult = objectabi.Str(buf)
			fiber.SetStatus(vm.FiberRunnable)
			return
		}

		_ = loop.EventAlloc(e)
	}

	return loop.EventAlloc(ev)
}
