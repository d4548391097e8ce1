// Package trace provides execution tracing for the engine, scheduler, and
// event loop. It is deliberately not a general logging facade: every call
// site names the exact runtime event (verb-style "CALL"/"RETURN" framing is
// kept from the MOO heritage of this tracer, generalized to fiber/verb
// calls, panics, scheduler transfers, and I/O completions).
package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Tracer filters trace events by a glob pattern applied to the function
// qualified name, and writes formatted lines to a single writer.
type Tracer struct {
	enabled bool
	filters []string
	writer  io.Writer
	mu      sync.Mutex
}

var globalTracer *Tracer

// Init installs the global tracer. A nil writer defaults to os.Stderr.
func Init(enabled bool, filters []string, writer io.Writer) {
	if writer == nil {
		writer = os.Stderr
	}
	globalTracer = &Tracer{enabled: enabled, filters: filters, writer: writer}
}

// IsEnabled reports whether the global tracer is active.
func IsEnabled() bool {
	return globalTracer != nil && globalTracer.enabled
}

func (t *Tracer) matchesFilter(name string) bool {
	if len(t.filters) == 0 {
		return true
	}
	for _, pattern := range t.filters {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// Call logs entry into a function/native call on a fiber.
func (t *Tracer) Call(fiberID uint64, qualname string, args []string) {
	if !t.enabled || !t.matchesFilter(qualname) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.writer, "[TRACE] fiber=%d CALL %s(%s)\n", fiberID, qualname, strings.Join(args, ", "))
}

// Return logs a frame return.
func (t *Tracer) Return(fiberID uint64, qualname string, result string) {
	if !t.enabled || !t.matchesFilter(qualname) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.writer, "[TRACE] fiber=%d RETURN %s => %s\n", fiberID, qualname, result)
}

// Panic logs an unhandled or propagating panic.
func (t *Tracer) Panic(fiberID uint64, qualname string, code string) {
	if !t.enabled || !t.matchesFilter(qualname) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.writer, "[TRACE] fiber=%d PANIC %s %s\n", fiberID, qualname, code)
}

// Schedule logs a scheduler transfer: fiber parked/resumed on a VCore/OST.
func (t *Tracer) Schedule(event string, fiberID uint64, vcoreID, ostID int) {
	if !t.enabled {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.writer, "[TRACE] SCHED %s fiber=%d vcore=%d ost=%d\n", event, fiberID, vcoreID, ostID)
}

// IO logs an event-loop submission or completion.
func (t *Tracer) IO(event string, fiberID uint64, detail string) {
	if !t.enabled {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if detail != "" {
		fmt.Fprintf(t.writer, "[TRACE] IO %s fiber=%d %s\n", event, fiberID, detail)
		return
	}
	fmt.Fprintf(t.writer, "[TRACE] IO %s fiber=%d\n", event, fiberID)
}

// Global convenience wrappers — no-ops until Init is called.

func Call(fiberID uint64, qualname string, args []string) {
	if globalTracer != nil {
		globalTracer.Call(fiberID, qualname, args)
	}
}

func Return(fiberID uint64, qualname string, result string) {
	if globalTracer != nil {
		globalTracer.Return(fiberID, qualname, result)
	}
}

func Panic(fiberID uint64, qualname string, code string) {
	if globalTracer != nil {
		globalTracer.Panic(fiberID, qualname, code)
	}
}

func Schedule(event string, fiberID uint64, vcoreID, ostID int) {
	if globalTracer != nil {
		globalTracer.Schedule(event, fiberID, vcoreID, ostID)
	}
}

func IO(event string, fiberID uint64, detail string) {
	if globalTracer != nil {
		globalTracer.IO(event, fiberID, detail)
	}
}
