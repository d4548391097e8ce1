package vm

import (
	"fmt"
	"strings"

	"github.com/argonlang/argon/internal/objectabi"
)

// PanicRecord is one link in a fiber's panic chain. Argon panics chain
// rather than replace: a panic raised while unwinding from an earlier
// panic (e.g. inside a deferred call) links onto the prior one instead of
// discarding it (spec §4.B "panics form a chain, not a single slot").
type PanicRecord struct {
	Err      *objectabi.ArError
	Recovered bool
	Frame    *Frame
	Line     int
	Prev     *PanicRecord
}

// TracebackEntry is one rendered line of a traceback, generalizing barn's
// task.ActivationFrame into Argon's Code-based frames.
type TracebackEntry struct {
	QualName string
	Filename string
	Line     int
}

// BuildTraceback walks frames from innermost to outermost, matching the
// teacher's FormatTraceback ordering (most recent call first).
func BuildTraceback(frames []*Frame) []TracebackEntry {
	out := make([]TracebackEntry, 0, len(frames))
	for i := len(frames) - 1; i >= 0; i-- {
		fr := frames[i]
		out = append(out, TracebackEntry{
			QualName: fr.Code.QualName,
			Filename: fr.Code.Filename,
			Line:     fr.Line,
		})
	}
	return out
}

// FormatTraceback renders entries the way a panic's default handler
// prints to stderr.
func FormatTraceback(entries []TracebackEntry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "  at %s (%s:%d)\n", e.QualName, e.Filename, e.Line)
	}
	return b.String()
}

// FormatPanicReport renders a traceback prefixed with the fiber's
// external identity, for a top-level handler that must tell a caller
// which fiber crashed without leaking the reusable scheduler handle.
func FormatPanicReport(fiberTraceID string, entries []TracebackEntry) string {
	return fmt.Sprintf("fiber %s panicked:\n%s", fiberTraceID, FormatTraceback(entries))
}

// Chain walks a PanicRecord's Prev links oldest-first, for reporting every
// panic involved in a nested unwind rather than only the last one.
func (p *PanicRecord) Chain() []*PanicRecord {
	var out []*PanicRecord
	for r := p; r != nil; r = r.Prev {
		out = append([]*PanicRecord{r}, out...)
	}
	return out
}
