package background

import (
	"io"
	"log"
	"sync"
)

// Stream selects one of the background log streams.
type Stream int

const (
	// StreamOps carries actionable warnings such as suspicious parameters.
	StreamOps Stream = iota
	// StreamDiag carries one line per rebuild, generation or subtraction pass.
	StreamDiag
	// StreamTrace carries one line per particle kept or dropped.
	StreamTrace
	numStreams
)

var streamPrefix = [numStreams]string{
	StreamOps:   "[background] ",
	StreamDiag:  "[background diag] ",
	StreamTrace: "[background trace] ",
}

// LogWriters holds the io.Writers for each logging stream.
type LogWriters struct {
	Ops   io.Writer
	Diag  io.Writer
	Trace io.Writer
}

var (
	mu      sync.RWMutex
	loggers [numStreams]*log.Logger
)

// SetLogWriters configures all streams at once. A nil writer disables its
// stream.
func SetLogWriters(w LogWriters) {
	next := [numStreams]*log.Logger{
		StreamOps:   newLogger(StreamOps, w.Ops),
		StreamDiag:  newLogger(StreamDiag, w.Diag),
		StreamTrace: newLogger(StreamTrace, w.Trace),
	}
	mu.Lock()
	loggers = next
	mu.Unlock()
}

func newLogger(s Stream, w io.Writer) *log.Logger {
	if w == nil {
		return nil
	}
	return log.New(w, streamPrefix[s], log.LstdFlags|log.Lmicroseconds)
}

func logger(s Stream) *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return loggers[s]
}

// Enabled reports whether s has a writer. The subtraction loop checks it
// before formatting per-particle lines.
func Enabled(s Stream) bool { return logger(s) != nil }

func logf(s Stream, format string, args ...interface{}) {
	if l := logger(s); l != nil {
		l.Printf(format, args...)
	}
}

// Opsf logs to the ops stream.
func Opsf(format string, args ...interface{}) { logf(StreamOps, format, args...) }

// Diagf logs to the diag stream.
func Diagf(format string, args ...interface{}) { logf(StreamDiag, format, args...) }

// Tracef logs to the trace stream.
func Tracef(format string, args ...interface{}) { logf(StreamTrace, format, args...) }

// traceParticle records one subtraction decision. after is the reduced pt
// of a kept particle or the subtracted fraction of a dropped one.
func traceParticle(trace, kept bool, idx int, pt, after float64) {
	if !trace {
		return
	}
	if kept {
		Tracef("keep idx=%d pt=%f -> %f", idx, pt, after)
		return
	}
	Tracef("drop idx=%d pt=%f fraction=%f", idx, pt, after)
}
