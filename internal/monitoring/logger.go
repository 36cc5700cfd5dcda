// Package monitoring holds the swappable process logger used by the CLI,
// the run store and the embedding driver.
package monitoring

import (
	"log"
	"time"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Timed logs the start of a stage and returns a func that logs its
// duration when called. Typical use is defer monitoring.Timed("embed")().
func Timed(stage string) func() {
	start := time.Now()
	Logf("[%s] started", stage)
	return func() {
		Logf("[%s] finished in %s", stage, time.Since(start).Round(time.Millisecond))
	}
}
