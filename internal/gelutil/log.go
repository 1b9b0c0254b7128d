// Package gelutil collects small cross-cutting helpers shared by the rest
// of the module; today that is just the logging wrapper. Grounded on the
// teacher's own terse `log` usage (asm/main.go, buildid/buildid.go), which
// sets a prefix and flags once per tool rather than reaching for a
// structured logging framework.
package gelutil

import (
	"log"
	"os"
)

// New returns a subsystem-scoped logger in the teacher's style: a short
// prefix, no timestamp/file decoration, writing to stderr.
func New(subsystem string) *log.Logger {
	return log.New(os.Stderr, subsystem+": ", 0)
}

var (
	// Heap is the "heap: " subsystem logger; no package logs through it.
	Heap = New("heap")
	// Interp is the "interp: " subsystem logger; no package logs through
	// it (the interpreter returns Go errors instead).
	Interp = New("interp")
	// Runtime is used by internal/runtime for top-level Exec/Eval failures.
	Runtime = New("runtime")
)
