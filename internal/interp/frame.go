// Package interp implements gel's tracing bytecode interpreter: a real
// fetch/decode/execute loop over internal/vm-assembled bytecode, per
// SPEC_FULL.md §4.7's explicit redesign away from the original's
// tree-walking interpreter.cc (see DESIGN.md's Open Question entry).
package interp

import (
	"github.com/s0cks/gel/internal/heap"
	"github.com/s0cks/gel/internal/local"
)

// Frame is one call activation on the interpreter's call stack: the
// bytecode/constants it's executing, its instruction pointer, and the
// LocalScope its lload/lstore opcodes read and write. Grounded on
// gel::StackFrame (original_source/Sources/gel/stack_frame.cc).
type Frame struct {
	Code      []byte
	Constants []string
	IP        int
	Scope     *local.Scope
}

// VisitPointers reports the Frame's Scope as GC roots; the Frame itself
// holds no other heap Addresses.
func (f *Frame) VisitPointers(visit func(*heap.Address) bool) bool {
	return f.Scope.VisitPointers(visit)
}
