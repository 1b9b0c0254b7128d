// Package local implements gel's lexical environment: named local
// variables and the scopes that chain them together. The call-stack frames
// the interpreter pushes around every Lambda invocation live in
// internal/interp (Frame). Grounded on gel::LocalVariable/LocalScope
// (original_source/Sources/gel/local.cc, local_scope.cc).
package local

import "github.com/s0cks/gel/internal/heap"

// Variable is one named binding: a mutable cell holding a heap.Address,
// relocated by the collector exactly like any other outgoing reference.
// Grounded on gel::LocalVariable (original_source/Sources/gel/local.cc).
type Variable struct {
	Name  string
	Value heap.Address
}

// VisitPointers reports the variable's current value as a GC root/edge.
func (v *Variable) VisitPointers(visit func(*heap.Address) bool) bool {
	if v.Value.IsUnallocated() {
		return true
	}
	return visit(&v.Value)
}
