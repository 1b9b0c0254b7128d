package object

import "github.com/s0cks/gel/internal/heap"

// Error is gel's exception value: a failed checkinstance or a native
// procedure returning an error becomes one of these and is propagated by
// value. Other failures (an unbound or out-of-range local, an unbound
// global, a bad operand) are Go errors returned by the interpreter, per
// SPEC_FULL.md's ERROR HANDLING DESIGN. Grounded on gel::Error
// (original_source/Sources/gel/pointer.h).
type Error struct {
	Message string
}

var _ heap.Object = (*Error)(nil)

func (e *Error) ClassName() string                          { return "Error" }
func (e *Error) PayloadSize() uint32                         { return uint32(len(e.Message)) }
func (e *Error) String() string                              { return "error: " + e.Message }
func (e *Error) VisitPointers(func(*heap.Address) bool) bool { return true }
