package object

import "github.com/s0cks/gel/internal/heap"

// Bool is gel's boolean value. Grounded on gel::Bool
// (original_source/Sources/gel/pointer.h).
type Bool struct {
	Value bool
}

var _ heap.Object = (*Bool)(nil)

func (b *Bool) ClassName() string   { return "Bool" }
func (b *Bool) PayloadSize() uint32 { return 1 }
func (b *Bool) String() string {
	if b.Value {
		return "#t"
	}
	return "#f"
}
func (b *Bool) VisitPointers(func(*heap.Address) bool) bool { return true }

// Truthy applies gel's truth test: everything is true except #f and the
// empty list '() (an empty Pair).
func Truthy(obj heap.Object) bool {
	if b, ok := obj.(*Bool); ok {
		return b.Value
	}
	if p, ok := obj.(*Pair); ok && p.IsEmpty() {
		return false
	}
	return true
}
