package object

import "github.com/s0cks/gel/internal/heap"

// String is gel's string value. Grounded on gel::String
// (original_source/Sources/gel/pointer.h).
type String struct {
	Value string
}

var _ heap.Object = (*String)(nil)

func (s *String) ClassName() string                          { return "String" }
func (s *String) PayloadSize() uint32                         { return uint32(len(s.Value)) }
func (s *String) String() string                              { return s.Value }
func (s *String) VisitPointers(func(*heap.Address) bool) bool { return true }

// Array is gel's fixed-length vector. Grounded on gel::Array
// (original_source/Sources/gel/pointer.h).
type Array struct {
	Elements []heap.Address
}

var _ heap.Object = (*Array)(nil)

func NewArray(length int) *Array {
	elems := make([]heap.Address, length)
	for i := range elems {
		elems[i] = heap.Unallocated
	}
	return &Array{Elements: elems}
}

func (a *Array) ClassName() string   { return "Array" }
func (a *Array) PayloadSize() uint32 { return uint32(len(a.Elements)) * 8 }
func (a *Array) String() string      { return "#(array)" }

func (a *Array) VisitPointers(visit func(*heap.Address) bool) bool {
	for i := range a.Elements {
		if a.Elements[i].IsUnallocated() {
			continue
		}
		if !visit(&a.Elements[i]) {
			return false
		}
	}
	return true
}
