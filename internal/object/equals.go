package object

import "github.com/s0cks/gel/internal/heap"

// Equals implements gel's polymorphic, total object equality, grounded on
// Object::Equals and its per-type overrides (original_source/Sources/gel/
// object.cc: Bool::Equals, Long::Equals, Double::Equals, Symbol::Equals,
// String::Equals, Pair::Equals). Unlike AsFloat64-based numeric comparison,
// this is defined for every value kind and never errors: two values of
// different kinds are simply unequal.
//
// deref resolves a Pair's car/cdr Addresses so Pair equality can recurse
// structurally, matching Pair::Equals: "GetCar()->Equals(other->GetCar())
// && GetCdr()->Equals(other->GetCdr())".
func Equals(deref func(heap.Address) (heap.Object, bool), a, b heap.Object) bool {
	switch av := a.(type) {
	case *Bool:
		bv, ok := b.(*Bool)
		return ok && av.Value == bv.Value
	case *Long:
		if bv, ok := b.(*Long); ok {
			return av.Value == bv.Value
		}
		if bv, ok := b.(*Double); ok {
			return float64(av.Value) == bv.Value
		}
		return false
	case *Double:
		if bv, ok := b.(*Double); ok {
			return av.Value == bv.Value
		}
		if bv, ok := b.(*Long); ok {
			return av.Value == float64(bv.Value)
		}
		return false
	case *Symbol:
		bv, ok := b.(*Symbol)
		return ok && av.Value == bv.Value
	case *String:
		bv, ok := b.(*String)
		return ok && av.Value == bv.Value
	case *Pair:
		bv, ok := b.(*Pair)
		if !ok {
			return false
		}
		if av.IsEmpty() || bv.IsEmpty() {
			return av.IsEmpty() && bv.IsEmpty()
		}
		carA, ok := deref(av.Car)
		if !ok {
			return false
		}
		carB, ok := deref(bv.Car)
		if !ok {
			return false
		}
		if !Equals(deref, carA, carB) {
			return false
		}
		cdrA, ok := deref(av.Cdr)
		if !ok {
			return false
		}
		cdrB, ok := deref(bv.Cdr)
		if !ok {
			return false
		}
		return Equals(deref, cdrA, cdrB)
	default:
		return a == b
	}
}
