package object

import "github.com/s0cks/gel/internal/heap"

// Pair is gel's cons cell. Grounded on gel::Pair
// (original_source/Sources/gel/pointer.h). Both fields are heap Addresses,
// not Go pointers, so the collector can relocate the cell's children
// independently of the cell itself.
type Pair struct {
	Car heap.Address
	Cdr heap.Address
}

var _ heap.Object = (*Pair)(nil)

// NewPair builds a Pair with the given car/cdr Addresses. Either may be
// heap.Unallocated to represent the empty list in that slot.
func NewPair(car, cdr heap.Address) *Pair {
	return &Pair{Car: car, Cdr: cdr}
}

func (p *Pair) ClassName() string   { return "Pair" }
func (p *Pair) PayloadSize() uint32 { return 16 }

func (p *Pair) VisitPointers(visit func(*heap.Address) bool) bool {
	if !p.Car.IsUnallocated() {
		if !visit(&p.Car) {
			return false
		}
	}
	if !p.Cdr.IsUnallocated() {
		if !visit(&p.Cdr) {
			return false
		}
	}
	return true
}

func (p *Pair) String() string { return "(pair)" }

// IsEmpty reports whether p represents gel's '() — a Pair with neither car
// nor cdr populated. Emptiness is structural: pushnull allocates a fresh
// empty Pair each time, and no single canonical empty-list Pair is kept
// (unlike gel::Pair::Empty()'s singleton in pointer.h).
func (p *Pair) IsEmpty() bool {
	return p.Car.IsUnallocated() && p.Cdr.IsUnallocated()
}
