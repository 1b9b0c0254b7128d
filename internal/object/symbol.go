package object

import (
	"sync"

	"github.com/s0cks/gel/internal/heap"
)

// Symbol is gel's interned identifier value. Grounded on gel::Symbol
// (original_source/Sources/gel/pointer.h).
type Symbol struct {
	Value string
}

var _ heap.Object = (*Symbol)(nil)

func (s *Symbol) ClassName() string                          { return "Symbol" }
func (s *Symbol) PayloadSize() uint32                         { return uint32(len(s.Value)) }
func (s *Symbol) String() string                              { return s.Value }
func (s *Symbol) VisitPointers(func(*heap.Address) bool) bool { return true }

// Interner hands out exactly one heap-allocated Symbol per distinct
// string, mirroring gel's symbol table (original_source/Sources/gel/
// symbol.h, which keys a process-wide table by string to guarantee pointer
// equality for equal names).
type Interner struct {
	mu      sync.Mutex
	heap    *heap.Heap
	symbols map[string]heap.Address
}

// NewInterner builds an Interner allocating through h.
func NewInterner(h *heap.Heap) *Interner {
	return &Interner{heap: h, symbols: make(map[string]heap.Address)}
}

// Intern returns the Address of the Symbol for value, allocating one the
// first time value is seen.
func (in *Interner) Intern(value string) (heap.Address, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if addr, ok := in.symbols[value]; ok {
		return addr, nil
	}
	sym := &Symbol{Value: value}
	addr, err := in.heap.TryAllocate(sym.PayloadSize(), sym)
	if err != nil {
		return heap.Unallocated, err
	}
	in.symbols[value] = addr
	return addr, nil
}

// VisitRoots exposes every interned Symbol as a GC root, so the Runtime
// embedding an Interner can fold it into its own RootProvider walk; without
// this the collector would be free to reclaim symbols nothing else is
// currently holding a reference to, and the interner's cached Addresses
// would go stale the moment a collection moved them.
func (in *Interner) VisitRoots(visit func(*heap.Address) bool) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	for k, addr := range in.symbols {
		a := addr
		if !visit(&a) {
			return false
		}
		in.symbols[k] = a
	}
	return true
}
