package heap

// Address is a logical heap address: a byte offset into either the young
// zone's backing region or, with the top bit set, the old zone's. It plays
// the role of gel::Pointer's GetStartingAddress() in
// original_source/Sources/gel/pointer.h, except it never aliases a live Go
// pointer — every reference between heap-resident values is stored as an
// Address and resolved back through a Heap, which is what lets the
// collector relocate young-zone values without chasing raw pointers.
type Address uint64

// Unallocated is the sentinel for "no object" (gel's UNALLOCATED), used for
// empty optional slots and as FreePointer's list terminator.
const Unallocated Address = ^Address(0)

const oldZoneBit Address = 1 << 63

// IsUnallocated reports whether a holds no object.
func (a Address) IsUnallocated() bool { return a == Unallocated }

// IsOld reports whether a names an old-zone object.
func (a Address) IsOld() bool { return a != Unallocated && a&oldZoneBit != 0 }

func oldAddress(offset uint64) Address { return Address(offset) | oldZoneBit }

func youngAddress(offset uint64) Address { return Address(offset) }

func (a Address) offset() uint64 { return uint64(a &^ oldZoneBit) }
