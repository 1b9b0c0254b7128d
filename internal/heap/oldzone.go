package heap

// OldZone holds objects too large to keep copying through the young
// semispace: anything >=4KiB (see Heap.TryAllocate) goes straight here, and
// nothing else is moved into it. gel's original old-zone collector is documented as
// unimplemented (NOT_IMPLEMENTED(FATAL) in
// original_source/Sources/gel/old_zone.cc); SPEC_FULL.md's Open Question
// resolves that by giving the old zone a real free list instead of leaving
// it a pure bump allocator, so at least same-generation fragmentation can
// be reused, while still never attempting to collect and compact it.
type OldZone struct {
	list     *FreeList
	payloads map[Address]Object
}

// NewOldZone reserves size bytes for old-generation allocation.
func NewOldZone(size uint64) (*OldZone, error) {
	list, err := NewFreeList(size)
	if err != nil {
		return nil, err
	}
	return &OldZone{list: list, payloads: make(map[Address]Object)}, nil
}

// Contains reports whether addr was allocated in this zone.
func (z *OldZone) Contains(addr Address) bool { return addr.IsOld() }

// TryAllocate asks the free list for size bytes and records obj under the
// returned Address. Returns Unallocated if nothing fits; the old zone is
// never compacted to make room, so the Heap treats this as fatal.
func (z *OldZone) TryAllocate(size uint32, obj Object) Address {
	addr := z.list.Allocate(size)
	if addr.IsUnallocated() {
		return Unallocated
	}
	z.payloads[addr] = obj
	return addr
}

// PayloadAt returns the Go value stored for addr.
func (z *OldZone) PayloadAt(addr Address) (Object, bool) {
	obj, ok := z.payloads[addr]
	return obj, ok
}

// HeaderAt reads the Header preceding the payload at addr.
func (z *OldZone) HeaderAt(addr Address) Header {
	return readHeader(z.list.region.Bytes(), z.list.nodeOffset(addr))
}

// Free releases addr back to the free list and drops its payload entry.
func (z *OldZone) Free(addr Address) {
	h := z.HeaderAt(addr)
	z.list.Free(addr, h.Tag.Size())
	delete(z.payloads, addr)
}

// Close releases the old zone's backing region.
func (z *OldZone) Close() error { return z.list.Close() }
