package heap

import (
	"fmt"

	"github.com/s0cks/gel/internal/tag"
)

// NewZone is the young generation: a semispace pair living inside a single
// Region, mirroring gel::NewZone in original_source/Sources/gel/zone.h.
// Allocation is bump-pointer into whichever half is currently "fromspace";
// the other half is "tospace" and, between collections, mprotect'd to
// ProtNone so nothing can observe or corrupt stale copies left over from the
// previous collection.
type NewZone struct {
	region   *Region
	semisize uint64
	// fromOffset/toOffset are byte offsets of fromspace/tospace within
	// region.Bytes(); swapping a collection just swaps these two values.
	fromOffset uint64
	toOffset   uint64
	// current is the bump pointer, a byte offset within fromspace (relative
	// to region start, i.e. fromOffset <= current <= fromOffset+semisize).
	current uint64

	payloads map[Address]Object
}

// NewNewZone reserves a region of 2*semisize bytes and starts allocation at
// the low half.
func NewNewZone(semisize uint64) (*NewZone, error) {
	region, err := NewRegion(int(2 * semisize))
	if err != nil {
		return nil, err
	}
	z := &NewZone{
		region:     region,
		semisize:   semisize,
		fromOffset: 0,
		toOffset:   semisize,
		payloads:   make(map[Address]Object),
	}
	z.current = z.fromOffset
	if err := z.protectTospace(); err != nil {
		return nil, err
	}
	return z, nil
}

func (z *NewZone) protectTospace() error {
	// mprotect wants page-aligned boundaries; toOffset falls on one only
	// when semisize is a multiple of the OS page size. NewHeap does not
	// check this, so a misaligned semisize makes Protect return an error.
	sub := &Region{mem: z.region.Bytes()[z.toOffset : z.toOffset+z.semisize]}
	return sub.Protect(ProtNone)
}

func (z *NewZone) unprotectFromspace() error {
	sub := &Region{mem: z.region.Bytes()[z.fromOffset : z.fromOffset+z.semisize]}
	return sub.Protect(ProtReadWrite)
}

// Semisize returns the size in bytes of a single semispace half.
func (z *NewZone) Semisize() uint64 { return z.semisize }

// FromspaceStart returns the Address at the base of the active semispace.
func (z *NewZone) FromspaceStart() Address { return youngAddress(z.fromOffset) }

// FromspaceEnd returns the Address one past the active semispace.
func (z *NewZone) FromspaceEnd() Address { return youngAddress(z.fromOffset + z.semisize) }

// Current returns the bump pointer's current Address.
func (z *NewZone) Current() Address { return youngAddress(z.current) }

// Contains reports whether addr falls within the currently active fromspace.
func (z *NewZone) Contains(addr Address) bool {
	if addr.IsOld() || addr.IsUnallocated() {
		return false
	}
	off := addr.offset()
	return off >= z.fromOffset && off < z.fromOffset+z.semisize
}

// bumpAllocate reserves HeaderSize+size bytes from fromspace and writes a
// fresh young Header, without touching the payload table. It is shared by
// TryAllocate (mutator allocation) and the collector's copy step, which
// manages payload bookkeeping itself so dead entries don't linger forever.
func (z *NewZone) bumpAllocate(size uint32) (Address, bool) {
	total := uint64(HeaderSize) + uint64(size)
	if z.current+total > z.fromOffset+z.semisize {
		return Unallocated, false
	}
	offset := z.current
	writeHeader(z.region.Bytes(), offset, Header{Tag: tag.New(size), Forwarding: Unallocated})
	z.current += total
	return youngAddress(offset + HeaderSize), true
}

// TryAllocate bump-allocates HeaderSize+size bytes from fromspace, writes a
// fresh young Header and records obj in the payload table. It returns
// Unallocated when fromspace is exhausted; the Heap is responsible for
// triggering a collection and retrying.
func (z *NewZone) TryAllocate(size uint32, obj Object) (Address, error) {
	addr, ok := z.bumpAllocate(size)
	if !ok {
		return Unallocated, nil
	}
	z.payloads[addr] = obj
	return addr, nil
}

// NewPayloadTable allocates an empty payload table for the collector to
// populate as it copies survivors, to be installed via ReplacePayloads once
// a collection completes.
func (z *NewZone) NewPayloadTable() map[Address]Object { return make(map[Address]Object) }

// ReplacePayloads installs m as the zone's payload table, discarding
// whatever the previous table held (the dead generation left in tospace).
func (z *NewZone) ReplacePayloads(m map[Address]Object) { z.payloads = m }

// CopyObject relocates the still-condemned object at oldAddr (physically
// resident wherever it was written before the collection's SwapSpaces)
// into the new fromspace and records its payload under fresh. The caller
// (Collector) is responsible for writing the forwarding Header at oldAddr
// exactly once per object.
func (z *NewZone) CopyObject(oldAddr Address, fresh map[Address]Object) Address {
	h := z.HeaderAt(oldAddr)
	newAddr, ok := z.bumpAllocate(h.Tag.Size())
	if !ok {
		panic("heap: live set copied out of tospace exceeds fromspace capacity")
	}
	obj, _ := z.PayloadAt(oldAddr)
	fresh[newAddr] = obj
	return newAddr
}

// MarkForwarded stamps oldAddr's Header with the forwarding Address newAddr
// and sets the tag's marked bit, so any later reference to oldAddr is
// recognized as already-copied (Collector.CopyPointer's fast path).
func (z *NewZone) MarkForwarded(oldAddr, newAddr Address) {
	h := z.HeaderAt(oldAddr)
	h.Tag.SetMarkedBit(true)
	h.Forwarding = newAddr
	z.setHeaderAt(oldAddr, h)
}

// HeaderAt reads the Header preceding the payload at addr.
func (z *NewZone) HeaderAt(addr Address) Header {
	return readHeader(z.region.Bytes(), addr.offset()-HeaderSize)
}

func (z *NewZone) setHeaderAt(addr Address, h Header) {
	writeHeader(z.region.Bytes(), addr.offset()-HeaderSize, h)
}

// PayloadAt returns the Go value previously stored for addr.
func (z *NewZone) PayloadAt(addr Address) (Object, bool) {
	obj, ok := z.payloads[addr]
	return obj, ok
}

// SwapSpaces exchanges fromspace and tospace, flips their protections and
// resets the bump pointer to the (new) fromspace start. Called once at the
// top of every collection, exactly as Collector::Collect swaps
// heap().new_zone() in original_source/Sources/gel/collector.cc.
func (z *NewZone) SwapSpaces() error {
	z.fromOffset, z.toOffset = z.toOffset, z.fromOffset
	z.current = z.fromOffset
	if err := z.unprotectFromspace(); err != nil {
		return fmt.Errorf("heap: unprotect new fromspace: %w", err)
	}
	// The space that is now tospace (the pre-swap fromspace) holds the
	// condemned generation the collector is about to scan through roots;
	// it must stay readable during the collection and is only locked back
	// down once the collection finishes (Collector.Collect ends by calling
	// ProtectTospace).
	return nil
}

// ProtectTospace re-applies ProtNone to the now-condemned tospace once a
// collection has finished copying everything reachable out of it.
func (z *NewZone) ProtectTospace() error {
	return z.protectTospace()
}

// Close releases the zone's backing region.
func (z *NewZone) Close() error { return z.region.Close() }
