package heap

import (
	"sort"

	"github.com/s0cks/gel/internal/tag"
)

// freeNode is the header written into a free chunk's first HeaderSize
// bytes while it sits on the free list: the chunk's size (reused from the
// Tag that every allocated object also carries) and the Address of the
// next free chunk, terminated by Unallocated. This is the Go counterpart
// of gel::FreePointer in original_source/Sources/gel/free_list.h.
type freeNode struct {
	size uint32
	next Address
}

// FreeList is a best-fit free list over an old-zone Region. Chunks are not
// kept in address order. Large (>=4KiB) objects are allocated here directly
// by Heap.TryAllocate; nothing is promoted from the young zone. See
// SPEC_FULL.md's Open Question resolution on the old zone.
type FreeList struct {
	region *Region
	base   uint64
	size   uint64
	head   Address
}

// NewFreeList carves size bytes out of a fresh Region and seeds the list
// with a single free chunk spanning the whole thing.
func NewFreeList(size uint64) (*FreeList, error) {
	region, err := NewRegion(int(size))
	if err != nil {
		return nil, err
	}
	fl := &FreeList{region: region, base: 0, size: size}
	root := oldAddress(HeaderSize)
	fl.writeNode(root, freeNode{size: uint32(size - HeaderSize), next: Unallocated})
	fl.head = root
	return fl, nil
}

func (fl *FreeList) nodeOffset(addr Address) uint64 { return addr.offset() - HeaderSize }

func (fl *FreeList) writeNode(addr Address, n freeNode) {
	off := fl.nodeOffset(addr)
	t := tag.Old(n.size)
	writeHeader(fl.region.Bytes(), off, Header{Tag: t, Forwarding: n.next})
}

func (fl *FreeList) readNode(addr Address) freeNode {
	off := fl.nodeOffset(addr)
	h := readHeader(fl.region.Bytes(), off)
	return freeNode{size: h.Tag.Size(), next: h.Forwarding}
}

// Allocate finds the smallest free chunk that fits size bytes of payload
// (best fit), splitting off any remainder big enough to host another
// HeaderSize-prefixed chunk. It returns Unallocated when nothing fits.
func (fl *FreeList) Allocate(size uint32) Address {
	need := uint64(size)

	var bestPrev, best Address = Unallocated, Unallocated
	var bestSize uint32
	prev := Address(Unallocated)
	cur := fl.head
	for !cur.IsUnallocated() {
		n := fl.readNode(cur)
		if uint64(n.size) >= need && (best.IsUnallocated() || n.size < bestSize) {
			best, bestPrev, bestSize = cur, prev, n.size
		}
		prev = cur
		cur = n.next
	}
	if best.IsUnallocated() {
		return Unallocated
	}

	bestNode := fl.readNode(best)
	fl.unlink(bestPrev, best, bestNode.next)

	const minSplit = HeaderSize + 8
	remainder := uint64(bestNode.size) - need
	if remainder >= minSplit {
		splitOff := fl.nodeOffset(best) + HeaderSize + need
		splitAddr := oldAddress(splitOff + HeaderSize)
		fl.writeNode(splitAddr, freeNode{size: uint32(remainder - HeaderSize), next: fl.head})
		fl.head = splitAddr
		fl.writeObjectHeader(best, uint32(need))
	} else {
		fl.writeObjectHeader(best, bestNode.size)
	}
	return best
}

func (fl *FreeList) writeObjectHeader(addr Address, size uint32) {
	off := fl.nodeOffset(addr)
	writeHeader(fl.region.Bytes(), off, Header{Tag: tag.Old(size), Forwarding: Unallocated})
}

func (fl *FreeList) unlink(prev, node, next Address) {
	if prev.IsUnallocated() {
		fl.head = next
		return
	}
	n := fl.readNode(prev)
	n.next = next
	fl.writeNode(prev, n)
}

// Free returns addr's chunk to the list and coalesces it with any
// immediately-adjacent free chunks, keeping fragmentation down the way
// gel::FreeList::Free is documented to in free_list.h.
func (fl *FreeList) Free(addr Address, size uint32) {
	type span struct {
		start, end uint64 // byte offsets of the chunk's header..end, inclusive of HeaderSize
	}
	spans := []span{{start: fl.nodeOffset(addr), end: fl.nodeOffset(addr) + HeaderSize + uint64(size)}}

	cur := fl.head
	var kept []Address
	for !cur.IsUnallocated() {
		n := fl.readNode(cur)
		s := span{start: fl.nodeOffset(cur), end: fl.nodeOffset(cur) + HeaderSize + uint64(n.size)}
		if s.start == spans[0].end || s.end == spans[0].start {
			spans = append(spans, s)
		} else {
			kept = append(kept, cur)
		}
		cur = n.next
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	merged := spans[0]
	for _, s := range spans[1:] {
		if s.start < merged.start {
			merged.start = s.start
		}
		if s.end > merged.end {
			merged.end = s.end
		}
	}

	mergedAddr := oldAddress(merged.start + HeaderSize)
	mergedSize := uint32(merged.end - merged.start - HeaderSize)

	fl.head = Unallocated
	for _, k := range kept {
		n := fl.readNode(k)
		fl.writeNode(k, freeNode{size: n.size, next: fl.head})
		fl.head = k
	}
	fl.writeNode(mergedAddr, freeNode{size: mergedSize, next: fl.head})
	fl.head = mergedAddr
}

// Close releases the free list's backing region.
func (fl *FreeList) Close() error { return fl.region.Close() }
