// Package tag implements the 64-bit object header described in
// SPEC_FULL.md §4.1 (data model §3): a packed bitfield recording an
// object's logical size, its generation (new/old), the collector's
// mark/remembered bits, and a reference-count slot reserved for future
// use. It precedes every value allocated through internal/heap, mirroring
// gel::Tag in original_source/Sources/gel/tag.h.
package tag

// Raw is the wire representation of a Tag: a single machine word.
type Raw = uint64

const (
	referencesBits = 16
	referencesMask = 1<<referencesBits - 1

	newBitOffset       = referencesBits
	oldBitOffset       = newBitOffset + 1
	markedBitOffset    = oldBitOffset + 1
	rememberedBitOffset = markedBitOffset + 1
	sizeOffset         = rememberedBitOffset + 1
	sizeBits           = 32
	sizeMask           = 1<<sizeBits - 1
)

// Invalid is the zero value of Tag: no bits set, size zero.
const Invalid Raw = 0

// Tag is a packed header. The layout (low to high bit) is:
// references(16) | new(1) | old(1) | marked(1) | remembered(1) | size(32).
type Tag struct {
	raw Raw
}

// New builds a Tag for an object entering the young generation.
func New(size uint32) Tag {
	var t Tag
	t.SetNewBit(true)
	t.SetSize(size)
	return t
}

// Old builds a Tag for an object allocated directly into the old zone.
func Old(size uint32) Tag {
	var t Tag
	t.SetOldBit(true)
	t.SetSize(size)
	return t
}

// FromRaw reinterprets a raw word as a Tag, e.g. when reading a header
// back out of a relocated slot.
func FromRaw(raw Raw) Tag { return Tag{raw: raw} }

// Raw returns the packed word.
func (t Tag) Raw() Raw { return t.raw }

// IsInvalid reports whether no bits are set at all.
func (t Tag) IsInvalid() bool { return t.raw == Invalid }

func (t Tag) bit(offset uint) bool { return (t.raw>>offset)&1 != 0 }

func (t *Tag) setBit(offset uint, v bool) {
	if v {
		t.raw |= 1 << offset
	} else {
		t.raw &^= 1 << offset
	}
}

// NumberOfReferences returns the reserved reference-count field.
// Not consulted by the collector; kept for parity with the original
// header layout (see SPEC_FULL.md's data-model note) and for any
// future refcount-assisted optimization.
func (t Tag) NumberOfReferences() uint16 { return uint16(t.raw & referencesMask) }

func (t *Tag) SetNumberOfReferences(n uint16) {
	t.raw = (t.raw &^ referencesMask) | Raw(n)
}

func (t Tag) IsNew() bool { return t.bit(newBitOffset) }
func (t *Tag) SetNewBit(v bool) { t.setBit(newBitOffset, v) }
func (t *Tag) ClearNewBit() { t.SetNewBit(false) }

func (t Tag) IsOld() bool { return t.bit(oldBitOffset) }
func (t *Tag) SetOldBit(v bool) { t.setBit(oldBitOffset, v) }
func (t *Tag) ClearOldBit() { t.SetOldBit(false) }

func (t Tag) IsMarked() bool { return t.bit(markedBitOffset) }
func (t *Tag) SetMarkedBit(v bool) { t.setBit(markedBitOffset, v) }
func (t *Tag) ClearMarkedBit() { t.SetMarkedBit(false) }

func (t Tag) IsRemembered() bool { return t.bit(rememberedBitOffset) }
func (t *Tag) SetRememberedBit(v bool) { t.setBit(rememberedBitOffset, v) }
func (t *Tag) ClearRememberedBit() { t.SetRememberedBit(false) }

func (t Tag) Size() uint32 { return uint32((t.raw >> sizeOffset) & sizeMask) }

func (t *Tag) SetSize(size uint32) {
	t.raw = (t.raw &^ (Raw(sizeMask) << sizeOffset)) | (Raw(size) << sizeOffset)
}
