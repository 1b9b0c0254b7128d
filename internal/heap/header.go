package heap

import (
	"encoding/binary"

	"github.com/s0cks/gel/internal/tag"
)

// HeaderSize is the on-disk size, in bytes, of a Header: one packed Tag word
// followed by one forwarding Address word. It is the Go-heap analogue of
// gel::Pointer's raw layout in original_source/Sources/gel/pointer.h, kept
// genuinely resident in mmap'd memory (see Region) so that a zone's bump
// pointer, capacity checks and forwarding-address rewrites all operate on
// real bytes rather than on Go struct fields the OS knows nothing about.
const HeaderSize = 16

// Header is the fixed-size preamble written immediately before every
// object's payload. The payload itself (the Go value implementing Object)
// is not serialized into the region; it is tracked by the owning Zone's
// payload table and relocated in lockstep whenever its Header moves. This
// keeps Cheney's invariants (size accounting, forwarding, mark/remembered
// bits) honest against real memory while avoiding a bespoke byte encoding
// for every one of gel's value types.
type Header struct {
	Tag        tag.Tag
	Forwarding Address
}

func readHeader(mem []byte, offset uint64) Header {
	raw := binary.LittleEndian.Uint64(mem[offset:])
	fwd := binary.LittleEndian.Uint64(mem[offset+8:])
	return Header{Tag: tag.FromRaw(raw), Forwarding: Address(fwd)}
}

func writeHeader(mem []byte, offset uint64, h Header) {
	binary.LittleEndian.PutUint64(mem[offset:], h.Tag.Raw())
	binary.LittleEndian.PutUint64(mem[offset+8:], uint64(h.Forwarding))
}
