package vm

import "encoding/binary"

// Buffer is the growable byte stream an Assembler emits into, grounded on
// gel::AssemblerBuffer (original_source/Sources/gel/assembler_vm.h).
type Buffer struct {
	bytes []byte
}

// Len returns the number of bytes emitted so far.
func (b *Buffer) Len() int { return len(b.bytes) }

// Bytes returns the assembled stream. The caller must not retain it across
// further Emit calls without copying, since growth may reallocate.
func (b *Buffer) Bytes() []byte { return b.bytes }

func (b *Buffer) emit8(v uint8)  { b.bytes = append(b.bytes, v) }
func (b *Buffer) emit16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	b.bytes = append(b.bytes, tmp[:]...)
}
func (b *Buffer) emit32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.bytes = append(b.bytes, tmp[:]...)
}
func (b *Buffer) emit64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.bytes = append(b.bytes, tmp[:]...)
}

func (b *Buffer) loadInt32At(pos int) int32 {
	return int32(binary.LittleEndian.Uint32(b.bytes[pos : pos+4]))
}

func (b *Buffer) storeInt32At(pos int, v int32) {
	binary.LittleEndian.PutUint32(b.bytes[pos:pos+4], uint32(v))
}
