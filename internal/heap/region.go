package heap

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Protection mirrors gel::MemoryRegion::Protection
// (original_source/Sources/gel/memory_region.h): the access rights the OS
// enforces on a mapped region between collections.
type Protection int

const (
	ProtNone Protection = iota
	ProtRead
	ProtReadWrite
)

func (p Protection) native() int {
	switch p {
	case ProtNone:
		return unix.PROT_NONE
	case ProtRead:
		return unix.PROT_READ
	case ProtReadWrite:
		return unix.PROT_READ | unix.PROT_WRITE
	default:
		return unix.PROT_NONE
	}
}

// Region is an anonymous, page-backed memory mapping obtained straight from
// the OS rather than a Go slice grown by the garbage collector. Using a real
// mmap region means the inactive half of a semispace can be mprotect'd to
// ProtNone between collections, turning "nothing may write into tospace
// outside of a collection" (SPEC_FULL.md §3 Zones) into an OS-enforced
// invariant instead of a convention.
type Region struct {
	mem []byte
}

// NewRegion reserves size bytes, rounded up by the kernel to a page
// boundary, as a single anonymous read-write mapping.
func NewRegion(size int) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("heap: region size must be positive, got %d", size)
	}
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("heap: mmap %d bytes: %w", size, err)
	}
	return &Region{mem: mem}, nil
}

// Size returns the mapped length in bytes.
func (r *Region) Size() int { return len(r.mem) }

// Bytes exposes the mapping directly; callers are expected to stay within
// whatever sub-range Protect currently allows.
func (r *Region) Bytes() []byte { return r.mem }

// Protect changes the access rights of the whole mapping.
func (r *Region) Protect(p Protection) error {
	if err := unix.Mprotect(r.mem, p.native()); err != nil {
		return fmt.Errorf("heap: mprotect %v: %w", p, err)
	}
	return nil
}

// Close releases the mapping back to the OS.
func (r *Region) Close() error {
	if r.mem == nil {
		return nil
	}
	err := unix.Munmap(r.mem)
	r.mem = nil
	return err
}
