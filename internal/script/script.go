// Package script implements gel's source-loading layer: scripts are
// mapped into memory rather than read into a []byte, mirroring the
// pack's saferwall-pe repo mapping PE files with mmap.Map instead of
// os.ReadFile. The lexer/parser/flow-graph builder are out of scope
// (spec.md §1's "external collaborators"); ParseAssemblyProgram stands in
// for them with a small textual form that assembles directly to
// internal/vm bytecode, documented in SPEC_FULL.md §6 as a stand-in, not
// a reimplementation of the omitted Lisp front end.
package script

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// Source is a memory-mapped script file. Close must be called once the
// script's bytes are no longer needed.
type Source struct {
	file *os.File
	mmap mmap.MMap
}

// Open maps path read-only into memory.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("script: open %s: %w", path, err)
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("script: mmap %s: %w", path, err)
	}
	return &Source{file: f, mmap: m}, nil
}

// Bytes returns the script's mapped content. The returned slice is only
// valid until Close.
func (s *Source) Bytes() []byte { return s.mmap }

// Close unmaps the script and closes its backing file.
func (s *Source) Close() error {
	err1 := s.mmap.Unmap()
	err2 := s.file.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
