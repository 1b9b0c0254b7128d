package local

import (
	"fmt"

	"github.com/s0cks/gel/internal/heap"
)

// Scope is a chain-linked lexical environment: a Lambda call allocates one
// Scope per activation (the interpreter parents it to nil, Runtime.Call to
// the global scope). Grounded on gel::LocalScope (original_source/Sources/
// gel/local_scope.cc), including its refusal to shadow a name already
// defined in the SAME scope (shadowing an outer scope's name is fine).
type Scope struct {
	parent *Scope
	vars   []*Variable
	byName map[string]int
}

// NewScope creates a Scope parented to parent (nil for the top level).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, byName: make(map[string]int)}
}

// Parent returns the enclosing Scope, or nil at the top level.
func (s *Scope) Parent() *Scope { return s.parent }

// Add declares a new Variable named name in this scope and returns its
// index, used directly by the bytecode's short-form lload/lstore opcodes
// for index<=3. Redeclaring a name already present in THIS scope is an
// error; redeclaring a name from an ancestor scope shadows it.
func (s *Scope) Add(name string, value heap.Address) (int, error) {
	if _, exists := s.byName[name]; exists {
		return -1, fmt.Errorf("local: %q is already defined in this scope", name)
	}
	idx := len(s.vars)
	s.vars = append(s.vars, &Variable{Name: name, Value: value})
	s.byName[name] = idx
	return idx, nil
}

// Has reports whether name is bound in this scope or any ancestor.
func (s *Scope) Has(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Lookup walks from this scope outward through its ancestors looking for
// name, returning the nearest (most deeply nested) binding.
func (s *Scope) Lookup(name string) (*Variable, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if idx, ok := cur.byName[name]; ok {
			return cur.vars[idx], true
		}
	}
	return nil, false
}

// LocalAt returns the index'th Variable declared directly in this scope
// (not ancestors), the access path the VM's index-addressed load/store
// opcodes use.
func (s *Scope) LocalAt(index int) (*Variable, bool) {
	if index < 0 || index >= len(s.vars) {
		return nil, false
	}
	return s.vars[index], true
}

// Size returns the number of Variables declared directly in this scope.
func (s *Scope) Size() int { return len(s.vars) }

// VisitPointers reports every Variable's value declared directly in this
// scope as a GC root. It does not walk to the parent scope — the
// interpreter visits every Scope on its frame stack independently.
func (s *Scope) VisitPointers(visit func(*heap.Address) bool) bool {
	for _, v := range s.vars {
		if !v.VisitPointers(visit) {
			return false
		}
	}
	return true
}
