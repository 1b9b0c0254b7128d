// Package module implements gel's Module/Namespace registries: the root
// set spec.md §4.3 calls "all registered Module pointers", given a real
// shape here. Grounded on gel::Module
// (original_source/Sources/gel/module.h) and gel::Namespace
// (original_source/Sources/gel/namespace.h).
package module

import (
	"fmt"
	"sync"

	"github.com/s0cks/gel/internal/heap"
	"github.com/s0cks/gel/internal/local"
	"golang.org/x/mod/semver"
)

// Module owns a root LocalScope binding its top-level definitions and an
// optional semantic version tag. Modules are GC roots: every Address
// reachable through a registered Module's scope must survive collection.
type Module struct {
	Name    string
	Version string // semver.IsValid format ("vMAJOR.MINOR.PATCH"), or ""
	Scope   *local.Scope
}

// VisitPointers reports m's scope as GC roots.
func (m *Module) VisitPointers(visit func(*heap.Address) bool) bool {
	return m.Scope.VisitPointers(visit)
}

// Registry is the process-wide table of loaded Modules, keyed by name.
// Grounded on gel::ModuleLoader's module cache
// (original_source/Sources/gel/module_loader.h).
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*Module
}

// NewRegistry returns an empty module Registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]*Module)}
}

// Register adds module m, unless a module of the same name is already
// registered with a version greater than or equal to m's (mirroring
// cmd/go/internal/mvs's "never downgrade" rule via semver.Compare). A
// same-name registration is also refused when either module has no
// version, or when m's version is not valid semver.
func (r *Registry) Register(m *Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.modules[m.Name]; ok {
		if m.Version == "" || existing.Version == "" {
			return fmt.Errorf("module: %q is already registered", m.Name)
		}
		if !semver.IsValid(m.Version) {
			return fmt.Errorf("module: %q: invalid semantic version %q", m.Name, m.Version)
		}
		if semver.Compare(m.Version, existing.Version) <= 0 {
			return fmt.Errorf("module: %q: refusing to register version %s over existing %s", m.Name, m.Version, existing.Version)
		}
	}
	r.modules[m.Name] = m
	return nil
}

// Lookup finds a registered Module by name.
func (r *Registry) Lookup(name string) (*Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[name]
	return m, ok
}

// VisitPointers reports every registered Module's scope as GC roots, the
// way gel::Heap::VisitModules walks the loader's module table during a
// collection.
func (r *Registry) VisitPointers(visit func(*heap.Address) bool) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.modules {
		if !m.VisitPointers(visit) {
			return false
		}
	}
	return true
}
