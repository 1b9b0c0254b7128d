// Package runtime ties the whole engine together behind the three entry
// points spec.md §6 names: Exec, Eval, Call. Grounded on gel::Runtime
// (original_source/Sources/gel/runtime.h, runtime.cc), which is the same
// seam: one object owning the heap, the class/native registries, the
// module table and the interpreter, implementing both directions of the
// GC contract (RootProvider towards internal/heap, Host towards
// internal/interp).
package runtime

import (
	"fmt"
	"sync"

	"github.com/s0cks/gel/internal/config"
	"github.com/s0cks/gel/internal/gelutil"
	"github.com/s0cks/gel/internal/heap"
	"github.com/s0cks/gel/internal/interp"
	"github.com/s0cks/gel/internal/local"
	"github.com/s0cks/gel/internal/module"
	"github.com/s0cks/gel/internal/native"
	"github.com/s0cks/gel/internal/object"
	"github.com/s0cks/gel/internal/script"
)

// Runtime is the single object a cmd/gel-style driver needs: construct
// one, register Lambdas/natives/modules against it, then call Exec/Eval.
type Runtime struct {
	heap     *heap.Heap
	registry *object.Registry
	modules  *module.Registry
	interner *object.Interner
	bridge   *native.Bridge
	interp   *interp.Interpreter

	mu           sync.RWMutex
	lambdas      map[int]*object.Lambda
	nextLambdaID int
	globalScope  *local.Scope
}

// New builds a Runtime from cfg, with the heap, class registry, module
// registry, native bridge and interpreter all wired to each other before
// returning — the same "construct then SetRoots" two-step as
// internal/heap's own tests, but done once here for every caller.
func New(cfg config.Config) (*Runtime, error) {
	h, err := heap.NewHeap(heap.Config{
		Semisize:             uint64(cfg.NewZoneSemisize),
		OldZoneSize:          uint64(cfg.OldZoneSize),
		LargeObjectThreshold: uint32(cfg.LargeObjectThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("runtime: %w", err)
	}
	registry := object.NewRegistry()
	r := &Runtime{
		heap:        h,
		registry:    registry,
		modules:     module.NewRegistry(),
		interner:    object.NewInterner(h),
		bridge:      native.NewBridge(registry),
		lambdas:     make(map[int]*object.Lambda),
		globalScope: local.NewScope(nil),
	}
	r.interp = interp.New(r)
	h.SetRoots(r)
	return r, nil
}

// Heap, Registry, LambdaByID, LoadGlobal and StoreGlobal implement
// interp.Host.
func (r *Runtime) Heap() *heap.Heap           { return r.heap }
func (r *Runtime) Registry() *object.Registry { return r.registry }

func (r *Runtime) LambdaByID(id int) (*object.Lambda, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.lambdas[id]
	return l, ok
}

func (r *Runtime) LoadGlobal(name string) (heap.Address, bool) {
	v, ok := r.globalScope.Lookup(name)
	if !ok {
		return heap.Unallocated, false
	}
	return v.Value, true
}

func (r *Runtime) StoreGlobal(name string, addr heap.Address) {
	if v, ok := r.globalScope.Lookup(name); ok {
		v.Value = addr
		return
	}
	// The global scope never redeclares within itself, so Add only fails
	// when name somehow raced another StoreGlobal; either caller wins.
	_, _ = r.globalScope.Add(name, addr)
}

// VisitRoots implements heap.RootProvider, folding together every
// subsystem that can hold an Address the collector must not reclaim:
// the interpreter's operand stack and frames, the interned symbol table,
// the module registry, and the top-level global scope.
func (r *Runtime) VisitRoots(visit func(*heap.Address) bool) bool {
	if !r.interp.VisitRoots(visit) {
		return false
	}
	if !r.interner.VisitRoots(visit) {
		return false
	}
	if !r.modules.VisitPointers(visit) {
		return false
	}
	return r.globalScope.VisitPointers(visit)
}

// Bridge exposes the native-procedure bridge so callers (fsnative.Register
// and similar packages) can wire additional natives before running code.
func (r *Runtime) Bridge() *native.Bridge { return r.bridge }

// Modules exposes the module registry for callers registering Modules
// ahead of execution.
func (r *Runtime) Modules() *module.Registry { return r.modules }

// Interner exposes the symbol interner.
func (r *Runtime) Interner() *object.Interner { return r.interner }

// DefineLambda registers l and assigns it a fresh registry ID, the form
// bytecode's invoke operand carries.
func (r *Runtime) DefineLambda(l *object.Lambda) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextLambdaID
	r.nextLambdaID++
	l.ID = id
	r.lambdas[id] = l
	return id
}

// Exec assembles and runs a textual assembly program (internal/script's
// stand-in for the omitted Lisp front end), discarding its result —
// spec.md §6's Exec contract, used for top-level side-effecting scripts.
func (r *Runtime) Exec(source []byte) error {
	_, err := r.Eval(source)
	return err
}

// Eval assembles and runs source, returning the Address left on the
// operand stack by its trailing ret.
func (r *Runtime) Eval(source []byte) (heap.Address, error) {
	prog, err := script.ParseAssemblyProgram(source)
	if err != nil {
		return heap.Unallocated, err
	}
	result, err := r.interp.Run(prog.Code, prog.Constants, local.NewScope(r.globalScope))
	if err != nil {
		gelutil.Runtime.Printf("eval failed: %v", err)
		return heap.Unallocated, err
	}
	return result, nil
}

// Call invokes a previously registered Lambda by ID with args already
// resolved to heap Addresses, the entry point spec.md §6 names for
// native code calling back into gel (e.g. a reactive Subject's callback).
func (r *Runtime) Call(lambdaID int, args []heap.Address) (heap.Address, error) {
	lambda, ok := r.LambdaByID(lambdaID)
	if !ok {
		return heap.Unallocated, fmt.Errorf("runtime: no Lambda registered for ID %d", lambdaID)
	}
	bound, err := object.BindArguments(r.heap, lambda.Args, args)
	if err != nil {
		return heap.Unallocated, fmt.Errorf("runtime: calling %s: %w", lambda.Name, err)
	}
	scope := local.NewScope(r.globalScope)
	for i, desc := range lambda.Args {
		if _, err := scope.Add(desc.Name, bound[i]); err != nil {
			return heap.Unallocated, err
		}
	}
	return r.interp.Run(lambda.Code, lambda.Constants, scope)
}

// Close releases the Runtime's heap regions.
func (r *Runtime) Close() error { return r.heap.Close() }
