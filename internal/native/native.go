// Package native implements the bridge between gel's bytecode VM and
// ordinary Go functions: the "Define" half of the NativeProcedure bridge
// whose calling convention lives in internal/object (ArgumentDescriptor,
// NativeFunc) and whose dispatch lives in internal/interp
// (Interpreter.invokeNative). Grounded on gel::NativeProcedure
// (original_source/Sources/gel/native_procedure.h).
package native

import (
	"fmt"

	"github.com/s0cks/gel/internal/heap"
	"github.com/s0cks/gel/internal/object"
)

// Bridge registers Go-backed procedures against a Registry and resolves
// them back by name for the compiler (which must turn a native call's
// symbol into the registry ID the Invoke*/InvokeNative opcode's operand
// actually carries).
type Bridge struct {
	registry *object.Registry
	byName   map[string]*object.NativeProcedure
}

// NewBridge builds an empty Bridge over registry.
func NewBridge(registry *object.Registry) *Bridge {
	return &Bridge{registry: registry, byName: make(map[string]*object.NativeProcedure)}
}

// Define registers a new native procedure named name with the given
// argument shape, returning its registry ID.
func (b *Bridge) Define(name string, args []object.ArgumentDescriptor, fn object.NativeFunc) (int, error) {
	if _, exists := b.byName[name]; exists {
		return -1, fmt.Errorf("native: %q is already defined", name)
	}
	proc := &object.NativeProcedure{Name: name, Args: args, Fn: fn}
	id := b.registry.RegisterNative(proc)
	b.byName[name] = proc
	return id, nil
}

// Lookup resolves a native procedure by name, e.g. for the compiler
// turning a call site's symbol into a registry ID.
func (b *Bridge) Lookup(name string) (*object.NativeProcedure, bool) {
	p, ok := b.byName[name]
	return p, ok
}

// simpleArg is a shorthand for a single required positional argument.
func simpleArg(index int, name string) object.ArgumentDescriptor {
	return object.ArgumentDescriptor{Index: index, Name: name}
}

// RegisterArithmeticHelpers wires a handful of natives useful in tests and
// REPL sessions that have no dedicated opcode (unlike add/sub, which the
// compiler lowers directly): min, max and abs over Long values.
func RegisterArithmeticHelpers(b *Bridge) error {
	helpers := []struct {
		name string
		fn   func(a, c int64) int64
	}{
		{"min", func(a, c int64) int64 {
			if a < c {
				return a
			}
			return c
		}},
		{"max", func(a, c int64) int64 {
			if a > c {
				return a
			}
			return c
		}},
	}
	for _, h := range helpers {
		h := h
		_, err := b.Define(h.name, []object.ArgumentDescriptor{simpleArg(0, "a"), simpleArg(1, "b")},
			func(ctx object.NativeContext, args []heap.Address) (heap.Address, error) {
				aObj, ok := ctx.Deref(args[0])
				if !ok {
					return heap.Unallocated, fmt.Errorf("native: %s: dangling argument a", h.name)
				}
				bObj, ok := ctx.Deref(args[1])
				if !ok {
					return heap.Unallocated, fmt.Errorf("native: %s: dangling argument b", h.name)
				}
				a, aok := aObj.(*object.Long)
				c, cok := bObj.(*object.Long)
				if !aok || !cok {
					return heap.Unallocated, fmt.Errorf("native: %s: both arguments must be Long", h.name)
				}
				result := &object.Long{Value: h.fn(a.Value, c.Value)}
				return ctx.TryAllocate(result.PayloadSize(), result)
			})
		if err != nil {
			return err
		}
	}

	_, err := b.Define("abs", []object.ArgumentDescriptor{simpleArg(0, "n")},
		func(ctx object.NativeContext, args []heap.Address) (heap.Address, error) {
			obj, ok := ctx.Deref(args[0])
			if !ok {
				return heap.Unallocated, fmt.Errorf("native: abs: dangling argument")
			}
			n, ok := obj.(*object.Long)
			if !ok {
				return heap.Unallocated, fmt.Errorf("native: abs: argument must be Long")
			}
			v := n.Value
			if v < 0 {
				v = -v
			}
			result := &object.Long{Value: v}
			return ctx.TryAllocate(result.PayloadSize(), result)
		})
	return err
}
