package object

import (
	"fmt"

	"github.com/s0cks/gel/internal/heap"
)

// ArgumentDescriptor describes one formal parameter shared by Lambda,
// NativeProcedure and Macro. Grounded on gel::Argument
// (original_source/Sources/gel/argument.h).
type ArgumentDescriptor struct {
	Index    int
	Name     string
	Optional bool
	Vararg   bool
}

// Lambda is a compiled user procedure: its assembled bytecode plus the
// argument shape needed to adapt a call's actual arguments into locals.
// Deliberately NOT a heap.Object — see the package doc comment and
// DESIGN.md's Open Question entry on class/procedure addressing. Grounded
// on gel::Lambda (original_source/Sources/gel/pointer.h) and
// gel::NativeProcedure's shared call-adaptation logic
// (original_source/Sources/gel/native_procedure.h).
type Lambda struct {
	ID        int
	Name      string
	Args      []ArgumentDescriptor
	Code      []byte
	Constants []string
	NumLocals int
}

// NativeContext is the minimal surface a NativeFunc needs to build return
// values and read its arguments: heap allocation and dereferencing. It is
// satisfied by *heap.Heap, which the interpreter passes in.
type NativeContext interface {
	TryAllocate(size uint32, obj heap.Object) (heap.Address, error)
	Deref(addr heap.Address) (heap.Object, bool)
}

// NativeFunc is a Go function bridged into gel as a callable value. It
// receives already-bound argument Addresses in declaration order (vararg
// tails pre-collected into an Array, exactly like Lambda calls) and
// returns the Address of its result, or an error for the interpreter to
// turn into an Error value.
type NativeFunc func(ctx NativeContext, args []heap.Address) (heap.Address, error)

// NativeProcedure wraps a NativeFunc with the same argument shape and
// registry identity as a Lambda, so invoke/invoke_native share one call
// path in the interpreter. Grounded on gel::NativeProcedure
// (original_source/Sources/gel/native_procedure.h).
type NativeProcedure struct {
	ID   int
	Name string
	Args []ArgumentDescriptor
	Fn   NativeFunc
}

// Macro expands its body at compile time rather than at call time, but
// shares a Lambda's argument shape. Grounded on gel::Macro
// (original_source/Sources/gel/pointer.h).
type Macro struct {
	ID        int
	Name      string
	Args      []ArgumentDescriptor
	Code      []byte
	Constants []string
	NumLocals int
}

// BindArguments adapts a flat list of actual argument Addresses to descs'
// shape: required slots are filled positionally, a trailing optional slot
// is left heap.Unallocated when not supplied, and a trailing vararg slot
// collects the remainder into a freshly allocated Array. It mirrors
// gel::Argument's binding rules as used by both LocalScope population for
// Lambda calls and the native-procedure bridge.
//
// args typically arrives already popped off an interpreter's operand
// stack, so it is no longer visible to any RootProvider; the vararg
// Array allocation below can still trigger a collection, so both args and
// the bound slots built up so far are registered as temporary GC roots
// for the duration of this call via heap.ProtectTemp.
func BindArguments(h *heap.Heap, descs []ArgumentDescriptor, args []heap.Address) ([]heap.Address, error) {
	bound := make([]heap.Address, len(descs))
	for i := range bound {
		bound[i] = heap.Unallocated
	}
	release := h.ProtectTemp(args, bound)
	defer release()
	ai := 0
	for i, d := range descs {
		if d.Vararg {
			rest := args[ai:]
			arr := NewArray(len(rest))
			addr, err := h.TryAllocate(arr.PayloadSize(), arr)
			if err != nil {
				return nil, fmt.Errorf("object: binding vararg %q: %w", d.Name, err)
			}
			copy(arr.Elements, rest)
			bound[i] = addr
			ai = len(args)
			continue
		}
		if ai < len(args) {
			bound[i] = args[ai]
			ai++
			continue
		}
		if d.Optional {
			bound[i] = heap.Unallocated
			continue
		}
		return nil, fmt.Errorf("object: missing required argument %q (position %d)", d.Name, d.Index)
	}
	if ai < len(args) {
		return nil, fmt.Errorf("object: too many arguments: expected %d, got %d", len(descs), len(args))
	}
	return bound, nil
}
