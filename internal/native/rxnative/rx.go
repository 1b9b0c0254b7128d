// Package rxnative wires gel's reactive Subject/Observable primitives
// (internal/object/reactive.go) into the native-procedure bridge, the same
// role fsnative plays for the filesystem surface: the stream operators
// themselves are an out-of-scope collaborator (SPEC_FULL.md §1), but a
// script driving an Observable through natives
// is exactly what the bridge is for.
package rxnative

import (
	"fmt"
	"os"
	"sync"

	"github.com/s0cks/gel/internal/heap"
	"github.com/s0cks/gel/internal/native"
	"github.com/s0cks/gel/internal/object"
)

// subjects is process-wide, mirroring the class/module registries: a
// Subject is addressed by name from bytecode the same way a Class or
// NativeProcedure is, not allocated on the heap (see DESIGN.md's Open
// Question on class/procedure addressing — Subject has the same problem).
var (
	mu       sync.Mutex
	subjects = make(map[string]*object.Subject)
)

// subjectFor returns the named Subject, creating it (subscribed to stdout,
// so rx:emit is observable from a script without a dedicated REPL sink)
// the first time name is seen.
func subjectFor(name string) *object.Subject {
	mu.Lock()
	defer mu.Unlock()
	s, ok := subjects[name]
	if !ok {
		s = object.NewSubject(name)
		s.Subscribe(os.Stdout)
		subjects[name] = s
	}
	return s
}

// Register wires rx:subject and rx:emit into bridge.
func Register(bridge *native.Bridge) error {
	if _, err := bridge.Define("rx:subject",
		[]object.ArgumentDescriptor{{Index: 0, Name: "name"}},
		createSubject); err != nil {
		return err
	}
	if _, err := bridge.Define("rx:emit",
		[]object.ArgumentDescriptor{{Index: 0, Name: "name"}, {Index: 1, Name: "value"}},
		emit); err != nil {
		return err
	}
	return nil
}

func asString(ctx object.NativeContext, addr heap.Address, argName string) (string, error) {
	obj, ok := ctx.Deref(addr)
	if !ok {
		return "", fmt.Errorf("rxnative: dangling argument %q", argName)
	}
	s, ok := obj.(*object.String)
	if !ok {
		return "", fmt.Errorf("rxnative: argument %q must be a String, got %s", argName, obj.ClassName())
	}
	return s.Value, nil
}

func createSubject(ctx object.NativeContext, args []heap.Address) (heap.Address, error) {
	name, err := asString(ctx, args[0], "name")
	if err != nil {
		return heap.Unallocated, err
	}
	subjectFor(name)
	result := &object.Bool{Value: true}
	return ctx.TryAllocate(result.PayloadSize(), result)
}

// emit broadcasts args[1] to the named Subject's subscribers and returns
// the value unchanged, the same "push through" convention store_global
// uses for chained expressions.
func emit(ctx object.NativeContext, args []heap.Address) (heap.Address, error) {
	name, err := asString(ctx, args[0], "name")
	if err != nil {
		return heap.Unallocated, err
	}
	value, ok := ctx.Deref(args[1])
	if !ok {
		return heap.Unallocated, fmt.Errorf("rxnative: dangling argument %q", "value")
	}
	subjectFor(name).Emit(value)
	return args[1], nil
}
