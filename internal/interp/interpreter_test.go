package interp

import (
	"fmt"
	"testing"

	"github.com/s0cks/gel/internal/heap"
	"github.com/s0cks/gel/internal/local"
	"github.com/s0cks/gel/internal/object"
	"github.com/s0cks/gel/internal/vm"
)

type testHost struct {
	heap     *heap.Heap
	registry *object.Registry
	lambdas  map[int]*object.Lambda
	globals  map[string]heap.Address
	interp   *Interpreter
}

func newTestHost(t *testing.T) *testHost {
	t.Helper()
	h, err := heap.NewHeap(heap.Config{Semisize: 64 * 1024, OldZoneSize: 64 * 1024})
	if err != nil {
		t.Fatalf("NewHeap: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	host := &testHost{
		heap:     h,
		registry: object.NewRegistry(),
		lambdas:  make(map[int]*object.Lambda),
		globals:  make(map[string]heap.Address),
	}
	host.interp = New(host)
	h.SetRoots(host.interp)
	return host
}

func (h *testHost) Heap() *heap.Heap              { return h.heap }
func (h *testHost) Registry() *object.Registry    { return h.registry }
func (h *testHost) LambdaByID(id int) (*object.Lambda, bool) {
	l, ok := h.lambdas[id]
	return l, ok
}
func (h *testHost) LoadGlobal(name string) (heap.Address, bool) {
	a, ok := h.globals[name]
	return a, ok
}
func (h *testHost) StoreGlobal(name string, addr heap.Address) { h.globals[name] = addr }

func longValue(t *testing.T, host *testHost, addr heap.Address) int64 {
	t.Helper()
	obj, ok := host.heap.Deref(addr)
	if !ok {
		t.Fatalf("dangling result address")
	}
	l, ok := obj.(*object.Long)
	if !ok {
		t.Fatalf("result is not a Long: %T (%v)", obj, obj)
	}
	return l.Value
}

// TestArithmeticScenario: pushi 10; pushi 32; add; ret -> Long(42).
func TestArithmeticScenario(t *testing.T) {
	host := newTestHost(t)
	a := vm.NewAssembler()
	a.PushInt(10)
	a.PushInt(32)
	a.Add()
	a.Ret()

	result, err := host.interp.Run(a.Bytes(), a.Constants(), local.NewScope(nil))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if v := longValue(t, host, result); v != 42 {
		t.Fatalf("result = %d, want 42", v)
	}
}

// TestBranchScenario: pushi 10; pushi 11; sub; jeq L; pushi 1; pushi 2; add; L: ret -> Long(3).
func TestBranchScenario(t *testing.T) {
	host := newTestHost(t)
	a := vm.NewAssembler()
	l := vm.NewLabel()
	a.PushInt(10)
	a.PushInt(11)
	a.Sub()
	a.Jeq(l)
	a.PushInt(1)
	a.PushInt(2)
	a.Add()
	a.Bind(l)
	a.Ret()

	result, err := host.interp.Run(a.Bytes(), a.Constants(), local.NewScope(nil))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if v := longValue(t, host, result); v != 3 {
		t.Fatalf("result = %d, want 3", v)
	}
}

// TestCallNativeScenario: invoking a native "double" procedure on 21
// returns Long(42).
func TestCallNativeScenario(t *testing.T) {
	host := newTestHost(t)
	double := &object.NativeProcedure{
		Name: "double",
		Args: []object.ArgumentDescriptor{{Index: 0, Name: "n"}},
		Fn: func(ctx object.NativeContext, args []heap.Address) (heap.Address, error) {
			obj, ok := ctx.Deref(args[0])
			if !ok {
				return heap.Unallocated, fmt.Errorf("dangling argument")
			}
			n, ok := obj.(*object.Long)
			if !ok {
				return heap.Unallocated, fmt.Errorf("expected a Long")
			}
			return ctx.TryAllocate(8, &object.Long{Value: n.Value * 2})
		},
	}
	id := host.registry.RegisterNative(double)

	a := vm.NewAssembler()
	a.PushInt(21)
	a.InvokeNative(uint16(id), 1)
	a.Ret()

	result, err := host.interp.Run(a.Bytes(), a.Constants(), local.NewScope(nil))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if v := longValue(t, host, result); v != 42 {
		t.Fatalf("result = %d, want 42", v)
	}
}

// TestTypeCheckScenario: pushi 7; checkinstance String; ret -> Error, since
// a Long is never an instance of String.
func TestTypeCheckScenario(t *testing.T) {
	host := newTestHost(t)
	stringClass := host.registry.MustFindClass("String")

	a := vm.NewAssembler()
	a.PushInt(7)
	a.CheckInstance(uint16(stringClass.ID))
	a.Ret()

	result, err := host.interp.Run(a.Bytes(), a.Constants(), local.NewScope(nil))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	obj, ok := host.heap.Deref(result)
	if !ok {
		t.Fatalf("dangling result")
	}
	if _, ok := obj.(*object.Error); !ok {
		t.Fatalf("result = %T, want *object.Error", obj)
	}
}

// TestLocalsSurviveGarbageCollection exercises the GC-survival testable
// property from the interpreter's own vantage point: a value stashed in a
// local variable (a GC root via the Frame's Scope) must still be correct
// after a forced collection triggered by unrelated allocation pressure.
func TestLocalsSurviveGarbageCollection(t *testing.T) {
	host := newTestHost(t)
	scope := local.NewScope(nil)
	if _, err := scope.Add("x", heap.Unallocated); err != nil {
		t.Fatalf("scope.Add: %v", err)
	}

	a := vm.NewAssembler()
	a.PushInt(7)
	a.LStore(0)
	a.Pop()
	for i := 0; i < 5000; i++ {
		a.PushInt(int64(i))
		a.Pop()
	}
	a.LLoad(0)
	a.Ret()

	result, err := host.interp.Run(a.Bytes(), a.Constants(), scope)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if v := longValue(t, host, result); v != 7 {
		t.Fatalf("result = %d, want 7 (local should survive GC pressure)", v)
	}
}
