package runtime

import (
	"testing"

	"github.com/s0cks/gel/internal/config"
	"github.com/s0cks/gel/internal/heap"
	"github.com/s0cks/gel/internal/object"
	"github.com/s0cks/gel/internal/vm"
)

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	cfg := config.Default()
	cfg.NewZoneSemisize = 64 * 1024
	cfg.OldZoneSize = 64 * 1024
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func longValue(t *testing.T, r *Runtime, addr heap.Address) int64 {
	t.Helper()
	obj, ok := r.Heap().Deref(addr)
	if !ok {
		t.Fatalf("dangling result address")
	}
	l, ok := obj.(*object.Long)
	if !ok {
		t.Fatalf("result is not a Long: %T (%v)", obj, obj)
	}
	return l.Value
}

func TestRuntimeEvalArithmetic(t *testing.T) {
	r := newTestRuntime(t)
	result, err := r.Eval([]byte("pushi 10\npushi 32\nadd\nret\n"))
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v := longValue(t, r, result); v != 42 {
		t.Fatalf("result = %d, want 42", v)
	}
}

func TestRuntimeGlobalsRoundTrip(t *testing.T) {
	r := newTestRuntime(t)
	result, err := r.Eval([]byte(`
pushi 9
storeglobal "x"
pop
loadglobal "x"
ret
`))
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v := longValue(t, r, result); v != 9 {
		t.Fatalf("result = %d, want 9", v)
	}
}

func TestRuntimeCallInvokesRegisteredLambda(t *testing.T) {
	r := newTestRuntime(t)
	a := vm.NewAssembler()
	a.LLoad(0)
	a.PushInt(1)
	a.Add()
	a.Ret()
	lambda := &object.Lambda{
		Name: "inc",
		Args: []object.ArgumentDescriptor{{Index: 0, Name: "n"}},
		Code: a.Bytes(),
	}
	id := r.DefineLambda(lambda)

	nAddr, err := r.Heap().TryAllocate(8, &object.Long{Value: 41})
	if err != nil {
		t.Fatalf("TryAllocate: %v", err)
	}
	result, err := r.Call(id, []heap.Address{nAddr})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if v := longValue(t, r, result); v != 42 {
		t.Fatalf("result = %d, want 42", v)
	}
}

func TestRuntimeNativeBridge(t *testing.T) {
	r := newTestRuntime(t)
	id, err := r.Bridge().Define("double",
		[]object.ArgumentDescriptor{{Index: 0, Name: "n"}},
		func(ctx object.NativeContext, args []heap.Address) (heap.Address, error) {
			obj, _ := ctx.Deref(args[0])
			n := obj.(*object.Long)
			return ctx.TryAllocate(8, &object.Long{Value: n.Value * 2})
		})
	if err != nil {
		t.Fatalf("Bridge.Define: %v", err)
	}

	result, err := r.Eval([]byte("pushi 21\ninvokenative " + itoa(id) + " 1\nret\n"))
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v := longValue(t, r, result); v != 42 {
		t.Fatalf("result = %d, want 42", v)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
