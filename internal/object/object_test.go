package object

import (
	"testing"

	"github.com/s0cks/gel/internal/heap"
)

func newTestHeap(t *testing.T) *heap.Heap {
	t.Helper()
	h, err := heap.NewHeap(heap.Config{Semisize: 64 * 1024, OldZoneSize: 64 * 1024})
	if err != nil {
		t.Fatalf("NewHeap: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestPairRoundTrip(t *testing.T) {
	h := newTestHeap(t)

	carVal := &Long{Value: 10}
	carAddr, err := h.TryAllocate(carVal.PayloadSize(), carVal)
	if err != nil {
		t.Fatalf("alloc car: %v", err)
	}
	cdrVal := &Long{Value: 20}
	cdrAddr, err := h.TryAllocate(cdrVal.PayloadSize(), cdrVal)
	if err != nil {
		t.Fatalf("alloc cdr: %v", err)
	}

	pair := NewPair(carAddr, cdrAddr)
	pairAddr, err := h.TryAllocate(pair.PayloadSize(), pair)
	if err != nil {
		t.Fatalf("alloc pair: %v", err)
	}

	obj, ok := h.Deref(pairAddr)
	if !ok {
		t.Fatalf("pair not found")
	}
	got := obj.(*Pair)
	if got.IsEmpty() {
		t.Fatalf("round-tripped pair reports empty")
	}
	carObj, ok := h.Deref(got.Car)
	if !ok || carObj.(*Long).Value != 10 {
		t.Fatalf("car round-trip failed: %+v", carObj)
	}
	cdrObj, ok := h.Deref(got.Cdr)
	if !ok || cdrObj.(*Long).Value != 20 {
		t.Fatalf("cdr round-trip failed: %+v", cdrObj)
	}

	if !Equals(h.Deref, got, got) {
		t.Fatalf("pair should be eq? to itself")
	}

	freshCarAddr, err := h.TryAllocate(carVal.PayloadSize(), &Long{Value: 10})
	if err != nil {
		t.Fatalf("alloc fresh car: %v", err)
	}
	freshCdrAddr, err := h.TryAllocate(cdrVal.PayloadSize(), &Long{Value: 20})
	if err != nil {
		t.Fatalf("alloc fresh cdr: %v", err)
	}
	fresh := NewPair(freshCarAddr, freshCdrAddr)
	if !Equals(h.Deref, got, fresh) {
		t.Fatalf("structurally identical pair should be eq?")
	}
}

func TestEmptyPair(t *testing.T) {
	p := NewPair(heap.Unallocated, heap.Unallocated)
	if !p.IsEmpty() {
		t.Fatalf("expected empty pair")
	}
	visited := false
	p.VisitPointers(func(*heap.Address) bool {
		visited = true
		return true
	})
	if visited {
		t.Fatalf("VisitPointers should not visit an empty pair's fields")
	}
}

func TestClassInstanceOfChain(t *testing.T) {
	r := NewRegistry()
	object := r.MustFindClass("Object")
	long := r.MustFindClass("Long")
	double := r.MustFindClass("Double")

	if !long.IsInstanceOf(object) {
		t.Fatalf("Long should be an instance of Object")
	}
	if !long.IsInstanceOf(long) {
		t.Fatalf("Long should be an instance of itself")
	}
	if long.IsInstanceOf(double) {
		t.Fatalf("Long should not be an instance of Double")
	}

	custom := r.DefineClass("Widget", long)
	if !custom.IsInstanceOf(long) || !custom.IsInstanceOf(object) {
		t.Fatalf("Widget should chain through Long up to Object")
	}
}

func TestBindArgumentsRequiredOptionalVararg(t *testing.T) {
	h := newTestHeap(t)
	descs := []ArgumentDescriptor{
		{Index: 0, Name: "a"},
		{Index: 1, Name: "b", Optional: true},
		{Index: 2, Name: "rest", Vararg: true},
	}

	one := &Long{Value: 1}
	oneAddr, _ := h.TryAllocate(one.PayloadSize(), one)
	two := &Long{Value: 2}
	twoAddr, _ := h.TryAllocate(two.PayloadSize(), two)
	three := &Long{Value: 3}
	threeAddr, _ := h.TryAllocate(three.PayloadSize(), three)

	bound, err := BindArguments(h, descs, []heap.Address{oneAddr, twoAddr, threeAddr})
	if err != nil {
		t.Fatalf("BindArguments: %v", err)
	}
	if bound[0] != oneAddr || bound[1] != twoAddr {
		t.Fatalf("required/optional binding mismatch: %+v", bound)
	}
	restObj, ok := h.Deref(bound[2])
	if !ok {
		t.Fatalf("vararg slot not allocated")
	}
	arr := restObj.(*Array)
	if len(arr.Elements) != 1 || arr.Elements[0] != threeAddr {
		t.Fatalf("vararg array mismatch: %+v", arr.Elements)
	}

	if _, err := BindArguments(h, descs, nil); err == nil {
		t.Fatalf("expected error for missing required argument")
	}
}
