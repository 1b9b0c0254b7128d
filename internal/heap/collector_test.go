package heap

import "testing"

type testRoots struct{ addrs []*Address }

func (r *testRoots) VisitRoots(visit func(*Address) bool) bool {
	for _, a := range r.addrs {
		if !visit(a) {
			return false
		}
	}
	return true
}

// TestCollectorSurvivesReachableChain exercises the GC survival scenario
// from SPEC_FULL.md's testable properties: a chain of Pair-like cells
// reachable from a root must keep its values and link structure across an
// explicit collection, while anything never rooted is reclaimed.
func TestCollectorSurvivesReachableChain(t *testing.T) {
	h := newTestHeap(t)

	tail := &testCell{value: 3, next: Unallocated}
	tailAddr, err := h.TryAllocate(tail.PayloadSize(), tail)
	if err != nil {
		t.Fatalf("alloc tail: %v", err)
	}
	mid := &testCell{value: 2, next: tailAddr}
	midAddr, err := h.TryAllocate(mid.PayloadSize(), mid)
	if err != nil {
		t.Fatalf("alloc mid: %v", err)
	}
	head := &testCell{value: 1, next: midAddr}
	headAddr, err := h.TryAllocate(head.PayloadSize(), head)
	if err != nil {
		t.Fatalf("alloc head: %v", err)
	}

	// Garbage: reachable from nothing.
	for i := 0; i < 10; i++ {
		garbage := &testCell{value: int64(-i), next: Unallocated}
		if _, err := h.TryAllocate(garbage.PayloadSize(), garbage); err != nil {
			t.Fatalf("alloc garbage %d: %v", i, err)
		}
	}

	root := headAddr
	h.SetRoots(&testRoots{addrs: []*Address{&root}})

	if err := h.Collector.Collect(); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	obj, ok := h.Deref(root)
	if !ok {
		t.Fatalf("root not found after collection")
	}
	got := obj.(*testCell)
	if got.value != 1 {
		t.Fatalf("head.value = %d, want 1", got.value)
	}

	midObj, ok := h.Deref(got.next)
	if !ok {
		t.Fatalf("mid not found after collection")
	}
	if midObj.(*testCell).value != 2 {
		t.Fatalf("mid.value = %d, want 2", midObj.(*testCell).value)
	}

	tailObj, ok := h.Deref(midObj.(*testCell).next)
	if !ok {
		t.Fatalf("tail not found after collection")
	}
	if tailObj.(*testCell).value != 3 {
		t.Fatalf("tail.value = %d, want 3", tailObj.(*testCell).value)
	}
	if !tailObj.(*testCell).next.IsUnallocated() {
		t.Fatalf("tail.next should remain Unallocated")
	}

	if len(h.Young.payloads) != 3 {
		t.Fatalf("expected exactly 3 surviving payloads, got %d", len(h.Young.payloads))
	}
}

// TestHeapTriggersCollectionOnExhaustion forces enough allocation to exhaust
// the young semispace, so TryAllocate must invoke the collector itself and
// retry, rather than the test driving Collect directly.
func TestHeapTriggersCollectionOnExhaustion(t *testing.T) {
	h, err := NewHeap(Config{Semisize: 4096, OldZoneSize: 4096})
	if err != nil {
		t.Fatalf("NewHeap: %v", err)
	}
	t.Cleanup(func() { h.Close() })

	keep := &testCell{value: 99, next: Unallocated}
	keepAddr, err := h.TryAllocate(keep.PayloadSize(), keep)
	if err != nil {
		t.Fatalf("alloc keep: %v", err)
	}
	root := keepAddr
	h.SetRoots(&testRoots{addrs: []*Address{&root}})

	for i := 0; i < 200; i++ {
		garbage := &testCell{value: int64(i), next: Unallocated}
		if _, err := h.TryAllocate(garbage.PayloadSize(), garbage); err != nil {
			t.Fatalf("alloc garbage %d: %v", i, err)
		}
	}

	obj, ok := h.Deref(root)
	if !ok {
		t.Fatalf("kept object lost across implicit collections")
	}
	if obj.(*testCell).value != 99 {
		t.Fatalf("value = %d, want 99", obj.(*testCell).value)
	}
}
