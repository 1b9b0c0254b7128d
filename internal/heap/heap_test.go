package heap

import "testing"

// testCell is a minimal Object used only by this package's tests: a single
// int64 payload plus one outgoing reference, enough to exercise allocation,
// dereferencing and pointer visitation without depending on internal/object.
type testCell struct {
	value int64
	next  Address
}

func (c *testCell) ClassName() string   { return "TestCell" }
func (c *testCell) PayloadSize() uint32 { return 16 }
func (c *testCell) String() string      { return "TestCell" }
func (c *testCell) VisitPointers(visit func(*Address) bool) bool {
	if c.next.IsUnallocated() {
		return true
	}
	return visit(&c.next)
}

func newTestHeap(t *testing.T) *Heap {
	t.Helper()
	h, err := NewHeap(Config{Semisize: 64 * 1024, OldZoneSize: 64 * 1024})
	if err != nil {
		t.Fatalf("NewHeap: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestHeapAllocateSmallGoesToYoungZone(t *testing.T) {
	h := newTestHeap(t)
	cell := &testCell{value: 42, next: Unallocated}
	addr, err := h.TryAllocate(cell.PayloadSize(), cell)
	if err != nil {
		t.Fatalf("TryAllocate: %v", err)
	}
	if addr.IsOld() {
		t.Fatalf("expected young-zone address, got old-zone address %#x", addr)
	}
	got, ok := h.Deref(addr)
	if !ok {
		t.Fatalf("Deref(%#x) = not found", addr)
	}
	if got.(*testCell).value != 42 {
		t.Fatalf("value = %d, want 42", got.(*testCell).value)
	}
}

func TestHeapAllocateLargeGoesToOldZone(t *testing.T) {
	h := newTestHeap(t)
	cell := &testCell{value: 7, next: Unallocated}
	addr, err := h.TryAllocate(LargeObjectThreshold, cell)
	if err != nil {
		t.Fatalf("TryAllocate: %v", err)
	}
	if !addr.IsOld() {
		t.Fatalf("expected old-zone address for a %d byte object, got %#x", LargeObjectThreshold, addr)
	}
}

func TestHeapHeaderSizeRoundTrips(t *testing.T) {
	h := newTestHeap(t)
	cell := &testCell{value: 1, next: Unallocated}
	addr, err := h.TryAllocate(24, cell)
	if err != nil {
		t.Fatalf("TryAllocate: %v", err)
	}
	hdr := h.HeaderAt(addr)
	if hdr.Tag.Size() != 24 {
		t.Fatalf("Tag.Size() = %d, want 24", hdr.Tag.Size())
	}
	if !hdr.Tag.IsNew() {
		t.Fatalf("expected new-generation tag bit set")
	}
}
