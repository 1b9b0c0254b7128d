package heap

import "fmt"

// Collector implements Cheney's copying algorithm over a Heap's young
// generation, ported from Collector::Collect in
// original_source/Sources/gel/collector.cc. It never touches the old zone:
// objects allocated there are assumed long-lived and are only ever reclaimed
// by an explicit OldZone.Free call, never by a GC pass (see SPEC_FULL.md's
// Open Question on the old zone).
type Collector struct {
	heap  *Heap
	roots RootProvider
}

// NewCollector builds a Collector bound to h. Roots are supplied later via
// Heap.SetRoots, since the RootProvider (a Runtime) is typically
// constructed after its Heap.
func NewCollector(h *Heap) *Collector { return &Collector{heap: h} }

// Collect runs one full young-generation collection: swap semispaces, copy
// everything reachable from roots (ProcessRoots), then scan the newly
// copied region to relocate whatever those objects reference in turn
// (ProcessFromspace), exactly mirroring the two-phase structure of the
// original collector.cc.
func (c *Collector) Collect() error {
	if c.roots == nil {
		return fmt.Errorf("heap: collector has no RootProvider wired (call Heap.SetRoots first)")
	}
	zone := c.heap.Young

	if err := zone.SwapSpaces(); err != nil {
		return fmt.Errorf("heap: swap semispaces: %w", err)
	}
	fresh := zone.NewPayloadTable()

	c.roots.VisitRoots(func(addr *Address) bool {
		c.copyPointer(zone, addr, fresh)
		return true
	})
	c.heap.tempRoots.visit(func(addr *Address) bool {
		c.copyPointer(zone, addr, fresh)
		return true
	})

	c.processFromspace(zone, fresh)

	zone.ReplacePayloads(fresh)
	return zone.ProtectTospace()
}

// processFromspace is the Cheney scan: it walks the newly populated
// fromspace header-by-header from its start up to the current bump
// pointer, which grows as copyPointer discovers more survivors, so objects
// appended mid-scan are still visited before the loop exits.
func (c *Collector) processFromspace(zone *NewZone, fresh map[Address]Object) {
	scan := zone.FromspaceStart()
	for scan != zone.Current() {
		payload := Address(uint64(scan) + uint64(HeaderSize))
		h := zone.HeaderAt(payload)
		if obj, ok := fresh[payload]; ok {
			obj.VisitPointers(func(ref *Address) bool {
				c.copyPointer(zone, ref, fresh)
				return true
			})
		}
		scan = Address(uint64(payload) + uint64(h.Tag.Size()))
	}
}

// copyPointer resolves *addr to its post-collection location, copying the
// referent out of tospace the first time it is seen and rewriting
// subsequent references to the same object with the forwarding address
// recorded in its (now-stale) Header — CopyPointer's dedup trick in
// collector.cc.
func (c *Collector) copyPointer(zone *NewZone, addr *Address, fresh map[Address]Object) {
	old := *addr
	if old.IsUnallocated() || old.IsOld() {
		return // old-zone objects and nil references never move.
	}
	h := zone.HeaderAt(old)
	if h.Tag.IsMarked() {
		*addr = h.Forwarding
		return
	}
	newAddr := zone.CopyObject(old, fresh)
	zone.MarkForwarded(old, newAddr)
	*addr = newAddr
}
