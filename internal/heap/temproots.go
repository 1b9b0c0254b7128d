package heap

// tempRootStack holds caller-provided Address slices that must be treated
// as GC roots for as long as they stay registered. It exists for values
// that have already left every RootProvider-visible location (e.g. a
// function's argument list, already popped off an interpreter's operand
// stack) but still need to survive a collection triggered by an
// allocation that references them — the same problem RootProvider solves
// for the mutator's long-lived state, just for a short-lived Go-local
// slice instead.
type tempRootStack struct {
	entries map[int][]Address
	nextID  int
}

func (t *tempRootStack) push(addrs ...[]Address) func() {
	if t.entries == nil {
		t.entries = make(map[int][]Address)
	}
	ids := make([]int, 0, len(addrs))
	for _, a := range addrs {
		id := t.nextID
		t.nextID++
		t.entries[id] = a
		ids = append(ids, id)
	}
	return func() {
		for _, id := range ids {
			delete(t.entries, id)
		}
	}
}

func (t *tempRootStack) visit(visit func(*Address) bool) bool {
	for _, s := range t.entries {
		for i := range s {
			if !visit(&s[i]) {
				return false
			}
		}
	}
	return true
}

// ProtectTemp registers each of addrs as an additional GC root until the
// returned release func is called. Addresses are visited (and rewritten in
// place by a collection) through the caller's own backing array, exactly
// like RootProvider.VisitRoots's root cells, so the caller sees relocated
// values once release returns control to it. Callers must call release
// exactly once, after the protected addresses have either been consumed or
// re-rooted elsewhere (e.g. stored into a Scope).
func (h *Heap) ProtectTemp(addrs ...[]Address) (release func()) {
	return h.tempRoots.push(addrs...)
}
