package heap

// Object is implemented by every value the heap can allocate (Bool, Long,
// Double, Pair, String, Symbol, Array, Error — see internal/object). It
// mirrors the role of gel::Object::VisitPointers in
// original_source/Sources/gel/object.h: a value knows its own encoded size
// and how to report the Addresses it references, but it never chases those
// references itself. The collector owns relocation.
type Object interface {
	// ClassName identifies the object's runtime class for the disassembler,
	// error messages and checkinstance.
	ClassName() string

	// PayloadSize is the number of payload bytes this object accounts for
	// in its Header's size field, excluding HeaderSize itself.
	PayloadSize() uint32

	// VisitPointers calls visit once per outgoing Address field the object
	// holds (e.g. a Pair's car/cdr). visit may rewrite the Address in place
	// when relocating; VisitPointers returns false to stop early, matching
	// gel::Pointer::VisitPointers's short-circuiting convention.
	VisitPointers(visit func(addr *Address) bool) bool

	// String renders the object for REPL/disassembler output.
	String() string
}

// RootProvider is implemented by whatever embeds a Runtime: it enumerates
// every Address reachable without going through the heap itself — locals,
// the operand stack, call frames, globals — so the collector can treat them
// as roots. It plays the part of gel::LocalScope's visitation duties
// threaded through Collector::ProcessRoots in
// original_source/Sources/gel/collector.cc.
type RootProvider interface {
	VisitRoots(visit func(addr *Address) bool) bool
}
