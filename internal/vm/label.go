package vm

// unresolvedSentinel marks the end of a Label's forward-reference chain,
// standing in for gel::Label::kNoTarget.
const unresolvedSentinel int32 = -1

// Label names a bytecode position that may be bound after some of its
// references are emitted. Grounded on gel::Label
// (original_source/Sources/gel/assembler_vm.h), including its
// forward-reference patching trick: every unresolved jump to a Label
// writes the PREVIOUS unresolved site's buffer offset into the very slot
// that will eventually hold its real relative offset, threading a linked
// list through the instruction stream itself. Binding the Label walks that
// list once, patching every site in turn.
type Label struct {
	bound    bool
	position int
	link     int32 // buffer offset of the most recent unresolved reference, or unresolvedSentinel
}

// NewLabel returns an unbound Label.
func NewLabel() *Label { return &Label{link: unresolvedSentinel} }

// IsBound reports whether the Label has been fixed to a position.
func (l *Label) IsBound() bool { return l.bound }

// Position returns the bound bytecode offset. Only valid once IsBound.
func (l *Label) Position() int { return l.position }
