// Package ir implements gel's flow-graph intermediate representation and
// the compiler that lowers it to internal/vm bytecode. Grounded on
// gel::FlowGraph/GraphEntryInstr/TargetEntryInstr/JoinEntryInstr
// (original_source/Sources/gel/flow_graph.h, instruction.h) and the
// per-instruction Compile() lowering in
// original_source/Sources/gel/instruction_vm.cc.
package ir

import "github.com/s0cks/gel/internal/vm"

// BlockKind distinguishes how a Block may be entered.
type BlockKind int

const (
	// GraphEntry is the single unlabeled entry block of a Lambda body;
	// execution always starts here, so it needs no bound Label.
	GraphEntry BlockKind = iota
	// TargetEntry is a Goto/Branch target with exactly one predecessor.
	TargetEntry
	// JoinEntry is a Goto/Branch target reachable from more than one
	// predecessor (e.g. the merge point after an if).
	JoinEntry
)

// Block is one basic block in the flow graph: a straight-line list of
// Instrs ending in exactly one terminator (ReturnInstr/GotoInstr/
// BranchInstr). Per instruction_vm.cc, GraphEntry/TargetEntry/JoinEntry
// themselves compile to zero bytecode — only the Instrs they contain, and
// their terminator, emit anything.
type Block struct {
	Kind   BlockKind
	Instrs []Instr
	label  *vm.Label
}

// NewBlock creates a Block of the given Kind. TargetEntry/JoinEntry blocks
// get a fresh, as-yet-unbound Label immediately, so earlier blocks can
// already reference it as a Goto/Branch target before it's compiled.
func NewBlock(kind BlockKind) *Block {
	b := &Block{Kind: kind}
	if kind != GraphEntry {
		b.label = vm.NewLabel()
	}
	return b
}

// Append adds instr to the end of the block's instruction list.
func (b *Block) Append(instr Instr) { b.Instrs = append(b.Instrs, instr) }

// Label returns the Block's jump target Label, or nil for a GraphEntry
// block (which is only ever entered by falling into offset 0).
func (b *Block) Label() *vm.Label { return b.label }

// Instr is one IR instruction. Data instructions lower to exactly one (or
// a short, fixed sequence of) bytecode ops; the three terminator types
// additionally describe control flow to the Compiler, which is why they
// live in this same interface rather than a separate one — the original's
// Instruction hierarchy does the same (instruction.h).
type Instr interface {
	compile(c *compiler) error
}

// terminator is implemented by the three instructions legally allowed to
// end a Block: ReturnInstr, GotoInstr, BranchInstr.
type terminator interface {
	Instr
	isTerminator()
}
