package ir

import (
	"fmt"

	"github.com/s0cks/gel/internal/vm"
)

// compiler is the per-Lambda-body lowering context threaded through every
// Instr.compile call.
type compiler struct {
	asm *vm.Assembler
}

func (c *compiler) emitBare(op vm.Opcode) { c.asm.EmitBare(op) }

// Result is everything a compiled Lambda/Macro body needs at call time.
type Result struct {
	Code      []byte
	Constants []string
}

// Compile lowers blocks, in the given order, into one assembled bytecode
// stream. blocks[0] must be the GraphEntry; every TargetEntry/JoinEntry
// block must appear exactly once and have its Label bound at the point
// it's emitted — exactly how gel's own FlowGraphCompiler walks blocks in
// original_source/Sources/gel/instruction_vm.cc, where GraphEntry/
// TargetEntry/JoinEntry themselves contribute no bytecode, only the
// Instrs/terminator they contain do.
func Compile(blocks []*Block) (*Result, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("ir: empty flow graph")
	}
	if blocks[0].Kind != GraphEntry {
		return nil, fmt.Errorf("ir: first block must be GraphEntry")
	}

	c := &compiler{asm: vm.NewAssembler()}

	for _, b := range blocks {
		if b.Kind != GraphEntry {
			c.asm.Bind(b.label)
		}
		if err := compileBlockBody(c, b); err != nil {
			return nil, err
		}
	}

	return &Result{Code: c.asm.Bytes(), Constants: c.asm.Constants()}, nil
}

func compileBlockBody(c *compiler, b *Block) error {
	if len(b.Instrs) == 0 {
		return fmt.Errorf("ir: block has no instructions (missing terminator)")
	}
	for i, instr := range b.Instrs {
		isLast := i == len(b.Instrs)-1
		_, isTerm := instr.(terminator)
		if isLast != isTerm {
			return fmt.Errorf("ir: terminator must be exactly the last instruction in a block")
		}
		if err := instr.compile(c); err != nil {
			return err
		}
	}
	return nil
}
