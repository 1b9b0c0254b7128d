package ir

import (
	"testing"

	"github.com/s0cks/gel/internal/vm"
)

// TestCompileArithmeticReturn lowers the spec's Arithmetic scenario
// (pushi 10; pushi 32; add; ret) straight from the IR and checks the
// assembled bytecode disassembles back to exactly that.
func TestCompileArithmeticReturn(t *testing.T) {
	entry := NewBlock(GraphEntry)
	entry.Append(PushInt{Value: 10})
	entry.Append(PushInt{Value: 32})
	entry.Append(Add())
	entry.Append(ReturnInstr{})

	res, err := Compile([]*Block{entry})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	lines, err := vm.Disassemble(res.Code, res.Constants)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	wantOps := []vm.Opcode{vm.PushInt, vm.PushInt, vm.Add, vm.Ret}
	if len(lines) != len(wantOps) {
		t.Fatalf("got %d instructions, want %d: %v", len(lines), len(wantOps), lines)
	}
	for i, op := range wantOps {
		if lines[i].Op != op {
			t.Fatalf("instruction %d = %s, want %s", i, lines[i].Op, op)
		}
	}
}

// TestCompileBranchMergesAtJoin builds an if-like diamond: a GraphEntry
// branches to True/False TargetEntry blocks, both of which Goto a shared
// JoinEntry block that returns. The disassembly must hold exactly one
// jiffalse (the branch), three jumps (the branch's unconditional half plus
// one Goto per TargetEntry) and one ret (the join).
func TestCompileBranchMergesAtJoin(t *testing.T) {
	join := NewBlock(JoinEntry)
	join.Append(ReturnInstr{})

	trueBlk := NewBlock(TargetEntry)
	trueBlk.Append(PushInt{Value: 1})
	trueBlk.Append(GotoInstr{Target: join})

	falseBlk := NewBlock(TargetEntry)
	falseBlk.Append(PushInt{Value: 0})
	falseBlk.Append(GotoInstr{Target: join})

	entry := NewBlock(GraphEntry)
	entry.Append(PushBool{Value: true})
	entry.Append(BranchInstr{True: trueBlk, False: falseBlk})

	res, err := Compile([]*Block{entry, trueBlk, falseBlk, join})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	lines, err := vm.Disassemble(res.Code, res.Constants)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}

	var sawJiffalse, sawJump, sawRet int
	for _, l := range lines {
		switch l.Op {
		case vm.JumpIfFalse:
			sawJiffalse++
		case vm.Jump:
			sawJump++
		case vm.Ret:
			sawRet++
		}
	}
	if sawJiffalse != 1 {
		t.Fatalf("expected exactly 1 jiffalse, got %d", sawJiffalse)
	}
	if sawJump != 3 { // branch's unconditional jump + each Goto to join
		t.Fatalf("expected exactly 3 jump instructions, got %d: %v", sawJump, lines)
	}
	if sawRet != 1 {
		t.Fatalf("expected exactly 1 ret (only in the join block), got %d", sawRet)
	}
}

func TestCompileRejectsMisplacedTerminator(t *testing.T) {
	entry := NewBlock(GraphEntry)
	entry.Append(ReturnInstr{})
	entry.Append(PushInt{Value: 1})

	if _, err := Compile([]*Block{entry}); err == nil {
		t.Fatalf("expected an error for a terminator that isn't last")
	}
}
