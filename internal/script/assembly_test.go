package script

import (
	"testing"

	"github.com/s0cks/gel/internal/vm"
)

func TestParseAssemblyProgramArithmetic(t *testing.T) {
	prog, err := ParseAssemblyProgram([]byte(`
; compute 10 + 32
pushi 10
pushi 32
add
ret
`))
	if err != nil {
		t.Fatalf("ParseAssemblyProgram: %v", err)
	}
	lines, err := vm.Disassemble(prog.Code, prog.Constants)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if len(lines) != 4 {
		t.Fatalf("len(lines) = %d, want 4", len(lines))
	}
	if lines[2].Op != vm.Add || lines[3].Op != vm.Ret {
		t.Fatalf("unexpected tail ops: %v, %v", lines[2].Op, lines[3].Op)
	}
}

func TestParseAssemblyProgramBranchResolvesLabel(t *testing.T) {
	prog, err := ParseAssemblyProgram([]byte(`
pushtrue
jumpiffalse else
pushi 10
jump done
else:
pushi 20
done:
ret
`))
	if err != nil {
		t.Fatalf("ParseAssemblyProgram: %v", err)
	}
	if _, err := vm.Disassemble(prog.Code, prog.Constants); err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
}

func TestParseAssemblyProgramRejectsUnknownMnemonic(t *testing.T) {
	_, err := ParseAssemblyProgram([]byte("bogus 1\n"))
	if err == nil {
		t.Fatalf("want error for unknown mnemonic")
	}
}

func TestParseAssemblyProgramRejectsUnboundLabel(t *testing.T) {
	_, err := ParseAssemblyProgram([]byte("jump nowhere\nret\n"))
	if err == nil {
		t.Fatalf("want error for a label referenced but never bound")
	}
}
