package vm

import "testing"

// TestForwardLabelPatch exercises the spec's Branch testable property:
//
//	pushi 10; pushi 11; sub; jeq L; pushi 1; pushi 2; add; L: ret
//
// L is referenced before it is bound, so Assembler must thread the
// forward-reference chain through the still-unresolved jeq operand and
// patch it correctly once Bind runs.
func TestForwardLabelPatch(t *testing.T) {
	a := NewAssembler()
	l := NewLabel()

	a.PushInt(10)
	a.PushInt(11)
	a.Sub()
	a.Jeq(l)
	a.PushInt(1)
	a.PushInt(2)
	a.Add()
	a.Bind(l)
	a.Ret()

	if !l.IsBound() {
		t.Fatalf("label was not bound")
	}

	lines, err := Disassemble(a.Bytes(), a.Constants())
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}

	var jeq *Line
	for i := range lines {
		if lines[i].Op == Jeq {
			jeq = &lines[i]
			break
		}
	}
	if jeq == nil {
		t.Fatalf("no jeq instruction found")
	}
	want := itoa(l.Position())
	if jeq.Operand != want {
		t.Fatalf("jeq target = %s, want label's bound offset %s (got lines: %v)", jeq.Operand, want, lines)
	}
	if lines[len(lines)-1].Op != Ret {
		t.Fatalf("last instruction should be ret, got %v", lines[len(lines)-1])
	}
}

func TestMultipleForwardReferencesToSameLabel(t *testing.T) {
	a := NewAssembler()
	l := NewLabel()

	a.PushTrue()
	a.JumpIfTrue(l)
	a.PushFalse()
	a.JumpIfTrue(l)
	a.PushNull()
	a.Bind(l)
	a.Ret()

	lines, err := Disassemble(a.Bytes(), a.Constants())
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	want := l.Position()
	count := 0
	for _, ln := range lines {
		if ln.Op == JumpIfTrue {
			count++
			if ln.Operand != itoa(want) {
				t.Fatalf("jump target = %s, want %d", ln.Operand, want)
			}
		}
	}
	if count != 2 {
		t.Fatalf("expected 2 JumpIfTrue instructions, saw %d", count)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func TestBackwardLabel(t *testing.T) {
	a := NewAssembler()
	top := NewLabel()
	a.Bind(top)
	a.PushInt(1)
	a.Jump(top)

	lines, err := Disassemble(a.Bytes(), a.Constants())
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	for _, ln := range lines {
		if ln.Op == Jump && ln.Operand != "0" {
			t.Fatalf("backward jump target = %s, want 0", ln.Operand)
		}
	}
}

func TestConstantPoolInterningIsStable(t *testing.T) {
	a := NewAssembler()
	a.PushConst("hello")
	a.PushConst("world")
	a.PushConst("hello")
	if len(a.Constants()) != 2 {
		t.Fatalf("expected 2 distinct constants, got %d: %v", len(a.Constants()), a.Constants())
	}
}
