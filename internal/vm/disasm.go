package vm

import (
	"fmt"
	"strconv"
	"strings"
)

// Line is one decoded instruction: its offset, opcode and rendered
// operand, produced by Disassemble and printed by cmd/gel's --dump-ast/
// --dump-flow-graph flags SPEC_FULL.md's EXTERNAL INTERFACES describe.
type Line struct {
	Offset  int
	Op      Opcode
	Operand string
}

func (l Line) String() string {
	if l.Operand == "" {
		return fmt.Sprintf("%04d  %s", l.Offset, l.Op)
	}
	return fmt.Sprintf("%04d  %-14s %s", l.Offset, l.Op, l.Operand)
}

// Disassemble decodes code into a sequence of Lines, resolving PushConst/
// LoadGlobal/StoreGlobal operands against constants. It is the exact
// inverse of Assembler: Disassemble(asm.Bytes()) round-trips to the same
// mnemonics/operands the caller fed the Assembler, modulo short vs. long
// local-index encoding: a short form renders with the index in its
// mnemonic and no operand (lload0), a long form with the index as its
// operand (lload 5).
func Disassemble(code []byte, constants []string) ([]Line, error) {
	var lines []Line
	ip := 0
	for ip < len(code) {
		start := ip
		op, next := Decode(code, ip)
		if next > len(code) {
			return nil, fmt.Errorf("vm: truncated operand for %s at offset %d", op, ip)
		}
		operand, err := renderOperand(op, code, start, constants)
		if err != nil {
			return nil, err
		}
		lines = append(lines, Line{Offset: start, Op: op, Operand: operand})
		ip = next
	}
	return lines, nil
}

func renderOperand(op Opcode, code []byte, ip int, constants []string) (string, error) {
	at := operandOffset(ip)
	switch op {
	case PushInt:
		return strconv.FormatInt(ReadInt64(code, at), 10), nil
	case PushDouble:
		return strconv.FormatFloat(ReadFloat64(code, at), 'g', -1, 64), nil
	case PushConst, LoadGlobal, StoreGlobal:
		idx := ReadUint16(code, at)
		return constantRef(constants, idx), nil
	case LLoad, LStore:
		return strconv.Itoa(int(ReadUint16(code, at))), nil
	case Jump, JumpIfTrue, JumpIfFalse, Jeq, Jne:
		rel := ReadInt32(code, at)
		target := at + 4 + int(rel)
		return strconv.Itoa(target), nil
	case Invoke, InvokeNative:
		id := ReadUint16(code, at)
		argc := ReadUint8(code, at+2)
		return fmt.Sprintf("%d, %d", id, argc), nil
	case InvokeDynamic:
		return strconv.Itoa(int(ReadUint8(code, at))), nil
	case CheckInstance, IsInstance:
		return strconv.Itoa(int(ReadUint16(code, at))), nil
	case NewArray:
		return strconv.Itoa(int(ReadUint16(code, at))), nil
	default:
		return "", nil
	}
}

func constantRef(constants []string, idx uint16) string {
	if int(idx) < len(constants) {
		return strconv.Quote(constants[idx])
	}
	return fmt.Sprintf("#%d", idx)
}

// Format renders a full Disassemble result as one line per instruction.
func Format(lines []Line) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.String())
		b.WriteByte('\n')
	}
	return b.String()
}
