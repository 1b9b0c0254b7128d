package vm

import (
	"fmt"
	"math"
)

// Assembler builds one Lambda/Macro body's bytecode, plus the constant
// pool its PushConst/LoadGlobal/StoreGlobal operands index into. Grounded
// on gel::AssemblerVM (original_source/Sources/gel/assembler_vm.h,
// assembler_vm.cc).
type Assembler struct {
	buf       Buffer
	constants []string
	constIdx  map[string]uint16
}

// NewAssembler returns an empty Assembler ready to emit.
func NewAssembler() *Assembler {
	return &Assembler{constIdx: make(map[string]uint16)}
}

// Pos returns the current write position, the value a freshly created
// Label should be bound to if "here" is the target.
func (a *Assembler) Pos() int { return a.buf.Len() }

// Constants returns the assembled constant pool in index order.
func (a *Assembler) Constants() []string { return a.constants }

// Bytes returns the assembled instruction stream.
func (a *Assembler) Bytes() []byte { return a.buf.Bytes() }

// Intern adds s to the constant pool if not already present and returns
// its index.
func (a *Assembler) Intern(s string) uint16 {
	if idx, ok := a.constIdx[s]; ok {
		return idx
	}
	idx := uint16(len(a.constants))
	a.constants = append(a.constants, s)
	a.constIdx[s] = idx
	return idx
}

func (a *Assembler) emitOp(op Opcode) { a.buf.emit8(uint8(op)) }

// EmitBare emits a bare, operand-less opcode directly. It exists for
// callers (internal/ir's generic Op instruction) that hold an Opcode value
// rather than calling a named method, and panics if op is one of the
// opcodes that requires operand bytes — those must go through their
// dedicated method so the operand actually gets written.
func (a *Assembler) EmitBare(op Opcode) {
	if OperandWidth(op) != 0 {
		panic(fmt.Sprintf("vm: %s requires operand bytes, use its dedicated Assembler method", op))
	}
	a.emitOp(op)
}

// --- Label binding -------------------------------------------------------

// Bind fixes l to the current position and patches every forward reference
// emitted against it so far, walking the reverse-linked chain of
// unresolved sites stored in label.go's doc comment.
func (a *Assembler) Bind(l *Label) {
	if l.bound {
		panic("vm: label already bound")
	}
	l.position = a.buf.Len()
	l.bound = true

	site := l.link
	for site != unresolvedSentinel {
		next := a.buf.loadInt32At(int(site))
		rel := int32(l.position) - (site + 4)
		a.buf.storeInt32At(int(site), rel)
		site = next
	}
	l.link = unresolvedSentinel
}

// emitJump writes op followed by either a resolved relative offset (if l
// is already bound) or a placeholder that threads into l's unresolved
// chain for Bind to patch later.
func (a *Assembler) emitJump(op Opcode, l *Label) {
	a.emitOp(op)
	site := a.buf.Len()
	if l.bound {
		rel := int32(l.position) - (int32(site) + 4)
		a.buf.emit32(uint32(rel))
		return
	}
	a.buf.emit32(uint32(l.link))
	l.link = int32(site)
}

// --- Instruction emitters --------------------------------------------------

func (a *Assembler) Nop()       { a.emitOp(Nop) }
func (a *Assembler) PushNull()  { a.emitOp(PushNull) }
func (a *Assembler) PushTrue()  { a.emitOp(PushTrue) }
func (a *Assembler) PushFalse() { a.emitOp(PushFalse) }

func (a *Assembler) PushInt(v int64) {
	a.emitOp(PushInt)
	a.buf.emit64(uint64(v))
}

func (a *Assembler) PushDouble(v float64) {
	a.emitOp(PushDouble)
	a.buf.emit64(math.Float64bits(v))
}

func (a *Assembler) PushConst(s string) {
	a.emitOp(PushConst)
	a.buf.emit16(a.Intern(s))
}

func (a *Assembler) Pop()  { a.emitOp(Pop) }
func (a *Assembler) Dup()  { a.emitOp(Dup) }
func (a *Assembler) Swap() { a.emitOp(Swap) }

// LLoad emits the short encoding for index 0..3, the two-byte-operand form
// otherwise, matching the original's size/speed cutoff.
func (a *Assembler) LLoad(index int) {
	switch index {
	case 0:
		a.emitOp(LLoad0)
	case 1:
		a.emitOp(LLoad1)
	case 2:
		a.emitOp(LLoad2)
	case 3:
		a.emitOp(LLoad3)
	default:
		a.emitOp(LLoad)
		a.buf.emit16(uint16(index))
	}
}

func (a *Assembler) LStore(index int) {
	switch index {
	case 0:
		a.emitOp(LStore0)
	case 1:
		a.emitOp(LStore1)
	case 2:
		a.emitOp(LStore2)
	case 3:
		a.emitOp(LStore3)
	default:
		a.emitOp(LStore)
		a.buf.emit16(uint16(index))
	}
}

func (a *Assembler) Add() { a.emitOp(Add) }
func (a *Assembler) Sub() { a.emitOp(Sub) }
func (a *Assembler) Mul() { a.emitOp(Mul) }
func (a *Assembler) Div() { a.emitOp(Div) }
func (a *Assembler) Mod() { a.emitOp(Mod) }
func (a *Assembler) Neg() { a.emitOp(Neg) }

func (a *Assembler) CmpEq() { a.emitOp(CmpEq) }
func (a *Assembler) CmpLt() { a.emitOp(CmpLt) }
func (a *Assembler) CmpGt() { a.emitOp(CmpGt) }
func (a *Assembler) CmpLe() { a.emitOp(CmpLe) }
func (a *Assembler) CmpGe() { a.emitOp(CmpGe) }
func (a *Assembler) Not()   { a.emitOp(Not) }

func (a *Assembler) Cons()   { a.emitOp(Cons) }
func (a *Assembler) Car()    { a.emitOp(Car) }
func (a *Assembler) Cdr()    { a.emitOp(Cdr) }
func (a *Assembler) IsNull() { a.emitOp(IsNull) }

func (a *Assembler) Jump(l *Label)        { a.emitJump(Jump, l) }
func (a *Assembler) JumpIfTrue(l *Label)  { a.emitJump(JumpIfTrue, l) }
func (a *Assembler) JumpIfFalse(l *Label) { a.emitJump(JumpIfFalse, l) }
func (a *Assembler) Jeq(l *Label)         { a.emitJump(Jeq, l) }
func (a *Assembler) Jne(l *Label)         { a.emitJump(Jne, l) }

func (a *Assembler) Invoke(lambdaID uint16, argc uint8) {
	a.emitOp(Invoke)
	a.buf.emit16(lambdaID)
	a.buf.emit8(argc)
}

func (a *Assembler) InvokeNative(nativeID uint16, argc uint8) {
	a.emitOp(InvokeNative)
	a.buf.emit16(nativeID)
	a.buf.emit8(argc)
}

func (a *Assembler) InvokeDynamic(argc uint8) {
	a.emitOp(InvokeDynamic)
	a.buf.emit8(argc)
}

func (a *Assembler) Ret() { a.emitOp(Ret) }

func (a *Assembler) CheckInstance(classID uint16) {
	a.emitOp(CheckInstance)
	a.buf.emit16(classID)
}

func (a *Assembler) IsInstance(classID uint16) {
	a.emitOp(IsInstance)
	a.buf.emit16(classID)
}

func (a *Assembler) NewArray(length uint16) {
	a.emitOp(NewArray)
	a.buf.emit16(length)
}

func (a *Assembler) ArrayGet()    { a.emitOp(ArrayGet) }
func (a *Assembler) ArraySet()    { a.emitOp(ArraySet) }
func (a *Assembler) ArrayLength() { a.emitOp(ArrayLength) }

func (a *Assembler) LoadGlobal(name string) {
	a.emitOp(LoadGlobal)
	a.buf.emit16(a.Intern(name))
}

func (a *Assembler) StoreGlobal(name string) {
	a.emitOp(StoreGlobal)
	a.buf.emit16(a.Intern(name))
}

func (a *Assembler) Halt() { a.emitOp(Halt) }

// Validate performs a cheap structural sanity check: every label created
// via NewLabel and referenced through this Assembler must end up bound.
// internal/script's ParseAssemblyProgram calls this after assembling a
// program to catch a jump to a label that was never defined.
func Validate(labels ...*Label) error {
	for i, l := range labels {
		if !l.bound {
			return fmt.Errorf("vm: label %d was referenced but never bound", i)
		}
	}
	return nil
}
