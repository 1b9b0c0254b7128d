package ir

import "github.com/s0cks/gel/internal/vm"

// PushInt pushes an immediate Long. Grounded on instruction_vm.cc's
// ConstantInstr::Compile lowering a Long constant to pushi.
type PushInt struct{ Value int64 }

func (i PushInt) compile(c *compiler) error { c.asm.PushInt(i.Value); return nil }

// PushDouble pushes an immediate Double.
type PushDouble struct{ Value float64 }

func (i PushDouble) compile(c *compiler) error { c.asm.PushDouble(i.Value); return nil }

// PushBool pushes #t or #f.
type PushBool struct{ Value bool }

func (i PushBool) compile(c *compiler) error {
	if i.Value {
		c.asm.PushTrue()
	} else {
		c.asm.PushFalse()
	}
	return nil
}

// PushNull pushes gel's '().
type PushNull struct{}

func (PushNull) compile(c *compiler) error { c.asm.PushNull(); return nil }

// PushConst pushes an interned String/Symbol constant.
type PushConst struct{ Value string }

func (i PushConst) compile(c *compiler) error { c.asm.PushConst(i.Value); return nil }

// LoadLocal reads LocalScope slot Index. Grounded on
// instruction_vm.cc's LoadLocalInstr::Compile, which picks the short
// lload0..3 encoding for index<=3 via Assembler.LLoad itself.
type LoadLocal struct{ Index int }

func (i LoadLocal) compile(c *compiler) error { c.asm.LLoad(i.Index); return nil }

// StoreLocal writes LocalScope slot Index, leaving the value on the stack
// (gel's set! returns the assigned value, per instruction_vm.cc's
// StoreLocalInstr::Compile).
type StoreLocal struct{ Index int }

func (i StoreLocal) compile(c *compiler) error { c.asm.LStore(i.Index); return nil }

// Op wraps a bare, operand-less vm.Opcode: the arithmetic, comparison,
// stack-shuffling and pair instructions all share this one IR node since
// their compilation is a direct 1:1 opcode emission.
type Op struct{ Code vm.Opcode }

func (i Op) compile(c *compiler) error { c.emitBare(i.Code); return nil }

func Add() Op     { return Op{vm.Add} }
func Sub() Op     { return Op{vm.Sub} }
func Mul() Op     { return Op{vm.Mul} }
func Div() Op     { return Op{vm.Div} }
func Mod() Op     { return Op{vm.Mod} }
func Neg() Op     { return Op{vm.Neg} }
func CmpEq() Op   { return Op{vm.CmpEq} }
func CmpLt() Op   { return Op{vm.CmpLt} }
func CmpGt() Op   { return Op{vm.CmpGt} }
func CmpLe() Op   { return Op{vm.CmpLe} }
func CmpGe() Op   { return Op{vm.CmpGe} }
func Not() Op     { return Op{vm.Not} }
func Cons() Op    { return Op{vm.Cons} }
func Car() Op     { return Op{vm.Car} }
func Cdr() Op     { return Op{vm.Cdr} }
func IsNull() Op  { return Op{vm.IsNull} }
func Pop() Op     { return Op{vm.Pop} }
func Dup() Op     { return Op{vm.Dup} }
func Swap() Op    { return Op{vm.Swap} }
func ArrayGet() Op    { return Op{vm.ArrayGet} }
func ArraySet() Op    { return Op{vm.ArraySet} }
func ArrayLength() Op { return Op{vm.ArrayLength} }

// NewArray allocates a fixed-length Array.
type NewArray struct{ Length uint16 }

func (i NewArray) compile(c *compiler) error { c.asm.NewArray(i.Length); return nil }

// Invoke calls a compiled Lambda by its registry ID.
type Invoke struct {
	LambdaID uint16
	Argc     uint8
}

func (i Invoke) compile(c *compiler) error { c.asm.Invoke(i.LambdaID, i.Argc); return nil }

// InvokeNative calls a bridged Go function by its registry ID.
type InvokeNative struct {
	NativeID uint16
	Argc     uint8
}

func (i InvokeNative) compile(c *compiler) error { c.asm.InvokeNative(i.NativeID, i.Argc); return nil }

// InvokeDynamic emits an invokedynamic instruction for a callable value on
// top of the stack (above the arguments). The interpreter does not execute
// invokedynamic: running it returns an error.
type InvokeDynamic struct{ Argc uint8 }

func (i InvokeDynamic) compile(c *compiler) error { c.asm.InvokeDynamic(i.Argc); return nil }

// CheckInstance asserts TOS is an instance of ClassID, replacing it with
// an Error value instead of trapping when it isn't — gel's checkinstance
// testable property.
type CheckInstance struct{ ClassID uint16 }

func (i CheckInstance) compile(c *compiler) error { c.asm.CheckInstance(i.ClassID); return nil }

// IsInstance pushes a Bool instead of erroring.
type IsInstance struct{ ClassID uint16 }

func (i IsInstance) compile(c *compiler) error { c.asm.IsInstance(i.ClassID); return nil }

// LoadGlobal/StoreGlobal access the Runtime's top-level namespace.
type LoadGlobal struct{ Name string }

func (i LoadGlobal) compile(c *compiler) error { c.asm.LoadGlobal(i.Name); return nil }

type StoreGlobal struct{ Name string }

func (i StoreGlobal) compile(c *compiler) error { c.asm.StoreGlobal(i.Name); return nil }

// --- Terminators -----------------------------------------------------------

// ReturnInstr pops TOS and returns it to the caller. Every Block not ending
// in Goto/Branch must end in one of these.
type ReturnInstr struct{}

func (ReturnInstr) isTerminator() {}
func (ReturnInstr) compile(c *compiler) error {
	c.asm.Ret()
	return nil
}

// GotoInstr unconditionally transfers control to Target.
type GotoInstr struct{ Target *Block }

func (GotoInstr) isTerminator() {}
func (i GotoInstr) compile(c *compiler) error {
	c.asm.Jump(i.Target.label)
	return nil
}

// BranchInstr pops TOS, applies gel's truthiness test (anything but #f and
// '() is true) and transfers to True or False accordingly. Grounded on
// instruction_vm.cc's BranchInstr::Compile, which the original lowers to a
// single conditional jump plus a fallthrough; this port always emits both
// a conditional and an unconditional jump so block ORDER never affects
// correctness.
type BranchInstr struct{ True, False *Block }

func (BranchInstr) isTerminator() {}
func (i BranchInstr) compile(c *compiler) error {
	c.asm.JumpIfFalse(i.False.label)
	c.asm.Jump(i.True.label)
	return nil
}
