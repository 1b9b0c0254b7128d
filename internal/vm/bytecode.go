// Package vm implements gel's bytecode instruction set and the Assembler
// that emits it: the byte-level fetch/decode/execute target described in
// SPEC_FULL.md §4.5/§4.7, grounded on gel::Bytecode
// (original_source/Sources/gel/bytecode.h) and gel::AssemblerBase/
// AssemblerVM (assembler_base.h, assembler_vm.h, assembler_vm.cc).
//
// Opcode and its mnemonics table are maintained by hand in this file.
// internal/vm/gen holds a separate generator for a mnemonic list, modelled
// on ymm135-go's go:generate-produced opcode tables; its output is not used
// by the build.
package vm

// Opcode identifies one bytecode instruction. The low short-form opcodes
// (LLoad0..3, LStore0..3) deliberately carry no operand bytes: the local
// index is baked into the opcode itself, the same space/speed tradeoff
// gel's own assembler_vm.cc makes for index<=3.
type Opcode uint8

const (
	Nop Opcode = iota
	PushNull
	PushTrue
	PushFalse
	PushInt    // int64 immediate
	PushDouble // float64 immediate
	PushConst  // uint16 constant-pool index (String/Symbol)
	Pop
	Dup
	Swap

	LLoad0
	LLoad1
	LLoad2
	LLoad3
	LLoad // uint16 index

	LStore0
	LStore1
	LStore2
	LStore3
	LStore // uint16 index

	Add
	Sub
	Mul
	Div
	Mod
	Neg

	CmpEq
	CmpLt
	CmpGt
	CmpLe
	CmpGe
	Not

	Cons
	Car
	Cdr
	IsNull

	Jump        // int32 relative offset
	JumpIfTrue  // int32 relative offset, pops and tests truthiness
	JumpIfFalse // int32 relative offset, pops and tests truthiness
	Jeq         // int32 relative offset, pops and jumps if numeric zero / #f
	Jne         // int32 relative offset, pops and jumps unless numeric zero / #f

	Invoke        // uint16 lambda ID, uint8 argc
	InvokeNative  // uint16 native ID, uint8 argc
	InvokeDynamic // uint8 argc; callee Address popped from the stack
	Ret

	CheckInstance // uint16 class ID; pushes an Error instead of TOS on mismatch
	IsInstance    // uint16 class ID; pushes a Bool

	NewArray // uint16 length
	ArrayGet
	ArraySet
	ArrayLength

	LoadGlobal  // uint16 constant-pool index naming the global
	StoreGlobal // uint16 constant-pool index naming the global

	Halt

	numOpcodes
)

var mnemonics = [numOpcodes]string{
	Nop: "nop", PushNull: "pushnull", PushTrue: "pushtrue", PushFalse: "pushfalse",
	PushInt: "pushi", PushDouble: "pushd", PushConst: "pushc", Pop: "pop", Dup: "dup", Swap: "swap",
	LLoad0: "lload0", LLoad1: "lload1", LLoad2: "lload2", LLoad3: "lload3", LLoad: "lload",
	LStore0: "lstore0", LStore1: "lstore1", LStore2: "lstore2", LStore3: "lstore3", LStore: "lstore",
	Add: "add", Sub: "sub", Mul: "mul", Div: "div", Mod: "mod", Neg: "neg",
	CmpEq: "cmpeq", CmpLt: "cmplt", CmpGt: "cmpgt", CmpLe: "cmple", CmpGe: "cmpge", Not: "not",
	Cons: "cons", Car: "car", Cdr: "cdr", IsNull: "isnull",
	Jump: "jump", JumpIfTrue: "jiftrue", JumpIfFalse: "jiffalse", Jeq: "jeq", Jne: "jne",
	Invoke: "invoke", InvokeNative: "invokenative", InvokeDynamic: "invokedynamic", Ret: "ret",
	CheckInstance: "checkinstance", IsInstance: "isinstance",
	NewArray: "newarray", ArrayGet: "arrayget", ArraySet: "arrayset", ArrayLength: "arraylength",
	LoadGlobal: "loadglobal", StoreGlobal: "storeglobal",
	Halt: "halt",
}

// String renders op's mnemonic, or "op(?)" for an out-of-range value.
func (op Opcode) String() string {
	if int(op) < len(mnemonics) && mnemonics[op] != "" {
		return mnemonics[op]
	}
	return "op(?)"
}

// operandWidths gives the fixed operand size, in bytes, following each
// opcode byte. Opcodes not listed take zero operand bytes.
var operandWidths = map[Opcode]int{
	PushInt: 8, PushDouble: 8, PushConst: 2,
	LLoad: 2, LStore: 2,
	Jump: 4, JumpIfTrue: 4, JumpIfFalse: 4, Jeq: 4, Jne: 4,
	Invoke: 3, InvokeNative: 3, InvokeDynamic: 1,
	CheckInstance: 2, IsInstance: 2,
	NewArray: 2,
	LoadGlobal: 2, StoreGlobal: 2,
}

// OperandWidth returns the number of operand bytes that follow op's opcode
// byte in an assembled stream.
func OperandWidth(op Opcode) int { return operandWidths[op] }
