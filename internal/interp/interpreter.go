package interp

import (
	"fmt"

	"github.com/s0cks/gel/internal/heap"
	"github.com/s0cks/gel/internal/local"
	"github.com/s0cks/gel/internal/object"
	"github.com/s0cks/gel/internal/vm"
)

// Host is everything the interpreter needs from its embedding Runtime:
// the heap to allocate through, the class/native registry bytecode
// addresses resolve against, and the global namespace loadglobal/
// storeglobal read and write. Declaring it here (rather than importing
// internal/runtime) keeps the dependency edge pointing the other way:
// Runtime depends on Interpreter, not vice versa.
type Host interface {
	Heap() *heap.Heap
	Registry() *object.Registry
	LambdaByID(id int) (*object.Lambda, bool)
	LoadGlobal(name string) (heap.Address, bool)
	StoreGlobal(name string, addr heap.Address)
}

// Interpreter is gel's bytecode VM: one shared operand stack threaded
// through a stack of call Frames. Grounded on gel::Interpreter
// (original_source/Sources/gel/interpreter.cc) for call/return/truth-test
// semantics, restructured per SPEC_FULL.md §4.7 into a true byte-level
// fetch/decode/execute loop (see DESIGN.md).
type Interpreter struct {
	host    Host
	operand []heap.Address
	frames  []*Frame
}

// New builds an Interpreter bound to host.
func New(host Host) *Interpreter { return &Interpreter{host: host} }

// VisitRoots reports every Address currently reachable from the
// interpreter's live state: the operand stack and every active Frame's
// LocalScope. Runtime folds this into its own RootProvider implementation.
func (in *Interpreter) VisitRoots(visit func(*heap.Address) bool) bool {
	for i := range in.operand {
		if in.operand[i].IsUnallocated() {
			continue
		}
		if !visit(&in.operand[i]) {
			return false
		}
	}
	for _, f := range in.frames {
		if !f.VisitPointers(visit) {
			return false
		}
	}
	return true
}

func (in *Interpreter) push(addr heap.Address) { in.operand = append(in.operand, addr) }

func (in *Interpreter) pop() (heap.Address, error) {
	if len(in.operand) == 0 {
		return heap.Unallocated, fmt.Errorf("interp: operand stack underflow")
	}
	addr := in.operand[len(in.operand)-1]
	in.operand = in.operand[:len(in.operand)-1]
	return addr, nil
}

func (in *Interpreter) derefNumber(addr heap.Address) (heap.Object, error) {
	obj, ok := in.host.Heap().Deref(addr)
	if !ok {
		return nil, fmt.Errorf("interp: dangling reference %v", addr)
	}
	return obj, nil
}

// Run executes code/constants with locals in scope, returning the Address
// left on top of the operand stack by the terminating ret. It is safe to
// call re-entrantly (invoke pushes a nested Frame and resumes this same
// loop), so gel's call stack is this Go function's own recursion, not a
// hand-rolled trampoline.
func (in *Interpreter) Run(code []byte, constants []string, scope *local.Scope) (heap.Address, error) {
	frame := &Frame{Code: code, Constants: constants, IP: 0, Scope: scope}
	in.frames = append(in.frames, frame)
	defer func() { in.frames = in.frames[:len(in.frames)-1] }()

	baseDepth := len(in.operand)
	for {
		op, next := vm.Decode(frame.Code, frame.IP)
		switch op {
		case vm.Nop:
			frame.IP = next

		case vm.PushNull:
			addr, err := in.allocate(&object.Pair{Car: heap.Unallocated, Cdr: heap.Unallocated})
			if err != nil {
				return heap.Unallocated, err
			}
			in.push(addr)
			frame.IP = next

		case vm.PushTrue:
			addr, err := in.allocate(&object.Bool{Value: true})
			if err != nil {
				return heap.Unallocated, err
			}
			in.push(addr)
			frame.IP = next

		case vm.PushFalse:
			addr, err := in.allocate(&object.Bool{Value: false})
			if err != nil {
				return heap.Unallocated, err
			}
			in.push(addr)
			frame.IP = next

		case vm.PushInt:
			v := vm.ReadInt64(frame.Code, frame.IP+1)
			addr, err := in.allocate(&object.Long{Value: v})
			if err != nil {
				return heap.Unallocated, err
			}
			in.push(addr)
			frame.IP = next

		case vm.PushDouble:
			v := vm.ReadFloat64(frame.Code, frame.IP+1)
			addr, err := in.allocate(&object.Double{Value: v})
			if err != nil {
				return heap.Unallocated, err
			}
			in.push(addr)
			frame.IP = next

		case vm.PushConst:
			idx := vm.ReadUint16(frame.Code, frame.IP+1)
			s := frame.Constants[idx]
			addr, err := in.allocate(&object.String{Value: s})
			if err != nil {
				return heap.Unallocated, err
			}
			in.push(addr)
			frame.IP = next

		case vm.Pop:
			if _, err := in.pop(); err != nil {
				return heap.Unallocated, err
			}
			frame.IP = next

		case vm.Dup:
			top, err := in.pop()
			if err != nil {
				return heap.Unallocated, err
			}
			in.push(top)
			in.push(top)
			frame.IP = next

		case vm.Swap:
			b, err := in.pop()
			if err != nil {
				return heap.Unallocated, err
			}
			a, err := in.pop()
			if err != nil {
				return heap.Unallocated, err
			}
			in.push(b)
			in.push(a)
			frame.IP = next

		case vm.LLoad0, vm.LLoad1, vm.LLoad2, vm.LLoad3:
			if err := in.loadLocal(frame, vm.ShortLocalIndex(op)); err != nil {
				return heap.Unallocated, err
			}
			frame.IP = next

		case vm.LLoad:
			idx := int(vm.ReadUint16(frame.Code, frame.IP+1))
			if err := in.loadLocal(frame, idx); err != nil {
				return heap.Unallocated, err
			}
			frame.IP = next

		case vm.LStore0, vm.LStore1, vm.LStore2, vm.LStore3:
			if err := in.storeLocal(frame, vm.ShortLocalIndex(op)); err != nil {
				return heap.Unallocated, err
			}
			frame.IP = next

		case vm.LStore:
			idx := int(vm.ReadUint16(frame.Code, frame.IP+1))
			if err := in.storeLocal(frame, idx); err != nil {
				return heap.Unallocated, err
			}
			frame.IP = next

		case vm.Add, vm.Sub, vm.Mul, vm.Div, vm.Mod:
			if err := in.binaryArith(op); err != nil {
				return heap.Unallocated, err
			}
			frame.IP = next

		case vm.Neg:
			if err := in.unaryNeg(); err != nil {
				return heap.Unallocated, err
			}
			frame.IP = next

		case vm.CmpEq, vm.CmpLt, vm.CmpGt, vm.CmpLe, vm.CmpGe:
			if err := in.compare(op); err != nil {
				return heap.Unallocated, err
			}
			frame.IP = next

		case vm.Not:
			v, err := in.pop()
			if err != nil {
				return heap.Unallocated, err
			}
			obj, err := in.derefNumber(v)
			if err != nil {
				return heap.Unallocated, err
			}
			addr, err := in.allocate(&object.Bool{Value: !object.Truthy(obj)})
			if err != nil {
				return heap.Unallocated, err
			}
			in.push(addr)
			frame.IP = next

		case vm.Cons:
			// car/cdr are left on the operand stack (rather than popped
			// first) across the allocation: if allocating the Pair
			// triggers a collection, the stack slots are visited as roots
			// and relocated in place, so the Pair we build afterward reads
			// the post-collection Addresses instead of baking in stale
			// ones a collector pass would have no way to fix up later.
			if len(in.operand) < 2 {
				return heap.Unallocated, fmt.Errorf("interp: operand stack underflow")
			}
			addr, err := in.allocate(object.NewPair(heap.Unallocated, heap.Unallocated))
			if err != nil {
				return heap.Unallocated, err
			}
			car := in.operand[len(in.operand)-2]
			cdr := in.operand[len(in.operand)-1]
			pair, _ := in.host.Heap().Deref(addr)
			pair.(*object.Pair).Car = car
			pair.(*object.Pair).Cdr = cdr
			in.operand = in.operand[:len(in.operand)-2]
			in.push(addr)
			frame.IP = next

		case vm.Car, vm.Cdr:
			v, err := in.pop()
			if err != nil {
				return heap.Unallocated, err
			}
			obj, err := in.derefNumber(v)
			if err != nil {
				return heap.Unallocated, err
			}
			pair, ok := obj.(*object.Pair)
			if !ok {
				return heap.Unallocated, fmt.Errorf("interp: %s on non-Pair %s", op, obj.ClassName())
			}
			if op == vm.Car {
				in.push(pair.Car)
			} else {
				in.push(pair.Cdr)
			}
			frame.IP = next

		case vm.IsNull:
			v, err := in.pop()
			if err != nil {
				return heap.Unallocated, err
			}
			obj, err := in.derefNumber(v)
			if err != nil {
				return heap.Unallocated, err
			}
			pair, isPair := obj.(*object.Pair)
			addr, err := in.allocate(&object.Bool{Value: isPair && pair.IsEmpty()})
			if err != nil {
				return heap.Unallocated, err
			}
			in.push(addr)
			frame.IP = next

		case vm.Jump:
			frame.IP = in.jumpTarget(frame, next)

		case vm.JumpIfTrue, vm.JumpIfFalse:
			v, err := in.pop()
			if err != nil {
				return heap.Unallocated, err
			}
			obj, err := in.derefNumber(v)
			if err != nil {
				return heap.Unallocated, err
			}
			truthy := object.Truthy(obj)
			if (op == vm.JumpIfTrue) == truthy {
				frame.IP = in.jumpTarget(frame, next)
			} else {
				frame.IP = next
			}

		case vm.Jeq, vm.Jne:
			v, err := in.pop()
			if err != nil {
				return heap.Unallocated, err
			}
			obj, err := in.derefNumber(v)
			if err != nil {
				return heap.Unallocated, err
			}
			isZero := isZeroValue(obj)
			if (op == vm.Jeq) == isZero {
				frame.IP = in.jumpTarget(frame, next)
			} else {
				frame.IP = next
			}

		case vm.Invoke:
			id := int(vm.ReadUint16(frame.Code, frame.IP+1))
			argc := int(vm.ReadUint8(frame.Code, frame.IP+3))
			result, err := in.invokeLambda(id, argc)
			if err != nil {
				return heap.Unallocated, err
			}
			in.push(result)
			frame.IP = next

		case vm.InvokeNative:
			id := int(vm.ReadUint16(frame.Code, frame.IP+1))
			argc := int(vm.ReadUint8(frame.Code, frame.IP+3))
			result, err := in.invokeNative(id, argc)
			if err != nil {
				return heap.Unallocated, err
			}
			in.push(result)
			frame.IP = next

		case vm.InvokeDynamic:
			return heap.Unallocated, fmt.Errorf("interp: invokedynamic is not yet bound to a callable representation")

		case vm.Ret:
			result, err := in.pop()
			if err != nil {
				return heap.Unallocated, err
			}
			if len(in.operand) != baseDepth {
				return heap.Unallocated, fmt.Errorf("interp: operand stack imbalance at return: depth %d, want %d", len(in.operand), baseDepth)
			}
			return result, nil

		case vm.CheckInstance, vm.IsInstance:
			if err := in.checkInstance(op, frame); err != nil {
				return heap.Unallocated, err
			}
			frame.IP = next

		case vm.NewArray:
			length := int(vm.ReadUint16(frame.Code, frame.IP+1))
			addr, err := in.allocate(object.NewArray(length))
			if err != nil {
				return heap.Unallocated, err
			}
			in.push(addr)
			frame.IP = next

		case vm.ArrayGet:
			if err := in.arrayGet(); err != nil {
				return heap.Unallocated, err
			}
			frame.IP = next

		case vm.ArraySet:
			if err := in.arraySet(); err != nil {
				return heap.Unallocated, err
			}
			frame.IP = next

		case vm.ArrayLength:
			v, err := in.pop()
			if err != nil {
				return heap.Unallocated, err
			}
			obj, err := in.derefNumber(v)
			if err != nil {
				return heap.Unallocated, err
			}
			arr, ok := obj.(*object.Array)
			if !ok {
				return heap.Unallocated, fmt.Errorf("interp: arraylength on non-Array %s", obj.ClassName())
			}
			addr, err := in.allocate(&object.Long{Value: int64(len(arr.Elements))})
			if err != nil {
				return heap.Unallocated, err
			}
			in.push(addr)
			frame.IP = next

		case vm.LoadGlobal:
			idx := vm.ReadUint16(frame.Code, frame.IP+1)
			name := frame.Constants[idx]
			addr, ok := in.host.LoadGlobal(name)
			if !ok {
				return heap.Unallocated, fmt.Errorf("interp: unbound global %q", name)
			}
			in.push(addr)
			frame.IP = next

		case vm.StoreGlobal:
			idx := vm.ReadUint16(frame.Code, frame.IP+1)
			name := frame.Constants[idx]
			top, err := in.pop()
			if err != nil {
				return heap.Unallocated, err
			}
			in.host.StoreGlobal(name, top)
			in.push(top)
			frame.IP = next

		case vm.Halt:
			return heap.Unallocated, fmt.Errorf("interp: halt")

		default:
			return heap.Unallocated, fmt.Errorf("interp: unimplemented opcode %s", op)
		}
	}
}

// jumpTarget resolves a jump's relative operand (stored right after the
// opcode byte, ending at `next`) into an absolute bytecode offset.
func (in *Interpreter) jumpTarget(frame *Frame, next int) int {
	operandEnd := next
	rel := vm.ReadInt32(frame.Code, operandEnd-4)
	return operandEnd + int(rel)
}

func isZeroValue(obj heap.Object) bool {
	switch v := obj.(type) {
	case *object.Long:
		return v.Value == 0
	case *object.Double:
		return v.Value == 0
	case *object.Bool:
		return !v.Value
	default:
		return false
	}
}

func (in *Interpreter) allocate(obj heap.Object) (heap.Address, error) {
	return in.host.Heap().TryAllocate(obj.PayloadSize(), obj)
}

func (in *Interpreter) loadLocal(frame *Frame, index int) error {
	v, ok := frame.Scope.LocalAt(index)
	if !ok {
		return fmt.Errorf("interp: no local at index %d", index)
	}
	in.push(v.Value)
	return nil
}

func (in *Interpreter) storeLocal(frame *Frame, index int) error {
	v, ok := frame.Scope.LocalAt(index)
	if !ok {
		return fmt.Errorf("interp: no local at index %d", index)
	}
	top, err := in.pop()
	if err != nil {
		return err
	}
	v.Value = top
	in.push(top)
	return nil
}
