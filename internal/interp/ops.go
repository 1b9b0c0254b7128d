package interp

import (
	"fmt"

	"github.com/s0cks/gel/internal/heap"
	"github.com/s0cks/gel/internal/local"
	"github.com/s0cks/gel/internal/object"
	"github.com/s0cks/gel/internal/vm"
)

// binaryArith implements add/sub/mul/div/mod. Operands pop in reverse push
// order (b then a), matching a stack machine's usual left-to-right push
// convention: `pushi 10; pushi 11; sub` computes 10-11, not 11-10.
// Whenever either operand is a Double the result promotes to Double,
// mirroring gel's numeric tower (see object.AsFloat64).
func (in *Interpreter) binaryArith(op vm.Opcode) error {
	bAddr, err := in.pop()
	if err != nil {
		return err
	}
	aAddr, err := in.pop()
	if err != nil {
		return err
	}
	aObj, err := in.derefNumber(aAddr)
	if err != nil {
		return err
	}
	bObj, err := in.derefNumber(bAddr)
	if err != nil {
		return err
	}

	aLong, aIsLong := aObj.(*object.Long)
	bLong, bIsLong := bObj.(*object.Long)
	if aIsLong && bIsLong {
		result, err := longArith(op, aLong.Value, bLong.Value)
		if err != nil {
			return err
		}
		addr, err := in.allocate(&object.Long{Value: result})
		if err != nil {
			return err
		}
		in.push(addr)
		return nil
	}

	af, ok := object.AsFloat64(aObj)
	if !ok {
		return fmt.Errorf("interp: %s: operand is not a number: %s", op, aObj.ClassName())
	}
	bf, ok := object.AsFloat64(bObj)
	if !ok {
		return fmt.Errorf("interp: %s: operand is not a number: %s", op, bObj.ClassName())
	}
	result, err := floatArith(op, af, bf)
	if err != nil {
		return err
	}
	addr, err := in.allocate(&object.Double{Value: result})
	if err != nil {
		return err
	}
	in.push(addr)
	return nil
}

func longArith(op vm.Opcode, a, b int64) (int64, error) {
	switch op {
	case vm.Add:
		return a + b, nil
	case vm.Sub:
		return a - b, nil
	case vm.Mul:
		return a * b, nil
	case vm.Div:
		if b == 0 {
			return 0, fmt.Errorf("interp: division by zero")
		}
		return a / b, nil
	case vm.Mod:
		if b == 0 {
			return 0, fmt.Errorf("interp: modulo by zero")
		}
		return a % b, nil
	default:
		return 0, fmt.Errorf("interp: unsupported arithmetic opcode %s", op)
	}
}

func floatArith(op vm.Opcode, a, b float64) (float64, error) {
	switch op {
	case vm.Add:
		return a + b, nil
	case vm.Sub:
		return a - b, nil
	case vm.Mul:
		return a * b, nil
	case vm.Div:
		if b == 0 {
			return 0, fmt.Errorf("interp: division by zero")
		}
		return a / b, nil
	case vm.Mod:
		return 0, fmt.Errorf("interp: mod is not defined on Double operands")
	default:
		return 0, fmt.Errorf("interp: unsupported arithmetic opcode %s", op)
	}
}

func (in *Interpreter) unaryNeg() error {
	v, err := in.pop()
	if err != nil {
		return err
	}
	obj, err := in.derefNumber(v)
	if err != nil {
		return err
	}
	switch n := obj.(type) {
	case *object.Long:
		addr, err := in.allocate(&object.Long{Value: -n.Value})
		if err != nil {
			return err
		}
		in.push(addr)
	case *object.Double:
		addr, err := in.allocate(&object.Double{Value: -n.Value})
		if err != nil {
			return err
		}
		in.push(addr)
	default:
		return fmt.Errorf("interp: neg: operand is not a number: %s", obj.ClassName())
	}
	return nil
}

// compare implements cmpeq/cmplt/cmpgt/cmple/cmpge. cmpeq is gel's
// polymorphic eq?, total over every value kind (object.Equals, grounded on
// Object::Equals); the ordering comparisons remain numeric-only, matching
// gel's numeric tower (there is no total order over Pairs/Strings/Symbols).
func (in *Interpreter) compare(op vm.Opcode) error {
	bAddr, err := in.pop()
	if err != nil {
		return err
	}
	aAddr, err := in.pop()
	if err != nil {
		return err
	}
	aObj, err := in.derefNumber(aAddr)
	if err != nil {
		return err
	}
	bObj, err := in.derefNumber(bAddr)
	if err != nil {
		return err
	}

	if op == vm.CmpEq {
		result := object.Equals(in.host.Heap().Deref, aObj, bObj)
		addr, err := in.allocate(&object.Bool{Value: result})
		if err != nil {
			return err
		}
		in.push(addr)
		return nil
	}

	af, aok := object.AsFloat64(aObj)
	bf, bok := object.AsFloat64(bObj)
	if !aok || !bok {
		return fmt.Errorf("interp: %s: operands must be numbers", op)
	}
	var result bool
	switch op {
	case vm.CmpLt:
		result = af < bf
	case vm.CmpGt:
		result = af > bf
	case vm.CmpLe:
		result = af <= bf
	case vm.CmpGe:
		result = af >= bf
	}
	addr, err := in.allocate(&object.Bool{Value: result})
	if err != nil {
		return err
	}
	in.push(addr)
	return nil
}

// checkInstance implements both checkinstance (replace-with-Error on
// mismatch) and isinstance (always push a Bool).
func (in *Interpreter) checkInstance(op vm.Opcode, frame *Frame) error {
	classID := int(vm.ReadUint16(frame.Code, frame.IP+1))
	class, ok := in.host.Registry().ClassByID(classID)
	if !ok {
		return fmt.Errorf("interp: unknown class ID %d", classID)
	}
	top, err := in.pop()
	if err != nil {
		return err
	}
	obj, err := in.derefNumber(top)
	if err != nil {
		return err
	}
	objClass, ok := in.host.Registry().FindClass(obj.ClassName())
	matches := ok && objClass.IsInstanceOf(class)

	if op == vm.IsInstance {
		addr, err := in.allocate(&object.Bool{Value: matches})
		if err != nil {
			return err
		}
		in.push(addr)
		return nil
	}

	if matches {
		in.push(top)
		return nil
	}
	errObj := &object.Error{Message: fmt.Sprintf("expected instance of %s, got %s", class.Name, obj.ClassName())}
	addr, err := in.allocate(errObj)
	if err != nil {
		return err
	}
	in.push(addr)
	return nil
}

func (in *Interpreter) arrayGet() error {
	idxAddr, err := in.pop()
	if err != nil {
		return err
	}
	arrAddr, err := in.pop()
	if err != nil {
		return err
	}
	idxObj, err := in.derefNumber(idxAddr)
	if err != nil {
		return err
	}
	arrObj, err := in.derefNumber(arrAddr)
	if err != nil {
		return err
	}
	idx, ok := idxObj.(*object.Long)
	if !ok {
		return fmt.Errorf("interp: arrayget index must be a Long, got %s", idxObj.ClassName())
	}
	arr, ok := arrObj.(*object.Array)
	if !ok {
		return fmt.Errorf("interp: arrayget on non-Array %s", arrObj.ClassName())
	}
	if idx.Value < 0 || int(idx.Value) >= len(arr.Elements) {
		return fmt.Errorf("interp: array index %d out of range [0,%d)", idx.Value, len(arr.Elements))
	}
	in.push(arr.Elements[idx.Value])
	return nil
}

func (in *Interpreter) arraySet() error {
	valAddr, err := in.pop()
	if err != nil {
		return err
	}
	idxAddr, err := in.pop()
	if err != nil {
		return err
	}
	arrAddr, err := in.pop()
	if err != nil {
		return err
	}
	idxObj, err := in.derefNumber(idxAddr)
	if err != nil {
		return err
	}
	arrObj, err := in.derefNumber(arrAddr)
	if err != nil {
		return err
	}
	idx, ok := idxObj.(*object.Long)
	if !ok {
		return fmt.Errorf("interp: arrayset index must be a Long, got %s", idxObj.ClassName())
	}
	arr, ok := arrObj.(*object.Array)
	if !ok {
		return fmt.Errorf("interp: arrayset on non-Array %s", arrObj.ClassName())
	}
	if idx.Value < 0 || int(idx.Value) >= len(arr.Elements) {
		return fmt.Errorf("interp: array index %d out of range [0,%d)", idx.Value, len(arr.Elements))
	}
	arr.Elements[idx.Value] = valAddr
	in.push(valAddr)
	return nil
}

// popArgs pops argc Addresses and restores them to declaration order (the
// stack holds them with the last-pushed argument on top).
func (in *Interpreter) popArgs(argc int) ([]heap.Address, error) {
	args := make([]heap.Address, argc)
	for i := argc - 1; i >= 0; i-- {
		v, err := in.pop()
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (in *Interpreter) invokeLambda(id, argc int) (heap.Address, error) {
	lambda, ok := in.host.LambdaByID(id)
	if !ok {
		return heap.Unallocated, fmt.Errorf("interp: no Lambda registered for ID %d", id)
	}
	args, err := in.popArgs(argc)
	if err != nil {
		return heap.Unallocated, err
	}
	bound, err := object.BindArguments(in.host.Heap(), lambda.Args, args)
	if err != nil {
		return heap.Unallocated, fmt.Errorf("interp: calling %s: %w", lambda.Name, err)
	}
	scope := local.NewScope(nil)
	for i, desc := range lambda.Args {
		if _, err := scope.Add(desc.Name, bound[i]); err != nil {
			return heap.Unallocated, err
		}
	}
	return in.Run(lambda.Code, lambda.Constants, scope)
}

func (in *Interpreter) invokeNative(id, argc int) (heap.Address, error) {
	native, ok := in.host.Registry().NativeByID(id)
	if !ok {
		return heap.Unallocated, fmt.Errorf("interp: no NativeProcedure registered for ID %d", id)
	}
	args, err := in.popArgs(argc)
	if err != nil {
		return heap.Unallocated, err
	}
	bound, err := object.BindArguments(in.host.Heap(), native.Args, args)
	if err != nil {
		return heap.Unallocated, fmt.Errorf("interp: calling native %s: %w", native.Name, err)
	}
	result, callErr := native.Fn(in.host.Heap(), bound)
	if callErr != nil {
		errObj := &object.Error{Message: callErr.Error()}
		return in.allocate(errObj)
	}
	return result, nil
}
