package script

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/s0cks/gel/internal/vm"
)

// Program is an assembled textual program: bytecode plus its constant
// pool, ready to hand to interp.Interpreter.Run.
type Program struct {
	Code      []byte
	Constants []string
}

// ParseAssemblyProgram assembles one line-oriented mnemonic program, the
// stand-in SPEC_FULL.md §6 documents for the omitted Lisp lexer/parser: a
// `--expr`/script-path argument to cmd/gel is one instruction per line,
// blank lines and `;`-prefixed comments ignored, labels written as
// `name:` on their own line and referenced by name as a jump operand.
//
//	pushi 10
//	pushi 32
//	add
//	ret
//
// Branching:
//
//	pushi 1
//	jumpiffalse else
//	pushi 10
//	jump done
//	else:
//	pushi 20
//	done:
//	ret
func ParseAssemblyProgram(src []byte) (*Program, error) {
	a := vm.NewAssembler()
	labels := make(map[string]*vm.Label)
	labelFor := func(name string) *vm.Label {
		if l, ok := labels[name]; ok {
			return l
		}
		l := vm.NewLabel()
		labels[name] = l
		return l
	}

	sc := bufio.NewScanner(bytes.NewReader(src))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasSuffix(line, ":") && !strings.Contains(line, " ") {
			name := strings.TrimSuffix(line, ":")
			a.Bind(labelFor(name))
			continue
		}

		fields := strings.Fields(line)
		mnemonic := strings.ToLower(fields[0])
		args := fields[1:]
		if err := emit(a, mnemonic, args, labelFor); err != nil {
			return nil, fmt.Errorf("script: line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("script: scanning program: %w", err)
	}
	allLabels := make([]*vm.Label, 0, len(labels))
	for _, l := range labels {
		allLabels = append(allLabels, l)
	}
	if err := vm.Validate(allLabels...); err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	return &Program{Code: a.Bytes(), Constants: a.Constants()}, nil
}

func emit(a *vm.Assembler, mnemonic string, args []string, labelFor func(string) *vm.Label) error {
	intArg := func(i int) (int64, error) {
		if i >= len(args) {
			return 0, fmt.Errorf("%s: missing operand %d", mnemonic, i)
		}
		return strconv.ParseInt(args[i], 10, 64)
	}
	strArg := func(i int) (string, error) {
		if i >= len(args) {
			return "", fmt.Errorf("%s: missing operand %d", mnemonic, i)
		}
		return strings.Trim(args[i], `"`), nil
	}

	switch mnemonic {
	case "nop":
		a.Nop()
	case "pushnull":
		a.PushNull()
	case "pushtrue":
		a.PushTrue()
	case "pushfalse":
		a.PushFalse()
	case "pushi":
		v, err := intArg(0)
		if err != nil {
			return err
		}
		a.PushInt(v)
	case "pushd":
		if len(args) < 1 {
			return fmt.Errorf("pushd: missing operand")
		}
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return err
		}
		a.PushDouble(v)
	case "pushconst":
		s, err := strArg(0)
		if err != nil {
			return err
		}
		a.PushConst(s)
	case "pop":
		a.Pop()
	case "dup":
		a.Dup()
	case "swap":
		a.Swap()
	case "lload":
		v, err := intArg(0)
		if err != nil {
			return err
		}
		a.LLoad(int(v))
	case "lstore":
		v, err := intArg(0)
		if err != nil {
			return err
		}
		a.LStore(int(v))
	case "add":
		a.Add()
	case "sub":
		a.Sub()
	case "mul":
		a.Mul()
	case "div":
		a.Div()
	case "mod":
		a.Mod()
	case "neg":
		a.Neg()
	case "cmpeq":
		a.CmpEq()
	case "cmplt":
		a.CmpLt()
	case "cmpgt":
		a.CmpGt()
	case "cmple":
		a.CmpLe()
	case "cmpge":
		a.CmpGe()
	case "not":
		a.Not()
	case "cons":
		a.Cons()
	case "car":
		a.Car()
	case "cdr":
		a.Cdr()
	case "isnull":
		a.IsNull()
	case "jump":
		s, err := strArg(0)
		if err != nil {
			return err
		}
		a.Jump(labelFor(s))
	case "jumpiftrue":
		s, err := strArg(0)
		if err != nil {
			return err
		}
		a.JumpIfTrue(labelFor(s))
	case "jumpiffalse":
		s, err := strArg(0)
		if err != nil {
			return err
		}
		a.JumpIfFalse(labelFor(s))
	case "jeq":
		s, err := strArg(0)
		if err != nil {
			return err
		}
		a.Jeq(labelFor(s))
	case "jne":
		s, err := strArg(0)
		if err != nil {
			return err
		}
		a.Jne(labelFor(s))
	case "invoke":
		id, err := intArg(0)
		if err != nil {
			return err
		}
		argc, err := intArg(1)
		if err != nil {
			return err
		}
		a.Invoke(uint16(id), uint8(argc))
	case "invokenative":
		id, err := intArg(0)
		if err != nil {
			return err
		}
		argc, err := intArg(1)
		if err != nil {
			return err
		}
		a.InvokeNative(uint16(id), uint8(argc))
	case "invokedynamic":
		argc, err := intArg(0)
		if err != nil {
			return err
		}
		a.InvokeDynamic(uint8(argc))
	case "ret":
		a.Ret()
	case "checkinstance":
		id, err := intArg(0)
		if err != nil {
			return err
		}
		a.CheckInstance(uint16(id))
	case "isinstance":
		id, err := intArg(0)
		if err != nil {
			return err
		}
		a.IsInstance(uint16(id))
	case "newarray":
		n, err := intArg(0)
		if err != nil {
			return err
		}
		a.NewArray(uint16(n))
	case "arrayget":
		a.ArrayGet()
	case "arrayset":
		a.ArraySet()
	case "arraylength":
		a.ArrayLength()
	case "loadglobal":
		s, err := strArg(0)
		if err != nil {
			return err
		}
		a.LoadGlobal(s)
	case "storeglobal":
		s, err := strArg(0)
		if err != nil {
			return err
		}
		a.StoreGlobal(s)
	case "halt":
		a.Halt()
	default:
		return fmt.Errorf("unknown mnemonic %q", mnemonic)
	}
	return nil
}
