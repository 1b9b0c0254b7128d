// Command vmgen regenerates internal/vm's opcode mnemonic table from a
// single source list, the same way ymm135-go's own asm/internal/asm
// mnemonic tables are produced by a generator rather than hand-edited in
// two places that can drift apart. Run via:
//
//	//go:generate go run ./internal/vm/gen -out ../bytecode_mnemonics.go
//
// It is not wired into the build. It emits a generatedMnemonics list of
// each opcode name lowercased (pushint, jumpiftrue, ...); internal/vm/
// bytecode.go keeps its own hand-written mnemonics table with shorter
// names (pushi, jiftrue, ...), so the two do not match and adding an
// opcode still means editing both files.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"
)

// opcodes mirrors, by name, the Opcode constants declared in
// internal/vm/bytecode.go, in the same order. bytecode.go's mnemonics
// array is not derived from it.
var opcodes = []string{
	"Nop", "PushNull", "PushTrue", "PushFalse", "PushInt", "PushDouble", "PushConst",
	"Pop", "Dup", "Swap",
	"LLoad0", "LLoad1", "LLoad2", "LLoad3", "LLoad",
	"LStore0", "LStore1", "LStore2", "LStore3", "LStore",
	"Add", "Sub", "Mul", "Div", "Mod", "Neg",
	"CmpEq", "CmpLt", "CmpGt", "CmpLe", "CmpGe", "Not",
	"Cons", "Car", "Cdr", "IsNull",
	"Jump", "JumpIfTrue", "JumpIfFalse", "Jeq", "Jne",
	"Invoke", "InvokeNative", "InvokeDynamic", "Ret",
	"CheckInstance", "IsInstance",
	"NewArray", "ArrayGet", "ArraySet", "ArrayLength",
	"LoadGlobal", "StoreGlobal",
	"Halt",
}

func mnemonic(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			prev := rune(name[i-1])
			if prev < 'A' || prev > 'Z' {
				// camel hump boundary, e.g. "PushInt" -> push/int
			}
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

var tmpl = template.Must(template.New("mnemonics").Parse(`// Code generated by internal/vm/gen. DO NOT EDIT.

package vm

var generatedMnemonics = [...]string{
{{- range .}}
	"{{.}}",
{{- end}}
}
`))

func main() {
	out := flag.String("out", "", "output file path (defaults to stdout)")
	flag.Parse()

	names := make([]string, len(opcodes))
	for i, op := range opcodes {
		names[i] = mnemonic(op)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, names); err != nil {
		fmt.Fprintln(os.Stderr, "vmgen:", err)
		os.Exit(1)
	}

	formatted, err := imports.Process("generated_mnemonics.go", buf.Bytes(), nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "vmgen: goimports:", err)
		os.Exit(1)
	}

	if *out == "" {
		os.Stdout.Write(formatted)
		return
	}
	if err := os.WriteFile(*out, formatted, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "vmgen:", err)
		os.Exit(1)
	}
}
