package vm

import "testing"

// FuzzDisassemble feeds arbitrary byte streams through Disassemble,
// checking only that it never panics on truncated or garbage operands —
// a malformed .gelc file must produce an error, not a crash. Native Go
// fuzzing (testing.F) is the modern replacement for the legacy
// github.com/dvyukov/go-fuzz entrypoint kept in fuzz_legacy.go for repos
// still wired to the old corpus format.
func FuzzDisassemble(f *testing.F) {
	seed := NewAssembler()
	seed.PushInt(42)
	seed.PushConst("ok")
	seed.Ret()
	f.Add(seed.Bytes())
	f.Add([]byte{byte(PushInt)}) // truncated operand
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, code []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("Disassemble panicked on %v: %v", code, r)
			}
		}()
		_, _ = Disassemble(code, nil)
	})
}
