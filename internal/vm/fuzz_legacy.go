//go:build gofuzz

package vm

// Fuzz is the legacy github.com/dvyukov/go-fuzz entrypoint, kept for CI
// pipelines still wired to the old corpus-directory fuzzing format rather
// than native `go test -fuzz`. It's functionally redundant with
// FuzzDisassemble in fuzz_test.go; both exercise the same decoder.
func Fuzz(data []byte) int {
	if _, err := Disassemble(data, nil); err != nil {
		return 0
	}
	return 1
}
