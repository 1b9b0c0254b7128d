package vm

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint content-hashes a Lambda's assembled bytecode plus its
// constant pool, so two compilations of the same source can be recognized
// as identical without re-comparing the raw bytes. Its one caller is
// cmd/gel, which prints it under --dump-flow-graph. Grounded on ymm135-go's own
// cmd_local/buildid content-hashing of compiled packages
// (src/cmd_local/go/internal_local/... buildid usage), adapted here to
// fingerprint compiled Lambda bodies instead of object files.
func Fingerprint(code []byte, constants []string) string {
	h, _ := blake2b.New256(nil)
	_, _ = h.Write(code)
	for _, c := range constants {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(c))
	}
	return hex.EncodeToString(h.Sum(nil))
}
