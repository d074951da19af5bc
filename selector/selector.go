// Package selector derives and parses 4-byte message selectors.
package selector

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/baron-chain/bc-cargo-contract/errors"
)

// Size is the selector length in bytes.
const Size = 4

// FromLabel returns the first four bytes of the BLAKE2b-256 digest of label,
// the default selector for a message or constructor without an explicit one.
func FromLabel(label string) [Size]byte {
	sum := blake2b.Sum256([]byte(label))
	var s [Size]byte
	copy(s[:], sum[:Size])
	return s
}

// Parse reads a selector written as 0x12345678 or 12345678.
func Parse(text string) ([Size]byte, error) {
	var s [Size]byte
	digits := strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	if len(digits) != 2*Size {
		return s, errors.InvalidInput(errors.PhaseResolve,
			fmt.Sprintf("selector %q must have %d hex digits", text, 2*Size))
	}
	if _, err := hex.Decode(s[:], []byte(digits)); err != nil {
		return s, errors.Wrap(errors.PhaseResolve, errors.KindInvalidInput, err,
			fmt.Sprintf("selector %q is not hex", text))
	}
	return s, nil
}

// Looks reports whether text has the form Parse accepts.
func Looks(text string) bool {
	_, err := Parse(text)
	return err == nil
}

// String renders s as 0x-prefixed lowercase hex.
func String(s [Size]byte) string {
	return "0x" + hex.EncodeToString(s[:])
}
