// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package memcipher

import (
	"errors"
	"fmt"
)

// Scope selects the key scope for in-place memory encryption. The same
// scope must be passed to Decrypt that was passed to the matching
// Encrypt. A mismatched scope yields garbage plaintext rather than an
// error: the ciphers are unauthenticated, as the in-place no-expansion
// contract leaves no room for a tag.
type Scope uint32

const (
	// ScopeSameProcess keys the ciphertext to the current process.
	// Other processes cannot decrypt it even under the same account.
	ScopeSameProcess Scope = 0x00

	// ScopeCrossProcess allows any process on the machine to decrypt.
	ScopeCrossProcess Scope = 0x01

	// ScopeSameLogon restricts decryption to processes in the same
	// logon session.
	ScopeSameLogon Scope = 0x02
)

// String returns the canonical name of the scope, as accepted by
// ParseScope.
func (s Scope) String() string {
	switch s {
	case ScopeSameProcess:
		return "same-process"
	case ScopeCrossProcess:
		return "cross-process"
	case ScopeSameLogon:
		return "same-logon"
	default:
		return fmt.Sprintf("scope(%#x)", uint32(s))
	}
}

// ParseScope converts a scope name ("same-process", "cross-process",
// "same-logon") to its Scope value.
func ParseScope(name string) (Scope, error) {
	switch name {
	case "same-process":
		return ScopeSameProcess, nil
	case "cross-process":
		return ScopeCrossProcess, nil
	case "same-logon":
		return ScopeSameLogon, nil
	default:
		return 0, fmt.Errorf("memcipher: unknown scope %q (expected same-process, cross-process, or same-logon)", name)
	}
}

var (
	// ErrUnsupported is returned by providers that cannot operate on
	// this system.
	ErrUnsupported = errors.New("memcipher: provider not supported on this system")

	// ErrBadLength is returned when an encrypt or decrypt length is
	// not a multiple of the provider's block size.
	ErrBadLength = errors.New("memcipher: byte length is not a multiple of the cipher block size")
)

// Cipher encrypts and decrypts caller-owned memory in place, with no
// length expansion. Lengths must be exact multiples of BlockSize; the
// buffer is unchanged when a call returns an error.
//
// Implementations must be safe for concurrent use: containers holding
// a shared Cipher serialize their own storage access but not their
// cipher calls.
type Cipher interface {
	// Supported reports whether the provider can operate here. A
	// container construction against an unsupported provider fails
	// up front rather than on first use.
	Supported() bool

	// BlockSize returns the encryption granularity in bytes. Positive
	// and stable for the provider's lifetime.
	BlockSize() int

	// Encrypt encrypts buffer[:byteLength] in place.
	Encrypt(buffer []byte, byteLength int, scope Scope) error

	// Decrypt decrypts buffer[:byteLength] in place.
	Decrypt(buffer []byte, byteLength int, scope Scope) error
}

// checkLength validates the in-place cipher length contract:
// byteLength must be non-negative, within the buffer, and a whole
// number of blocks.
func checkLength(buffer []byte, byteLength, blockSize int) error {
	if byteLength < 0 || byteLength > len(buffer) {
		return fmt.Errorf("memcipher: byte length %d outside buffer of %d bytes", byteLength, len(buffer))
	}
	if byteLength%blockSize != 0 {
		return ErrBadLength
	}
	return nil
}
