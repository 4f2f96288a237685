// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package memcipher

// Null is a pass-through Cipher: always supported, block size one,
// content left untouched. It exists for tests, benchmarks, and
// deployments that want the container semantics without the cipher
// cost. The zero value is ready to use.
type Null struct{}

var _ Cipher = Null{}

// Supported always reports true.
func (Null) Supported() bool { return true }

// BlockSize returns 1: any length is a whole number of blocks.
func (Null) BlockSize() int { return 1 }

// Encrypt validates the arguments and leaves the buffer unchanged.
func (Null) Encrypt(buffer []byte, byteLength int, scope Scope) error {
	return checkLength(buffer, byteLength, 1)
}

// Decrypt validates the arguments and leaves the buffer unchanged.
func (Null) Decrypt(buffer []byte, byteLength int, scope Scope) error {
	return checkLength(buffer, byteLength, 1)
}
