// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package memcipher

import (
	"crypto/aes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/xts"
)

// xtsBlockSize is the encryption granularity of the XTS provider: one
// AES block per XTS sector, with the sector number taken from the
// block's position in the buffer.
const xtsBlockSize = 16

// hkdfInfoPrefix is the domain-separation prefix for per-scope subkey
// derivation. The scope value is appended in big-endian form, so each
// scope encrypts under an unrelated key.
var hkdfInfoPrefix = []byte("memcipher.xts.v1.scope.")

// XTS encrypts memory in place with AES in XTS mode. Ciphertext is the
// same length as plaintext and deterministic per (key, scope, block
// position); the threat model is disclosure of memory at rest (swap
// files, core dumps, neighboring-process reads), not transport.
//
// The master key lives in a memguard enclave between calls. Per-scope
// subkeys are derived freshly with HKDF-SHA256 on each call and wiped
// before return. Keys are process-local unless the caller arranges to
// share them, so the practical reach of ScopeCrossProcess and
// ScopeSameLogon depends on that arrangement; the derived subkeys keep
// the scopes cryptographically separate regardless.
type XTS struct {
	masterKey *memguard.Enclave
	keySize   int
}

var _ Cipher = (*XTS)(nil)

// NewXTS creates an XTS provider from a 32- or 64-byte master key
// (AES-128 or AES-256 double-width XTS keys). The key is moved into
// guarded memory and the caller's slice is wiped.
func NewXTS(key []byte) (*XTS, error) {
	if len(key) != 32 && len(key) != 64 {
		return nil, fmt.Errorf("memcipher: XTS key must be 32 or 64 bytes, got %d", len(key))
	}
	keySize := len(key)
	return &XTS{
		// NewEnclave wipes the source slice after sealing it.
		masterKey: memguard.NewEnclave(key),
		keySize:   keySize,
	}, nil
}

// GenerateXTS creates an XTS provider with a fresh random 64-byte
// (AES-256) master key. Suitable for process-lifetime protection where
// the key never needs to leave the process.
func GenerateXTS() (*XTS, error) {
	key := make([]byte, 64)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("memcipher: generating XTS key: %w", err)
	}
	return NewXTS(key)
}

// Supported always reports true: AES-XTS is pure Go plus AES-NI where
// available.
func (x *XTS) Supported() bool { return true }

// BlockSize returns 16, the AES block size.
func (x *XTS) BlockSize() int { return xtsBlockSize }

// Encrypt encrypts buffer[:byteLength] in place under the scope's
// derived subkey.
func (x *XTS) Encrypt(buffer []byte, byteLength int, scope Scope) error {
	return x.apply(buffer, byteLength, scope, true)
}

// Decrypt decrypts buffer[:byteLength] in place under the scope's
// derived subkey.
func (x *XTS) Decrypt(buffer []byte, byteLength int, scope Scope) error {
	return x.apply(buffer, byteLength, scope, false)
}

// apply runs the XTS transform over whole AES blocks, sector numbers
// counting from zero at the start of the buffer.
func (x *XTS) apply(buffer []byte, byteLength int, scope Scope, encrypt bool) error {
	if err := checkLength(buffer, byteLength, xtsBlockSize); err != nil {
		return err
	}
	if byteLength == 0 {
		return nil
	}

	master, err := x.masterKey.Open()
	if err != nil {
		return fmt.Errorf("memcipher: opening XTS master key: %w", err)
	}
	defer master.Destroy()

	info := make([]byte, 0, len(hkdfInfoPrefix)+4)
	info = append(info, hkdfInfoPrefix...)
	info = binary.BigEndian.AppendUint32(info, uint32(scope))

	subkey := make([]byte, x.keySize)
	defer memguard.WipeBytes(subkey)
	reader := hkdf.New(sha256.New, master.Bytes(), nil, info)
	if _, err := io.ReadFull(reader, subkey); err != nil {
		return fmt.Errorf("memcipher: deriving XTS scope subkey: %w", err)
	}

	cipher, err := xts.NewCipher(aes.NewCipher, subkey)
	if err != nil {
		return fmt.Errorf("memcipher: initializing XTS: %w", err)
	}

	for offset := 0; offset < byteLength; offset += xtsBlockSize {
		block := buffer[offset : offset+xtsBlockSize]
		sector := uint64(offset / xtsBlockSize)
		if encrypt {
			cipher.Encrypt(block, block, sector)
		} else {
			cipher.Decrypt(block, block, sector)
		}
	}
	return nil
}
