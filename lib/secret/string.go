// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"crypto/subtle"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/secretstring/lib/memcipher"
	"github.com/bureau-foundation/secretstring/lib/memlock"
)

// String is a mutable sequence of sensitive bytes kept encrypted at
// rest in process memory. Every operation transiently decrypts the
// content inside the container's lock, applies its edit, and
// re-encrypts before returning, so plaintext never survives an
// operation boundary.
//
// Storage is memlock-backed and sized in whole cipher blocks: the
// capacity is always the smallest block multiple that holds the
// content, one block minimum while initialized, and it never shrinks
// except through Clear. The cipher and scope are fixed at
// construction; the cipher is borrowed and never closed by the
// container.
//
// A String must not be copied; use Clone. Close erases the content
// (overriding the read-only latch) and releases storage. Operations on
// a closed String panic.
type String struct {
	mu sync.Mutex

	cipher memcipher.Cipher
	scope  memcipher.Scope

	// data is the storage region. Its full length is the capacity;
	// nil exactly when the capacity is zero (only after Clear).
	data []byte

	// encrypted records whether data currently holds ciphertext. It
	// tracks the last cipher transition that succeeded, so a failed
	// re-encryption leaves it false and the next operation skips the
	// decrypt step. Guarded by mu.
	encrypted bool

	// length and readOnly are written under mu and read lock-free by
	// Len, Size, and IsReadOnly.
	length   atomic.Int64
	readOnly atomic.Bool

	closed bool
}

// NewString creates an empty protected string: length zero, one
// encrypted block of capacity. Fails with ErrCipherUnsupported when
// the cipher reports it cannot operate on this system. Panics on a nil
// cipher.
func NewString(cipher memcipher.Cipher, scope memcipher.Scope) (*String, error) {
	return newString(cipher, scope, []byte{})
}

// NewStringFromBytes creates a protected string holding a copy of
// initial. The initial slice is zeroed in place after copying, so the
// caller's buffer no longer holds the secret. A nil slice fails with
// ErrEmptyInit; a non-nil empty slice is a valid empty string.
func NewStringFromBytes(cipher memcipher.Cipher, scope memcipher.Scope, initial []byte) (*String, error) {
	if initial == nil {
		return nil, ErrEmptyInit
	}
	return newString(cipher, scope, initial)
}

func newString(cipher memcipher.Cipher, scope memcipher.Scope, initial []byte) (*String, error) {
	if cipher == nil {
		panic("secret: nil cipher")
	}
	if !cipher.Supported() {
		Zero(initial)
		return nil, ErrCipherUnsupported
	}

	s := &String{cipher: cipher, scope: scope}

	data, err := memlock.Alloc(s.blockCapacity(len(initial)))
	if err != nil {
		Zero(initial)
		return nil, fmt.Errorf("secret: allocating storage: %w", err)
	}
	copy(data, initial)
	Zero(initial)
	s.data = data
	s.length.Store(int64(len(initial)))

	if err := s.encryptStorage(); err != nil {
		memlock.Free(s.data)
		s.data = nil
		return nil, fmt.Errorf("%w: %w", ErrEncrypt, err)
	}
	return s, nil
}

// Len returns the number of stored bytes. Reads a cached count without
// taking the container lock.
func (s *String) Len() int { return int(s.length.Load()) }

// Size returns the stored size in bytes. The character unit is the
// byte, so Size equals Len; both exist because callers ported from
// wide-character containers ask the two questions separately.
func (s *String) Size() int { return s.Len() }

// IsReadOnly reports whether the read-only latch is set. Lock-free.
func (s *String) IsReadOnly() bool { return s.readOnly.Load() }

// MakeReadOnly irreversibly latches the container read-only. Every
// subsequent mutation fails with ErrReadOnly; extraction remains
// available. Only Close overrides the latch, to erase the content.
// Calling it again is a no-op.
func (s *String) MakeReadOnly() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkOpen()
	s.readOnly.Store(true)
}

// Append adds c at the end of the string, growing the storage by whole
// cipher blocks when the capacity is exhausted.
func (s *String) Append(c byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkOpen()
	if s.readOnly.Load() {
		return ErrReadOnly
	}

	if err := s.decryptStorage(); err != nil {
		return err
	}
	length := int(s.length.Load())
	if err := s.ensureCapacity(length + 1); err != nil {
		return err
	}
	s.data[length] = c
	s.length.Store(int64(length + 1))
	return s.encryptStorage()
}

// InsertAt inserts c before the byte at index, shifting [index, Len())
// up one position. Fails with ErrIndexRange when index is not below
// the current length; use Append to add at the end.
func (s *String) InsertAt(index int, c byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkOpen()
	if s.readOnly.Load() {
		return ErrReadOnly
	}
	length := int(s.length.Load())
	if index < 0 || index >= length {
		return ErrIndexRange
	}

	if err := s.decryptStorage(); err != nil {
		return err
	}
	if err := s.ensureCapacity(length + 1); err != nil {
		return err
	}
	// Shift top-down so each byte moves before it is overwritten.
	for position := length; position > index; position-- {
		s.data[position] = s.data[position-1]
	}
	s.data[index] = c
	s.length.Store(int64(length + 1))
	return s.encryptStorage()
}

// SetAt overwrites the byte at index. Fails with ErrIndexRange when
// index is not below the current length.
func (s *String) SetAt(index int, c byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkOpen()
	if s.readOnly.Load() {
		return ErrReadOnly
	}
	if index < 0 || index >= int(s.length.Load()) {
		return ErrIndexRange
	}

	if err := s.decryptStorage(); err != nil {
		return err
	}
	s.data[index] = c
	return s.encryptStorage()
}

// RemoveAt deletes the byte at index, shifting the bytes above it down
// one position and zeroing the vacated top slot. The capacity is
// unchanged; only Clear releases storage.
func (s *String) RemoveAt(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkOpen()
	if s.readOnly.Load() {
		return ErrReadOnly
	}
	length := int(s.length.Load())
	if index < 0 || index >= length {
		return ErrIndexRange
	}

	if err := s.decryptStorage(); err != nil {
		return err
	}
	for position := index + 1; position < length; position++ {
		s.data[position-1] = s.data[position]
	}
	s.data[length-1] = 0
	s.length.Store(int64(length - 1))
	return s.encryptStorage()
}

// Clear zeroes and releases the storage, resetting the string to zero
// length and zero capacity. The next mutation reallocates from
// nothing. Clearing an already-cleared string succeeds; a read-only
// string fails with ErrReadOnly.
func (s *String) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkOpen()
	if s.readOnly.Load() {
		return ErrReadOnly
	}

	err := memlock.Free(s.data)
	s.data = nil
	s.encrypted = false
	s.length.Store(0)
	return err
}

// Reveal decrypts the content, copies exactly Len() bytes to a fresh
// heap slice, and re-encrypts the storage before returning. The caller
// owns the copy and should Zero it when done; Open returns the same
// content in a self-erasing Buffer instead.
//
// This is the checked extraction: cipher failures are reported, with
// ErrDecrypt or ErrEncrypt identifying the failed transition and the
// provider's error wrapped beneath.
func (s *String) Reveal() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkOpen()
	return s.reveal()
}

// reveal is Reveal without the lock acquisition. Caller holds mu.
func (s *String) reveal() ([]byte, error) {
	if err := s.decryptStorage(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecrypt, err)
	}
	plaintext := make([]byte, s.length.Load())
	copy(plaintext, s.data)
	if err := s.encryptStorage(); err != nil {
		Zero(plaintext)
		return nil, fmt.Errorf("%w: %w", ErrEncrypt, err)
	}
	return plaintext, nil
}

// Bytes returns a copy of the content, or nil when an internal cipher
// transition fails. The silent contract is kept for callers ported
// from the legacy accessor; new code should call Reveal, which reports
// the failure instead of swallowing it.
func (s *String) Bytes() []byte {
	plaintext, err := s.Reveal()
	if err != nil {
		return nil
	}
	return plaintext
}

// String returns the content as a string, or "" when an internal
// cipher transition fails. See Bytes for the silent legacy contract.
// The intermediate heap slice is zeroed; the returned string itself is
// an unprotected heap value for use at API boundaries.
func (s *String) String() string {
	plaintext, err := s.Reveal()
	if err != nil {
		return ""
	}
	value := string(plaintext)
	Zero(plaintext)
	return value
}

// Open extracts the content into a Buffer whose Close guarantees
// zeroing, for plaintext whose lifetime must be bounded. Built on the
// checked extraction path.
func (s *String) Open() (*Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkOpen()

	plaintext, err := s.reveal()
	if err != nil {
		return nil, err
	}
	if len(plaintext) == 0 {
		return &Buffer{}, nil
	}
	// NewFromBytes zeroes the heap copy after moving it into locked
	// memory.
	return NewFromBytes(plaintext)
}

// Clone creates an independent copy borrowing the same cipher and
// scope. Only the source is locked. Raw storage is duplicated in
// whatever encryption state it is in, which decrypts identically in
// the copy because cipher, scope, and block positions all match. The
// read-only latch carries over.
func (s *String) Clone() (*String, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkOpen()

	clone := &String{cipher: s.cipher, scope: s.scope, encrypted: s.encrypted}
	clone.length.Store(s.length.Load())
	clone.readOnly.Store(s.readOnly.Load())
	if s.data != nil {
		data, err := memlock.Alloc(len(s.data))
		if err != nil {
			return nil, fmt.Errorf("secret: allocating clone storage: %w", err)
		}
		copy(data, s.data)
		clone.data = data
	}
	return clone, nil
}

// Equal reports whether two protected strings hold the same content,
// comparing in constant time. The two containers are extracted one at
// a time; their locks are never nested, so comparing a string with
// itself is safe. A nil other or a length difference is a non-error
// false.
func (s *String) Equal(other *String) (bool, error) {
	if other == nil {
		return false, nil
	}
	mine, err := s.Reveal()
	if err != nil {
		return false, err
	}
	defer Zero(mine)

	theirs, err := other.Reveal()
	if err != nil {
		return false, err
	}
	defer Zero(theirs)

	return subtle.ConstantTimeCompare(mine, theirs) == 1, nil
}

// Fingerprint returns the BLAKE3 keyed hash of the content, for
// correlating or deduplicating secrets in logs and indexes without
// revealing them. The key must be exactly 32 bytes; an unkeyed hash
// would expose low-entropy secrets to dictionary attack.
func (s *String) Fingerprint(key []byte) ([32]byte, error) {
	var fingerprint [32]byte

	hasher, err := blake3.NewKeyed(key)
	if err != nil {
		return fingerprint, fmt.Errorf("secret: fingerprint key: %w", err)
	}

	plaintext, err := s.Reveal()
	if err != nil {
		return fingerprint, err
	}
	hasher.Write(plaintext)
	Zero(plaintext)
	copy(fingerprint[:], hasher.Sum(nil))
	return fingerprint, nil
}

// Close forces the read-only latch open, zeroes and releases the
// storage, and marks the container closed. Idempotent. Operations on a
// closed String panic.
func (s *String) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.readOnly.Store(false)

	err := memlock.Free(s.data)
	s.data = nil
	s.encrypted = false
	s.length.Store(0)
	return err
}

func (s *String) checkOpen() {
	if s.closed {
		panic("secret: use of closed String")
	}
}

// blockCapacity returns the smallest multiple of the cipher block size
// that holds byteCount bytes, with a minimum of one block.
func (s *String) blockCapacity(byteCount int) int {
	blockSize := s.cipher.BlockSize()
	blocks := byteCount / blockSize
	if byteCount%blockSize != 0 {
		blocks++
	}
	if blocks == 0 {
		blocks = 1
	}
	return blocks * blockSize
}

// ensureCapacity grows the storage to hold byteCount bytes, rounding
// up to whole cipher blocks. The content must be plaintext. The live
// prefix is copied across, then the old region is zeroed and released.
// The capacity never shrinks here; only Clear does that.
func (s *String) ensureCapacity(byteCount int) error {
	required := s.blockCapacity(byteCount)
	if s.data != nil && required <= len(s.data) {
		return nil
	}
	grown, err := memlock.Alloc(required)
	if err != nil {
		return err
	}
	copy(grown, s.data[:s.length.Load()])
	memlock.Free(s.data)
	s.data = grown
	return nil
}

// encryptStorage encrypts the full allocation and records the
// transition. No-op when the storage is absent or already encrypted.
// Caller holds mu (or owns the sole reference during construction).
func (s *String) encryptStorage() error {
	if s.encrypted || s.data == nil {
		return nil
	}
	if err := s.cipher.Encrypt(s.data, len(s.data), s.scope); err != nil {
		return err
	}
	s.encrypted = true
	return nil
}

// decryptStorage decrypts the full allocation and records the
// transition. No-op when the storage is absent or already plaintext.
func (s *String) decryptStorage() error {
	if !s.encrypted || s.data == nil {
		return nil
	}
	if err := s.cipher.Decrypt(s.data, len(s.data), s.scope); err != nil {
		return err
	}
	s.encrypted = false
	return nil
}
