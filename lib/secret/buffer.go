// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"crypto/subtle"
	"fmt"
	"io"
	"sync"

	"github.com/bureau-foundation/secretstring/lib/memlock"
)

// Buffer holds sensitive plaintext in memory that is locked against
// swapping, excluded from core dumps, and zeroed on close. The backing
// memory comes from lib/memlock, outside the Go heap, so the garbage
// collector never copies or relocates it.
//
// A Buffer must not be copied after creation. Use Close to release the
// memory when the secret is no longer needed; zeroing happens on every
// release path. After Close, any access to the buffer's contents will
// panic.
type Buffer struct {
	mu     sync.Mutex
	data   []byte
	length int
	closed bool
}

// New allocates a new secret buffer of the given size. The buffer is
// backed by a locked anonymous mapping (see lib/memlock): no swap, no
// core dumps, invisible to the garbage collector.
//
// The caller must call Close when the secret is no longer needed.
func New(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("secret: buffer size must be positive, got %d", size)
	}

	data, err := memlock.Alloc(size)
	if err != nil {
		return nil, err
	}

	return &Buffer{
		data:   data,
		length: size,
	}, nil
}

// NewFromBytes creates a secret buffer from existing data. The source
// bytes are copied into the protected region and then zeroed in place,
// so the caller's original slice no longer holds the secret.
func NewFromBytes(source []byte) (*Buffer, error) {
	if len(source) == 0 {
		return nil, fmt.Errorf("secret: cannot create buffer from empty source")
	}

	buffer, err := New(len(source))
	if err != nil {
		return nil, err
	}

	copy(buffer.data, source)
	Zero(source)

	return buffer, nil
}

// NewFromReader reads at most limit bytes from reader into a secret
// buffer. The intermediate heap bytes are zeroed. Fails when the
// source is empty or longer than limit.
func NewFromReader(reader io.Reader, limit int) (*Buffer, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("secret: read limit must be positive, got %d", limit)
	}

	data, err := io.ReadAll(io.LimitReader(reader, int64(limit)+1))
	if err != nil {
		Zero(data)
		return nil, fmt.Errorf("secret: reading secret: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("secret: source is empty")
	}
	if len(data) > limit {
		Zero(data)
		return nil, fmt.Errorf("secret: secret exceeds %d-byte limit", limit)
	}

	return NewFromBytes(data)
}

// Bytes returns the secret data. The returned slice points directly
// into the protected region. Do not hold references to it beyond the
// lifetime of the Buffer. Panics if the buffer has been closed.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		panic("secret: read from closed buffer")
	}

	return b.data[:b.length]
}

// String returns the secret data as a string. The returned string is
// backed by a heap-allocated copy (Go strings are immutable and must
// live on the heap), so this should only be used at API boundaries
// that require string arguments. Prefer Bytes() when possible.
//
// Panics if the buffer has been closed.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		panic("secret: read from closed buffer")
	}

	return string(b.data[:b.length])
}

// Len returns the size of the secret data.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.length
}

// Equal reports whether two buffers hold the same bytes, comparing in
// constant time. The locks are taken one at a time, never nested.
// Panics if either buffer has been closed.
func (b *Buffer) Equal(other *Buffer) bool {
	if other == nil {
		return false
	}
	return subtle.ConstantTimeCompare(b.Bytes(), other.Bytes()) == 1
}

// Close zeros the buffer contents and releases the memory. After
// Close, any access to the buffer's contents will panic. Close is
// idempotent.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	// memlock.Free zeroes before releasing; unlock or unmap errors
	// are reported but the memory is reclaimed at process exit
	// regardless.
	err := memlock.Free(b.data)
	b.data = nil
	return err
}
