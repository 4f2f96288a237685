// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import "errors"

// String's errors travel on two deliberate channels. Construction and
// extraction return rich, wrapped errors that identify the failed
// cipher transition and carry the provider's cause. Mutations return
// bare sentinels (or the provider's error untouched): they sit on hot
// edit paths and their callers branch on identity, not on prose.
var (
	// ErrCipherUnsupported is returned by the String constructors when
	// the cipher reports it cannot operate on this system.
	ErrCipherUnsupported = errors.New("secret: cipher not supported on this system")

	// ErrEmptyInit is returned by NewStringFromBytes for a nil initial
	// slice. An empty non-nil slice is a valid empty string.
	ErrEmptyInit = errors.New("secret: nil initial content")

	// ErrEncrypt wraps a provider failure while encrypting storage.
	ErrEncrypt = errors.New("secret: encryption failed")

	// ErrDecrypt wraps a provider failure while decrypting storage.
	ErrDecrypt = errors.New("secret: decryption failed")

	// ErrReadOnly is returned by mutations after MakeReadOnly.
	ErrReadOnly = errors.New("secret: container is read-only")

	// ErrIndexRange is returned by indexed operations when the index
	// is not below the current length.
	ErrIndexRange = errors.New("secret: index out of range")
)
