// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret provides protected containers for sensitive data such
// as passwords, access tokens, and encryption keys.
//
// [String] is the mutable container: content is kept encrypted at rest
// in locked memory and transiently decrypted per operation, under a
// lock held for the full operation. Editing goes through [String.Append],
// [String.InsertAt], [String.SetAt], and [String.RemoveAt]; extraction
// through [String.Reveal] (checked), [String.Bytes] and [String.String]
// (silent legacy contract), or [String.Open] (self-erasing Buffer).
// [String.MakeReadOnly] latches the container irreversibly until Close.
// The at-rest cipher is injected at construction; see lib/memcipher.
//
// [Buffer] is the plaintext container: locked memory without an at-rest
// cipher, zeroed on Close, for key material that must be readable in
// place. Constructors:
//
//   - [New] -- allocates a zero-filled buffer of a given size
//   - [NewFromBytes] -- copies into locked memory, zeroes the source
//   - [NewFromReader] -- reads from an io.Reader with a size limit
//
// Access via [Buffer.Bytes] (slice into the locked region) or
// [Buffer.String] (heap copy for API boundaries). [Buffer.Equal] and
// [String.Equal] compare in constant time. After Close, any access
// panics. Close is idempotent on both containers.
//
// [Zero] wipes a byte slice the compiler cannot elide; [ReadFromPath]
// loads a secret from a file or stdin into a Buffer.
//
// Depends on lib/memlock, lib/memcipher, and github.com/zeebo/blake3.
// Imported by lib/sealed and cmd/secretstring.
package secret
