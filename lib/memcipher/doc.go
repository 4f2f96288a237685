// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package memcipher provides in-place encryption of caller-owned
// memory regions, the mechanism behind lib/secret's encrypted-at-rest
// string container.
//
// A [Cipher] transforms a buffer in place with no length expansion, in
// whole blocks of [Cipher.BlockSize] bytes. The [Scope] passed to
// Encrypt must be repeated on Decrypt; scopes select separate keys,
// and a mismatch produces garbage rather than an error because the
// in-place contract leaves no room for an authentication tag.
//
// Providers:
//
//   - [XTS] -- AES-XTS, all platforms. Master key in a memguard
//     enclave, per-scope subkeys derived with HKDF-SHA256, sector
//     numbers from block positions.
//   - [DPAPI] -- RtlEncryptMemory/RtlDecryptMemory, Windows only.
//     Kernel-held keys, true cross-process and same-logon scopes.
//   - [Null] -- pass-through for tests and opt-out deployments.
//
// Depends on golang.org/x/crypto, golang.org/x/sys, and
// github.com/awnumar/memguard. Imported by lib/secret and
// cmd/secretstring.
package memcipher
