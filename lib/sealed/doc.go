// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed moves protected strings between processes and hosts.
//
// The in-memory protection of secret.String ends at the process
// boundary: its at-rest cipher keys live in this process. To persist
// or transmit a secret, [Seal] extracts the content transiently and
// encrypts it with age (filippo.io/age) to one or more x25519
// recipients, wrapping the ciphertext in a CBOR [Envelope]. [Unseal]
// reverses this, landing the content directly in a new protected
// string. [Inspect] reads an envelope's cleartext metadata without key
// material.
//
// Key exports:
//
//   - [GenerateKeypair] -- new age x25519 keypair, private key in a
//     secret.Buffer (locked memory, zeroed on Close)
//   - [Seal] / [Unseal] -- protected string to envelope and back
//   - [EncodeString] / [DecodeString] -- base64 armor for transports
//     that cannot carry binary
//   - [ParsePublicKey] / [ParsePrivateKey] -- key validation
//
// Depends on filippo.io/age, lib/codec, lib/memcipher, and lib/secret.
// Imported by cmd/secretstring.
package sealed
