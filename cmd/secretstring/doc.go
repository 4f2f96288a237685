// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Secretstring seals secrets into encrypted envelopes and opens them
// again, keeping the plaintext in protected memory for as little time
// as possible. Secrets are read from a file, stdin, or a no-echo
// terminal prompt into an encrypted-at-rest container, sealed with age
// to one or more recipients, and carried as CBOR envelopes.
// Subcommands: keygen, seal, open, fingerprint, inspect.
package main
