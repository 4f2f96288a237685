// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the standard CBOR encoding configuration.
//
// Sealed secret envelopes (lib/sealed) are CBOR on disk and on the
// wire; JSON appears only at CLI boundaries. This package provides the
// shared encoding and decoding modes so that every package encodes
// identically without duplicating configuration. The encoder uses Core
// Deterministic Encoding (RFC 8949 §4.2): sorted map keys, smallest
// integer encoding, no indefinite-length items. Same logical data
// always produces identical bytes, so an envelope's encoding is a
// stable identity for checksumming and deduplication.
//
// For buffer-oriented operations (envelope files):
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations (pipes, sockets):
//
//	encoder := codec.NewEncoder(conn)
//	decoder := codec.NewDecoder(conn)
//
// # Struct Tag Rules
//
// The struct tag on a type documents its serialization format:
//
//   - `cbor` tag: this type is ONLY ever serialized as CBOR. Compact
//     wire types use `cbor:"N,keyasint"` to encode field keys as
//     integers. Example: the sealed envelope.
//   - `json` tag: this type may be serialized as BOTH JSON and CBOR.
//     fxamacker/cbor v2 reads `json` tags as fallback when `cbor`
//     tags are absent, so a single `json` tag controls field naming
//     and omitempty for both formats. Example: CLI --json output
//     types.
//
// Never use both `cbor` and `json` tags on the same field. The tag
// choice documents the contract; doubling up is noise that obscures
// whether a type participates in JSON serialization.
//
// [Diagnose] and [DiagnoseFirst] render diagnostic notation for
// inspecting envelopes without decrypting them.
//
// Depends on github.com/fxamacker/cbor/v2. Imported by lib/sealed and
// cmd/secretstring.
package codec
