// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/secretstring/lib/codec"
	"github.com/bureau-foundation/secretstring/lib/memcipher"
	"github.com/bureau-foundation/secretstring/lib/secret"
)

func testKeypair(t *testing.T) *Keypair {
	t.Helper()
	keypair, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair() error: %v", err)
	}
	t.Cleanup(func() { keypair.Close() })
	return keypair
}

func testString(t *testing.T, content []byte) *secret.String {
	t.Helper()
	s, err := secret.NewStringFromBytes(memcipher.Null{}, memcipher.ScopeSameProcess, content)
	if err != nil {
		t.Fatalf("NewStringFromBytes() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGenerateKeypair(t *testing.T) {
	keypair := testKeypair(t)

	if !strings.HasPrefix(keypair.PrivateKey.String(), "AGE-SECRET-KEY-1") {
		t.Error("private key should have prefix AGE-SECRET-KEY-1")
	}
	if !strings.HasPrefix(keypair.PublicKey, "age1") {
		t.Errorf("PublicKey = %q, want prefix age1", keypair.PublicKey)
	}

	if keypair.PrivateKey.Len() < 20 {
		t.Errorf("private key too short: %d chars", keypair.PrivateKey.Len())
	}
	if len(keypair.PublicKey) < 20 {
		t.Errorf("PublicKey too short: %d chars", len(keypair.PublicKey))
	}
}

func TestGenerateKeypair_Unique(t *testing.T) {
	keypair1 := testKeypair(t)
	keypair2 := testKeypair(t)

	if keypair1.PrivateKey.Equal(keypair2.PrivateKey) {
		t.Error("two generated keypairs have identical private keys")
	}
	if keypair1.PublicKey == keypair2.PublicKey {
		t.Error("two generated keypairs have identical public keys")
	}
}

func TestKeypair_CloseIdempotent(t *testing.T) {
	keypair := testKeypair(t)
	if err := keypair.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := keypair.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
}

func TestSealUnseal_SingleRecipient(t *testing.T) {
	keypair := testKeypair(t)
	content := testString(t, []byte("hunter2"))

	envelope, err := Seal(content, []string{keypair.PublicKey})
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}
	if len(envelope) == 0 {
		t.Fatal("Seal() produced empty envelope")
	}
	if bytes.Contains(envelope, []byte("hunter2")) {
		t.Error("envelope contains the plaintext")
	}

	// Sealing leaves the source usable.
	if got := content.String(); got != "hunter2" {
		t.Errorf("source content after Seal = %q, want %q", got, "hunter2")
	}

	opened, err := Unseal(envelope, keypair.PrivateKey, memcipher.Null{}, memcipher.ScopeSameProcess)
	if err != nil {
		t.Fatalf("Unseal() error: %v", err)
	}
	defer opened.Close()
	if got := opened.String(); got != "hunter2" {
		t.Errorf("Unseal() content = %q, want %q", got, "hunter2")
	}
}

func TestSealUnseal_MultipleRecipients(t *testing.T) {
	// Host key plus operator escrow: both must open independently.
	host := testKeypair(t)
	operator := testKeypair(t)
	content := testString(t, []byte("API_TOKEN=sk-test-12345"))

	envelope, err := Seal(content, []string{host.PublicKey, operator.PublicKey})
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}

	openedByHost, err := Unseal(envelope, host.PrivateKey, memcipher.Null{}, memcipher.ScopeSameProcess)
	if err != nil {
		t.Fatalf("Unseal(host) error: %v", err)
	}
	defer openedByHost.Close()
	if got := openedByHost.String(); got != "API_TOKEN=sk-test-12345" {
		t.Errorf("Unseal(host) = %q", got)
	}

	openedByOperator, err := Unseal(envelope, operator.PrivateKey, memcipher.Null{}, memcipher.ScopeSameProcess)
	if err != nil {
		t.Fatalf("Unseal(operator) error: %v", err)
	}
	defer openedByOperator.Close()
	if got := openedByOperator.String(); got != "API_TOKEN=sk-test-12345" {
		t.Errorf("Unseal(operator) = %q", got)
	}
}

func TestUnseal_WrongKey(t *testing.T) {
	keypair := testKeypair(t)
	wrongKeypair := testKeypair(t)
	content := testString(t, []byte("secret data"))

	envelope, err := Seal(content, []string{keypair.PublicKey})
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}

	_, err = Unseal(envelope, wrongKeypair.PrivateKey, memcipher.Null{}, memcipher.ScopeSameProcess)
	if err == nil {
		t.Error("Unseal() with wrong key should return error")
	}
}

func TestSeal_NoRecipients(t *testing.T) {
	content := testString(t, []byte("data"))

	_, err := Seal(content, nil)
	if err == nil {
		t.Error("Seal() with no recipients should return error")
	}
	if !strings.Contains(err.Error(), "at least one recipient") {
		t.Errorf("error = %v, want 'at least one recipient'", err)
	}

	_, err = Seal(content, []string{})
	if err == nil {
		t.Error("Seal() with empty recipients should return error")
	}
}

func TestSeal_InvalidRecipientKey(t *testing.T) {
	content := testString(t, []byte("data"))

	_, err := Seal(content, []string{"not-a-valid-key"})
	if err == nil {
		t.Error("Seal() with invalid recipient key should return error")
	}
	if !strings.Contains(err.Error(), "parsing recipient key") {
		t.Errorf("error = %v, want 'parsing recipient key'", err)
	}
}

func TestSeal_ReadOnlySource(t *testing.T) {
	keypair := testKeypair(t)
	content := testString(t, []byte("latched"))
	content.MakeReadOnly()

	// The latch blocks mutation, not extraction.
	envelope, err := Seal(content, []string{keypair.PublicKey})
	if err != nil {
		t.Fatalf("Seal() of read-only string error: %v", err)
	}

	opened, err := Unseal(envelope, keypair.PrivateKey, memcipher.Null{}, memcipher.ScopeSameProcess)
	if err != nil {
		t.Fatalf("Unseal() error: %v", err)
	}
	defer opened.Close()
	if got := opened.String(); got != "latched" {
		t.Errorf("Unseal() = %q, want %q", got, "latched")
	}
	// The latch is a property of the source container, not the content.
	if opened.IsReadOnly() {
		t.Error("unsealed string should start writable")
	}
}

func TestUnseal_InvalidPrivateKey(t *testing.T) {
	keypair := testKeypair(t)
	content := testString(t, []byte("data"))

	envelope, err := Seal(content, []string{keypair.PublicKey})
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}

	bogusKey, err := secret.NewFromBytes([]byte("not-a-valid-private-key"))
	if err != nil {
		t.Fatalf("NewFromBytes() error: %v", err)
	}
	defer bogusKey.Close()

	_, err = Unseal(envelope, bogusKey, memcipher.Null{}, memcipher.ScopeSameProcess)
	if err == nil {
		t.Error("Unseal() with invalid private key should return error")
	}
	if !strings.Contains(err.Error(), "parsing private key") {
		t.Errorf("error = %v, want 'parsing private key'", err)
	}
}

func TestUnseal_CorruptedEnvelope(t *testing.T) {
	keypair := testKeypair(t)

	_, err := Unseal([]byte{0xFF, 0xFE, 0xFD}, keypair.PrivateKey, memcipher.Null{}, memcipher.ScopeSameProcess)
	if err == nil {
		t.Error("Unseal() with corrupted envelope should return error")
	}
	if !strings.Contains(err.Error(), "decoding envelope") {
		t.Errorf("error = %v, want 'decoding envelope'", err)
	}
}

func TestUnseal_CorruptedCiphertext(t *testing.T) {
	keypair := testKeypair(t)

	// A well-formed envelope whose ciphertext is not age output.
	envelope, err := codec.Marshal(Envelope{
		Version:    envelopeVersion,
		CreatedAt:  time.Now().UTC(),
		Ciphertext: []byte("this is not age ciphertext"),
	})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	_, err = Unseal(envelope, keypair.PrivateKey, memcipher.Null{}, memcipher.ScopeSameProcess)
	if err == nil {
		t.Error("Unseal() with corrupted ciphertext should return error")
	}
}

func TestUnseal_UnsupportedVersion(t *testing.T) {
	keypair := testKeypair(t)

	envelope, err := codec.Marshal(Envelope{
		Version:    envelopeVersion + 1,
		CreatedAt:  time.Now().UTC(),
		Ciphertext: []byte("x"),
	})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	_, err = Unseal(envelope, keypair.PrivateKey, memcipher.Null{}, memcipher.ScopeSameProcess)
	if err == nil {
		t.Error("Unseal() with unknown version should return error")
	}
	if !strings.Contains(err.Error(), "unsupported envelope version") {
		t.Errorf("error = %v, want 'unsupported envelope version'", err)
	}
}

func TestSealUnseal_EmptyContent(t *testing.T) {
	keypair := testKeypair(t)
	content := testString(t, []byte{})

	envelope, err := Seal(content, []string{keypair.PublicKey})
	if err != nil {
		t.Fatalf("Seal(empty) error: %v", err)
	}

	opened, err := Unseal(envelope, keypair.PrivateKey, memcipher.Null{}, memcipher.ScopeSameProcess)
	if err != nil {
		t.Fatalf("Unseal(empty) error: %v", err)
	}
	defer opened.Close()
	if opened.Len() != 0 {
		t.Errorf("Unseal(empty) length = %d, want 0", opened.Len())
	}
}

func TestSealUnseal_LargeContent(t *testing.T) {
	keypair := testKeypair(t)

	large := make([]byte, 64*1024)
	for i := range large {
		large[i] = byte(i % 256)
	}
	expected := make([]byte, len(large))
	copy(expected, large)

	content := testString(t, large)
	envelope, err := Seal(content, []string{keypair.PublicKey})
	if err != nil {
		t.Fatalf("Seal(large) error: %v", err)
	}

	opened, err := Unseal(envelope, keypair.PrivateKey, memcipher.Null{}, memcipher.ScopeSameProcess)
	if err != nil {
		t.Fatalf("Unseal(large) error: %v", err)
	}
	defer opened.Close()

	recovered, err := opened.Reveal()
	if err != nil {
		t.Fatalf("Reveal() error: %v", err)
	}
	defer secret.Zero(recovered)
	if !bytes.Equal(recovered, expected) {
		t.Error("large content did not round-trip")
	}
}

func TestSealUnseal_XTSAtRest(t *testing.T) {
	keypair := testKeypair(t)
	content := testString(t, []byte("cross-cipher"))

	envelope, err := Seal(content, []string{keypair.PublicKey})
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}

	// Unseal into a container using a different at-rest cipher than
	// the source used.
	cipher, err := memcipher.GenerateXTS()
	if err != nil {
		t.Fatalf("GenerateXTS() error: %v", err)
	}

	opened, err := Unseal(envelope, keypair.PrivateKey, cipher, memcipher.ScopeSameLogon)
	if err != nil {
		t.Fatalf("Unseal() error: %v", err)
	}
	defer opened.Close()
	if got := opened.String(); got != "cross-cipher" {
		t.Errorf("Unseal() = %q, want %q", got, "cross-cipher")
	}
}

func TestInspect(t *testing.T) {
	keypair := testKeypair(t)
	content := testString(t, []byte("metadata test"))

	before := time.Now().Add(-time.Minute)
	envelope, err := Seal(content, []string{keypair.PublicKey})
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}

	info, err := Inspect(envelope)
	if err != nil {
		t.Fatalf("Inspect() error: %v", err)
	}
	if info.Version != envelopeVersion {
		t.Errorf("Version = %d, want %d", info.Version, envelopeVersion)
	}
	if info.CiphertextSize == 0 {
		t.Error("CiphertextSize = 0, want nonzero")
	}
	if info.CreatedAt.Before(before) || info.CreatedAt.After(time.Now().Add(time.Minute)) {
		t.Errorf("CreatedAt = %v, want recent", info.CreatedAt)
	}
}

func TestInspect_Corrupted(t *testing.T) {
	_, err := Inspect([]byte{0xFF, 0xFE})
	if err == nil {
		t.Error("Inspect() with corrupted envelope should return error")
	}
}

func TestEncodeDecodeString(t *testing.T) {
	keypair := testKeypair(t)
	content := testString(t, []byte("armored"))

	envelope, err := Seal(content, []string{keypair.PublicKey})
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}

	armored := EncodeString(envelope)
	decoded, err := DecodeString(armored)
	if err != nil {
		t.Fatalf("DecodeString() error: %v", err)
	}
	if !bytes.Equal(decoded, envelope) {
		t.Error("armor round-trip changed the envelope bytes")
	}

	opened, err := Unseal(decoded, keypair.PrivateKey, memcipher.Null{}, memcipher.ScopeSameProcess)
	if err != nil {
		t.Fatalf("Unseal() error: %v", err)
	}
	defer opened.Close()
	if got := opened.String(); got != "armored" {
		t.Errorf("Unseal() = %q, want %q", got, "armored")
	}
}

func TestDecodeString_Invalid(t *testing.T) {
	_, err := DecodeString("not-valid-base64!!!")
	if err == nil {
		t.Error("DecodeString() with invalid base64 should return error")
	}
}

func TestParsePublicKey(t *testing.T) {
	keypair := testKeypair(t)

	if err := ParsePublicKey(keypair.PublicKey); err != nil {
		t.Errorf("ParsePublicKey(valid) error: %v", err)
	}
	if err := ParsePublicKey("not-a-valid-key"); err == nil {
		t.Error("ParsePublicKey(invalid) should return error")
	}
	if err := ParsePublicKey(""); err == nil {
		t.Error("ParsePublicKey(empty) should return error")
	}
}

func TestParsePrivateKey(t *testing.T) {
	keypair := testKeypair(t)

	if err := ParsePrivateKey(keypair.PrivateKey); err != nil {
		t.Errorf("ParsePrivateKey(valid) error: %v", err)
	}

	bogus, err := secret.NewFromBytes([]byte("not-a-valid-key"))
	if err != nil {
		t.Fatalf("NewFromBytes() error: %v", err)
	}
	defer bogus.Close()
	if err := ParsePrivateKey(bogus); err == nil {
		t.Error("ParsePrivateKey(invalid) should return error")
	}
}
