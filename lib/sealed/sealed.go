// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	"filippo.io/age"

	"github.com/bureau-foundation/secretstring/lib/codec"
	"github.com/bureau-foundation/secretstring/lib/memcipher"
	"github.com/bureau-foundation/secretstring/lib/secret"
)

// envelopeVersion is the current envelope format. Bump on any change
// to the Envelope struct or its encryption layout.
const envelopeVersion = 1

// Envelope is the CBOR wire format for a sealed secret: an age
// ciphertext with enough metadata to route it to the right decryption
// path later. Integer keys keep the encoding compact.
//
// The recipient list is deliberately absent. age embeds per-recipient
// stanzas in the ciphertext itself, and repeating them in cleartext
// metadata would reveal who can open the envelope.
type Envelope struct {
	// Version is the envelope format version. Decoders reject
	// versions they do not understand rather than misparse.
	Version int `cbor:"1,keyasint"`

	// CreatedAt records when the envelope was sealed, for key
	// rotation audits. Second precision.
	CreatedAt time.Time `cbor:"2,keyasint"`

	// Ciphertext is the binary age v1 ciphertext.
	Ciphertext []byte `cbor:"3,keyasint"`
}

// Info is the cleartext metadata of an envelope, readable without any
// key material.
type Info struct {
	Version        int       `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	CiphertextSize int       `json:"ciphertext_size"`
}

// Keypair holds an age x25519 keypair. The private key is stored in a
// secret.Buffer (locked memory, zeroed on close). The public key is a
// plain string, safe to publish.
//
// The caller must call Close when the keypair is no longer needed.
type Keypair struct {
	// PrivateKey is the secret key in AGE-SECRET-KEY-1... format,
	// stored in locked memory outside the Go heap. Must never be
	// logged, stored in plaintext on disk, or included in CLI
	// arguments.
	PrivateKey *secret.Buffer

	// PublicKey is the corresponding public key in age1... format.
	PublicKey string
}

// Close releases the private key memory. Idempotent.
func (k *Keypair) Close() error {
	if k.PrivateKey != nil {
		return k.PrivateKey.Close()
	}
	return nil
}

// GenerateKeypair generates a new age x25519 keypair. The private key
// is returned in a secret.Buffer.
//
// The caller must call Close on the returned Keypair when done.
func GenerateKeypair() (*Keypair, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generating age keypair: %w", err)
	}

	// Move the private key string into locked memory immediately.
	privateKeyBytes := []byte(identity.String())
	privateKey, err := secret.NewFromBytes(privateKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("protecting private key: %w", err)
	}
	// privateKeyBytes is zeroed by NewFromBytes. The string returned
	// by identity.String() is on the heap and will be GC'd;
	// unavoidable, since age exposes keys as strings. The locked
	// buffer is the durable copy.

	return &Keypair{
		PrivateKey: privateKey,
		PublicKey:  identity.Recipient().String(),
	}, nil
}

// Seal encrypts the content of a protected string to one or more
// recipients specified by their age public key strings (age1...
// format) and returns the binary CBOR envelope. The content is
// extracted transiently; the container is left encrypted at rest and
// is not closed.
//
// At least one recipient is required. Recipients are typically the
// target host's public key plus an operator escrow key.
func Seal(content *secret.String, recipientKeys []string) ([]byte, error) {
	if len(recipientKeys) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}

	recipients := make([]age.Recipient, 0, len(recipientKeys))
	for _, key := range recipientKeys {
		recipient, err := age.ParseX25519Recipient(key)
		if err != nil {
			return nil, fmt.Errorf("parsing recipient key %q: %w", key, err)
		}
		recipients = append(recipients, recipient)
	}

	plaintext, err := content.Reveal()
	if err != nil {
		return nil, fmt.Errorf("extracting content: %w", err)
	}
	defer secret.Zero(plaintext)

	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, recipients...)
	if err != nil {
		return nil, fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing plaintext to age encryptor: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing age encryption: %w", err)
	}

	envelope := Envelope{
		Version:    envelopeVersion,
		CreatedAt:  time.Now().UTC(),
		Ciphertext: ciphertext.Bytes(),
	}
	encoded, err := codec.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("encoding envelope: %w", err)
	}
	return encoded, nil
}

// Unseal decrypts a CBOR envelope with the given private key and
// returns the content in a new protected string using the given
// at-rest cipher and scope. The private key is borrowed and not
// closed.
//
// The caller must call Close on the returned string when done.
func Unseal(envelopeBytes []byte, privateKey *secret.Buffer, cipher memcipher.Cipher, scope memcipher.Scope) (*secret.String, error) {
	var envelope Envelope
	if err := codec.Unmarshal(envelopeBytes, &envelope); err != nil {
		return nil, fmt.Errorf("decoding envelope: %w", err)
	}
	if envelope.Version != envelopeVersion {
		return nil, fmt.Errorf("unsupported envelope version %d", envelope.Version)
	}

	// Parse the identity at the API boundary; age requires a string.
	// The heap copy is brief and request-scoped.
	identity, err := age.ParseX25519Identity(privateKey.String())
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	reader, err := age.Decrypt(bytes.NewReader(envelope.Ciphertext), identity)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}
	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted plaintext: %w", err)
	}

	// NewStringFromBytes zeroes the heap plaintext after moving it
	// into the protected container.
	content, err := secret.NewStringFromBytes(cipher, scope, plaintext)
	if err != nil {
		secret.Zero(plaintext)
		return nil, fmt.Errorf("protecting decrypted content: %w", err)
	}
	return content, nil
}

// Inspect decodes an envelope's cleartext metadata without touching
// the ciphertext. No key material is required.
func Inspect(envelopeBytes []byte) (*Info, error) {
	var envelope Envelope
	if err := codec.Unmarshal(envelopeBytes, &envelope); err != nil {
		return nil, fmt.Errorf("decoding envelope: %w", err)
	}
	return &Info{
		Version:        envelope.Version,
		CreatedAt:      envelope.CreatedAt,
		CiphertextSize: len(envelope.Ciphertext),
	}, nil
}

// EncodeString renders a binary envelope as standard base64 for
// transports that cannot carry binary: JSON fields, environment
// variables, terminal paste.
func EncodeString(envelopeBytes []byte) string {
	return base64.StdEncoding.EncodeToString(envelopeBytes)
}

// DecodeString decodes a base64 envelope produced by EncodeString.
func DecodeString(armored string) ([]byte, error) {
	envelopeBytes, err := base64.StdEncoding.DecodeString(armored)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 envelope: %w", err)
	}
	return envelopeBytes, nil
}

// ParsePublicKey validates an age public key string. Returns an error
// if the key is not a valid age x25519 public key. Useful for
// validating configured recipients before sealing.
func ParsePublicKey(publicKey string) error {
	_, err := age.ParseX25519Recipient(publicKey)
	if err != nil {
		return fmt.Errorf("invalid age public key: %w", err)
	}
	return nil
}

// ParsePrivateKey validates an age private key stored in a
// secret.Buffer. Returns an error if the key is not a valid age x25519
// private key.
func ParsePrivateKey(privateKey *secret.Buffer) error {
	_, err := age.ParseX25519Identity(privateKey.String())
	if err != nil {
		return fmt.Errorf("invalid age private key: %w", err)
	}
	return nil
}
