// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/secretstring/lib/secret"
)

// fingerprintKeySize is the BLAKE3 key length: 32 bytes, 64 hex
// characters on disk.
const fingerprintKeySize = 32

// runFingerprint prints the keyed BLAKE3 fingerprint of a secret, for
// correlating secrets across logs and inventories without revealing
// them. The key keeps low-entropy secrets safe from dictionary
// attack, so fingerprints are only comparable under the same key.
func runFingerprint(args []string) error {
	flags := pflag.NewFlagSet("fingerprint", pflag.ContinueOnError)
	var (
		configPath string
		inPath     string
		keyPath    string
		newKey     bool
	)
	flags.StringVar(&configPath, "config", "", "path to config file (default: $SECRETSTRING_CONFIG)")
	flags.StringVar(&inPath, "in", "", "read the secret from this file (\"-\" for stdin; default: prompt)")
	flags.StringVar(&keyPath, "key", "", "file holding the 64-hex-character fingerprint key")
	flags.BoolVar(&newKey, "new-key", false, "generate a fresh fingerprint key and print it")
	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if newKey {
		key := make([]byte, fingerprintKeySize)
		if _, err := rand.Read(key); err != nil {
			return fmt.Errorf("generating key: %w", err)
		}
		fmt.Printf("%s\n", hex.EncodeToString(key))
		return nil
	}
	if keyPath == "" {
		return fmt.Errorf("a fingerprint key is required (--key, or --new-key to create one)")
	}

	keyBuffer, err := secret.ReadFromPath(keyPath)
	if err != nil {
		return err
	}
	defer keyBuffer.Close()

	keyHex := keyBuffer.Bytes()
	key := make([]byte, hex.DecodedLen(len(keyHex)))
	if _, err := hex.Decode(key, keyHex); err != nil {
		return fmt.Errorf("parsing fingerprint key: %w", err)
	}
	defer secret.Zero(key)
	if len(key) != fingerprintKeySize {
		return fmt.Errorf("fingerprint key must be %d bytes (%d hex characters), got %d",
			fingerprintKeySize, fingerprintKeySize*2, len(key))
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	cipher, scope, err := cfg.BuildCipher()
	if err != nil {
		return err
	}

	content, err := readSecretString(inPath, cipher, scope)
	if err != nil {
		return err
	}
	defer content.Close()

	fingerprint, err := content.Fingerprint(key)
	if err != nil {
		return fmt.Errorf("fingerprinting: %w", err)
	}
	fmt.Printf("%s\n", hex.EncodeToString(fingerprint[:]))
	return nil
}
