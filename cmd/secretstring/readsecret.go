// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/bureau-foundation/secretstring/lib/config"
	"github.com/bureau-foundation/secretstring/lib/memcipher"
	"github.com/bureau-foundation/secretstring/lib/sealed"
	"github.com/bureau-foundation/secretstring/lib/secret"
)

// loadConfig loads the config from an explicit --config path, or from
// SECRETSTRING_CONFIG / defaults when the flag is empty.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// readSecretString reads a secret into a protected string. A non-empty
// path reads a file ("-" for a stdin line). An empty path prompts on
// the terminal with echo disabled, or falls back to reading a stdin
// line when stdin is not a terminal.
func readSecretString(path string, cipher memcipher.Cipher, scope memcipher.Scope) (*secret.String, error) {
	if path == "" {
		stdinFileDescriptor := int(os.Stdin.Fd())
		if term.IsTerminal(stdinFileDescriptor) {
			fmt.Fprint(os.Stderr, "Secret: ")
			secretBytes, err := term.ReadPassword(stdinFileDescriptor)
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return nil, fmt.Errorf("reading secret: %w", err)
			}
			if len(bytes.TrimSpace(secretBytes)) == 0 {
				secret.Zero(secretBytes)
				return nil, fmt.Errorf("secret is empty")
			}
			return secret.NewStringFromBytes(cipher, scope, secretBytes)
		}
		path = "-"
	}

	buffer, err := secret.ReadFromPath(path)
	if err != nil {
		return nil, err
	}
	defer buffer.Close()
	// NewStringFromBytes zeroes the buffer region it copies from;
	// Close wipes the rest.
	return secret.NewStringFromBytes(cipher, scope, buffer.Bytes())
}

// readIdentity loads an age private key from an age-keygen style file:
// comment lines starting with # are skipped and the key is the line
// starting with AGE-SECRET-KEY-. A bare key with no comments also
// works. "-" reads one line from stdin.
func readIdentity(path string) (*secret.Buffer, error) {
	buffer, err := secret.ReadFromPath(path)
	if err != nil {
		return nil, err
	}
	defer buffer.Close()

	for _, line := range bytes.Split(buffer.Bytes(), []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if bytes.HasPrefix(line, []byte("AGE-SECRET-KEY-")) {
			// NewFromBytes zeroes the line in place; the deferred
			// Close wipes the remainder of the file contents.
			return secret.NewFromBytes(line)
		}
	}
	return nil, fmt.Errorf("no age private key found in %s", path)
}

// readEnvelope reads a sealed envelope from a file or stdin and strips
// base64 armor when present. Armored envelopes are pure ASCII; binary
// CBOR envelopes start with a map header byte that base64 never
// contains, so a successful decode identifies armor reliably.
func readEnvelope(path string) ([]byte, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading envelope: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("envelope is empty")
	}

	if decoded, err := sealed.DecodeString(string(bytes.TrimSpace(data))); err == nil {
		return decoded, nil
	}
	return data, nil
}

// writeOutput writes data to a file (0600) or to stdout when path is
// empty or "-".
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
