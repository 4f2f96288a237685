// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
)

// maxSecretSize bounds how much ReadFromPath accepts from a file or
// stdin. Keys and passphrases are tiny; anything larger is a wrong
// path, not a secret.
const maxSecretSize = 64 * 1024

// ReadFromPath reads a secret from a file path, or one line from stdin
// if path is "-". The returned buffer lives in locked memory and must
// be closed by the caller. Leading and trailing whitespace is trimmed
// before storing. Returns an error if the source is empty after
// trimming or larger than 64 KiB.
func ReadFromPath(path string) (*Buffer, error) {
	var data []byte

	if path == "-" {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, maxSecretSize), maxSecretSize)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("reading stdin: %w", err)
			}
			return nil, fmt.Errorf("stdin is empty")
		}
		data = scanner.Bytes()
	} else {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if len(data) > maxSecretSize {
			Zero(data)
			return nil, fmt.Errorf("%s: secret exceeds %d bytes", path, maxSecretSize)
		}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		Zero(data)
		return nil, fmt.Errorf("secret is empty")
	}

	// NewFromBytes copies into locked memory and zeroes trimmed. The
	// whitespace prefix and suffix fall outside trimmed, so zero the
	// whole original region as well.
	buffer, err := NewFromBytes(trimmed)
	Zero(data)
	if err != nil {
		return nil, err
	}
	return buffer, nil
}
