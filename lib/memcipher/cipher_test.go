// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package memcipher

import (
	"errors"
	"testing"
)

func TestParseScope(t *testing.T) {
	tests := []struct {
		name     string
		expected Scope
	}{
		{"same-process", ScopeSameProcess},
		{"cross-process", ScopeCrossProcess},
		{"same-logon", ScopeSameLogon},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			scope, err := ParseScope(test.name)
			if err != nil {
				t.Fatalf("ParseScope(%q) failed: %v", test.name, err)
			}
			if scope != test.expected {
				t.Errorf("ParseScope(%q) = %v, want %v", test.name, scope, test.expected)
			}
			if scope.String() != test.name {
				t.Errorf("Scope.String() = %q, want %q", scope.String(), test.name)
			}
		})
	}
}

func TestParseScope_Unknown(t *testing.T) {
	if _, err := ParseScope("machine-wide"); err == nil {
		t.Fatal("expected error for unknown scope name")
	}
}

func TestScope_Values(t *testing.T) {
	if ScopeSameProcess != 0x00 || ScopeCrossProcess != 0x01 || ScopeSameLogon != 0x02 {
		t.Fatalf("scope flag values changed: %#x %#x %#x",
			uint32(ScopeSameProcess), uint32(ScopeCrossProcess), uint32(ScopeSameLogon))
	}
}

func TestNull_Contract(t *testing.T) {
	var cipher Null

	if !cipher.Supported() {
		t.Error("Null must report Supported")
	}
	if cipher.BlockSize() != 1 {
		t.Errorf("Null block size = %d, want 1", cipher.BlockSize())
	}

	content := []byte("plaintext stays put")
	original := string(content)

	if err := cipher.Encrypt(content, len(content), ScopeSameProcess); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if string(content) != original {
		t.Errorf("Null.Encrypt changed content: %q", content)
	}
	if err := cipher.Decrypt(content, len(content), ScopeSameProcess); err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if string(content) != original {
		t.Errorf("Null.Decrypt changed content: %q", content)
	}
}

func TestNull_LengthBeyondBuffer(t *testing.T) {
	var cipher Null
	buffer := make([]byte, 4)
	if err := cipher.Encrypt(buffer, 8, ScopeSameProcess); err == nil {
		t.Fatal("expected error for length beyond buffer")
	}
}

func TestCheckLength_Misaligned(t *testing.T) {
	buffer := make([]byte, 32)
	err := checkLength(buffer, 10, 16)
	if !errors.Is(err, ErrBadLength) {
		t.Fatalf("expected ErrBadLength, got %v", err)
	}
}

func TestCheckLength_Negative(t *testing.T) {
	buffer := make([]byte, 32)
	if err := checkLength(buffer, -16, 16); err == nil {
		t.Fatal("expected error for negative length")
	}
}
