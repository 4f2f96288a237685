// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package memlock

import (
	"testing"
)

func TestAlloc_ValidSize(t *testing.T) {
	data, err := Alloc(64)
	if err != nil {
		t.Fatalf("Alloc(64) failed: %v", err)
	}
	defer Free(data)

	if len(data) != 64 {
		t.Errorf("expected length 64, got %d", len(data))
	}

	// Memory must be zero-initialized.
	for index, value := range data {
		if value != 0 {
			t.Fatalf("expected zero at index %d, got %d", index, value)
		}
	}
}

func TestAlloc_ZeroSize(t *testing.T) {
	_, err := Alloc(0)
	if err == nil {
		t.Fatal("expected error for zero size")
	}
}

func TestAlloc_NegativeSize(t *testing.T) {
	_, err := Alloc(-1)
	if err == nil {
		t.Fatal("expected error for negative size")
	}
}

func TestAlloc_Writable(t *testing.T) {
	data, err := Alloc(16)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	defer Free(data)

	copy(data, []byte("sixteen bytes ok"))
	if string(data) != "sixteen bytes ok" {
		t.Errorf("unexpected content: %q", data)
	}
}

func TestFree_Nil(t *testing.T) {
	if err := Free(nil); err != nil {
		t.Errorf("Free(nil) returned error: %v", err)
	}
}

func TestFree_ReleasesRegion(t *testing.T) {
	data, err := Alloc(32)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	copy(data, []byte("this should be zeroed"))

	if err := Free(data); err != nil {
		t.Fatalf("Free failed: %v", err)
	}
}

func TestWipe(t *testing.T) {
	data := []byte("sensitive")
	wipe(data)
	for index, value := range data {
		if value != 0 {
			t.Fatalf("byte %d not zeroed: got %d", index, value)
		}
	}
}
