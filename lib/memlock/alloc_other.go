// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux && !windows

package memlock

import "fmt"

// Alloc falls back to an ordinary heap allocation on platforms without
// a page-locking backend. The zero-on-release guarantee still holds;
// the swap and core-dump exclusions do not.
func Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("memlock: allocation size must be positive, got %d", size)
	}
	return make([]byte, size), nil
}

// Free zeroes data and drops the reference. Passing nil or an empty
// slice is a no-op.
func Free(data []byte) error {
	wipe(data)
	return nil
}
