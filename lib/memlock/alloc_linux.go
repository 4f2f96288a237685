// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package memlock

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Alloc allocates size bytes of protected memory. The region is backed
// by an anonymous mmap outside the Go heap:
//   - Locked into physical RAM (mlock), preventing swap
//   - Excluded from core dumps (MADV_DONTDUMP)
//   - Invisible to the garbage collector, so it is never copied or
//     relocated
//
// The returned slice is zero-filled. The caller must release it with
// Free.
func Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("memlock: allocation size must be positive, got %d", size)
	}

	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("memlock: mmap failed: %w", err)
	}

	// Lock the memory to prevent it from being swapped to disk.
	if err := unix.Mlock(data); err != nil {
		unix.Munmap(data)
		return nil, fmt.Errorf("memlock: mlock failed: %w", err)
	}

	// Exclude from core dumps. MADV_DONTDUMP may not be supported on
	// all kernels; the allocation is rejected rather than handed out
	// with a weaker guarantee than advertised.
	if err := unix.Madvise(data, unix.MADV_DONTDUMP); err != nil {
		unix.Munlock(data)
		unix.Munmap(data)
		return nil, fmt.Errorf("memlock: madvise(MADV_DONTDUMP) failed: %w", err)
	}

	return data, nil
}

// Free zeroes data and returns the region to the operating system.
// Passing nil or an empty slice is a no-op. The first unlock or unmap
// error is returned, but release proceeds regardless; the memory is
// reclaimed when the process exits either way.
func Free(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	wipe(data)

	var firstError error
	if err := unix.Munlock(data); err != nil && firstError == nil {
		firstError = fmt.Errorf("memlock: munlock failed: %w", err)
	}
	if err := unix.Munmap(data); err != nil && firstError == nil {
		firstError = fmt.Errorf("memlock: munmap failed: %w", err)
	}
	return firstError
}
