// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package memlock

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Alloc allocates size bytes of protected memory via VirtualAlloc and
// pins it into the working set with VirtualLock so it cannot be paged
// to disk. The returned slice is zero-filled. The caller must release
// it with Free.
func Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("memlock: allocation size must be positive, got %d", size)
	}

	address, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, fmt.Errorf("memlock: VirtualAlloc failed: %w", err)
	}

	if err := windows.VirtualLock(address, uintptr(size)); err != nil {
		windows.VirtualFree(address, 0, windows.MEM_RELEASE)
		return nil, fmt.Errorf("memlock: VirtualLock failed: %w", err)
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(address)), size), nil
}

// Free zeroes data and returns the region to the operating system.
// Passing nil or an empty slice is a no-op. The first unlock or free
// error is returned, but release proceeds regardless.
func Free(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	wipe(data)

	address := uintptr(unsafe.Pointer(&data[0]))
	var firstError error
	if err := windows.VirtualUnlock(address, uintptr(len(data))); err != nil && firstError == nil {
		firstError = fmt.Errorf("memlock: VirtualUnlock failed: %w", err)
	}
	if err := windows.VirtualFree(address, 0, windows.MEM_RELEASE); err != nil && firstError == nil {
		firstError = fmt.Errorf("memlock: VirtualFree failed: %w", err)
	}
	return firstError
}
