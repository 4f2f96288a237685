// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package memcipher

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

// dpapiBlockSize is RTL_ENCRYPT_MEMORY_SIZE: RtlEncryptMemory operates
// on multiples of 8 bytes.
const dpapiBlockSize = 8

// RtlEncryptMemory and RtlDecryptMemory are exported from advapi32 by
// ordinal-era names. The kernel holds the keys; Scope values map
// directly onto the RTL_ENCRYPT_OPTION_* flags.
var (
	advapi32             = windows.NewLazySystemDLL("advapi32.dll")
	procRtlEncryptMemory = advapi32.NewProc("SystemFunction040")
	procRtlDecryptMemory = advapi32.NewProc("SystemFunction041")
)

// DPAPI encrypts memory in place with the Windows RtlEncryptMemory
// family. Block size 8; key management is entirely the kernel's, so
// ScopeCrossProcess and ScopeSameLogon work across processes without
// any key distribution.
type DPAPI struct {
	probeOnce sync.Once
	supported bool
}

var _ Cipher = (*DPAPI)(nil)

// NewDPAPI returns the RtlEncryptMemory provider.
func NewDPAPI() *DPAPI { return &DPAPI{} }

// Supported probes the provider once by encrypting a scratch block and
// caches the result.
func (d *DPAPI) Supported() bool {
	d.probeOnce.Do(func() {
		scratch := make([]byte, dpapiBlockSize)
		d.supported = rtlCall(procRtlEncryptMemory, scratch, dpapiBlockSize, ScopeSameProcess) == nil
	})
	return d.supported
}

// BlockSize returns 8 (RTL_ENCRYPT_MEMORY_SIZE).
func (d *DPAPI) BlockSize() int { return dpapiBlockSize }

// Encrypt encrypts buffer[:byteLength] in place.
func (d *DPAPI) Encrypt(buffer []byte, byteLength int, scope Scope) error {
	return rtlCall(procRtlEncryptMemory, buffer, byteLength, scope)
}

// Decrypt decrypts buffer[:byteLength] in place.
func (d *DPAPI) Decrypt(buffer []byte, byteLength int, scope Scope) error {
	return rtlCall(procRtlDecryptMemory, buffer, byteLength, scope)
}

func rtlCall(proc *windows.LazyProc, buffer []byte, byteLength int, scope Scope) error {
	if err := checkLength(buffer, byteLength, dpapiBlockSize); err != nil {
		return err
	}
	if byteLength == 0 {
		return nil
	}
	status, _, _ := proc.Call(
		uintptr(unsafe.Pointer(&buffer[0])),
		uintptr(byteLength),
		uintptr(scope),
	)
	if status != 0 {
		return fmt.Errorf("memcipher: %s failed: %w", proc.Name, windows.NTStatus(status))
	}
	return nil
}
