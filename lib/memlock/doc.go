// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package memlock allocates byte slices outside the Go heap with
// operating-system protections against disclosure.
//
// [Alloc] returns a zero-filled region that is locked into physical
// RAM (never swapped to disk), excluded from core dumps where the
// platform supports it, and invisible to the garbage collector, which
// therefore cannot copy or relocate it. [Free] zeroes the region
// before returning it to the operating system, on every path.
//
// Platform backends:
//
//   - Linux: mmap(MAP_ANONYMOUS) + mlock + madvise(MADV_DONTDUMP)
//   - Windows: VirtualAlloc + VirtualLock
//   - Elsewhere: ordinary heap allocation; the zero-on-release
//     guarantee holds, the swap and core-dump exclusions do not
//
// Depends on golang.org/x/sys. Imported by lib/secret for protected
// string and scratch buffer storage.
package memlock
