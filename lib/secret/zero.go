// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import "runtime"

// Zero overwrites data with zeros. Safe on nil. The KeepAlive pins the
// slice so the compiler cannot elide the stores as dead writes.
//
// Use this on every transient heap slice that has held secret
// material: password bytes from a prompt, plaintext returned by
// [String.Reveal], intermediate copies at API boundaries.
func Zero(data []byte) {
	for index := range data {
		data[index] = 0
	}
	runtime.KeepAlive(data)
}
