// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package memlock

import "runtime"

// wipe overwrites data with zeros. The KeepAlive pins the slice so the
// compiler cannot treat the stores as dead writes to memory that is
// about to be released.
func wipe(data []byte) {
	for index := range data {
		data[index] = 0
	}
	runtime.KeepAlive(data)
}
