// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

import "bytes"

// Fuzz feeds arbitrary bytes to DecodeModule, the entry point that
// turns an untrusted bytecode module image into in-memory structures.
// DecodeModule must never panic on malformed input; it should only
// ever return a well-formed ErrBadSource.
func Fuzz(data []byte) int {
	m, err := DecodeModule(bytes.NewReader(data))
	if err != nil {
		return 0
	}
	if m == nil {
		panic("tiro: DecodeModule returned a nil module with a nil error")
	}
	return 1
}
