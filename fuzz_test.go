// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

import (
	"bytes"
	"testing"
)

func TestFuzzAcceptsValidModule(t *testing.T) {
	var buf bytes.Buffer
	image := &moduleImage{name: "ok", exports: map[string]int{}, initializer: -1}
	if err := EncodeModule(&buf, image); err != nil {
		t.Fatalf("EncodeModule() error: %v", err)
	}

	if got := Fuzz(buf.Bytes()); got != 1 {
		t.Errorf("Fuzz() on a valid module = %d, want 1", got)
	}
}

func TestFuzzRejectsGarbageWithoutPanicking(t *testing.T) {
	if got := Fuzz([]byte("definitely not a tiro module")); got != 0 {
		t.Errorf("Fuzz() on garbage input = %d, want 0", got)
	}
}

func TestFuzzHandlesEmptyInput(t *testing.T) {
	if got := Fuzz(nil); got != 0 {
		t.Errorf("Fuzz(nil) = %d, want 0", got)
	}
}
