// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

import "testing"

func TestNewBufferIsZeroed(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	buf := vm.NewBuffer(8)
	if buf.BufferLen() != 8 {
		t.Fatalf("BufferLen() = %d, want 8", buf.BufferLen())
	}
	for i, b := range buf.Data() {
		if b != 0 {
			t.Errorf("Data()[%d] = %d, want 0", i, b)
		}
	}
	buf.Data()[0] = 0xFF
	if buf.Data()[0] != 0xFF {
		t.Error("mutation through Data() did not persist")
	}
}

func TestStringBuilderAppendAndString(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	sb := vm.NewStringBuilder()
	sb.StringBuilderAppend("hello, ")
	sb.StringBuilderAppend("world")
	if got := sb.StringBuilderString(); got != "hello, world" {
		t.Errorf("StringBuilderString() = %q, want %q", got, "hello, world")
	}
}

func TestNativePointerRoundTrip(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	type marker struct{ n int }
	m := &marker{n: 7}
	v := vm.NewNativePointer(m)
	got, ok := v.NativePointer().(*marker)
	if !ok || got != m {
		t.Error("NativePointer() did not round-trip the original pointer")
	}
}

func TestNativeObjectFinalizerRunsOnSweep(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	finalized := false
	func() {
		scope := vm.NewScope()
		defer scope.Close()
		scope.NewLocal(vm.NewNativeObject("payload", func(any) { finalized = true }))
	}()

	vm.heap.Collect()
	if !finalized {
		t.Error("NativeObject finalizer did not run after its only root was released")
	}
}
