// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

import "testing"

// TestAsyncResumeWithDeliversResult covers the success half of the
// Async contract: the host calls ResumeWith exactly once on the token
// handed to the native function, and the coroutine picks back up with
// that value.
func TestAsyncResumeWithDeliversResult(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	var savedToken Value
	asyncFn := vm.NewNativeAsyncFunction("delayed", 0, func(vm *VM, args []Value, token Value) {
		savedToken = token
	})

	co := vm.NewCoroutine(vm.NewString("t"), asyncFn, nil)
	vm.Schedule(co)
	vm.RunReady()

	if co.CoroutineState() != CoroutineWaiting {
		t.Fatalf("CoroutineState() = %v, want %v", co.CoroutineState(), CoroutineWaiting)
	}
	if _, err := co.CoroutineResult(); err == nil {
		t.Fatal("CoroutineResult() succeeded before the coroutine finished")
	}

	if err := vm.ResumeWith(savedToken, NewInteger(vm.heap, 99)); err != nil {
		t.Fatalf("ResumeWith() error: %v", err)
	}
	vm.RunReady()

	result, err := co.CoroutineResult()
	if err != nil {
		t.Fatalf("CoroutineResult() error: %v", err)
	}
	if !result.IsSuccess() {
		t.Fatal("coroutine did not complete with Result::Success")
	}
	v, _ := result.ResultValue()
	if v.AsInteger() != 99 {
		t.Errorf("resumed value = %d, want 99", v.AsInteger())
	}
}

// TestAsyncPanicWithUnwinds covers the failure half: PanicWith unwinds
// the async frame instead of delivering a plain return value.
func TestAsyncPanicWithUnwinds(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	var savedToken Value
	asyncFn := vm.NewNativeAsyncFunction("delayed", 0, func(vm *VM, args []Value, token Value) {
		savedToken = token
	})

	co := vm.NewCoroutine(vm.NewString("t"), asyncFn, nil)
	vm.Schedule(co)
	vm.RunReady()

	exc := vm.NewException("async failure", "")
	if err := vm.PanicWith(savedToken, exc); err != nil {
		t.Fatalf("PanicWith() error: %v", err)
	}
	vm.RunReady()

	result, err := co.CoroutineResult()
	if err != nil {
		t.Fatalf("CoroutineResult() error: %v", err)
	}
	if !result.IsError() {
		t.Fatal("coroutine did not complete with Result::Error")
	}
	got, _ := result.ResultError()
	if got.ExceptionMessage() != "async failure" {
		t.Errorf("ExceptionMessage() = %q, want %q", got.ExceptionMessage(), "async failure")
	}
}

// TestAsyncTokenSingleUse covers resuming an already-used token: it is
// a usage error, never a silent no-op.
func TestAsyncTokenSingleUse(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	var savedToken Value
	asyncFn := vm.NewNativeAsyncFunction("delayed", 0, func(vm *VM, args []Value, token Value) {
		savedToken = token
	})
	co := vm.NewCoroutine(vm.NewString("t"), asyncFn, nil)
	vm.Schedule(co)
	vm.RunReady()

	if err := vm.ResumeWith(savedToken, Null); err != nil {
		t.Fatalf("first ResumeWith() error: %v", err)
	}
	vm.RunReady()

	if err := vm.ResumeWith(savedToken, Null); err == nil {
		t.Fatal("second ResumeWith() on a used token did not report an error")
	}
}

// TestUncaughtPanicSetsPendingError covers a panic that unwinds past
// the last frame with no Catch: it completes the coroutine with
// Result::Error rather than leaving it half-finished.
func TestUncaughtPanicSetsPendingError(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	panicking := vm.NewNativeSyncFunction("boom", 0, func(vm *VM, args []Value) (Value, error) {
		return Value{}, &panicValue{value: vm.NewException("uncaught", "")}
	})

	result := runToCompletion(t, vm, panicking, nil)
	if !result.IsError() {
		t.Fatal("uncaught panic did not complete the coroutine with Result::Error")
	}
	exc, _ := result.ResultError()
	if exc.ExceptionMessage() != "uncaught" {
		t.Errorf("ExceptionMessage() = %q, want %q", exc.ExceptionMessage(), "uncaught")
	}
}
