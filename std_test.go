// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

import "testing"

func runToCompletion(t *testing.T, vm *VM, fn Value, args []Value) Value {
	t.Helper()
	co := vm.NewCoroutine(vm.NewString(t.Name()), fn, args)
	vm.Schedule(co)
	vm.RunReady()
	result, err := co.CoroutineResult()
	if err != nil {
		t.Fatalf("CoroutineResult() error: %v", err)
	}
	return result
}

func TestStdPanic(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()
	if err := vm.LoadStd(); err != nil {
		t.Fatal(err)
	}
	std, err := vm.GetModule("std")
	if err != nil {
		t.Fatal(err)
	}
	panicFn, err := std.ModuleGetExport("panic")
	if err != nil {
		t.Fatal(err)
	}

	result := runToCompletion(t, vm, panicFn, []Value{vm.NewString("nope!")})
	if !result.IsError() {
		t.Fatal("std.panic did not complete the coroutine with Result::Error")
	}
	exc, _ := result.ResultError()
	if got := exc.ExceptionMessage(); got != "nope!" {
		t.Errorf("ExceptionMessage() = %q, want %q", got, "nope!")
	}
}

func TestStdPrint(t *testing.T) {
	var out string
	vm := New(Options{Stdout: func(s string) { out += s }})
	defer vm.Close()
	if err := vm.LoadStd(); err != nil {
		t.Fatal(err)
	}
	std, err := vm.GetModule("std")
	if err != nil {
		t.Fatal(err)
	}
	printFn, err := std.ModuleGetExport("print")
	if err != nil {
		t.Fatal(err)
	}

	result := runToCompletion(t, vm, printFn, []Value{vm.NewString("hello")})
	if !result.IsSuccess() {
		t.Fatal("std.print did not complete successfully")
	}
	if out != "hello\n" {
		t.Errorf("Stdout sink received %q, want %q", out, "hello\n")
	}
}

func TestStdCatchPanicCatchesAPanic(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()
	if err := vm.LoadStd(); err != nil {
		t.Fatal(err)
	}
	std, err := vm.GetModule("std")
	if err != nil {
		t.Fatal(err)
	}
	catchFn, err := std.ModuleGetExport("catch_panic")
	if err != nil {
		t.Fatal(err)
	}

	wrapped := vm.NewNativeSyncFunction("wrapped", 0, func(vm *VM, args []Value) (Value, error) {
		return Value{}, &panicValue{value: vm.NewException("boom", "")}
	})

	result := runToCompletion(t, vm, catchFn, []Value{wrapped})
	if !result.IsSuccess() {
		t.Fatal("catch_panic did not complete the coroutine successfully")
	}
	inner, _ := result.ResultValue()
	if !inner.IsError() {
		t.Fatal("catch_panic's Result::Success did not wrap an inner Result::Error")
	}
	exc, _ := inner.ResultError()
	if got := exc.ExceptionMessage(); got != "boom" {
		t.Errorf("caught ExceptionMessage() = %q, want %q", got, "boom")
	}
}

func TestStdCatchPanicPassesThroughSuccess(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()
	if err := vm.LoadStd(); err != nil {
		t.Fatal(err)
	}
	std, err := vm.GetModule("std")
	if err != nil {
		t.Fatal(err)
	}
	catchFn, err := std.ModuleGetExport("catch_panic")
	if err != nil {
		t.Fatal(err)
	}

	wrapped := vm.NewNativeSyncFunction("wrapped", 0, func(vm *VM, args []Value) (Value, error) {
		return NewInteger(vm.heap, 7), nil
	})

	result := runToCompletion(t, vm, catchFn, []Value{wrapped})
	if !result.IsSuccess() {
		t.Fatal("catch_panic did not complete the coroutine successfully")
	}
	inner, _ := result.ResultValue()
	if !inner.IsSuccess() {
		t.Fatal("catch_panic's Result::Success did not wrap an inner Result::Success")
	}
	v, _ := inner.ResultValue()
	if v.AsInteger() != 7 {
		t.Errorf("wrapped call result = %d, want 7", v.AsInteger())
	}
}

func TestIsMagicCatch(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	catch := vm.newMagicCatchFunction()
	if !isMagicCatch(catch) {
		t.Error("isMagicCatch(catch) = false, want true")
	}
	if isMagicCatch(vm.NewString("not catch")) {
		t.Error("isMagicCatch(string) = true, want false")
	}
}
