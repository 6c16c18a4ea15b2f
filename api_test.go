// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

import "testing"

func TestTypeOfAndKindToType(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	s := vm.NewString("hi")
	pt := vm.TypeOf(s)
	if pt.Kind != KindString {
		t.Errorf("TypeOf(string).Kind = %v, want %v", pt.Kind, KindString)
	}
	if vm.KindToType(KindString) != pt {
		t.Error("KindToType(KindString) is not the same PublicType singleton TypeOf returned")
	}
}

func TestRegisterMethodIsConsultedByTypeOf(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	fn := vm.NewNativeSyncFunction("double", 1, func(vm *VM, args []Value) (Value, error) {
		return NewInteger(vm.heap, args[0].AsInteger()*2), nil
	})
	vm.RegisterMethod(KindInteger, "double", fn)

	pt := vm.TypeOf(NewInteger(vm.heap, 1))
	got, ok := pt.methods["double"]
	if !ok {
		t.Fatal("RegisterMethod did not install the method on the integer PublicType")
	}
	if !Same(got, fn) {
		t.Error("installed method is not the same value passed to RegisterMethod")
	}
}

func TestCopyValueIsIdentity(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	s := vm.NewString("x")
	c := CopyValue(s)
	if !Same(s, c) {
		t.Error("CopyValue did not preserve identity of a heap-allocated value")
	}
}

func TestCoroutineStartedAndCompleted(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	fn := vm.NewNativeSyncFunction("noop", 0, func(vm *VM, args []Value) (Value, error) {
		return Null, nil
	})
	co := vm.NewCoroutine(vm.NewString("t"), fn, nil)
	if co.Started() {
		t.Error("Started() true for a freshly-created coroutine")
	}
	if co.Completed() {
		t.Error("Completed() true for a freshly-created coroutine")
	}

	vm.Schedule(co)
	vm.RunReady()

	if !co.Started() {
		t.Error("Started() false after scheduling and running the coroutine")
	}
	if !co.Completed() {
		t.Error("Completed() false after the coroutine finished")
	}
}
