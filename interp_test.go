// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

import "testing"

// newCodeFunction builds a callable user function out of a raw
// instruction/constant stream, bypassing the bytecode wire format
// entirely — used to exercise the interpreter's opcode dispatch
// directly.
func newCodeFunction(vm *VM, name string, paramCount, localCount int, constants []Value, code []Instruction) Value {
	tmplObj := vm.heap.allocObject(&internalCodeFunctionTemplate, &codeFunctionTemplatePayload{
		name: name, paramCount: paramCount, localCount: localCount,
		code: &compiledCode{instructions: code, constants: constants},
	})
	return vm.NewFunction(tmplObj, Null)
}

func TestInterpAddsTwoParams(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	fn := newCodeFunction(vm, "add", 2, 0, nil, []Instruction{
		{Op: OpLoadParam, A: 0},
		{Op: OpLoadParam, A: 1},
		{Op: OpAdd},
		{Op: OpReturn},
	})

	result := runToCompletion(t, vm, fn, []Value{NewInteger(vm.heap, 3), NewInteger(vm.heap, 4)})
	v, err := result.ResultValue()
	if err != nil {
		t.Fatalf("ResultValue() error: %v", err)
	}
	if v.AsInteger() != 7 {
		t.Errorf("add(3, 4) = %d, want 7", v.AsInteger())
	}
}

func TestInterpIntegerOverflowPanics(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	constants := []Value{NewInteger(vm.heap, math63max())}
	fn := newCodeFunction(vm, "overflow", 0, 0, constants, []Instruction{
		{Op: OpLoadConst, A: 0},
		{Op: OpLoadConst, A: 0},
		{Op: OpAdd},
		{Op: OpReturn},
	})

	result := runToCompletion(t, vm, fn, nil)
	if !result.IsError() {
		t.Fatal("integer overflow in OpAdd did not complete with Result::Error")
	}
}

func math63max() int64 { return 1<<63 - 1 }

func TestInterpCallsAnotherFunction(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	doubleFn := newCodeFunction(vm, "double", 1, 0, nil, []Instruction{
		{Op: OpLoadParam, A: 0},
		{Op: OpLoadParam, A: 0},
		{Op: OpAdd},
		{Op: OpReturn},
	})

	constants := []Value{doubleFn, NewInteger(vm.heap, 21)}
	callerFn := newCodeFunction(vm, "caller", 0, 0, constants, []Instruction{
		{Op: OpLoadConst, A: 0},
		{Op: OpLoadConst, A: 1},
		{Op: OpCall, A: 1},
		{Op: OpReturn},
	})

	result := runToCompletion(t, vm, callerFn, nil)
	v, err := result.ResultValue()
	if err != nil {
		t.Fatalf("ResultValue() error: %v", err)
	}
	if v.AsInteger() != 42 {
		t.Errorf("caller() = %d, want 42", v.AsInteger())
	}
}

func TestInterpArrayOps(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	fn := newCodeFunction(vm, "makeArray", 0, 0, []Value{
		NewInteger(vm.heap, 1), NewInteger(vm.heap, 2), NewInteger(vm.heap, 3),
	}, []Instruction{
		{Op: OpLoadConst, A: 0},
		{Op: OpLoadConst, A: 1},
		{Op: OpLoadConst, A: 2},
		{Op: OpArray, A: 3},
		{Op: OpReturn},
	})

	result := runToCompletion(t, vm, fn, nil)
	v, _ := result.ResultValue()
	if v.Kind() != KindArray || v.ArrayLen() != 3 {
		t.Fatalf("makeArray() = kind %v len %d, want Array of length 3", v.Kind(), v.ArrayLen())
	}
	if v.ArrayGet(2).AsInteger() != 3 {
		t.Errorf("ArrayGet(2) = %d, want 3", v.ArrayGet(2).AsInteger())
	}
}

func TestInterpUncaughtPanicYieldsResultError(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	fn := newCodeFunction(vm, "boom", 0, 0, []Value{vm.NewString("bad assertion")}, []Instruction{
		{Op: OpAssertFail, A: 0},
	})

	result := runToCompletion(t, vm, fn, nil)
	if !result.IsError() {
		t.Fatal("OpAssertFail did not complete the coroutine with Result::Error")
	}
	exc, _ := result.ResultError()
	if exc.ExceptionMessage() != "bad assertion" {
		t.Errorf("ExceptionMessage() = %q, want %q", exc.ExceptionMessage(), "bad assertion")
	}
}

func TestInterpComparisonOpcodes(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	fn := newCodeFunction(vm, "cmp", 0, 0, []Value{
		NewInteger(vm.heap, 3), NewInteger(vm.heap, 5),
	}, []Instruction{
		{Op: OpLoadConst, A: 0},
		{Op: OpLoadConst, A: 1},
		{Op: OpLt},
		{Op: OpReturn},
	})

	result := runToCompletion(t, vm, fn, nil)
	v, _ := result.ResultValue()
	if !v.AsBoolean() {
		t.Error("3 < 5 evaluated to false")
	}
}

func TestInterpFallingOffEndReturnsNull(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	fn := newCodeFunction(vm, "empty", 0, 0, nil, []Instruction{{Op: OpNop}})
	result := runToCompletion(t, vm, fn, nil)
	v, err := result.ResultValue()
	if err != nil {
		t.Fatalf("ResultValue() error: %v", err)
	}
	if !v.IsNull() {
		t.Errorf("falling off the end of a function body = %v, want Null", v)
	}
}

func TestInterpBadArgCountPanics(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	fn := newCodeFunction(vm, "needs2", 2, 0, nil, []Instruction{{Op: OpReturn}})
	result := runToCompletion(t, vm, fn, []Value{NewInteger(vm.heap, 1)})
	if !result.IsError() {
		t.Fatal("calling a 2-param function with 1 argument did not complete with Result::Error")
	}
}
