// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

import "testing"

func TestNewSuccessResult(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	r := vm.NewSuccess(NewInteger(vm.heap, 1))
	if !r.IsSuccess() || r.IsError() {
		t.Fatal("NewSuccess() did not produce a success result")
	}
	v, err := r.ResultValue()
	if err != nil {
		t.Fatalf("ResultValue() error: %v", err)
	}
	if v.AsInteger() != 1 {
		t.Errorf("ResultValue() = %d, want 1", v.AsInteger())
	}
	if _, err := r.ResultError(); CodeOf(err) != ErrCodeBadState {
		t.Errorf("ResultError() on a success result code = %v, want %v", CodeOf(err), ErrCodeBadState)
	}
}

func TestNewErrorResult(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	r := vm.NewError(vm.NewString("boom"))
	if !r.IsError() || r.IsSuccess() {
		t.Fatal("NewError() did not produce an error result")
	}
	v, err := r.ResultError()
	if err != nil {
		t.Fatalf("ResultError() error: %v", err)
	}
	if v.AsString() != "boom" {
		t.Errorf("ResultError() = %q, want %q", v.AsString(), "boom")
	}
	if _, err := r.ResultValue(); CodeOf(err) != ErrCodeBadState {
		t.Errorf("ResultValue() on an error result code = %v, want %v", CodeOf(err), ErrCodeBadState)
	}
}
