// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

import "testing"

func TestNewExceptionMessage(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	exc := vm.NewException("boom", "")
	if got := exc.ExceptionMessage(); got != "boom" {
		t.Errorf("ExceptionMessage() = %q, want %q", got, "boom")
	}
	if _, ok := exc.ExceptionTrace(); ok {
		t.Errorf("ExceptionTrace() reported a trace, want none")
	}
}

func TestNewExceptionTraceRequiresOptIn(t *testing.T) {
	vm := New(Options{EnablePanicStackTrace: true})
	defer vm.Close()

	exc := vm.NewException("boom", "at foo.tiro:1")
	trace, ok := exc.ExceptionTrace()
	if !ok {
		t.Fatal("ExceptionTrace() reported no trace despite EnablePanicStackTrace")
	}
	if trace != "at foo.tiro:1" {
		t.Errorf("ExceptionTrace() = %q, want %q", trace, "at foo.tiro:1")
	}

	vmNoTrace := New(Options{})
	defer vmNoTrace.Close()
	exc2 := vmNoTrace.NewException("boom", "at foo.tiro:1")
	if _, ok := exc2.ExceptionTrace(); ok {
		t.Error("ExceptionTrace() captured a trace although EnablePanicStackTrace is unset")
	}
}

func TestExceptionKind(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	exc := vm.NewException("boom", "")
	if exc.Kind() != KindException {
		t.Errorf("Kind() = %v, want %v", exc.Kind(), KindException)
	}
}
