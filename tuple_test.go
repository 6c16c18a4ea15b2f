// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

import "testing"

func TestTupleGetMatchesInitialValues(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	vals := []Value{NewInteger(vm.heap, 1), NewInteger(vm.heap, 2), NewInteger(vm.heap, 3)}
	tup := vm.NewTuple(vals)
	if tup.TupleLen() != len(vals) {
		t.Fatalf("TupleLen() = %d, want %d", tup.TupleLen(), len(vals))
	}
	for i, want := range vals {
		if got := tup.TupleGet(i); got.AsInteger() != want.AsInteger() {
			t.Errorf("TupleGet(%d) = %d, want %d", i, got.AsInteger(), want.AsInteger())
		}
	}
}

func TestTupleOfSizeIsAllNull(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	tup := vm.NewTupleOfSize(3)
	for i := 0; i < 3; i++ {
		if !tup.TupleGet(i).IsNull() {
			t.Errorf("TupleGet(%d) = %v, want Null", i, tup.TupleGet(i))
		}
	}
}

func TestTupleSetMutatesSlot(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	tup := vm.NewTupleOfSize(1)
	tup.TupleSet(0, NewInteger(vm.heap, 5))
	if got := tup.TupleGet(0).AsInteger(); got != 5 {
		t.Errorf("TupleGet(0) after TupleSet = %d, want 5", got)
	}
}

func TestTupleOutOfBoundsPanics(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	tup := vm.NewTupleOfSize(1)
	defer func() {
		if recover() == nil {
			t.Fatal("TupleGet() out of bounds did not panic")
		}
	}()
	tup.TupleGet(2)
}
