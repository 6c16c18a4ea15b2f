// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

import "testing"

func TestNewStringIsNotInterned(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	a := vm.NewString("hello")
	b := vm.NewString("hello")
	if a.IsInterned() || b.IsInterned() {
		t.Error("NewString produced an interned value")
	}
	if Same(a, b) {
		t.Error("two NewString calls with equal content should not be pointer-equal")
	}
	if a.AsString() != "hello" {
		t.Errorf("AsString() = %q, want %q", a.AsString(), "hello")
	}
}

func TestInternStringCanonicalizes(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	a := vm.InternString("shared")
	b := vm.InternString("shared")
	if !Same(a, b) {
		t.Error("InternString did not canonicalize byte-equal strings")
	}
	if !a.IsInterned() {
		t.Error("InternString result reports IsInterned() == false")
	}
}

func TestInternStringDistinctFromNewString(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	interned := vm.InternString("x")
	plain := vm.NewString("x")
	if Same(interned, plain) {
		t.Error("NewString value should not be Same() as an interned string of equal content")
	}
	if plain.IsInterned() {
		t.Error("NewString result reports IsInterned() == true")
	}
}

func TestHashIsStableAndConsistentWithEqualContent(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	s := vm.NewString("consistent")
	h1 := s.Hash()
	h2 := s.Hash()
	if h1 != h2 {
		t.Error("Hash() is not stable across repeated calls on the same value")
	}

	other := vm.NewString("consistent")
	if other.Hash() != h1 {
		t.Error("two byte-equal strings hashed to different values")
	}

	different := vm.NewString("not consistent")
	if different.Hash() == h1 {
		t.Error("byte-different strings hashed identically (possible, but suspicious for this fixture)")
	}
}
