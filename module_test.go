// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

import "testing"

func TestModuleExportAndGetExport(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	mod := vm.NewModule("math")
	if mod.ModuleName() != "math" {
		t.Fatalf("ModuleName() = %q, want %q", mod.ModuleName(), "math")
	}
	mod.ModuleExport("pi", NewInteger(vm.heap, 3))

	v, err := mod.ModuleGetExport("pi")
	if err != nil {
		t.Fatalf("ModuleGetExport() error: %v", err)
	}
	if v.AsInteger() != 3 {
		t.Errorf("ModuleGetExport(pi) = %d, want 3", v.AsInteger())
	}

	if _, err := mod.ModuleGetExport("missing"); err == nil {
		t.Fatal("ModuleGetExport() on an unexported name did not report an error")
	}

	names := mod.ModuleExportNames()
	if len(names) != 1 || names[0] != "pi" {
		t.Errorf("ModuleExportNames() = %v, want [pi]", names)
	}
}

func TestModuleMembers(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	mod := vm.NewModule("m")
	idx := mod.ModuleAddMember(NewInteger(vm.heap, 1))
	if idx != 0 {
		t.Fatalf("ModuleAddMember() returned index %d, want 0", idx)
	}
	mod.ModuleSetMember(idx, NewInteger(vm.heap, 2))
	if got := mod.ModuleMember(idx).AsInteger(); got != 2 {
		t.Errorf("ModuleMember() = %d, want 2", got)
	}
}

func TestUnresolvedImportRoundTrip(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	imp := vm.NewUnresolvedImport("other")
	payload, ok := imp.asUnresolvedImport()
	if !ok {
		t.Fatal("asUnresolvedImport() = false for a value created by NewUnresolvedImport")
	}
	if payload.moduleName != "other" {
		t.Errorf("moduleName = %q, want %q", payload.moduleName, "other")
	}

	if _, ok := NewInteger(vm.heap, 1).asUnresolvedImport(); ok {
		t.Error("asUnresolvedImport() = true for a non-import value")
	}
}
