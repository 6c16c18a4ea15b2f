// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

import (
	"os"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// txtarFile returns the trimmed contents of the named section of an
// archive, or fails the test if the section is absent.
func txtarFile(t *testing.T, ar *txtar.Archive, name string) string {
	t.Helper()
	for _, f := range ar.Files {
		if f.Name == name {
			return strings.TrimSpace(string(f.Data))
		}
	}
	t.Fatalf("txtar archive has no %q section", name)
	return ""
}

// TestInterpAddFixture drives the same two-param-add program as
// TestInterpAddsTwoParams, but with its inputs and expected result
// pulled from a golden txtar fixture instead of inline literals.
func TestInterpAddFixture(t *testing.T) {
	data, err := os.ReadFile("testdata/interp/add.txtar")
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	ar := txtar.Parse(data)

	a, err := strconv.ParseInt(txtarFile(t, ar, "a"), 10, 64)
	if err != nil {
		t.Fatalf("parsing %q section: %v", "a", err)
	}
	b, err := strconv.ParseInt(txtarFile(t, ar, "b"), 10, 64)
	if err != nil {
		t.Fatalf("parsing %q section: %v", "b", err)
	}
	want, err := strconv.ParseInt(txtarFile(t, ar, "want"), 10, 64)
	if err != nil {
		t.Fatalf("parsing %q section: %v", "want", err)
	}

	vm := New(Options{})
	defer vm.Close()

	fn := newCodeFunction(vm, "add", 2, 0, nil, []Instruction{
		{Op: OpLoadParam, A: 0},
		{Op: OpLoadParam, A: 1},
		{Op: OpAdd},
		{Op: OpReturn},
	})

	result := runToCompletion(t, vm, fn, []Value{NewInteger(vm.heap, a), NewInteger(vm.heap, b)})
	v, err := result.ResultValue()
	if err != nil {
		t.Fatalf("ResultValue() error: %v", err)
	}
	if v.AsInteger() != want {
		t.Errorf("add(%d, %d) = %d, want %d", a, b, v.AsInteger(), want)
	}
}
