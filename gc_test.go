// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollectFreesUnreachableObjects(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	scope := vm.NewScope()
	kept := scope.NewLocal(vm.NewString("kept"))

	vm.NewString("garbage-1")
	vm.NewString("garbage-2")

	before := vm.heap.Stats()
	vm.heap.Collect()
	after := vm.heap.Stats()

	require.Equal(t, before.Collections+1, after.Collections, "Collect() should increment the collection count by exactly one")
	require.Equal(t, "kept", kept.Get().AsString(), "Collect() did not preserve a rooted local")
	require.NotZero(t, after.LastFreed, "Collect() reported no bytes freed despite unreachable garbage")

	scope.Close()
}

func TestCollectKeepsHandleRootedValuesAlive(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	g := vm.NewGlobal(vm.NewString("global-root"))
	defer g.Release()

	vm.heap.Collect()
	vm.heap.Collect()

	if g.Get().AsString() != "global-root" {
		t.Error("Collect() did not keep a global-rooted value alive across multiple collections")
	}
}

func TestAllocObjectPanicsWhenMaxHeapSizeExceeded(t *testing.T) {
	vm := New(Options{MaxHeapSize: defaultCellSize})
	defer vm.Close()

	vm.NewString("fits")

	defer func() {
		if recover() == nil {
			t.Fatal("allocObject did not panic when exceeding MaxHeapSize")
		}
	}()
	for i := 0; i < 64; i++ {
		vm.NewString("padding-to-force-another-allocation")
	}
}

func TestHeapStatsReportsPagesAndBytesUsed(t *testing.T) {
	vm := New(Options{})
	defer vm.Close()

	vm.NewString("x")
	stats := vm.heap.Stats()
	if stats.PagesInUse == 0 {
		t.Error("Stats().PagesInUse = 0 after an allocation")
	}
	if stats.BytesUsed == 0 {
		t.Error("Stats().BytesUsed = 0 after an allocation")
	}
}
