// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

import "fmt"

// Handle discipline. The host and interpreter manipulate
// Values exclusively through handles rooted for the GC: a Scope is a
// stack-discipline collection of slots; Local/Mutable/Global/Span are
// the four handle shapes built on top of it. Handles carry the owning
// VM's id, checked on every access, so that mixing handles across VMs
// fails fast rather than corrupting an unrelated heap.

// vmID is a small monotonically increasing tag minted per VM instance,
// cheap enough to stamp onto every handle without the allocation a full
// pointer-identity check would need.
type vmID uint32

var nextVMID vmID

func allocVMID() vmID {
	nextVMID++
	return nextVMID
}

// badHandleCheck panics if a handle's owning VM id does not match the
// VM attempting to use it: mixing handles across VMs fails fast
// instead of corrupting an unrelated heap.
func badHandleCheck(owner, current vmID) {
	if owner != current {
		panic(fmt.Sprintf("tiro: bad_handle_check: handle belongs to VM %d, used on VM %d", owner, current))
	}
}

// slot is a single rooted root-table entry. Scopes, globals and spans
// are all built from contiguous runs of slots in the VM's root table.
type slot struct {
	value Value
}

// Scope is a stack-discipline container for Local/Mutable handles,
// nested lexically. Creating a handle inside a scope
// pushes a slot; Close pops every slot the scope ever pushed, in bulk.
type Scope struct {
	vm      *VM
	vmid    vmID
	base    int // index into vm.roots.locals where this scope's slots begin
	closed  bool
	pushed  int
	parent  *Scope
}

// NewScope opens a new lexical scope rooted at the VM's local root
// table. Callers must Close every scope they open, typically via
// `defer scope.Close()`.
func (vm *VM) NewScope() *Scope {
	s := &Scope{vm: vm, vmid: vm.id, base: len(vm.roots.locals), parent: vm.activeScope}
	vm.activeScope = s
	return s
}

// Close pops every slot this scope pushed, in bulk.
func (s *Scope) Close() {
	if s.closed {
		return
	}
	badHandleCheck(s.vmid, s.vm.id)
	s.vm.roots.locals = s.vm.roots.locals[:s.base]
	s.vm.activeScope = s.parent
	s.closed = true
}

func (s *Scope) push(v Value) int {
	badHandleCheck(s.vmid, s.vm.id)
	idx := len(s.vm.roots.locals)
	s.vm.roots.locals = append(s.vm.roots.locals, slot{value: v})
	s.pushed++
	return idx
}

// Local is a handle to a slot within a Scope, readable as a Value.
type Local struct {
	vmid vmID
	vm   *VM
	idx  int
}

// NewLocal creates a Local handle within the scope, initialized to the
// given value (Null if omitted by the caller).
func (s *Scope) NewLocal(v Value) Local {
	idx := s.push(v)
	return Local{vmid: s.vmid, vm: s.vm, idx: idx}
}

func (l Local) Get() Value {
	badHandleCheck(l.vmid, l.vm.id)
	return l.vm.roots.locals[l.idx].value
}

func (l Local) Set(v Value) {
	badHandleCheck(l.vmid, l.vm.id)
	l.vm.roots.locals[l.idx].value = v
}

// Mutable is a Local that exposes a mutable slot pointer, used for
// out-parameters.
type Mutable struct {
	Local
}

func (s *Scope) NewMutable(v Value) Mutable {
	return Mutable{Local: s.NewLocal(v)}
}

func (m Mutable) SetResult(v Value) { m.Set(v) }

// Global is an independently allocated root slot not tied to any
// scope; released explicitly, used across embedding API calls for
// values that must outlive a single scope. The VM
// releases any still-live globals on teardown.
type Global struct {
	vmid    vmID
	vm      *VM
	idx     int
	release func()
}

// NewGlobal allocates a global handle holding v.
func (vm *VM) NewGlobal(v Value) *Global {
	idx := len(vm.roots.globals)
	vm.roots.globals = append(vm.roots.globals, &slot{value: v})
	g := &Global{vmid: vm.id, vm: vm, idx: idx}
	return g
}

func (g *Global) Get() Value {
	badHandleCheck(g.vmid, g.vm.id)
	return g.vm.roots.globals[g.idx].value
}

func (g *Global) Set(v Value) {
	badHandleCheck(g.vmid, g.vm.id)
	g.vm.roots.globals[g.idx].value = v
}

// Release frees the global root slot. Safe to call more than once.
func (g *Global) Release() {
	if g == nil || g.vm.roots.globals[g.idx] == nil {
		return
	}
	badHandleCheck(g.vmid, g.vm.id)
	g.vm.roots.globals[g.idx] = nil
}

// Span is a contiguous range of slots, used for argument passing.
type Span struct {
	vmid vmID
	vm   *VM
	base int
	n    int
}

// NewSpan reserves n contiguous slots in the scope, all initialized to
// Null.
func (s *Scope) NewSpan(n int) Span {
	base := len(s.vm.roots.locals)
	for i := 0; i < n; i++ {
		s.push(Null)
	}
	return Span{vmid: s.vmid, vm: s.vm, base: base, n: n}
}

func (sp Span) Len() int { return sp.n }

func (sp Span) Get(i int) Value {
	badHandleCheck(sp.vmid, sp.vm.id)
	if i < 0 || i >= sp.n {
		panic(newError(ErrCodeOutOfBounds, ErrOutOfBounds, "span index %d out of range [0,%d)", i, sp.n))
	}
	return sp.vm.roots.locals[sp.base+i].value
}

func (sp Span) Set(i int, v Value) {
	badHandleCheck(sp.vmid, sp.vm.id)
	if i < 0 || i >= sp.n {
		panic(newError(ErrCodeOutOfBounds, ErrOutOfBounds, "span index %d out of range [0,%d)", i, sp.n))
	}
	sp.vm.roots.locals[sp.base+i].value = v
}

// rootTable owns every handle-rooted Value (local and global slots).
// The VM's non-handle roots are visited separately by VM.visitRoots,
// which the collector reaches via Heap.rootsFn.
type rootTable struct {
	locals  []slot
	globals []*slot
}

func (r *rootTable) visit(visitFn func(Value)) {
	for _, s := range r.locals {
		visitFn(s.value)
	}
	for _, s := range r.globals {
		if s != nil {
			visitFn(s.value)
		}
	}
}
