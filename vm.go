// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

import gomodule "golang.org/x/mod/module"

// VM is an independent instance of the runtime: its own heap, handle
// table, interned-string table, module registry and scheduler. Two VM
// instances never share heap objects; handles carry a stamped vmID so
// that using a handle from the wrong VM fails fast instead of
// corrupting memory.
type VM struct {
	id       vmID
	opts     Options
	heap     *Heap
	roots    *rootTable
	types    *typeRegistry
	interned *internTable
	mods     *moduleRegistry
	sched    *scheduler

	activeScope *Scope
}

// New constructs a VM with the given options, applying defaults for
// any zero-valued field.
func New(opts Options) *VM {
	opts = opts.withDefaults()

	vm := &VM{
		id:       allocVMID(),
		opts:     opts,
		types:    newTypeRegistry(),
		interned: newInternTable(),
		mods:     newModuleRegistry(),
		sched:    newScheduler(),
	}
	vm.roots = &rootTable{}
	vm.heap = NewHeap(opts.PageSize, opts.MaxHeapSize, opts.Logger)
	vm.heap.rootsFn = vm.visitRoots
	return vm
}

// visitRoots enumerates every Value the collector must treat as a GC
// root: live handles, the interned-string table, registered modules
// and any coroutine currently enqueued on the scheduler.
func (vm *VM) visitRoots(visit func(Value)) {
	vm.roots.visit(visit)
	vm.interned.visit(visit)
	for _, m := range vm.mods.modules {
		visit(m)
	}
	vm.sched.visitRoots(visit)
}

// Close tears down the VM, releasing every global handle and the
// heap's backing memory. The VM must not be used afterward.
func (vm *VM) Close() {
	vm.roots.globals = nil
	vm.heap.Close()
}

func (vm *VM) Heap() *Heap { return vm.heap }

// AddModule registers module with the VM so it can later be located
// by GetModule. The module's name is validated as an import-path-shaped
// identifier before registration; malformed names report ErrBadArg.
// Returns ErrModuleExists if a module with that name is already
// registered.
func (vm *VM) AddModule(module Value) error {
	name := module.ModuleName()
	if err := gomodule.CheckImportPath(name); err != nil {
		return newError(ErrCodeBadArg, ErrBadArg, "module name %q: %v", name, err)
	}
	if !vm.mods.AddModule(module) {
		return newError(ErrCodeModuleExists, ErrModuleExists, "module %q already exists", name)
	}
	return nil
}

// GetModule resolves and returns the named module, running any
// not-yet-initialized dependency's module initializer first.
func (vm *VM) GetModule(name string) (Value, error) {
	return vm.mods.GetModule(name, vm.runModuleInit)
}

// runModuleInit executes a module initializer function to completion
// on a throwaway coroutine and returns its terminal Result: module
// initializers run synchronously to completion before the importing
// module is considered resolved.
func (vm *VM) runModuleInit(init Value) (Value, error) {
	co := vm.NewCoroutine(vm.NewString("__module_init__"), init, nil)
	vm.sched.enqueue(co)
	for vm.sched.hasReady() {
		vm.sched.runReady(vm)
	}
	return co.CoroutineResult()
}

// HasReady reports whether the scheduler has runnable coroutines.
func (vm *VM) HasReady() bool { return vm.sched.hasReady() }

// RunReady drives the scheduler until its ready queue is empty.
func (vm *VM) RunReady() {
	for vm.sched.hasReady() {
		vm.sched.runReady(vm)
	}
}

// Schedule enqueues a coroutine for execution.
func (vm *VM) Schedule(co Value) {
	vm.sched.enqueue(co)
}
