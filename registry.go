// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

import "fmt"

// moduleRegistry holds every module known to a VM and resolves imports
// lazily, on first access, in topological order. It is
// grounded directly on the original's iterative state-machine resolver
// (original_source/src/vm/modules/registry.cpp), reworked from an
// explicit goto-driven switch into Go's structured control flow while
// keeping the same four-state walk per module (enter, dependencies,
// init, exit).
type moduleRegistry struct {
	modules map[string]Value // name -> Module
}

func newModuleRegistry() *moduleRegistry {
	return &moduleRegistry{modules: make(map[string]Value)}
}

// AddModule registers module under its own name. Returns false without
// modifying the registry if a module with that name already exists.
func (r *moduleRegistry) AddModule(module Value) bool {
	name := module.ModuleName()
	if _, exists := r.modules[name]; exists {
		return false
	}
	r.modules[name] = module
	return true
}

func (r *moduleRegistry) findModule(name string) (Value, bool) {
	m, ok := r.modules[name]
	return m, ok
}

const moduleResolutionDepthLimit = 2048

type resolveState int

const (
	resolveEnter resolveState = iota
	resolveDependencies
	resolveInit
	resolveExit
)

type resolveFrame struct {
	module     Value
	state      resolveState
	nextMember int
}

// ResolveModule walks module's import graph, initializing every
// not-yet-initialized dependency before module itself, and returns
// ErrModuleNotFound or a cycle error if resolution cannot complete.
//
// run_init runs a module's initializer function to completion; it is
// supplied by the interpreter (vm.go wires it once interp.go exists)
// so that registry.go has no dependency on the bytecode dispatch loop.
func (r *moduleRegistry) ResolveModule(module Value, runInit func(Value) (Value, error)) error {
	if module.moduleInitialized() {
		return nil
	}

	active := make(map[string]int) // module name -> stack index, cycle detection
	var stack []*resolveFrame

	recurse := func(m Value) (bool, error) {
		if m.moduleInitialized() {
			return false, nil
		}
		if len(stack) >= moduleResolutionDepthLimit {
			return false, newError(ErrCodeInternal, ErrInternal,
				"module resolution recursion limit reached, imports are nested too deep (depth %d)", len(stack))
		}
		stack = append(stack, &resolveFrame{module: m})
		return true, nil
	}

	cycleError := func(currentIdx, originalIdx int) error {
		msg := fmt.Sprintf("module %s is part of a forbidden dependency cycle:\n", stack[currentIdx].module.ModuleName())
		for i := originalIdx; i <= currentIdx; i++ {
			msg += fmt.Sprintf("- %d: module %s", i-originalIdx, stack[i].module.ModuleName())
			if i != currentIdx {
				msg += ", imports\n"
			}
		}
		return newError(ErrCodeInternal, ErrInternal, "%s", msg)
	}

	if ok, err := recurse(module); err != nil {
		return err
	} else if !ok {
		return nil
	}

loop:
	for len(stack) > 0 {
		frame := stack[len(stack)-1]

		switch frame.state {
		case resolveEnter:
			name := frame.module.ModuleName()
			if idx, found := active[name]; found {
				return cycleError(len(stack)-1, idx)
			}
			active[name] = len(stack) - 1
			frame.state = resolveDependencies
			continue loop

		case resolveDependencies:
			members := frame.module.moduleMembers()
			for frame.nextMember < len(members) {
				i := frame.nextMember
				member := members[i]
				imp, isImport := member.asUnresolvedImport()
				if !isImport {
					frame.nextMember++
					continue
				}

				imported, found := r.findModule(imp.moduleName)
				if !found {
					return newError(ErrCodeModuleNotFound, ErrModuleNotFound, "module %q was not found", imp.moduleName)
				}
				frame.module.moduleSetMemberRaw(i, imported)
				frame.nextMember++

				if pushed, err := recurse(imported); err != nil {
					return err
				} else if pushed {
					continue loop
				}
			}
			frame.state = resolveInit
			continue loop

		case resolveInit:
			if runInit != nil {
				if init, ok := frame.module.moduleInitializer(); ok {
					result, err := runInit(init)
					if err != nil {
						return newError(ErrCodeInternal, ErrInternal,
							"module initialization of %q failed: %v", frame.module.ModuleName(), err)
					}
					if result.rawKind() == KindResult && result.IsError() {
						errVal, _ := result.ResultError()
						return newError(ErrCodeInternal, ErrInternal,
							"module initialization of %q failed: %s", frame.module.ModuleName(), describeValue(errVal))
					}
				}
			}
			frame.module.setModuleInitialized(true)
			frame.state = resolveExit
			continue loop

		case resolveExit:
			delete(active, frame.module.ModuleName())
			stack = stack[:len(stack)-1]
			continue loop
		}
	}

	return nil
}

// GetModule returns the named module, resolving it (and its
// dependencies) first.
func (r *moduleRegistry) GetModule(name string, runInit func(Value) (Value, error)) (Value, error) {
	m, ok := r.findModule(name)
	if !ok {
		return Value{}, newError(ErrCodeModuleNotFound, ErrModuleNotFound, "module %q was not found", name)
	}
	if err := r.ResolveModule(m, runInit); err != nil {
		return Value{}, err
	}
	return m, nil
}

func (v Value) moduleInitialized() bool {
	return v.obj.payload.(*modulePayload).initalized
}

func (v Value) setModuleInitialized(b bool) {
	v.obj.payload.(*modulePayload).initalized = b
}

func (v Value) moduleMembers() []Value {
	return v.obj.payload.(*modulePayload).members
}

func (v Value) moduleSetMemberRaw(i int, val Value) {
	v.obj.payload.(*modulePayload).members[i] = val
}

// moduleInitializer returns the module's init function member, if the
// loader recorded one.
func (v Value) moduleInitializer() (Value, bool) {
	mp := v.obj.payload.(*modulePayload)
	idx, ok := mp.exports["__init__"]
	if !ok {
		return Value{}, false
	}
	init := mp.members[idx]
	return init, !init.IsNull()
}

func describeValue(v Value) string {
	if v.rawKind() == KindException {
		return v.ExceptionMessage()
	}
	if v.rawKind() == KindString {
		return v.AsString()
	}
	return v.Kind().String()
}
