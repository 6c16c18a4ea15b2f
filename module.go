// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

// modulePayload backs Module: a name, an export table (name -> member
// index) and the members owned by the module. Modules are created
// either by loading bytecode or by the embedder registering a native
// module. Exports are stored as an index into members, not a value
// snapshot, so that an export of a variable populated by the module
// initializer (the ordinary `var x = ...; export x;` pattern) observes
// the initializer's write rather than the pre-init placeholder.
type modulePayload struct {
	name       string
	exports    map[string]int
	members    []Value
	initalized bool
}

var internalModule = InternalType{
	name: KindModule, publicKind: KindModule,
	trace: func(p any, visit func(Value)) {
		mp := p.(*modulePayload)
		for _, v := range mp.members {
			visit(v)
		}
	},
}

// NewModule allocates an empty module named `name`. Members and
// exports are populated by the bytecode loader or by
// direct calls from a native module builder.
func (vm *VM) NewModule(name string) Value {
	obj := vm.heap.allocObject(&internalModule, &modulePayload{name: name, exports: make(map[string]int)})
	return Value{kind: KindModule, obj: obj}
}

func (v Value) ModuleName() string {
	mustKind(v, KindModule)
	return v.obj.payload.(*modulePayload).name
}

// ModuleExport records `name` as one of the module's exported
// bindings. value is appended as a new member and the export table
// records its index, so native modules built directly through this
// call get the same live-member semantics as a bytecode-loaded export.
func (v Value) ModuleExport(name string, value Value) {
	mustKind(v, KindModule)
	mp := v.obj.payload.(*modulePayload)
	idx := len(mp.members)
	mp.members = append(mp.members, value)
	mp.exports[name] = idx
}

// ModuleGetExport looks up an export by name, dereferencing the
// member it currently points at. Returns ErrExportNotFound if absent.
func (v Value) ModuleGetExport(name string) (Value, error) {
	mustKind(v, KindModule)
	mp := v.obj.payload.(*modulePayload)
	idx, ok := mp.exports[name]
	if !ok {
		return Value{}, newError(ErrCodeExportNotFound, ErrExportNotFound, "module %q has no export %q", mp.name, name)
	}
	return mp.members[idx], nil
}

func (v Value) ModuleExportNames() []string {
	mustKind(v, KindModule)
	mp := v.obj.payload.(*modulePayload)
	names := make([]string, 0, len(mp.exports))
	for name := range mp.exports {
		names = append(names, name)
	}
	return names
}

func (v Value) ModuleAddMember(value Value) int {
	mustKind(v, KindModule)
	mp := v.obj.payload.(*modulePayload)
	mp.members = append(mp.members, value)
	return len(mp.members) - 1
}

func (v Value) ModuleMember(idx int) Value {
	mustKind(v, KindModule)
	return v.obj.payload.(*modulePayload).members[idx]
}

func (v Value) ModuleSetMember(idx int, val Value) {
	mustKind(v, KindModule)
	v.obj.payload.(*modulePayload).members[idx] = val
}

// unresolvedImportPayload records an import edge that the registry
// must resolve during topological initialization.
type unresolvedImportPayload struct {
	moduleName string
	exportName string
}

var internalUnresolvedImport = InternalType{
	name: kindUnresolvedImport, publicKind: kindUnresolvedImport,
	trace: func(any, func(Value)) {},
}

// NewUnresolvedImport allocates a placeholder module member, patched
// in place by moduleRegistry.ResolveModule once moduleName is loaded.
func (vm *VM) NewUnresolvedImport(moduleName string) Value {
	obj := vm.heap.allocObject(&internalUnresolvedImport, &unresolvedImportPayload{moduleName: moduleName})
	return Value{kind: kindUnresolvedImport, obj: obj}
}

// asUnresolvedImport reports whether v is an UnresolvedImport member
// and, if so, returns its payload (used only by registry.go).
func (v Value) asUnresolvedImport() (*unresolvedImportPayload, bool) {
	if v.rawKind() != kindUnresolvedImport {
		return nil, false
	}
	return v.obj.payload.(*unresolvedImportPayload), true
}
