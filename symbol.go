// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

// symbolPayload backs a Symbol: a pointer-equal interned name whose
// comparison is identity, never structural.
type symbolPayload struct {
	name string
}

var internalSymbol = InternalType{
	name: KindSymbol, publicKind: KindSymbol,
	trace: func(any, func(Value)) {},
	size:  func(p any) uintptr { return uintptr(24 + len(p.(*symbolPayload).name)) },
}

// Symbol returns the canonical Symbol value for name, interning it on
// first use. All symbols are interned; there is no "loose" Symbol
// constructor.
func (vm *VM) Symbol(name string) Value {
	if obj, ok := vm.interned.symbols[name]; ok {
		return Value{kind: KindSymbol, obj: obj}
	}
	obj := vm.heap.allocObject(&internalSymbol, &symbolPayload{name: name})
	vm.interned.symbols[name] = obj
	return Value{kind: KindSymbol, obj: obj}
}

func (v Value) SymbolName() string {
	mustKind(v, KindSymbol)
	return v.obj.payload.(*symbolPayload).name
}
