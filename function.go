// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

// codeFunctionTemplatePayload is the immutable description of a user
// function: name, owning module, byte code, parameter count and
// local-slot count. Multiple Function values may share the same
// template paired with distinct closure environments.
type codeFunctionTemplatePayload struct {
	name       string
	module     *heapObject // Module
	code       *compiledCode
	paramCount int
	localCount int
}

var internalCodeFunctionTemplate = InternalType{
	name: kindCodeFunctionTemplate, publicKind: kindCodeFunctionTemplate,
	trace: func(p any, visit func(Value)) {
		tmpl := p.(*codeFunctionTemplatePayload)
		if tmpl.module != nil {
			visit(Value{kind: KindModule, obj: tmpl.module})
		}
		for _, c := range tmpl.code.constants {
			visit(c)
		}
	},
}

// environmentPayload is a closure frame: a parent reference plus N
// captured slots.
type environmentPayload struct {
	parent *heapObject // Environment, nil at the closure chain's root
	slots  []Value
}

var internalEnvironment = InternalType{
	name: kindEnvironment, publicKind: kindEnvironment,
	trace: func(p any, visit func(Value)) {
		ep := p.(*environmentPayload)
		if ep.parent != nil {
			visit(Value{kind: kindEnvironment, obj: ep.parent})
		}
		for _, s := range ep.slots {
			visit(s)
		}
	},
}

// NewEnvironment allocates a closure frame with `size` captured slots,
// chained to parent.
func (vm *VM) NewEnvironment(parent Value, size int) Value {
	var parentObj *heapObject
	if !parent.IsNull() {
		mustKind(parent, kindEnvironment)
		parentObj = parent.obj
	}
	obj := vm.heap.allocObject(&internalEnvironment, &environmentPayload{parent: parentObj, slots: make([]Value, size)})
	return Value{kind: kindEnvironment, obj: obj}
}

func (v Value) EnvLoad(levels, idx int) Value {
	obj := v.obj
	for i := 0; i < levels; i++ {
		obj = obj.payload.(*environmentPayload).parent
	}
	return obj.payload.(*environmentPayload).slots[idx]
}

func (v Value) EnvStore(levels, idx int, val Value) {
	obj := v.obj
	for i := 0; i < levels; i++ {
		obj = obj.payload.(*environmentPayload).parent
	}
	obj.payload.(*environmentPayload).slots[idx] = val
}

// functionPayload is a pair of CodeFunctionTemplate + optional
// Environment. Functions report the public KindFunction, as do
// BoundMethod and native functions; CodeFunctionTemplate and
// Environment objects carry their own internal kinds.
type functionPayload struct {
	tmpl   *heapObject
	closure *heapObject // Environment, nil if the function has no closure
}

var internalFunction = InternalType{
	name: KindFunction, publicKind: KindFunction,
	trace: func(p any, visit func(Value)) {
		fp := p.(*functionPayload)
		visit(Value{kind: kindCodeFunctionTemplate, obj: fp.tmpl})
		if fp.closure != nil {
			visit(Value{kind: kindEnvironment, obj: fp.closure})
		}
	},
}

// NewFunction closes `tmpl` over an optional environment.
func (vm *VM) NewFunction(tmplObj *heapObject, closure Value) Value {
	var closureObj *heapObject
	if !closure.IsNull() {
		mustKind(closure, kindEnvironment)
		closureObj = closure.obj
	}
	obj := vm.heap.allocObject(&internalFunction, &functionPayload{tmpl: tmplObj, closure: closureObj})
	return Value{kind: KindFunction, obj: obj}
}

func (v Value) FunctionTemplate() *heapObject {
	mustKind(v, KindFunction)
	return v.obj.payload.(*functionPayload).tmpl
}

func (v Value) FunctionClosure() *heapObject {
	mustKind(v, KindFunction)
	return v.obj.payload.(*functionPayload).closure
}

func (v Value) FunctionName() string {
	return v.FunctionTemplate().payload.(*codeFunctionTemplatePayload).name
}

func (v Value) FunctionParamCount() int {
	return v.FunctionTemplate().payload.(*codeFunctionTemplatePayload).paramCount
}

// boundMethodPayload pairs a function with a receiver; calling it
// prepends the receiver to the arguments. BoundMethod
// appears to host code as KindFunction.
type boundMethodPayload struct {
	function Value
	receiver Value
}

var internalBoundMethod = InternalType{
	name: kindBoundMethod, publicKind: KindFunction,
	trace: func(p any, visit func(Value)) {
		bm := p.(*boundMethodPayload)
		visit(bm.function)
		visit(bm.receiver)
	},
}

// NewBoundMethod allocates a (function, receiver) pair.
func (vm *VM) NewBoundMethod(function, receiver Value) Value {
	obj := vm.heap.allocObject(&internalBoundMethod, &boundMethodPayload{function: function, receiver: receiver})
	return Value{kind: kindBoundMethod, obj: obj}
}

// isBoundMethod reports whether v is internally a BoundMethod, used
// only by the interpreter's call sequence (never observed by host
// code, which sees KindFunction either way).
func isBoundMethod(v Value) bool { return v.rawKind() == kindBoundMethod }

func (v Value) boundMethodParts() (function, receiver Value) {
	bm := v.obj.payload.(*boundMethodPayload)
	return bm.function, bm.receiver
}
