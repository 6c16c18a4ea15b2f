// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

// NativeFunctionType distinguishes the three native calling
// conventions, generalized from native_function.hpp's
// NativeFunction/NativeAsyncFunction split into a single tagged object
// the way CodeFunctionTemplate/Environment/BoundMethod are already
// folded into one Go type per kind.
type NativeFunctionType uint8

const (
	NativeSync NativeFunctionType = iota
	NativeAsync
	NativeResumable
)

// SyncFunc implements a blocking native function: runs to completion,
// may not suspend. It receives its arguments and returns either a
// result value or an error (carried back to script code as a panic).
type SyncFunc func(vm *VM, args []Value) (Value, error)

// AsyncFunc implements a suspend-once native function: it initiates
// the operation, then suspends the coroutine exactly once. It is
// handed the coroutine's resumption token and must arrange,
// eventually, for vm.ResumeWith(token, result) to be called exactly
// once.
type AsyncFunc func(vm *VM, args []Value, token Value)

// ResumableFunc implements a native function that may suspend any
// number of times and may itself call back into script code: a state
// machine that may invoke other functions. state starts at
// ResumableStart; returning ResumableEnd completes the call with
// result; any other value is the state the function will be re-entered
// with.
type ResumableFunc func(vm *VM, rc *ResumableContext) (next int, result Value, err error)

// ResumableContext exposes a resumable native function's arguments,
// locals and the result of any function it asked the interpreter to
// invoke on its behalf.
type ResumableContext struct {
	Args         []Value
	Locals       []Value
	State        int
	InvokeResult Value // set when re-entered after an invoke request
	invokeFunc   Value
	invokeArgs   []Value
}

// Invoke requests that the interpreter call fn(args...) and re-enter
// this resumable function with the result on InvokeResult.
func (rc *ResumableContext) Invoke(fn Value, args []Value) {
	rc.invokeFunc = fn
	rc.invokeArgs = args
}

// nativeFunctionPayload backs the native-function object every
// embedding-registered function is represented as.
type nativeFunctionPayload struct {
	name   string
	params int
	locals int
	typ    NativeFunctionType
	sync   SyncFunc
	async  AsyncFunc
	resume ResumableFunc
}

var internalNativeFunction = InternalType{
	name: kindNativeFunction, publicKind: KindFunction,
	trace: func(any, func(Value)) {},
}

// NewNativeSyncFunction wraps fn as a sync-calling-convention native
// function value.
func (vm *VM) NewNativeSyncFunction(name string, params int, fn SyncFunc) Value {
	obj := vm.heap.allocObject(&internalNativeFunction, &nativeFunctionPayload{
		name: name, params: params, typ: NativeSync, sync: fn,
	})
	return Value{kind: kindNativeFunction, obj: obj}
}

// NewNativeAsyncFunction wraps fn as an async-calling-convention
// native function value.
func (vm *VM) NewNativeAsyncFunction(name string, params int, fn AsyncFunc) Value {
	obj := vm.heap.allocObject(&internalNativeFunction, &nativeFunctionPayload{
		name: name, params: params, typ: NativeAsync, async: fn,
	})
	return Value{kind: kindNativeFunction, obj: obj}
}

// NewNativeResumableFunction wraps fn as a resumable-calling-convention
// native function value.
func (vm *VM) NewNativeResumableFunction(name string, params, locals int, fn ResumableFunc) Value {
	obj := vm.heap.allocObject(&internalNativeFunction, &nativeFunctionPayload{
		name: name, params: params, locals: locals, typ: NativeResumable, resume: fn,
	})
	return Value{kind: kindNativeFunction, obj: obj}
}

func (v Value) nativeFunctionPayload() *nativeFunctionPayload {
	return v.obj.payload.(*nativeFunctionPayload)
}

func (v Value) NativeFunctionType() NativeFunctionType {
	return v.nativeFunctionPayload().typ
}

func (v Value) NativeFunctionName() string {
	return v.nativeFunctionPayload().name
}

func (v Value) NativeFunctionParams() int {
	return v.nativeFunctionPayload().params
}

func isNativeFunction(v Value) bool { return v.rawKind() == kindNativeFunction }
