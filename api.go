// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

// This file rounds out the embedding API surface with the pieces that
// don't belong to any single object file: type reflection, value
// copying, and the coroutine-lifecycle queries not already covered by
// coroutine.go.

// TypeOf returns v's reflection object, consulted during method-call
// dispatch (interp.go's resolveMember) and available to host code for
// introspection.
func (vm *VM) TypeOf(v Value) *PublicType {
	return vm.types.typeOf(v)
}

// KindToType returns the reflection object for a Kind directly, without
// needing a Value of that kind in hand.
func (vm *VM) KindToType(k Kind) *PublicType {
	return vm.types.byKind[k]
}

// RegisterMethod installs fn as an instance method under name on every
// value of kind: method resolution step 2 looks up a type method here,
// returned bound to the receiver. fn is typically a Function or
// NativeFunction; it is looked up, not called, here.
func (vm *VM) RegisterMethod(kind Kind, name string, fn Value) {
	vm.types.registerMethod(kind, name, fn)
}

// CopyValue returns v unchanged; it allocates no handle slot and does
// not touch the underlying heap object. Values are small, copyable
// words in this implementation, so copying one is never more than an
// assignment.
func CopyValue(v Value) Value { return v }

// Started reports whether a coroutine has left the New state, i.e. has
// been scheduled at least once.
func (v Value) Started() bool {
	return v.CoroutineState() != CoroutineNew
}

// Completed reports whether a coroutine has finished running, either
// successfully or by an uncaught panic.
func (v Value) Completed() bool {
	return v.CoroutineState() == CoroutineDone
}
