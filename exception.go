// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

// exceptionPayload backs Exception: { message, trace? }.
// Exceptions are captured by unwinding and are the
// value normally carried by a panic.
type exceptionPayload struct {
	message Value  // String
	trace   *Value // optional String, nil when not captured
}

var internalException = InternalType{
	name: KindException, publicKind: KindException,
	trace: func(p any, visit func(Value)) {
		ep := p.(*exceptionPayload)
		visit(ep.message)
		if ep.trace != nil {
			visit(*ep.trace)
		}
	},
}

// NewException constructs an Exception carrying message and, if the VM
// is configured with EnablePanicStackTrace, a captured trace. Stack
// traces are captured only when the VM was configured with
// EnablePanicStackTrace.
func (vm *VM) NewException(message string, trace string) Value {
	ep := &exceptionPayload{message: vm.NewString(message)}
	if vm.opts.EnablePanicStackTrace && trace != "" {
		t := vm.NewString(trace)
		ep.trace = &t
	}
	obj := vm.heap.allocObject(&internalException, ep)
	return Value{kind: KindException, obj: obj}
}

// ExceptionMessage returns the exception's message.
func (v Value) ExceptionMessage() string {
	mustKind(v, KindException)
	return v.obj.payload.(*exceptionPayload).message.AsString()
}

// ExceptionTrace returns the captured stack trace, if any.
func (v Value) ExceptionTrace() (string, bool) {
	mustKind(v, KindException)
	ep := v.obj.payload.(*exceptionPayload)
	if ep.trace == nil {
		return "", false
	}
	return ep.trace.AsString(), true
}
