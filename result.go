// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

// resultPayload backs Result: a total sum type, success(value) |
// error(value), exposed directly to user code. A
// coroutine that terminates via an uncaught panic completes with
// Result::Error(Exception).
type resultPayload struct {
	isError bool
	value   Value
}

var internalResult = InternalType{
	name: KindResult, publicKind: KindResult,
	trace: func(p any, visit func(Value)) { visit(p.(*resultPayload).value) },
}

// NewSuccess constructs Result::Success(value): result.value() == v
// and result.is_success() holds.
func (vm *VM) NewSuccess(value Value) Value {
	obj := vm.heap.allocObject(&internalResult, &resultPayload{value: value})
	return Value{kind: KindResult, obj: obj}
}

// NewError constructs Result::Error(value).
func (vm *VM) NewError(value Value) Value {
	obj := vm.heap.allocObject(&internalResult, &resultPayload{isError: true, value: value})
	return Value{kind: KindResult, obj: obj}
}

func (v Value) IsSuccess() bool {
	mustKind(v, KindResult)
	return !v.obj.payload.(*resultPayload).isError
}

func (v Value) IsError() bool {
	mustKind(v, KindResult)
	return v.obj.payload.(*resultPayload).isError
}

// ResultValue returns the success payload. Calling this on an error
// result reports ErrBadState: not in the right state for this
// operation.
func (v Value) ResultValue() (Value, error) {
	mustKind(v, KindResult)
	rp := v.obj.payload.(*resultPayload)
	if rp.isError {
		return Value{}, newError(ErrCodeBadState, ErrBadState, "result is an error, not a success")
	}
	return rp.value, nil
}

// ResultError returns the error payload, or ErrBadState if this is a
// success result.
func (v Value) ResultError() (Value, error) {
	mustKind(v, KindResult)
	rp := v.obj.payload.(*resultPayload)
	if !rp.isError {
		return Value{}, newError(ErrCodeBadState, ErrBadState, "result is a success, not an error")
	}
	return rp.value, nil
}

