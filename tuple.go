// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

// tuplePayload is a fixed-size slot array. Slots are mutable even
// though the tuple's size is fixed at construction — immutability is a
// language-level compile time feature, not a runtime one.
type tuplePayload struct {
	slots []Value
}

var internalTuple = InternalType{
	name: KindTuple, publicKind: KindTuple,
	trace: func(p any, visit func(Value)) {
		for _, v := range p.(*tuplePayload).slots {
			visit(v)
		}
	},
	size: func(p any) uintptr { return uintptr(24 + 16*len(p.(*tuplePayload).slots)) },
}

// NewTuple allocates a tuple with the given initial values: get(i)
// returns values[i] for every valid index.
func (vm *VM) NewTuple(values []Value) Value {
	slots := make([]Value, len(values))
	copy(slots, values)
	obj := vm.heap.allocObject(&internalTuple, &tuplePayload{slots: slots})
	return Value{kind: KindTuple, obj: obj}
}

// NewTupleOfSize allocates a tuple of n Null slots.
func (vm *VM) NewTupleOfSize(n int) Value {
	obj := vm.heap.allocObject(&internalTuple, &tuplePayload{slots: make([]Value, n)})
	return Value{kind: KindTuple, obj: obj}
}

func (v Value) TupleLen() int {
	mustKind(v, KindTuple)
	return len(v.obj.payload.(*tuplePayload).slots)
}

func (v Value) TupleGet(i int) Value {
	mustKind(v, KindTuple)
	slots := v.obj.payload.(*tuplePayload).slots
	if i < 0 || i >= len(slots) {
		panic(newError(ErrCodeOutOfBounds, ErrOutOfBounds, "tuple index %d out of range [0,%d)", i, len(slots)))
	}
	return slots[i]
}

func (v Value) TupleSet(i int, val Value) {
	mustKind(v, KindTuple)
	slots := v.obj.payload.(*tuplePayload).slots
	if i < 0 || i >= len(slots) {
		panic(newError(ErrCodeOutOfBounds, ErrOutOfBounds, "tuple index %d out of range [0,%d)", i, len(slots)))
	}
	slots[i] = val
}
