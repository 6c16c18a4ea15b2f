// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

// bufferPayload is a raw byte array, pinned in memory: never relocated.
// Since this collector never relocates anything, the "pinned" flag on
// heapObject is informational, but it documents the embedding contract
// precisely: raw pointers returned by Data() are valid only until the
// next VM call that may allocate, not because the buffer itself could
// move.
type bufferPayload struct {
	data []byte
}

var internalBuffer = InternalType{
	name: KindBuffer, publicKind: KindBuffer,
	trace: func(any, func(Value)) {},
	size:  func(p any) uintptr { return uintptr(24 + len(p.(*bufferPayload).data)) },
}

// NewBuffer allocates a zero-initialized buffer of n bytes.
func (vm *VM) NewBuffer(n int) Value {
	obj := vm.heap.allocObject(&internalBuffer, &bufferPayload{data: make([]byte, n)})
	obj.pinned = true
	return Value{kind: KindBuffer, obj: obj}
}

// NewBufferUninitialized mirrors the original's `Buffer::uninitialized`
// fast path used by HashTable's index storage
// (original_source/.../hash_table.cpp). Go zeroes the new bytes
// regardless, so it behaves exactly like NewBuffer.
func (vm *VM) NewBufferUninitialized(n int) Value {
	obj := vm.heap.allocObject(&internalBuffer, &bufferPayload{data: make([]byte, n)})
	obj.pinned = true
	return Value{kind: KindBuffer, obj: obj}
}

// Data returns the buffer's raw bytes. The returned slice is only
// valid until the next VM call that may allocate.
func (v Value) Data() []byte {
	mustKind(v, KindBuffer)
	return v.obj.payload.(*bufferPayload).data
}

func (v Value) BufferLen() int {
	mustKind(v, KindBuffer)
	return len(v.obj.payload.(*bufferPayload).data)
}

// stringBuilderPayload backs the mutable StringBuilder kind used by the
// interpreter's `formatter`/`append_format`/`format_result` instruction
// family.
type stringBuilderPayload struct {
	buf []byte
}

var internalStringBuilder = InternalType{
	name: KindStringBuilder, publicKind: KindStringBuilder,
	trace: func(any, func(Value)) {},
	size:  func(p any) uintptr { return uintptr(24 + len(p.(*stringBuilderPayload).buf)) },
}

func (vm *VM) NewStringBuilder() Value {
	obj := vm.heap.allocObject(&internalStringBuilder, &stringBuilderPayload{})
	return Value{kind: KindStringBuilder, obj: obj}
}

func (v Value) StringBuilderAppend(s string) {
	mustKind(v, KindStringBuilder)
	sb := v.obj.payload.(*stringBuilderPayload)
	sb.buf = append(sb.buf, s...)
}

func (v Value) StringBuilderString() string {
	mustKind(v, KindStringBuilder)
	return string(v.obj.payload.(*stringBuilderPayload).buf)
}

// nativePointerPayload backs KindNativePointer: an opaque host pointer
// passed through the embedding API verbatim.
type nativePointerPayload struct {
	ptr any
}

var internalNativePointer = InternalType{
	name: KindNativePointer, publicKind: KindNativePointer,
	trace: func(any, func(Value)) {},
}

func (vm *VM) NewNativePointer(ptr any) Value {
	obj := vm.heap.allocObject(&internalNativePointer, &nativePointerPayload{ptr: ptr})
	return Value{kind: KindNativePointer, obj: obj}
}

func (v Value) NativePointer() any {
	mustKind(v, KindNativePointer)
	return v.obj.payload.(*nativePointerPayload).ptr
}

// nativeObjectPayload backs KindNativeObject: an inline allocation
// whose finalizer releases external resources.
type nativeObjectPayload struct {
	data     any
	finalize func(any)
}

var internalNativeObject = InternalType{
	name: KindNativeObject, publicKind: KindNativeObject,
	trace: func(any, func(Value)) {},
	finalize: func(p any) {
		np := p.(*nativeObjectPayload)
		if np.finalize != nil {
			np.finalize(np.data)
		}
	},
}

// NewNativeObject allocates a native object carrying host-owned data,
// with an optional finalizer run at most once when the object is
// swept unmarked.
func (vm *VM) NewNativeObject(data any, finalize func(any)) Value {
	obj := vm.heap.allocObject(&internalNativeObject, &nativeObjectPayload{data: data, finalize: finalize})
	obj.pinned = true
	return Value{kind: KindNativeObject, obj: obj}
}

func (v Value) NativeObjectData() any {
	mustKind(v, KindNativeObject)
	return v.obj.payload.(*nativeObjectPayload).data
}
