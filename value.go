// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

// Package tiro implements the managed runtime for the tiro scripting
// language: a tagged value representation, a precise mark-sweep heap,
// a coroutine-based bytecode interpreter and a cooperative scheduler,
// exposed through an embedding-friendly API.
package tiro

import "fmt"

// Kind identifies the dynamic type of a Value as observed by host code.
// Several internal representations (SmallInteger and a heap-allocated
// HeapInteger) are folded into a single public Kind (KindInteger); a
// handful of internal kinds used only by the runtime are never returned
// from a public operation.
type Kind uint8

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindFloat
	KindString
	KindSymbol
	KindFunction
	KindTuple
	KindRecord
	KindArray
	KindResult
	KindException
	KindCoroutine
	KindModule
	KindType
	KindNativeObject
	KindBuffer
	KindHashTable
	KindStringBuilder
	KindNativePointer

	// internal-only kinds; never observed by host code through Value.Kind
	kindInternalType
	kindCoroutineStack
	kindEnvironment
	kindCodeFunctionTemplate
	kindCode
	kindBoundMethod
	kindNativeFunction
	kindUnresolvedImport
	kindArrayStorage
	kindRecordSchema
	kindCoroutineToken
	kindMagicCatch
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindFunction:
		return "function"
	case KindTuple:
		return "tuple"
	case KindRecord:
		return "record"
	case KindArray:
		return "array"
	case KindResult:
		return "result"
	case KindException:
		return "exception"
	case KindCoroutine:
		return "coroutine"
	case KindModule:
		return "module"
	case KindType:
		return "type"
	case KindNativeObject:
		return "native_object"
	case KindBuffer:
		return "buffer"
	case KindHashTable:
		return "hash_table"
	case KindStringBuilder:
		return "string_builder"
	case KindNativePointer:
		return "native_pointer"
	default:
		return fmt.Sprintf("internal_kind(%d)", uint8(k))
	}
}

// isInternalOnly reports whether a kind must never leak to host code.
func (k Kind) isInternalOnly() bool {
	return k >= kindInternalType
}

// smallIntegerBits is the width of the range-limited immediate integer
// representation. Values outside this range are boxed as HeapInteger
// objects but still observed by host code as KindInteger.
//
// The source material mixes 32-bit and 64-bit integer terminology; this
// implementation commits to 64-bit script integers with a 48-bit
// small-integer immediate range (documented open question, see
// DESIGN.md).
const smallIntegerBits = 48

const (
	smallIntegerMax = int64(1)<<(smallIntegerBits-1) - 1
	smallIntegerMin = -(int64(1) << (smallIntegerBits - 1))
)

// Value is a uniformly-sized handle to either an immediate datum (null,
// boolean, small integer) or a heap-allocated object. Go does not allow
// safely tagging raw pointers the way the reference implementation's
// NaN-boxed representation does, so the immediate/heap distinction is
// carried by an explicit tag instead of a stolen pointer bit; the rest
// of the runtime (handles, GC roots, frame slots) treats a Value as an
// opaque, copyable, fixed-size word.
type Value struct {
	kind Kind
	num  int64       // small integer payload, boolean (0/1), or float64 bits
	obj  *heapObject // non-nil for heap-allocated kinds
}

// Null is the canonical null value.
var Null = Value{kind: KindNull}

// NewBoolean constructs a boolean immediate.
func NewBoolean(b bool) Value {
	if b {
		return Value{kind: KindBoolean, num: 1}
	}
	return Value{kind: KindBoolean, num: 0}
}

// NewInteger constructs an integer value. Values within the small
// integer range are immediates; values outside of it are boxed onto
// the heap as HeapInteger objects, but both report KindInteger.
func NewInteger(heap *Heap, n int64) Value {
	if n >= smallIntegerMin && n <= smallIntegerMax {
		return Value{kind: KindInteger, num: n}
	}
	obj := heap.allocObject(&internalHeapInteger, heapIntegerPayload{n: n})
	return Value{kind: KindInteger, obj: obj}
}

// NewFloat constructs a float value. NaN payloads are preserved
// bit-identically.
func NewFloat(bits uint64) Value {
	return Value{kind: KindFloat, num: int64(bits)}
}

// Kind reports the host-visible dynamic type of v. Heap-backed values
// resolve through their InternalType's publicKind so that internal
// representations folded into one user-facing kind (BoundMethod and
// native functions both report KindFunction) never leak their internal
// discriminant to host code.
func (v Value) Kind() Kind {
	if v.obj != nil {
		return v.obj.kind()
	}
	if v.kind.isInternalOnly() {
		panic(fmt.Sprintf("tiro: internal kind %v escaped to host-visible Value.Kind()", v.kind))
	}
	return v.kind
}

// rawKind returns the kind without the internal-leak guard; used by the
// runtime itself (GC tracing, method dispatch) which must be able to see
// internal kinds.
func (v Value) rawKind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBoolean() bool {
	mustKind(v, KindBoolean)
	return v.num != 0
}

// AsInteger returns the value of an integer Value, unboxing heap
// integers transparently.
func (v Value) AsInteger() int64 {
	mustKind(v, KindInteger)
	if v.obj == nil {
		return v.num
	}
	return v.obj.payload.(heapIntegerPayload).n
}

func (v Value) AsFloatBits() uint64 {
	mustKind(v, KindFloat)
	return uint64(v.num)
}

func mustKind(v Value, want Kind) {
	if v.kind != want {
		panic(fmt.Sprintf("tiro: expected value of kind %v, got %v", want, v.kind))
	}
}

// Same implements identity comparison: same(a,b) implies
// kind(a)==kind(b), but equal immutable primitives are not necessarily
// "same" — this is identity, not equality. Interned strings and symbols
// compare pointer-equal.
func Same(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	if a.obj == nil && b.obj == nil {
		return a.num == b.num
	}
	return a.obj == b.obj
}

// heapObject is the common header every heap-allocated Value points to.
// It carries the InternalType used for GC tracing/layout and the mark
// bit used by the collector. It is a tagged struct, not an interface,
// for the same reason frames are copied verbatim on stack growth:
// dispatching on typ rather than a Go interface keeps GC tracing
// uniform across kinds without per-kind method sets.
type heapObject struct {
	typ     *InternalType
	marked  bool
	pinned  bool // Buffer/NativeObject payloads: never relocated (moot since this GC never relocates, kept for clarity and for the embedding contract)
	payload any
	page    *page // owning page, nil for large objects
}

func (o *heapObject) kind() Kind { return o.typ.publicKind }
