// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

// InternalType describes the GC layout and tracing behavior of a heap
// object kind. InternalType values are package-level Go variables, not
// heap objects; internalTypeType is the descriptor of InternalType
// itself. InternalType never leaks to host code directly — some
// internal types report a public Kind (BoundMethod and native
// functions report KindFunction), while others such as Environment and
// CodeFunctionTemplate keep an internal kind with no public Type
// counterpart.
type InternalType struct {
	name Kind // internal kind discriminant, reused here as a compact id
	// publicKind is the Kind reported to host code for objects of this
	// internal type. Several internal types map to the same public kind
	// (SmallInteger and HeapInteger both report KindInteger).
	publicKind Kind
	// trace visits every Value-typed slot reachable from payload and
	// reports it to the mark worklist. trace must not allocate.
	trace func(payload any, visit func(Value))
	// finalize runs once, at most, when an unmarked object of this type
	// is swept. May be nil.
	finalize func(payload any)
	// size estimates the logical byte footprint used for max_heap_size
	// accounting and the small/large object threshold.
	size func(payload any) uintptr
}

var internalTypeType = &InternalType{name: kindInternalType, publicKind: kindInternalType}

// Built-in internal types. Declared as package vars so that trace
// closures can refer to one another (e.g. Tuple tracing Values that may
// themselves be Tuples) without an initialization-order dance.
var (
	internalHeapInteger = InternalType{
		name: KindInteger, publicKind: KindInteger,
		trace: func(any, func(Value)) {},
		size:  func(any) uintptr { return 16 },
	}
	internalFloatBox = InternalType{ // reserved: floats are always immediate today
		name: KindFloat, publicKind: KindFloat,
		trace: func(any, func(Value)) {},
	}
)

// PublicType is the user-visible reflection object returned by
// type_of()/kind_to_type(). It is distinct from
// InternalType and holds a method table consulted during `load_method`
// dispatch.
type PublicType struct {
	Kind    Kind
	Name    string
	methods map[string]Value // name -> BoundMethod-producing Function/NativeFunction
}

// typeRegistry maps each public Kind to its singleton PublicType and
// supports registering native methods on built-in types, mirroring the
// original implementation's per-VM intrinsic type table: no VM-wide
// singleton, each VM owns its own intrinsics.
type typeRegistry struct {
	byKind map[Kind]*PublicType
}

func newTypeRegistry() *typeRegistry {
	r := &typeRegistry{byKind: make(map[Kind]*PublicType, 20)}
	for k := KindNull; k <= KindNativePointer; k++ {
		r.byKind[k] = &PublicType{Kind: k, Name: k.String(), methods: map[string]Value{}}
	}
	return r
}

func (r *typeRegistry) typeOf(v Value) *PublicType {
	return r.byKind[v.Kind()]
}

// registerMethod installs a native or user method under `name` on the
// public type for `kind`, consulted by method-resolution step 2 of
// member lookup.
func (r *typeRegistry) registerMethod(kind Kind, name string, fn Value) {
	r.byKind[kind].methods[name] = fn
}

func (r *typeRegistry) lookupMethod(kind Kind, name string) (Value, bool) {
	pt, ok := r.byKind[kind]
	if !ok {
		return Value{}, false
	}
	fn, ok := pt.methods[name]
	return fn, ok
}
