// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

// recordSchemaPayload is an ordered set of symbols fixing a record's
// key layout, shared across every Record instance built from it: the
// key set is fixed at construction via a shared RecordSchema. Schema
// construction from an empty or duplicate key fails with ErrBadType.
type recordSchemaPayload struct {
	keys  []Value // Symbols, in declaration order
	index map[string]int
}

var internalRecordSchema = InternalType{
	name: kindRecordSchema, publicKind: kindRecordSchema,
	trace: func(p any, visit func(Value)) {
		for _, k := range p.(*recordSchemaPayload).keys {
			visit(k)
		}
	},
}

// NewRecordSchema builds a schema from string keys, validating that
// every key is non-empty and unique before interning it as a Symbol.
// An empty or duplicate key reports ErrBadType.
func (vm *VM) NewRecordSchema(keyNames []string) (Value, error) {
	keys := make([]Value, len(keyNames))
	index := make(map[string]int, len(keyNames))
	for i, name := range keyNames {
		if name == "" {
			return Value{}, newError(ErrCodeBadType, ErrBadType, "record schema key %d is empty", i)
		}
		if _, dup := index[name]; dup {
			return Value{}, newError(ErrCodeBadType, ErrBadType, "duplicate record schema key %q", name)
		}
		keys[i] = vm.Symbol(name)
		index[name] = i
	}
	obj := vm.heap.allocObject(&internalRecordSchema, &recordSchemaPayload{keys: keys, index: index})
	return Value{kind: kindRecordSchema, obj: obj}, nil
}

// recordPayload holds per-instance slots only; the key set comes from
// the shared schema.
type recordPayload struct {
	schema *heapObject
	values []Value
}

var internalRecord = InternalType{
	name: KindRecord, publicKind: KindRecord,
	trace: func(p any, visit func(Value)) {
		rp := p.(*recordPayload)
		visit(Value{kind: kindRecordSchema, obj: rp.schema})
		for _, v := range rp.values {
			visit(v)
		}
	},
	size: func(p any) uintptr { return uintptr(24 + 16*len(p.(*recordPayload).values)) },
}

// NewRecord allocates a record over the given schema, with every slot
// initialized to Null.
func (vm *VM) NewRecord(schema Value) Value {
	mustKind(schema, kindRecordSchema)
	sp := schema.obj.payload.(*recordSchemaPayload)
	obj := vm.heap.allocObject(&internalRecord, &recordPayload{schema: schema.obj, values: make([]Value, len(sp.keys))})
	return Value{kind: KindRecord, obj: obj}
}

// RecordKeys returns the same ordered Symbol list the schema was built
// with.
func (v Value) RecordKeys() []Value {
	mustKind(v, KindRecord)
	rp := v.obj.payload.(*recordPayload)
	sp := rp.schema.payload.(*recordSchemaPayload)
	out := make([]Value, len(sp.keys))
	copy(out, sp.keys)
	return out
}

// RecordGet looks up a field by its string name, failing with
// ErrBadKey if the schema does not declare it. Method resolution step
// 1 relies on this lookup.
func (v Value) RecordGet(key string) (Value, error) {
	mustKind(v, KindRecord)
	rp := v.obj.payload.(*recordPayload)
	sp := rp.schema.payload.(*recordSchemaPayload)
	idx, ok := sp.index[key]
	if !ok {
		return Value{}, newError(ErrCodeBadKey, ErrBadKey, "record has no field %q", key)
	}
	return rp.values[idx], nil
}

func (v Value) RecordSet(key string, val Value) error {
	mustKind(v, KindRecord)
	rp := v.obj.payload.(*recordPayload)
	sp := rp.schema.payload.(*recordSchemaPayload)
	idx, ok := sp.index[key]
	if !ok {
		return newError(ErrCodeBadKey, ErrBadKey, "record has no field %q", key)
	}
	rp.values[idx] = val
	return nil
}

// RecordHasField reports whether v's kind (i.e. schema) declares name,
// the first step of method resolution.
func (v Value) RecordHasField(name string) bool {
	mustKind(v, KindRecord)
	rp := v.obj.payload.(*recordPayload)
	sp := rp.schema.payload.(*recordSchemaPayload)
	_, ok := sp.index[name]
	return ok
}
