// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

import (
	"bytes"
	"math"
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

func floatBitsOf(f float64) uint64 { return math.Float64bits(f) }

// LoadBytecode memory-maps the `.tirc` file at path and builds a live
// Module from it, grounded on
// the teacher's pe.New, which mmaps the target file read-only via the
// same library rather than reading it into a []byte. The mapping is
// unmapped once decoding completes; unlike saferwall-pe's File (which
// keeps its mapping alive so its byte slices stay valid), a decoded
// moduleImage owns copies of every string and instruction it needs.
func (vm *VM) LoadBytecode(path string) (Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return Value{}, newError(ErrCodeBadSource, ErrBadSource, "opening bytecode file: %v", err)
	}
	defer f.Close()

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return Value{}, newError(ErrCodeBadSource, ErrBadSource, "mapping bytecode file: %v", err)
	}
	defer data.Unmap()

	image, err := DecodeModule(bytes.NewReader(data))
	if err != nil {
		return Value{}, err
	}
	return vm.LoadModule(image)
}

// LoadModule builds a live Module object graph from a decoded
// moduleImage, linking Import placeholders to UnresolvedImport members
// for the registry to resolve later. Module loading is topological:
// a module's own members are fully materialized here, but imports are
// patched in once their source module has loaded.
func (vm *VM) LoadModule(image *moduleImage) (Value, error) {
	mod := vm.NewModule(image.name)
	mp := mod.obj.payload.(*modulePayload)
	mp.members = make([]Value, len(image.members))

	for i, m := range image.members {
		switch m.tag {
		case memberImport:
			mp.members[i] = vm.NewUnresolvedImport(m.importName)
		case memberVariable:
			init := Null
			if m.hasInitial {
				init = vm.materializeValue(m.initial)
			}
			mp.members[i] = init
		case memberFunction:
			mp.members[i] = vm.materializeFunction(mod.obj, m.fn)
		case memberInteger, memberFloat, memberString, memberSymbol, memberBool, memberNull:
			mp.members[i] = vm.materializeValue(m.value)
		default:
			return Value{}, newError(ErrCodeBadSource, ErrBadSource, "unknown member tag %d in module %q", m.tag, image.name)
		}
	}

	for name, idx := range image.exports {
		if idx < 0 || idx >= len(mp.members) {
			return Value{}, newError(ErrCodeBadSource, ErrBadSource, "export %q: member index %d out of range", name, idx)
		}
		mp.exports[name] = idx
	}
	if image.initializer >= 0 {
		if image.initializer >= len(mp.members) {
			return Value{}, newError(ErrCodeBadSource, ErrBadSource, "initializer index %d out of range", image.initializer)
		}
		mp.exports["__init__"] = image.initializer
	}

	if err := vm.AddModule(mod); err != nil {
		return Value{}, err
	}
	return mod, nil
}

func (vm *VM) materializeValue(v memberValueImage) Value {
	switch v.tag {
	case memberInteger:
		return NewInteger(vm.heap, v.i)
	case memberFloat:
		return NewFloat(floatBitsOf(v.f))
	case memberString:
		return vm.NewString(v.s)
	case memberSymbol:
		return vm.Symbol(v.s)
	case memberBool:
		return NewBoolean(v.b)
	case memberNull:
		return Null
	default:
		return Null
	}
}

func (vm *VM) materializeFunction(module *heapObject, fn functionImage) Value {
	constants := make([]Value, len(fn.constants))
	for i, c := range fn.constants {
		constants[i] = vm.materializeValue(c)
	}
	code := &compiledCode{instructions: fn.code, constants: constants}
	tmplObj := vm.heap.allocObject(&internalCodeFunctionTemplate, &codeFunctionTemplatePayload{
		name: fn.name, module: module, code: code,
		paramCount: fn.paramCount, localCount: fn.localCount,
	})
	return vm.NewFunction(tmplObj, Null)
}
