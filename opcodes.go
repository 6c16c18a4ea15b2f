// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

// Opcode identifies an interpreter instruction. Each
// instruction is a fixed-shape (op, a, b, c) triple; which operands
// are meaningful depends on the opcode, documented per-constant
// below. Constant-pool and member indices are encoded as operand A
// unless noted otherwise.
type Opcode uint8

const (
	OpNop Opcode = iota

	// Load/store: constants
	OpLoadNull
	OpLoadTrue
	OpLoadFalse
	OpLoadInt   // A: constant pool index -> Integer
	OpLoadFloat // A: constant pool index -> Float
	OpLoadConst // A: constant pool index -> String/Symbol or boxed literal

	// Load/store: bindings
	OpLoadModule  // A: member index in the current function's module
	OpStoreModule // A: member index
	OpLoadParam   // A: parameter index
	OpStoreParam  // A: parameter index
	OpLoadLocal   // A: local slot index
	OpStoreLocal  // A: local slot index
	OpLoadClosure // pushes the active frame's closure Environment
	OpLoadEnv     // A: levels, B: index
	OpStoreEnv    // A: levels, B: index

	// Field/indexed access
	OpLoadField  // A: constant pool index of field-name string
	OpStoreField // A: constant pool index of field-name string
	OpLoadIndex
	OpStoreIndex

	// Arithmetic
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpLsh
	OpRsh
	OpBAnd
	OpBOr
	OpBXor
	OpBNot
	OpUAdd
	OpUNeg
	OpLNot

	// Comparison
	OpLt
	OpLte
	OpGt
	OpGte
	OpEq
	OpNeq

	// Control flow
	OpJmp        // A: absolute instruction index
	OpJmpTrue    // A: target, pops and tests condition
	OpJmpFalse   // A: target
	OpJmpNull    // A: target, peeks top of stack
	OpJmpNotNull // A: target
	OpReturn
	OpAssertFail // A: constant pool index of message string

	// Calls
	OpPush // A: constant pool index; pushes a constant without consuming it via LoadConst family (used by compiler for literal args)
	OpCall // A: argument count
	OpPopTo
	OpLoadMethod  // A: constant pool index of method-name string
	OpCallMethod  // A: argument count (receiver implicit)

	// Closures
	OpEnv     // A: parent levels (0 = current closure, -1 = none), B: slot count
	OpClosure // A: module member index of CodeFunctionTemplate

	// Containers
	OpArray  // A: element count
	OpTuple  // A: element count
	OpSet    // A: element count
	OpMap    // A: pair count
	OpFormatter
	OpAppendFormat
	OpFormatResult

	// Coroutine intrinsics
	OpYieldCoroutine
)

// Instruction is one decoded bytecode operation. The
// wire format in bytecode.go serializes a stream of these; the
// interpreter in interp.go executes them directly rather than
// re-decoding bytes on every dispatch, trading a larger in-memory
// representation for a simpler, allocation-free fetch step.
type Instruction struct {
	Op Opcode
	A  int32
	B  int32
	C  int32
}

// compiledCode is a CodeFunctionTemplate's executable body: a flat
// instruction stream plus the constant pool referenced by operand A
// in the Load* family.
type compiledCode struct {
	instructions []Instruction
	constants    []Value
}
