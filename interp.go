// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

import (
	"fmt"
	"math"
	"strconv"
)

// coroutineOutcome reports what happened after one scheduler turn of a
// coroutine.
type coroutineOutcome uint8

const (
	coroutineFinished coroutineOutcome = iota
	coroutineYielded
	coroutineReadyAgain
)

// pushCall pushes the appropriate frame kind for calling fn with argc
// already-pushed arguments. Bound methods are unwrapped and their
// receiver prepended to the argument list before the call proceeds.
func (vm *VM) pushCall(stack *CoroutineStack, fn Value, argc int, flags FrameFlags) error {
	if isMagicCatch(fn) {
		if argc != 1 {
			return vm.badArgPanic("catch_panic expects 1 argument, got %d", argc)
		}
		stack.PushCatchFrame(argc, flags)
		return nil
	}
	if isBoundMethod(fn) {
		inner, receiver := fn.boundMethodParts()
		insertAt := len(stack.values) - argc
		stack.values = append(stack.values, Null)
		copy(stack.values[insertAt+1:], stack.values[insertAt:len(stack.values)-1])
		stack.values[insertAt] = receiver
		return vm.pushCall(stack, inner, argc+1, flags|FramePopOneMore)
	}

	switch fn.rawKind() {
	case KindFunction:
		tmplObj := fn.FunctionTemplate()
		tmpl := tmplObj.payload.(*codeFunctionTemplatePayload)
		if argc != tmpl.paramCount {
			return vm.badArgPanic("function %q expects %d arguments, got %d", tmpl.name, tmpl.paramCount, argc)
		}
		stack.PushCodeFrame(tmplObj, fn.FunctionClosure(), argc, flags)
		return nil
	case kindNativeFunction:
		np := fn.nativeFunctionPayload()
		if argc != np.params {
			return vm.badArgPanic("function %q expects %d arguments, got %d", np.name, np.params, argc)
		}
		switch np.typ {
		case NativeSync:
			stack.PushSyncFrame(fn.obj, argc, flags)
		case NativeAsync:
			stack.PushAsyncFrame(fn.obj, argc, flags)
		case NativeResumable:
			stack.PushResumableFrame(fn.obj, argc, flags)
		}
		return nil
	default:
		return vm.badTypePanic("value of kind %v is not callable", fn.rawKind())
	}
}

func (vm *VM) badArgPanic(format string, args ...any) error {
	return &panicValue{value: vm.NewException(fmt.Sprintf(format, args...), "")}
}

func (vm *VM) badTypePanic(format string, args ...any) error {
	return &panicValue{value: vm.NewException(fmt.Sprintf(format, args...), "")}
}

// runCoroutine executes co until it yields, finishes, or needs another
// scheduler turn. It is the scheduler's sole entry
// point into the interpreter.
func (vm *VM) runCoroutine(co Value) coroutineOutcome {
	cp := co.coroutinePayload()
	stack := cp.stack

	for {
		f := stack.TopFrame()
		if f == nil {
			cp.result = vm.finalResult(stack)
			return coroutineFinished
		}

		switch f.kind {
		case FrameCode:
			outcome, yielded := vm.runCodeFrame(stack, f)
			if yielded {
				return outcome
			}
			// frame returned/popped, or a new frame was pushed on top of
			// it; loop again and dispatch on the new top frame.
		case FrameSync:
			vm.runSyncFrame(stack, f)
		case FrameAsync:
			if f.flags&FrameAsyncCalled == 0 {
				f.flags |= FrameAsyncCalled
				vm.beginAsyncFrame(co, stack, f)
				return coroutineYielded
			}
			// Revisited after ResumeWith set FrameAsyncResumed and
			// returnOrExc on this same frame; deliver the result rather
			// than initiating the call again.
			vm.completeAsyncFrame(stack)
		case FrameResumable:
			if vm.stepResumableFrame(stack, f) {
				return coroutineReadyAgain
			}
		case FrameCatch:
			// A Catch frame becomes the active frame only once: to start
			// its wrapped call. Its second entry, after that call
			// completes or unwinds into it, is handled by unwind/
			// pushReturnValue directly, not by revisiting this case.
			vm.enterCatchFrame(stack, f)
		}
	}
}

// finalResult computes a coroutine's terminal Result once its stack is
// empty: either the pending error left by an uncaught panic, or the
// value left by the last completed call, wrapped as success.
func (vm *VM) finalResult(stack *CoroutineStack) Value {
	if !stack.pendingError.IsNull() {
		return vm.NewError(stack.pendingError)
	}
	if len(stack.values) == 0 {
		return vm.NewSuccess(Null)
	}
	return vm.NewSuccess(stack.values[len(stack.values)-1])
}

// runSyncFrame invokes a blocking native function to completion and
// pops its frame.
func (vm *VM) runSyncFrame(stack *CoroutineStack, f *frameRecord) {
	np := f.nativeFunc.payload.(*nativeFunctionPayload)
	args := append([]Value(nil), stack.values[f.argsBase:f.argsBase+f.argsCount]...)
	result, err := np.sync(vm, args)
	if err != nil {
		stack.PopFrame()
		vm.unwind(stack, vm.valueOfError(err))
		return
	}
	stack.PopFrame()
	vm.pushReturnValue(stack, f, result)
}

// pushReturnValue deposits a call's return value where its caller
// expects it: a resumable frame waiting on an
// Invoke request receives it as InvokeResult on its next step; a bound
// method called through a plain field access drops one extra stack
// slot (FramePopOneMore); anything else receives it on the value
// stack, as an ordinary call result.
func (vm *VM) pushReturnValue(stack *CoroutineStack, f *frameRecord, v Value) {
	if caller := stack.TopFrame(); caller != nil && caller.kind == FrameResumable && caller.flags&FrameResumableInvoke != 0 {
		caller.flags &^= FrameResumableInvoke
		caller.returnOrExc = v
		return
	}
	if f.flags&FramePopOneMore != 0 && len(stack.values) > 0 {
		stack.PopValue()
	}
	stack.PushValue(v)
}

// beginAsyncFrame initiates a suspend-once native call. The frame
// remains on the stack until ResumeWith delivers a result via the
// coroutine token, at which point completeAsyncFrame (driven from the
// next runCoroutine turn) finishes it.
func (vm *VM) beginAsyncFrame(co Value, stack *CoroutineStack, f *frameRecord) {
	np := f.nativeFunc.payload.(*nativeFunctionPayload)
	args := append([]Value(nil), stack.values[f.argsBase:f.argsBase+f.argsCount]...)
	token := vm.newCoroutineToken(co)
	f.flags |= FrameAsyncCalled
	np.async(vm, args, token)
}

// completeAsyncFrame finishes an async frame once its token has been
// resumed via ResumeWith or PanicWith; the host must eventually call
// one of those at most once. Called from runCoroutine on the turn
// after the resume re-enqueued the coroutine.
func (vm *VM) completeAsyncFrame(stack *CoroutineStack) {
	f := stack.TopFrame()
	result := f.returnOrExc
	unwinding := f.flags&FrameUnwinding != 0
	stack.PopFrame()
	if unwinding {
		vm.unwind(stack, result)
		return
	}
	vm.pushReturnValue(stack, f, result)
}

// stepResumableFrame drives one transition of a resumable native
// function's state machine. Returns true if the coroutine must yield
// for a scheduler turn because the function asked to invoke another
// function (which may itself suspend) or moved to a new state; the
// coroutine is re-queued and the frame is re-entered on a later turn.
func (vm *VM) stepResumableFrame(stack *CoroutineStack, f *frameRecord) bool {
	np := f.nativeFunc.payload.(*nativeFunctionPayload)
	rc := &ResumableContext{
		Args:         append([]Value(nil), stack.values[f.argsBase:f.argsBase+f.argsCount]...),
		Locals:       append([]Value(nil), stack.values[f.localsBase:f.localsBase+f.localsCount]...),
		State:        f.resumableState,
		InvokeResult: f.returnOrExc,
	}

	next, result, err := np.resume(vm, rc)
	copy(stack.values[f.localsBase:f.localsBase+f.localsCount], rc.Locals)

	if err != nil {
		stack.PopFrame()
		vm.unwind(stack, vm.valueOfError(err))
		return false
	}

	if !rc.invokeFunc.IsNull() {
		f.resumableState = next
		f.flags |= FrameResumableInvoke
		invokeFn, invokeArgs := rc.invokeFunc, rc.invokeArgs
		for _, a := range invokeArgs {
			stack.PushValue(a)
		}
		if err := vm.pushCall(stack, invokeFn, len(invokeArgs), 0); err != nil {
			f.flags &^= FrameResumableInvoke
			vm.unwind(stack, vm.valueOfError(err))
			return false
		}
		return true
	}

	if next == ResumableEnd {
		// one final CLEANUP re-entry, so the function can release any
		// resources it opened across prior suspensions.
		np.resume(vm, &ResumableContext{Args: rc.Args, Locals: rc.Locals, State: ResumableCleanup})
		stack.PopFrame()
		vm.pushReturnValue(stack, f, result)
		return false
	}

	f.resumableState = next
	f.returnOrExc = Null
	return true
}

// enterCatchFrame runs the wrapped function protected by a Catch
// frame, used to implement primitive panic handling. The wrapped
// function is the frame's sole argument. The first visit starts the
// call; if unwind reaches this
// frame it is popped there directly (see unwind's FrameCatch case) and
// enterCatchFrame is never revisited. A second visit therefore always
// means the wrapped call returned normally.
func (vm *VM) enterCatchFrame(stack *CoroutineStack, f *frameRecord) {
	if f.flags&FrameCatchStarted != 0 {
		ret := Null
		if len(stack.values) > f.valuesBase {
			ret = stack.TopValue()
			stack.PopValue()
		}
		stack.PopFrame()
		vm.pushReturnValue(stack, f, vm.NewSuccess(ret))
		return
	}

	wrapped := stack.values[f.argsBase]
	f.flags |= FrameCatchStarted
	if err := vm.pushCall(stack, wrapped, 0, 0); err != nil {
		stack.PopFrame()
		pv := err.(*panicValue)
		vm.pushReturnValue(stack, f, vm.NewError(pv.value))
	}
}

// runCodeFrame executes a user function's bytecode starting at its
// current program counter, returning control to runCoroutine whenever
// a nested call is pushed (so the new top frame is dispatched first),
// the frame returns or unwinds, or the coroutine must yield.
func (vm *VM) runCodeFrame(stack *CoroutineStack, f *frameRecord) (coroutineOutcome, bool) {
	tmpl := f.tmpl.payload.(*codeFunctionTemplatePayload)
	code := tmpl.code

	raise := func(exc Value) {
		f.flags |= FrameUnwinding
		f.currentException = exc.obj
	}
	raiseErr := func(err error) { raise(vm.valueOfError(err)) }

	for {
		if f.flags&FrameUnwinding != 0 {
			exc := Value{kind: KindException, obj: f.currentException}
			stack.PopFrame()
			vm.unwind(stack, exc)
			return 0, false
		}
		if f.pc >= len(code.instructions) {
			// fell off the end without an explicit return: treat as
			// returning null, matching a bare function body.
			stack.PopFrame()
			vm.pushReturnValue(stack, f, Null)
			return 0, false
		}

		ins := code.instructions[f.pc]
		f.pc++

		switch ins.Op {
		case OpNop:
		case OpLoadNull:
			stack.PushValue(Null)
		case OpLoadTrue:
			stack.PushValue(NewBoolean(true))
		case OpLoadFalse:
			stack.PushValue(NewBoolean(false))
		case OpLoadInt, OpLoadFloat, OpLoadConst, OpPush:
			stack.PushValue(code.constants[ins.A])
		case OpLoadModule:
			stack.PushValue(tmpl.module.payload.(*modulePayload).members[ins.A])
		case OpStoreModule:
			tmpl.module.payload.(*modulePayload).members[ins.A] = stack.TopValue()
			stack.PopValue()
		case OpLoadParam:
			stack.PushValue(stack.Arg(f, int(ins.A)))
		case OpStoreParam:
			stack.SetArg(f, int(ins.A), stack.TopValue())
			stack.PopValue()
		case OpLoadLocal:
			stack.PushValue(stack.Local(f, int(ins.A)))
		case OpStoreLocal:
			stack.SetLocal(f, int(ins.A), stack.TopValue())
			stack.PopValue()
		case OpLoadClosure:
			if f.closure == nil {
				stack.PushValue(Null)
			} else {
				stack.PushValue(Value{kind: kindEnvironment, obj: f.closure})
			}
		case OpLoadEnv:
			env := Value{kind: kindEnvironment, obj: f.closure}
			stack.PushValue(env.EnvLoad(int(ins.A), int(ins.B)))
		case OpStoreEnv:
			env := Value{kind: kindEnvironment, obj: f.closure}
			env.EnvStore(int(ins.A), int(ins.B), stack.TopValue())
			stack.PopValue()
		case OpEnv:
			parent := Null
			if ins.A == 0 && f.closure != nil {
				parent = Value{kind: kindEnvironment, obj: f.closure}
			}
			stack.PushValue(vm.NewEnvironment(parent, int(ins.B)))
		case OpClosure:
			tmplVal := tmpl.module.payload.(*modulePayload).members[ins.A]
			closureVal := stack.TopValue()
			stack.PopValue()
			stack.PushValue(vm.NewFunction(tmplVal.FunctionTemplate(), closureVal))

		case OpLoadField:
			name := code.constants[ins.A].AsString()
			recv := stack.TopValue()
			stack.PopValue()
			bound, err := vm.resolveMember(recv, name)
			if err != nil {
				raiseErr(err)
				continue
			}
			stack.PushValue(bound)
		case OpStoreField:
			name := code.constants[ins.A].AsString()
			val := stack.TopValueN(0)
			recv := stack.TopValueN(1)
			stack.PopValues(2)
			if recv.rawKind() != KindRecord {
				raiseErr(vm.badTypePanic("cannot store field %q on %v", name, recv.rawKind()))
				continue
			}
			if err := recv.RecordSet(name, val); err != nil {
				raiseErr(err)
				continue
			}
		case OpLoadIndex:
			idx := stack.TopValue()
			container := stack.TopValueN(1)
			stack.PopValues(2)
			v, err := vm.indexGet(container, idx)
			if err != nil {
				raiseErr(err)
				continue
			}
			stack.PushValue(v)
		case OpStoreIndex:
			val := stack.TopValueN(0)
			idx := stack.TopValueN(1)
			container := stack.TopValueN(2)
			stack.PopValues(3)
			if err := vm.indexSet(container, idx, val); err != nil {
				raiseErr(err)
				continue
			}

		case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpPow,
			OpLsh, OpRsh, OpBAnd, OpBOr, OpBXor:
			rhs := stack.TopValue()
			lhs := stack.TopValueN(1)
			stack.PopValues(2)
			result, err := vm.binaryArith(ins.Op, lhs, rhs)
			if err != nil {
				raiseErr(err)
				continue
			}
			stack.PushValue(result)
		case OpBNot:
			v := stack.TopValue()
			stack.PopValue()
			stack.PushValue(NewInteger(vm.heap, ^v.AsInteger()))
		case OpUAdd:
			// no-op unary plus; value already correctly typed
		case OpUNeg:
			v := stack.TopValue()
			stack.PopValue()
			if v.rawKind() == KindFloat {
				stack.PushValue(NewFloat(floatBitsOf(-asFloat(v))))
			} else {
				stack.PushValue(NewInteger(vm.heap, -v.AsInteger()))
			}
		case OpLNot:
			v := stack.TopValue()
			stack.PopValue()
			stack.PushValue(NewBoolean(!truthy(v)))

		case OpLt, OpLte, OpGt, OpGte, OpEq, OpNeq:
			rhs := stack.TopValue()
			lhs := stack.TopValueN(1)
			stack.PopValues(2)
			stack.PushValue(NewBoolean(vm.compare(ins.Op, lhs, rhs)))

		case OpJmp:
			f.pc = int(ins.A)
		case OpJmpTrue:
			v := stack.TopValue()
			stack.PopValue()
			if truthy(v) {
				f.pc = int(ins.A)
			}
		case OpJmpFalse:
			v := stack.TopValue()
			stack.PopValue()
			if !truthy(v) {
				f.pc = int(ins.A)
			}
		case OpJmpNull:
			if stack.TopValue().IsNull() {
				f.pc = int(ins.A)
			}
		case OpJmpNotNull:
			if !stack.TopValue().IsNull() {
				f.pc = int(ins.A)
			}
		case OpReturn:
			ret := Null
			if len(stack.values) > f.valuesBase {
				ret = stack.TopValue()
			}
			stack.PopFrame()
			vm.pushReturnValue(stack, f, ret)
			return 0, false
		case OpAssertFail:
			msg := code.constants[ins.A].AsString()
			raise(vm.NewException(msg, ""))
			continue

		case OpCall:
			argc := int(ins.A)
			fn := stack.TopValueN(argc)
			at := len(stack.values) - argc - 1
			copy(stack.values[at:], stack.values[at+1:])
			stack.values = stack.values[:len(stack.values)-1]
			if err := vm.pushCall(stack, fn, argc, 0); err != nil {
				raiseErr(err)
				continue
			}
			return 0, false
		case OpPopTo:
			v := stack.TopValue()
			stack.PopValues(int(ins.A) + 1)
			stack.PushValue(v)
		case OpLoadMethod:
			name := code.constants[ins.A].AsString()
			recv := stack.TopValue()
			bound, err := vm.resolveMember(recv, name)
			if err != nil {
				raiseErr(err)
				continue
			}
			stack.PushValue(bound)
		case OpCallMethod:
			argc := int(ins.A)
			fn := stack.TopValueN(argc)
			at := len(stack.values) - argc - 1
			copy(stack.values[at:], stack.values[at+1:])
			stack.values = stack.values[:len(stack.values)-1]
			if err := vm.pushCall(stack, fn, argc, 0); err != nil {
				raiseErr(err)
				continue
			}
			return 0, false

		case OpArray:
			n := int(ins.A)
			elems := append([]Value(nil), stack.values[len(stack.values)-n:]...)
			stack.PopValues(n)
			stack.PushValue(vm.NewArrayFrom(elems))
		case OpTuple:
			n := int(ins.A)
			elems := append([]Value(nil), stack.values[len(stack.values)-n:]...)
			stack.PopValues(n)
			stack.PushValue(vm.NewTuple(elems))
		case OpSet, OpMap:
			n := int(ins.A)
			pairs := ins.Op == OpMap
			count := n
			if pairs {
				count = n * 2
			}
			items := append([]Value(nil), stack.values[len(stack.values)-count:]...)
			stack.PopValues(count)
			ht := vm.NewHashTable()
			if pairs {
				for i := 0; i < n; i++ {
					vm.HashTableSet(ht, items[i*2], items[i*2+1])
				}
			} else {
				for _, v := range items {
					vm.HashTableSet(ht, v, NewBoolean(true))
				}
			}
			stack.PushValue(ht)
		case OpFormatter:
			stack.PushValue(vm.NewStringBuilder())
		case OpAppendFormat:
			v := stack.TopValue()
			sb := stack.TopValueN(1)
			stack.PopValues(2)
			sb.StringBuilderAppend(vm.ToDisplayString(v))
			stack.PushValue(sb)
		case OpFormatResult:
			sb := stack.TopValue()
			stack.PopValue()
			stack.PushValue(vm.NewString(sb.StringBuilderString()))

		case OpYieldCoroutine:
			return coroutineReadyAgain, true

		default:
			raise(vm.NewException(fmt.Sprintf("unknown opcode %d", ins.Op), ""))
			continue
		}
	}
}

// valueOfError converts a Go error raised by interpreter/native code
// into the Exception Value carried by unwinding.
func (vm *VM) valueOfError(err error) Value {
	if pv, ok := err.(*panicValue); ok {
		return pv.value
	}
	return vm.NewException(err.Error(), "")
}

// unwind walks the caller chain starting at the frame above the one
// that just raised or returned an error, popping frames until a Catch
// frame intercepts the exception or the stack empties
// (stack.pendingError is then set, observed by finalResult once the
// coroutine's frame loop notices the stack is empty).
func (vm *VM) unwind(stack *CoroutineStack, exc Value) {
	for {
		f := stack.TopFrame()
		if f == nil {
			stack.pendingError = exc
			return
		}
		switch f.kind {
		case FrameCatch:
			stack.PopFrame()
			vm.pushReturnValue(stack, f, vm.NewError(exc))
			return
		case FrameResumable:
			np := f.nativeFunc.payload.(*nativeFunctionPayload)
			np.resume(vm, &ResumableContext{State: ResumableCleanup})
			stack.PopFrame()
		case FrameCode:
			f.flags |= FrameUnwinding
			f.currentException = exc.obj
			return
		default:
			stack.PopFrame()
		}
	}
}

func truthy(v Value) bool {
	switch v.rawKind() {
	case KindNull:
		return false
	case KindBoolean:
		return v.AsBoolean()
	default:
		return true
	}
}

func asFloat(v Value) float64 {
	if v.rawKind() == KindFloat {
		return math.Float64frombits(v.AsFloatBits())
	}
	return float64(v.AsInteger())
}

// binaryArith implements the VM's integer-arithmetic semantics: mixed
// integer/float promotes to float, integer overflow on + - * pow
// panics, integer division/modulo by zero panics, and mod truncates
// toward zero.
func (vm *VM) binaryArith(op Opcode, lhs, rhs Value) (Value, error) {
	if lhs.rawKind() == KindFloat || rhs.rawKind() == KindFloat {
		a, b := asFloat(lhs), asFloat(rhs)
		switch op {
		case OpAdd:
			return NewFloat(floatBitsOf(a + b)), nil
		case OpSub:
			return NewFloat(floatBitsOf(a - b)), nil
		case OpMul:
			return NewFloat(floatBitsOf(a * b)), nil
		case OpDiv:
			return NewFloat(floatBitsOf(a / b)), nil
		case OpMod:
			return NewFloat(floatBitsOf(math.Mod(a, b))), nil
		case OpPow:
			return NewFloat(floatBitsOf(math.Pow(a, b))), nil
		default:
			return Value{}, vm.badTypePanic("bitwise operators require integer operands")
		}
	}

	a, b := lhs.AsInteger(), rhs.AsInteger()
	switch op {
	case OpAdd:
		r, ok := checkedAddInt64(a, b)
		if !ok {
			return Value{}, vm.arithPanic("integer overflow in addition")
		}
		return NewInteger(vm.heap, r), nil
	case OpSub:
		r, ok := checkedSubInt64(a, b)
		if !ok {
			return Value{}, vm.arithPanic("integer overflow in subtraction")
		}
		return NewInteger(vm.heap, r), nil
	case OpMul:
		r, ok := checkedMulInt64(a, b)
		if !ok {
			return Value{}, vm.arithPanic("integer overflow in multiplication")
		}
		return NewInteger(vm.heap, r), nil
	case OpDiv:
		if b == 0 {
			return Value{}, vm.arithPanic("integer division by zero")
		}
		return NewInteger(vm.heap, a/b), nil
	case OpMod:
		if b == 0 {
			return Value{}, vm.arithPanic("integer modulo by zero")
		}
		return NewInteger(vm.heap, a%b), nil
	case OpPow:
		r, ok := checkedPowInt64(a, b)
		if !ok {
			return Value{}, vm.arithPanic("integer overflow in exponentiation")
		}
		return NewInteger(vm.heap, r), nil
	case OpLsh:
		return NewInteger(vm.heap, a<<(uint(b)%64)), nil
	case OpRsh:
		return NewInteger(vm.heap, a>>(uint(b)%64)), nil
	case OpBAnd:
		return NewInteger(vm.heap, a&b), nil
	case OpBOr:
		return NewInteger(vm.heap, a|b), nil
	case OpBXor:
		return NewInteger(vm.heap, a^b), nil
	default:
		return Value{}, vm.badTypePanic("unsupported arithmetic opcode")
	}
}

func (vm *VM) arithPanic(format string, args ...any) error {
	return &panicValue{value: vm.NewException(fmt.Sprintf(format, args...), "")}
}

// checkedPowInt64 computes a^b for non-negative b via exponentiation
// by squaring, reporting overflow.
func checkedPowInt64(a, b int64) (int64, bool) {
	if b < 0 {
		return 0, false
	}
	result := int64(1)
	base := a
	for b > 0 {
		if b&1 == 1 {
			r, ok := checkedMulInt64(result, base)
			if !ok {
				return 0, false
			}
			result = r
		}
		b >>= 1
		if b > 0 {
			nb, ok := checkedMulInt64(base, base)
			if !ok {
				return 0, false
			}
			base = nb
		}
	}
	return result, true
}

// compare implements the VM's comparison family: deep equality for
// primitives on eq/neq, ordered comparison for numbers and strings on
// the rest.
func (vm *VM) compare(op Opcode, lhs, rhs Value) bool {
	switch op {
	case OpEq:
		return valueEqual(lhs, rhs)
	case OpNeq:
		return !valueEqual(lhs, rhs)
	}
	if lhs.rawKind() == KindFloat || rhs.rawKind() == KindFloat {
		a, b := asFloat(lhs), asFloat(rhs)
		switch op {
		case OpLt:
			return a < b
		case OpLte:
			return a <= b
		case OpGt:
			return a > b
		case OpGte:
			return a >= b
		}
	}
	if lhs.rawKind() == KindInteger && rhs.rawKind() == KindInteger {
		a, b := lhs.AsInteger(), rhs.AsInteger()
		switch op {
		case OpLt:
			return a < b
		case OpLte:
			return a <= b
		case OpGt:
			return a > b
		case OpGte:
			return a >= b
		}
	}
	if lhs.rawKind() == KindString && rhs.rawKind() == KindString {
		a, b := lhs.AsString(), rhs.AsString()
		switch op {
		case OpLt:
			return a < b
		case OpLte:
			return a <= b
		case OpGt:
			return a > b
		case OpGte:
			return a >= b
		}
	}
	return false
}

// resolveMember implements the method-resolution order for `v.name`: a
// same-named field wins over a type method, and a type method is
// returned bound to the receiver; a module resolves exports; anything
// else panics with BAD_KEY.
func (vm *VM) resolveMember(v Value, name string) (Value, error) {
	if v.rawKind() == KindRecord && v.RecordHasField(name) {
		return v.RecordGet(name)
	}
	if v.rawKind() == KindModule {
		if exp, err := v.ModuleGetExport(name); err == nil {
			return exp, nil
		}
	}
	if method, ok := vm.types.lookupMethod(v.rawKind(), name); ok {
		return vm.NewBoundMethod(method, v), nil
	}
	return Value{}, newError(ErrCodeBadKey, ErrBadKey, "no such member %q on %v", name, v.rawKind())
}

func (vm *VM) indexGet(container, idx Value) (Value, error) {
	switch container.rawKind() {
	case KindArray:
		i := int(idx.AsInteger())
		if i < 0 || i >= container.ArrayLen() {
			return Value{}, newError(ErrCodeOutOfBounds, ErrOutOfBounds, "array index %d out of range", i)
		}
		return container.ArrayGet(i), nil
	case KindTuple:
		i := int(idx.AsInteger())
		if i < 0 || i >= container.TupleLen() {
			return Value{}, newError(ErrCodeOutOfBounds, ErrOutOfBounds, "tuple index %d out of range", i)
		}
		return container.TupleGet(i), nil
	case KindHashTable:
		return HashTableGet(container, idx)
	default:
		return Value{}, &panicValue{value: vm.NewException(fmt.Sprintf("value of kind %v does not support indexing", container.rawKind()), "")}
	}
}

func (vm *VM) indexSet(container, idx, val Value) error {
	switch container.rawKind() {
	case KindArray:
		i := int(idx.AsInteger())
		if i < 0 || i >= container.ArrayLen() {
			return newError(ErrCodeOutOfBounds, ErrOutOfBounds, "array index %d out of range", i)
		}
		container.ArraySet(i, val)
		return nil
	case KindTuple:
		i := int(idx.AsInteger())
		if i < 0 || i >= container.TupleLen() {
			return newError(ErrCodeOutOfBounds, ErrOutOfBounds, "tuple index %d out of range", i)
		}
		container.TupleSet(i, val)
		return nil
	case KindHashTable:
		vm.HashTableSet(container, idx, val)
		return nil
	default:
		return &panicValue{value: vm.NewException(fmt.Sprintf("value of kind %v does not support indexed assignment", container.rawKind()), "")}
	}
}

// ToDisplayString renders v for the formatter instruction family and
// the CLI's result printer.
func (vm *VM) ToDisplayString(v Value) string {
	switch v.rawKind() {
	case KindNull:
		return "null"
	case KindBoolean:
		if v.AsBoolean() {
			return "true"
		}
		return "false"
	case KindInteger:
		return strconv.FormatInt(v.AsInteger(), 10)
	case KindFloat:
		return strconv.FormatFloat(asFloat(v), 'g', -1, 64)
	case KindString:
		return v.AsString()
	case KindSymbol:
		return "#" + v.SymbolName()
	default:
		return fmt.Sprintf("<%s>", v.rawKind().String())
	}
}
