// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

// CoroutineState is the lifecycle of a Coroutine.
type CoroutineState uint8

const (
	CoroutineNew CoroutineState = iota
	CoroutineReady
	CoroutineRunning
	CoroutineWaiting
	CoroutineDone
)

func (s CoroutineState) String() string {
	switch s {
	case CoroutineNew:
		return "new"
	case CoroutineReady:
		return "ready"
	case CoroutineRunning:
		return "running"
	case CoroutineWaiting:
		return "waiting"
	case CoroutineDone:
		return "done"
	default:
		return "unknown"
	}
}

// coroutinePayload backs Coroutine: a name, its stack, current state
// and, once it finishes, its terminal Result.
type coroutinePayload struct {
	name    Value // String
	stack   *CoroutineStack
	state   CoroutineState
	result  Value // Result, valid once state == CoroutineDone
	onDone  []Value
	token   *coroutineTokenPayload // the single live token for this coroutine's current suspension, nil when not waiting
}

var internalCoroutine = InternalType{
	name: KindCoroutine, publicKind: KindCoroutine,
	trace: func(p any, visit func(Value)) {
		cp := p.(*coroutinePayload)
		visit(cp.name)
		if !cp.result.IsNull() {
			visit(cp.result)
		}
		for _, cb := range cp.onDone {
			visit(cb)
		}
		traceCoroutineStack(cp.stack, visit)
	},
}

// traceCoroutineStack visits every live value and frame-referenced
// object on a coroutine's stack: the roots reachable transitively
// through a suspended coroutine.
func traceCoroutineStack(s *CoroutineStack, visit func(Value)) {
	if s == nil {
		return
	}
	for _, v := range s.values {
		visit(v)
	}
	for i := range s.frames {
		f := &s.frames[i]
		switch f.kind {
		case FrameCode:
			if f.tmpl != nil {
				visit(Value{kind: kindCodeFunctionTemplate, obj: f.tmpl})
			}
			if f.closure != nil {
				visit(Value{kind: kindEnvironment, obj: f.closure})
			}
			if f.currentException != nil {
				visit(Value{kind: KindException, obj: f.currentException})
			}
		case FrameSync, FrameAsync, FrameResumable:
			if f.nativeFunc != nil {
				visit(Value{kind: kindNativeFunction, obj: f.nativeFunc})
			}
			visit(f.returnOrExc)
			visit(f.invokeFunc)
			if f.invokeArgs != nil {
				visit(Value{kind: KindTuple, obj: f.invokeArgs})
			}
		case FrameCatch:
			if f.caughtException != nil {
				visit(Value{kind: KindException, obj: f.caughtException})
			}
		}
	}
}

// NewCoroutine allocates a coroutine named `name` that will invoke
// function(arguments...) when first run. arguments may be nil for a
// niladic call.
func (vm *VM) NewCoroutine(name Value, function Value, arguments []Value) Value {
	stack := newCoroutineStack(vm.opts.InitialStackSize)
	for _, a := range arguments {
		stack.PushValue(a)
	}
	if err := vm.pushCall(stack, function, len(arguments), 0); err != nil {
		stack.pendingError = valueOfError(err)
	}

	obj := vm.heap.allocObject(&internalCoroutine, &coroutinePayload{
		name:  name,
		stack: stack,
		state: CoroutineNew,
	})
	return Value{kind: KindCoroutine, obj: obj}
}

func (v Value) CoroutineState() CoroutineState {
	mustKind(v, KindCoroutine)
	return v.obj.payload.(*coroutinePayload).state
}

func (v Value) coroutinePayload() *coroutinePayload {
	return v.obj.payload.(*coroutinePayload)
}

func (v Value) setCoroutineState(s CoroutineState) {
	v.coroutinePayload().state = s
}

// CoroutineResult returns the coroutine's terminal Result and an error
// if the coroutine has not finished yet.
func (v Value) CoroutineResult() (Value, error) {
	cp := v.coroutinePayload()
	if cp.state != CoroutineDone {
		return Value{}, newError(ErrCodeBadState, ErrBadState, "coroutine has not completed")
	}
	return cp.result, nil
}

// CoroutineOnDone registers callback to be invoked (with the
// coroutine's own Value) once it finishes, supporting both immediate
// and deferred registration.
func (v Value) CoroutineOnDone(callback Value) {
	cp := v.coroutinePayload()
	cp.onDone = append(cp.onDone, callback)
}

// coroutineTokenPayload is a single-use resumption capability handed
// to a native function when its coroutine suspends, matching the
// original's contract that resuming a coroutine twice with the same
// token is a usage error.
type coroutineTokenPayload struct {
	coroutine *heapObject
	used      bool
}

var internalCoroutineToken = InternalType{
	name: kindCoroutineToken, publicKind: kindCoroutineToken,
	trace: func(p any, visit func(Value)) {
		tok := p.(*coroutineTokenPayload)
		visit(Value{kind: KindCoroutine, obj: tok.coroutine})
	},
}

// newCoroutineToken mints the resumption token for a coroutine that is
// about to suspend on an async/resumable native call.
func (vm *VM) newCoroutineToken(co Value) Value {
	tok := &coroutineTokenPayload{coroutine: co.obj}
	co.coroutinePayload().token = tok
	obj := vm.heap.allocObject(&internalCoroutineToken, tok)
	return Value{kind: kindCoroutineToken, obj: obj}
}

// ResumeWith resumes the token's coroutine with result, re-enqueueing
// it on the scheduler's ready queue. Using an already-used token
// reports ErrBadState.
func (vm *VM) ResumeWith(token Value, result Value) error {
	mustKind(token, kindCoroutineToken)
	tok := token.obj.payload.(*coroutineTokenPayload)
	if tok.used {
		return newError(ErrCodeBadState, ErrBadState, "coroutine token has already been used")
	}
	tok.used = true

	co := Value{kind: KindCoroutine, obj: tok.coroutine}
	cp := co.coroutinePayload()
	f := cp.stack.TopFrame()
	if f != nil {
		f.returnOrExc = result
		f.flags |= FrameAsyncResumed
	}
	cp.token = nil
	co.setCoroutineState(CoroutineReady)
	vm.sched.enqueue(co)
	return nil
}

// PanicWith resumes the token's coroutine by unwinding its async frame
// with exc rather than delivering a return value: the host must
// eventually call ResumeWith or PanicWith on a suspended frame's token,
// at most once. Using an already-used token reports ErrBadState.
func (vm *VM) PanicWith(token Value, exc Value) error {
	mustKind(token, kindCoroutineToken)
	tok := token.obj.payload.(*coroutineTokenPayload)
	if tok.used {
		return newError(ErrCodeBadState, ErrBadState, "coroutine token has already been used")
	}
	tok.used = true

	co := Value{kind: KindCoroutine, obj: tok.coroutine}
	cp := co.coroutinePayload()
	f := cp.stack.TopFrame()
	if f != nil {
		f.returnOrExc = exc
		f.flags |= FrameAsyncResumed | FrameUnwinding
	}
	cp.token = nil
	co.setCoroutineState(CoroutineReady)
	vm.sched.enqueue(co)
	return nil
}
