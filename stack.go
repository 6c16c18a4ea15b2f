// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

// initialStackSize and maxStackSize bound a coroutine's value/frame
// stack. Sizes are
// expressed in the same notional bytes the original implementation
// uses (16 bytes per Value-sized stack cell), even though this stack
// is backed by ordinary Go slices rather than a raw byte buffer.
const (
	initialStackSize uintptr = 1 << 9
	maxStackSize     uintptr = 1 << 24
	stackCellBytes   uintptr = 16
)

// FrameType tags which of the five call-frame shapes a frame record
// holds, grounded on
// original_source/src/vm/objects/coroutine_stack.hpp's FrameType.
type FrameType uint8

const (
	FrameCode FrameType = iota
	FrameSync
	FrameAsync
	FrameResumable
	FrameCatch
)

func (t FrameType) String() string {
	switch t {
	case FrameCode:
		return "code"
	case FrameSync:
		return "sync"
	case FrameAsync:
		return "async"
	case FrameResumable:
		return "resumable"
	case FrameCatch:
		return "catch"
	default:
		return "unknown"
	}
}

// FrameFlags mirrors the original's FrameFlags bitset. One bit
// position (1 << 2) is reused by the mutually exclusive Catch, Async
// and Resumable frame kinds, exactly as the original does.
type FrameFlags uint8

const (
	FramePopOneMore    FrameFlags = 1 << 0
	FrameUnwinding     FrameFlags = 1 << 1
	FrameCatchStarted  FrameFlags = 1 << 2 // Catch frames only
	FrameAsyncCalled   FrameFlags = 1 << 2 // Async frames only
	FrameAsyncResumed  FrameFlags = 1 << 3 // Async frames only
	FrameResumableInvoke FrameFlags = 1 << 2 // Resumable frames only
)

// Well-known ResumableFrame states (original's ResumableFrame::WellKnownState).
const (
	ResumableStart   = 0
	ResumableEnd     = -1
	ResumableCleanup = -2
)

// frameRecord is a call frame. Unlike the original's inheritance
// hierarchy of differently-sized structs packed into a raw byte
// buffer, frameRecord is one flat struct covering every FrameType's
// fields and callers are linked by index rather than pointer: growing
// the stack's backing slices never needs to adjust a `caller` pointer,
// since indices stay valid across a slice reallocation (documented
// open-question resolution — Go gives up the original's compact
// per-kind frame layout in exchange for never needing pointer fixups
// on grow).
type frameRecord struct {
	kind  FrameType
	flags FrameFlags

	argsBase  int
	argsCount int

	localsBase  int
	localsCount int

	valuesBase int // index into stack.values where this frame's temp stack begins

	callerIdx int // index into stack.frames, -1 for the first frame

	// Code frame
	tmpl             *heapObject // CodeFunctionTemplate
	closure          *heapObject // Environment, nil
	currentException *heapObject // Exception, set while FrameUnwinding
	pc               int         // index into tmpl's instruction stream

	// Sync/Async/Resumable frame
	nativeFunc    *heapObject // NativeFunction
	returnOrExc   Value
	invokeFunc    Value
	invokeArgs    *heapObject // Tuple, nil
	resumableState int

	// Catch frame
	caughtException *heapObject
}

// CoroutineStack is a coroutine's combined call-frame and value stack.
// Frames and plain values share one growable address space
// conceptually, modeled here as two parallel slices (frames, values)
// that grow together.
type CoroutineStack struct {
	frames []frameRecord
	values []Value

	topFrame int // index of the active frame in `frames`, -1 if none

	objectSize uintptr // notional byte size, for grow/overflow accounting

	// pendingError is set by unwind when a panic reaches the bottom of
	// the stack with no Catch frame to intercept it: an uncaught panic
	// at the outermost frame completes the coroutine with
	// Result::Error(exception).
	pendingError Value
}

func newCoroutineStack(size uintptr) *CoroutineStack {
	if size < initialStackSize {
		size = initialStackSize
	}
	cap := int(size / stackCellBytes)
	return &CoroutineStack{
		frames:       make([]frameRecord, 0, 8),
		values:       make([]Value, 0, cap),
		topFrame:     -1,
		objectSize:   size,
		pendingError: Null,
	}
}

// grow returns a new stack with double the capacity (clamped to
// maxSize), containing exactly the same frames/values. Since frames
// link by index, copying both slices verbatim is sufficient — there
// is no pointer-fixup pass (contrast with the original's
// CoroutineStack::grow, which must reinterpret the old layout's
// embedded pointers into the new buffer).
func (s *CoroutineStack) grow(maxSize uintptr) (*CoroutineStack, bool) {
	newSize := s.objectSize * 2
	if newSize > maxSize {
		newSize = maxSize
	}
	if newSize <= s.objectSize {
		return nil, false
	}
	ns := &CoroutineStack{
		frames:       make([]frameRecord, len(s.frames), cap(s.frames)*2),
		values:       make([]Value, len(s.values), int(newSize/stackCellBytes)),
		topFrame:     s.topFrame,
		objectSize:   newSize,
		pendingError: s.pendingError,
	}
	copy(ns.frames, s.frames)
	copy(ns.values, s.values)
	return ns, true
}

func (s *CoroutineStack) valueCapacityRemaining() int {
	return cap(s.values) - len(s.values)
}

func (s *CoroutineStack) TopFrame() *frameRecord {
	if s.topFrame < 0 {
		return nil
	}
	return &s.frames[s.topFrame]
}

// PopFrame removes the active frame, truncating the value stack back
// to where the frame's arguments began: returning from a call discards
// its locals and temporaries.
func (s *CoroutineStack) PopFrame() {
	f := s.frames[s.topFrame]
	s.values = s.values[:f.argsBase]
	s.frames = s.frames[:s.topFrame]
	s.topFrame = f.callerIdx
}

func (s *CoroutineStack) pushFrameCommon(kind FrameType, flags FrameFlags, argc, locals int) *frameRecord {
	argsBase := len(s.values) - argc
	valuesBase := len(s.values)
	for i := 0; i < locals; i++ {
		s.values = append(s.values, Null)
	}
	f := frameRecord{
		kind:        kind,
		flags:       flags,
		argsBase:    argsBase,
		argsCount:   argc,
		localsBase:  valuesBase,
		localsCount: locals,
		valuesBase:  valuesBase + locals,
		callerIdx:   s.topFrame,
	}
	s.frames = append(s.frames, f)
	s.topFrame = len(s.frames) - 1
	return &s.frames[s.topFrame]
}

// PushCodeFrame pushes a frame for a call into user bytecode.
func (s *CoroutineStack) PushCodeFrame(tmplObj *heapObject, closure *heapObject, argc int, flags FrameFlags) *frameRecord {
	tmpl := tmplObj.payload.(*codeFunctionTemplatePayload)
	f := s.pushFrameCommon(FrameCode, flags, argc, tmpl.localCount)
	f.tmpl = tmplObj
	f.closure = closure
	return f
}

// PushSyncFrame pushes a frame for a blocking native function call.
func (s *CoroutineStack) PushSyncFrame(fn *heapObject, argc int, flags FrameFlags) *frameRecord {
	f := s.pushFrameCommon(FrameSync, flags, argc, 0)
	f.nativeFunc = fn
	return f
}

// PushAsyncFrame pushes a frame for a suspend-once native function
// call.
func (s *CoroutineStack) PushAsyncFrame(fn *heapObject, argc int, flags FrameFlags) *frameRecord {
	f := s.pushFrameCommon(FrameAsync, flags, argc, 0)
	f.nativeFunc = fn
	f.returnOrExc = Null
	return f
}

// PushResumableFrame pushes a frame for a repeatedly-suspendable
// native function call.
func (s *CoroutineStack) PushResumableFrame(fn *heapObject, argc int, flags FrameFlags) *frameRecord {
	locals := fn.payload.(*nativeFunctionPayload).locals
	f := s.pushFrameCommon(FrameResumable, flags, argc, locals)
	f.nativeFunc = fn
	f.returnOrExc = Null
	f.invokeFunc = Null
	f.resumableState = ResumableStart
	return f
}

// PushCatchFrame pushes a primitive panic-handling boundary.
func (s *CoroutineStack) PushCatchFrame(argc int, flags FrameFlags) *frameRecord {
	return s.pushFrameCommon(FrameCatch, flags, argc, 0)
}

func (s *CoroutineStack) Arg(f *frameRecord, idx int) Value   { return s.values[f.argsBase+idx] }
func (s *CoroutineStack) SetArg(f *frameRecord, idx int, v Value) { s.values[f.argsBase+idx] = v }
func (s *CoroutineStack) Local(f *frameRecord, idx int) Value { return s.values[f.localsBase+idx] }
func (s *CoroutineStack) SetLocal(f *frameRecord, idx int, v Value) {
	s.values[f.localsBase+idx] = v
}

func (s *CoroutineStack) PushValue(v Value) bool {
	if len(s.values) >= cap(s.values) {
		return false
	}
	s.values = append(s.values, v)
	return true
}

func (s *CoroutineStack) TopValue() Value { return s.values[len(s.values)-1] }

func (s *CoroutineStack) TopValueN(n int) Value { return s.values[len(s.values)-1-n] }

func (s *CoroutineStack) TopValueCount() int {
	f := s.TopFrame()
	base := 0
	if f != nil {
		base = f.valuesBase
	}
	return len(s.values) - base
}

func (s *CoroutineStack) PopValue() { s.values = s.values[:len(s.values)-1] }

func (s *CoroutineStack) PopValues(n int) { s.values = s.values[:len(s.values)-n] }
