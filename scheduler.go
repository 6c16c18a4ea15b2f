// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

// scheduler drives a VM's cooperative coroutines. The
// original links ready coroutines through an intrusive `next_ready`
// field on the Coroutine object itself; this implementation uses a
// plain FIFO slice instead, since nothing here needs the coroutine
// object to carry its own queue pointer and a slice is the idiomatic
// Go equivalent of an intrusive singly-linked queue.
type scheduler struct {
	ready   []Value
	waiting []Value // coroutines currently Waiting, kept so visitRoots keeps them alive
}

func newScheduler() *scheduler {
	return &scheduler{}
}

func (s *scheduler) enqueue(co Value) {
	co.setCoroutineState(CoroutineReady)
	s.ready = append(s.ready, co)
}

func (s *scheduler) hasReady() bool { return len(s.ready) > 0 }

// visitRoots keeps every ready or waiting coroutine alive for the
// collector.
func (s *scheduler) visitRoots(visit func(Value)) {
	for _, co := range s.ready {
		visit(co)
	}
	for _, co := range s.waiting {
		visit(co)
	}
}

// runReady pops the coroutine at the head of the ready queue and runs
// it; callers loop while hasReady so that ready coroutines are
// processed in FIFO order. A coroutine that yields mid-execution is
// parked on s.waiting; one that asks for another turn is appended to
// the back of the ready queue; one that completes invokes its
// completion callbacks before runReady returns.
func (s *scheduler) runReady(vm *VM) {
	if len(s.ready) == 0 {
		return
	}
	co := s.ready[0]
	s.ready = s.ready[1:]

	co.setCoroutineState(CoroutineRunning)
	outcome := vm.runCoroutine(co)

	switch outcome {
	case coroutineYielded:
		co.setCoroutineState(CoroutineWaiting)
		s.waiting = append(s.waiting, co)
	case coroutineFinished:
		s.removeWaiting(co)
		co.setCoroutineState(CoroutineDone)
		vm.completeCoroutine(co)
	case coroutineReadyAgain:
		s.enqueue(co)
	}
}

func (s *scheduler) removeWaiting(co Value) {
	for i, w := range s.waiting {
		if Same(w, co) {
			s.waiting = append(s.waiting[:i], s.waiting[i+1:]...)
			return
		}
	}
}

// completeCoroutine runs every registered completion callback exactly
// once, synchronously, within the current run_ready call.
func (vm *VM) completeCoroutine(co Value) {
	cp := co.coroutinePayload()
	callbacks := cp.onDone
	cp.onDone = nil
	for _, cb := range callbacks {
		vm.invokeCallback(cb, co)
	}
}

// invokeCallback calls a completion callback with the finished
// coroutine as its only argument, discarding any panic it raises
// rather than propagating it into the scheduler loop — completion
// callbacks run outside of any coroutine's own unwinding chain.
func (vm *VM) invokeCallback(cb Value, co Value) {
	if cb.IsNull() {
		return
	}
	defer func() { recover() }()
	tmp := vm.NewCoroutine(vm.NewString("__on_done__"), cb, []Value{co})
	vm.sched.enqueue(tmp)
	for vm.sched.hasReady() {
		vm.sched.runReady(vm)
	}
}
