// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

// LoadStd registers the built-in "std" module. panic and print exist
// only as the worked example of the native-function interface, not a
// stdlib implementation effort, grounded on
// original_source/src/vm/builtins/std.cpp and modules/std.cpp. Both
// are Sync native functions: neither suspends the calling coroutine.
// catch_panic is grounded on the same file's MagicFunction::Catch
// member: the interpreter's only bytecode-reachable way to push a
// Catch frame.
func (vm *VM) LoadStd() error {
	mod := vm.NewModule("std")

	panicFn := vm.NewNativeSyncFunction("panic", 1, stdPanic)
	printFn := vm.NewNativeSyncFunction("print", 1, stdPrint)
	catchFn := vm.newMagicCatchFunction()

	mod.ModuleExport("panic", panicFn)
	mod.ModuleExport("print", printFn)
	mod.ModuleExport("catch_panic", catchFn)

	return vm.AddModule(mod)
}

// internalMagicCatch backs catch_panic: a zero-payload sentinel value
// that pushCall recognizes and handles by pushing a Catch frame rather
// than dispatching through the ordinary Function/NativeFunction paths.
// Panic catching has no bytecode instruction of its own; the original
// exposes the primitive this way too, as a MagicFunction module member
// rather than a new opcode.
var internalMagicCatch = InternalType{
	name: kindMagicCatch, publicKind: KindFunction,
	trace: func(any, func(Value)) {},
}

func (vm *VM) newMagicCatchFunction() Value {
	obj := vm.heap.allocObject(&internalMagicCatch, nil)
	return Value{kind: kindMagicCatch, obj: obj}
}

func isMagicCatch(v Value) bool { return v.rawKind() == kindMagicCatch }

// stdPanic raises msg as an uncaught exception: `std.panic("nope!")`
// completes the calling coroutine with `Result::Error(Exception)` whose
// `message() == "nope!"`, unless an enclosing Catch frame intercepts it
// first.
func stdPanic(vm *VM, args []Value) (Value, error) {
	msg := vm.ToDisplayString(args[0])
	return Value{}, &panicValue{value: vm.NewException(msg, "")}
}

// stdPrint writes its argument's display form, followed by a newline,
// to the VM's configured Options.Stdout sink. Embedders that never set
// Options.Stdout get a no-op sink by default (options.go's
// withDefaults).
func stdPrint(vm *VM, args []Value) (Value, error) {
	vm.opts.Stdout(vm.ToDisplayString(args[0]) + "\n")
	return Null, nil
}
