// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

import (
	kratoslog "github.com/go-kratos/kratos/v2/log"
)

// Logger is the structured logging surface the VM calls into for GC,
// scheduler and interpreter diagnostics. Grounded on the teacher's
// *log.Helper field threaded through pe.File via pe.Options: rather
// than a package-level global, every VM instance owns its own logger.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// kratosLogger adapts github.com/go-kratos/kratos/v2/log.Helper — the
// same logging facade the teacher's *log.Helper field is an instance
// of — to the Logger interface above.
type kratosLogger struct {
	h *kratoslog.Helper
}

// NewLogger wraps a kratos log.Logger (use kratoslog.DefaultLogger for
// stderr output, or kratoslog.NewStdLogger(io.Discard) for silence).
func NewLogger(l kratoslog.Logger) Logger {
	return &kratosLogger{h: kratoslog.NewHelper(l)}
}

func (k *kratosLogger) Debugf(format string, args ...any) { k.h.Debugf(format, args...) }
func (k *kratosLogger) Infof(format string, args ...any)  { k.h.Infof(format, args...) }
func (k *kratosLogger) Warnf(format string, args ...any)  { k.h.Warnf(format, args...) }
func (k *kratosLogger) Errorf(format string, args ...any) { k.h.Errorf(format, args...) }

type discardLogger struct{}

func (discardLogger) Debugf(string, ...any) {}
func (discardLogger) Infof(string, ...any)  {}
func (discardLogger) Warnf(string, ...any)  {}
func (discardLogger) Errorf(string, ...any) {}

// StdoutSink receives bytes written by std.print. Embedders supply
// their own to capture or redirect output instead of the runtime
// writing to os.Stdout directly.
type StdoutSink func(s string)

// Options configures a VM instance, grounded on the teacher's
// pe.Options struct (passed into pe.New/pe.NewBytes/pe.NewFile) rather
// than package-level tunables.
type Options struct {
	// PageSize is the heap's allocation page size; rounded to a power
	// of two in [MinPageSize, MaxPageSize]. Zero selects DefaultPageSize.
	PageSize uintptr

	// MaxHeapSize caps total heap bytes in use; zero selects
	// DefaultMaxHeapSize, UnboundedHeapSize disables the cap.
	MaxHeapSize uintptr

	// InitialStackSize and MaxStackSize bound every coroutine's stack
	// buffer.
	InitialStackSize uintptr
	MaxStackSize     uintptr

	// EnablePanicStackTrace toggles capture of a textual stack trace
	// when a panic unwinds to the coroutine boundary.
	EnablePanicStackTrace bool

	// Logger receives structured diagnostics; defaults to a discarding
	// logger when nil.
	Logger Logger

	// Stdout receives output written by the std module's print
	// function; defaults to no-op when nil.
	Stdout StdoutSink
}

func (o Options) withDefaults() Options {
	if o.PageSize == 0 {
		o.PageSize = DefaultPageSize
	}
	if o.MaxHeapSize == 0 {
		o.MaxHeapSize = DefaultMaxHeapSize
	}
	if o.InitialStackSize == 0 {
		o.InitialStackSize = initialStackSize
	}
	if o.MaxStackSize == 0 {
		o.MaxStackSize = maxStackSize
	}
	if o.Logger == nil {
		o.Logger = discardLogger{}
	}
	if o.Stdout == nil {
		o.Stdout = func(string) {}
	}
	return o
}
