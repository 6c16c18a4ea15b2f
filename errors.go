// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

import (
	"errors"
	"fmt"
)

// ErrCode is the fixed error taxonomy exposed to embedders.
// Static, code-only errors (the package-level ErrXxx sentinels below) are
// distinguished from dynamic errors that carry a heap-allocated detail
// message, so that code-only checks via errors.Is stay allocation-free
// on the hot path.
type ErrCode uint8

const (
	ErrCodeOK ErrCode = iota
	ErrCodeBadState
	ErrCodeBadArg
	ErrCodeBadSource
	ErrCodeBadType
	ErrCodeBadKey
	ErrCodeModuleExists
	ErrCodeModuleNotFound
	ErrCodeExportNotFound
	ErrCodeOutOfBounds
	ErrCodeAlloc
	ErrCodeInternal
)

func (c ErrCode) String() string {
	switch c {
	case ErrCodeOK:
		return "OK"
	case ErrCodeBadState:
		return "BAD_STATE"
	case ErrCodeBadArg:
		return "BAD_ARG"
	case ErrCodeBadSource:
		return "BAD_SOURCE"
	case ErrCodeBadType:
		return "BAD_TYPE"
	case ErrCodeBadKey:
		return "BAD_KEY"
	case ErrCodeModuleExists:
		return "MODULE_EXISTS"
	case ErrCodeModuleNotFound:
		return "MODULE_NOT_FOUND"
	case ErrCodeExportNotFound:
		return "EXPORT_NOT_FOUND"
	case ErrCodeOutOfBounds:
		return "OUT_OF_BOUNDS"
	case ErrCodeAlloc:
		return "ALLOC"
	default:
		return "INTERNAL"
	}
}

// Static sentinel errors: one per error code, with a stable shared
// message. Grounded on the teacher's helper.go pattern of package-level
// `var ErrXxx = errors.New(...)` sentinels that callers match with
// errors.Is, rather than ad-hoc formatted strings at each call site.
var (
	ErrBadState       = errors.New("tiro: object is not in the required state for this operation")
	ErrBadArg         = errors.New("tiro: invalid argument")
	ErrBadSource      = errors.New("tiro: source failed to parse or type-check")
	ErrBadType        = errors.New("tiro: operation is not supported on this value's type")
	ErrBadKey         = errors.New("tiro: key not present")
	ErrModuleExists   = errors.New("tiro: module name already registered")
	ErrModuleNotFound = errors.New("tiro: referenced module is not loaded")
	ErrExportNotFound = errors.New("tiro: module does not export that name")
	ErrOutOfBounds    = errors.New("tiro: index outside container bounds")
	ErrAlloc          = errors.New("tiro: allocation failed or max heap size exceeded")
	ErrInternal       = errors.New("tiro: internal invariant violation")
)

// codeError pairs a static sentinel with a dynamic detail message and
// an ErrCode, implementing the embedding boundary's "error code plus
// optional detail" contract.
type codeError struct {
	code   ErrCode
	static error
	detail string
}

func (e *codeError) Error() string {
	if e.detail == "" {
		return e.static.Error()
	}
	return fmt.Sprintf("%s: %s", e.static.Error(), e.detail)
}

func (e *codeError) Unwrap() error { return e.static }

func (e *codeError) Code() ErrCode { return e.code }

func newError(code ErrCode, static error, format string, args ...any) error {
	detail := ""
	if format != "" {
		detail = fmt.Sprintf(format, args...)
	}
	return &codeError{code: code, static: static, detail: detail}
}

// CodeOf extracts the ErrCode carried by an error produced by this
// package, defaulting to ErrCodeInternal for foreign errors.
func CodeOf(err error) ErrCode {
	if err == nil {
		return ErrCodeOK
	}
	var ce *codeError
	if errors.As(err, &ce) {
		return ce.code
	}
	return ErrCodeInternal
}

// panicValue is the internal control-flow type used by the interpreter
// to unwind the coroutine stack. It
// wraps the Value (normally an Exception) that is propagated to the
// nearest Catch frame or the coroutine boundary; it is never returned
// to embedding API callers directly.
type panicValue struct {
	value Value
}

func (p panicValue) Error() string {
	return "tiro: uncaught panic propagating through the interpreter"
}
