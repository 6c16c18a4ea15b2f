// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

import (
	"sync"

	"golang.org/x/sys/unix"
)

// pageArena is the backing store for page mark bitmaps. Go does not let
// the runtime safely reinterpret arbitrary
// bytes as arbitrary GC-traced pointer types, so this collector cannot
// do what the reference C++ implementation does and place object
// payloads directly inside a raw mmap'd page. Instead, object
// payloads stay ordinary Go-heap-allocated values reached through a
// page's cell table (heap.go), and so does each page's free list,
// while the mark-bitmap bytes — the part that is pure
// bookkeeping and never holds a typed pointer — are anonymous,
// demand-zeroed mappings obtained through golang.org/x/sys/unix.Mmap,
// the same mechanism a native VM would use to carve pages out of the
// address space.
type pageArena struct {
	mu    sync.Mutex
	spans [][]byte
}

func newPageArena() *pageArena { return &pageArena{} }

// allocBitmap returns a zeroed byte slice of the given length backed by
// an anonymous mmap mapping, rounded up to the system page size.
func (a *pageArena) allocBitmap(n int) []byte {
	if n <= 0 {
		n = 1
	}
	mapped, err := unix.Mmap(-1, 0, roundToSysPage(n), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		// Anonymous mmap only fails under extreme resource exhaustion;
		// fall back to a regular Go allocation rather than propagating
		// a kernel-resource error through an allocation-path API that
		// the rest of the runtime assumes cannot observe OS failures
		// other than ErrAlloc.
		return make([]byte, n)
	}
	a.mu.Lock()
	a.spans = append(a.spans, mapped)
	a.mu.Unlock()
	return mapped[:n]
}

// release unmaps every span this arena owns. Called by Heap.Close /
// VM.Close during teardown.
func (a *pageArena) release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, s := range a.spans {
		_ = unix.Munmap(s)
	}
	a.spans = nil
}

func roundToSysPage(n int) int {
	const sysPage = 4096
	if n <= 0 {
		return sysPage
	}
	return ((n + sysPage - 1) / sysPage) * sysPage
}

// Close releases the OS-level memory backing this heap's page
// bookkeeping. The VM calls this exactly once during Close.
func (h *Heap) Close() {
	h.arena.release()
}
