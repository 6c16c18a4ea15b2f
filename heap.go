// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

import "fmt"

const (
	// MinPageSize and MaxPageSize bound the configurable page size.
	MinPageSize = 1 << 16
	MaxPageSize = 1 << 24
	// DefaultPageSize is the sane default applied when no explicit
	// page size is configured.
	DefaultPageSize = 1 << 20

	// defaultCellSize is the allocation granularity, typically 16
	// bytes.
	defaultCellSize = 16

	// DefaultMaxHeapSize is the sane non-zero default cap on total
	// bytes used.
	DefaultMaxHeapSize = 256 << 20

	// UnboundedHeapSize disables the cap, mirroring SIZE_MAX semantics.
	UnboundedHeapSize = ^uintptr(0)
)

// Heap is the page-based managed allocator. Small objects are
// allocated into fixed-size pages that carry a mark bitmap and free
// list; large objects live in individually-tracked side-list entries
// and are, like everything in this collector, never relocated —
// this preserves Buffer and NativeObject payload pointers between
// collections.
type Heap struct {
	pageSize     uintptr
	cellsPerPage int
	maxHeapSize  uintptr
	usedBytes    uintptr
	gcThreshold  uintptr

	pages        []*page
	largeObjects []*heapObject

	// rootsFn enumerates every GC root when invoked: intrinsics,
	// global/local handles, the ready queue and the suspend set.
	// Supplied by the owning VM; this is the only place the collector
	// must enumerate mutator state.
	rootsFn func(visit func(Value))

	logger  Logger
	stats   HeapStats
	arena   *pageArena // mmap-backed accounting storage, see heap_pages.go
	gcCount uint64
}

// HeapStats reports allocator/collector counters, surfaced through the
// embedding API for diagnostics.
type HeapStats struct {
	BytesUsed     uintptr
	PagesInUse    int
	LargeObjects  int
	Collections   uint64
	LastFreed     uintptr
	LastSurviving uintptr
}

// NewHeap constructs a heap with the given page size (clamped to
// [MinPageSize, MaxPageSize] and rounded up to a power of two) and max
// size cap.
func NewHeap(pageSize, maxHeapSize uintptr, logger Logger) *Heap {
	pageSize = clampPageSize(pageSize)
	if maxHeapSize == 0 {
		maxHeapSize = DefaultMaxHeapSize
	}
	h := &Heap{
		pageSize:     pageSize,
		cellsPerPage: int(pageSize / defaultCellSize),
		maxHeapSize:  maxHeapSize,
		gcThreshold:  pageSize * 2,
		logger:       logger,
		arena:        newPageArena(),
	}
	return h
}

func clampPageSize(n uintptr) uintptr {
	if n == 0 {
		return DefaultPageSize
	}
	if n < MinPageSize {
		n = MinPageSize
	}
	if n > MaxPageSize {
		n = MaxPageSize
	}
	return nextPow2(n)
}

func nextPow2(n uintptr) uintptr {
	p := uintptr(1)
	for p < n {
		p <<= 1
	}
	return p
}

// largeObjectThreshold: an object whose accounted size exceeds half a
// page is allocated as a large object.
func (h *Heap) largeObjectThreshold() uintptr { return h.pageSize / 2 }

// page is a fixed-size allocation arena with a mark bitmap and free
// list. The cell table holds the actual Go-heap-resident *heapObject
// pointers; see heap_pages.go for why the "raw bytes" of the page are
// only used for the mark bitmap rather than object storage itself.
type page struct {
	cells     []*heapObject
	freeList  []int
	markBits  []byte // one bit per cell, backed by mmap'd memory
	used      int
	cellBytes uintptr
}

func (h *Heap) newPage() *page {
	p := &page{
		cells:     make([]*heapObject, h.cellsPerPage),
		markBits:  h.arena.allocBitmap((h.cellsPerPage + 7) / 8),
		cellBytes: defaultCellSize,
	}
	p.freeList = make([]int, h.cellsPerPage)
	for i := range p.freeList {
		p.freeList[i] = h.cellsPerPage - 1 - i
	}
	h.pages = append(h.pages, p)
	return p
}

func (p *page) setMark(idx int, v bool) {
	byteIdx, bit := idx/8, uint(idx%8)
	if v {
		p.markBits[byteIdx] |= 1 << bit
	} else {
		p.markBits[byteIdx] &^= 1 << bit
	}
}

func (p *page) mark(idx int) bool {
	byteIdx, bit := idx/8, uint(idx%8)
	return p.markBits[byteIdx]&(1<<bit) != 0
}

// allocObject allocates a heap object of the given internal type with
// the given payload, triggering a collection if the allocation would
// exceed the floating GC threshold, and failing by panicking with
// ErrAlloc if max_heap_size is still exceeded afterwards.
func (h *Heap) allocObject(typ *InternalType, payload any) *heapObject {
	size := defaultCellSize
	if typ.size != nil {
		size = int(typ.size(payload))
		if size < defaultCellSize {
			size = defaultCellSize
		}
	}

	if h.usedBytes+uintptr(size) > h.gcThreshold {
		h.Collect()
	}
	if h.usedBytes+uintptr(size) > h.maxHeapSize {
		h.Collect()
		if h.usedBytes+uintptr(size) > h.maxHeapSize {
			panic(newError(ErrCodeAlloc, ErrAlloc, "requested %d bytes, %d in use, max %d", size, h.usedBytes, h.maxHeapSize))
		}
	}

	obj := &heapObject{typ: typ, payload: payload}

	if uintptr(size) > h.largeObjectThreshold() {
		h.largeObjects = append(h.largeObjects, obj)
		h.usedBytes += uintptr(size)
		h.stats.LargeObjects++
		return obj
	}

	pg := h.pageWithFreeCell()
	idx := pg.freeList[len(pg.freeList)-1]
	pg.freeList = pg.freeList[:len(pg.freeList)-1]
	pg.cells[idx] = obj
	pg.used++
	obj.page = pg
	h.usedBytes += uintptr(size)
	return obj
}

func (h *Heap) pageWithFreeCell() *page {
	for _, pg := range h.pages {
		if len(pg.freeList) > 0 {
			return pg
		}
	}
	return h.newPage()
}

func (h *Heap) Stats() HeapStats {
	h.stats.BytesUsed = h.usedBytes
	h.stats.PagesInUse = len(h.pages)
	h.stats.Collections = h.gcCount
	return h.stats
}

func (h *Heap) String() string {
	return fmt.Sprintf("Heap{used=%d pages=%d large=%d max=%d}", h.usedBytes, len(h.pages), len(h.largeObjects), h.maxHeapSize)
}
