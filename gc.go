// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package tiro

// Collect runs one full precise mark-and-sweep cycle. The collector
// never relocates objects; every
// InternalType supplies a trace function acting as the "layout trait"
// that enumerates Value-typed slots.
func (h *Heap) Collect() {
	h.gcCount++

	worklist := make([]*heapObject, 0, 64)
	visit := func(v Value) {
		if v.obj == nil || v.obj.marked {
			return
		}
		v.obj.marked = true
		worklist = append(worklist, v.obj)
	}

	// Step 1: visit every root. This is the only place the GC
	// enumerates mutator state.
	if h.rootsFn != nil {
		h.rootsFn(visit)
	}

	// Step 2: transitive closure over reachable objects' layout traits.
	for len(worklist) > 0 {
		obj := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		if obj.typ.trace != nil {
			obj.typ.trace(obj.payload, visit)
		}
	}

	// Step 3+4: sweep pages and the large-object side table, running
	// finalizers and rebuilding free lists.
	var freed, surviving uintptr
	for _, pg := range h.pages {
		for idx, obj := range pg.cells {
			if obj == nil {
				continue
			}
			if obj.marked {
				obj.marked = false
				surviving += cellSize(obj)
				continue
			}
			if obj.typ.finalize != nil {
				obj.typ.finalize(obj.payload)
			}
			freed += cellSize(obj)
			pg.cells[idx] = nil
			pg.used--
			pg.freeList = append(pg.freeList, idx)
		}
	}

	kept := h.largeObjects[:0]
	for _, obj := range h.largeObjects {
		if obj.marked {
			obj.marked = false
			surviving += cellSize(obj)
			kept = append(kept, obj)
			continue
		}
		if obj.typ.finalize != nil {
			obj.typ.finalize(obj.payload)
		}
		freed += cellSize(obj)
	}
	h.largeObjects = kept

	if freed > h.usedBytes {
		h.usedBytes = 0
	} else {
		h.usedBytes -= freed
	}
	h.stats.LastFreed = freed
	h.stats.LastSurviving = surviving

	// The threshold floats between collections: grow it proportionally
	// to the surviving set so that a heap with a large live set doesn't
	// thrash, but a small one still collects promptly.
	h.gcThreshold = surviving*2 + h.pageSize
	if h.logger != nil {
		h.logger.Debugf("gc: collection #%d freed=%d surviving=%d next_threshold=%d", h.gcCount, freed, surviving, h.gcThreshold)
	}
}

func cellSize(obj *heapObject) uintptr {
	if obj.typ.size != nil {
		if s := obj.typ.size(obj.payload); s > 0 {
			return s
		}
	}
	return defaultCellSize
}
