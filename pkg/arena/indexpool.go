// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package arena

// IndexPool is a free-list allocator layered on PackedVector[T]: Insert
// reuses the most recently erased slot (LIFO) before growing the backing
// vector, and Erase returns a slot to the pool without shifting any other
// element, so handles into an IndexPool stay valid across Insert/Erase of
// other records.
//
// The original C FreeList threads the next-free index through the first
// word of an erased record's own storage, trading a parallel free-index
// vector for a constraint that every record type be at least as wide as an
// index. Go's generics can't express "T's first field is an int" as a
// constraint, so IndexPool instead keeps a small parallel stack of free
// indices — the alternative the source's own design notes call out as
// "easier to verify" at a minor space cost. Record types are unconstrained.
type IndexPool[T any] struct {
	records *PackedVector[T]
	free    []int // LIFO stack of erased indices, most recent last
	isFree  []bool
}

// NewIndexPool returns an empty pool.
func NewIndexPool[T any]() *IndexPool[T] {
	return &IndexPool[T]{
		records: NewPackedVector[T](),
	}
}

// Insert stores record, reusing the most recently erased index if one is
// available, and returns its index.
func (p *IndexPool[T]) Insert(record T) int {
	if n := len(p.free); n > 0 {
		i := p.free[n-1]
		p.free = p.free[:n-1]
		p.isFree[i] = false
		p.records.Set(i, record)
		return i
	}
	p.records.PushBack(record)
	p.isFree = append(p.isFree, false)
	return p.records.Len() - 1
}

// Erase returns the slot at i to the pool. Erasing an index that is
// already free is a caller contract violation that Erase does not check
// for (matching the original FreeList's documented TODO): the slot is
// pushed onto the free stack twice, so two later Inserts return the same
// index. Callers that need the guard can check IsFree first, which is an
// O(1) lookup.
func (p *IndexPool[T]) Erase(i int) {
	p.isFree[i] = true
	p.free = append(p.free, i)
}

// GetRef returns a pointer to the record at i. Invalidated by any later
// mutating call on the pool (see PackedVector's reference hazard).
func (p *IndexPool[T]) GetRef(i int) *T {
	return p.records.GetRef(i)
}

// GetCopy returns a copy of the record at i.
func (p *IndexPool[T]) GetCopy(i int) T {
	return p.records.GetCopy(i)
}

// Set overwrites the record at i in place without changing its free state.
func (p *IndexPool[T]) Set(i int, record T) {
	p.records.Set(i, record)
}

// IsFree reports whether i currently refers to an erased slot.
func (p *IndexPool[T]) IsFree(i int) bool {
	return p.isFree[i]
}

// Len returns the number of slots ever allocated, including erased ones
// (the high-water mark of valid indices).
func (p *IndexPool[T]) Len() int {
	return p.records.Len()
}

// NumFree returns the number of currently-erased, reusable slots.
func (p *IndexPool[T]) NumFree() int {
	return len(p.free)
}

// NumLive returns the number of slots holding a live record.
func (p *IndexPool[T]) NumLive() int {
	return p.Len() - p.NumFree()
}

// Clear empties the pool; all previously issued indices become invalid.
func (p *IndexPool[T]) Clear() {
	p.records.Clear()
	p.free = p.free[:0]
	p.isFree = p.isFree[:0]
}

// Free releases the pool's storage entirely.
func (p *IndexPool[T]) Free() {
	p.records.Free()
	p.free = nil
	p.isFree = nil
}
