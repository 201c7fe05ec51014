// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jval

import "unsafe"

// Default slab capacities, in elements.
const (
	valueBlockSize  = 1024
	memberBlockSize = 512
	textBlockSize   = 16384
)

// An Arena is an append-only allocator for the permanent storage of parsed
// values: array elements, object members, and decoded string text. Slices
// returned by an Arena are never reclaimed individually; all of them remain
// valid until the arena is Reset.
//
// The zero Arena is ready for use. An Arena is not safe for concurrent use.
type Arena struct {
	vals slab[Value]
	mems slab[Member]
	text slab[byte]
}

// AllocValues returns a copy of src stored in a.
func (a *Arena) AllocValues(src []Value) []Value { return a.vals.alloc(valueBlockSize, src) }

// AllocMembers returns a copy of src stored in a.
func (a *Arena) AllocMembers(src []Member) []Member { return a.mems.alloc(memberBlockSize, src) }

// AllocText returns a string whose contents are a copy of src stored in a.
func (a *Arena) AllocText(src []byte) string {
	buf := a.text.alloc(textBlockSize, src)
	if len(buf) == 0 {
		return ""
	}
	// The bytes of buf are never written again until a is reset.
	return unsafe.String(unsafe.SliceData(buf), len(buf))
}

// Reset discards all the allocations of a, retaining its memory for reuse.
// Values, members, and text previously allocated from a must not be used
// after Reset, including any Value tree that refers to them.
func (a *Arena) Reset() {
	a.vals.reset()
	a.mems.reset()
	a.text.reset()
}

// ArenaStats records memory statistics for an Arena.
type ArenaStats struct {
	Blocks   int   // number of slab blocks held
	Reserved int64 // bytes of slab capacity held
	Used     int64 // bytes of slab capacity allocated since the last reset
	Large    int64 // bytes allocated outside slabs since the last reset
}

// Stats reports memory statistics for a.
func (a *Arena) Stats() ArenaStats {
	var st ArenaStats
	a.vals.addStats(&st)
	a.mems.addStats(&st)
	a.text.addStats(&st)
	return st
}

// A slab is a list of fixed-capacity blocks of T, filled in order.
type slab[T any] struct {
	blocks [][]T
	cur    int // index of the block being filled
	used   int // elements allocated from blocks since reset
	large  int // elements allocated outside blocks since reset
}

// alloc copies src into a block of s and returns the copy. Blocks have
// capacity size; allocations bigger than a quarter of that are not batched.
// The result has no spare capacity, so appending to it cannot clobber a
// neighbouring allocation.
func (s *slab[T]) alloc(size int, src []T) []T {
	out := s.extend(size, len(src))
	copy(out, src)
	return out
}

// extend returns a zeroed slice of n elements allocated from s.
func (s *slab[T]) extend(size, n int) []T {
	if n == 0 {
		return nil
	} else if n > size/4 {
		s.large += n
		return make([]T, n)
	}

	// Look for a block with space enough to hold n elements.
	for s.cur < len(s.blocks) && cap(s.blocks[s.cur])-len(s.blocks[s.cur]) < n {
		s.cur++
	}
	if s.cur == len(s.blocks) {
		// No block had room; add a new empty one to the slab.
		s.blocks = append(s.blocks, make([]T, 0, size))
	}
	b := s.blocks[s.cur]
	p := len(b)
	b = b[:p+n]
	s.blocks[s.cur] = b
	s.used += n
	return b[p : p+n : p+n]
}

func (s *slab[T]) reset() {
	for i, b := range s.blocks {
		clear(b) // release references held by the old contents
		s.blocks[i] = b[:0]
	}
	s.cur, s.used, s.large = 0, 0, 0
}

func (s *slab[T]) addStats(st *ArenaStats) {
	var zero T
	elt := int64(unsafe.Sizeof(zero))
	st.Blocks += len(s.blocks)
	for _, b := range s.blocks {
		st.Reserved += int64(cap(b)) * elt
	}
	st.Used += int64(s.used) * elt
	st.Large += int64(s.large) * elt
}
