// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jval

// A scratch stack holds the completed children of every open array and object
// during a parse. The children of one container occupy a contiguous frame of
// the stack, beginning at the length of the stack when the container opened.
// Frames are drained in LIFO order as their containers close.
type scratch struct {
	buf []entry
}

// An entry is one child of an open container. Array elements have no key.
type entry struct {
	key   string
	keyed bool
	val   Value
}

// base returns the base offset of a new frame.
func (s *scratch) base() int { return len(s.buf) }

// push adds a child to the innermost frame.
func (s *scratch) push(key string, keyed bool, v Value) {
	s.buf = append(s.buf, entry{key: key, keyed: keyed, val: v})
}

// frame returns the entries of the frame beginning at base, after checking
// that base is the newest frame.
func (s *scratch) frame(base int) []entry {
	if base > len(s.buf) {
		panic("jval: scratch frame drained out of order")
	}
	return s.buf[base:]
}

// truncate discards the frame beginning at base.
func (s *scratch) truncate(base int) {
	clear(s.buf[base:]) // release references to drained values
	s.buf = s.buf[:base]
}

// drainValues moves the values of the frame at base into a, in order, and
// discards the frame.
func (s *scratch) drainValues(base int, a *Arena) []Value {
	f := s.frame(base)
	out := a.vals.extend(valueBlockSize, len(f))
	for i, e := range f {
		out[i] = e.val
	}
	s.truncate(base)
	return out
}

// drainMembers moves the keyed entries of the frame at base into a, in order,
// and discards the frame.
func (s *scratch) drainMembers(base int, a *Arena) []Member {
	f := s.frame(base)
	out := a.mems.extend(memberBlockSize, len(f))
	for i, e := range f {
		if !e.keyed {
			panic("jval: unkeyed entry in object frame")
		}
		out[i] = Member{Key: e.key, Value: e.val}
	}
	s.truncate(base)
	return out
}

// reset discards all frames.
func (s *scratch) reset() { s.truncate(0) }
