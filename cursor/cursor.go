// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements traversal over the structure of a JSON value.
package cursor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/creachadair/jval"
)

// Path traverses a sequential path into the structure of v where path elements
// are as documented for the Cursor.Down method.  This is a convenience wrapper
// for creating a cursor, applying path, and retrieving its value.
func Path(v jval.Value, path ...any) (jval.Value, error) {
	c := New(v).Down(path...)
	if err := c.Err(); err != nil {
		return jval.Value{}, err
	}
	return c.Value(), nil
}

// ParsePath parses a dot-separated path string into path elements suitable
// for Down. Each element that is a valid decimal integer becomes an int
// offset; all others are object keys. An empty string is an empty path.
func ParsePath(s string) []any {
	if s == "" {
		return nil
	}
	var path []any
	for _, elt := range strings.Split(s, ".") {
		if n, err := strconv.Atoi(elt); err == nil {
			path = append(path, n)
		} else {
			path = append(path, elt)
		}
	}
	return path
}

// A Cursor is a pointer that navigates into the structure of a jval.Value.
type Cursor struct {
	org jval.Value
	stk []jval.Value
	err error
}

// New constructs a new Cursor to traverse the structure of origin.
func New(origin jval.Value) *Cursor { return &Cursor{org: origin} }

// Origin returns the origin value of c.
func (c *Cursor) Origin() jval.Value { return c.org }

// AtOrigin reports whether c is at its origin.
func (c *Cursor) AtOrigin() bool { return len(c.stk) == 0 }

// Value reports the current value under the cursor.
func (c *Cursor) Value() jval.Value {
	if c.AtOrigin() {
		return c.org
	}
	return c.stk[len(c.stk)-1]
}

// Path reports the complete sequence of values from the origin to the current
// location in c.
func (c *Cursor) Path() []jval.Value {
	return append([]jval.Value{c.org}, c.stk...)
}

// Err reports the error from the most recent traversal operation, if any.
func (c *Cursor) Err() error { return c.err }

// Up moves the cursor one position upward in the structure, if possible.
// It returns c to permit chaining.
func (c *Cursor) Up() *Cursor {
	if n := len(c.stk); n > 0 {
		c.stk = c.stk[:n-1]
	}
	return c
}

// Reset resets the cursor to its origin and clears its error.
func (c *Cursor) Reset() { c.stk = c.stk[:0]; c.err = nil }

// Down traverses a sequential path into the structure of c starting from the
// current value, where path elements are either strings (denoting object
// keys), integers (denoting offsets into arrays or objects), or functions (see
// below).  If the path is valid, the element reached is returned. If the path
// cannot be completely consumed, traversal stops and an error is recorded. Use
// Err to recover the error.
//
// If a path element is a string, the corresponding value must be an object,
// and the string resolves to the value of the first object member with that
// key.
//
// If a path element is an integer, the corresponding value must be an array or
// object, and the integer resolves to an index in the array or object.
// Negative indices count backward from the end (-1 is last, -2 second last).
// An error is reported if the index is out of bounds.
//
// If a path element is a function, the function is executed and its result
// becomes the next value in the sequence. The function must have a signature
//
//	func(jval.Value) (jval.Value, error)
//
// If the function reports an error, traversal stops and the error is recorded.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil // reset error
	cur := c.Value()
	for _, elt := range path {
		switch t := elt.(type) {
		case string:
			if cur.Kind() != jval.ObjectValue {
				return c.setErrorf("cannot traverse %v with %q", cur.Kind(), t)
			}
			v, ok := cur.Find(t)
			if !ok {
				return c.setErrorf("key %q not found", t)
			}
			cur = c.push(v)

		case int:
			switch k := cur.Kind(); k {
			case jval.ArrayValue, jval.ObjectValue:
				i, ok := fixArrayBound(cur.Len(), t)
				if !ok {
					return c.setErrorf("%v index %d out of bounds (n=%d)", k, i, cur.Len())
				}
				cur = c.push(cur.Index(i))
			default:
				return c.setErrorf("cannot traverse %v with %v", k, t)
			}

		case func(jval.Value) (jval.Value, error):
			next, err := t(cur)
			if err != nil {
				c.err = err
				return c
			}
			cur = c.push(next)

		default:
			return c.setErrorf("invalid path element %T", elt)
		}
	}
	return c
}

func (c *Cursor) push(v jval.Value) jval.Value { c.stk = append(c.stk, v); return v }

func (c *Cursor) setErrorf(msg string, args ...any) *Cursor {
	c.err = fmt.Errorf(msg, args...)
	return c
}

func fixArrayBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
