// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jval

import (
	"bytes"
	"fmt"
)

// A Span describes a contiguous span of a source input.
type Span struct {
	Pos int // the start offset, 0-based
	End int // the end offset, 0-based (noninclusive)
}

// Len reports the length of s in bytes.
func (s Span) Len() int { return s.End - s.Pos }

func (s Span) String() string { return fmt.Sprintf("%d-%d", s.Pos, s.End) }

// A LineCol describes the line number and column offset of a location in
// source text.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 0-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// A Location describes the complete location of a range of source text,
// including line and column offsets.
type Location struct {
	Span
	First, Last LineCol
}

func (loc Location) String() string {
	if loc.First.Line == loc.Last.Line {
		return fmt.Sprintf("%s-%d", loc.First, loc.Last.Column)
	}
	return fmt.Sprintf("%s-%s", loc.First, loc.Last)
}

// Locate returns the complete location of span in src. Offsets beyond the end
// of src are clamped to its length.
func Locate(src []byte, span Span) Location {
	pos := min(max(span.Pos, 0), len(src))
	end := min(max(span.End, pos), len(src))
	first := lineCol(src, pos)
	return Location{
		Span:  Span{Pos: pos, End: end},
		First: first,
		Last:  advanceLineCol(src[pos:end], first),
	}
}

func lineCol(src []byte, pos int) LineCol {
	return advanceLineCol(src[:pos], LineCol{Line: 1})
}

// advanceLineCol returns the position reached from lc after consuming text.
func advanceLineCol(text []byte, lc LineCol) LineCol {
	if n := bytes.Count(text, []byte("\n")); n > 0 {
		lc.Line += n
		lc.Column = len(text) - bytes.LastIndexByte(text, '\n') - 1
	} else {
		lc.Column += len(text)
	}
	return lc
}

// LineText returns the complete text of the line containing offset pos in
// src, without its line terminator, along with the offset where the line
// begins.
func LineText(src []byte, pos int) (line []byte, start int) {
	pos = min(max(pos, 0), len(src))
	start = bytes.LastIndexByte(src[:pos], '\n') + 1
	end := bytes.IndexByte(src[pos:], '\n')
	if end < 0 {
		end = len(src)
	} else {
		end += pos
	}
	return bytes.TrimSuffix(src[start:end], []byte("\r")), start
}
