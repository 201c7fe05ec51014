// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

var (
	// ErrInvalidEscape is reported for a backslash followed by a character
	// that is not one of the JSON escapes.
	ErrInvalidEscape = errors.New("invalid escape sequence")

	// ErrInvalidUnicode is reported for a \u escape that is incomplete, is not
	// hexadecimal, or does not denote a Unicode scalar value.
	ErrInvalidUnicode = errors.New("invalid Unicode escape")
)

// Error is the concrete type of errors reported by Unquote.
type Error struct {
	Pos int // offset of the backslash in the input
	Len int // length in bytes of the offending sequence
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("%v (offset %d)", e.Err, e.Pos) }

func (e *Error) Unwrap() error { return e.Err }

// Unquote decodes a byte slice containing the JSON encoding of a string, and
// appends the result to dst. The input must have the enclosing double
// quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents. A surrogate
// pair of \u escapes decodes to a single rune. Unquote reports an error of
// type *Error for an invalid or incomplete escape sequence, including an
// unpaired surrogate half.
func Unquote(dst []byte, src mem.RO) ([]byte, error) {
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		return mem.Append(dst, src), nil
	}

	var pos int // offset of src in the original input
	for {
		dst = mem.Append(dst, src.SliceTo(i))
		pos += i
		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return dst, &Error{Pos: pos, Len: 1, Err: ErrInvalidEscape}
		}

		n := 1 // bytes consumed after the backslash
		switch c := src.At(0); c {
		case '"', '\\', '/':
			dst = append(dst, c)
		case 'b':
			dst = append(dst, '\b')
		case 'f':
			dst = append(dst, '\f')
		case 'n':
			dst = append(dst, '\n')
		case 'r':
			dst = append(dst, '\r')
		case 't':
			dst = append(dst, '\t')
		case 'u':
			r, m, err := decodeUnicode(src)
			if err != nil {
				return dst, &Error{Pos: pos, Len: m + 1, Err: err}
			}
			dst = utf8.AppendRune(dst, r)
			n = m
		default:
			_, sz := mem.DecodeRune(src)
			return dst, &Error{Pos: pos, Len: sz + 1, Err: ErrInvalidEscape}
		}
		src = src.SliceFrom(n)
		pos += n + 1

		// Look for the next escape sequence, and if one is not found we can blit
		// the rest of the input and go home.
		i = mem.IndexByte(src, '\\')
		if i < 0 {
			return mem.Append(dst, src), nil
		}
	}
}

// decodeUnicode decodes the \u escape whose "u" begins src, combining it with
// an immediately following low surrogate escape if it is a high surrogate.
// It returns the rune and the number of bytes of src consumed.
func decodeUnicode(src mem.RO) (rune, int, error) {
	if src.Len() < 5 {
		return 0, src.Len(), ErrInvalidUnicode
	}
	v, err := parseHex(src.SliceFrom(1).SliceTo(4))
	if err != nil {
		return 0, 5, ErrInvalidUnicode
	}
	r := rune(v)
	if !utf16.IsSurrogate(r) {
		return r, 5, nil
	} else if r >= 0xdc00 {
		return 0, 5, ErrInvalidUnicode // low surrogate without a high half
	}

	// A high surrogate must be followed directly by an escaped low surrogate.
	if src.Len() < 11 || src.At(5) != '\\' || src.At(6) != 'u' {
		return 0, 5, ErrInvalidUnicode
	}
	w, err := parseHex(src.SliceFrom(7).SliceTo(4))
	if err != nil || w < 0xdc00 || w > 0xdfff {
		return 0, 5, ErrInvalidUnicode
	}
	return utf16.DecodeRune(r, rune(w)), 11, nil
}

func parseHex(data mem.RO) (int64, error) {
	var v int64
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += int64(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += int64(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += int64(b - 'A' + 10)
		} else {
			return 0, fmt.Errorf("invalid hex digit %q", b)
		}
	}
	return v, nil
}
