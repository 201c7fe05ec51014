// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jval

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/creachadair/jval/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string { return string(escape.Quote(nil, mem.S(src))) }

// Unquote decodes a JSON string value.  Double quotation marks are removed,
// and escape sequences are replaced with their unescaped equivalents.
//
// Unquote reports an error for an invalid or incomplete escape sequence,
// including a \u escape for an unpaired surrogate half.
func Unquote(src string) ([]byte, error) {
	if len(src) < 2 || !strings.HasPrefix(src, `"`) || !strings.HasSuffix(src, `"`) {
		return nil, errors.New("missing quotations")
	}
	return escape.Unquote(nil, mem.S(src[1:len(src)-1]))
}

// JSON returns the compact canonical JSON encoding of v.
func (v Value) JSON() string { return string(AppendJSON(nil, v)) }

// String returns the compact JSON encoding of v.
func (v Value) String() string { return v.JSON() }

// AppendJSON appends the compact canonical JSON encoding of v to dst.
//
// Numbers use the shortest representation that parses back to the same
// float64. A non-finite number, which the parser never produces, is encoded
// as null.
func AppendJSON(dst []byte, v Value) []byte {
	switch v.kind {
	case NullValue:
		return append(dst, "null"...)
	case BoolValue:
		return strconv.AppendBool(dst, v.flag)
	case NumberValue:
		return appendNumber(dst, v.num)
	case StringValue:
		return escape.Quote(dst, mem.S(v.text))
	case ArrayValue:
		dst = append(dst, '[')
		for i, elt := range v.vals {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = AppendJSON(dst, elt)
		}
		return append(dst, ']')
	case ObjectValue:
		dst = append(dst, '{')
		for i, m := range v.mems {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = escape.Quote(dst, mem.S(m.Key))
			dst = append(dst, ':')
			dst = AppendJSON(dst, m.Value)
		}
		return append(dst, '}')
	}
	panic("jval: invalid value kind")
}

// AppendIndent appends the JSON encoding of v to dst, with each array element
// and object member on its own line beginning with prefix followed by one or
// more copies of indent according to its nesting depth. Empty arrays and
// objects are written as [] and {}.
func AppendIndent(dst []byte, v Value, prefix, indent string) []byte {
	return appendIndent(dst, v, prefix, indent, 0)
}

func appendIndent(dst []byte, v Value, prefix, indent string, depth int) []byte {
	newline := func(d int) {
		dst = append(dst, '\n')
		dst = append(dst, prefix...)
		for range d {
			dst = append(dst, indent...)
		}
	}
	switch v.kind {
	case ArrayValue:
		if len(v.vals) == 0 {
			return append(dst, "[]"...)
		}
		dst = append(dst, '[')
		for i, elt := range v.vals {
			if i > 0 {
				dst = append(dst, ',')
			}
			newline(depth + 1)
			dst = appendIndent(dst, elt, prefix, indent, depth+1)
		}
		newline(depth)
		return append(dst, ']')

	case ObjectValue:
		if len(v.mems) == 0 {
			return append(dst, "{}"...)
		}
		dst = append(dst, '{')
		for i, m := range v.mems {
			if i > 0 {
				dst = append(dst, ',')
			}
			newline(depth + 1)
			dst = escape.Quote(dst, mem.S(m.Key))
			dst = append(dst, ": "...)
			dst = appendIndent(dst, m.Value, prefix, indent, depth+1)
		}
		newline(depth)
		return append(dst, '}')
	}
	return AppendJSON(dst, v)
}

// appendNumber formats f the way ECMAScript does: plain decimal notation for
// magnitudes in [1e-6, 1e21), and exponent notation outside that range.
func appendNumber(dst []byte, f float64) []byte {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return append(dst, "null"...)
	}
	abs, format := math.Abs(f), byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	dst = strconv.AppendFloat(dst, f, format, -1, 64)
	if format == 'e' {
		// Clean up e-09 to e-9.
		n := len(dst)
		if n >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
	}
	return dst
}
