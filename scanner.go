// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jval

import (
	"strings"
	"unicode/utf8"

	"go4.org/mem"
)

// Token is the type of a lexical token in the JSON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	Integer              // number: integer with no fraction or exponent
	Number               // number with fraction and/or exponent
	String               // quoted string
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	Integer: "integer",
	Number:  "number",
	String:  "string",
	True:    "true",
	False:   "false",
	Null:    "null",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// A Scanner reads lexical tokens from an input held in memory. Each call to
// Next advances the scanner to the next token, or reports that none remain.
//
// A Scanner does not copy its input. The text of each token is a view of the
// input, and remains valid as long as the input is not modified.
type Scanner struct {
	src []byte
	tok Token
	err error

	pos, end int // start and end offsets of current token
}

// NewScanner constructs a new lexical scanner that consumes input from src.
func NewScanner(src []byte) *Scanner { return &Scanner{src: src} }

// Reset discards the state of s and starts it scanning src.
func (s *Scanner) Reset(src []byte) { *s = Scanner{src: src} }

// Next advances s to the next token of the input, and reports whether a token
// is available. At the end of the input, or in case of a lexical error, Next
// returns false. Use Err to distinguish these cases.
//
// Whitespace between tokens is discarded.
func (s *Scanner) Next() bool {
	if s.err != nil {
		return false
	}
	s.tok = Invalid

	i := s.end
	for i < len(s.src) && isSpace(s.src[i]) {
		i++
	}
	s.pos, s.end = i, i
	if i == len(s.src) {
		return false
	}

	ch := s.src[i]

	// Handle punctuation.
	if t, ok := selfDelim(ch); ok {
		s.end = i + 1
		s.tok = t
		return true
	}

	switch {
	case isNumStart(ch):
		return s.scanNumber()
	case ch == '"':
		return s.scanString()
	case ch == 't':
		return s.scanName(True, "true")
	case ch == 'f':
		return s.scanName(False, "false")
	case ch == 'n':
		return s.scanName(Null, "null")
	}
	r, n := utf8.DecodeRune(s.src[i:])
	return s.failf(i, i+n, "unexpected %q", r)
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the error that stopped the scanner, or nil if the scanner has
// not failed. At the end of the input Err returns nil. A non-nil error has
// concrete type *Diagnostic with kind LexError.
func (s *Scanner) Err() error { return s.err }

// Text returns the undecoded text of the current token. The return value is a
// view of the input; the caller must not modify it.
func (s *Scanner) Text() []byte { return s.src[s.pos:s.end:s.end] }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.  The cost of
// this method is proportional to the offset of the token in the input.
func (s *Scanner) Location() Location { return Locate(s.src, s.Span()) }

// scanString scans a quoted string. Escapes are only tracked far enough to
// find the closing quotation mark: the character following a backslash is
// checked when the string is decoded, not here.
func (s *Scanner) scanString() bool {
	i := s.pos + 1
	var esc bool
	for i < len(s.src) {
		ch := s.src[i]
		if ch >= utf8.RuneSelf {
			r, n := utf8.DecodeRune(s.src[i:])
			if r == utf8.RuneError && n == 1 {
				return s.failf(i, i+1, "invalid UTF-8 byte %#02x in string", ch)
			}
			esc = false
			i += n
			continue
		}
		if ch < ' ' {
			return s.failf(i, i+1, "unescaped control %q in string", ch)
		} else if ch == '"' && !esc {
			s.end = i + 1
			s.tok = String
			return true
		}
		esc = ch == '\\' && !esc
		i++
	}
	return s.failf(s.pos, len(s.src), "unterminated string")
}

func (s *Scanner) scanNumber() bool {
	i := s.pos
	if s.src[i] == '-' {
		// If there is a leading sign, we need at least one digit.
		i++
		if i == len(s.src) || !isDigit(s.src[i]) {
			return s.failf(s.pos, min(i+1, len(s.src)), "want digit after sign")
		}
	}

	// Consume the integer part, which may not have redundant leading zeroes.
	// That is: 0.12 is OK, 01.2 is not.
	start := i
	i = s.skipDigits(i)
	if s.src[start] == '0' && i-start > 1 {
		return s.failf(s.pos, i, "extra leading zeroes")
	}
	s.tok = Integer

	// If a decimal point follows, consume a fractional part.
	if i < len(s.src) && s.src[i] == '.' {
		i++
		j := s.skipDigits(i)
		if j == i {
			return s.failf(s.pos, min(i+1, len(s.src)), "no digits after decimal point")
		}
		i = j
		s.tok = Number
	}

	// If an exponent follows, consume it.
	if i < len(s.src) && (s.src[i] == 'e' || s.src[i] == 'E') {
		i++
		if i < len(s.src) && (s.src[i] == '+' || s.src[i] == '-') {
			i++
		}
		j := s.skipDigits(i)
		if j == i {
			return s.failf(s.pos, min(i+1, len(s.src)), "missing exponent digits")
		}
		i = j
		s.tok = Number
	}
	s.end = i
	return true
}

// scanName scans a run of lowercase letters and checks that it is exactly the
// spelling of the constant tok.
func (s *Scanner) scanName(tok Token, want string) bool {
	i := s.pos
	for i < len(s.src) && isNameByte(s.src[i]) {
		i++
	}
	if got := mem.B(s.src[s.pos:i]); !got.Equal(mem.S(want)) {
		return s.failf(s.pos, i, "unknown constant %q", got.StringCopy())
	}
	s.end = i
	s.tok = tok
	return true
}

// skipDigits returns the offset of the first non-digit at or after i.
func (s *Scanner) skipDigits(i int) int {
	for i < len(s.src) && isDigit(s.src[i]) {
		i++
	}
	return i
}

func (s *Scanner) failf(pos, end int, msg string, args ...any) bool {
	s.tok = Invalid
	s.pos, s.end = pos, end
	s.err = diagf(LexError, Span{Pos: pos, End: end}, msg, args...)
	return false
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isNumStart(ch byte) bool { return ch == '-' || isDigit(ch) }
func isDigit(ch byte) bool    { return '0' <= ch && ch <= '9' }
func isNameByte(ch byte) bool { return ch >= 'a' && ch <= 'z' }

var self = [...]Token{LBrace, RBrace, LSquare, RSquare, Comma, Colon}

func selfDelim(ch byte) (Token, bool) {
	i := strings.IndexByte("{}[],:", ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}
