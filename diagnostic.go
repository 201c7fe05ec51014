// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jval

import "fmt"

// ErrorKind classifies the faults reported by a Diagnostic. An ErrorKind is
// itself an error, so that callers may write errors.Is(err, jval.TooDeep).
type ErrorKind byte

// Constants defining the valid ErrorKind values.
const (
	LexError             ErrorKind = iota + 1 // input matches no token
	UnexpectedToken                           // wrong token for the active production
	ExpectedColon                             // object key not followed by ":"
	UnmatchedOpenBracket                      // input ends inside an array
	UnmatchedOpenBrace                        // input ends inside an object
	InvalidUnicodeEscape                      // \u escape is not a Unicode scalar value
	InvalidEscape                             // unknown or incomplete escape sequence
	InvalidNumber                             // number literal out of range for float64
	EmptyInput                                // input contains no value
	ExtraInput                                // input continues after the value
	TooDeep                                   // nesting exceeds the depth limit
)

var kindStr = [...]string{
	0:                    "unknown error",
	LexError:             "lexical error",
	UnexpectedToken:      "unexpected token",
	ExpectedColon:        "expected colon",
	UnmatchedOpenBracket: "unmatched open bracket",
	UnmatchedOpenBrace:   "unmatched open brace",
	InvalidUnicodeEscape: "invalid Unicode escape",
	InvalidEscape:        "invalid escape",
	InvalidNumber:        "invalid number",
	EmptyInput:           "empty input",
	ExtraInput:           "extra input",
	TooDeep:              "nesting too deep",
}

func (k ErrorKind) String() string {
	if int(k) >= len(kindStr) {
		return kindStr[0]
	}
	return kindStr[k]
}

// Error satisfies the error interface.
func (k ErrorKind) Error() string { return k.String() }

// Diagnostic is the concrete type of errors reported by the scanner and the
// parser. No partial result accompanies a diagnostic.
type Diagnostic struct {
	Kind    ErrorKind
	Context string // for UnexpectedToken: "value", "array", or "object"
	Message string
	Span    Span

	err error
}

// Error satisfies the error interface.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("at offset %d: %s", d.Span.Pos, d.Message)
}

// Unwrap supports error wrapping.
func (d *Diagnostic) Unwrap() error { return d.err }

// Is reports whether target is the ErrorKind of d.
func (d *Diagnostic) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == d.Kind
}

func diagf(kind ErrorKind, span Span, msg string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Span: span, Message: fmt.Sprintf(msg, args...)}
}
