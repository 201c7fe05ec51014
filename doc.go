// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jval implements a JSON scanner and an arena-backed value parser.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for JSON text held in memory.
// Construct a scanner from a byte slice and call its Next method to iterate
// over the tokens. Next reports whether a token is available:
//
//	s := jval.NewScanner(input)
//	for s.Next() {
//	   log.Printf("Next token: %v at %v", s.Token(), s.Span())
//	}
//
// When Next reports false, Err reports nil if the input was fully consumed, or
// a *Diagnostic describing the lexical error that stopped the scan.
//
//	if err := s.Err(); err != nil {
//	   log.Fatalf("Scanning failed: %v", err)
//	}
//
// # Parsing
//
// The Parse function parses a single JSON value (RFC 8259) and returns its
// Value tree:
//
//	v, err := jval.Parse(input)
//	if err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// The parser pulls tokens from a Scanner on demand and descends recursively
// into arrays and objects. While a container is open, its completed children
// are collected on a scratch stack shared by every nesting level. When the
// container closes, its children are moved off the stack into an Arena, which
// provides the permanent storage for array elements and object members. String
// values and object keys are always decoded, and their text is also stored in
// the arena. A Parser value may be reused to recycle its arena and scratch
// memory across many inputs; see Parser.Parse for the rules.
//
// Object members are kept in input order, and duplicate keys are retained.
// Use Value.Find for the first occurrence of a key, or Value.FindLast for
// last-occurrence-wins semantics.
//
// # Errors
//
// The first lexical or structural fault ends the parse; no recovery is
// attempted. Errors have concrete type *Diagnostic, which carries an ErrorKind,
// a message, and the Span of input it refers to. For unterminated arrays and
// objects, the span is that of the opening delimiter. Use Locate to map a span
// to line and column positions for display.
package jval
