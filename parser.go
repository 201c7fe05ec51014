// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jval

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/creachadair/jval/internal/escape"

	"go4.org/mem"
)

// DefaultMaxDepth is the nesting depth limit used by a Parser whose MaxDepth
// is not positive.
const DefaultMaxDepth = 10000

// Parse parses a single JSON value from src, which must contain nothing else
// but whitespace. In case of error, the result is the zero Value and the error
// has concrete type *Diagnostic.
//
// The returned value does not share memory with src.
func Parse(src []byte) (Value, error) { return new(Parser).Parse(src) }

// A Parser parses JSON values. The zero Parser is ready for use.
//
// A Parser owns an Arena and a scratch stack, which it reuses from one call
// to the next. A Parser is not safe for concurrent use; concurrent parses
// each need their own Parser.
type Parser struct {
	// MaxDepth bounds the nesting depth of arrays and objects. If MaxDepth <= 0,
	// DefaultMaxDepth is used.
	MaxDepth int

	s     Scanner
	stk   scratch
	arena Arena
	dec   []byte // buffer for decoding strings
}

// Parse parses a single JSON value from src, which must contain nothing else
// but whitespace. In case of error, the result is the zero Value and the error
// has concrete type *Diagnostic.
//
// Parse resets the arena of p before parsing, so any value returned by an
// earlier call to Parse or ParseAll on p must no longer be used. To retain
// earlier results, use a separate Parser for each input.
func (p *Parser) Parse(src []byte) (Value, error) {
	p.reset(src)
	if !p.s.Next() {
		if err := p.s.Err(); err != nil {
			return Value{}, err
		}
		return Value{}, diagf(EmptyInput, Span{Pos: len(src), End: len(src)}, "no value in input")
	}
	v, err := p.parseElement(0, "value")
	if err != nil {
		return Value{}, err
	}
	if p.s.Next() {
		return Value{}, diagf(ExtraInput, p.s.Span(), "unexpected %v after value", p.s.Token())
	} else if err := p.s.Err(); err != nil {
		return Value{}, err
	}
	return v, nil
}

// ParseAll parses a sequence of zero or more JSON values from src, separated
// by optional whitespace, as in a stream of JSON records. Unlike Parse, an
// empty input is not an error. The arena of p is reset as for Parse.
func (p *Parser) ParseAll(src []byte) ([]Value, error) {
	p.reset(src)
	for p.s.Next() {
		v, err := p.parseElement(0, "value")
		if err != nil {
			return nil, err
		}
		p.stk.push("", false, v)
	}
	if err := p.s.Err(); err != nil {
		return nil, err
	}
	return p.stk.drainValues(0, &p.arena), nil
}

// ArenaStats reports memory statistics for the arena of p.
func (p *Parser) ArenaStats() ArenaStats { return p.arena.Stats() }

func (p *Parser) reset(src []byte) {
	p.s.Reset(src)
	p.stk.reset()
	p.arena.Reset()
}

func (p *Parser) maxDepth() int {
	if p.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return p.MaxDepth
}

// parseElement consumes a single value of any type, at nesting depth. The
// context names the production the value belongs to, for diagnostics.
// Precondition: a token is available.
func (p *Parser) parseElement(depth int, context string) (Value, error) {
	span := p.s.Span()
	switch tok := p.s.Token(); tok {
	case True, False:
		return Value{kind: BoolValue, flag: tok == True, span: span}, nil
	case Null:
		return Value{kind: NullValue, span: span}, nil
	case Integer, Number:
		return p.parseNumber(span)
	case String:
		text, err := p.unquote()
		if err != nil {
			return Value{}, err
		}
		return Value{kind: StringValue, text: text, span: span}, nil
	case LBrace:
		return p.parseObject(depth+1, span)
	case LSquare:
		return p.parseArray(depth+1, span)
	default:
		return Value{}, p.unexpected(context)
	}
}

// parseArray consumes the elements of an array and its closing bracket.
// Precondition: token == LSquare, at span open.
func (p *Parser) parseArray(depth int, open Span) (Value, error) {
	if err := p.checkDepth(depth, open); err != nil {
		return Value{}, err
	}
	base := p.stk.base()
	if err := p.advance(UnmatchedOpenBracket, open); err != nil {
		return Value{}, err
	}
	if p.s.Token() != RSquare {
		for {
			v, err := p.parseElement(depth, "array")
			if err != nil {
				return Value{}, err
			}
			p.stk.push("", false, v)

			// Check whether we have more elements (",") or are done ("]").
			if err := p.advance(UnmatchedOpenBracket, open); err != nil {
				return Value{}, err
			}
			if tok := p.s.Token(); tok == RSquare {
				break
			} else if tok != Comma {
				return Value{}, p.unexpected("array")
			}

			// A comma must be followed by another element.
			if err := p.advance(UnmatchedOpenBracket, open); err != nil {
				return Value{}, err
			} else if p.s.Token() == RSquare {
				return Value{}, p.trailingComma("array")
			}
		}
	}
	return Value{
		kind: ArrayValue,
		vals: p.stk.drainValues(base, &p.arena),
		span: Span{Pos: open.Pos, End: p.s.Span().End},
	}, nil
}

// parseObject consumes the members of an object and its closing brace.
// Precondition: token == LBrace, at span open.
func (p *Parser) parseObject(depth int, open Span) (Value, error) {
	if err := p.checkDepth(depth, open); err != nil {
		return Value{}, err
	}
	base := p.stk.base()
	if err := p.advance(UnmatchedOpenBrace, open); err != nil {
		return Value{}, err
	}
	if tok := p.s.Token(); tok != RBrace {
		if tok != String {
			return Value{}, p.unexpected("object")
		}
		for {
			// Parse a single member: "key": value
			key, err := p.unquote()
			if err != nil {
				return Value{}, err
			}
			if err := p.advance(UnmatchedOpenBrace, open); err != nil {
				return Value{}, err
			} else if tok := p.s.Token(); tok != Colon {
				return Value{}, &Diagnostic{
					Kind:    ExpectedColon,
					Span:    p.s.Span(),
					Message: fmt.Sprintf("expected %v after object key, got %v", Colon, tok),
				}
			}
			if err := p.advance(UnmatchedOpenBrace, open); err != nil {
				return Value{}, err
			}
			v, err := p.parseElement(depth, "object")
			if err != nil {
				return Value{}, err
			}
			p.stk.push(key, true, v)

			// Check whether we have more members (",") or are done ("}").
			if err := p.advance(UnmatchedOpenBrace, open); err != nil {
				return Value{}, err
			}
			if tok := p.s.Token(); tok == RBrace {
				break
			} else if tok != Comma {
				return Value{}, p.unexpected("object")
			}

			// A comma must be followed by the key of another member.
			if err := p.advance(UnmatchedOpenBrace, open); err != nil {
				return Value{}, err
			} else if tok := p.s.Token(); tok == RBrace {
				return Value{}, p.trailingComma("object")
			} else if tok != String {
				return Value{}, p.unexpected("object")
			}
		}
	}
	return Value{
		kind: ObjectValue,
		mems: p.stk.drainMembers(base, &p.arena),
		span: Span{Pos: open.Pos, End: p.s.Span().End},
	}, nil
}

// advance moves to the next token inside the container opened at open. If the
// input ends first, it reports an unmatched delimiter of the given kind.
func (p *Parser) advance(unmatched ErrorKind, open Span) error {
	if p.s.Next() {
		return nil
	} else if err := p.s.Err(); err != nil {
		return err
	}
	what := "bracket"
	if unmatched == UnmatchedOpenBrace {
		what = "brace"
	}
	return diagf(unmatched, open, "unmatched opening %s", what)
}

func (p *Parser) checkDepth(depth int, open Span) error {
	if limit := p.maxDepth(); depth > limit {
		return diagf(TooDeep, open, "nesting depth exceeds %d", limit)
	}
	return nil
}

func (p *Parser) parseNumber(span Span) (Value, error) {
	f, err := mem.ParseFloat(mem.B(p.s.Text()), 64)
	if err != nil {
		return Value{}, &Diagnostic{
			Kind:    InvalidNumber,
			Span:    span,
			Message: fmt.Sprintf("number %s out of range", p.s.Text()),
			err:     err,
		}
	}
	return Value{kind: NumberValue, num: f, span: span}, nil
}

// unquote decodes the current string token and stores its text in the arena.
// Precondition: token == String.
func (p *Parser) unquote() (string, error) {
	raw := p.s.Text()
	raw = raw[1 : len(raw)-1]
	if bytes.IndexByte(raw, '\\') < 0 {
		return p.arena.AllocText(raw), nil
	}

	var err error
	p.dec, err = escape.Unquote(p.dec[:0], mem.B(raw))
	if err != nil {
		kind := InvalidEscape
		if errors.Is(err, escape.ErrInvalidUnicode) {
			kind = InvalidUnicodeEscape
		}
		span := p.s.Span()
		var eerr *escape.Error
		if errors.As(err, &eerr) {
			pos := span.Pos + 1 + eerr.Pos
			span = Span{Pos: pos, End: min(pos+eerr.Len, span.End-1)}
		}
		return "", &Diagnostic{
			Kind:    kind,
			Span:    span,
			Message: kind.String() + " in string",
			err:     err,
		}
	}
	return p.arena.AllocText(p.dec), nil
}

func (p *Parser) unexpected(context string) error {
	return &Diagnostic{
		Kind:    UnexpectedToken,
		Context: context,
		Span:    p.s.Span(),
		Message: fmt.Sprintf("unexpected %v (context: %s)", p.s.Token(), context),
	}
}

func (p *Parser) trailingComma(context string) error {
	return &Diagnostic{
		Kind:    UnexpectedToken,
		Context: context,
		Span:    p.s.Span(),
		Message: fmt.Sprintf("unexpected %v after comma (context: %s)", p.s.Token(), context),
	}
}
