// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jval_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/creachadair/jval"
	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, input string) jval.Value {
	t.Helper()
	v, err := jval.Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse %#q: unexpected error: %v", input, err)
	}
	return v
}

func TestParseValid(t *testing.T) {
	tests := []struct {
		input string
		want  jval.Value
	}{
		{`null`, jval.NewNull()},
		{` true `, jval.NewBool(true)},
		{"\tfalse\n", jval.NewBool(false)},
		{`0`, jval.NewNumber(0)},
		{`-1`, jval.NewNumber(-1)},
		{`-0.5e+2`, jval.NewNumber(-50)},
		{`3.25E-2`, jval.NewNumber(0.0325)},
		{`""`, jval.NewString("")},
		{`"\u0041\n"`, jval.NewString("A\n")},
		{`"\ud83d\ude00"`, jval.NewString("\U0001f600")},
		{`"\/\\\""`, jval.NewString(`/\"`)},
		{`[]`, jval.NewArray()},
		{`{}`, jval.NewObject()},
		{`[ ]`, jval.NewArray()},
		{"{\n}", jval.NewObject()},
		{`[1, "two", null]`, jval.NewArray(
			jval.NewNumber(1), jval.NewString("two"), jval.NewNull(),
		)},
		{`[[1,2],[3,4,5]]`, jval.NewArray(
			jval.NewArray(jval.NewNumber(1), jval.NewNumber(2)),
			jval.NewArray(jval.NewNumber(3), jval.NewNumber(4), jval.NewNumber(5)),
		)},
		{`{"b": 1, "a": [true, {}], "c": {"d": null}}`, jval.NewObject(
			jval.Field("b", jval.NewNumber(1)),
			jval.Field("a", jval.NewArray(jval.NewBool(true), jval.NewObject())),
			jval.Field("c", jval.NewObject(jval.Field("d", jval.NewNull()))),
		)},
		{`{"a\u0000b": "\t"}`, jval.NewObject(
			jval.Field("a\x00b", jval.NewString("\t")),
		)},
	}
	for _, tc := range tests {
		got := mustParse(t, tc.input)
		if !jval.Equal(got, tc.want) {
			t.Errorf("Parse %#q: got %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestNegativeZero(t *testing.T) {
	v := mustParse(t, `-0`)
	if f := v.Float64(); f != 0 || !math.Signbit(f) {
		t.Errorf("Parse -0: got %v, want negative zero", f)
	}
	if f := mustParse(t, `0`).Float64(); math.Signbit(f) {
		t.Errorf("Parse 0: got %v, want positive zero", f)
	}
}

func TestParseOrder(t *testing.T) {
	abc := mustParse(t, `{"a":1,"b":2,"c":3}`)
	if got, want := abc.JSON(), `{"a":1,"b":2,"c":3}`; got != want {
		t.Errorf("Parse: got %#q, want %#q", got, want)
	}

	v := mustParse(t, `{"z": 1, "y": 2, "x": 3, "y": 4}`)
	var keys []string
	for _, m := range v.Members() {
		keys = append(keys, m.Key)
	}
	if diff := cmp.Diff([]string{"z", "y", "x", "y"}, keys); diff != "" {
		t.Errorf("Member keys (-want, +got):\n%s", diff)
	}

	// Duplicates are retained; Find and FindLast choose among them.
	if got, ok := v.Find("y"); !ok || got.Float64() != 2 {
		t.Errorf(`Find("y"): got %v, %v; want 2, true`, got, ok)
	}
	if got, ok := v.FindLast("y"); !ok || got.Float64() != 4 {
		t.Errorf(`FindLast("y"): got %v, %v; want 4, true`, got, ok)
	}
	if got, ok := v.Find("w"); ok {
		t.Errorf(`Find("w"): got %v, want not found`, got)
	}
}

func TestParseSpans(t *testing.T) {
	const input = ` {"a": [10, "xy"], "b": null} `
	v := mustParse(t, input)
	if got, want := v.Span(), (jval.Span{Pos: 1, End: 30}); got != want {
		t.Errorf("Object span: got %v, want %v", got, want)
	}
	a, _ := v.Find("a")
	if got, want := a.Span(), (jval.Span{Pos: 7, End: 18}); got != want {
		t.Errorf("Array span: got %v, want %v", got, want)
	}
	if got, want := a.Index(1).Span(), (jval.Span{Pos: 12, End: 16}); got != want {
		t.Errorf("String span: got %v, want %v", got, want)
	}
	if got, want := input[a.Span().Pos:a.Span().End], `[10, "xy"]`; got != want {
		t.Errorf("Array text: got %q, want %q", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		`null`, `true`, `false`, `0`, `-1.5`, `1e+21`, `1e-7`, `"a\"b\\c"`,
		`[]`, `{}`, `[[],{},[{}]]`,
		`{"name":"jval","tags":["json","arena"],"n":3,"ok":true,"x":null}`,
		`[1,[2,[3,[4,[5]]]]]`,
		`{"k":1,"k":2}`,
		`"\u2028 \ufffd tab\t"`,
	}
	for _, input := range inputs {
		v := mustParse(t, input)
		enc := jval.AppendJSON(nil, v)
		w, err := jval.Parse(enc)
		if err != nil {
			t.Errorf("Parse encoding of %#q: %v", input, err)
			continue
		}
		if !jval.Equal(v, w) {
			t.Errorf("Round trip %#q: got %s, want %s", input, w, v)
		}
		if got := w.JSON(); got != string(enc) {
			t.Errorf("Re-encoding %#q: got %#q, want %#q", input, got, enc)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input   string
		kind    jval.ErrorKind
		context string
		span    jval.Span
	}{
		{``, jval.EmptyInput, "", jval.Span{Pos: 0, End: 0}},
		{"  \n", jval.EmptyInput, "", jval.Span{Pos: 3, End: 3}},
		{`@`, jval.LexError, "", jval.Span{Pos: 0, End: 1}},
		{`[@]`, jval.LexError, "", jval.Span{Pos: 1, End: 2}},
		{`]`, jval.UnexpectedToken, "value", jval.Span{Pos: 0, End: 1}},
		{`:`, jval.UnexpectedToken, "value", jval.Span{Pos: 0, End: 1}},
		{`[1 2]`, jval.UnexpectedToken, "array", jval.Span{Pos: 3, End: 4}},
		{`[1,]`, jval.UnexpectedToken, "array", jval.Span{Pos: 3, End: 4}},
		{`[1,2,]`, jval.UnexpectedToken, "array", jval.Span{Pos: 5, End: 6}},
		{`[,1]`, jval.UnexpectedToken, "array", jval.Span{Pos: 1, End: 2}},
		{`[1,,2]`, jval.UnexpectedToken, "array", jval.Span{Pos: 3, End: 4}},
		{`[}`, jval.UnexpectedToken, "array", jval.Span{Pos: 1, End: 2}},
		{`{1:2}`, jval.UnexpectedToken, "object", jval.Span{Pos: 1, End: 2}},
		{`{"a":1,}`, jval.UnexpectedToken, "object", jval.Span{Pos: 7, End: 8}},
		{`{"a":1 "b":2}`, jval.UnexpectedToken, "object", jval.Span{Pos: 7, End: 10}},
		{`{"a":1,2}`, jval.UnexpectedToken, "object", jval.Span{Pos: 7, End: 8}},
		{`{"a":}`, jval.UnexpectedToken, "object", jval.Span{Pos: 5, End: 6}},
		{`{"a" 1}`, jval.ExpectedColon, "", jval.Span{Pos: 5, End: 6}},
		{`{"a",1}`, jval.ExpectedColon, "", jval.Span{Pos: 4, End: 5}},
		{`[`, jval.UnmatchedOpenBracket, "", jval.Span{Pos: 0, End: 1}},
		{`[1,2`, jval.UnmatchedOpenBracket, "", jval.Span{Pos: 0, End: 1}},
		{`[1,`, jval.UnmatchedOpenBracket, "", jval.Span{Pos: 0, End: 1}},
		{`[[1]`, jval.UnmatchedOpenBracket, "", jval.Span{Pos: 0, End: 1}},
		{` [[1`, jval.UnmatchedOpenBracket, "", jval.Span{Pos: 2, End: 3}},
		{`{`, jval.UnmatchedOpenBrace, "", jval.Span{Pos: 0, End: 1}},
		{`{"a"`, jval.UnmatchedOpenBrace, "", jval.Span{Pos: 0, End: 1}},
		{`{"a":`, jval.UnmatchedOpenBrace, "", jval.Span{Pos: 0, End: 1}},
		{`[{"a":1`, jval.UnmatchedOpenBrace, "", jval.Span{Pos: 1, End: 2}},
		{`"\q"`, jval.InvalidEscape, "", jval.Span{Pos: 1, End: 3}},
		{`["ok\x"]`, jval.InvalidEscape, "", jval.Span{Pos: 4, End: 6}},
		{`"a\ud800"`, jval.InvalidUnicodeEscape, "", jval.Span{Pos: 2, End: 8}},
		{`"\udc00x"`, jval.InvalidUnicodeEscape, "", jval.Span{Pos: 1, End: 7}},
		{`"\u12"`, jval.InvalidUnicodeEscape, "", jval.Span{Pos: 1, End: 5}},
		{`{"\uzzzz": 1}`, jval.InvalidUnicodeEscape, "", jval.Span{Pos: 2, End: 8}},
		{`1e999`, jval.InvalidNumber, "", jval.Span{Pos: 0, End: 5}},
		{`[-1e400]`, jval.InvalidNumber, "", jval.Span{Pos: 1, End: 7}},
		{`1 2`, jval.ExtraInput, "", jval.Span{Pos: 2, End: 3}},
		{`{} []`, jval.ExtraInput, "", jval.Span{Pos: 3, End: 4}},
		{`[1]]`, jval.ExtraInput, "", jval.Span{Pos: 3, End: 4}},
		{`null @`, jval.LexError, "", jval.Span{Pos: 5, End: 6}},
	}
	for _, tc := range tests {
		v, err := jval.Parse([]byte(tc.input))
		var d *jval.Diagnostic
		if !errors.As(err, &d) {
			t.Errorf("Parse %#q: got %v, %v; want *Diagnostic", tc.input, v, err)
			continue
		}
		t.Logf("Parse %#q: got expected error: %v", tc.input, err)
		if d.Kind != tc.kind {
			t.Errorf("Parse %#q: kind is %v, want %v", tc.input, d.Kind, tc.kind)
		}
		if d.Context != tc.context {
			t.Errorf("Parse %#q: context is %q, want %q", tc.input, d.Context, tc.context)
		}
		if d.Span != tc.span {
			t.Errorf("Parse %#q: span is %v, want %v", tc.input, d.Span, tc.span)
		}
		if !errors.Is(err, tc.kind) {
			t.Errorf("Parse %#q: errors.Is(%v) is false", tc.input, tc.kind)
		}
		if !jval.Equal(v, jval.Value{}) || v.Span() != (jval.Span{}) {
			t.Errorf("Parse %#q: got partial result %v", tc.input, v)
		}
	}
}

func TestDiagnosticMessage(t *testing.T) {
	_, err := jval.Parse([]byte(`[1,]`))
	if err == nil {
		t.Fatal("Parse: got nil error, want failure")
	}
	const want = `at offset 3: unexpected "]" after comma (context: array)`
	if got := err.Error(); got != want {
		t.Errorf("Error: got %q, want %q", got, want)
	}
	if errors.Is(err, jval.ExtraInput) {
		t.Errorf("errors.Is(%v, ExtraInput) is true, want false", err)
	}
}

func TestMaxDepth(t *testing.T) {
	nest := func(n int) []byte {
		return []byte(strings.Repeat("[", n) + strings.Repeat("]", n))
	}
	p := &jval.Parser{MaxDepth: 3}
	if _, err := p.Parse(nest(3)); err != nil {
		t.Errorf("Parse depth 3: unexpected error: %v", err)
	}

	_, err := p.Parse(nest(4))
	var d *jval.Diagnostic
	if !errors.As(err, &d) || d.Kind != jval.TooDeep {
		t.Fatalf("Parse depth 4: got %v, want %v", err, jval.TooDeep)
	}
	if want := (jval.Span{Pos: 3, End: 4}); d.Span != want {
		t.Errorf("TooDeep span: got %v, want %v", d.Span, want)
	}

	// Objects count toward the same bound.
	if _, err := p.Parse([]byte(`{"a":[{"b":[]}]}`)); !errors.Is(err, jval.TooDeep) {
		t.Errorf("Parse nested objects: got %v, want %v", err, jval.TooDeep)
	}

	// The default bound permits deep, but not unbounded, nesting.
	if _, err := jval.Parse(nest(jval.DefaultMaxDepth)); err != nil {
		t.Errorf("Parse default depth: unexpected error: %v", err)
	}
	if _, err := jval.Parse(nest(jval.DefaultMaxDepth + 1)); !errors.Is(err, jval.TooDeep) {
		t.Errorf("Parse beyond default depth: got %v, want %v", err, jval.TooDeep)
	}
}

func TestParseAll(t *testing.T) {
	var p jval.Parser
	vs, err := p.ParseAll([]byte("{\"a\":1}\n[2, 3]\n\"four\" null\n"))
	if err != nil {
		t.Fatalf("ParseAll: unexpected error: %v", err)
	}
	var got []string
	for _, v := range vs {
		got = append(got, v.JSON())
	}
	if diff := cmp.Diff([]string{`{"a":1}`, `[2,3]`, `"four"`, `null`}, got); diff != "" {
		t.Errorf("ParseAll (-want, +got):\n%s", diff)
	}

	if vs, err := p.ParseAll([]byte("  \n ")); err != nil || len(vs) != 0 {
		t.Errorf("ParseAll empty: got %v, %v; want no values", vs, err)
	}
	if _, err := p.ParseAll([]byte(`1 [2`)); !errors.Is(err, jval.UnmatchedOpenBracket) {
		t.Errorf("ParseAll: got %v, want %v", err, jval.UnmatchedOpenBracket)
	}
}

func TestParserReuse(t *testing.T) {
	var p jval.Parser
	for i, input := range []string{
		`{"a": ["x", "y"]}`,
		`[1, 2, 3]`,
		`[1,`,
		`{"longer key": "value", "z": [[], {}]}`,
	} {
		v, err := p.Parse([]byte(input))
		if err != nil {
			t.Logf("Parse %d: got error: %v", i, err)
			continue
		}
		fresh := mustParse(t, input)
		if !jval.Equal(v, fresh) {
			t.Errorf("Parse %d: reused parser got %v, want %v", i, v, fresh)
		}
	}
	if st := p.ArenaStats(); st.Blocks == 0 || st.Used == 0 {
		t.Errorf("ArenaStats: got %+v, want blocks in use", st)
	}
}

func TestSourceIndependence(t *testing.T) {
	src := []byte(`{"key": ["text", "more"]}`)
	v, err := jval.Parse(src)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	for i := range src {
		src[i] = ' '
	}
	if got, want := v.JSON(), `{"key":["text","more"]}`; got != want {
		t.Errorf("After clobbering source: got %#q, want %#q", got, want)
	}
}
