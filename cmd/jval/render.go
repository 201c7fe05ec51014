// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/creachadair/jval"
)

// setColor configures color output: "always", "never", or "auto" to let the
// color package decide based on the terminal.
func setColor(mode string) {
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}
}

// renderDiagnostic writes a report of d to w, showing the line of src where
// the span of d begins with the span underlined:
//
//	input.json:3:7: error: unexpected "]" after comma (context: array)
//	   3 |   [1, 2,]
//	     |         ^
func renderDiagnostic(w io.Writer, name string, src []byte, d *jval.Diagnostic) {
	loc := jval.Locate(src, d.Span)
	bold := color.New(color.Bold)
	red := color.New(color.FgRed, color.Bold)
	blue := color.New(color.FgBlue, color.Bold)

	bold.Fprintf(w, "%s:%d:%d: ", name, loc.First.Line, loc.First.Column+1)
	red.Fprint(w, "error: ")
	bold.Fprintln(w, d.Message)

	line, start := jval.LineText(src, loc.Pos)
	num := fmt.Sprint(loc.First.Line)
	gutter := strings.Repeat(" ", len(num))
	blue.Fprintf(w, " %s | ", num)
	fmt.Fprintf(w, "%s\n", line)

	// Underline the part of the span that falls on this line. An empty span
	// (as at the end of the input) gets a single caret.
	col := loc.Pos - start
	end := min(loc.End-start, len(line))
	width := max(utf8.RuneCount(line[min(col, end):end]), 1)
	blue.Fprintf(w, " %s | ", gutter)
	red.Fprintf(w, "%s%s\n", padding(line[:min(col, len(line))]), strings.Repeat("^", width))
}

// padding returns a run of blanks as wide as text, keeping tabs so the result
// lines up with text when both are printed.
func padding(text []byte) string {
	var sb strings.Builder
	for _, r := range string(text) {
		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
