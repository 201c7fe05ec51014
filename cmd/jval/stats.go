// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/creachadair/jval"
)

// treeStats summarizes the shape of a collection of values.
type treeStats struct {
	Values   int // total number of values, at all depths
	Arrays   int
	Objects  int
	Strings  int
	MaxDepth int
}

func (ts *treeStats) add(v jval.Value, depth int) {
	ts.Values++
	ts.MaxDepth = max(ts.MaxDepth, depth)
	switch v.Kind() {
	case jval.ArrayValue:
		ts.Arrays++
		for _, elt := range v.Array() {
			ts.add(elt, depth+1)
		}
	case jval.ObjectValue:
		ts.Objects++
		for _, m := range v.Members() {
			ts.add(m.Value, depth+1)
		}
	case jval.StringValue:
		ts.Strings++
	}
}

// printStats prints statistics about the values parsed from src.
func printStats(w io.Writer, name string, src []byte, vs []jval.Value, as jval.ArenaStats, elapsed time.Duration) {
	var ts treeStats
	for _, v := range vs {
		ts.add(v, 0)
	}
	bold := color.New(color.Bold)
	bold.Fprintf(w, "%s:\n", name)
	fmt.Fprintf(w, "\tinput size: %v, top-level values: %d, parse time: %v\n",
		humanize.Bytes(uint64(len(src))), len(vs), elapsed)
	fmt.Fprintf(w, "\tvalues: %s (arrays: %s, objects: %s, strings: %s), max depth: %d\n",
		humanize.Comma(int64(ts.Values)), humanize.Comma(int64(ts.Arrays)),
		humanize.Comma(int64(ts.Objects)), humanize.Comma(int64(ts.Strings)), ts.MaxDepth)
	fmt.Fprintf(w, "\tarena: %d blocks, reserved: %v, used: %v, large: %v\n",
		as.Blocks, humanize.Bytes(uint64(as.Reserved)), humanize.Bytes(uint64(as.Used)),
		humanize.Bytes(uint64(as.Large)))
}
