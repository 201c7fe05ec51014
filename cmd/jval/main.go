// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Program jval parses JSON files and prints their values, or reports the
// location of the first error in each file.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/tailscale/hujson"

	"github.com/creachadair/jval"
	"github.com/creachadair/jval/cursor"
)

// config holds the settings for a run of the program.
type config struct {
	Files    []string
	Indent   string
	Compact  bool
	All      bool
	JWCC     bool
	MaxDepth int
	Path     string
	Stats    bool
	Color    string
	LogLevel string
}

func (c *config) registerFlags(app *kingpin.Application) {
	app.Flag("indent", "Indentation for each nesting level of the output.").Default("  ").StringVar(&c.Indent)
	app.Flag("compact", "Print values without indentation.").BoolVar(&c.Compact)
	app.Flag("all", "Parse each file as a sequence of values, as in JSON lines.").BoolVar(&c.All)
	app.Flag("jwcc", "Accept JSON with commas and comments.").BoolVar(&c.JWCC)
	app.Flag("max-depth", "Maximum nesting depth (0 means the default).").Default("0").IntVar(&c.MaxDepth)
	app.Flag("path", "Dot-separated path of the value to print.").StringVar(&c.Path)
	app.Flag("stats", "Print parse statistics instead of values.").BoolVar(&c.Stats)
	app.Flag("color", "Colorize diagnostics.").Default("auto").EnumVar(&c.Color, "auto", "always", "never")
	app.Flag("log.level", "Only log messages with the given severity or above.").
		Default("info").EnumVar(&c.LogLevel, "debug", "info", "warn", "error")
	app.Arg("file", "The files to parse.").Required().ExistingFilesVar(&c.Files)
}

func main() {
	var cfg config
	app := kingpin.New("jval", "Parse JSON files and print their values.")
	app.HelpFlag.Short('h')
	cfg.registerFlags(app)
	kingpin.MustParse(app.Parse(os.Args[1:]))

	setColor(cfg.Color)
	logger := newLogger(cfg.LogLevel)

	r := &runner{
		cfg:    cfg,
		logger: logger,
		out:    os.Stdout,
		diag:   os.Stderr,
		parser: &jval.Parser{MaxDepth: cfg.MaxDepth},
	}
	var nfail int
	for _, name := range cfg.Files {
		if err := r.processFile(name); err != nil {
			nfail++
			var d *jval.Diagnostic
			if !errors.As(err, &d) {
				level.Error(logger).Log("msg", "processing failed", "file", name, "err", err)
			}
		}
	}
	if nfail > 0 {
		level.Debug(logger).Log("msg", "some files failed", "failed", nfail, "total", len(cfg.Files))
		os.Exit(1)
	}
}

func newLogger(lvl string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = level.NewFilter(logger, level.Allow(level.ParseDefault(lvl, level.InfoValue())))
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
}

// runner processes input files according to a config.
type runner struct {
	cfg    config
	logger log.Logger
	out    io.Writer // values and statistics
	diag   io.Writer // rendered diagnostics
	parser *jval.Parser
}

// processFile parses the named file and prints its value, statistics, or a
// rendered diagnostic. A syntax error is rendered to r.diag and returned.
func (r *runner) processFile(name string) error {
	src, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	if r.cfg.JWCC {
		// Standardizing preserves the offsets of the input, so diagnostics
		// still refer to the original text.
		std, err := hujson.Standardize(append([]byte(nil), src...))
		if err != nil {
			return fmt.Errorf("standardize JWCC: %w", err)
		}
		src = std
	}

	start := time.Now()
	vs, err := r.parse(src)
	elapsed := time.Since(start)
	if err != nil {
		var d *jval.Diagnostic
		if errors.As(err, &d) {
			renderDiagnostic(r.diag, name, src, d)
		}
		return err
	}
	level.Debug(r.logger).Log("msg", "parsed", "file", name, "bytes", len(src), "values", len(vs), "elapsed", elapsed)

	if r.cfg.Stats {
		printStats(r.out, name, src, vs, r.parser.ArenaStats(), elapsed)
		return nil
	}
	path := cursor.ParsePath(r.cfg.Path)
	for _, v := range vs {
		sel, err := cursor.Path(v, path...)
		if err != nil {
			return fmt.Errorf("path %q: %w", r.cfg.Path, err)
		}
		if err := r.printValue(sel); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) parse(src []byte) ([]jval.Value, error) {
	if r.cfg.All {
		return r.parser.ParseAll(src)
	}
	v, err := r.parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return []jval.Value{v}, nil
}

func (r *runner) printValue(v jval.Value) error {
	var buf []byte
	if r.cfg.Compact {
		buf = jval.AppendJSON(buf, v)
	} else {
		buf = jval.AppendIndent(buf, v, "", r.cfg.Indent)
	}
	_, err := r.out.Write(append(buf, '\n'))
	return err
}
