// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Program json2bson converts a stream of JSON objects to BSON documents.
//
// Usage:
//
//	json2bson [flags] [file ...]
//
// Input is read from the named files in order, or from stdin if none are
// given. Each top-level JSON object in the input becomes one output document.
// By default, documents are written as concatenated binary BSON. Use -format
// to write MongoDB Extended JSON instead, one document per line, or YAML.
// Use -compress to compress the complete output stream.
//
// With -jwcc, each input may contain comments and trailing commas, but must
// hold a single object.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/creachadair/bsontree"
	"github.com/creachadair/bsontree/jsonsrc"
	"go.mongodb.org/mongo-driver/bson"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			slog.Error("json2bson failed", "error", err)
		}
		os.Exit(1)
	}
}

type config struct {
	jwcc        bool
	useDecimal  bool
	format      string
	compress    string
	fingerprint bool
	verbose     bool
}

func (c *config) bind(fs *flag.FlagSet) {
	fs.BoolVar(&c.jwcc, "jwcc", false, "accept JWCC input (comments and trailing commas)")
	fs.BoolVar(&c.useDecimal, "decimal", false, "decode non-integer numbers as decimal128")
	fs.StringVar(&c.format, "format", "bson", "output format: bson, relaxed, canonical, or yaml")
	fs.StringVar(&c.compress, "compress", "none", "output compression: none, zstd, s2, or lz4")
	fs.BoolVar(&c.fingerprint, "fingerprint", false, "print a hash of each document instead of the document")
	fs.BoolVar(&c.verbose, "v", false, "enable verbose logging")
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("json2bson", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: json2bson [flags] [file ...]")
		fs.PrintDefaults()
	}
	var cfg config
	cfg.bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	switch cfg.format {
	case "bson", "relaxed", "canonical", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", cfg.format)
	}

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	buf := bufio.NewWriter(stdout)
	out, err := newCompressor(cfg.compress, buf)
	if err != nil {
		return err
	}
	if fs.NArg() == 0 {
		if err := convert(log, cfg, "<stdin>", stdin, out); err != nil {
			return err
		}
	}
	for _, path := range fs.Args() {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		err = convert(log, cfg, path, f, out)
		f.Close()
		if err != nil {
			return err
		}
	}
	if err := out.Close(); err != nil {
		return err
	}
	return buf.Flush()
}

// convert decodes every document from r and writes each to w in the format
// selected by cfg.
func convert(log *slog.Logger, cfg config, name string, r io.Reader, w io.Writer) error {
	rd, err := newReader(cfg, r)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	docs, err := jsonsrc.DecodeAll(rd)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	log.Debug("decoded input", "source", name, "documents", len(docs))

	for i, doc := range docs {
		data, err := encode(cfg, doc)
		if err != nil {
			return fmt.Errorf("%s: document %d: %w", name, i+1, err)
		}
		log.Debug("encoded document", "source", name, "index", i+1, "fields", len(doc), "bytes", len(data))
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}

func newReader(cfg config, r io.Reader) (*jsonsrc.Reader, error) {
	var rd *jsonsrc.Reader
	if cfg.jwcc {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		rd, err = jsonsrc.NewJWCCReader(data)
		if err != nil {
			return nil, err
		}
	} else {
		rd = jsonsrc.NewReader(r)
	}
	rd.UseDecimal(cfg.useDecimal)
	return rd, nil
}

// encode renders doc in the output format selected by cfg.
func encode(cfg config, doc bson.D) ([]byte, error) {
	if cfg.fingerprint {
		fp, err := bsontree.Fingerprint(doc)
		if err != nil {
			return nil, err
		}
		return fmt.Appendf(nil, "%016x\n", fp), nil
	}
	if cfg.format == "bson" {
		return bsontree.Marshal(doc)
	}
	nd, err := bsontree.Normalize(doc)
	if err != nil {
		return nil, err
	}
	if cfg.format == "yaml" {
		return marshalYAML(nd)
	}
	data, err := bson.MarshalExtJSON(nd, cfg.format == "canonical", false)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
