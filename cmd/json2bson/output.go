// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"encoding/base64"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// newCompressor returns a writer that compresses its input to w with the
// named algorithm. The caller must close the writer to flush its output;
// closing does not close w.
func newCompressor(name string, w io.Writer) (io.WriteCloser, error) {
	switch name {
	case "none":
		return nopCloser{w}, nil
	case "zstd":
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	case "s2":
		return s2.NewWriter(w), nil
	case "lz4":
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown compression %q", name)
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// toYAML converts a normalized document into a value that YAML encodes with
// the same field order.
func toYAML(v any) any {
	switch t := v.(type) {
	case bson.D:
		out := make(yaml.MapSlice, len(t))
		for i, e := range t {
			out[i] = yaml.MapItem{Key: e.Key, Value: toYAML(e.Value)}
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, elt := range t {
			out[i] = toYAML(elt)
		}
		return out
	case primitive.Decimal128:
		return t.String()
	case primitive.Binary:
		return base64.StdEncoding.EncodeToString(t.Data)
	default:
		return v
	}
}

func marshalYAML(doc bson.D) ([]byte, error) {
	data, err := yaml.Marshal(toYAML(doc))
	if err != nil {
		return nil, err
	}
	return append([]byte("---\n"), data...), nil
}
