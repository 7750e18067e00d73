// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jsonsrc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/creachadair/bsontree"
	"github.com/tailscale/hujson"
	"go.mongodb.org/mongo-driver/bson"
)

// ErrNoInput is reported by Decode when the input contains no values.
var ErrNoInput = errors.New("no input")

// NewJWCCReader constructs a Reader for a single value written in JSON With
// Commas and Comments (JWCC), also known as HuJSON. Comments and trailing
// commas are removed before scanning; since they are replaced by whitespace,
// source locations refer to the original text.
func NewJWCCReader(data []byte) (*Reader, error) {
	v, err := hujson.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse JWCC: %w", err)
	}
	v.Standardize()
	return NewReader(bytes.NewReader(v.Pack())), nil
}

// Decode reads a single JSON object from r and returns it as a document.
// Any input following the first value is not read.
func Decode(r io.Reader) (bson.D, error) {
	doc, err := bsontree.Build(NewReader(r))
	if errors.Is(err, io.EOF) {
		return nil, ErrNoInput
	}
	return doc, err
}

// DecodeAll returns the documents for each of the top-level values read from
// rd, which must all be objects. In case of error, the documents completed
// before the error are returned along with the error.
func DecodeAll(rd *Reader) ([]bson.D, error) {
	var docs []bson.D
	for {
		doc, err := bsontree.Build(rd)
		if errors.Is(err, io.EOF) {
			return docs, nil
		} else if err != nil {
			return docs, fmt.Errorf("value %d: %w", len(docs)+1, err)
		}
		docs = append(docs, doc)
	}
}
