// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// runCLI runs the program with the given arguments and input, and returns
// its standard output and standard error.
func runCLI(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, strings.NewReader(input), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestBSON(t *testing.T) {
	out, _, err := runCLI(t, `{"a": 1, "b": [true, "x"]} {"c": null}`)
	require.NoError(t, err)

	data := []byte(out)
	var docs []bson.D
	for len(data) > 0 {
		raw, rest, ok := bsonNext(data)
		require.True(t, ok, "truncated BSON output")
		var doc bson.D
		require.NoError(t, bson.Unmarshal(raw, &doc))
		docs = append(docs, doc)
		data = rest
	}
	require.Len(t, docs, 2)
	require.Equal(t, "a", docs[0][0].Key)
	require.Equal(t, int32(1), docs[0][0].Value)
	require.Equal(t, bson.A{true, "x"}, docs[0][1].Value)
	require.Equal(t, bson.D{{Key: "c", Value: nil}}, docs[1])
}

// bsonNext splits the first length-prefixed BSON document from data.
func bsonNext(data []byte) (doc, rest []byte, ok bool) {
	if len(data) < 4 {
		return nil, nil, false
	}
	n := int(data[0]) | int(data[1])<<8 | int(data[2])<<16 | int(data[3])<<24
	if n < 5 || n > len(data) {
		return nil, nil, false
	}
	return data[:n], data[n:], true
}

func TestExtJSON(t *testing.T) {
	const input = `{"n": 1, "f": 2.5, "s": "hi"}`

	out, _, err := runCLI(t, input, "-format", "relaxed")
	require.NoError(t, err)
	require.Equal(t, `{"n":1,"f":2.5,"s":"hi"}`+"\n", out)

	out, _, err = runCLI(t, input, "-format", "canonical")
	require.NoError(t, err)
	require.Equal(t, `{"n":{"$numberInt":"1"},"f":{"$numberDouble":"2.5"},"s":"hi"}`+"\n", out)
}

func TestYAML(t *testing.T) {
	out, _, err := runCLI(t, `{"b": 1, "a": ["x", true], "d": 1e400} {"c": null}`, "-format", "yaml")
	require.NoError(t, err)

	docs := strings.Split(strings.TrimPrefix(out, "---\n"), "---\n")
	require.Len(t, docs, 2)
	require.True(t, strings.HasPrefix(docs[0], "b: 1\n"), "field order not preserved: %q", docs[0])
	require.Contains(t, docs[0], "- x")
	require.Contains(t, docs[0], "1E+400")
	require.Equal(t, "c: null\n", docs[1])
}

func TestCompress(t *testing.T) {
	const input = `{"a": "hello, world"} {"a": "hello, world"}`
	want, _, err := runCLI(t, input, "-format", "relaxed")
	require.NoError(t, err)

	tests := []struct {
		name   string
		reader func(io.Reader) (io.Reader, error)
	}{
		{"zstd", func(r io.Reader) (io.Reader, error) { return zstd.NewReader(r) }},
		{"s2", func(r io.Reader) (io.Reader, error) { return s2.NewReader(r), nil }},
		{"lz4", func(r io.Reader) (io.Reader, error) { return lz4.NewReader(r), nil }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := runCLI(t, input, "-format", "relaxed", "-compress", tc.name)
			require.NoError(t, err)
			require.NotEqual(t, want, out)

			r, err := tc.reader(strings.NewReader(out))
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.Equal(t, want, string(got))
		})
	}

	_, _, err = runCLI(t, input, "-compress", "gzip")
	require.ErrorContains(t, err, `unknown compression "gzip"`)
}

func TestDecimal(t *testing.T) {
	out, _, err := runCLI(t, `{"d": 0.1, "z": 12345678901234567890}`, "-decimal", "-format", "canonical")
	require.NoError(t, err)
	require.Equal(t, `{"d":{"$numberDecimal":"0.1"},"z":{"$numberDecimal":"12345678901234567890"}}`+"\n", out)
}

func TestJWCC(t *testing.T) {
	const input = `{
  // The answer.
  "x": 42,
}`
	_, _, err := runCLI(t, input, "-format", "relaxed")
	require.Error(t, err)

	out, _, err := runCLI(t, input, "-jwcc", "-format", "relaxed")
	require.NoError(t, err)
	require.Equal(t, `{"x":42}`+"\n", out)
}

func TestFingerprint(t *testing.T) {
	out, _, err := runCLI(t, `{"a": 1} {"a": 1} {"a": 2}`, "-fingerprint")
	require.NoError(t, err)

	lines := strings.Fields(out)
	require.Len(t, lines, 3)
	require.Len(t, lines[0], 16)
	require.Equal(t, lines[0], lines[1])
	require.NotEqual(t, lines[0], lines[2])
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "one.json")
	p2 := filepath.Join(dir, "two.json")
	require.NoError(t, os.WriteFile(p1, []byte(`{"file": 1}`), 0600))
	require.NoError(t, os.WriteFile(p2, []byte(`{"file": 2}`), 0600))

	out, stderr, err := runCLI(t, "ignored", "-v", "-format", "relaxed", p1, p2)
	require.NoError(t, err)
	require.Equal(t, "{\"file\":1}\n{\"file\":2}\n", out)
	require.Contains(t, stderr, "decoded input")
	require.Contains(t, stderr, "source="+p2)

	_, _, err = runCLI(t, "", filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		args  []string
		want  string
	}{
		{"BadFormat", `{}`, []string{"-format", "yaml"}, `unknown output format "yaml"`},
		{"Syntax", `{"a": }`, nil, `<stdin>: value 1: `},
		{"NotObject", `[1, 2]`, nil, `<stdin>: value 1: `},
		{"Range", `{"z": 1234567890123456789012345678901234567}`, nil, `<stdin>: document 1: field "z": `},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := runCLI(t, tc.input, tc.args...)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
			require.Empty(t, out)
		})
	}

	t.Run("Help", func(t *testing.T) {
		_, stderr, err := runCLI(t, "", "-help")
		require.ErrorIs(t, err, flag.ErrHelp)
		require.Contains(t, stderr, "Usage: json2bson")
	})
}
