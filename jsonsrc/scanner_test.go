// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jsonsrc_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/creachadair/bsontree/jsonsrc"
	"github.com/google/go-cmp/cmp"
)

// scanAll returns the tokens of input, and the error that ended the scan if
// it was not io.EOF.
func scanAll(input string) ([]jsonsrc.Token, error) {
	var got []jsonsrc.Token
	s := jsonsrc.NewScanner(strings.NewReader(input))
	for {
		err := s.Next()
		if err == io.EOF {
			return got, nil
		} else if err != nil {
			return got, err
		}
		got = append(got, s.Token())
	}
}

func TestScanner(t *testing.T) {
	tests := []struct {
		input string
		want  []jsonsrc.Token
	}{
		// Empty inputs
		{"", nil},
		{"  ", nil},
		{"\n\n  \n", nil},
		{"\t  \r\n \t  \r\n", nil},

		// Constants
		{"true false null", []jsonsrc.Token{jsonsrc.True, jsonsrc.False, jsonsrc.Null}},

		// Punctuation
		{"{ [ ] } , :", []jsonsrc.Token{
			jsonsrc.LBrace, jsonsrc.LSquare, jsonsrc.RSquare, jsonsrc.RBrace, jsonsrc.Comma, jsonsrc.Colon,
		}},

		// Strings
		{`"" "a b c" "a\nb\tc"`, []jsonsrc.Token{jsonsrc.String, jsonsrc.String, jsonsrc.String}},
		{`"\"\\\/\b\f\n\r\t"`, []jsonsrc.Token{jsonsrc.String}},
		{`"\u0000\u01fc\uAA9c"`, []jsonsrc.Token{jsonsrc.String}},

		// Numbers
		{`0 -1 5139 2.3 5e+9 3.6E+4 -0.001E-100 1e5`, []jsonsrc.Token{
			jsonsrc.Integer, jsonsrc.Integer, jsonsrc.Integer,
			jsonsrc.Number, jsonsrc.Number, jsonsrc.Number, jsonsrc.Number, jsonsrc.Number,
		}},

		// Mixed types
		{`{"a": true, "b":[null, 1, 0.5]}`, []jsonsrc.Token{
			jsonsrc.LBrace,
			jsonsrc.String, jsonsrc.Colon, jsonsrc.True, jsonsrc.Comma,
			jsonsrc.String, jsonsrc.Colon,
			jsonsrc.LSquare,
			jsonsrc.Null, jsonsrc.Comma, jsonsrc.Integer, jsonsrc.Comma, jsonsrc.Number,
			jsonsrc.RSquare,
			jsonsrc.RBrace,
		}},
		{`"a",1,true
       false["b"]
       `, []jsonsrc.Token{
			jsonsrc.String, jsonsrc.Comma, jsonsrc.Integer, jsonsrc.Comma, jsonsrc.True,
			jsonsrc.False, jsonsrc.LSquare, jsonsrc.String, jsonsrc.RSquare,
		}},
	}

	for _, test := range tests {
		got, err := scanAll(test.input)
		if err != nil {
			t.Errorf("Next failed: %v", err)
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestScannerErrors(t *testing.T) {
	tests := []struct {
		input string
		eof   bool // error should be io.ErrUnexpectedEOF
	}{
		{`"what did you`, true},
		{`"abc\`, true},
		{`-`, true},
		{`1.`, false},
		{`1e+`, false},
		{`01`, false},
		{`-00`, false},
		{`forthright`, false},
		{`nul`, false},
		{`@`, false},
		{"\"a\x01b\"", false},
		{`"\q"`, false},
		{`"\u12x4"`, false},
		{"\"\xff\"", false},
	}
	for _, test := range tests {
		_, err := scanAll(test.input)
		if err == nil {
			t.Errorf("Input: %#q: got no error, want error", test.input)
			continue
		}
		if got := errors.Is(err, io.ErrUnexpectedEOF); got != test.eof {
			t.Errorf("Input: %#q: error %v: unexpected EOF is %v, want %v", test.input, err, got, test.eof)
		}
	}
}

func TestScannerText(t *testing.T) {
	const input = `{"a\tb": -0.5e3}`
	want := []string{`{`, `"a\tb"`, `:`, `-0.5e3`, `}`}

	var got []string
	s := jsonsrc.NewScanner(strings.NewReader(input))
	for s.Next() == nil {
		got = append(got, string(s.Text()))
	}
	if s.Err() != io.EOF {
		t.Errorf("Err: got %v, want %v", s.Err(), io.EOF)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Text: (-want, +got)\n%s", diff)
	}
}

func TestScannerLoc(t *testing.T) {
	type tokPos struct {
		Tok jsonsrc.Token
		Pos string
	}
	tests := []struct {
		input string
		want  []tokPos
	}{
		{"", nil},
		{"{ }", []tokPos{{jsonsrc.LBrace, "1:0-1"}, {jsonsrc.RBrace, "1:2-3"}}},
		{`"foo" 15`, []tokPos{{jsonsrc.String, "1:0-5"}, {jsonsrc.Integer, "1:6-8"}}},
		{"\ntrue\n false\n", []tokPos{{jsonsrc.True, "2:0-4"}, {jsonsrc.False, "3:1-6"}}},
		{"[1,\n 2\n]", []tokPos{
			{jsonsrc.LSquare, "1:0-1"}, {jsonsrc.Integer, "1:1-2"}, {jsonsrc.Comma, "1:2-3"},
			{jsonsrc.Integer, "2:1-2"}, {jsonsrc.RSquare, "3:0-1"},
		}},
	}
	for _, tc := range tests {
		var got []tokPos
		s := jsonsrc.NewScanner(strings.NewReader(tc.input))
		for s.Next() == nil {
			got = append(got, tokPos{s.Token(), s.Location().String()})
		}
		if s.Err() != io.EOF {
			t.Errorf("Next failed: %v", s.Err())
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", tc.input, diff)
		}
	}
}
