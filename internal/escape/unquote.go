// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package escape decodes the contents of JSON string literals.
package escape

import (
	"errors"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

var simpleEsc = [256]byte{
	'"':  '"',
	'\\': '\\',
	'/':  '/',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
}

// Unquote decodes the body of a JSON string literal, with the enclosing
// double quotation marks already removed, and returns the result as a string.
//
// Escape sequences are replaced with their unescaped equivalents, and a
// UTF-16 surrogate pair written as two \u escapes is combined into a single
// rune. Invalid escapes and unpaired surrogates are replaced by the Unicode
// replacement rune. Unquote reports an error for an incomplete escape.
func Unquote(src mem.RO) (string, error) {
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		return src.StringCopy(), nil // fast path: nothing to decode
	}

	dec := make([]byte, 0, src.Len())
	for i >= 0 {
		dec = mem.Append(dec, src.SliceTo(i))
		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return "", errors.New("incomplete escape sequence")
		}

		c := src.At(0)
		src = src.SliceFrom(1)
		if c != 'u' {
			if r := simpleEsc[c]; r != 0 {
				dec = append(dec, r)
			} else {
				dec = utf8.AppendRune(dec, utf8.RuneError)
			}
		} else {
			r, rest, err := unicodeEscape(src)
			if err != nil {
				return "", err
			}
			dec = utf8.AppendRune(dec, r)
			src = rest
		}
		i = mem.IndexByte(src, '\\')
	}
	return string(mem.Append(dec, src)), nil
}

// unicodeEscape decodes the four hex digits following "\u" at the front of
// src, plus a trailing low surrogate if the first escape is a high surrogate.
// It returns the decoded rune and the remaining input.
func unicodeEscape(src mem.RO) (rune, mem.RO, error) {
	if src.Len() < 4 {
		return 0, src, errors.New("incomplete Unicode escape")
	}
	hi, ok := parseHex4(src)
	src = src.SliceFrom(4)
	if !ok {
		return utf8.RuneError, src, nil
	} else if !utf16.IsSurrogate(hi) {
		return hi, src, nil
	}

	// A high surrogate should be followed by "\uXXXX" with a low surrogate.
	if src.Len() >= 6 && src.At(0) == '\\' && src.At(1) == 'u' {
		if lo, ok := parseHex4(src.SliceFrom(2)); ok {
			if r := utf16.DecodeRune(hi, lo); r != utf8.RuneError {
				return r, src.SliceFrom(6), nil
			}
		}
	}
	return utf8.RuneError, src, nil
}

func parseHex4(src mem.RO) (rune, bool) {
	var v rune
	for i := range 4 {
		b := src.At(i)
		switch {
		case '0' <= b && b <= '9':
			b -= '0'
		case 'a' <= b && b <= 'f':
			b -= 'a' - 10
		case 'A' <= b && b <= 'F':
			b -= 'A' - 10
		default:
			return 0, false
		}
		v = v<<4 | rune(b)
	}
	return v, true
}
