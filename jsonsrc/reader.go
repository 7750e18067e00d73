// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jsonsrc

import (
	"fmt"
	"io"
	"math"
	"math/big"
	"slices"
	"strings"

	"github.com/creachadair/bsontree"
	"github.com/creachadair/bsontree/internal/escape"
	"github.com/shopspring/decimal"
	"go4.org/mem"
)

// A Reader is a pull-style structural reader for JSON text. It implements the
// bsontree.Reader interface, so its events can be copied into a Builder.
//
// The input may contain several top-level JSON values, separated by
// whitespace. Next returns io.EOF after the last value has been read.
//
// Integers are reported with the narrowest of the Int32, Int64, or BigInt
// kinds that holds their value. Other numbers are reported as Float64, or
// as Decimal if UseDecimal is enabled or the value is out of range for a
// float64.
type Reader struct {
	s   *Scanner
	stk []frame
	err error // sticky

	useDec bool

	tok  bsontree.Token
	text string // field name or string value
	kind bsontree.NumberKind
	i64  int64
	bigz *big.Int
	f64  float64
	dec  decimal.Decimal
}

var _ bsontree.Reader = (*Reader)(nil)

// A frame is the parse state of an open object or array.
type frame struct {
	isArr bool
	state state
}

type state byte

const (
	stOpen  state = iota // after "{" or "[": a member, element, or close
	stValue              // after a key: ":" then a value
	stNext               // after a member or element: "," or close
	stItem               // after ",": a member or element
)

// NewReader constructs a Reader that consumes JSON text from r.
func NewReader(r io.Reader) *Reader { return NewReaderWithScanner(NewScanner(r)) }

// NewReaderWithScanner constructs a Reader that consumes tokens from s.
func NewReaderWithScanner(s *Scanner) *Reader { return &Reader{s: s} }

// UseDecimal configures r to report non-integer numbers as arbitrary-precision
// decimals (true) or as float64 values (false). The default is false.
func (r *Reader) UseDecimal(ok bool) { r.useDec = ok }

// Location returns the source location of the current event.
func (r *Reader) Location() Location { return r.s.Location() }

// Depth reports the number of objects and arrays currently open.
func (r *Reader) Depth() int { return len(r.stk) }

// Next advances r to the next structural event. It returns io.EOF when the
// input is exhausted between top-level values. Any other error is fatal, and
// is reported by every subsequent call; a syntax error has concrete type
// *SyntaxError.
func (r *Reader) Next() error {
	if r.err != nil {
		return r.err
	}
	r.tok, r.text, r.bigz = bsontree.Invalid, "", nil
	if err := r.next(); err != nil {
		r.err = err
		return err
	}
	return nil
}

func (r *Reader) next() error {
	if len(r.stk) == 0 {
		if err := r.s.Next(); err == io.EOF {
			return err
		} else if err != nil {
			return r.syntaxError(err, "%v", err)
		}
		return r.value()
	}

	top := &r.stk[len(r.stk)-1]
	closer := RBrace
	if top.isArr {
		closer = RSquare
	}
	switch top.state {
	case stOpen:
		if top.isArr {
			tok, err := r.advance()
			if err != nil {
				return err
			} else if tok == RSquare {
				return r.pop()
			}
			return r.value()
		}
		tok, err := r.advance(RBrace, String)
		if err != nil {
			return err
		} else if tok == RBrace {
			return r.pop()
		}
		return r.key()

	case stValue:
		if _, err := r.advance(Colon); err != nil {
			return err
		} else if _, err := r.advance(); err != nil {
			return err
		}
		return r.value()

	case stNext:
		tok, err := r.advance(closer, Comma)
		if err != nil {
			return err
		} else if tok == closer {
			return r.pop()
		}
		top.state = stItem
		return r.next()

	case stItem:
		if top.isArr {
			if _, err := r.advance(); err != nil {
				return err
			}
			return r.value()
		}
		if _, err := r.advance(String); err != nil {
			return err
		}
		return r.key()
	}
	panic(fmt.Sprintf("invalid parse state %d", top.state))
}

// key reports the current String token as a field name.
func (r *Reader) key() error {
	name, err := r.unquote()
	if err != nil {
		return err
	}
	r.stk[len(r.stk)-1].state = stValue
	r.tok, r.text = bsontree.FieldName, name
	return nil
}

func (r *Reader) pop() error {
	if r.stk[len(r.stk)-1].isArr {
		r.tok = bsontree.EndArray
	} else {
		r.tok = bsontree.EndObject
	}
	r.stk = r.stk[:len(r.stk)-1]
	return nil
}

// value reports the current token as the start of a value.
func (r *Reader) value() error {
	if n := len(r.stk); n > 0 {
		r.stk[n-1].state = stNext
	}
	switch tok := r.s.Token(); tok {
	case LBrace:
		r.stk = append(r.stk, frame{})
		r.tok = bsontree.BeginObject
	case LSquare:
		r.stk = append(r.stk, frame{isArr: true})
		r.tok = bsontree.BeginArray
	case String:
		s, err := r.unquote()
		if err != nil {
			return err
		}
		r.tok, r.text = bsontree.String, s
	case Integer:
		r.tok = bsontree.Integer
		r.parseInteger(mem.B(r.s.Text()))
	case Number:
		r.tok = bsontree.Number
		return r.parseNumber(mem.B(r.s.Text()))
	case True:
		r.tok = bsontree.True
	case False:
		r.tok = bsontree.False
	case Null:
		r.tok = bsontree.Null
	default:
		return r.syntaxError(nil, "unexpected %v", tok)
	}
	return nil
}

func (r *Reader) parseInteger(text mem.RO) {
	v, err := mem.ParseInt(text, 10, 64)
	if err != nil {
		// The scanner guarantees the syntax, so the only failure is range.
		r.kind = bsontree.BigInt
		r.bigz, _ = new(big.Int).SetString(text.StringCopy(), 10)
		return
	}
	r.i64 = v
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		r.kind = bsontree.Int32
	} else {
		r.kind = bsontree.Int64
	}
}

func (r *Reader) parseNumber(text mem.RO) error {
	if !r.useDec {
		v, err := mem.ParseFloat(text, 64)
		if err == nil {
			r.kind, r.f64 = bsontree.Float64, v
			return nil
		}
	}
	d, err := decimal.NewFromString(text.StringCopy())
	if err != nil {
		return r.syntaxError(err, "invalid number %q", text.StringCopy())
	}
	r.kind, r.dec = bsontree.Decimal, d
	return nil
}

func (r *Reader) unquote() (string, error) {
	text := r.s.Text()
	s, err := escape.Unquote(mem.B(text[1 : len(text)-1]))
	if err != nil {
		return "", r.syntaxError(err, "invalid string: %v", err)
	}
	return s, nil
}

// advance reads the next token, which must be one of tokens if any are given.
func (r *Reader) advance(tokens ...Token) (Token, error) {
	if err := r.s.Next(); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return Invalid, r.syntaxError(err, "%s", tokLabel(tokens, "error: "+err.Error()))
	}
	tok := r.s.Token()
	if len(tokens) != 0 && !slices.Contains(tokens, tok) {
		return tok, r.syntaxError(nil, "%s", tokLabel(tokens, tok))
	}
	return tok, nil
}

func (r *Reader) syntaxError(err error, msg string, args ...any) error {
	return &SyntaxError{
		Location: r.s.Location().First,
		Message:  fmt.Sprintf(msg, args...),
		err:      err,
	}
}

// Token satisfies part of the bsontree.Reader interface.
func (r *Reader) Token() bsontree.Token { return r.tok }

// Name satisfies part of the bsontree.Reader interface.
func (r *Reader) Name() string { return r.text }

// Text satisfies part of the bsontree.Reader interface.
func (r *Reader) Text() string { return r.text }

// NumberKind satisfies part of the bsontree.Reader interface.
func (r *Reader) NumberKind() bsontree.NumberKind { return r.kind }

// Int64 satisfies part of the bsontree.Reader interface.
func (r *Reader) Int64() int64 { return r.i64 }

// BigInt satisfies part of the bsontree.Reader interface.
func (r *Reader) BigInt() *big.Int { return r.bigz }

// Float64 satisfies part of the bsontree.Reader interface.
func (r *Reader) Float64() float64 { return r.f64 }

// Decimal satisfies part of the bsontree.Reader interface.
func (r *Reader) Decimal() decimal.Decimal { return r.dec }

// Embedded satisfies part of the bsontree.Reader interface. JSON text has no
// embedded values, so it always returns nil.
func (r *Reader) Embedded() any { return nil }

// tokLabel makes a human-readable summary of the expected token types.
func tokLabel(tokens []Token, got any) string {
	if len(tokens) == 0 {
		return fmt.Sprintf("expected more input, got %v", got)
	}
	ss := make([]string, len(tokens))
	for i, tok := range tokens {
		ss[i] = tok.String()
	}
	exp := ss[len(ss)-1]
	if len(ss) > 1 {
		exp = strings.Join(ss[:len(ss)-1], ", ") + " or " + exp
	}
	return fmt.Sprintf("expected %s, got %v", exp, got)
}

// SyntaxError is the concrete type of errors reported for malformed input.
type SyntaxError struct {
	Location LineCol
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }
