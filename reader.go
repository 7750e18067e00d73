// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bsontree

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
)

// Token is the type of a structural event reported by a Reader.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid     Token = iota // no current event
	BeginObject              // start of a document
	EndObject                // end of a document
	BeginArray               // start of an array
	EndArray                 // end of an array
	FieldName                // name of the next document field
	String                   // string value
	Integer                  // integer value; see NumberKind
	Number                   // non-integer number value; see NumberKind
	True                     // constant: true
	False                    // constant: false
	Null                     // constant: null
	Embedded                 // opaque pre-built value
)

var tokenStr = [...]string{
	Invalid:     "invalid token",
	BeginObject: "begin object",
	EndObject:   "end object",
	BeginArray:  "begin array",
	EndArray:    "end array",
	FieldName:   "field name",
	String:      "string",
	Integer:     "integer",
	Number:      "number",
	True:        "true",
	False:       "false",
	Null:        "null",
	Embedded:    "embedded value",
}

func (t Token) String() string {
	if int(t) >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[t]
}

// isValueStart reports whether t begins a value.
func (t Token) isValueStart() bool { return t != Invalid && t != EndObject && t != EndArray && t != FieldName }

// NumberKind is the declared representation of a numeric event.
type NumberKind byte

// Constants defining the valid NumberKind values. Int32, Int64, and BigInt
// apply to Integer events; Float32, Float64, and Decimal to Number events.
const (
	Int32   NumberKind = iota // 32-bit signed integer
	Int64                     // 64-bit signed integer
	BigInt                    // arbitrary-precision integer
	Float32                   // 32-bit floating point
	Float64                   // 64-bit floating point
	Decimal                   // arbitrary-precision decimal
)

func (k NumberKind) String() string {
	switch k {
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case BigInt:
		return "big.Int"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Decimal:
		return "decimal"
	default:
		return fmt.Sprintf("NumberKind(%d)", byte(k))
	}
}

// A Reader is a pull-style source of structural events. Each call to Next
// advances to the next event, whose type is reported by Token. The payload
// methods are only meaningful for the corresponding event type.
type Reader interface {
	// Next advances to the next event. At the end of input, Next returns io.EOF.
	Next() error

	// Token reports the type of the current event.
	Token() Token

	// Name returns the field name of a FieldName event.
	Name() string

	// Text returns the value of a String event.
	Text() string

	// NumberKind reports the declared representation of an Integer or Number.
	NumberKind() NumberKind

	Int64() int64             // value of an Int32 or Int64 integer
	BigInt() *big.Int         // value of a BigInt integer
	Float64() float64         // value of a Float32 or Float64 number
	Decimal() decimal.Decimal // value of a Decimal number

	// Embedded returns the value of an Embedded event.
	Embedded() any
}

// CopyEvent replays the current event of r into b.
func (b *Builder) CopyEvent(r Reader) error {
	switch tok := r.Token(); tok {
	case BeginObject:
		return b.BeginObject()
	case EndObject:
		return b.EndObject()
	case BeginArray:
		return b.BeginArray()
	case EndArray:
		return b.EndArray()
	case FieldName:
		return b.WriteFieldName(r.Name())
	case String:
		return b.WriteString(r.Text())
	case Integer:
		switch r.NumberKind() {
		case Int32:
			v := r.Int64()
			if v < math.MinInt32 || v > math.MaxInt32 {
				return b.fail(stateErrorf("CopyEvent", "value %d out of range for %v", v, Int32))
			}
			return b.WriteInt32(int32(v))
		case BigInt:
			return b.WriteBigInt(r.BigInt())
		default:
			return b.WriteInt64(r.Int64())
		}
	case Number:
		switch r.NumberKind() {
		case Decimal:
			return b.WriteDecimal(r.Decimal())
		case Float32:
			return b.WriteFloat32(float32(r.Float64()))
		default:
			return b.WriteFloat64(r.Float64())
		}
	case True, False:
		return b.WriteBool(tok == True)
	case Null:
		return b.WriteNull()
	case Embedded:
		return b.WriteObject(r.Embedded())
	default:
		return b.fail(stateErrorf("CopyEvent", "cannot copy %v", tok))
	}
}

// CopyStructure replays one complete value from r into b, beginning with the
// current event of r. If the current event is a field name, the name and its
// value are both copied. For an object or array, r is advanced through the
// matching end event. On success, the current event of r is the last event of
// the copied value.
//
// CopyStructure recurses on nested values, so the depth of the input is
// limited by the call stack.
func (b *Builder) CopyStructure(r Reader) error {
	const op = "CopyStructure"
	if r.Token() == FieldName {
		name := r.Name()
		if err := b.CopyEvent(r); err != nil {
			return err
		}
		if err := advance(r); errors.Is(err, io.ErrUnexpectedEOF) {
			se := stateErrorf(op, "field name %q has no value", name)
			se.err = err
			return b.fail(se)
		} else if err != nil {
			return b.fail(fmt.Errorf("%s: %w", op, err))
		} else if tok := r.Token(); !tok.isValueStart() {
			return b.fail(stateErrorf(op, "field name followed by %v", tok))
		}
	}

	var end Token
	switch r.Token() {
	case BeginObject:
		end = EndObject
	case BeginArray:
		end = EndArray
	default:
		return b.CopyEvent(r)
	}
	if err := b.CopyEvent(r); err != nil {
		return err
	}
	for {
		if err := advance(r); err != nil {
			return b.fail(fmt.Errorf("%s: %w", op, err))
		}
		if r.Token() == end {
			return b.CopyEvent(r)
		} else if err := b.CopyStructure(r); err != nil {
			return err
		}
	}
}

// advance calls r.Next, treating the end of input as unexpected.
func advance(r Reader) error {
	if err := r.Next(); errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	} else if err != nil {
		return err
	}
	return nil
}

// Build advances r to its first event and copies one complete document from
// it into a new Builder, returning the finished document. It returns io.EOF
// if r has no further events.
func Build(r Reader) (bson.D, error) {
	if err := r.Next(); err != nil {
		return nil, err
	}
	b := New()
	if err := b.CopyStructure(r); err != nil {
		return nil, err
	}
	return b.Finish()
}
