// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bsontree

import (
	"io"
	"math/big"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
)

// A DocReader is a Reader that reports the events of a finished document,
// such as one returned by Builder.Finish. Values other than documents,
// arrays, and the scalar types written by a Builder are reported as Embedded.
type DocReader struct {
	doc  bson.D
	stk  []readFrame
	tok  Token
	name string
	val  any
	kind NumberKind

	started bool
}

var _ Reader = (*DocReader)(nil)

// readFrame is the read position within an open document or array.
type readFrame struct {
	doc   bson.D
	arr   bson.A
	isArr bool
	pos   int
	named bool // the name of doc[pos] has been reported
}

// NewDocReader constructs a DocReader for the events of doc. The caller must
// call Next to advance to the first event.
func NewDocReader(doc bson.D) *DocReader { return &DocReader{doc: doc} }

// Next satisfies part of the Reader interface.
func (r *DocReader) Next() error {
	if !r.started {
		r.started = true
		r.emit(r.doc)
		return nil
	} else if len(r.stk) == 0 {
		r.tok, r.val = Invalid, nil
		return io.EOF
	}

	top := &r.stk[len(r.stk)-1]
	if top.isArr {
		if top.pos == len(top.arr) {
			r.pop(EndArray)
			return nil
		}
		v := top.arr[top.pos]
		top.pos++
		r.emit(v)
		return nil
	}

	if top.pos == len(top.doc) {
		r.pop(EndObject)
		return nil
	} else if !top.named {
		top.named = true
		r.tok, r.name = FieldName, top.doc[top.pos].Key
		return nil
	}
	v := top.doc[top.pos].Value
	top.pos++
	top.named = false
	r.emit(v)
	return nil
}

func (r *DocReader) pop(tok Token) {
	r.stk = r.stk[:len(r.stk)-1]
	r.tok, r.val = tok, nil
}

// emit sets the current event to describe v, pushing a frame if v is a
// document or array.
func (r *DocReader) emit(v any) {
	r.val = v
	switch t := v.(type) {
	case bson.D:
		r.tok = BeginObject
		r.stk = append(r.stk, readFrame{doc: t})
	case bson.A:
		r.tok = BeginArray
		r.stk = append(r.stk, readFrame{arr: t, isArr: true})
	case string:
		r.tok = String
	case int32:
		r.tok, r.kind = Integer, Int32
	case int64:
		r.tok, r.kind = Integer, Int64
	case *big.Int:
		r.tok, r.kind = Integer, BigInt
	case float32:
		r.tok, r.kind = Number, Float32
	case float64:
		r.tok, r.kind = Number, Float64
	case decimal.Decimal:
		r.tok, r.kind = Number, Decimal
	case bool:
		if t {
			r.tok = True
		} else {
			r.tok = False
		}
	case nil:
		r.tok = Null
	default:
		r.tok = Embedded
	}
}

// Token satisfies part of the Reader interface.
func (r *DocReader) Token() Token { return r.tok }

// Name satisfies part of the Reader interface.
func (r *DocReader) Name() string { return r.name }

// Text satisfies part of the Reader interface.
func (r *DocReader) Text() string { s, _ := r.val.(string); return s }

// NumberKind satisfies part of the Reader interface.
func (r *DocReader) NumberKind() NumberKind { return r.kind }

// Int64 satisfies part of the Reader interface.
func (r *DocReader) Int64() int64 {
	switch t := r.val.(type) {
	case int32:
		return int64(t)
	case int64:
		return t
	}
	return 0
}

// BigInt satisfies part of the Reader interface.
func (r *DocReader) BigInt() *big.Int { z, _ := r.val.(*big.Int); return z }

// Float64 satisfies part of the Reader interface.
func (r *DocReader) Float64() float64 {
	switch t := r.val.(type) {
	case float32:
		return float64(t)
	case float64:
		return t
	}
	return 0
}

// Decimal satisfies part of the Reader interface.
func (r *DocReader) Decimal() decimal.Decimal { d, _ := r.val.(decimal.Decimal); return d }

// Embedded satisfies part of the Reader interface.
func (r *DocReader) Embedded() any { return r.val }
