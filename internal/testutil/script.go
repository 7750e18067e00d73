// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package testutil defines support code for unit tests.
package testutil

import (
	"io"
	"math/big"

	"github.com/creachadair/bsontree"
	"github.com/shopspring/decimal"
)

// An Event is a single scripted event reported by a Script.
type Event struct {
	Token bsontree.Token
	Kind  bsontree.NumberKind // for Integer and Number
	Value any                 // payload: name, string, number, or embedded value
}

// Begin, End, and so on are shorthands for constructing Events.
func Begin() Event                 { return Event{Token: bsontree.BeginObject} }
func End() Event                   { return Event{Token: bsontree.EndObject} }
func BeginArray() Event            { return Event{Token: bsontree.BeginArray} }
func EndArray() Event              { return Event{Token: bsontree.EndArray} }
func Name(s string) Event          { return Event{Token: bsontree.FieldName, Value: s} }
func Str(s string) Event           { return Event{Token: bsontree.String, Value: s} }
func Int32(v int32) Event          { return Event{Token: bsontree.Integer, Kind: bsontree.Int32, Value: int64(v)} }
func Int64(v int64) Event          { return Event{Token: bsontree.Integer, Kind: bsontree.Int64, Value: v} }
func BigInt(v *big.Int) Event      { return Event{Token: bsontree.Integer, Kind: bsontree.BigInt, Value: v} }
func Float32(v float32) Event      { return Event{Token: bsontree.Number, Kind: bsontree.Float32, Value: float64(v)} }
func Float64(v float64) Event      { return Event{Token: bsontree.Number, Kind: bsontree.Float64, Value: v} }
func Decimal(v string) Event       { return Event{Token: bsontree.Number, Kind: bsontree.Decimal, Value: decimal.RequireFromString(v)} }
func Bool(v bool) Event            { return Event{Token: boolToken(v)} }
func Null() Event                  { return Event{Token: bsontree.Null} }
func Embed(v any) Event            { return Event{Token: bsontree.Embedded, Value: v} }
func Fail(err error) Event         { return Event{Token: bsontree.Invalid, Value: err} }
func Token(t bsontree.Token) Event { return Event{Token: t} }

func boolToken(v bool) bsontree.Token {
	if v {
		return bsontree.True
	}
	return bsontree.False
}

// A Script is a bsontree.Reader that reports a fixed sequence of events,
// which need not be well-formed. An event constructed by Fail causes Next to
// report its error instead.
type Script struct {
	events []Event
	pos    int // index of the current event, plus one
}

// NewScript constructs a Script that reports the given events in order.
func NewScript(events ...Event) *Script { return &Script{events: events} }

var _ bsontree.Reader = (*Script)(nil)

// Next advances s to the next scripted event.
func (s *Script) Next() error {
	if s.pos >= len(s.events) {
		return io.EOF
	}
	s.pos++
	if err, ok := s.cur().Value.(error); ok && s.cur().Token == bsontree.Invalid {
		return err
	}
	return nil
}

// Remaining reports the number of events not yet reported.
func (s *Script) Remaining() int { return len(s.events) - s.pos }

func (s *Script) cur() Event {
	if s.pos == 0 {
		return Event{}
	}
	return s.events[s.pos-1]
}

func (s *Script) Token() bsontree.Token           { return s.cur().Token }
func (s *Script) Name() string                    { v, _ := s.cur().Value.(string); return v }
func (s *Script) Text() string                    { v, _ := s.cur().Value.(string); return v }
func (s *Script) NumberKind() bsontree.NumberKind { return s.cur().Kind }
func (s *Script) Int64() int64                    { v, _ := s.cur().Value.(int64); return v }
func (s *Script) BigInt() *big.Int                { v, _ := s.cur().Value.(*big.Int); return v }
func (s *Script) Float64() float64                { v, _ := s.cur().Value.(float64); return v }
func (s *Script) Decimal() decimal.Decimal        { v, _ := s.cur().Value.(decimal.Decimal); return v }
func (s *Script) Embedded() any                   { return s.cur().Value }
