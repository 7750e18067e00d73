// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package bsontree materializes streams of structural document events into
// ordered BSON document trees.
//
// # Building
//
// The Builder type consumes one event per method call and constructs the
// document the events describe. Documents are built as bson.D values, which
// preserve the order in which fields were written, and arrays as bson.A:
//
//	b := bsontree.New()
//	b.BeginObject()
//	b.WriteFieldName("a")
//	b.WriteInt32(1)
//	b.WriteFieldName("b")
//	b.BeginArray()
//	b.WriteString("x")
//	b.WriteBool(true)
//	b.EndArray()
//	b.EndObject()
//	doc, err := b.Finish() // bson.D{{"a", int32(1)}, {"b", bson.A{"x", true}}}
//
// Scalar values are stored with the Go type of the method that wrote them, so
// the declared kind of a number survives in the finished tree:
//
//	Method        | Stored type
//	------------- | ---------------------------
//	WriteInt32    | int32
//	WriteInt64    | int64
//	WriteBigInt   | *big.Int
//	WriteFloat32  | float32
//	WriteFloat64  | float64
//	WriteDecimal  | decimal.Decimal
//	WriteBinary   | []byte
//	WriteObject   | the value as given
//
// # Copying
//
// A Reader is a pull-style source of events, such as the JSON reader in the
// jsonsrc package. CopyEvent replays the current event of a Reader, and
// CopyStructure replays one complete value:
//
//	if err := r.Next(); err != nil {
//	   return err
//	}
//	if err := b.CopyStructure(r); err != nil {
//	   return err
//	}
//
// The DocReader type reports the events of a finished document, so a tree
// built by a Builder can be replayed into another.
//
// # Errors
//
// An operation invoked in a state with no defined target, such as writing a
// value with no open container or a field name inside an array, reports an
// error of concrete type *StateError. Writing raw text reports ErrUnsupported.
// Errors are fatal: once a Builder reports an error, every later call reports
// the same error and no partial document is returned.
//
// # Storing
//
// Normalize converts the builder-only scalar types (*big.Int,
// decimal.Decimal, float32, []byte) to BSON equivalents, and Marshal encodes
// the result for a document store.
package bsontree
