// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bsontree

import (
	"math/big"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go4.org/mem"
)

// A Builder consumes structural events and constructs the document they
// describe. The zero value is ready for use, but a Builder must not be reused
// once its document is complete; construct a new one for each document.
//
// A Builder is not safe for concurrent use.
//
// When a Builder method reports an error, the builder is unusable and every
// subsequent call reports the same error. A partial tree is never returned.
type Builder struct {
	stk    []container // open containers; the enclosing container is below
	root   any         // the finished root value, once the outermost container ends
	opened bool        // whether a root container was ever opened
	closed bool
	err    error
}

// New constructs a new empty Builder.
func New() *Builder { return new(Builder) }

// Depth reports the number of containers currently open.
func (b *Builder) Depth() int { return len(b.stk) }

// Closed reports whether b has been closed, either by Close or Finish.
func (b *Builder) Closed() bool { return b.closed }

// Close marks b as closed. Any later event reports an error.
func (b *Builder) Close() error { b.closed = true; return nil }

// Result returns the finished root value, or nil if the root container has not
// yet ended. The result is a bson.D for an object root, bson.A for an array.
func (b *Builder) Result() any {
	if b.err != nil || len(b.stk) != 0 {
		return nil
	}
	return b.root
}

// Finish returns the finished root document and marks b closed. It is safe to
// call Finish more than once; subsequent calls return the same document.
//
// Finish reports a *StateError if no object was ever opened, if containers
// remain open, or if the root is an array rather than a document.
func (b *Builder) Finish() (bson.D, error) {
	const op = "Finish"
	if b.err != nil {
		return nil, b.err
	} else if !b.opened {
		return nil, b.fail(stateErrorf(op, "no document was started"))
	} else if n := len(b.stk); n != 0 {
		return nil, b.fail(stateErrorf(op, "%d containers still open", n))
	}
	doc, ok := b.root.(bson.D)
	if !ok {
		return nil, b.fail(stateErrorf(op, "root is %T, not a document", b.root))
	}
	b.closed = true
	return doc, nil
}

// MustFinish returns the result of Finish, and panics if Finish reports an
// error. It is intended for tests and fixed event sequences.
func (b *Builder) MustFinish() bson.D {
	doc, err := b.Finish()
	if err != nil {
		panic(err)
	}
	return doc
}

// BeginObject opens a new document. The first container opened is the root.
func (b *Builder) BeginObject() error { return b.begin("BeginObject", newMapNode()) }

// EndObject closes the innermost open document, which becomes a value of the
// enclosing container.
func (b *Builder) EndObject() error { return b.end("EndObject", false) }

// BeginArray opens a new array.
func (b *Builder) BeginArray() error { return b.begin("BeginArray", newListNode()) }

// EndArray closes the innermost open array, which becomes a value of the
// enclosing container.
func (b *Builder) EndArray() error { return b.end("EndArray", true) }

// WriteFieldName sets the name under which the next value is stored in the
// innermost open document. The innermost container must be a document.
func (b *Builder) WriteFieldName(name string) error {
	const op = "WriteFieldName"
	if err := b.check(op); err != nil {
		return err
	}
	switch t := b.top().(type) {
	case nil:
		return b.fail(b.noContainer(op))
	case *mapNode:
		t.setName(name)
		return nil
	default:
		return b.fail(stateErrorf(op, "field name %q inside an array", name))
	}
}

// WriteString writes a string value.
func (b *Builder) WriteString(s string) error { return b.write("WriteString", s) }

// WriteStringBytes writes a string value from UTF-8 encoded text. The text is
// copied, so the caller may reuse the slice.
func (b *Builder) WriteStringBytes(text []byte) error {
	return b.write("WriteStringBytes", mem.B(text).StringCopy())
}

// WriteInt32 writes a 32-bit integer value.
func (b *Builder) WriteInt32(v int32) error { return b.write("WriteInt32", v) }

// WriteInt64 writes a 64-bit integer value.
func (b *Builder) WriteInt64(v int64) error { return b.write("WriteInt64", v) }

// WriteBigInt writes an arbitrary-precision integer value. The value is
// copied. A nil v is written as null.
func (b *Builder) WriteBigInt(v *big.Int) error {
	if v == nil {
		return b.write("WriteBigInt", nil)
	}
	return b.write("WriteBigInt", new(big.Int).Set(v))
}

// WriteFloat32 writes a 32-bit floating-point value.
func (b *Builder) WriteFloat32(v float32) error { return b.write("WriteFloat32", v) }

// WriteFloat64 writes a 64-bit floating-point value.
func (b *Builder) WriteFloat64(v float64) error { return b.write("WriteFloat64", v) }

// WriteDecimal writes an arbitrary-precision decimal value.
func (b *Builder) WriteDecimal(v decimal.Decimal) error { return b.write("WriteDecimal", v) }

// WriteBool writes a Boolean value.
func (b *Builder) WriteBool(v bool) error { return b.write("WriteBool", v) }

// WriteNull writes a null value.
func (b *Builder) WriteNull() error { return b.write("WriteNull", nil) }

// WriteBinary writes a copy of data as a binary value.
func (b *Builder) WriteBinary(data []byte) error {
	return b.write("WriteBinary", append([]byte{}, data...))
}

// WriteObject writes v as an opaque value, stored exactly as given.
func (b *Builder) WriteObject(v any) error { return b.write("WriteObject", v) }

// WriteNumber writes the pre-encoded numeric text as a string value.
func (b *Builder) WriteNumber(text string) error { return b.write("WriteNumber", text) }

// WriteRawValue writes the text of a fully-formed scalar as a string value.
func (b *Builder) WriteRawValue(text string) error { return b.write("WriteRawValue", text) }

// WriteRaw reports ErrUnsupported: raw unparsed text has no representation in
// a typed document tree.
func (b *Builder) WriteRaw(text string) error {
	if err := b.check("WriteRaw"); err != nil {
		return err
	}
	return b.fail(unsupported("WriteRaw"))
}

// WriteTree reports ErrUnsupported. Use WriteObject to store a pre-built
// value, or CopyStructure to replay one.
func (b *Builder) WriteTree(v any) error {
	if err := b.check("WriteTree"); err != nil {
		return err
	}
	return b.fail(unsupported("WriteTree"))
}

func (b *Builder) top() container {
	if len(b.stk) == 0 {
		return nil
	}
	return b.stk[len(b.stk)-1]
}

func (b *Builder) fail(err error) error { b.err = err; return err }

// check reports an error if b cannot accept further events.
func (b *Builder) check(op string) error {
	if b.err != nil {
		return b.err
	} else if b.closed {
		return b.fail(stateErrorf(op, "builder is closed"))
	}
	return nil
}

func (b *Builder) noContainer(op string) error {
	if b.opened {
		return stateErrorf(op, "document is already complete")
	}
	return stateErrorf(op, "no open container")
}

func (b *Builder) begin(op string, c container) error {
	if err := b.check(op); err != nil {
		return err
	}
	if top := b.top(); top != nil {
		if err := top.ready(op); err != nil {
			return b.fail(err)
		}
	} else if b.opened {
		return b.fail(b.noContainer(op))
	} else {
		b.opened = true
	}
	b.stk = append(b.stk, c)
	return nil
}

func (b *Builder) end(op string, isList bool) error {
	if err := b.check(op); err != nil {
		return err
	}
	top := b.top()
	switch top.(type) {
	case nil:
		return b.fail(b.noContainer(op))
	case *listNode:
		if !isList {
			return b.fail(stateErrorf(op, "innermost open container is an array"))
		}
	case *mapNode:
		if isList {
			return b.fail(stateErrorf(op, "innermost open container is a document"))
		}
	}

	b.stk = b.stk[:len(b.stk)-1]
	v := top.finish()
	if parent := b.top(); parent != nil {
		if err := parent.store(op, v); err != nil {
			return b.fail(err)
		}
		return nil
	}
	b.root = v
	return nil
}

func (b *Builder) write(op string, v any) error {
	if err := b.check(op); err != nil {
		return err
	}
	top := b.top()
	if top == nil {
		return b.fail(b.noContainer(op))
	} else if err := top.store(op, v); err != nil {
		return b.fail(err)
	}
	return nil
}
