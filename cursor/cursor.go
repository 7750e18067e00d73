// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements traversal over a document tree.
package cursor

import (
	"fmt"
	"slices"

	"go.mongodb.org/mongo-driver/bson"
)

// Path traverses a sequential path into the structure of v where path elements
// are as documented for the Cursor.Down method.  This is a convenience wrapper
// for creating a cursor, applying path, and retrieving its value.
func Path[T any](v any, path ...any) (T, error) {
	c := New(v).Down(path...)
	var result T
	if err := c.Err(); err != nil {
		return result, err
	}
	cur := c.Value()
	if e, ok := cur.(bson.E); ok {
		if _, want := any(result).(bson.E); !want {
			cur = e.Value
		}
	}
	out, ok := cur.(T)
	if !ok {
		return result, fmt.Errorf("wrong value type %T", cur)
	}
	return out, nil
}

// A Cursor is a pointer that navigates into the structure of a document tree,
// whose containers are bson.D and bson.A values.
type Cursor struct {
	org any
	stk []any
	err error
}

// New constructs a new Cursor to traverse the structure of origin.
func New(origin any) *Cursor { return &Cursor{org: origin} }

// Origin returns the origin value of c.
func (c *Cursor) Origin() any { return c.org }

// AtOrigin reports whether c is at its origin.
func (c *Cursor) AtOrigin() bool { return len(c.stk) == 0 }

// Value reports the current value under the cursor. If the last step selected
// a document field by position, the value is a bson.E.
func (c *Cursor) Value() any {
	if c.AtOrigin() {
		return c.org
	}
	return c.stk[len(c.stk)-1]
}

// Path reports the complete sequence of values from the origin to the current
// location in c.
func (c *Cursor) Path() []any {
	return append([]any{c.org}, c.stk...)
}

// Err reports the error from the most recent traversal operation, if any.
func (c *Cursor) Err() error { return c.err }

// Up moves the cursor one position upward in the structure, if possible.
// It returns c to permit chaining.
func (c *Cursor) Up() *Cursor {
	if n := len(c.stk); n > 0 {
		c.stk = c.stk[:n-1]
	}
	return c
}

// Reset resets the cursor to its origin and clears its error.
func (c *Cursor) Reset() { c.stk = c.stk[:0]; c.err = nil }

// Down traverses a sequential path into the structure of c starting from the
// current value, where path elements are either strings (denoting field
// names), integers (denoting offsets into arrays and documents), functions
// (see below), or nil.  If the path cannot be completely consumed, traversal
// stops and an error is recorded. Use Err to recover the error.
//
// If a path element is a string, the corresponding value must be a bson.D,
// and the string resolves to the value of the first field with that name.
//
// If a path element is an integer, the corresponding value must be a bson.A
// or bson.D. For an array, the integer resolves to the element at that
// index. For a document, it resolves to the field (a bson.E) at that
// position; subsequent path elements continue from the value of the field.
// Use a nil path element to resolve a field to its value at the end of a path.
// Negative indices count backward from the end (-1 is last, -2 second last).
// An error is reported if the index is out of bounds.
//
// If a path element is a function, the function is executed and its result
// becomes the next value in the sequence. The function must have a signature
//
//	func(any) (any, error)
//
// If the function reports an error, traversal stops and the error is recorded.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil // reset error
	cur := c.Value()
	for _, elt := range path {
		// If the previous step ended on a document field, interpret the next
		// path element relative to the value of that field.
		if e, ok := cur.(bson.E); ok {
			cur = c.push(e.Value)
		}

		switch t := elt.(type) {
		case string:
			d, ok := cur.(bson.D)
			if !ok {
				return c.setErrorf("cannot traverse %T with %q", cur, elt)
			}
			i := slices.IndexFunc(d, func(e bson.E) bool { return e.Key == t })
			if i < 0 {
				return c.setErrorf("key %q not found", t)
			}
			cur = c.push(d[i].Value)

		case int:
			switch e := cur.(type) {
			case bson.A:
				i, ok := fixArrayBound(len(e), t)
				if !ok {
					return c.setErrorf("array index %d out of bounds (n=%d)", i, len(e))
				}
				cur = c.push(e[i])
			case bson.D:
				i, ok := fixArrayBound(len(e), t)
				if !ok {
					return c.setErrorf("document index %d out of bounds (n=%d)", i, len(e))
				}
				cur = c.push(e[i])
			default:
				return c.setErrorf("cannot traverse %T with %v", cur, elt)
			}

		case func(any) (any, error):
			next, err := t(cur)
			if err != nil {
				c.err = err
				return c
			}
			cur = c.push(next)

		case nil:
			// Do nothing. This case supports indirecting through a field at the
			// end of the path.

		default:
			return c.setErrorf("invalid path element %T", elt)
		}
	}
	return c
}

func (c *Cursor) push(v any) any { c.stk = append(c.stk, v); return v }

func (c *Cursor) setErrorf(msg string, args ...any) *Cursor {
	c.err = fmt.Errorf(msg, args...)
	return c
}

func fixArrayBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
