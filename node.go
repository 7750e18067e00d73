// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bsontree

import "go.mongodb.org/mongo-driver/bson"

// A container is an open node on the build stack. The two implementations,
// *mapNode and *listNode, differ only in where a stored value goes.
type container interface {
	// store records v in the container, consuming any pending field name.
	store(op string, v any) error

	// ready reports an error if the container cannot currently accept a value.
	ready(op string) error

	// finish returns the completed value of the container.
	finish() any
}

// A mapNode is an open document. Field order is the order of writes.
type mapNode struct {
	doc     bson.D
	name    string
	pending bool
}

func newMapNode() *mapNode { return &mapNode{doc: bson.D{}} }

func (m *mapNode) setName(name string) { m.name, m.pending = name, true }

func (m *mapNode) ready(op string) error {
	if !m.pending {
		return stateErrorf(op, "no field name for value in document")
	}
	return nil
}

func (m *mapNode) store(op string, v any) error {
	if err := m.ready(op); err != nil {
		return err
	}
	m.doc = append(m.doc, bson.E{Key: m.name, Value: v})
	m.name, m.pending = "", false
	return nil
}

func (m *mapNode) finish() any { return m.doc }

// A listNode is an open array.
type listNode struct {
	arr bson.A
}

func newListNode() *listNode { return &listNode{arr: bson.A{}} }

func (*listNode) ready(string) error { return nil }

func (l *listNode) store(_ string, v any) error {
	l.arr = append(l.arr, v)
	return nil
}

func (l *listNode) finish() any { return l.arr }
