// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bsontree

import (
	"errors"
	"fmt"
)

// ErrUnsupported is reported by operations the builder cannot represent in a
// typed document tree, such as writing raw unparsed text.
var ErrUnsupported = errors.New("operation not supported")

// StateError is the concrete type of errors reported when a builder operation
// is invoked in a state that has no defined target, for example writing a
// value when no container is open.
type StateError struct {
	Op      string // the builder operation that failed
	Message string

	err error // underlying cause, if any
}

// Error satisfies the error interface.
func (s *StateError) Error() string {
	return fmt.Sprintf("%s: %s", s.Op, s.Message)
}

// Unwrap supports error wrapping.
func (s *StateError) Unwrap() error { return s.err }

func stateErrorf(op, msg string, args ...any) *StateError {
	return &StateError{Op: op, Message: fmt.Sprintf(msg, args...)}
}

func unsupported(op string) error { return fmt.Errorf("%s: %w", op, ErrUnsupported) }
