// Copyright (C) crane-migration-wizard contributors.
// SPDX-License-Identifier: MIT

// Package form provides the form-state primitives the wizard is assembled
// from: typed fields with dirty/touched tracking, validation schemas with
// composable rules, and named field groups with aggregate status.
//
// Validation never panics and never surfaces as a Go error from field
// operations; failures are recorded as per-field messages for the rendering
// layer to display.
package form

import (
	"fmt"
	"reflect"
)

// TestContext is handed to custom validation tests so they can produce
// errors labeled with the schema's (possibly dynamic) field label.
type TestContext struct {
	label string
}

// Errorf builds a validation error prefixed with the field label.
func (c TestContext) Errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if c.label == "" {
		return fmt.Errorf("%s", msg)
	}
	return fmt.Errorf("%s: %s", c.label, msg)
}

// Test is a single validation check. A nil return means the value passed.
type Test[T any] func(value T, ctx TestContext) error

type namedTest[T any] struct {
	name string
	fn   Test[T]
}

// Schema describes the validation rules for one field. Checks run in
// declaration order (required first) and stop at the first failure.
type Schema[T any] struct {
	label       string
	labelFn     func() string
	required    bool
	requiredMsg string
	isZero      func(T) bool
	tests       []namedTest[T]
}

// String returns a schema for string fields.
func String() *Schema[string] {
	return &Schema[string]{isZero: func(v string) bool { return v == "" }}
}

// Bool returns a schema for boolean fields. Required means the value must
// be explicitly set by the caller; a bare false is still a valid value, so
// Required is a no-op check kept for declaration symmetry.
func Bool() *Schema[bool] {
	return &Schema[bool]{isZero: func(bool) bool { return false }}
}

// Value returns a schema for an arbitrary value type. The zero check uses
// reflect.DeepEqual against the type's zero value.
func Value[T any]() *Schema[T] {
	return &Schema[T]{isZero: func(v T) bool {
		var zero T
		return reflect.DeepEqual(v, zero)
	}}
}

// Label sets the label used in validation messages.
func (s *Schema[T]) Label(label string) *Schema[T] {
	s.label = label
	s.labelFn = nil
	return s
}

// LabelFunc sets a label computed at validation time, for messages that
// must track values changing elsewhere in the wizard.
func (s *Schema[T]) LabelFunc(fn func() string) *Schema[T] {
	s.labelFn = fn
	return s
}

// Required marks the field as required. The optional message overrides the
// default "<label> is required".
func (s *Schema[T]) Required(msg ...string) *Schema[T] {
	s.required = true
	if len(msg) > 0 {
		s.requiredMsg = msg[0]
	}
	return s
}

// Test appends a named custom check.
func (s *Schema[T]) Test(name string, fn Test[T]) *Schema[T] {
	s.tests = append(s.tests, namedTest[T]{name: name, fn: fn})
	return s
}

func (s *Schema[T]) currentLabel() string {
	if s.labelFn != nil {
		return s.labelFn()
	}
	return s.label
}

// Validate runs the schema against a candidate value and returns the
// failure messages, empty when the value passes. Checks short-circuit:
// at most one message is returned.
func (s *Schema[T]) Validate(value T) []string {
	if s == nil {
		return nil
	}
	ctx := TestContext{label: s.currentLabel()}

	if s.required && s.isZero != nil && s.isZero(value) {
		msg := s.requiredMsg
		if msg == "" {
			if ctx.label != "" {
				msg = fmt.Sprintf("%s is required", ctx.label)
			} else {
				msg = "required"
			}
		}
		return []string{msg}
	}

	for _, t := range s.tests {
		if err := t.fn(value, ctx); err != nil {
			return []string{err.Error()}
		}
	}
	return nil
}
