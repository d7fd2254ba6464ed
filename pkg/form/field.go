// Copyright (C) crane-migration-wizard contributors.
// SPDX-License-Identifier: MIT

package form

import "reflect"

// State is the untyped view of a field that groups operate on.
type State interface {
	Name() string
	IsDirty() bool
	IsTouched() bool
	IsValid() bool
	Errors() []string
	Revalidate()
}

// FieldOption configures a field at construction time.
type FieldOption[T any] func(*Field[T])

// WithOnChange registers a callback fired after every Set.
func WithOnChange[T any](fn func(T)) FieldOption[T] {
	return func(f *Field[T]) { f.onChange = fn }
}

// WithEquals overrides the dirty-comparison function. The default is
// reflect.DeepEqual, which is wrong for values carrying unexported or
// time-dependent state.
func WithEquals[T any](fn func(a, b T) bool) FieldOption[T] {
	return func(f *Field[T]) { f.equals = fn }
}

// Field is one user-editable value with its validation schema and
// dirty/touched tracking. The dirty baseline is the initial value; it moves
// only on Reinitialize.
type Field[T any] struct {
	name     string
	value    T
	initial  T
	touched  bool
	schema   *Schema[T]
	onChange func(T)
	equals   func(a, b T) bool
	errors   []string
}

// NewField declares a field with an initial value and schema. The schema
// may be nil for fields validated only after a two-phase build (see
// SetSchema).
func NewField[T any](name string, initial T, schema *Schema[T], opts ...FieldOption[T]) *Field[T] {
	f := &Field[T]{
		name:    name,
		value:   initial,
		initial: initial,
		schema:  schema,
		equals:  func(a, b T) bool { return reflect.DeepEqual(a, b) },
	}
	for _, opt := range opts {
		opt(f)
	}
	f.Revalidate()
	return f
}

// Name returns the field name.
func (f *Field[T]) Name() string { return f.name }

// Value returns the current value.
func (f *Field[T]) Value() T { return f.value }

// Set stores a new value, marks the field touched, fires the onChange
// callback and revalidates.
func (f *Field[T]) Set(value T) {
	f.value = value
	f.touched = true
	if f.onChange != nil {
		f.onChange(value)
	}
	f.Revalidate()
}

// Touch marks the field touched without changing its value.
func (f *Field[T]) Touch() {
	f.touched = true
	f.Revalidate()
}

// Reinitialize replaces both the value and the dirty baseline and clears
// the touched flag, as if the field had been declared with this value.
func (f *Field[T]) Reinitialize(value T) {
	f.value = value
	f.initial = value
	f.touched = false
	f.Revalidate()
}

// SetSchema replaces the field's validation schema after construction and
// revalidates against it.
func (f *Field[T]) SetSchema(schema *Schema[T]) {
	f.schema = schema
	f.Revalidate()
}

// IsDirty reports whether the value differs from the dirty baseline.
func (f *Field[T]) IsDirty() bool {
	return !f.equals(f.value, f.initial)
}

// IsTouched reports whether the user has interacted with the field.
func (f *Field[T]) IsTouched() bool { return f.touched }

// Revalidate recomputes the cached validation result. Groups call this
// when upstream state a schema closes over has changed; plain value edits
// trigger it automatically.
func (f *Field[T]) Revalidate() {
	f.errors = f.schema.Validate(f.value)
}

// Errors returns the messages from the last validation pass.
func (f *Field[T]) Errors() []string { return f.errors }

// IsValid reports whether the last validation pass found no failures.
func (f *Field[T]) IsValid() bool { return len(f.errors) == 0 }
