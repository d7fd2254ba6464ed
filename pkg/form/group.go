// Copyright (C) crane-migration-wizard contributors.
// SPDX-License-Identifier: MIT

package form

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Group is an ordered, named collection of fields representing one wizard
// step. Groups are independent of each other; aggregate status is derived
// from the contained fields on every read.
type Group struct {
	name   string
	order  []string
	fields map[string]State
}

// NewGroup builds a group from fields in display order. Duplicate field
// names keep the last declaration, matching map semantics.
func NewGroup(name string, fields ...State) *Group {
	g := &Group{
		name:   name,
		fields: make(map[string]State, len(fields)),
	}
	for _, f := range fields {
		if _, seen := g.fields[f.Name()]; !seen {
			g.order = append(g.order, f.Name())
		}
		g.fields[f.Name()] = f
	}
	return g
}

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// Fields returns the fields in declaration order.
func (g *Group) Fields() []State {
	out := make([]State, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.fields[name])
	}
	return out
}

// Field looks up a field by name, nil when absent.
func (g *Group) Field(name string) State {
	return g.fields[name]
}

// IsDirty reports whether any contained field differs from its baseline.
func (g *Group) IsDirty() bool {
	for _, f := range g.fields {
		if f.IsDirty() {
			return true
		}
	}
	return false
}

// IsValid reports whether every contained field passed its last
// validation.
func (g *Group) IsValid() bool {
	for _, f := range g.fields {
		if !f.IsValid() {
			return false
		}
	}
	return true
}

// Revalidate recomputes validation for every field. Used when values a
// schema reads live outside the group, so ordinary field-change triggers
// would miss the update.
func (g *Group) Revalidate() {
	for _, f := range g.fields {
		f.Revalidate()
	}
}

// Err aggregates the current validation failures into a single error for
// logging and reporting, nil when the group is valid.
func (g *Group) Err() error {
	var result *multierror.Error
	for _, name := range g.order {
		for _, msg := range g.fields[name].Errors() {
			result = multierror.Append(result, fmt.Errorf("%s: %s", name, msg))
		}
	}
	return result.ErrorOrNil()
}
