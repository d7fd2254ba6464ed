// Copyright (C) crane-migration-wizard contributors.
// SPDX-License-Identifier: MIT

// Package cluster provides the remote-resource queries and predicates the
// wizard reads: source-cluster connectivity, namespaces, persistent-volume
// claims, storage classes and existing Tekton pipelines.
package cluster

// Snapshot is the wizard-side view of one remote query: the last data it
// produced plus whether a request is currently in flight. An in-flight
// query is not an error; validation treats it as not-yet-valid so the user
// never sees a false failure while data is loading.
type Snapshot[T any] struct {
	Data    T
	Loading bool
	Loaded  bool
	Err     error
}

// Ready reports whether the query has completed successfully at least once
// and no newer request is pending.
func (s Snapshot[T]) Ready() bool {
	return s.Loaded && !s.Loading && s.Err == nil
}

// Pending marks a snapshot as in flight, keeping any previous data visible.
func (s Snapshot[T]) Pending() Snapshot[T] {
	s.Loading = true
	return s
}

// Resolve returns a completed snapshot for a query result.
func Resolve[T any](data T, err error) Snapshot[T] {
	return Snapshot[T]{Data: data, Loaded: true, Err: err}
}
