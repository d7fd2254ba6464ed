// Copyright (C) crane-migration-wizard contributors.
// SPDX-License-Identifier: MIT

// Package setup assembles the wizard's form state: one field group per
// step, cross-field derived values, and validation rules that read the
// live cluster query results.
//
// The package owns no I/O. The caller (the TUI) runs the cluster queries,
// stores their snapshots in a QuerySet, and calls the matching *Changed
// trigger so rules that close over query state are recomputed. Validation
// failures surface as per-field messages, never as errors from this
// package.
package setup

import (
	corev1 "k8s.io/api/core/v1"
	storagev1 "k8s.io/api/storage/v1"

	"github.com/JaydipGabani/crane-migration-wizard/pkg/cluster"
)

// QuerySet holds the remote-query snapshots and stored credentials the
// form schemas read. It is mutated in place as results arrive; the forms
// keep a pointer to it.
type QuerySet struct {
	// RootDiscovery probes the source API root, keyed by the stored secret.
	RootDiscovery cluster.Snapshot[cluster.RootInfo]
	// NamespaceProbe checks the typed source namespace, keyed by secret,
	// namespace and the field's touched flag.
	NamespaceProbe cluster.Snapshot[cluster.NamespaceCheck]
	// Pipelines is the live set of existing pipeline names in the host
	// namespace.
	Pipelines cluster.Snapshot[[]string]
	// StorageClasses and PVCs come from the source cluster/namespace.
	StorageClasses cluster.Snapshot[[]storagev1.StorageClass]
	PVCs           cluster.Snapshot[[]corev1.PersistentVolumeClaim]
	// Secret is the stored host-cluster secret embedding the last
	// submitted source credentials, nil before the first submit.
	Secret *corev1.Secret
}

// ClaimNames returns the names of the claims in the current PVC snapshot.
func (q *QuerySet) ClaimNames() []string {
	names := make([]string, 0, len(q.PVCs.Data))
	for _, pvc := range q.PVCs.Data {
		names = append(names, pvc.Name)
	}
	return names
}

// ClaimByName looks a claim up in the current PVC snapshot.
func (q *QuerySet) ClaimByName(name string) (corev1.PersistentVolumeClaim, bool) {
	for _, pvc := range q.PVCs.Data {
		if pvc.Name == name {
			return pvc, true
		}
	}
	return corev1.PersistentVolumeClaim{}, false
}
