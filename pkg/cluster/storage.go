// Copyright (C) crane-migration-wizard contributors.
// SPDX-License-Identifier: MIT

package cluster

import (
	corev1 "k8s.io/api/core/v1"
	storagev1 "k8s.io/api/storage/v1"
)

// defaultStorageClassAnnotation marks a cluster's default storage class.
const defaultStorageClassAnnotation = "storageclass.kubernetes.io/is-default-class"

// IsDefaultStorageClass reports whether the class carries the default
// annotation.
func IsDefaultStorageClass(sc storagev1.StorageClass) bool {
	return sc.Annotations[defaultStorageClassAnnotation] == "true"
}

// DefaultStorageClassName returns the name of the default storage class,
// empty when none is marked.
func DefaultStorageClassName(classes []storagev1.StorageClass) string {
	for _, sc := range classes {
		if IsDefaultStorageClass(sc) {
			return sc.Name
		}
	}
	return ""
}

// PVCCapacity extracts a displayable capacity string from a claim,
// preferring the bound capacity over the requested one.
func PVCCapacity(pvc corev1.PersistentVolumeClaim) string {
	if q, ok := pvc.Status.Capacity[corev1.ResourceStorage]; ok {
		return q.String()
	}
	if q, ok := pvc.Spec.Resources.Requests[corev1.ResourceStorage]; ok {
		return q.String()
	}
	return ""
}
