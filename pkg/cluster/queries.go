// Copyright (C) crane-migration-wizard contributors.
// SPDX-License-Identifier: MIT

package cluster

import (
	"context"
	"fmt"
	"sort"

	corev1 "k8s.io/api/core/v1"
	storagev1 "k8s.io/api/storage/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// pipelineGVR addresses Tekton pipelines through the dynamic client.
var pipelineGVR = schema.GroupVersionResource{
	Group:    "tekton.dev",
	Version:  "v1beta1",
	Resource: "pipelines",
}

// RootInfo is the result of the root-discovery probe against a source
// cluster: reaching the version endpoint proves the credentials work.
type RootInfo struct {
	GitVersion string
	Platform   string
}

// NamespaceCheck is the result of probing a source namespace.
type NamespaceCheck struct {
	Usable bool
	Reason string
}

// DiscoverRoot probes the cluster's version endpoint. An error means the
// credentials cannot reach the API server.
func (c *Client) DiscoverRoot(ctx context.Context) (RootInfo, error) {
	info, err := c.Kube.Discovery().ServerVersion()
	if err != nil {
		return RootInfo{}, fmt.Errorf("discover api root: %w", err)
	}
	return RootInfo{GitVersion: info.GitVersion, Platform: info.Platform}, nil
}

// ProbeNamespace checks that a namespace exists and is usable as a
// migration source. A missing or terminating namespace is a usability
// result, not an error; only transport failures return err.
func (c *Client) ProbeNamespace(ctx context.Context, name string) (NamespaceCheck, error) {
	ns, err := c.Kube.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) || apierrors.IsForbidden(err) {
		return NamespaceCheck{Usable: false, Reason: fmt.Sprintf("namespace %q not found or not accessible", name)}, nil
	}
	if err != nil {
		return NamespaceCheck{}, fmt.Errorf("probe namespace %s: %w", name, err)
	}
	if ns.Status.Phase == corev1.NamespaceTerminating {
		return NamespaceCheck{Usable: false, Reason: fmt.Sprintf("namespace %q is terminating", name)}, nil
	}
	return NamespaceCheck{Usable: true}, nil
}

// ListPVCs returns the persistent-volume claims in a namespace, sorted by
// name.
func (c *Client) ListPVCs(ctx context.Context, namespace string) ([]corev1.PersistentVolumeClaim, error) {
	list, err := c.Kube.CoreV1().PersistentVolumeClaims(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list pvcs in %s: %w", namespace, err)
	}
	items := list.Items
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

// ListStorageClasses returns the cluster's storage classes, sorted by name.
func (c *Client) ListStorageClasses(ctx context.Context) ([]storagev1.StorageClass, error) {
	list, err := c.Kube.StorageV1().StorageClasses().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list storage classes: %w", err)
	}
	items := list.Items
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

// ListPipelineNames returns the names of existing Tekton pipelines in the
// host namespace, sorted. Pipeline-name validation rejects collisions
// against this set.
func (c *Client) ListPipelineNames(ctx context.Context, namespace string) ([]string, error) {
	list, err := c.Dynamic.Resource(pipelineGVR).Namespace(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			// Tekton CRDs not installed: nothing to collide with.
			return nil, nil
		}
		return nil, fmt.Errorf("list pipelines in %s: %w", namespace, err)
	}
	names := make([]string, 0, len(list.Items))
	for _, item := range list.Items {
		names = append(names, item.GetName())
	}
	sort.Strings(names)
	return names, nil
}
