// Copyright (C) crane-migration-wizard contributors.
// SPDX-License-Identifier: MIT

package cluster

import (
	"fmt"

	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// Client bundles the typed and dynamic interfaces for one cluster.
type Client struct {
	Kube    kubernetes.Interface
	Dynamic dynamic.Interface
}

// NewClient wraps pre-built interfaces, used by tests with fakes.
func NewClient(kube kubernetes.Interface, dyn dynamic.Interface) *Client {
	return &Client{Kube: kube, Dynamic: dyn}
}

// Connect builds clients for a source cluster from typed-in credentials.
// Source clusters are reached by URL+token; certificate verification is
// skipped because the wizard has no CA bundle for an arbitrary source.
func Connect(creds Credentials) (*Client, error) {
	config := &rest.Config{
		Host:        creds.APIURL,
		BearerToken: creds.Token,
		TLSClientConfig: rest.TLSClientConfig{
			Insecure: true,
		},
	}
	return newForConfig(config)
}

// ConnectFromKubeconfig builds clients for the host cluster from the
// ambient kubeconfig (KUBECONFIG or ~/.kube/config).
func ConnectFromKubeconfig() (*Client, string, error) {
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	configOverrides := &clientcmd.ConfigOverrides{}
	kubeConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, configOverrides)

	config, err := kubeConfig.ClientConfig()
	if err != nil {
		return nil, "", fmt.Errorf("build kubeconfig: %w", err)
	}

	namespace, _, err := kubeConfig.Namespace()
	if err != nil {
		namespace = "default"
	}

	client, err := newForConfig(config)
	if err != nil {
		return nil, "", err
	}
	return client, namespace, nil
}

func newForConfig(config *rest.Config) (*Client, error) {
	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("create clientset: %w", err)
	}

	dynClient, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("create dynamic client: %w", err)
	}

	return &Client{Kube: clientset, Dynamic: dynClient}, nil
}
