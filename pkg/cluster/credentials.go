// Copyright (C) crane-migration-wizard contributors.
// SPDX-License-Identifier: MIT

package cluster

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Secret data keys for stored source-cluster credentials.
const (
	SecretKeyURL   = "url"
	SecretKeyToken = "token"
)

// secretGenerateName prefixes the host-cluster Secret holding source
// credentials.
const secretGenerateName = "crane-source-"

// Credentials identify a source cluster: its API URL and a bearer token.
type Credentials struct {
	APIURL string
	Token  string
}

// IsComplete reports whether both parts have been provided.
func (c Credentials) IsComplete() bool {
	return c.APIURL != "" && c.Token != ""
}

// BuildSecret returns the host-cluster Secret embedding the credentials,
// ready to be created in the given namespace.
func BuildSecret(namespace string, creds Credentials) *corev1.Secret {
	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			GenerateName: secretGenerateName,
			Namespace:    namespace,
			Labels: map[string]string{
				"crane-wizard/cluster-secret": "true",
			},
		},
		Type: corev1.SecretTypeOpaque,
		Data: map[string][]byte{
			SecretKeyURL:   []byte(creds.APIURL),
			SecretKeyToken: []byte(creds.Token),
		},
	}
}

// SecretMatchesCredentials reports whether the stored secret embeds exactly
// this URL+token pair. Used to decide if a validation failure refers to
// credentials that were actually submitted against the cluster, as opposed
// to ones still being typed.
func SecretMatchesCredentials(secret *corev1.Secret, creds Credentials) bool {
	if secret == nil {
		return false
	}
	return string(secret.Data[SecretKeyURL]) == creds.APIURL &&
		string(secret.Data[SecretKeyToken]) == creds.Token
}

// CredentialsAreValid reports whether the currently typed credentials are
// known good: the stored secret embeds them and the root-discovery probe
// keyed by that secret completed without error.
func CredentialsAreValid(secret *corev1.Secret, creds Credentials, root Snapshot[RootInfo]) bool {
	return SecretMatchesCredentials(secret, creds) && root.Ready()
}
