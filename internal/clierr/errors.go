// Copyright (C) crane-migration-wizard contributors.
// SPDX-License-Identifier: MIT

// Package clierr provides error classification and user-friendly error formatting for the CLI.
// It helps distinguish between different error types and provides actionable hints.
package clierr

import (
	"errors"
	"fmt"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// Common error types for CLI output.
const (
	TypeNotFound     = "not_found"    // Resource or CRD not found
	TypeForbidden    = "forbidden"    // RBAC access denied
	TypeUnauthorized = "unauthorized" // Bad or expired credentials
	TypeNetwork      = "network"      // Connection/network errors
	TypeInternal     = "internal"     // Internal/unexpected errors
)

// IsUnauthorized checks if the error means the source credentials were
// rejected outright.
func IsUnauthorized(err error) bool {
	if err == nil {
		return false
	}
	if apierrors.IsUnauthorized(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "invalid bearer token")
}

// IsForbidden checks if the error is an access denied (RBAC) error.
func IsForbidden(err error) bool {
	if err == nil {
		return false
	}
	if apierrors.IsForbidden(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "forbidden") ||
		strings.Contains(msg, "access denied")
}

// IsNotFound checks if the error indicates a missing resource or CRD.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if apierrors.IsNotFound(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") ||
		strings.Contains(msg, "no matches for kind") ||
		strings.Contains(msg, "the server could not find")
}

// IsNetworkError checks if the error is a connection/network error.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "network is unreachable") ||
		strings.Contains(msg, "dial tcp") ||
		strings.Contains(msg, "i/o timeout") ||
		strings.Contains(msg, "context deadline exceeded")
}

// ClassifyError determines the type of error for appropriate handling.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}
	if IsUnauthorized(err) {
		return TypeUnauthorized
	}
	if IsForbidden(err) {
		return TypeForbidden
	}
	if IsNotFound(err) {
		return TypeNotFound
	}
	if IsNetworkError(err) {
		return TypeNetwork
	}
	return TypeInternal
}

// Pretty formats an error with a user-friendly message and actionable hints.
func Pretty(err error) string {
	if err == nil {
		return ""
	}

	errType := ClassifyError(err)
	baseMsg := err.Error()

	switch errType {
	case TypeUnauthorized:
		return fmt.Sprintf("Credentials rejected: %s\n\nHint: The source cluster refused the token. Check:\n"+
			"  - The token has not expired (oc whoami -t on the source cluster for a fresh one)\n"+
			"  - The API URL points at the right cluster", baseMsg)

	case TypeForbidden:
		return fmt.Sprintf("Access denied: %s\n\nHint: Check your RBAC permissions. You may need:\n"+
			"  - get/list on namespaces and persistentvolumeclaims in the source namespace\n"+
			"  - create on pipelines and pipelineruns in the host namespace\n"+
			"  - kubectl auth can-i list <resource> to verify", baseMsg)

	case TypeNotFound:
		if strings.Contains(strings.ToLower(baseMsg), "no matches for kind") ||
			strings.Contains(strings.ToLower(baseMsg), "the server could not find") {
			return fmt.Sprintf("CRD not installed: %s\n\nHint: The host cluster needs the Tekton pipeline CRDs.\n"+
				"  - kubectl apply -f https://storage.googleapis.com/tekton-releases/pipeline/latest/release.yaml", baseMsg)
		}
		return fmt.Sprintf("Not found: %s", baseMsg)

	case TypeNetwork:
		return fmt.Sprintf("Connection error: %s\n\nHint: Check connectivity:\n"+
			"  - The source API URL is reachable from this machine\n"+
			"  - kubectl cluster-info to verify the host cluster connection", baseMsg)

	default:
		return fmt.Sprintf("Error: %s", baseMsg)
	}
}

// WrapWithHint wraps an error with an additional hint message.
func WrapWithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w\n\nHint: %s", err, hint)
}

// Unwrap returns the underlying error, stripping any wrapper.
func Unwrap(err error) error {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}
