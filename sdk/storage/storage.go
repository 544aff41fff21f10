// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

// Package storage defines the single object-store capability the upload
// pipeline needs and the public URL layout of stored objects.
package storage

import (
	"context"
	"strings"
)

// ObjectStore puts one object per call.
type ObjectStore interface {
	PutObject(ctx context.Context, bucket, key string, data []byte, contentType string) error
}

// PublicURL returns {authority}/{key}. A non-empty host is used as the
// authority (http:// is added when it carries no scheme); otherwise the
// authority is https://<bucket>.
func PublicURL(bucket, key, host string) string {
	authority := "https://" + bucket
	if host != "" {
		authority = host
		if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
			authority = "http://" + host
		}
	}
	return authority + "/" + key
}
