// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"path"
	"strings"
)

// KeyBuilder derives object keys. NewToken must return a value unique per call.
type KeyBuilder struct {
	NewToken func() string
}

// Build returns prefix[/folder]/<token><ext>. Leading slashes of the prefix
// are dropped so the key never starts with "/".
// ext is taken verbatim (case preserved) from filenameForExtension.
func (b KeyBuilder) Build(uploadPath, folder, filenameForExtension string) string {
	prefix := uploadPath
	if prefix == "" {
		prefix = "/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	key := strings.TrimLeft(prefix, "/")

	if folder != "" {
		key += folder + "/"
	}

	newToken := b.NewToken
	if newToken == nil {
		newToken = UUIDv4NoDash
	}
	return key + newToken() + path.Ext(filenameForExtension)
}

// BuildKey uses a random UUID token.
func BuildKey(uploadPath, folder, filenameForExtension string) string {
	return KeyBuilder{}.Build(uploadPath, folder, filenameForExtension)
}
