// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"mime"
	"net/http"
	"path"
	"strings"
)

// ContentTypeFor derives the MIME type from name's extension, falling back to
// sniffing the first 512 bytes of data. Unknown payloads yield
// "application/octet-stream".
func ContentTypeFor(name string, data []byte) string {
	if ext := strings.ToLower(path.Ext(name)); ext != "" && ext != "." {
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
	}
	if len(data) == 0 {
		return ""
	}
	header := data
	if len(header) > 512 {
		header = header[:512]
	}
	return http.DetectContentType(header)
}
