// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

// Package policy enforces the size limit and the extension allow-list.
// Both checks run before any network I/O.
package policy

import (
	"path"
	"slices"
	"strings"

	uperrors "github.com/scc-digitalhub/s3-uploads-sdk/sdk/errors"
)

// CheckSize fails when size is above maxKB kilobytes.
func CheckSize(size int64, maxKB int64) error {
	if size > maxKB*1024 {
		return &uperrors.FileTooLargeError{Size: size, LimitKB: maxKB}
	}
	return nil
}

// Extension returns the lower-cased extension of the last path segment,
// dot included ("" when there is none).
func Extension(p string) string {
	return strings.ToLower(path.Ext(p))
}

// CheckExtension passes when allow is empty, or when p has a real extension
// listed in allow. A trailing bare dot never matches.
func CheckExtension(p string, allow []string) error {
	if len(allow) == 0 {
		return nil
	}
	ext := Extension(p)
	if ext != "" && ext != "." && slices.Contains(allow, ext) {
		return nil
	}
	return &uperrors.DisallowedExtensionError{Extension: ext, Allowed: allow}
}

// NormalizeExtensions turns a loose host list ("png", " .JPG ") into
// lower-cased, dot-prefixed, de-duplicated entries.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || e == "." {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	return out
}
