// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

// Package errors holds the typed failures returned by the upload pipeline.
// Size and extension errors render as translation templates so a host UI can
// show them as-is; the structured fields stay available through errors.As.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// PluginID prefixes storage failures so they can be attributed in shared logs.
const PluginID = "s3-uploads"

type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindFileTooLarge
	KindDisallowedExtension
	KindFetchFailed
	KindTransformFailed
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindFileTooLarge:
		return "file_too_large"
	case KindDisallowedExtension:
		return "disallowed_extension"
	case KindFetchFailed:
		return "fetch_failed"
	case KindTransformFailed:
		return "transform_failed"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

type kinded interface {
	Kind() Kind
}

// KindOf returns the kind of the first typed error found in err's chain.
func KindOf(err error) Kind {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

// InvalidInputError reports a missing file, path or url.
type InvalidInputError struct {
	Field string
}

func (e *InvalidInputError) Error() string {
	return "[[error:invalid-data]] missing " + e.Field
}

func (e *InvalidInputError) Kind() Kind { return KindInvalidInput }

// FileTooLargeError reports a payload above the configured limit.
type FileTooLargeError struct {
	Size    int64
	LimitKB int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("[[error:file-too-big, %d]]", e.LimitKB)
}

func (e *FileTooLargeError) Kind() Kind { return KindFileTooLarge }

// DisallowedExtensionError reports an extension outside the allow-list.
type DisallowedExtensionError struct {
	Extension string
	Allowed   []string
}

func (e *DisallowedExtensionError) Error() string {
	return fmt.Sprintf("[[error:invalid-file-type, %s]]", strings.Join(e.Allowed, "&#44; "))
}

func (e *DisallowedExtensionError) Kind() Kind { return KindDisallowedExtension }

// FetchFailedError reports a remote download that did not produce a body.
// StatusCode is zero when no response was received.
type FetchFailedError struct {
	URL        string
	StatusCode int
	Cause      error
}

func (e *FetchFailedError) Error() string {
	switch {
	case e.Cause != nil && e.StatusCode != 0:
		return fmt.Sprintf("fetch %s failed (status %d): %v", e.URL, e.StatusCode, e.Cause)
	case e.Cause != nil:
		return fmt.Sprintf("fetch %s failed: %v", e.URL, e.Cause)
	default:
		return fmt.Sprintf("fetch %s failed with status %d", e.URL, e.StatusCode)
	}
}

func (e *FetchFailedError) Unwrap() error { return e.Cause }

func (e *FetchFailedError) Kind() Kind { return KindFetchFailed }

// TransformFailedError reports an image that could not be decoded or encoded.
type TransformFailedError struct {
	Cause error
}

func (e *TransformFailedError) Error() string {
	return fmt.Sprintf("image transform failed: %v", e.Cause)
}

func (e *TransformFailedError) Unwrap() error { return e.Cause }

func (e *TransformFailedError) Kind() Kind { return KindTransformFailed }

// StorageError wraps a failed put. Its message always starts with PluginID.
type StorageError struct {
	Cause error
}

func (e *StorageError) Error() string {
	if e.Cause == nil {
		return PluginID
	}
	return PluginID + " :: " + e.Cause.Error()
}

func (e *StorageError) Unwrap() error { return e.Cause }

func (e *StorageError) Kind() Kind { return KindStorage }

// ResponseTooLargeError reports that a response body exceeded the limit.
type ResponseTooLargeError struct {
	Limit int64
}

func (e ResponseTooLargeError) Error() string {
	return fmt.Sprintf("response body exceeded limit of %d bytes", e.Limit)
}

// IsResponseTooLarge reports whether the error indicates a response limit violation.
func IsResponseTooLarge(err error) bool {
	var limitErr ResponseTooLargeError
	return errors.As(err, &limitErr)
}
