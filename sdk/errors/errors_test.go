// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package errors_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	uperrors "github.com/scc-digitalhub/s3-uploads-sdk/sdk/errors"
)

func TestTemplateMessages(t *testing.T) {
	tooBig := &uperrors.FileTooLargeError{Size: 4096, LimitKB: 2}
	require.Equal(t, "[[error:file-too-big, 2]]", tooBig.Error())

	badExt := &uperrors.DisallowedExtensionError{Extension: ".exe", Allowed: []string{".png", ".jpg"}}
	require.Equal(t, "[[error:invalid-file-type, .png&#44; .jpg]]", badExt.Error())
}

func TestStorageErrorPrefix(t *testing.T) {
	cause := errors.New("access denied")
	err := &uperrors.StorageError{Cause: cause}

	require.True(t, strings.HasPrefix(err.Error(), uperrors.PluginID+" :: "))
	require.ErrorIs(t, err, cause)

	require.Equal(t, uperrors.PluginID, (&uperrors.StorageError{}).Error())
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", &uperrors.FetchFailedError{URL: "http://x", StatusCode: 404})
	require.Equal(t, uperrors.KindFetchFailed, uperrors.KindOf(wrapped))
	require.Equal(t, uperrors.KindUnknown, uperrors.KindOf(errors.New("plain")))
	require.Equal(t, "fetch_failed", uperrors.KindOf(wrapped).String())
}

func TestIsResponseTooLarge(t *testing.T) {
	err := &uperrors.FetchFailedError{URL: "http://x", StatusCode: 200, Cause: uperrors.ResponseTooLargeError{Limit: 10}}
	require.True(t, uperrors.IsResponseTooLarge(err))
	require.False(t, uperrors.IsResponseTooLarge(errors.New("nope")))
}
