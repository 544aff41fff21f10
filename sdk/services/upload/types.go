// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package upload

import "github.com/scc-digitalhub/s3-uploads-sdk/sdk/config"

// Source is what UploadImage stores: a LocalFile or a RemoteURL.
type Source interface {
	source()
}

// LocalFile is a file already on disk.
type LocalFile struct {
	Size int64
	Path string
	// Name is returned to the caller and gives the key its extension.
	Name string
	// OriginalName, when set, is checked against the allow-list instead of Path.
	OriginalName string
}

// RemoteURL is an image to fetch and crop to a Dimension x Dimension square.
type RemoteURL struct {
	URL string
	// Dimension <= 0 uses the host's profile image dimension.
	Dimension int
	// Filename overrides the last segment of the URL path.
	Filename string
}

func (LocalFile) source() {}
func (RemoteURL) source() {}

type FileRequest struct {
	File   *LocalFile
	Folder string
}

type ImageRequest struct {
	Image  Source
	Folder string
}

type UploadResult struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url"  yaml:"url"`
}

// SettingsHook is the payload of a settings-changed notification. A hook for
// another plugin is ignored; Update, when set, is applied instead of
// re-reading the settings source.
type SettingsHook struct {
	Plugin string
	Update *config.SettingsUpdate
}
