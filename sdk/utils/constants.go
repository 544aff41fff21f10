// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

import uperrors "github.com/scc-digitalhub/s3-uploads-sdk/sdk/errors"

const (
	// PluginKey identifies this component in settings hooks and the INI file.
	PluginKey = uperrors.PluginID

	IniName = ".s3uploads.ini"

	// settings keys (INI section keys, viper keys)
	AccessKeyID     = "accessKeyId"
	SecretAccessKey = "secretAccessKey"
	Region          = "region"
	Bucket          = "bucket"
	UploadPath      = "uploadPath"
	Host            = "host"

	// host policy keys
	MaximumFileSize       = "maximum_file_size"
	AllowedExtensions     = "allowed_extensions"
	ProfileImageDimension = "profile_image_dimension"

	DefaultMaximumFileSizeKB     = 2048
	DefaultProfileImageDimension = 128

	// fetch hardening
	DefaultFetchTimeoutSeconds = 30
	DefaultFetchMaxBytes       = 20 * 1024 * 1024

	// above this size PutObject goes through the multipart uploader
	MultipartThreshold = 100 * 1024 * 1024
)

// SettingsKeys lists the six settings fields in their persisted order.
var SettingsKeys = []string{AccessKeyID, SecretAccessKey, Region, Bucket, UploadPath, Host}
