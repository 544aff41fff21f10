// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"sigs.k8s.io/yaml"

	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/utils"
)

// Settings holds the bucket, path and credentials of the upload target.
// Tags drive env binding and INI persistence.
type Settings struct {
	AccessKeyID     string `json:"accessKeyId,omitempty"     vkey:"accessKeyId"     env:"AWS_ACCESS_KEY_ID"     secret:"true"`
	SecretAccessKey string `json:"secretAccessKey,omitempty" vkey:"secretAccessKey" env:"AWS_SECRET_ACCESS_KEY" secret:"true"`
	Region          string `json:"region,omitempty"          vkey:"region"          env:"AWS_DEFAULT_REGION"`
	Bucket          string `json:"bucket,omitempty"          vkey:"bucket"          env:"S3_UPLOADS_BUCKET"`
	UploadPath      string `json:"uploadPath,omitempty"      vkey:"uploadPath"      env:"S3_UPLOADS_PATH"`
	Host            string `json:"host,omitempty"            vkey:"host"            env:"S3_UPLOADS_HOST"`
}

// SettingsUpdate is a partial update. Empty fields leave the current value
// untouched; Plugin, when set, must name this plugin for the update to apply.
type SettingsUpdate struct {
	Plugin string `json:"plugin,omitempty"`
	Settings
}

// Overlay returns s with every non-empty field of u applied.
func (s Settings) Overlay(u Settings) Settings {
	return s.merge(u)
}

func (s Settings) merge(u Settings) Settings {
	if u.AccessKeyID != "" {
		s.AccessKeyID = u.AccessKeyID
	}
	if u.SecretAccessKey != "" {
		s.SecretAccessKey = u.SecretAccessKey
	}
	if u.Region != "" {
		s.Region = u.Region
	}
	if u.Bucket != "" {
		s.Bucket = u.Bucket
	}
	if u.UploadPath != "" {
		s.UploadPath = u.UploadPath
	}
	if u.Host != "" {
		s.Host = u.Host
	}
	return s
}

// Masked returns a copy safe to print.
func (s Settings) Masked() Settings {
	s.AccessKeyID = mask(s.AccessKeyID)
	s.SecretAccessKey = mask(s.SecretAccessKey)
	return s
}

func mask(v string) string {
	if len(v) <= 4 {
		return strings.Repeat("*", len(v))
	}
	return v[:4] + strings.Repeat("*", len(v)-4)
}

// clientFingerprint changes whenever region or credentials change.
func (s Settings) clientFingerprint() string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%s\x00%s", s.Region, s.AccessKeyID, s.SecretAccessKey)))
	return hex.EncodeToString(sum[:])
}

// ParseSettingsUpdate reads a YAML or JSON settings payload.
func ParseSettingsUpdate(data []byte) (SettingsUpdate, error) {
	var u SettingsUpdate
	if err := yaml.Unmarshal(data, &u); err != nil {
		return SettingsUpdate{}, fmt.Errorf("invalid settings update: %w", err)
	}
	return u, nil
}

// SettingsSource is the host store the settings are read from.
type SettingsSource interface {
	GetSettings(ctx context.Context, pluginKey string) (SettingsUpdate, error)
}

// SettingsStore holds the process-wide settings. Readers get a consistent
// snapshot; reloads are serialized and published atomically.
type SettingsStore struct {
	mu      sync.Mutex
	current atomic.Pointer[Settings]
}

func NewSettingsStore(initial Settings) *SettingsStore {
	s := &SettingsStore{}
	s.current.Store(&initial)
	return s
}

func (s *SettingsStore) Current() Settings {
	return *s.current.Load()
}

// Reload applies update unless it is addressed to another plugin.
func (s *SettingsStore) Reload(update SettingsUpdate) {
	if update.Plugin != "" && update.Plugin != utils.PluginKey {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Load().merge(update.Settings)
	s.current.Store(&next)
}
