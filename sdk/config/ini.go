// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"

	"gopkg.in/ini.v1"

	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/utils"
)

// IniSettingsSource keeps plugin settings in an INI file, one section per
// plugin key.
type IniSettingsSource struct {
	Path string
}

// NewIniSettingsSource uses path, or ~/.s3uploads.ini when empty.
func NewIniSettingsSource(path string) *IniSettingsSource {
	if path == "" {
		path = defaultIniPath()
	}
	return &IniSettingsSource{Path: path}
}

func defaultIniPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, utils.IniName)
}

// GetSettings returns the stored section. A missing file yields an empty update.
func (s *IniSettingsSource) GetSettings(_ context.Context, pluginKey string) (SettingsUpdate, error) {
	cfg, err := ini.Load(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return SettingsUpdate{Plugin: pluginKey}, nil
		}
		return SettingsUpdate{}, fmt.Errorf("failed to read ini file %s: %w", s.Path, err)
	}
	if !cfg.HasSection(pluginKey) {
		return SettingsUpdate{Plugin: pluginKey}, nil
	}
	sec := cfg.Section(pluginKey)

	var settings Settings
	rv := reflect.ValueOf(&settings).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		key := rt.Field(i).Tag.Get("vkey")
		if key == "" || !sec.HasKey(key) {
			continue
		}
		rv.Field(i).SetString(sec.Key(key).String())
	}
	return SettingsUpdate{Plugin: pluginKey, Settings: settings}, nil
}

// SaveSettings writes the non-empty fields of settings into the plugin
// section, creating the file when missing.
func (s *IniSettingsSource) SaveSettings(pluginKey string, settings Settings) error {
	cfg, err := ini.Load(s.Path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read ini file %s: %w", s.Path, err)
		}
		cfg = ini.Empty()
	}
	sec := cfg.Section(pluginKey)

	rv := reflect.ValueOf(settings)
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		key := rt.Field(i).Tag.Get("vkey")
		val := rv.Field(i).String()
		if key == "" || val == "" {
			continue
		}
		sec.Key(key).SetValue(val)
	}

	if err := cfg.SaveTo(s.Path); err != nil {
		return fmt.Errorf("failed to save ini file %s: %w", s.Path, err)
	}
	// credentials live here
	return os.Chmod(s.Path, 0o600)
}
