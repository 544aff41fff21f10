// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/policy"
	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/utils"
)

// HostPolicy exposes the host's upload limits. Implementations return the
// current value on every call; callers must not cache them.
type HostPolicy interface {
	// MaximumFileSize is the upload limit in kilobytes.
	MaximumFileSize() int64
	// AllowedExtensions is the lower-cased, dot-prefixed allow-list. Empty means all.
	AllowedExtensions() []string
	ProfileImageDimension() int
}

// hostPolicyKeys holds the tags of the policy keys. Tags:
// - vkey: Viper key
// - env: env name bound to the key
// - default: default set when the key is unset
type hostPolicyKeys struct {
	MaximumFileSize       string `vkey:"maximum_file_size"       env:"S3_UPLOADS_MAXIMUM_FILE_SIZE"       default:"2048"`
	AllowedExtensions     string `vkey:"allowed_extensions"      env:"S3_UPLOADS_ALLOWED_EXTENSIONS"`
	ProfileImageDimension string `vkey:"profile_image_dimension" env:"S3_UPLOADS_PROFILE_IMAGE_DIMENSION" default:"128"`
}

// BindEnvFromStruct binds env and defaults for every tagged field of the
// given structs. With none, Settings and the host policy keys are bound.
func BindEnvFromStruct(v *viper.Viper, structs ...any) {
	if len(structs) == 0 {
		structs = []any{Settings{}, hostPolicyKeys{}}
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, s := range structs {
		rt := reflect.TypeOf(s)
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)

			key := f.Tag.Get("vkey")
			if key == "" {
				continue
			}

			env := f.Tag.Get("env")
			if env == "" {
				env = strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
			}
			_ = v.BindEnv(key, env)

			if def := f.Tag.Get("default"); def != "" && !v.IsSet(key) {
				v.SetDefault(key, def)
			}
		}
	}
}

// LoadHostConfig returns a viper instance with env bound and, when path is
// set, the host config file (yaml, json or toml) read in.
func LoadHostConfig(path string) (*viper.Viper, error) {
	v := viper.New()
	BindEnvFromStruct(v)
	if path == "" {
		return v, nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read host config %s: %w", path, err)
	}
	return v, nil
}

// SettingsFromViper collects the settings keys known to v as an update
// addressed to this plugin.
func SettingsFromViper(v *viper.Viper) SettingsUpdate {
	var s Settings
	rv := reflect.ValueOf(&s).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		key := rt.Field(i).Tag.Get("vkey")
		if key == "" {
			continue
		}
		rv.Field(i).SetString(v.GetString(key))
	}
	return SettingsUpdate{Plugin: utils.PluginKey, Settings: s}
}

// ViperPolicy is a HostPolicy that reads viper on every call, so env and
// v.Set changes apply to the next upload. The host config file is re-read
// only through ReadConfig, which holds the same lock as the getters.
type ViperPolicy struct {
	mu sync.RWMutex
	v  *viper.Viper
}

// NewViperPolicy binds the policy keys' env names and defaults on v.
func NewViperPolicy(v *viper.Viper) *ViperPolicy {
	BindEnvFromStruct(v, hostPolicyKeys{})
	return &ViperPolicy{v: v}
}

// ReadConfig re-reads the host config file into viper.
func (p *ViperPolicy) ReadConfig() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.v.ReadInConfig()
}

// Settings is SettingsFromViper taken under the policy lock.
func (p *ViperPolicy) Settings() SettingsUpdate {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return SettingsFromViper(p.v)
}

func (p *ViperPolicy) MaximumFileSize() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if kb := p.v.GetInt64(utils.MaximumFileSize); kb > 0 {
		return kb
	}
	return utils.DefaultMaximumFileSizeKB
}

func (p *ViperPolicy) AllowedExtensions() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return policy.NormalizeExtensions(extensionList(p.v.Get(utils.AllowedExtensions)))
}

func (p *ViperPolicy) ProfileImageDimension() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if dim := p.v.GetInt(utils.ProfileImageDimension); dim > 0 {
		return dim
	}
	return utils.DefaultProfileImageDimension
}

// extensionList accepts a list or a comma/space separated string.
func extensionList(raw any) []string {
	if s, ok := raw.(string); ok {
		return strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || r == ' ' || r == ';'
		})
	}
	return cast.ToStringSlice(raw)
}

// StaticPolicy is a fixed HostPolicy.
type StaticPolicy struct {
	MaxFileSizeKB int64
	Extensions    []string
	Dimension     int
}

func (p StaticPolicy) MaximumFileSize() int64 {
	if p.MaxFileSizeKB <= 0 {
		return utils.DefaultMaximumFileSizeKB
	}
	return p.MaxFileSizeKB
}

func (p StaticPolicy) AllowedExtensions() []string {
	return policy.NormalizeExtensions(p.Extensions)
}

func (p StaticPolicy) ProfileImageDimension() int {
	if p.Dimension <= 0 {
		return utils.DefaultProfileImageDimension
	}
	return p.Dimension
}
