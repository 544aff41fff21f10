// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package upload

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/config"
	uperrors "github.com/scc-digitalhub/s3-uploads-sdk/sdk/errors"
	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/metrics"
	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/storage"
	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/utils"
)

// StoreFactory returns the object store for a settings snapshot.
type StoreFactory func(ctx context.Context, settings config.Settings) (storage.ObjectStore, error)

type UploadService struct {
	settings   *config.SettingsStore
	source     config.SettingsSource
	policy     config.HostPolicy
	stores     StoreFactory
	fetch      *http.Client
	fetchLimit int64
	keys       utils.KeyBuilder
	log        *zap.Logger
	metrics    *metrics.Recorder
}

type Option func(*UploadService)

func WithLogger(log *zap.Logger) Option {
	return func(s *UploadService) {
		if log != nil {
			s.log = log
		}
	}
}

func WithPolicy(p config.HostPolicy) Option {
	return func(s *UploadService) { s.policy = p }
}

// WithSettingsSource makes ReloadSettings re-read settings from src.
func WithSettingsSource(src config.SettingsSource) Option {
	return func(s *UploadService) { s.source = src }
}

// WithStoreFactory replaces the S3 client cache.
func WithStoreFactory(f StoreFactory) Option {
	return func(s *UploadService) { s.stores = f }
}

func WithHTTPClient(c *http.Client) Option {
	return func(s *UploadService) { s.fetch = c }
}

func WithKeyBuilder(b utils.KeyBuilder) Option {
	return func(s *UploadService) { s.keys = b }
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(s *UploadService) { s.metrics = r }
}

// NewUploadService starts from conf.Settings and, when a settings source is
// configured, overlays what the source holds.
func NewUploadService(ctx context.Context, conf config.Config, opts ...Option) (*UploadService, error) {
	s := &UploadService{
		settings:   config.NewSettingsStore(conf.Settings),
		policy:     config.StaticPolicy{},
		fetch:      config.NewFetchClient(conf.Fetch),
		fetchLimit: conf.Fetch.FetchLimit(),
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.stores == nil {
		cache, err := config.NewS3ClientCache(conf.S3)
		if err != nil {
			return nil, fmt.Errorf("S3 init failed: %w", err)
		}
		s.stores = func(ctx context.Context, settings config.Settings) (storage.ObjectStore, error) {
			client, err := cache.Client(ctx, settings)
			if err != nil {
				return nil, err
			}
			return client, nil
		}
	}

	if s.source != nil {
		if err := s.ReloadSettings(ctx, nil); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Settings returns the active settings snapshot.
func (s *UploadService) Settings() config.Settings {
	return s.settings.Current()
}

// put stores data under a fresh key and returns its public URL. Any failure
// here is a StorageError.
func (s *UploadService) put(ctx context.Context, settings config.Settings, filename, folder string, data []byte) (string, error) {
	key := s.keys.Build(settings.UploadPath, folder, filename)

	store, err := s.stores(ctx, settings)
	if err == nil {
		err = store.PutObject(ctx, settings.Bucket, key, data, utils.ContentTypeFor(filename, data))
	}
	if err != nil {
		serr := &uperrors.StorageError{Cause: err}
		s.log.Error(serr.Error(),
			zap.String("bucket", settings.Bucket),
			zap.String("key", key),
		)
		return "", serr
	}

	s.log.Info("object stored",
		zap.String("bucket", settings.Bucket),
		zap.String("key", key),
		zap.String("size", utils.HumanSize(int64(len(data)))),
	)
	return storage.PublicURL(settings.Bucket, key, settings.Host), nil
}
