// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/utils"
)

const defaultClientCacheSize = 8

type S3Client struct {
	s3       *s3.Client
	uploader *manager.Uploader
}

// NewS3Client builds a client for settings. Without a full key pair the
// default AWS credential chain is used.
func NewS3Client(ctx context.Context, settings Settings, cfgS3 S3Config) (*S3Client, error) {
	var opts []func(*config.LoadOptions) error
	if settings.Region != "" {
		opts = append(opts, config.WithRegion(settings.Region))
	}
	if settings.AccessKeyID != "" && settings.SecretAccessKey != "" {
		creds := aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			settings.AccessKeyID,
			settings.SecretAccessKey,
			"",
		))
		opts = append(opts, config.WithCredentialsProvider(creds))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS config")
	}

	s3Options := func(o *s3.Options) {
		if cfgS3.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfgS3.EndpointURL)
			o.UsePathStyle = true
		}
	}

	client := s3.NewFromConfig(cfg, s3Options)
	return &S3Client{
		s3:       client,
		uploader: manager.NewUploader(client),
	}, nil
}

// PutObject stores data at bucket/key. Payloads above the multipart
// threshold go through the managed uploader.
func (c *S3Client) PutObject(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	var err error
	if int64(len(data)) > utils.MultipartThreshold {
		_, err = c.uploader.Upload(ctx, input)
	} else {
		input.ContentLength = aws.Int64(int64(len(data)))
		_, err = c.s3.PutObject(ctx, input)
	}
	if err != nil {
		return errors.Wrap(err, "failed to upload object to S3")
	}
	return nil
}

// S3ClientCache hands out one client per region/credentials combination,
// so a settings reload that changes either gets a fresh client.
type S3ClientCache struct {
	cfg     S3Config
	clients *lru.Cache[string, *S3Client]
	group   singleflight.Group
}

func NewS3ClientCache(cfg S3Config) (*S3ClientCache, error) {
	size := cfg.ClientCacheSize
	if size <= 0 {
		size = defaultClientCacheSize
	}
	clients, err := lru.New[string, *S3Client](size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create client cache")
	}
	return &S3ClientCache{cfg: cfg, clients: clients}, nil
}

func (c *S3ClientCache) Client(ctx context.Context, settings Settings) (*S3Client, error) {
	fp := settings.clientFingerprint()
	if client, ok := c.clients.Get(fp); ok {
		return client, nil
	}

	// joined callers share the build, so it outlives the first caller
	buildCtx := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(fp, func() (interface{}, error) {
		if client, ok := c.clients.Get(fp); ok {
			return client, nil
		}
		client, err := NewS3Client(buildCtx, settings, c.cfg)
		if err != nil {
			return nil, err
		}
		c.clients.Add(fp, client)
		return client, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*S3Client), nil
}

// Len reports how many clients are cached.
func (c *S3ClientCache) Len() int {
	return c.clients.Len()
}
