// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package upload

import (
	"context"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/config"
	uperrors "github.com/scc-digitalhub/s3-uploads-sdk/sdk/errors"
	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/imaging"
	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/metrics"
	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/policy"
	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/utils"
)

const defaultImageName = "image"

// UploadImage stores a local image as is, or fetches a remote one and crops
// it to a square first.
func (s *UploadService) UploadImage(ctx context.Context, req ImageRequest) (res *UploadResult, err error) {
	started := time.Now()
	source := metrics.SourceFile
	var stored int
	defer func() { s.metrics.Observe(source, started, stored, err) }()

	settings := s.settings.Current()
	switch img := req.Image.(type) {
	case *LocalFile:
		res, stored, err = s.uploadLocal(ctx, settings, img, req.Folder)
	case LocalFile:
		res, stored, err = s.uploadLocal(ctx, settings, &img, req.Folder)
	case *RemoteURL:
		source = metrics.SourceURL
		if img == nil {
			return nil, &uperrors.InvalidInputError{Field: "url"}
		}
		res, stored, err = s.uploadRemote(ctx, settings, *img, req.Folder)
	case RemoteURL:
		source = metrics.SourceURL
		res, stored, err = s.uploadRemote(ctx, settings, img, req.Folder)
	default:
		return nil, &uperrors.InvalidInputError{Field: "image"}
	}
	return res, err
}

func (s *UploadService) uploadRemote(ctx context.Context, settings config.Settings, r RemoteURL, folder string) (*UploadResult, int, error) {
	if r.URL == "" {
		return nil, 0, &uperrors.InvalidInputError{Field: "url"}
	}
	u, err := url.Parse(r.URL)
	if err != nil {
		return nil, 0, &uperrors.InvalidInputError{Field: "url"}
	}

	if err := policy.CheckExtension(u.Path, s.policy.AllowedExtensions()); err != nil {
		return nil, 0, err
	}

	dim := r.Dimension
	if dim <= 0 {
		dim = s.policy.ProfileImageDimension()
	}

	buf, err := utils.FetchRemote(ctx, s.fetch, r.URL, s.fetchLimit)
	if err != nil {
		return nil, 0, err
	}

	out, err := imaging.ResizeSquare(buf, dim)
	if err != nil {
		return nil, 0, err
	}

	name := remoteFilename(r, u)
	if out.Fallback {
		name = strings.TrimSuffix(name, path.Ext(name)) + out.Ext
	}

	link, err := s.put(ctx, settings, name, folder, out.Data)
	if err != nil {
		return nil, 0, err
	}
	return &UploadResult{Name: name, URL: link}, len(out.Data), nil
}

func remoteFilename(r RemoteURL, u *url.URL) string {
	if r.Filename != "" {
		return r.Filename
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return defaultImageName
	}
	return name
}
