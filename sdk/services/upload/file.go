// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/config"
	uperrors "github.com/scc-digitalhub/s3-uploads-sdk/sdk/errors"
	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/metrics"
	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/policy"
)

// UploadFile validates a local file against the host policy and stores it.
func (s *UploadService) UploadFile(ctx context.Context, req FileRequest) (res *UploadResult, err error) {
	started := time.Now()
	var stored int
	defer func() { s.metrics.Observe(metrics.SourceFile, started, stored, err) }()

	res, stored, err = s.uploadLocal(ctx, s.settings.Current(), req.File, req.Folder)
	return res, err
}

func (s *UploadService) uploadLocal(ctx context.Context, settings config.Settings, f *LocalFile, folder string) (*UploadResult, int, error) {
	if f == nil {
		return nil, 0, &uperrors.InvalidInputError{Field: "file"}
	}
	if f.Path == "" {
		return nil, 0, &uperrors.InvalidInputError{Field: "path"}
	}

	maxKB := s.policy.MaximumFileSize()
	if err := policy.CheckSize(f.Size, maxKB); err != nil {
		return nil, 0, err
	}

	checked := f.OriginalName
	if checked == "" {
		checked = f.Path
	}
	if err := policy.CheckExtension(checked, s.policy.AllowedExtensions()); err != nil {
		return nil, 0, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read %s: %w", f.Path, err)
	}
	// the declared size is what the host saw; the file may have grown since
	if err := policy.CheckSize(int64(len(data)), maxKB); err != nil {
		return nil, 0, err
	}

	name := f.Name
	if name == "" {
		name = f.OriginalName
	}
	if name == "" {
		name = filepath.Base(f.Path)
	}

	url, err := s.put(ctx, settings, name, folder, data)
	if err != nil {
		return nil, 0, err
	}
	return &UploadResult{Name: name, URL: url}, len(data), nil
}
