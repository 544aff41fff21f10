// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/services/upload"
	"github.com/scc-digitalhub/s3-uploads-sdk/sdk/utils"
)

func localFile(p, name string) (*upload.LocalFile, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", p)
	}
	if name == "" {
		name = filepath.Base(abs)
	}
	return &upload.LocalFile{
		Size:         info.Size(),
		Path:         abs,
		Name:         name,
		OriginalName: name,
	}, nil
}

func (c *cli) report(cmd *cobra.Command, res *upload.UploadResult) error {
	if err := printJSON(cmd.OutOrStdout(), res); err != nil {
		return err
	}
	if c.store != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "dry run: %d object(s) kept in memory\n", c.store.Len())
	}
	return nil
}

func newFileCommand(c *cli) *cobra.Command {
	var name, folder string

	cmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Upload a local file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := localFile(args[0], name)
			if err != nil {
				return err
			}
			c.log.Debug("uploading file", zap.String("path", f.Path), zap.String("size", utils.HumanSize(f.Size)))
			res, err := c.svc.UploadFile(cmd.Context(), upload.FileRequest{File: f, Folder: folder})
			if err != nil {
				return err
			}
			return c.report(cmd, res)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name (default: file name)")
	cmd.Flags().StringVar(&folder, "folder", "", "folder under the upload path")
	return cmd
}

func newImageCommand(c *cli) *cobra.Command {
	var folder string
	var dimension int

	cmd := &cobra.Command{
		Use:   "image <url|path>",
		Short: "Upload an image; remote images are cropped to a square",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src upload.Source
			if strings.HasPrefix(args[0], "http://") || strings.HasPrefix(args[0], "https://") {
				src = upload.RemoteURL{URL: args[0], Dimension: dimension}
			} else {
				f, err := localFile(args[0], "")
				if err != nil {
					return err
				}
				src = f
			}

			res, err := c.svc.UploadImage(cmd.Context(), upload.ImageRequest{Image: src, Folder: folder})
			if err != nil {
				return err
			}
			return c.report(cmd, res)
		},
	}
	cmd.Flags().StringVar(&folder, "folder", "", "folder under the upload path")
	cmd.Flags().IntVar(&dimension, "dimension", 0, "square size in pixels for remote images (default: host policy)")
	return cmd
}
